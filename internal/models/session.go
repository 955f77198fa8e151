package models

import "time"

// SessionRecord is the server-side half of a session, stored in Redis.
type SessionRecord struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	Remember  bool      `json:"remember"`
}

func (s *SessionRecord) IsExpired(ttl time.Duration) bool {
	return time.Now().After(s.CreatedAt.Add(ttl))
}
