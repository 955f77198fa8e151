package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-broker/internal/models"

	"github.com/lib/pq"
)

func scanChannels(rows *sql.Rows) ([]models.Channel, error) {
	defer rows.Close()

	var out []models.Channel
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.ApplicationID, &c.LenderID, &c.LenderName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListChannels returns an application's channels, newest first, with decisions attached.
func ListChannels(ctx context.Context, q Querier, applicationID int64) ([]models.Channel, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.application_id, c.lender_id, u.full_name, c.created_at
		FROM channels c
		JOIN lenders l ON l.id = c.lender_id
		JOIN users u ON u.id = l.user_id
		WHERE c.application_id = $1
		ORDER BY c.created_at DESC, c.id DESC`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list channels for application %d: %w", applicationID, err)
	}
	channels, err := scanChannels(rows)
	if err != nil {
		return nil, err
	}
	return attachDecisions(ctx, q, channels)
}

func attachDecisions(ctx context.Context, q Querier, channels []models.Channel) ([]models.Channel, error) {
	if len(channels) == 0 {
		return channels, nil
	}

	ids := make([]int64, len(channels))
	index := make(map[int64]int, len(channels))
	for i, c := range channels {
		ids[i] = c.ID
		index[c.ID] = i
	}

	decisions, err := ListDecisions(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range decisions {
		i := index[d.ChannelID]
		channels[i].Decisions = append(channels[i].Decisions, d)
	}
	return channels, nil
}

// ListDecisions returns the decisions of the given channels, newest first.
func ListDecisions(ctx context.Context, q Querier, channelIDs []int64) ([]models.Decision, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, channel_id, decision, comment, created_at
		FROM decisions
		WHERE channel_id = ANY($1)
		ORDER BY created_at DESC, id DESC`, pq.Array(channelIDs))
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []models.Decision
	for rows.Next() {
		var d models.Decision
		if err := rows.Scan(&d.ID, &d.ChannelID, &d.Decision, &d.Comment, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ChannelLenderIDs returns the lenders an application is currently routed to.
func ChannelLenderIDs(ctx context.Context, q Querier, applicationID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT lender_id FROM channels WHERE application_id = $1 ORDER BY id`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list channel lenders: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lender id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// GetChannel returns the channel between an application and a lender.
func GetChannel(ctx context.Context, q Querier, applicationID, lenderID int64) (*models.Channel, error) {
	var c models.Channel
	err := q.QueryRowContext(ctx, `
		SELECT id, application_id, lender_id, created_at
		FROM channels
		WHERE application_id = $1 AND lender_id = $2`, applicationID, lenderID,
	).Scan(&c.ID, &c.ApplicationID, &c.LenderID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &c, nil
}

func CreateChannel(ctx context.Context, q Querier, applicationID, lenderID int64) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`INSERT INTO channels (application_id, lender_id) VALUES ($1, $2) RETURNING id`,
		applicationID, lenderID,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("insert channel: %w", err)
	}
	return id, nil
}

// EnsureChannel creates the channel unless it already exists.
func EnsureChannel(ctx context.Context, q Querier, applicationID, lenderID int64) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO channels (application_id, lender_id) VALUES ($1, $2)
		ON CONFLICT (application_id, lender_id) DO NOTHING`,
		applicationID, lenderID,
	)
	if err != nil {
		return fmt.Errorf("ensure channel: %w", err)
	}
	return nil
}

// DeleteChannel removes the channel of one application to one lender; decisions cascade.
func DeleteChannel(ctx context.Context, q Querier, applicationID, lenderID int64) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM channels WHERE application_id = $1 AND lender_id = $2`,
		applicationID, lenderID,
	)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

// CreateDecision appends a decision to a channel.
func CreateDecision(ctx context.Context, q Querier, d *models.Decision) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO decisions (channel_id, decision, comment)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		d.ChannelID, d.Decision, d.Comment,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}
