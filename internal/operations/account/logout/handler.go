package logout

import (
	"context"

	"loan-broker/internal/common/logger"
)

const (
	Operation = "logout"
)

type SessionDestroyer interface {
	Destroy(ctx context.Context, token string) error
}

// Handler ends a session. The cookie is always cleared by the caller, so a failure to
// delete the Redis record is logged and otherwise ignored.
type Handler struct {
	config   *Config
	sessions SessionDestroyer
	logger   logger.Logger
}

func NewHandler(config *Config, sessions SessionDestroyer, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		sessions: sessions,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if input.Token != "" {
		if err := h.sessions.Destroy(ctx, input.Token); err != nil {
			h.logger.Warn("failed to destroy session", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return &Output{RedirectTo: "/"}, nil
}
