package errors

import (
	"time"
)

type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError normalises err, logs it and returns the error safe to render.
// Server-side failures always come back with the generic message.
func (h *ErrorHandler) HandleRequestError(method, path string, err error) *StandardError {
	stdErr := h.normalizeError(err)
	h.logError(method, path, stdErr)

	if IsClientError(stdErr.Code) || stdErr.Code == ErrCodeServiceUnavailable {
		return stdErr
	}

	return &StandardError{
		Code:      stdErr.Code,
		Message:   MsgGeneric,
		Retryable: stdErr.Retryable,
		Timestamp: stdErr.Timestamp,
	}
}

func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   MsgGeneric,
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(method, path string, stdErr *StandardError) {
	fields := map[string]interface{}{
		"method":        method,
		"path":          path,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"status":        stdErr.HTTPStatus(),
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if len(stdErr.FieldErrors) > 0 {
		fields["fieldErrors"] = stdErr.FieldErrors
	}

	if IsClientError(stdErr.Code) {
		h.logger.Warn("Request rejected", fields)
		return
	}
	h.logger.Error("Request failed", fields)
}
