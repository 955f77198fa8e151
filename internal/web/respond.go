package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"loan-broker/internal/common/auth"
	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/metrics"
)

// ActionData is the body of every failed form submission.
type ActionData struct {
	FormError   string            `json:"formError,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, stdErr *apperrors.StandardError, fields map[string]string) {
	if retry, ok := stdErr.Metadata["retryAfterSeconds"].(int); ok && retry > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}
	writeJSON(w, stdErr.HTTPStatus(), ActionData{
		FormError:   stdErr.Message,
		Fields:      fields,
		FieldErrors: stdErr.FieldErrors,
	})
}

// submittedFields echoes a form back to the client without any password.
func submittedFields(r *http.Request) map[string]string {
	if len(r.PostForm) == 0 {
		return nil
	}
	fields := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if strings.Contains(strings.ToLower(key), "password") || len(values) == 0 {
			continue
		}
		fields[key] = values[0]
	}
	return fields
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidIDError(raw)
	}
	return id, nil
}

func parseForm(r *http.Request, maxMemory int64) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return apperrors.NewFormError("Invalid form data")
	}
	return nil
}

// run executes one operation and writes its output, or its error as ActionData.
func (s *Server) run(w http.ResponseWriter, r *http.Request, operation string, fn func(ctx context.Context) (interface{}, error)) {
	ctx := r.Context()
	if s.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := fn(ctx)
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.deps.Observability.RecordOperation(ctx, operation, status, time.Since(start))

	if err != nil {
		s.fail(w, r, operation, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	stdErr := s.errors.HandleRequestError(r.Method, r.URL.Path, err)
	if operation != "" {
		metrics.OperationsFailed.WithLabelValues(operation, string(stdErr.Code)).Inc()
	}
	writeError(w, stdErr, submittedFields(r))
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	if session == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
