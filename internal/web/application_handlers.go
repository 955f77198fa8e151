package web

import (
	"context"
	"net/http"

	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	deleteapplication "loan-broker/internal/operations/application/delete-application"
	editapplication "loan-broker/internal/operations/application/edit-application"
	forwardapplication "loan-broker/internal/operations/application/forward-application"
	listapplications "loan-broker/internal/operations/application/list-applications"
	recorddecision "loan-broker/internal/operations/application/record-decision"
	searchapplications "loan-broker/internal/operations/application/search-applications"
	submitapplication "loan-broker/internal/operations/application/submit-application"
	viewapplication "loan-broker/internal/operations/application/view-application"
)

// Values of the actionId field posted to /applications/{id}.
const (
	ActionApprove = "Approve"
	ActionDecline = "Decline"
	ActionDelete  = "Delete"
)

var actionForm = validation.Form{
	"actionId": {Kind: validation.KindString},
	"comment":  {Kind: validation.KindString, Optional: true},
}

func actionSchema() validation.JSONSchema {
	return validation.NewSchema(map[string]validation.Property{
		"actionId": {Type: "string", Enum: []string{ActionApprove, ActionDecline, ActionDelete}},
		"comment":  validation.String(0, recorddecision.MaxCommentLength),
	}, "actionId")
}

type actionFields struct {
	ActionID string `json:"actionId"`
	Comment  string `json:"comment"`
}

func (s *Server) submitApplication(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, submitapplication.Operation, err)
		return
	}
	s.run(w, r, submitapplication.Operation, func(ctx context.Context) (interface{}, error) {
		out, err := s.ops.submitApplication.Execute(ctx, &submitapplication.Input{Actor: UserFrom(ctx), Form: r.PostForm})
		if err != nil {
			return nil, err
		}
		s.setSessionCookie(w, out.Session)
		return out, nil
	})
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, listapplications.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.listApplications.Execute(ctx, &listapplications.Input{Actor: UserFrom(ctx)})
	})
}

func (s *Server) searchApplications(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, searchapplications.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.searchApplications.Execute(ctx, &searchapplications.Input{Actor: UserFrom(ctx), Query: r.URL.Query()})
	})
}

func (s *Server) viewApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, viewapplication.Operation, err)
		return
	}
	s.run(w, r, viewapplication.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.viewApplication.Execute(ctx, &viewapplication.Input{Actor: UserFrom(ctx), ApplicationID: id})
	})
}

// applicationAction dispatches the Approve, Decline and Delete buttons of the
// application page.
func (s *Server) applicationAction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, "application-action", err)
		return
	}

	var fields actionFields
	if err := validation.Bind(r.PostForm, actionForm, actionSchema(), &fields); err != nil {
		s.fail(w, r, "application-action", err)
		return
	}

	if fields.ActionID == ActionDelete {
		s.run(w, r, deleteapplication.Operation, func(ctx context.Context) (interface{}, error) {
			return s.ops.deleteApplication.Execute(ctx, &deleteapplication.Input{Actor: UserFrom(ctx), ApplicationID: id})
		})
		return
	}

	decision := models.StateApproved
	if fields.ActionID == ActionDecline {
		decision = models.StateDeclined
	}
	s.run(w, r, recorddecision.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.recordDecision.Execute(ctx, &recorddecision.Input{
			Actor:         UserFrom(ctx),
			ApplicationID: id,
			Decision:      decision,
			Comment:       fields.Comment,
		})
	})
}

func (s *Server) editApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, editapplication.Operation, err)
		return
	}
	s.run(w, r, editapplication.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.editApplication.Execute(ctx, &editapplication.Input{Actor: UserFrom(ctx), ApplicationID: id, Form: r.PostForm})
	})
}

func (s *Server) forwardApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, forwardapplication.Operation, err)
		return
	}
	s.run(w, r, forwardapplication.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.forwardApplication.Execute(ctx, &forwardapplication.Input{Actor: UserFrom(ctx), ApplicationID: id, Form: r.PostForm})
	})
}
