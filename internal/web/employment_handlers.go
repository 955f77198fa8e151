package web

import (
	"context"
	"net/http"

	createemploymenttype "loan-broker/internal/operations/employment/create-employment-type"
	deleteemploymenttype "loan-broker/internal/operations/employment/delete-employment-type"
	listemploymenttypes "loan-broker/internal/operations/employment/list-employment-types"
	renameemploymenttype "loan-broker/internal/operations/employment/rename-employment-type"
)

func (s *Server) listEmploymentTypes(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, listemploymenttypes.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.listEmploymentTypes.Execute(ctx, &listemploymenttypes.Input{Actor: UserFrom(ctx)})
	})
}

func (s *Server) createEmploymentType(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, createemploymenttype.Operation, err)
		return
	}
	s.run(w, r, createemploymenttype.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.createEmploymentType.Execute(ctx, &createemploymenttype.Input{Actor: UserFrom(ctx), Form: r.PostForm})
	})
}

func (s *Server) renameEmploymentType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, renameemploymenttype.Operation, err)
		return
	}
	s.run(w, r, renameemploymenttype.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.renameEmploymentType.Execute(ctx, &renameemploymenttype.Input{Actor: UserFrom(ctx), EmploymentTypeID: id, Form: r.PostForm})
	})
}

func (s *Server) deleteEmploymentType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, deleteemploymenttype.Operation, err)
		return
	}
	s.run(w, r, deleteemploymenttype.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.deleteEmploymentType.Execute(ctx, &deleteemploymenttype.Input{Actor: UserFrom(ctx), EmploymentTypeID: id})
	})
}
