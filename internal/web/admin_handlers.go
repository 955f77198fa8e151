package web

import (
	"context"
	"net/http"

	changeadminpassword "loan-broker/internal/operations/admin/change-admin-password"
	createadmin "loan-broker/internal/operations/admin/create-admin"
	deleteadmin "loan-broker/internal/operations/admin/delete-admin"
	editadmin "loan-broker/internal/operations/admin/edit-admin"
	listadmins "loan-broker/internal/operations/admin/list-admins"
)

func (s *Server) listAdmins(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, listadmins.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.listAdmins.Execute(ctx, &listadmins.Input{Actor: UserFrom(ctx)})
	})
}

func (s *Server) createAdmin(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, createadmin.Operation, err)
		return
	}
	s.run(w, r, createadmin.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.createAdmin.Execute(ctx, &createadmin.Input{Actor: UserFrom(ctx), Form: r.PostForm})
	})
}

func (s *Server) editAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, editadmin.Operation, err)
		return
	}
	s.run(w, r, editadmin.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.editAdmin.Execute(ctx, &editadmin.Input{Actor: UserFrom(ctx), AdminID: id, Form: r.PostForm})
	})
}

func (s *Server) changeAdminPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, changeadminpassword.Operation, err)
		return
	}
	s.run(w, r, changeadminpassword.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.changeAdminPassword.Execute(ctx, &changeadminpassword.Input{Actor: UserFrom(ctx), AdminID: id, Form: r.PostForm})
	})
}

func (s *Server) deleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, deleteadmin.Operation, err)
		return
	}
	s.run(w, r, deleteadmin.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.deleteAdmin.Execute(ctx, &deleteadmin.Input{Actor: UserFrom(ctx), AdminID: id})
	})
}
