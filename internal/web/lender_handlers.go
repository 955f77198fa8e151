package web

import (
	"context"
	"net/http"

	changelenderpassword "loan-broker/internal/operations/lender/change-lender-password"
	createlender "loan-broker/internal/operations/lender/create-lender"
	deactivatelender "loan-broker/internal/operations/lender/deactivate-lender"
	editlender "loan-broker/internal/operations/lender/edit-lender"
	listlenders "loan-broker/internal/operations/lender/list-lenders"
	searchlenders "loan-broker/internal/operations/lender/search-lenders"
	setemploymentpreferences "loan-broker/internal/operations/lender/set-employment-preferences"
	viewlender "loan-broker/internal/operations/lender/view-lender"
)

// searchLenders serves the public home page.
func (s *Server) searchLenders(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, searchlenders.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.searchLenders.Execute(ctx, &searchlenders.Input{Query: r.URL.Query()})
	})
}

func (s *Server) listLenders(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, listlenders.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.listLenders.Execute(ctx, &listlenders.Input{Actor: UserFrom(ctx)})
	})
}

func (s *Server) createLender(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, createlender.Operation, err)
		return
	}
	s.run(w, r, createlender.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.createLender.Execute(ctx, &createlender.Input{Actor: UserFrom(ctx), Form: r.PostForm})
	})
}

func (s *Server) viewLender(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, viewlender.Operation, err)
		return
	}
	s.run(w, r, viewlender.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.viewLender.Execute(ctx, &viewlender.Input{Actor: UserFrom(ctx), LenderID: id})
	})
}

func (s *Server) editLender(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, editlender.Operation, err)
		return
	}
	s.run(w, r, editlender.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.editLender.Execute(ctx, &editlender.Input{Actor: UserFrom(ctx), LenderID: id, Form: r.PostForm})
	})
}

func (s *Server) deactivateLender(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, deactivatelender.Operation, err)
		return
	}
	s.run(w, r, deactivatelender.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.deactivateLender.Execute(ctx, &deactivatelender.Input{Actor: UserFrom(ctx), LenderID: id})
	})
}

func (s *Server) setEmploymentPreferences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, setemploymentpreferences.Operation, err)
		return
	}
	s.run(w, r, setemploymentpreferences.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.setPreferences.Execute(ctx, &setemploymentpreferences.Input{Actor: UserFrom(ctx), LenderID: id, Form: r.PostForm})
	})
}

func (s *Server) changeLenderPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = parseForm(r, s.maxUpload)
	}
	if err != nil {
		s.fail(w, r, changelenderpassword.Operation, err)
		return
	}
	s.run(w, r, changelenderpassword.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.changeLenderPassword.Execute(ctx, &changelenderpassword.Input{Actor: UserFrom(ctx), LenderID: id, Form: r.PostForm})
	})
}
