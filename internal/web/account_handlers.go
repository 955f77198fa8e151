package web

import (
	"context"
	"net/http"

	apperrors "loan-broker/internal/common/errors"
	changepassword "loan-broker/internal/operations/account/change-password"
	editaccount "loan-broker/internal/operations/account/edit-account"
	"loan-broker/internal/operations/account/join"
	"loan-broker/internal/operations/account/login"
	"loan-broker/internal/operations/account/logout"
)

func (s *Server) join(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, join.Operation, err)
		return
	}
	s.run(w, r, join.Operation, func(ctx context.Context) (interface{}, error) {
		out, err := s.ops.join.Execute(ctx, &join.Input{Actor: UserFrom(ctx), Form: r.PostForm})
		if err != nil {
			return nil, err
		}
		s.setSessionCookie(w, out.Session)
		return out, nil
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, login.Operation, err)
		return
	}
	s.run(w, r, login.Operation, func(ctx context.Context) (interface{}, error) {
		out, err := s.ops.login.Execute(ctx, &login.Input{Form: r.PostForm})
		if err != nil {
			return nil, err
		}
		s.setSessionCookie(w, out.Session)
		return out, nil
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		token = cookie.Value
	}
	s.run(w, r, logout.Operation, func(ctx context.Context) (interface{}, error) {
		out, err := s.ops.logout.Execute(ctx, &logout.Input{Token: token})
		if err != nil {
			return nil, err
		}
		s.clearSessionCookie(w)
		return out, nil
	})
}

// myAccount returns the signed-in user.
func (s *Server) myAccount(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		s.fail(w, r, "", apperrors.NewUnauthorisedError(""))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *Server) editAccount(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, editaccount.Operation, err)
		return
	}
	s.run(w, r, editaccount.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.editAccount.Execute(ctx, &editaccount.Input{Actor: UserFrom(ctx), Form: r.PostForm})
	})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r, s.maxUpload); err != nil {
		s.fail(w, r, changepassword.Operation, err)
		return
	}
	s.run(w, r, changepassword.Operation, func(ctx context.Context) (interface{}, error) {
		return s.ops.changePassword.Execute(ctx, &changepassword.Input{Actor: UserFrom(ctx), Form: r.PostForm})
	})
}
