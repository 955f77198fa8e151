package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "loan-broker/internal/common/errors"
)

func (s *Server) routes() {
	r := s.router
	r.Use(s.observe, s.limiter.Middleware)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.ready).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	app := r.NewRoute().Subrouter()
	app.Use(s.authenticate)

	app.HandleFunc("/", s.searchLenders).Methods(http.MethodGet)

	app.HandleFunc("/join", s.join).Methods(http.MethodPost)
	app.HandleFunc("/login", s.login).Methods(http.MethodPost)
	app.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	app.HandleFunc("/my-account", s.myAccount).Methods(http.MethodGet)
	app.HandleFunc("/my-account", s.editAccount).Methods(http.MethodPost)
	app.HandleFunc("/change-password", s.changePassword).Methods(http.MethodPost)

	app.HandleFunc("/apply", s.submitApplication).Methods(http.MethodPost)
	app.HandleFunc("/applications", s.listApplications).Methods(http.MethodGet)
	app.HandleFunc("/applications/search", s.searchApplications).Methods(http.MethodGet)
	app.HandleFunc("/applications/{id}", s.viewApplication).Methods(http.MethodGet)
	app.HandleFunc("/applications/{id}", s.applicationAction).Methods(http.MethodPost)
	app.HandleFunc("/applications/{id}/edit", s.editApplication).Methods(http.MethodPost)
	app.HandleFunc("/applications/{id}/lenders", s.forwardApplication).Methods(http.MethodPost)

	app.HandleFunc("/lenders", s.listLenders).Methods(http.MethodGet)
	app.HandleFunc("/lenders", s.createLender).Methods(http.MethodPost)
	app.HandleFunc("/lenders/{id}", s.viewLender).Methods(http.MethodGet)
	app.HandleFunc("/lenders/{id}", s.editLender).Methods(http.MethodPost)
	app.HandleFunc("/lenders/{id}", s.deactivateLender).Methods(http.MethodDelete)
	app.HandleFunc("/lenders/{id}/employment-types", s.setEmploymentPreferences).Methods(http.MethodPost)
	app.HandleFunc("/lenders/{id}/change-password", s.changeLenderPassword).Methods(http.MethodPost)

	app.HandleFunc("/admins", s.listAdmins).Methods(http.MethodGet)
	app.HandleFunc("/admins", s.createAdmin).Methods(http.MethodPost)
	app.HandleFunc("/admins/{id}", s.editAdmin).Methods(http.MethodPost)
	app.HandleFunc("/admins/{id}", s.deleteAdmin).Methods(http.MethodDelete)
	app.HandleFunc("/admins/{id}/change-password", s.changeAdminPassword).Methods(http.MethodPost)

	app.HandleFunc("/employment-types", s.listEmploymentTypes).Methods(http.MethodGet)
	app.HandleFunc("/employment-types", s.createEmploymentType).Methods(http.MethodPost)
	app.HandleFunc("/employment-types/{id}", s.renameEmploymentType).Methods(http.MethodPost)
	app.HandleFunc("/employment-types/{id}", s.deleteEmploymentType).Methods(http.MethodDelete)

	app.HandleFunc("/uploads", s.uploadImage).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = s.observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apperrors.NewInvalidMethodError(r.Method), nil)
	}))
	r.NotFoundHandler = s.observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apperrors.NewNotFoundError("Page not found"), nil)
	}))
}
