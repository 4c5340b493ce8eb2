// Package httpapi exposes the auth service as the JSON HTTP API under
// /api/auth, with FastAPI-compatible error bodies.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/multisession/internal/logging"
	"github.com/dmitrijs2005/multisession/internal/server/users"
)

type Handlers struct {
	users  *users.Service
	logger logging.Logger
}

// NewRouter wires the auth endpoints.
func NewRouter(us *users.Service, l logging.Logger) *mux.Router {
	h := &Handlers{users: us, logger: l.With("module", "http_api")}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/me", h.Me).Methods(http.MethodGet)

	r.Use(h.logRequests)
	return r
}
