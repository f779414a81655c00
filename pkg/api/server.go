package api

import (
	"net/http"

	"taskboard/pkg/auth"
	"taskboard/pkg/store"
)

// API holds the handler dependencies: persistence, token manager and the
// login rate limiter. One instance serves all requests.
type API struct {
	Store      store.Store
	Auth       *auth.Manager
	LoginLimit *IPLimiter
}

func New(st store.Store, am *auth.Manager, ll *IPLimiter) *API {
	return &API{Store: st, Auth: am, LoginLimit: ll}
}

// RegisterRoutes wires the HTTP handlers on the provided mux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/register", a.handleRegister)
	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/me", a.requireAuth(a.handleMe))
	mux.HandleFunc("/tasks", a.requireAuth(a.handleTasks))
	mux.HandleFunc("/tasks/", a.requireAuth(a.handleTaskByID))
	mux.HandleFunc("/audit", a.requireAuth(a.handleAudit))
}

// Handler returns the full stack: routes wrapped in access logging.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.RegisterRoutes(mux)
	return WithRequestLog(mux)
}
