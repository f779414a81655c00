package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskboard/pkg/auth"
	"taskboard/pkg/model"
	"taskboard/pkg/store"
)

const sessionCookie = "token"

type ctxKey int

const identityKey ctxKey = 0

// identityFrom returns the authenticated identity placed by requireAuth.
func identityFrom(r *http.Request) auth.Identity {
	ident, _ := r.Context().Value(identityKey).(auth.Identity)
	return ident
}

// requireAuth resolves the session cookie before the handler runs. A
// missing cookie is 401 (nothing presented); a cookie that fails
// verification is 403 (presented but rejected). The decision about what
// the identity may touch stays with the handlers.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			writeError(w, http.StatusUnauthorized, "No token found")
			return
		}
		ident, err := a.Auth.Parse(c.Value)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, ident)))
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	exists, err := a.Store.UserExists(req.Username, req.Email)
	if err != nil {
		a.internalError(w, "register exists check", err)
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.internalError(w, "register hash", err)
		return
	}
	user, err := a.Store.CreateUser(model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	})
	if err != nil {
		a.internalError(w, "register create", err)
		return
	}
	_ = a.Store.AppendAudit(model.AuditEntry{
		Actor:  user.Username,
		Action: "register",
		Target: user.Username,
	})
	writeJSON(w, http.StatusOK, map[string]string{"msg": "User registered successfully"})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if a.LoginLimit != nil && !a.LoginLimit.Allow(remoteIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many requests")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username & password required")
		return
	}

	user, err := a.Store.GetUserByUsername(req.Username)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		a.internalError(w, "login lookup", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := a.Auth.Issue(user.ID, user.Role)
	if err != nil {
		a.internalError(w, "login issue token", err)
		return
	}
	a.setSessionCookie(w, token, a.Auth.TTL())
	_ = a.Store.AppendAudit(model.AuditEntry{
		Actor:  user.Username,
		Action: "login",
		Target: user.Username,
	})
	// The token rides in the body as well as the cookie so non-browser
	// clients can use it; the server itself only ever reads the cookie.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"msg":   "Login successful",
		"token": token,
		"role":  user.Role,
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ident := identityFrom(r)
	user, err := a.Store.GetUser(ident.UserID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		a.internalError(w, "me lookup", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// handleLogout clears the cookie and nothing more. The token itself stays
// valid until expiry; there is no server-side revocation.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	a.setSessionCookie(w, "", -time.Second)
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Logged out successfully"})
}

func (a *API) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}
	http.SetCookie(w, c)
}

// internalError logs the cause and returns a generic message; details
// never reach the client.
func (a *API) internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s failed: %v", op, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
