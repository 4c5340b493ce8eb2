package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/multisession/internal/common"
	"github.com/dmitrijs2005/multisession/internal/server/users"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// validationError is one item of a 422 "detail" list.
type validationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Login handles POST /api/auth/login with form fields username and password.
// The username field may also hold an email.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeValidation(w, validationError{Loc: []string{"body"}, Msg: "invalid form body", Type: "value_error"})
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	var missing []validationError
	if username == "" {
		missing = append(missing, fieldRequired("username"))
	}
	if password == "" {
		missing = append(missing, fieldRequired("password"))
	}
	if len(missing) > 0 {
		writeValidation(w, missing...)
		return
	}

	token, user, err := h.users.Login(r.Context(), username, password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	})
}

// Register handles POST /api/auth/register with a JSON body.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, validationError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "value_error.jsondecode"})
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Registered", "username", user.UserName)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "Registration successful",
		"username": user.UserName,
	})
}

// Me handles GET /api/auth/me with an "Authorization: Bearer" header.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, common.BearerPrefix) || len(header) == len(common.BearerPrefix) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.users.Me(r.Context(), strings.TrimPrefix(header, common.BearerPrefix))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	detail := users.Detail(err)
	switch {
	case errors.Is(err, users.ErrInvalidEmail):
		writeValidation(w, validationError{Loc: []string{"body", "email"}, Msg: detail, Type: "value_error.email"})
	case errors.Is(err, users.ErrMissingField):
		writeValidation(w, validationError{Loc: []string{"body"}, Msg: detail, Type: "value_error.missing"})
	case errors.Is(err, users.ErrUsernameTaken), errors.Is(err, users.ErrEmailTaken), errors.Is(err, common.ErrorInvalidRole):
		writeDetail(w, http.StatusBadRequest, detail)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, detail)
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeDetail(w, http.StatusInternalServerError, detail)
	}
}

func (h *Handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug(r.Context(), "http request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{ID: u.ID, Username: u.UserName, Email: u.Email, Role: u.Role}
}

func fieldRequired(field string) validationError {
	return validationError{Loc: []string{"body", field}, Msg: "field required", Type: "value_error.missing"}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidation(w http.ResponseWriter, errs ...validationError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]validationError{"detail": errs})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
