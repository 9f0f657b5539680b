package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/cesta/internal/auth"
	"github.com/dukerupert/cesta/internal/middleware"
	"github.com/dukerupert/cesta/internal/model"
	"github.com/dukerupert/cesta/internal/shopping"
	"github.com/dukerupert/cesta/internal/store"
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	svc          *shopping.Service
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, svc *shopping.Service, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		svc:          svc,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Name      string `json:"name" validate:"required,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Register creates the account, starts a session and gives the new user
// their first list.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode register", err)
		return
	}

	user, err := h.userStore.Create(req.Email, strings.TrimSpace(req.Name), req.AvatarURL, req.Password)
	if errors.Is(err, store.ErrEmailTaken) {
		writeJSON(w, http.StatusConflict, errorBody{Error: "email already registered", Code: "conflict"})
		return
	}
	if err != nil {
		writeError(w, h.logger, "create user", err)
		return
	}

	if err := h.ensureList(user.ID); err != nil {
		writeError(w, h.logger, "create first list", err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	h.startSession(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode login", err)
		return
	}

	user, err := h.userStore.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, "authenticate", err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid email or password", Code: "unauthorized"})
		return
	}
	if err := h.ensureList(user.ID); err != nil {
		writeError(w, h.logger, "create first list", err)
		return
	}

	h.startSession(w, http.StatusOK, user)
}

// ensureList gives a user without lists the default one. Lists live in
// memory, so this also covers accounts created by the CLI and restarts.
func (h *AuthHandler) ensureList(userID string) error {
	if len(h.svc.Lists(userID)) > 0 {
		return nil
	}
	_, err := h.svc.CreateList(userID, shopping.DefaultListName)
	return err
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, user *model.User) {
	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		writeError(w, h.logger, "create session", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, status, sessionResponse{User: user, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := auth.SessionID(r.Context()); id != 0 {
		if err := h.sessionStore.Delete(id); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "get user", err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "user not found", Code: string(shopping.KindNotFound)})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profileRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, "decode profile", err)
		return
	}
	user, err := h.userStore.Update(auth.UserID(r.Context()), strings.TrimSpace(req.Name), req.AvatarURL)
	if err != nil {
		writeError(w, h.logger, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
