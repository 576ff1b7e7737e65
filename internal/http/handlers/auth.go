package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mindcare/mindcare-be/internal/apperr"
	"github.com/mindcare/mindcare-be/internal/auth"
	"github.com/mindcare/mindcare-be/internal/http/respond"
	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/models/dto"
	"github.com/mindcare/mindcare-be/internal/storage"
)

const (
	msgDuplicateEmail     = "User with this email already exist"
	msgInvalidCredentials = "Invalid email or password"
	msgPasswordTooLong    = "Password must be at most 72 bytes long"
)

var authAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mindcare_auth_attempts_total",
		Help: "Register and login attempts by outcome",
	},
	[]string{"action", "outcome"},
)

// AuthHandler owns register/login/logout.
type AuthHandler struct {
	users  storage.UserStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	cookie auth.SessionCookie
	log    *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, cookie auth.SessionCookie, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, hasher: hasher, tokens: tokens, cookie: cookie, log: log}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		h.fail(w, r, "register", err)
		return
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		h.fail(w, r, "register", apperr.Validation(msgPasswordTooLong))
		return
	}

	if _, err := h.users.FindUserByEmail(r.Context(), req.Email); err == nil {
		h.fail(w, r, "register", apperr.Conflict(msgDuplicateEmail))
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.fail(w, r, "register", apperr.Internal(err))
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			h.fail(w, r, "register", apperr.Validation(fieldMessages["password.min"]))
			return
		}
		if errors.Is(err, auth.ErrPasswordTooLong) {
			h.fail(w, r, "register", apperr.Validation(msgPasswordTooLong))
			return
		}
		h.fail(w, r, "register", apperr.Internal(err))
		return
	}

	created, err := h.users.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			h.fail(w, r, "register", apperr.Conflict(msgDuplicateEmail))
			return
		}
		h.fail(w, r, "register", apperr.Internal(fmt.Errorf("create user: %w", err)))
		return
	}

	if err := h.startSession(w, created); err != nil {
		h.fail(w, r, "register", apperr.Internal(err))
		return
	}

	authAttempts.WithLabelValues("register", "success").Inc()
	h.log.InfoContext(r.Context(), "user registered", "user_id", created.ID)
	respond.JSON(w, http.StatusCreated,
		fmt.Sprintf("Welcome to MindCare, %s!", created.Username),
		dto.SessionResponse{ID: created.ID, Username: created.Username},
	)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.fail(w, r, "login", apperr.Unauthenticated(msgInvalidCredentials, err))
			return
		}
		h.fail(w, r, "login", apperr.Internal(fmt.Errorf("find user: %w", err)))
		return
	}

	ok, err := h.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		h.fail(w, r, "login", apperr.Internal(err))
		return
	}
	if !ok {
		h.fail(w, r, "login", apperr.Unauthenticated(msgInvalidCredentials, nil))
		return
	}

	if err := h.startSession(w, user); err != nil {
		h.fail(w, r, "login", apperr.Internal(err))
		return
	}

	authAttempts.WithLabelValues("login", "success").Inc()
	respond.JSON(w, http.StatusOK,
		fmt.Sprintf("Welcome back, %s!", user.Username),
		dto.SessionResponse{ID: user.ID, Username: user.Username},
	)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookie.Clear(w)
	respond.JSON(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user models.User) error {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	h.cookie.Set(w, token)
	return nil
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	authAttempts.WithLabelValues(action, strings.ToLower(apperr.As(err).Kind.String())).Inc()
	respond.Fail(w, r, h.log, err)
}
