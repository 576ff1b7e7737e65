package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mindcare/mindcare-be/internal/apperr"
	"github.com/mindcare/mindcare-be/internal/auth"
	"github.com/mindcare/mindcare-be/internal/http/respond"
	"github.com/mindcare/mindcare-be/internal/middleware"
	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/models/dto"
	"github.com/mindcare/mindcare-be/internal/storage"
)

const msgUserNotFound = "User not found"

// UserHandler serves the owner-only profile routes.
type UserHandler struct {
	users  storage.UserStore
	cookie auth.SessionCookie
	log    *slog.Logger
}

func NewUserHandler(users storage.UserStore, cookie auth.SessionCookie, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, cookie: cookie, log: log}
}

func (h *UserHandler) Register(mux *http.ServeMux, guard *middleware.Guard) {
	mux.HandleFunc("GET /user/profile/{id}", guard.RequireOwner("id", h.handleGetProfile))
	mux.HandleFunc("PUT /user/{id}", guard.RequireOwner("id", h.handleUpdateProfile))
	mux.HandleFunc("DELETE /user/{id}", guard.RequireOwner("id", h.handleDeleteProfile))
}

func (h *UserHandler) handleGetProfile(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	user, err := h.users.FindUserByID(r.Context(), authz.SubjectID)
	if err != nil {
		respond.Fail(w, r, h.log, userStoreError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "Profile retrieved successfully", profileOf(user))
}

func (h *UserHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	var req dto.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}
	if req.Username == nil && req.Email == nil {
		respond.Fail(w, r, h.log, apperr.Validation("Please provide a username or email to update"))
		return
	}
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		if trimmed == "" {
			respond.Fail(w, r, h.log, apperr.Validation(fieldMessages["username.min"]))
			return
		}
		req.Username = &trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		req.Email = &trimmed
	}
	if err := validateStruct(req); err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}

	updated, err := h.users.UpdateUser(r.Context(), authz.SubjectID, models.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		respond.Fail(w, r, h.log, userStoreError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "Profile updated successfully", profileOf(updated))
}

func (h *UserHandler) handleDeleteProfile(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	if err := h.users.DeleteUser(r.Context(), authz.SubjectID); err != nil {
		respond.Fail(w, r, h.log, userStoreError(err))
		return
	}
	h.cookie.Clear(w)
	h.log.InfoContext(r.Context(), "user deleted", "user_id", authz.SubjectID)
	respond.JSON(w, http.StatusOK, "Account deleted successfully", nil)
}

func profileOf(u models.User) dto.ProfileResponse {
	return dto.ProfileResponse{Username: u.Username, Email: u.Email, Joined: u.CreatedAt}
}

func userStoreError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound(msgUserNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperr.Conflict(msgDuplicateEmail)
	default:
		return apperr.Internal(fmt.Errorf("user store: %w", err))
	}
}
