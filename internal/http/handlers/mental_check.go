package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mindcare/mindcare-be/internal/apperr"
	"github.com/mindcare/mindcare-be/internal/http/respond"
	"github.com/mindcare/mindcare-be/internal/middleware"
	"github.com/mindcare/mindcare-be/internal/models"
	"github.com/mindcare/mindcare-be/internal/models/dto"
	"github.com/mindcare/mindcare-be/internal/storage"
)

type MentalCheckHandler struct {
	checks storage.MentalCheckStore
	log    *slog.Logger
}

func NewMentalCheckHandler(checks storage.MentalCheckStore, log *slog.Logger) *MentalCheckHandler {
	return &MentalCheckHandler{checks: checks, log: log}
}

func (h *MentalCheckHandler) Register(mux *http.ServeMux, guard *middleware.Guard) {
	mux.HandleFunc("POST /mentalCheck/{id}", guard.RequireOwner("id", h.handleCreate))
	mux.HandleFunc("GET /mentalCheck/{id}", guard.RequireOwner("id", h.handleList))
}

func (h *MentalCheckHandler) handleCreate(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	var req dto.MentalCheckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validateStruct(req); err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}
	created, err := h.checks.CreateCheck(r.Context(), models.MentalCheck{
		UserID: authz.SubjectID,
		Mood:   req.Mood,
		Notes:  req.Notes,
	})
	if err != nil {
		respond.Fail(w, r, h.log, userStoreError(err))
		return
	}
	respond.JSON(w, http.StatusCreated, "Mental check recorded successfully", created)
}

func (h *MentalCheckHandler) handleList(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	checks, err := h.checks.ListChecks(r.Context(), authz.SubjectID)
	if err != nil {
		respond.Fail(w, r, h.log, apperr.Internal(fmt.Errorf("list mental checks: %w", err)))
		return
	}
	if checks == nil {
		checks = []models.MentalCheck{}
	}
	respond.JSON(w, http.StatusOK, "Mental checks retrieved successfully", checks)
}
