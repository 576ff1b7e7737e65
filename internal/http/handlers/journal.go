package handlers

import (
	"errors"
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

// JournalHandler serves a user's journal entries. Every route is scoped to the
// user id in the path.
type JournalHandler struct {
	journals storage.JournalStore
	log      *slog.Logger
}

func NewJournalHandler(journals storage.JournalStore, log *slog.Logger) *JournalHandler {
	return &JournalHandler{journals: journals, log: log}
}

func (h *JournalHandler) Register(mux *http.ServeMux, guard *middleware.Guard) {
	mux.HandleFunc("GET /journal/{id}/journals", guard.RequireOwner("id", h.handleList))
	mux.HandleFunc("POST /journal/{id}/create", guard.RequireOwner("id", h.handleCreate))
	mux.HandleFunc("PUT /journal/{id}/update/{entryId}", guard.RequireOwner("id", h.handleUpdate))
	mux.HandleFunc("DELETE /journal/{id}/delete/{entryId}", guard.RequireOwner("id", h.handleDelete))
	mux.HandleFunc("GET /journal/{id}/types", guard.RequireOwner("id", h.handleTypes))
}

func (h *JournalHandler) handleList(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	entries, err := h.journals.ListEntries(r.Context(), authz.SubjectID)
	if err != nil {
		respond.Fail(w, r, h.log, apperr.Internal(fmt.Errorf("list journal entries: %w", err)))
		return
	}
	if len(entries) == 0 {
		respond.Fail(w, r, h.log, apperr.NotFound("No journal entries found"))
		return
	}
	respond.JSON(w, http.StatusOK, "Journal entries retrieved successfully", entries)
}

func (h *JournalHandler) handleCreate(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	req, err := decodeJournal(w, r)
	if err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}
	created, err := h.journals.CreateEntry(r.Context(), models.JournalEntry{
		UserID: authz.SubjectID,
		Name:   req.Name,
		Prompt: req.Prompt,
	})
	if err != nil {
		respond.Fail(w, r, h.log, journalStoreError(err))
		return
	}
	respond.JSON(w, http.StatusCreated, "Journal entry created successfully", created)
}

func (h *JournalHandler) handleUpdate(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	req, err := decodeJournal(w, r)
	if err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}
	updated, err := h.journals.UpdateEntry(r.Context(), models.JournalEntry{
		ID:     r.PathValue("entryId"),
		UserID: authz.SubjectID,
		Name:   req.Name,
		Prompt: req.Prompt,
	})
	if err != nil {
		respond.Fail(w, r, h.log, journalStoreError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "Journal entry updated successfully", updated)
}

func (h *JournalHandler) handleDelete(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	if err := h.journals.DeleteEntry(r.Context(), authz.SubjectID, r.PathValue("entryId")); err != nil {
		respond.Fail(w, r, h.log, journalStoreError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "Journal entry deleted successfully", nil)
}

func (h *JournalHandler) handleTypes(w http.ResponseWriter, r *http.Request, _ middleware.AuthorizationContext) {
	types, err := h.journals.ListTypes(r.Context())
	if err != nil {
		respond.Fail(w, r, h.log, apperr.Internal(fmt.Errorf("list journal types: %w", err)))
		return
	}
	if len(types) == 0 {
		respond.Fail(w, r, h.log, apperr.NotFound("No journal types found"))
		return
	}
	respond.JSON(w, http.StatusOK, "Journal types retrieved successfully", types)
}

func decodeJournal(w http.ResponseWriter, r *http.Request) (dto.JournalRequest, error) {
	var req dto.JournalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Prompt = strings.TrimSpace(req.Prompt)
	return req, validateStruct(req)
}

func journalStoreError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("Journal entry not found")
	}
	return apperr.Internal(fmt.Errorf("journal store: %w", err))
}
