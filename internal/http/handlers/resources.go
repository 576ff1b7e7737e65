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

// ResourceHandler serves one resource collection under a route prefix. Any
// authenticated user may read and manage it.
type ResourceHandler struct {
	resources storage.ResourceStore
	kind      models.ResourceKind
	prefix    string
	log       *slog.Logger
}

// NewResourceHandler binds kind to the routes under /prefix.
func NewResourceHandler(resources storage.ResourceStore, kind models.ResourceKind, prefix string, log *slog.Logger) *ResourceHandler {
	return &ResourceHandler{resources: resources, kind: kind, prefix: strings.Trim(prefix, "/"), log: log}
}

func (h *ResourceHandler) Register(mux *http.ServeMux, guard *middleware.Guard) {
	base := "/" + h.prefix
	mux.HandleFunc("GET "+base+"/all", guard.Protect(h.handleList))
	mux.HandleFunc("POST "+base+"/create", guard.Protect(h.handleCreate))
	mux.HandleFunc("PUT "+base+"/update/{id}", guard.Protect(h.handleUpdate))
	mux.HandleFunc("DELETE "+base+"/delete/{id}", guard.Protect(h.handleDelete))
}

func (h *ResourceHandler) handleList(w http.ResponseWriter, r *http.Request, _ middleware.AuthorizationContext) {
	items, err := h.resources.ListResources(r.Context(), h.kind)
	if err != nil {
		respond.Fail(w, r, h.log, apperr.Internal(fmt.Errorf("list %s resources: %w", h.kind, err)))
		return
	}
	if items == nil {
		items = []models.Resource{}
	}
	respond.JSON(w, http.StatusOK, "Resources retrieved successfully", items)
}

func (h *ResourceHandler) handleCreate(w http.ResponseWriter, r *http.Request, authz middleware.AuthorizationContext) {
	req, err := decodeResource(w, r)
	if err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}
	created, err := h.resources.CreateResource(r.Context(), h.toModel("", req))
	if err != nil {
		respond.Fail(w, r, h.log, h.storeError(err))
		return
	}
	h.log.InfoContext(r.Context(), "resource created", "kind", h.kind, "resource_id", created.ID, "user_id", authz.SubjectID)
	respond.JSON(w, http.StatusCreated, "Resource created successfully", created)
}

func (h *ResourceHandler) handleUpdate(w http.ResponseWriter, r *http.Request, _ middleware.AuthorizationContext) {
	req, err := decodeResource(w, r)
	if err != nil {
		respond.Fail(w, r, h.log, err)
		return
	}
	updated, err := h.resources.UpdateResource(r.Context(), h.toModel(r.PathValue("id"), req))
	if err != nil {
		respond.Fail(w, r, h.log, h.storeError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "Resource updated successfully", updated)
}

func (h *ResourceHandler) handleDelete(w http.ResponseWriter, r *http.Request, _ middleware.AuthorizationContext) {
	if err := h.resources.DeleteResource(r.Context(), h.kind, r.PathValue("id")); err != nil {
		respond.Fail(w, r, h.log, h.storeError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "Resource deleted successfully", nil)
}

func (h *ResourceHandler) toModel(id string, req dto.ResourceRequest) models.Resource {
	return models.Resource{
		ID:          id,
		Kind:        h.kind,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Category:    req.Category,
	}
}

func (h *ResourceHandler) storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("Resource not found")
	}
	return apperr.Internal(fmt.Errorf("%s resource store: %w", h.kind, err))
}

func decodeResource(w http.ResponseWriter, r *http.Request) (dto.ResourceRequest, error) {
	var req dto.ResourceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.URL = strings.TrimSpace(req.URL)
	req.Category = strings.TrimSpace(req.Category)
	return req, validateStruct(req)
}
