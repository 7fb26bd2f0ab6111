package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stackly/stackly-api/internal/api/shared"
	"github.com/stackly/stackly-api/internal/service/content"
)

// StackHandler handles stack catalog API requests.
type StackHandler struct {
	contentService content.Service
	validator      *validator.Validate
}

// NewStackHandler creates a new StackHandler with the given dependencies.
func NewStackHandler(contentService content.Service) *StackHandler {
	return &StackHandler{
		contentService: contentService,
		validator:      validator.New(),
	}
}

// Create handles POST /stacks.
func (h *StackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStackRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	stack, err := h.contentService.CreateStack(r.Context(), req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewStackResponse(stack, nil))
}

// Get handles GET /stacks/{id}, returning the stack with its themes.
func (h *StackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	stack, themes, err := h.contentService.GetStack(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewStackResponse(stack, themes))
}

// List handles GET /stacks.
func (h *StackHandler) List(w http.ResponseWriter, r *http.Request) {
	stacks, total, err := h.contentService.ListStacks(r.Context(), parseListOptions(r))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StackListResponse{
		Stacks: stacks,
		Total:  total,
	})
}

// Update handles PATCH /stacks/{id}.
func (h *StackHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	var req UpdateStackRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	stack, _, err := h.contentService.GetStack(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if req.Name != nil {
		stack.Name = *req.Name
	}
	if req.Description != nil {
		stack.Description = *req.Description
	}

	if err := h.contentService.UpdateStack(r.Context(), stack); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewStackResponse(stack, nil))
}

// Delete handles DELETE /stacks/{id}.
func (h *StackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := h.contentService.DeleteStack(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
