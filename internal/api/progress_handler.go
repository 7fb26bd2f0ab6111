package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stackly/stackly-api/internal/api/shared"
	"github.com/stackly/stackly-api/internal/service/progress"
)

// ProgressHandler handles progress tracking API requests.
type ProgressHandler struct {
	progressService progress.Service
	validator       *validator.Validate
}

// NewProgressHandler creates a new ProgressHandler with the given dependencies.
func NewProgressHandler(progressService progress.Service) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		validator:       validator.New(),
	}
}

// CreateStack handles POST /progress/stacks: linking a user to a stack.
// The caller may only link themselves unless they are an admin.
func (h *ProgressHandler) CreateStack(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateProgressStackRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	id, err := h.progressService.CreateProgressStack(r.Context(), req.UserID, req.StackID, identity)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateProgressStackResponse{ID: id})
}

// CreateTheme handles POST /progress/themes: linking a theme to a tracked
// stack. The progress stack must already exist.
func (h *ProgressHandler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateProgressThemeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err := h.progressService.CreateProgressTheme(r.Context(), req.ThemeID, req.ProgressStackID, identity)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, nil)
}

// Record handles POST /progress/themes/{id}/record: applying a point delta
// to a progress theme, its progress stack, and the owning user's total.
func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromRequest(w, r); !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	var req RecordProgressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.progressService.RecordProgress(r.Context(), id, req.Points); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, nil)
}

// ListStacks handles GET /progress/stacks: the caller's own tracked stacks.
func (h *ProgressHandler) ListStacks(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	stacks, err := h.progressService.ListProgressStacks(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stacks)
}

// ListThemes handles GET /progress/stacks/{id}/themes.
func (h *ProgressHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromRequest(w, r); !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	themes, err := h.progressService.ListProgressThemes(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, themes)
}
