package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stackly/stackly-api/internal/api/shared"
	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/service/content"
)

// ThemeHandler handles theme catalog API requests.
type ThemeHandler struct {
	contentService content.Service
	validator      *validator.Validate
}

// NewThemeHandler creates a new ThemeHandler with the given dependencies.
func NewThemeHandler(contentService content.Service) *ThemeHandler {
	return &ThemeHandler{
		contentService: contentService,
		validator:      validator.New(),
	}
}

// Create handles POST /stacks/{id}/themes. An omitted level defaults to
// DEBUTANT; an omitted order appends the theme after the stack's current
// themes.
func (h *ThemeHandler) Create(w http.ResponseWriter, r *http.Request) {
	stackID, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	var req CreateThemeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	level := req.Level
	if level == "" {
		level = domain.LevelDebutant
	}

	theme, err := h.contentService.CreateTheme(r.Context(), content.CreateThemeInput{
		StackID:     stackID,
		Name:        req.Name,
		Level:       level,
		Description: req.Description,
		Points:      req.Points,
		Order:       req.Order,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, theme)
}

// Get handles GET /themes/{id}.
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	theme, err := h.contentService.GetTheme(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, theme)
}

// List handles GET /themes.
func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	themes, total, err := h.contentService.ListThemes(r.Context(), parseListOptions(r))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ThemeListResponse{
		Themes: themes,
		Total:  total,
	})
}

// Update handles PATCH /themes/{id}. Points are fixed at creation and not
// editable here.
func (h *ThemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	var req UpdateThemeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	err = h.contentService.UpdateTheme(r.Context(), id, content.UpdateThemeInput{
		Name:        req.Name,
		Level:       req.Level,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	theme, err := h.contentService.GetTheme(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, theme)
}

// Delete handles DELETE /themes/{id}. The theme's points are subtracted
// from its stack's total before the row is removed.
func (h *ThemeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := h.contentService.RemoveTheme(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
