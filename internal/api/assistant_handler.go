package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stackly/stackly-api/internal/api/shared"
	"github.com/stackly/stackly-api/internal/assistant"
	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/service/content"
	"github.com/stackly/stackly-api/internal/service/progress"
)

// AssistantHandler handles study assistant API requests.
type AssistantHandler struct {
	assistant       assistant.Assistant
	contentService  content.Service
	progressService progress.Service
	validator       *validator.Validate
}

// NewAssistantHandler creates a new AssistantHandler with the given dependencies.
func NewAssistantHandler(
	a assistant.Assistant,
	contentService content.Service,
	progressService progress.Service,
) *AssistantHandler {
	return &AssistantHandler{
		assistant:       a,
		contentService:  contentService,
		progressService: progressService,
		validator:       validator.New(),
	}
}

// Ask handles POST /assistant/ask. When a theme ID is supplied the answer
// is scoped to that theme.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromRequest(w, r); !ok {
		return
	}

	var req AskAssistantRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	var theme *domain.Theme
	if req.ThemeID != nil {
		var err error
		theme, err = h.contentService.GetTheme(r.Context(), *req.ThemeID)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
	}

	answer, err := h.assistant.Ask(r.Context(), req.Question, theme)
	if err != nil {
		h.respondWithAssistantError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AskAssistantResponse{Answer: answer})
}

// Quiz handles POST /assistant/quiz. It generates one challenge question
// for the requested theme.
func (h *AssistantHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromRequest(w, r); !ok {
		return
	}

	var req GenerateQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	theme, err := h.contentService.GetTheme(r.Context(), req.ThemeID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	quiz, err := h.assistant.GenerateQuiz(r.Context(), theme)
	if err != nil {
		h.respondWithAssistantError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateQuizResponse{
		ThemeID:  theme.ID,
		Question: quiz.Question,
	})
}

// Grade handles POST /assistant/grade. It assesses a learner's answer and,
// when a progress theme is named, records the graded points against it.
func (h *AssistantHandler) Grade(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromRequest(w, r); !ok {
		return
	}

	var req GradeAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	theme, err := h.contentService.GetTheme(r.Context(), req.ThemeID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	grade, err := h.assistant.GradeAnswer(r.Context(), theme, req.Question, req.Answer)
	if err != nil {
		h.respondWithAssistantError(w, r, err)
		return
	}

	resp := GradeAnswerResponse{
		Correct:  grade.Correct,
		Points:   grade.Points,
		Feedback: grade.Feedback,
	}

	if req.ProgressThemeID != nil && grade.Points > 0 {
		if err := h.progressService.RecordProgress(r.Context(), *req.ProgressThemeID, grade.Points); err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		resp.Recorded = true
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func (h *AssistantHandler) respondWithAssistantError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		shared.RespondWithError(w, r, http.StatusBadRequest, "Question and answer cannot be empty")
	case errors.Is(err, assistant.ErrThemeRequired):
		shared.RespondWithError(w, r, http.StatusBadRequest, "A theme is required")
	case errors.Is(err, assistant.ErrContentBlocked):
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Request was rejected by the assistant")
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway, "Assistant is unavailable", err)
	}
}
