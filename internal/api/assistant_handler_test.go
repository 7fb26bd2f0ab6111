package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackly/stackly-api/internal/assistant"
	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/store"
)

// fakeAssistant returns canned assistant results.
type fakeAssistant struct {
	answer   string
	quiz     *assistant.Quiz
	grade    *assistant.Grade
	err      error
	askTheme *domain.Theme
}

func (a *fakeAssistant) Ask(_ context.Context, _ string, theme *domain.Theme) (string, error) {
	a.askTheme = theme
	return a.answer, a.err
}

func (a *fakeAssistant) GenerateQuiz(_ context.Context, _ *domain.Theme) (*assistant.Quiz, error) {
	return a.quiz, a.err
}

func (a *fakeAssistant) GradeAnswer(_ context.Context, _ *domain.Theme, _, _ string) (*assistant.Grade, error) {
	return a.grade, a.err
}

var _ assistant.Assistant = (*fakeAssistant)(nil)

func testTheme(t *testing.T) *domain.Theme {
	t.Helper()
	theme, err := domain.NewTheme(uuid.New(), "concurrency", domain.LevelAdvanced, 10, 1)
	require.NoError(t, err)
	return theme
}

func TestAssistantHandlerAsk(t *testing.T) {
	t.Parallel()

	caller := domain.Identity{ID: uuid.New(), Role: domain.RoleBasic}

	t.Run("answers without a theme", func(t *testing.T) {
		t.Parallel()

		fake := &fakeAssistant{answer: "a goroutine is a lightweight thread"}
		h := NewAssistantHandler(fake, &fakeContentService{}, &fakeProgressService{})

		r := authedRequest(http.MethodPost, "/assistant/ask",
			AskAssistantRequest{Question: "what is a goroutine?"}, caller)
		w := httptest.NewRecorder()
		h.Ask(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp AskAssistantResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "a goroutine is a lightweight thread", resp.Answer)
		assert.Nil(t, fake.askTheme)
	})

	t.Run("scopes to the theme when one is named", func(t *testing.T) {
		t.Parallel()

		theme := testTheme(t)
		fake := &fakeAssistant{answer: "scoped answer"}
		h := NewAssistantHandler(fake, &fakeContentService{theme: theme}, &fakeProgressService{})

		r := authedRequest(http.MethodPost, "/assistant/ask",
			AskAssistantRequest{Question: "explain channels", ThemeID: &theme.ID}, caller)
		w := httptest.NewRecorder()
		h.Ask(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, theme, fake.askTheme)
	})

	t.Run("unknown theme is not found", func(t *testing.T) {
		t.Parallel()

		themeID := uuid.New()
		h := NewAssistantHandler(
			&fakeAssistant{},
			&fakeContentService{err: store.ErrThemeNotFound},
			&fakeProgressService{},
		)

		r := authedRequest(http.MethodPost, "/assistant/ask",
			AskAssistantRequest{Question: "explain channels", ThemeID: &themeID}, caller)
		w := httptest.NewRecorder()
		h.Ask(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("blocked content is unprocessable", func(t *testing.T) {
		t.Parallel()

		h := NewAssistantHandler(
			&fakeAssistant{err: assistant.ErrContentBlocked},
			&fakeContentService{},
			&fakeProgressService{},
		)

		r := authedRequest(http.MethodPost, "/assistant/ask",
			AskAssistantRequest{Question: "something"}, caller)
		w := httptest.NewRecorder()
		h.Ask(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("transient failure is bad gateway", func(t *testing.T) {
		t.Parallel()

		h := NewAssistantHandler(
			&fakeAssistant{err: assistant.ErrTransientFailure},
			&fakeContentService{},
			&fakeProgressService{},
		)

		r := authedRequest(http.MethodPost, "/assistant/ask",
			AskAssistantRequest{Question: "something"}, caller)
		w := httptest.NewRecorder()
		h.Ask(w, r)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		h := NewAssistantHandler(&fakeAssistant{}, &fakeContentService{}, &fakeProgressService{})

		r := httptest.NewRequest(http.MethodPost, "/assistant/ask", nil)
		w := httptest.NewRecorder()
		h.Ask(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAssistantHandlerQuiz(t *testing.T) {
	t.Parallel()

	caller := domain.Identity{ID: uuid.New(), Role: domain.RoleBasic}
	theme := testTheme(t)

	h := NewAssistantHandler(
		&fakeAssistant{quiz: &assistant.Quiz{Question: "what does select do?"}},
		&fakeContentService{theme: theme},
		&fakeProgressService{},
	)

	r := authedRequest(http.MethodPost, "/assistant/quiz",
		GenerateQuizRequest{ThemeID: theme.ID}, caller)
	w := httptest.NewRecorder()
	h.Quiz(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp GenerateQuizResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, theme.ID, resp.ThemeID)
	assert.Equal(t, "what does select do?", resp.Question)
}

func TestAssistantHandlerGrade(t *testing.T) {
	t.Parallel()

	caller := domain.Identity{ID: uuid.New(), Role: domain.RoleBasic}
	theme := testTheme(t)

	t.Run("records graded points against the progress theme", func(t *testing.T) {
		t.Parallel()

		progressThemeID := uuid.New()
		progressSvc := &fakeProgressService{}
		h := NewAssistantHandler(
			&fakeAssistant{grade: &assistant.Grade{Correct: true, Points: 7, Feedback: "good"}},
			&fakeContentService{theme: theme},
			progressSvc,
		)

		r := authedRequest(http.MethodPost, "/assistant/grade", GradeAnswerRequest{
			ThemeID:         theme.ID,
			Question:        "what does select do?",
			Answer:          "waits on multiple channel operations",
			ProgressThemeID: &progressThemeID,
		}, caller)
		w := httptest.NewRecorder()
		h.Grade(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp GradeAnswerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Correct)
		assert.Equal(t, 7, resp.Points)
		assert.True(t, resp.Recorded)
		assert.Equal(t, 7, progressSvc.recordedDelta)
	})

	t.Run("incorrect answer records nothing", func(t *testing.T) {
		t.Parallel()

		progressThemeID := uuid.New()
		progressSvc := &fakeProgressService{}
		h := NewAssistantHandler(
			&fakeAssistant{grade: &assistant.Grade{Correct: false, Points: 0, Feedback: "not quite"}},
			&fakeContentService{theme: theme},
			progressSvc,
		)

		r := authedRequest(http.MethodPost, "/assistant/grade", GradeAnswerRequest{
			ThemeID:         theme.ID,
			Question:        "what does select do?",
			Answer:          "sorts a slice",
			ProgressThemeID: &progressThemeID,
		}, caller)
		w := httptest.NewRecorder()
		h.Grade(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp GradeAnswerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Correct)
		assert.False(t, resp.Recorded)
		assert.Equal(t, 0, progressSvc.recordedDelta)
	})

	t.Run("grading without a progress theme only reports", func(t *testing.T) {
		t.Parallel()

		progressSvc := &fakeProgressService{}
		h := NewAssistantHandler(
			&fakeAssistant{grade: &assistant.Grade{Correct: true, Points: 10}},
			&fakeContentService{theme: theme},
			progressSvc,
		)

		r := authedRequest(http.MethodPost, "/assistant/grade", GradeAnswerRequest{
			ThemeID:  theme.ID,
			Question: "q",
			Answer:   "a",
		}, caller)
		w := httptest.NewRecorder()
		h.Grade(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp GradeAnswerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Recorded)
		assert.Equal(t, 0, progressSvc.recordedDelta)
	})

	t.Run("missing answer fails validation", func(t *testing.T) {
		t.Parallel()

		h := NewAssistantHandler(&fakeAssistant{}, &fakeContentService{theme: theme}, &fakeProgressService{})

		r := authedRequest(http.MethodPost, "/assistant/grade", GradeAnswerRequest{
			ThemeID:  theme.ID,
			Question: "q",
		}, caller)
		w := httptest.NewRecorder()
		h.Grade(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
