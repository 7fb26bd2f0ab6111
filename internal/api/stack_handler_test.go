package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/service/content"
	"github.com/stackly/stackly-api/internal/store"
)

// fakeContentService returns canned catalog results for handler tests and
// records what the handlers passed in.
type fakeContentService struct {
	stack  *domain.Stack
	stacks []*domain.Stack
	theme  *domain.Theme
	themes []*domain.Theme
	total  int
	err    error

	updatedStack   *domain.Stack
	createdTheme   *content.CreateThemeInput
	updatedThemeID uuid.UUID
	updatedTheme   *content.UpdateThemeInput
	deletedStackID uuid.UUID
	removedThemeID uuid.UUID
	listOpts       store.ListOptions
}

func (s *fakeContentService) CreateStack(_ context.Context, name, description string) (*domain.Stack, error) {
	if s.err != nil {
		return nil, s.err
	}
	return domain.NewStack(name, description)
}

func (s *fakeContentService) GetStack(_ context.Context, _ uuid.UUID) (*domain.Stack, []*domain.Theme, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.stack, s.themes, nil
}

func (s *fakeContentService) ListStacks(_ context.Context, opts store.ListOptions) ([]*domain.Stack, int, error) {
	s.listOpts = opts
	return s.stacks, s.total, s.err
}

func (s *fakeContentService) UpdateStack(_ context.Context, stack *domain.Stack) error {
	if s.err != nil {
		return s.err
	}
	s.updatedStack = stack
	return nil
}

func (s *fakeContentService) DeleteStack(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deletedStackID = id
	return nil
}

func (s *fakeContentService) CreateTheme(_ context.Context, in content.CreateThemeInput) (*domain.Theme, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.createdTheme = &in
	return domain.NewTheme(in.StackID, in.Name, in.Level, in.Points, in.Order)
}

func (s *fakeContentService) GetTheme(_ context.Context, _ uuid.UUID) (*domain.Theme, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.theme, nil
}

func (s *fakeContentService) ListThemes(_ context.Context, opts store.ListOptions) ([]*domain.Theme, int, error) {
	s.listOpts = opts
	return s.themes, s.total, s.err
}

func (s *fakeContentService) UpdateTheme(_ context.Context, id uuid.UUID, in content.UpdateThemeInput) error {
	if s.err != nil {
		return s.err
	}
	s.updatedThemeID = id
	s.updatedTheme = &in
	return nil
}

func (s *fakeContentService) RemoveTheme(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.removedThemeID = id
	return nil
}

var _ content.Service = (*fakeContentService)(nil)

// pathRequest builds a request carrying a chi {id} path parameter.
func pathRequest(method, path, id string, body any) *http.Request {
	var r *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(payload))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func testStack(t *testing.T) *domain.Stack {
	t.Helper()
	stack, err := domain.NewStack("Go", "the Go programming language")
	require.NoError(t, err)
	return stack
}

func TestStackHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		h := NewStackHandler(&fakeContentService{})
		w := httptest.NewRecorder()
		h.Create(w, pathRequest("POST", "/stacks", "", CreateStackRequest{
			Name:        "Go",
			Description: "the Go programming language",
		}))

		require.Equal(t, http.StatusCreated, w.Code)
		var resp StackResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Go", resp.Name)
		assert.Zero(t, resp.Points)
	})

	t.Run("empty name fails validation", func(t *testing.T) {
		t.Parallel()

		h := NewStackHandler(&fakeContentService{})
		w := httptest.NewRecorder()
		h.Create(w, pathRequest("POST", "/stacks", "", CreateStackRequest{}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		t.Parallel()

		h := NewStackHandler(&fakeContentService{err: store.ErrStackNameExists})
		w := httptest.NewRecorder()
		h.Create(w, pathRequest("POST", "/stacks", "", CreateStackRequest{Name: "Go"}))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestStackHandlerGet(t *testing.T) {
	t.Parallel()

	t.Run("returns the stack with its themes", func(t *testing.T) {
		t.Parallel()

		stack := testStack(t)
		theme := testTheme(t)
		h := NewStackHandler(&fakeContentService{stack: stack, themes: []*domain.Theme{theme}})

		w := httptest.NewRecorder()
		h.Get(w, pathRequest("GET", "/stacks/"+stack.ID.String(), stack.ID.String(), nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp StackResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, stack.ID, resp.ID)
		require.Len(t, resp.Themes, 1)
	})

	t.Run("invalid id is a bad request", func(t *testing.T) {
		t.Parallel()

		h := NewStackHandler(&fakeContentService{})
		w := httptest.NewRecorder()
		h.Get(w, pathRequest("GET", "/stacks/nope", "nope", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown stack is not found", func(t *testing.T) {
		t.Parallel()

		h := NewStackHandler(&fakeContentService{err: store.ErrStackNotFound})
		w := httptest.NewRecorder()
		id := uuid.New().String()
		h.Get(w, pathRequest("GET", "/stacks/"+id, id, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStackHandlerList(t *testing.T) {
	t.Parallel()

	stack := testStack(t)
	svc := &fakeContentService{stacks: []*domain.Stack{stack}, total: 42}
	h := NewStackHandler(svc)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest("GET", "/stacks?limit=5&offset=10&order_by=name&desc=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp StackListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Total)
	require.Len(t, resp.Stacks, 1)

	assert.Equal(t, store.ListOptions{Limit: 5, Offset: 10, OrderBy: "name", Desc: true}, svc.listOpts)
}

func TestStackHandlerUpdate(t *testing.T) {
	t.Parallel()

	stack := testStack(t)
	svc := &fakeContentService{stack: stack}
	h := NewStackHandler(svc)

	newName := "Go, revised"
	w := httptest.NewRecorder()
	h.Update(w, pathRequest("PATCH", "/stacks/"+stack.ID.String(), stack.ID.String(),
		UpdateStackRequest{Name: &newName}))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.updatedStack)
	assert.Equal(t, "Go, revised", svc.updatedStack.Name)
	assert.Equal(t, "the Go programming language", svc.updatedStack.Description)
}

func TestStackHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		svc := &fakeContentService{}
		h := NewStackHandler(svc)

		id := uuid.New()
		w := httptest.NewRecorder()
		h.Delete(w, pathRequest("DELETE", "/stacks/"+id.String(), id.String(), nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, id, svc.deletedStackID)
	})

	t.Run("unknown stack is not found", func(t *testing.T) {
		t.Parallel()

		h := NewStackHandler(&fakeContentService{err: store.ErrStackNotFound})
		id := uuid.New().String()
		w := httptest.NewRecorder()
		h.Delete(w, pathRequest("DELETE", "/stacks/"+id, id, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
