package content

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/store"
)

// Map-backed fakes. WithTx returns the fake itself; the fake transaction
// runner snapshots both stores before the function runs and restores them
// when it fails, mimicking a rollback.

type fakeStackStore struct {
	stacks map[uuid.UUID]*domain.Stack

	updatePointsErr error
}

func newFakeStackStore() *fakeStackStore {
	return &fakeStackStore{stacks: make(map[uuid.UUID]*domain.Stack)}
}

func (s *fakeStackStore) add(st *domain.Stack) {
	cp := *st
	s.stacks[st.ID] = &cp
}

func (s *fakeStackStore) Create(_ context.Context, stack *domain.Stack) error {
	for _, st := range s.stacks {
		if strings.EqualFold(st.Name, stack.Name) {
			return store.ErrStackNameExists
		}
	}
	s.add(stack)
	return nil
}

func (s *fakeStackStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Stack, error) {
	st, ok := s.stacks[id]
	if !ok {
		return nil, store.ErrStackNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *fakeStackStore) GetByName(_ context.Context, name string) (*domain.Stack, error) {
	for _, st := range s.stacks {
		if strings.EqualFold(st.Name, name) {
			cp := *st
			return &cp, nil
		}
	}
	return nil, store.ErrStackNotFound
}

func (s *fakeStackStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Stack, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeStackStore) List(_ context.Context, _ store.ListOptions) ([]*domain.Stack, error) {
	out := make([]*domain.Stack, 0, len(s.stacks))
	for _, st := range s.stacks {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStackStore) Count(_ context.Context) (int, error) {
	return len(s.stacks), nil
}

func (s *fakeStackStore) Update(_ context.Context, stack *domain.Stack) error {
	if _, ok := s.stacks[stack.ID]; !ok {
		return store.ErrStackNotFound
	}
	s.add(stack)
	return nil
}

func (s *fakeStackStore) UpdatePoints(_ context.Context, id uuid.UUID, points int) error {
	if s.updatePointsErr != nil {
		return s.updatePointsErr
	}
	st, ok := s.stacks[id]
	if !ok {
		return store.ErrStackNotFound
	}
	st.Points = points
	return nil
}

func (s *fakeStackStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.stacks[id]; !ok {
		return store.ErrStackNotFound
	}
	delete(s.stacks, id)
	return nil
}

func (s *fakeStackStore) WithTx(_ *sql.Tx) store.StackStore { return s }

type fakeThemeStore struct {
	themes map[uuid.UUID]*domain.Theme
}

func newFakeThemeStore() *fakeThemeStore {
	return &fakeThemeStore{themes: make(map[uuid.UUID]*domain.Theme)}
}

func (s *fakeThemeStore) add(t *domain.Theme) {
	cp := *t
	s.themes[t.ID] = &cp
}

func (s *fakeThemeStore) Create(_ context.Context, theme *domain.Theme) error {
	for _, t := range s.themes {
		if t.StackID == theme.StackID && t.Name == theme.Name && t.Level == theme.Level {
			return store.ErrThemeExists
		}
	}
	s.add(theme)
	return nil
}

func (s *fakeThemeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Theme, error) {
	t, ok := s.themes[id]
	if !ok {
		return nil, store.ErrThemeNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeThemeStore) GetByIDInStack(_ context.Context, id, stackID uuid.UUID) (*domain.Theme, error) {
	t, ok := s.themes[id]
	if !ok || t.StackID != stackID {
		return nil, store.ErrThemeNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeThemeStore) ListByStack(_ context.Context, stackID uuid.UUID) ([]*domain.Theme, error) {
	var out []*domain.Theme
	for _, t := range s.themes {
		if t.StackID == stackID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeThemeStore) List(_ context.Context, _ store.ListOptions) ([]*domain.Theme, error) {
	out := make([]*domain.Theme, 0, len(s.themes))
	for _, t := range s.themes {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeThemeStore) Count(_ context.Context) (int, error) {
	return len(s.themes), nil
}

func (s *fakeThemeStore) MaxOrderInStack(_ context.Context, stackID uuid.UUID) (int, error) {
	max := 0
	for _, t := range s.themes {
		if t.StackID == stackID && t.Order > max {
			max = t.Order
		}
	}
	return max, nil
}

func (s *fakeThemeStore) Update(_ context.Context, theme *domain.Theme) error {
	if _, ok := s.themes[theme.ID]; !ok {
		return store.ErrThemeNotFound
	}
	s.add(theme)
	return nil
}

func (s *fakeThemeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.themes[id]; !ok {
		return store.ErrThemeNotFound
	}
	delete(s.themes, id)
	return nil
}

func (s *fakeThemeStore) WithTx(_ *sql.Tx) store.ThemeStore { return s }

type fakeTxRunner struct {
	stacks *fakeStackStore
	themes *fakeThemeStore
}

func (r *fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	stacks := make(map[uuid.UUID]*domain.Stack, len(r.stacks.stacks))
	for k, v := range r.stacks.stacks {
		cp := *v
		stacks[k] = &cp
	}
	themes := make(map[uuid.UUID]*domain.Theme, len(r.themes.themes))
	for k, v := range r.themes.themes {
		cp := *v
		themes[k] = &cp
	}

	if err := fn(ctx, nil); err != nil {
		r.stacks.stacks = stacks
		r.themes.themes = themes
		return err
	}
	return nil
}

type testEnv struct {
	stacks *fakeStackStore
	themes *fakeThemeStore
	svc    Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		stacks: newFakeStackStore(),
		themes: newFakeThemeStore(),
	}
	tx := &fakeTxRunner{stacks: env.stacks, themes: env.themes}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	env.svc = NewService(env.stacks, env.themes, tx, log)
	return env
}

func (env *testEnv) seedStack(t *testing.T, name string) *domain.Stack {
	t.Helper()
	stack, err := domain.NewStack(name, "")
	require.NoError(t, err)
	env.stacks.add(stack)
	return stack
}

func (env *testEnv) seedTheme(t *testing.T, stackID uuid.UUID, name string, points, order int) *domain.Theme {
	t.Helper()
	theme, err := domain.NewTheme(stackID, name, domain.LevelDebutant, points, order)
	require.NoError(t, err)
	env.themes.add(theme)
	return theme
}

func TestCreateStack(t *testing.T) {
	t.Parallel()

	t.Run("creates stack with zero points", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		stack, err := env.svc.CreateStack(context.Background(), "Go", "the Go language")
		require.NoError(t, err)
		assert.Equal(t, "Go", stack.Name)
		assert.Zero(t, stack.Points)
	})

	t.Run("duplicate name conflicts case-insensitively", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.seedStack(t, "Go")

		_, err := env.svc.CreateStack(context.Background(), "go", "")
		assert.ErrorIs(t, err, store.ErrStackNameExists)
	})

	t.Run("empty name is invalid", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		_, err := env.svc.CreateStack(context.Background(), "", "")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestCreateTheme(t *testing.T) {
	t.Parallel()

	t.Run("adds theme points to stack total", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")
		env.seedTheme(t, stack.ID, "basics", 5, 1)
		require.NoError(t, env.stacks.UpdatePoints(context.Background(), stack.ID, 5))

		theme, err := env.svc.CreateTheme(context.Background(), CreateThemeInput{
			StackID: stack.ID,
			Name:    "goroutines",
			Level:   domain.LevelIntermediate,
			Points:  10,
			Order:   2,
		})
		require.NoError(t, err)
		assert.Equal(t, 10, theme.Points)

		got, err := env.stacks.GetByID(context.Background(), stack.ID)
		require.NoError(t, err)
		assert.Equal(t, 15, got.Points)
	})

	t.Run("unspecified order appends after highest", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")
		env.seedTheme(t, stack.ID, "basics", 5, 1)
		env.seedTheme(t, stack.ID, "slices", 5, 4)

		theme, err := env.svc.CreateTheme(context.Background(), CreateThemeInput{
			StackID: stack.ID,
			Name:    "goroutines",
			Level:   domain.LevelIntermediate,
			Points:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, theme.Order)
	})

	t.Run("first theme in empty stack gets order 1", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")

		theme, err := env.svc.CreateTheme(context.Background(), CreateThemeInput{
			StackID: stack.ID,
			Name:    "basics",
			Level:   domain.LevelDebutant,
			Points:  5,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, theme.Order)
	})

	t.Run("missing stack", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		_, err := env.svc.CreateTheme(context.Background(), CreateThemeInput{
			StackID: uuid.New(),
			Name:    "basics",
			Level:   domain.LevelDebutant,
			Points:  5,
		})
		assert.ErrorIs(t, err, store.ErrStackNotFound)
	})

	t.Run("duplicate name and level in stack conflicts", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")
		env.seedTheme(t, stack.ID, "basics", 5, 1)

		_, err := env.svc.CreateTheme(context.Background(), CreateThemeInput{
			StackID: stack.ID,
			Name:    "basics",
			Level:   domain.LevelDebutant,
			Points:  5,
		})
		assert.ErrorIs(t, err, store.ErrThemeExists)
	})

	t.Run("failed points update rolls back the theme insert", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")
		env.stacks.updatePointsErr = errors.New("connection reset")

		_, err := env.svc.CreateTheme(context.Background(), CreateThemeInput{
			StackID: stack.ID,
			Name:    "basics",
			Level:   domain.LevelDebutant,
			Points:  5,
		})
		require.Error(t, err)

		themes, listErr := env.themes.ListByStack(context.Background(), stack.ID)
		require.NoError(t, listErr)
		assert.Empty(t, themes)
	})
}

func TestRemoveTheme(t *testing.T) {
	t.Parallel()

	t.Run("subtracts theme points from stack total", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")
		theme := env.seedTheme(t, stack.ID, "basics", 5, 1)
		env.seedTheme(t, stack.ID, "goroutines", 10, 2)
		require.NoError(t, env.stacks.UpdatePoints(context.Background(), stack.ID, 15))

		require.NoError(t, env.svc.RemoveTheme(context.Background(), theme.ID))

		got, err := env.stacks.GetByID(context.Background(), stack.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Points)

		_, err = env.themes.GetByID(context.Background(), theme.ID)
		assert.ErrorIs(t, err, store.ErrThemeNotFound)
	})

	t.Run("missing theme", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		err := env.svc.RemoveTheme(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrThemeNotFound)
	})

	t.Run("failed points update keeps the theme", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")
		theme := env.seedTheme(t, stack.ID, "basics", 5, 1)
		require.NoError(t, env.stacks.UpdatePoints(context.Background(), stack.ID, 5))
		env.stacks.updatePointsErr = errors.New("connection reset")

		err := env.svc.RemoveTheme(context.Background(), theme.ID)
		require.Error(t, err)

		_, getErr := env.themes.GetByID(context.Background(), theme.ID)
		assert.NoError(t, getErr)
	})
}

func TestUpdateTheme(t *testing.T) {
	t.Parallel()

	t.Run("updates only the provided fields", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		stack := env.seedStack(t, "Go")
		theme := env.seedTheme(t, stack.ID, "basics", 5, 1)

		newName := "fundamentals"
		newLevel := domain.LevelIntermediate
		err := env.svc.UpdateTheme(context.Background(), theme.ID, UpdateThemeInput{
			Name:  &newName,
			Level: &newLevel,
		})
		require.NoError(t, err)

		got, err := env.themes.GetByID(context.Background(), theme.ID)
		require.NoError(t, err)
		assert.Equal(t, "fundamentals", got.Name)
		assert.Equal(t, domain.LevelIntermediate, got.Level)
		assert.Equal(t, 5, got.Points)
		assert.Equal(t, 1, got.Order)
	})

	t.Run("missing theme", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		err := env.svc.UpdateTheme(context.Background(), uuid.New(), UpdateThemeInput{})
		assert.ErrorIs(t, err, store.ErrThemeNotFound)
	})
}

func TestGetStack(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	stack := env.seedStack(t, "Go")
	env.seedTheme(t, stack.ID, "basics", 5, 1)
	env.seedTheme(t, stack.ID, "goroutines", 10, 2)

	got, themes, err := env.svc.GetStack(context.Background(), stack.ID)
	require.NoError(t, err)
	assert.Equal(t, stack.ID, got.ID)
	assert.Len(t, themes, 2)

	_, _, err = env.svc.GetStack(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrStackNotFound)
}
