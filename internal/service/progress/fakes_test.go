package progress

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/store"
)

// Map-backed store fakes. WithTx returns the fake itself; the fake
// transaction runner snapshots the maps before the function runs and
// restores them when it returns an error, so rollback behavior can be
// asserted without a database.

type fakeUserStore struct {
	users map[uuid.UUID]*domain.User

	updateTotalPointsErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) add(u *domain.User) {
	cp := *u
	s.users[u.ID] = &cp
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	s.add(user)
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeUserStore) List(_ context.Context, _, _ int) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	s.add(user)
	return nil
}

func (s *fakeUserStore) UpdateTotalPoints(_ context.Context, id uuid.UUID, totalPoints int) error {
	if s.updateTotalPointsErr != nil {
		return s.updateTotalPointsErr
	}
	u, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.TotalPoints = totalPoints
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

type fakeStackStore struct {
	stacks map[uuid.UUID]*domain.Stack
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

type fakeProgressStackStore struct {
	records map[uuid.UUID]*domain.ProgressStack
}

func newFakeProgressStackStore() *fakeProgressStackStore {
	return &fakeProgressStackStore{records: make(map[uuid.UUID]*domain.ProgressStack)}
}

func (s *fakeProgressStackStore) add(ps *domain.ProgressStack) {
	cp := *ps
	s.records[ps.ID] = &cp
}

func (s *fakeProgressStackStore) Create(_ context.Context, ps *domain.ProgressStack) error {
	for _, r := range s.records {
		if r.UserID == ps.UserID && r.StackID == ps.StackID {
			return store.ErrProgressStackExists
		}
	}
	s.add(ps)
	return nil
}

func (s *fakeProgressStackStore) GetByID(_ context.Context, id uuid.UUID) (*domain.ProgressStack, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, store.ErrProgressStackNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeProgressStackStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressStack, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeProgressStackStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.ProgressStack, error) {
	var out []*domain.ProgressStack
	for _, r := range s.records {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeProgressStackStore) UpdateProgress(_ context.Context, id uuid.UUID, progress int) error {
	r, ok := s.records[id]
	if !ok {
		return store.ErrProgressStackNotFound
	}
	r.Progress = progress
	return nil
}

func (s *fakeProgressStackStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.records[id]; !ok {
		return store.ErrProgressStackNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *fakeProgressStackStore) WithTx(_ *sql.Tx) store.ProgressStackStore { return s }

type fakeProgressThemeStore struct {
	records map[uuid.UUID]*domain.ProgressTheme
}

func newFakeProgressThemeStore() *fakeProgressThemeStore {
	return &fakeProgressThemeStore{records: make(map[uuid.UUID]*domain.ProgressTheme)}
}

func (s *fakeProgressThemeStore) add(pt *domain.ProgressTheme) {
	cp := *pt
	s.records[pt.ID] = &cp
}

func (s *fakeProgressThemeStore) Create(_ context.Context, pt *domain.ProgressTheme) error {
	for _, r := range s.records {
		if r.ProgressStackID == pt.ProgressStackID && r.ThemeID == pt.ThemeID {
			return store.ErrProgressThemeExists
		}
	}
	s.add(pt)
	return nil
}

func (s *fakeProgressThemeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.ProgressTheme, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, store.ErrProgressThemeNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeProgressThemeStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProgressTheme, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeProgressThemeStore) GetByLink(_ context.Context, themeID, progressStackID uuid.UUID) (*domain.ProgressTheme, error) {
	for _, r := range s.records {
		if r.ThemeID == themeID && r.ProgressStackID == progressStackID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, store.ErrProgressThemeNotFound
}

func (s *fakeProgressThemeStore) ListByProgressStack(_ context.Context, progressStackID uuid.UUID) ([]*domain.ProgressTheme, error) {
	var out []*domain.ProgressTheme
	for _, r := range s.records {
		if r.ProgressStackID == progressStackID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeProgressThemeStore) UpdateProgress(_ context.Context, id uuid.UUID, progress int) error {
	r, ok := s.records[id]
	if !ok {
		return store.ErrProgressThemeNotFound
	}
	r.Progress = progress
	return nil
}

func (s *fakeProgressThemeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.records[id]; !ok {
		return store.ErrProgressThemeNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *fakeProgressThemeStore) WithTx(_ *sql.Tx) store.ProgressThemeStore { return s }

// fakeTxRunner executes the function with a nil *sql.Tx. It snapshots the
// fake stores first and restores them if the function fails, mimicking a
// rollback.
type fakeTxRunner struct {
	users          *fakeUserStore
	progressStacks *fakeProgressStackStore
	progressThemes *fakeProgressThemeStore
}

func (r *fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	users := cloneMap(r.users.users)
	stacks := cloneMap(r.progressStacks.records)
	themes := cloneMap(r.progressThemes.records)

	if err := fn(ctx, nil); err != nil {
		r.users.users = users
		r.progressStacks.records = stacks
		r.progressThemes.records = themes
		return err
	}
	return nil
}

func cloneMap[V any](m map[uuid.UUID]*V) map[uuid.UUID]*V {
	out := make(map[uuid.UUID]*V, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}
