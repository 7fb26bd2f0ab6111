package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stackly/stackly-api/internal/domain"
)

func identity(role domain.Role) *domain.Identity {
	return &domain.Identity{ID: uuid.New(), Role: role}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		policy   Policy
		identity *domain.Identity
		wantErr  error
	}{
		{
			name:     "public allows anonymous",
			policy:   Public(),
			identity: nil,
			wantErr:  nil,
		},
		{
			name:     "public allows authenticated",
			policy:   Public(),
			identity: identity(domain.RoleBasic),
			wantErr:  nil,
		},
		{
			name:     "unrestricted requires identity",
			policy:   Unrestricted(),
			identity: nil,
			wantErr:  ErrUnauthenticated,
		},
		{
			name:     "unrestricted allows any authenticated role",
			policy:   Unrestricted(),
			identity: identity(domain.RoleBasic),
			wantErr:  nil,
		},
		{
			name:     "admin bypasses role allow-list",
			policy:   WithRoles(domain.RoleBasic),
			identity: identity(domain.RoleAdmin),
			wantErr:  nil,
		},
		{
			name:     "allow-list admits member",
			policy:   WithRoles(domain.RoleBasic),
			identity: identity(domain.RoleBasic),
			wantErr:  nil,
		},
		{
			name:     "empty allow-list rejects non-admin",
			policy:   WithRoles(),
			identity: identity(domain.RoleBasic),
			wantErr:  ErrForbidden,
		},
		{
			name:     "admin tag admits tagged role",
			policy:   Policy{AdminTag: domain.RoleBasic},
			identity: identity(domain.RoleBasic),
			wantErr:  nil,
		},
		{
			name:     "admin-only rejects basic",
			policy:   AdminOnly(),
			identity: identity(domain.RoleBasic),
			wantErr:  ErrForbidden,
		},
		{
			name:     "admin-only admits admin",
			policy:   AdminOnly(),
			identity: identity(domain.RoleAdmin),
			wantErr:  nil,
		},
		{
			// A declared allow-list wins over the admin tag; the tag is
			// ignored even when the caller would satisfy it.
			name:     "allow-list takes precedence over admin tag",
			policy:   Policy{Roles: []domain.Role{domain.RoleBasic}, AdminTag: domain.RoleAdmin},
			identity: identity(domain.RoleBasic),
			wantErr:  nil,
		},
		{
			name:     "allow-list with admin tag rejects non-member",
			policy:   Policy{Roles: []domain.Role{}, AdminTag: domain.RoleBasic},
			identity: identity(domain.RoleBasic),
			wantErr:  ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Evaluate(tt.policy, tt.identity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
