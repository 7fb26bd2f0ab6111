// Package policy implements the per-operation access policy evaluation.
// Each route declares a Policy at registration time; Evaluate is a pure
// function of the policy and the caller's identity.
package policy

import (
	"errors"

	"github.com/stackly/stackly-api/internal/domain"
)

// Evaluation errors
var (
	// ErrUnauthenticated indicates no valid, non-expired identity was
	// presented for an operation that requires one.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the caller's role failed the declared policy.
	ErrForbidden = errors.New("you don't have privileges for this action")
)

// Policy is the declared authorization requirement for an operation.
// The zero value is the Unrestricted policy: any authenticated identity
// is allowed.
type Policy struct {
	// Public marks the operation as callable without any identity.
	Public bool

	// Roles is the allow-list of roles. A nil slice means no allow-list
	// was declared; a declared allow-list takes precedence over AdminTag.
	Roles []domain.Role

	// AdminTag restricts the operation to the tagged role when no
	// allow-list is declared. It is ignored if Roles is non-nil.
	AdminTag domain.Role
}

// Public is the policy for operations callable without authentication.
func Public() Policy {
	return Policy{Public: true}
}

// Unrestricted is the default policy: any authenticated identity is allowed.
func Unrestricted() Policy {
	return Policy{}
}

// WithRoles declares a role allow-list for the operation.
func WithRoles(roles ...domain.Role) Policy {
	return Policy{Roles: roles}
}

// AdminOnly restricts the operation to administrators.
func AdminOnly() Policy {
	return Policy{AdminTag: domain.RoleAdmin}
}

// Evaluate decides whether the identity may perform an operation declared
// with the given policy. The guards are layered in a fixed order:
//
//  1. Public operations allow anyone, identity or not.
//  2. Everything else requires an authenticated identity.
//  3. ADMIN callers bypass all role and admin-tag checks.
//  4. With no allow-list declared, the admin tag (if any) decides.
//  5. With an allow-list declared, membership decides; the admin tag is
//     ignored.
//
// A nil identity means no valid, non-expired token was presented.
func Evaluate(p Policy, identity *domain.Identity) error {
	if p.Public {
		return nil
	}

	if identity == nil {
		return ErrUnauthenticated
	}

	if identity.Role == domain.RoleAdmin {
		return nil
	}

	if p.Roles == nil {
		if p.AdminTag == "" {
			return nil
		}
		if identity.Role == p.AdminTag {
			return nil
		}
		return ErrForbidden
	}

	for _, role := range p.Roles {
		if identity.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
