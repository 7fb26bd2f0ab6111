package middleware

import (
	"net/http"

	"github.com/stackly/stackly-api/internal/api/shared"
	"github.com/stackly/stackly-api/internal/domain"
	"github.com/stackly/stackly-api/internal/service/policy"
)

// RequirePolicy enforces an access policy on a route. It evaluates the
// policy against the identity the authentication middleware stored in the
// context; public routes pass without one. Policy failures respond with
// 401, mirroring the role checks elsewhere in the API.
func RequirePolicy(p policy.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity *domain.Identity
			if id, ok := shared.IdentityFromContext(r.Context()); ok {
				identity = &id
			}

			if err := policy.Evaluate(p, identity); err != nil {
				switch err {
				case policy.ErrUnauthenticated:
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				default:
					shared.RespondWithError(w, r, http.StatusUnauthorized, "You don't have privileges for this action")
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
