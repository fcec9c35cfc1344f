package middleware

import (
	"fmt"
	"net/http"

	"github.com/anpos/pos-backend/api/responses"
	"github.com/anpos/pos-backend/pkg/enums"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
)

// RequireRole admits operators holding any of roles. It must run after Auth;
// a request without an operator role is treated as unauthenticated.
func RequireRole(logg *logger.Logger, roles ...enums.OperatorRole) func(http.Handler) http.Handler {
	allowed := make(map[enums.OperatorRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator login required"))
				return
			}
			if _, ok := allowed[role]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("operator role %q may not perform this action", role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
