package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anpos/pos-backend/api/responses"
	pkgAuth "github.com/anpos/pos-backend/pkg/auth"
	"github.com/anpos/pos-backend/pkg/config"
	pkgerrors "github.com/anpos/pos-backend/pkg/errors"
	"github.com/anpos/pos-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the operator.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.OperatorID <= 0 || strings.TrimSpace(claims.Username) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "incomplete token"))
				return
			}

			ctx := WithOperator(r.Context(), Operator{
				ID:       claims.OperatorID,
				Username: claims.Username,
				Role:     claims.Role,
			})
			if logg != nil {
				ctx = logg.WithOperatorID(ctx, strconv.FormatInt(claims.OperatorID, 10))
				ctx = logg.WithField(ctx, "operator_role", string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
