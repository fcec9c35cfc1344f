package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/anpos/pos-backend/api/responses"
	"github.com/anpos/pos-backend/pkg/logger"
)

const maxRequestIDBytes = 128

// RequestID echoes a caller supplied request id, or mints one, and scopes the
// logger to it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(responses.RequestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDBytes {
				reqID = uuid.NewString()
			}

			w.Header().Set(responses.RequestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
