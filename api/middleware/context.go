package middleware

import (
	"context"

	"github.com/anpos/pos-backend/pkg/enums"
)

type contextKey string

const (
	ctxOperatorID contextKey = "operator_id"
	ctxUsername   contextKey = "username"
	ctxRole       contextKey = "operator_role"
)

// Operator is the authenticated terminal operator carried on the request.
type Operator struct {
	ID       int64
	Username string
	Role     enums.OperatorRole
}

func OperatorIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxOperatorID).(int64); ok {
		return v
	}
	return 0
}

// UsernameFromContext returns the operator username; checkout uses it as the
// storeman id of the invoice.
func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.OperatorRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.OperatorRole); ok {
		return v
	}
	return ""
}

// WithOperator injects the operator identity into the context.
func WithOperator(ctx context.Context, op Operator) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxOperatorID, op.ID)
	ctx = context.WithValue(ctx, ctxUsername, op.Username)
	return context.WithValue(ctx, ctxRole, op.Role)
}
