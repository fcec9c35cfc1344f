package operators

import (
	"time"

	"github.com/anpos/pos-backend/pkg/db/models"
	"github.com/anpos/pos-backend/pkg/enums"
)

// LoginRequest is the operator credential payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

// RegisterRequest creates an operator account.
type RegisterRequest struct {
	Username string             `json:"username" validate:"required,max=64"`
	Password string             `json:"password" validate:"required,min=4,max=256"`
	Role     enums.OperatorRole `json:"role" validate:"required,oneof=admin cashier"`
}

// OperatorDTO is the public view of an operator.
type OperatorDTO struct {
	ID          int64              `json:"operator_id"`
	Username    string             `json:"username"`
	Role        enums.OperatorRole `json:"role"`
	LastLoginAt *string            `json:"last_login_at,omitempty"`
	CreatedAt   string             `json:"created_at"`
}

// LoginResponse returns the operator and a bearer token.
type LoginResponse struct {
	Operator    OperatorDTO `json:"operator"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// FromModel maps a stored operator to its public view.
func FromModel(op *models.Operator) OperatorDTO {
	dto := OperatorDTO{
		ID:        op.ID,
		Username:  op.Username,
		Role:      op.Role,
		CreatedAt: op.CreatedAt.String(),
	}
	if op.LastLoginAt != nil {
		v := op.LastLoginAt.String()
		dto.LastLoginAt = &v
	}
	return dto
}
