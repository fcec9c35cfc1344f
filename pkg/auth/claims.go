package auth

import (
	"github.com/anpos/pos-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	OperatorID int64
	Username   string
	Role       enums.OperatorRole
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to terminal operators.
type AccessTokenClaims struct {
	OperatorID int64              `json:"operator_id"`
	Username   string             `json:"username"`
	Role       enums.OperatorRole `json:"role"`
	jwt.RegisteredClaims
}
