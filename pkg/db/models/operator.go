package models

import (
	"github.com/anpos/pos-backend/pkg/enums"
	"github.com/anpos/pos-backend/pkg/types"
)

// Operator is a cashier account on the terminal.
type Operator struct {
	ID           int64              `gorm:"column:operator_id;primaryKey;autoIncrement"`
	Username     string             `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Role         enums.OperatorRole `gorm:"column:role;not null"`
	LastLoginAt  *types.Timestamp   `gorm:"column:last_login_at"`
	CreatedAt    types.Timestamp    `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (Operator) TableName() string { return "operators" }
