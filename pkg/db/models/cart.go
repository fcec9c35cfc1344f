package models

import (
	"github.com/anpos/pos-backend/pkg/enums"
	"github.com/anpos/pos-backend/pkg/types"
)

// Cart is a basket under construction, suspended, or awaiting payment at the terminal.
type Cart struct {
	ID        int64            `gorm:"column:cart_id;primaryKey;autoIncrement" json:"cart_id"`
	Name      string           `gorm:"column:cart_name;not null;default:''" json:"cart_name"`
	Status    enums.CartStatus `gorm:"column:status;not null" json:"status"`
	CreatedAt types.Timestamp  `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
}

func (Cart) TableName() string { return "carts" }
