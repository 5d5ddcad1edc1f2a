package model

import "time"

//在庫調整の履歴

const (
	AdjustmentReasonCheckout = "checkout"
	AdjustmentReasonCancel   = "cancel"
)

type InventoryAdjustment struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID      int64     `gorm:"not null;index" json:"variant_id"`
	ActorAccountID *int64    `gorm:"index" json:"actor_account_id,omitempty"`
	OrderID        *int64    `gorm:"index" json:"order_id,omitempty"`
	Delta          int64     `gorm:"not null" json:"delta"`
	Reason         string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (InventoryAdjustment) TableName() string { return "inventory_adjustments" }
