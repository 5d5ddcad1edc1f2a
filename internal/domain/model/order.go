package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// キャンセルできる状態
var CancellableOrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusProcessing}

// 管理者が進められる遷移（キャンセルは別経路）
var OrderStatusTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

type Order struct {
	ID             int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID      int64       `gorm:"not null;index" json:"account_id"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount    int64       `gorm:"not null;check:chk_orders_total_amount,total_amount >= 0" json:"total_amount"`
	AwardedBalance int64       `gorm:"not null;default:0;check:chk_orders_awarded_balance,awarded_balance >= 0" json:"awarded_balance"`
	OrderDate      time.Time   `gorm:"not null;index" json:"order_date"`
	UpdatedAt      time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Items []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }
