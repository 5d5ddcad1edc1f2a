package model

import "time"

// 注文明細。price_at_time は注文時点の価格を固定して持つ。
type OrderLineItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64     `gorm:"not null;index" json:"order_id"`
	VariantID   int64     `gorm:"not null;index" json:"variant_id"`
	Quantity    int64     `gorm:"not null;check:chk_order_line_items_quantity,quantity > 0" json:"quantity"`
	PriceAtTime int64     `gorm:"not null;check:chk_order_line_items_price,price_at_time >= 0" json:"price_at_time"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	//注文済みの在庫は消せない
	Variant *CatalogVariant `gorm:"foreignKey:VariantID;constraint:OnDelete:RESTRICT" json:"variant,omitempty"`
}

func (OrderLineItem) TableName() string { return "order_line_items" }

func (it OrderLineItem) Subtotal() int64 {
	return it.PriceAtTime * it.Quantity
}
