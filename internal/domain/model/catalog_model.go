package model

import "time"

// 商品モデル（スニーカーの型）。サイズ別の在庫はCatalogVariantが持つ。
type CatalogModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_catalog_models_name" json:"name"`
	Brand       string    `gorm:"type:varchar(100);not null;index" json:"brand"`
	Type        string    `gorm:"type:varchar(100);not null;index" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null;check:chk_catalog_models_price,price >= 0" json:"price"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	//Preload したときだけ入る
	Variants []CatalogVariant `gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (CatalogModel) TableName() string { return "catalog_models" }
