package model

import "time"

// サイズ別の在庫。quantity は差分でだけ変える。
type CatalogVariant struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ModelID   int64     `gorm:"not null;uniqueIndex:uq_catalog_variants_model_size,priority:1" json:"model_id"`
	Size      float64   `gorm:"not null;uniqueIndex:uq_catalog_variants_model_size,priority:2" json:"size"`
	Quantity  int64     `gorm:"not null;default:0;check:chk_catalog_variants_quantity,quantity >= 0" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Model *CatalogModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
}

func (CatalogVariant) TableName() string { return "catalog_variants" }
