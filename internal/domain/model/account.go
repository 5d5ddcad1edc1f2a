package model

import "time"

// アカウント（会員）。残高は注文時の付与でのみ変わる。
type Account struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(25);not null;uniqueIndex:uq_accounts_username" json:"username"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_accounts_email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Balance      int64     `gorm:"not null;default:0;check:chk_accounts_balance,balance >= 0" json:"balance"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	//削除時は注文ごと消す
	Orders []Order `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Account) TableName() string { return "accounts" }
