package model

import (
	"time"

	"gorm.io/datatypes"
)

// 在庫調整、注文ステータス更新など。
type AuditAction string

const (
	//在庫を増減した操作。
	AuditActionAdjustQuantity AuditAction = "ADJUST_QUANTITY"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//アカウントの有効/無効を切り替えた操作。
	AuditActionSetAccountActive AuditAction = "SET_ACCOUNT_ACTIVE"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceVariant AuditResourceType = "catalog_variant"
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceAccount AuditResourceType = "account"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したアカウントのID。
	ActorAccountID int64 `gorm:"not null;index" json:"actor_account_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	Before datatypes.JSON `json:"before,omitempty"`
	After  datatypes.JSON `json:"after,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
