package repository

import (
	"context"
	"time"

	"sneakerhub/internal/domain/model"
)

// 管理画面の絞り込み。nil の条件は使わない
type AuditLogFilter struct {
	ActorAccountID *int64
	Action         *model.AuditAction
	ResourceType   *model.AuditResourceType
	ResourceID     *int64
	CreatedFrom    *time.Time // 以上
	CreatedTo      *time.Time // 以下
	Offset         int
	Limit          int
}

type AuditLogRepository interface {
	// 管理者操作と同じトランザクションで書く
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順。total はページングなしの件数
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}
