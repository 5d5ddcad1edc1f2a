package usecase

import (
	"context"
	"encoding/json"
	"time"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"

	"gorm.io/datatypes"
)

// 管理者操作の記録をつくる（before/after は JSON にして残す）
func newAuditLog(actorID int64, action model.AuditAction, rt model.AuditResourceType, resourceID int64, before, after any, now time.Time) model.AuditLog {
	return model.AuditLog{
		ActorAccountID: actorID,
		Action:         action,
		ResourceType:   rt,
		ResourceID:     resourceID,
		Before:         toJSON(before),
		After:          toJSON(after),
		CreatedAt:      now,
	}
}

func toJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

type ListAuditLogsOutput struct {
	Items  []model.AuditLog `json:"items"`
	Total  int64            `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

// 監査ログ一覧（新しい順）
func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) (ListAuditLogsOutput, error) {
	if f.Offset < 0 {
		return ListAuditLogsOutput{}, apperr.InvalidValue("offset", "must be >= 0")
	}
	if f.Limit == 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit < 1 || f.Limit > maxListLimit {
		return ListAuditLogsOutput{}, apperr.InvalidValue("limit", "must be between 1 and 100")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return ListAuditLogsOutput{}, apperr.InvalidValue("from", "must be before to")
	}

	logs, total, err := u.logs.List(ctx, f)
	if err != nil {
		return ListAuditLogsOutput{}, storeError("list audit logs", err, nil)
	}
	return ListAuditLogsOutput{Items: logs, Total: total, Offset: f.Offset, Limit: f.Limit}, nil
}
