package repository

import (
	"context"

	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditLogGormRepository struct {
	gw gormGateway[model.AuditLog]
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{gw: newGateway[model.AuditLog](db)}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.gw.Create(ctx, &log)
}

func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	filters := auditLogScopes(f)

	total, err := r.gw.Count(ctx, filters...)
	if err != nil {
		return []model.AuditLog{}, 0, err
	}

	logs, err := r.gw.FindAll(ctx, FindOptions{
		Order:  "created_at desc, id desc",
		Offset: f.Offset,
		Limit:  f.Limit,
	}, filters...)
	if err != nil {
		return []model.AuditLog{}, 0, err
	}
	return logs, total, nil
}

func auditLogScopes(f repo.AuditLogFilter) []scope {
	var out []scope
	if f.ActorAccountID != nil {
		out = append(out, whereEq("actor_account_id", *f.ActorAccountID))
	}
	if f.Action != nil {
		out = append(out, whereEq("action", string(*f.Action)))
	}
	if f.ResourceType != nil {
		out = append(out, whereEq("resource_type", string(*f.ResourceType)))
	}
	if f.ResourceID != nil {
		out = append(out, whereEq("resource_id", *f.ResourceID))
	}
	if f.CreatedFrom != nil {
		from := *f.CreatedFrom
		out = append(out, func(db *gorm.DB) *gorm.DB {
			return db.Where(clause.Gte{Column: clause.Column{Name: "created_at"}, Value: from})
		})
	}
	if f.CreatedTo != nil {
		to := *f.CreatedTo
		out = append(out, func(db *gorm.DB) *gorm.DB {
			return db.Where(clause.Lte{Column: clause.Column{Name: "created_at"}, Value: to})
		})
	}
	return out
}
