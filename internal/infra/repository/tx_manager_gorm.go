package repository

import (
	"context"

	repo "sneakerhub/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	accounts   repo.AccountRepository
	models     repo.CatalogModelRepository
	variants   repo.CatalogVariantRepository
	inventory  repo.InventoryRepository
	orders     repo.OrderRepository
	orderItems repo.OrderLineItemRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Accounts() repo.AccountRepository         { return r.accounts }
func (r *txReposGorm) Models() repo.CatalogModelRepository      { return r.models }
func (r *txReposGorm) Variants() repo.CatalogVariantRepository  { return r.variants }
func (r *txReposGorm) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *txReposGorm) Orders() repo.OrderRepository             { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderLineItemRepository { return r.orderItems }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository       { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func NewRepos(db *gorm.DB) repo.TxRepos {
	return &txReposGorm{
		accounts:   NewAccountGormRepository(db),
		models:     NewCatalogModelGormRepository(db),
		variants:   NewCatalogVariantGormRepository(db),
		inventory:  NewInventoryGormRepository(db),
		orders:     NewOrderGormRepository(db),
		orderItems: NewOrderLineItemGormRepository(db),
		auditLogs:  NewAuditLogGormRepository(db),
	}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(NewRepos(tx))
	})
}
