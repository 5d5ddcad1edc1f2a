package repository

import "context"

// トランザクション内で使うrepo一式
type TxRepos interface {
	Accounts() AccountRepository
	Models() CatalogModelRepository
	Variants() CatalogVariantRepository
	Inventory() InventoryRepository
	Orders() OrderRepository
	OrderItems() OrderLineItemRepository
	AuditLogs() AuditLogRepository
}

// fn がエラーを返したらロールバック、nil ならコミット
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
