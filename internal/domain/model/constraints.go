package model

// DB制約名。マイグレーションのタグと、違反時の分類の両方で使う。
const (
	ConstraintAccountsUsername     = "uq_accounts_username"
	ConstraintAccountsEmail        = "uq_accounts_email"
	ConstraintAccountsBalance      = "chk_accounts_balance"
	ConstraintCatalogModelsName    = "uq_catalog_models_name"
	ConstraintCatalogModelsPrice   = "chk_catalog_models_price"
	ConstraintVariantsModelSize    = "uq_catalog_variants_model_size"
	ConstraintVariantsQuantity     = "chk_catalog_variants_quantity"
	ConstraintOrdersTotalAmount    = "chk_orders_total_amount"
	ConstraintOrdersAwardedBalance = "chk_orders_awarded_balance"
	ConstraintLineItemsQuantity    = "chk_order_line_items_quantity"
	ConstraintLineItemsPrice       = "chk_order_line_items_price"
)

// AllModels はマイグレーション対象。
func AllModels() []any {
	return []any{
		&Account{},
		&CatalogModel{},
		&CatalogVariant{},
		&Order{},
		&OrderLineItem{},
		&InventoryAdjustment{},
		&AuditLog{},
	}
}
