package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/infra/db"
	repo "sneakerhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// helpers
// =====================

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, closeDB, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "repo.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeDB() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedAccount(t *testing.T, gdb *gorm.DB, username string) model.Account {
	t.Helper()
	a := model.Account{Username: username, Email: username + "@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, NewAccountGormRepository(gdb).Create(context.Background(), &a))
	return a
}

func seedVariant(t *testing.T, gdb *gorm.DB, name string, price int64, size float64, qty int64) (model.CatalogModel, model.CatalogVariant) {
	t.Helper()
	ctx := context.Background()

	m := model.CatalogModel{Name: name, Brand: "Acme", Type: "runner", Price: price}
	require.NoError(t, NewCatalogModelGormRepository(gdb).Create(ctx, &m))

	v := model.CatalogVariant{ModelID: m.ID, Size: size, Quantity: qty}
	require.NoError(t, NewCatalogVariantGormRepository(gdb).Create(ctx, &v))
	return m, v
}

func violation(t *testing.T, err error) *repo.ConstraintViolation {
	t.Helper()
	v, ok := repo.AsConstraintViolation(err)
	require.True(t, ok, "want constraint violation, got %v", err)
	return v
}

// =====================
// 制約違反の分類
// =====================

func TestAccountRepo_Create_DuplicateUsername(t *testing.T) {
	gdb := openTestDB(t)
	seedAccount(t, gdb, "alice")

	dup := model.Account{Username: "alice", Email: "other@example.com", PasswordHash: "x", IsActive: true}
	err := NewAccountGormRepository(gdb).Create(context.Background(), &dup)

	v := violation(t, err)
	assert.Equal(t, repo.ViolationUnique, v.Kind)
	assert.Equal(t, model.ConstraintAccountsUsername, v.Constraint)
}

func TestAccountRepo_UpdateEmail_Duplicate(t *testing.T) {
	gdb := openTestDB(t)
	seedAccount(t, gdb, "alice")
	bob := seedAccount(t, gdb, "bob")

	_, err := NewAccountGormRepository(gdb).UpdateEmail(context.Background(), bob.ID, "alice@example.com")

	v := violation(t, err)
	assert.Equal(t, repo.ViolationUnique, v.Kind)
	assert.Equal(t, model.ConstraintAccountsEmail, v.Constraint)
}

func TestVariantRepo_Create_DuplicateSize(t *testing.T) {
	gdb := openTestDB(t)
	m, _ := seedVariant(t, gdb, "Runner 1", 1000, 42, 1)

	dup := model.CatalogVariant{ModelID: m.ID, Size: 42, Quantity: 3}
	err := NewCatalogVariantGormRepository(gdb).Create(context.Background(), &dup)

	v := violation(t, err)
	assert.Equal(t, repo.ViolationUnique, v.Kind)
	assert.Equal(t, model.ConstraintVariantsModelSize, v.Constraint)
}

func TestVariantRepo_Create_MissingModel(t *testing.T) {
	gdb := openTestDB(t)

	v := model.CatalogVariant{ModelID: 999, Size: 42}
	err := NewCatalogVariantGormRepository(gdb).Create(context.Background(), &v)

	assert.Equal(t, repo.ViolationForeignKey, violation(t, err).Kind)
}

func TestModelRepo_Create_NegativePrice(t *testing.T) {
	gdb := openTestDB(t)

	m := model.CatalogModel{Name: "Bad", Brand: "Acme", Type: "runner", Price: -1}
	err := NewCatalogModelGormRepository(gdb).Create(context.Background(), &m)

	v := violation(t, err)
	assert.Equal(t, repo.ViolationCheck, v.Kind)
	assert.Equal(t, model.ConstraintCatalogModelsPrice, v.Constraint)
}

func TestVariantRepo_Delete_OrderedVariantRestricted(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	a := seedAccount(t, gdb, "alice")
	_, v := seedVariant(t, gdb, "Runner 1", 1000, 42, 5)

	o := model.Order{AccountID: a.ID, Status: model.OrderStatusPending, TotalAmount: 1000}
	require.NoError(t, NewOrderGormRepository(gdb).Create(ctx, &o))
	_, err := NewOrderLineItemGormRepository(gdb).CreateBulk(ctx, o.ID, []model.OrderLineItem{
		{VariantID: v.ID, Quantity: 1, PriceAtTime: 1000},
	})
	require.NoError(t, err)

	err = NewCatalogVariantGormRepository(gdb).Delete(ctx, v.ID)
	assert.Equal(t, repo.ViolationForeignKey, violation(t, err).Kind)

	//消えていない
	_, err = NewCatalogVariantGormRepository(gdb).FindByID(ctx, v.ID, false)
	assert.NoError(t, err)
}

func TestModelRepo_Delete_CascadesVariants(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	m, v := seedVariant(t, gdb, "Runner 1", 1000, 42, 5)

	require.NoError(t, NewCatalogModelGormRepository(gdb).Delete(ctx, m.ID))

	_, err := NewCatalogVariantGormRepository(gdb).FindByID(ctx, v.ID, false)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSQLiteConstraintDetail(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{msg: "constraint failed: UNIQUE constraint failed: accounts.email (2067)", want: "accounts.email"},
		{msg: "CHECK constraint failed: chk_accounts_balance (275)", want: "chk_accounts_balance"},
		{msg: "UNIQUE constraint failed: catalog_variants.model_id, catalog_variants.size", want: "catalog_variants.model_id, catalog_variants.size"},
		{msg: "something else entirely", want: ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sqliteConstraintDetail(tc.msg), tc.msg)
	}
}

func TestClassifyError_PassThrough(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, classifyError(plain))
	assert.NoError(t, classifyError(nil))
}

// =====================
// 条件付き更新
// =====================

func TestInventoryRepo_ApplyDelta(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	_, v := seedVariant(t, gdb, "Runner 1", 1000, 42, 2)
	inv := NewInventoryGormRepository(gdb)

	got, err := inv.ApplyDelta(ctx, v.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)

	//下限を割るなら弾く（在庫は変わらない）
	_, err = inv.ApplyDelta(ctx, v.ID, -1)
	assert.ErrorIs(t, err, repo.ErrRejected)

	got, err = inv.ApplyDelta(ctx, v.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)

	_, err = inv.ApplyDelta(ctx, 999, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAccountRepo_IncrementBalance_Floor(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	a := seedAccount(t, gdb, "alice")
	accounts := NewAccountGormRepository(gdb)

	got, err := accounts.IncrementBalance(ctx, a.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Balance)

	_, err = accounts.IncrementBalance(ctx, a.ID, -51)
	assert.ErrorIs(t, err, repo.ErrRejected)

	got, err = accounts.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Balance)
}

func TestAccountRepo_MarkVerified_Once(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	a := seedAccount(t, gdb, "alice")
	accounts := NewAccountGormRepository(gdb)

	got, err := accounts.MarkVerified(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	_, err = accounts.MarkVerified(ctx, a.ID)
	assert.ErrorIs(t, err, repo.ErrRejected)

	_, err = accounts.MarkVerified(ctx, 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAccountRepo_UpdateEmail_ResetsVerification(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	a := seedAccount(t, gdb, "alice")
	accounts := NewAccountGormRepository(gdb)

	_, err := accounts.MarkVerified(ctx, a.ID)
	require.NoError(t, err)

	got, err := accounts.UpdateEmail(ctx, a.ID, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	assert.False(t, got.IsVerified)
}

func TestOrderRepo_TransitionStatus(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	a := seedAccount(t, gdb, "alice")
	orders := NewOrderGormRepository(gdb)

	o := model.Order{AccountID: a.ID, Status: model.OrderStatusPending, TotalAmount: 0}
	require.NoError(t, orders.Create(ctx, &o))

	got, err := orders.TransitionStatus(ctx, o.ID, model.CancellableOrderStatuses, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)

	_, err = orders.TransitionStatus(ctx, o.ID, model.CancellableOrderStatuses, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, repo.ErrRejected)

	_, err = orders.TransitionStatus(ctx, 999, model.CancellableOrderStatuses, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// =====================
// 一覧
// =====================

func TestModelRepo_List_Filters(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	seedVariant(t, gdb, "Cloud Runner", 12000, 42, 3)
	seedVariant(t, gdb, "Court Classic", 8000, 43, 0)
	seedVariant(t, gdb, "Trail Max", 15000, 42, 0)
	models := NewCatalogModelGormRepository(gdb)

	inStock := true
	items, total, err := models.List(ctx, repo.CatalogModelQuery{InStock: &inStock})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Cloud Runner", items[0].Name)

	items, total, err = models.List(ctx, repo.CatalogModelQuery{Sizes: []float64{42}, Sort: "price_asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Cloud Runner", items[0].Name)
	assert.Equal(t, "Trail Max", items[1].Name)

	outOfStock := false
	_, total, err = models.List(ctx, repo.CatalogModelQuery{InStock: &outOfStock})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	minPrice := int64(9000)
	items, total, err = models.List(ctx, repo.CatalogModelQuery{Search: "RUN", MinPrice: &minPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Cloud Runner", items[0].Name)

	items, total, err = models.List(ctx, repo.CatalogModelQuery{Sort: "name", Limit: 1, Offset: 1, IncludeVariants: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Court Classic", items[0].Name)
	assert.Len(t, items[0].Variants, 1)
}

func TestModelRepo_List_SearchIsLiteral(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	seedVariant(t, gdb, "100% Runner", 1000, 42, 1)
	seedVariant(t, gdb, "100 Runner", 1000, 42, 1)
	seedVariant(t, gdb, "Air_Max", 1000, 42, 1)
	seedVariant(t, gdb, "AirXMax", 1000, 42, 1)
	seedVariant(t, gdb, `C:\Run`, 1000, 42, 1)
	models := NewCatalogModelGormRepository(gdb)

	cases := []struct {
		search string
		want   []string
	}{
		{search: "100%", want: []string{"100% Runner"}},
		{search: "air_", want: []string{"Air_Max"}},
		{search: "_", want: []string{"Air_Max"}},
		{search: "%", want: []string{"100% Runner"}},
		{search: `\`, want: []string{`C:\Run`}},
		{search: "runner", want: []string{"100 Runner", "100% Runner"}},
	}

	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			items, total, err := models.List(ctx, repo.CatalogModelQuery{Search: tc.search, Sort: "name"})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)
			names := make([]string, 0, len(items))
			for _, m := range items {
				names = append(names, m.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestVariantRepo_FindByIDs_SkipsMissing(t *testing.T) {
	gdb := openTestDB(t)
	_, v := seedVariant(t, gdb, "Runner 1", 1000, 42, 5)

	got, err := NewCatalogVariantGormRepository(gdb).FindByIDs(context.Background(), []int64{v.ID, 999})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Model)
	assert.Equal(t, int64(1000), got[0].Model.Price)
}

// =====================
// 監査ログ
// =====================

func TestAuditLogRepo_ListFilters(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	r := NewAuditLogGormRepository(gdb)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		action := model.AuditActionUpdateOrderStatus
		rt := model.AuditResourceOrder
		if i%2 == 1 {
			action = model.AuditActionSetAccountActive
			rt = model.AuditResourceAccount
		}
		require.NoError(t, r.Create(ctx, model.AuditLog{
			ActorAccountID: 1,
			Action:         action,
			ResourceType:   rt,
			ResourceID:     int64(10 + i),
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, total, err := r.List(ctx, repo.AuditLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, all, 4)
	//新しい順
	assert.Equal(t, int64(13), all[0].ResourceID)

	action := model.AuditActionSetAccountActive
	got, total, err := r.List(ctx, repo.AuditLogFilter{Action: &action, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 1)
	assert.Equal(t, int64(13), got[0].ResourceID)

	from := base.Add(time.Hour)
	to := base.Add(2 * time.Hour)
	got, total, err = r.List(ctx, repo.AuditLogFilter{CreatedFrom: &from, CreatedTo: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, got, 2)
}

// =====================
// トランザクション
// =====================

func TestTxManager_RollbackOnError(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	_, v := seedVariant(t, gdb, "Runner 1", 1000, 42, 5)

	sentinel := errors.New("stop")
	err := NewTxManagerGorm(gdb).WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Inventory().ApplyDelta(ctx, v.ID, -3); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	got, err := NewCatalogVariantGormRepository(gdb).FindByID(ctx, v.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
}
