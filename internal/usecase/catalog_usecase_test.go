package usecase

import (
	"context"
	"testing"

	"sneakerhub/internal/domain/apperr"
	"sneakerhub/internal/domain/model"
	repo "sneakerhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// Model
// =====================

func TestCatalogUsecase_CreateModel_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateModel(ctx, CreateModelInput{Name: "Cloud Runner", Brand: "Acme", Type: "runner", Price: 12000})
	require.NoError(t, err)

	_, err = env.catalog.CreateModel(ctx, CreateModelInput{Name: "Cloud Runner", Brand: "Other", Type: "runner", Price: 1})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "name", e.Field)
}

func TestCatalogUsecase_CreateModel_Invalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateModel(ctx, CreateModelInput{Name: " ", Brand: "Acme", Type: "runner"})
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	_, err = env.catalog.CreateModel(ctx, CreateModelInput{Name: "X", Brand: "Acme", Type: "runner", Price: -1})
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)
}

func TestCatalogUsecase_UpdateModel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m, err := env.catalog.CreateModel(ctx, CreateModelInput{Name: "Cloud Runner", Brand: "Acme", Type: "runner", Price: 12000})
	require.NoError(t, err)

	_, err = env.catalog.UpdateModel(ctx, m.ID, UpdateModelInput{})
	assert.ErrorIs(t, err, apperr.ErrNoDataProvided)

	price := int64(9900)
	got, err := env.catalog.UpdateModel(ctx, m.ID, UpdateModelInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(9900), got.Price)
	assert.Equal(t, "Cloud Runner", got.Name)

	_, err = env.catalog.UpdateModel(ctx, 999, UpdateModelInput{Price: &price})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCatalogUsecase_GetModel_WithVariants(t *testing.T) {
	env := newTestEnv(t)
	v := env.variant(t, "Cloud Runner", 12000, 42, 3)

	m, err := env.catalog.GetModel(context.Background(), v.ModelID, true)
	require.NoError(t, err)
	require.Len(t, m.Variants, 1)
	assert.Equal(t, v.ID, m.Variants[0].ID)

	_, err = env.catalog.GetModel(context.Background(), 999, false)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCatalogUsecase_DeleteModel_InUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.account(t, "alice")
	v := env.variant(t, "Cloud Runner", 12000, 42, 3)

	_, err := env.orders.PlaceOrder(ctx, a.ID, PlaceOrderInput{Lines: []OrderLineInput{{VariantID: v.ID, Quantity: 1}}})
	require.NoError(t, err)

	err = env.catalog.DeleteModel(ctx, v.ModelID)
	assert.ErrorIs(t, err, apperr.ErrInUse)

	err = env.catalog.DeleteVariant(ctx, v.ID)
	assert.ErrorIs(t, err, apperr.ErrInUse)

	err = env.catalog.DeleteModel(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCatalogUsecase_ListModels_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.ListModels(ctx, ListModelsInput{Limit: 101})
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	_, err = env.catalog.ListModels(ctx, ListModelsInput{Offset: -1})
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	_, err = env.catalog.ListModels(ctx, ListModelsInput{Sort: "random"})
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	lo, hi := int64(500), int64(100)
	_, err = env.catalog.ListModels(ctx, ListModelsInput{MinPrice: &lo, MaxPrice: &hi})
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	out, err := env.catalog.ListModels(ctx, ListModelsInput{})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Limit)
	assert.Empty(t, out.Items)
}

func TestCatalogUsecase_ListModels_Sort(t *testing.T) {
	env := newTestEnv(t)
	env.variant(t, "B Model", 300, 42, 1)
	env.variant(t, "A Model", 100, 42, 1)
	env.variant(t, "C Model", 200, 42, 1)

	out, err := env.catalog.ListModels(context.Background(), ListModelsInput{Sort: "price_desc"})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, []string{"B Model", "C Model", "A Model"}, []string{out.Items[0].Name, out.Items[1].Name, out.Items[2].Name})
}

// =====================
// Variant
// =====================

func TestCatalogUsecase_CreateVariant_MissingModel(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.CreateVariant(context.Background(), CreateVariantInput{ModelID: 999, Size: 42})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "catalog model", e.Field)
}

func TestCatalogUsecase_CreateVariant_DuplicateSize(t *testing.T) {
	env := newTestEnv(t)
	v := env.variant(t, "Cloud Runner", 12000, 42, 3)

	_, err := env.catalog.CreateVariant(context.Background(), CreateVariantInput{ModelID: v.ModelID, Size: 42})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestCatalogUsecase_GetVariantsByIDs_ListsMissing(t *testing.T) {
	env := newTestEnv(t)
	v := env.variant(t, "Cloud Runner", 12000, 42, 3)

	got, err := env.catalog.GetVariantsByIDs(context.Background(), []int64{v.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Model)

	_, err = env.catalog.GetVariantsByIDs(context.Background(), []int64{77, v.ID, 12, 77})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"12", "77"}, e.Details)
}

func TestCatalogUsecase_AdjustVariantQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.superuser(t, "admin")
	v := env.variant(t, "Cloud Runner", 12000, 42, 3)

	got, err := env.catalog.AdjustVariantQuantity(ctx, admin.ID, v.ID, 7, "restock")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)

	//0未満にはならない（在庫もログも変わらない）
	_, err = env.catalog.AdjustVariantQuantity(ctx, admin.ID, v.ID, -11, "shrinkage")
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)
	assert.Equal(t, int64(10), env.quantity(t, v.ID))

	_, err = env.catalog.AdjustVariantQuantity(ctx, admin.ID, v.ID, 0, "noop")
	assert.ErrorIs(t, err, apperr.ErrInvalidValue)

	_, err = env.catalog.AdjustVariantQuantity(ctx, admin.ID, 999, 1, "restock")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	adjs, err := env.catalog.ListAdjustments(ctx, v.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, int64(7), adjs[0].Delta)
	assert.Equal(t, "restock", adjs[0].Reason)
	require.NotNil(t, adjs[0].ActorAccountID)
	assert.Equal(t, admin.ID, *adjs[0].ActorAccountID)

	action := model.AuditActionAdjustQuantity
	out, err := env.audit.List(ctx, repo.AuditLogFilter{Action: &action})
	require.NoError(t, err)
	logs := out.Items
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"quantity":3}`, string(logs[0].Before))
}
