package usecase

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sneakerhub/internal/domain/model"
	"sneakerhub/internal/infra/db"
	infrarepo "sneakerhub/internal/infra/repository"
	"sneakerhub/internal/notify"
	repo "sneakerhub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// =====================
// fakes
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// 通知を記録するだけ
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, e notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

// =====================
// SQLiteで組み立てた一式
// =====================

type testEnv struct {
	db       *gorm.DB
	repos    repo.TxRepos
	notifier *recordingNotifier

	accounts *AccountUsecase
	catalog  *CatalogUsecase
	orders   *OrderUsecase
	admin    *AdminOrderUsecase
	audit    *AuditLogUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, closeDB, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "usecase.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeDB() })
	require.NoError(t, db.Migrate(gdb))

	repos := infrarepo.NewRepos(gdb)
	tx := infrarepo.NewTxManagerGorm(gdb)
	clock := fixedClock{t: testNow}
	n := &recordingNotifier{}

	orders := NewOrderUsecase(tx, repos.Orders(), n, decimal.NewFromInt(5), clock)
	return &testEnv{
		db:       gdb,
		repos:    repos,
		notifier: n,
		accounts: NewAccountUsecase(repos.Accounts(), tx, NewBcryptPasswordHasher(bcrypt.MinCost), NewBcryptPasswordVerifier(), clock),
		catalog:  NewCatalogUsecase(tx, repos.Models(), repos.Variants(), repos.Inventory(), clock),
		orders:   orders,
		admin:    NewAdminOrderUsecase(orders),
		audit:    NewAuditLogUsecase(repos.AuditLogs()),
	}
}

func (e *testEnv) account(t *testing.T, username string) model.Account {
	t.Helper()
	a, err := e.accounts.Create(context.Background(), CreateAccountInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse-1",
	})
	require.NoError(t, err)
	return a
}

func (e *testEnv) superuser(t *testing.T, username string) model.Account {
	t.Helper()
	a := e.account(t, username)
	require.NoError(t, e.db.Model(&model.Account{}).Where("id = ?", a.ID).Update("is_superuser", true).Error)
	a.IsSuperuser = true
	return a
}

func (e *testEnv) variant(t *testing.T, name string, price int64, size float64, qty int64) model.CatalogVariant {
	t.Helper()
	ctx := context.Background()

	m, err := e.catalog.CreateModel(ctx, CreateModelInput{Name: name, Brand: "Acme", Type: "runner", Price: price})
	require.NoError(t, err)
	v, err := e.catalog.CreateVariant(ctx, CreateVariantInput{ModelID: m.ID, Size: size, Quantity: qty})
	require.NoError(t, err)
	return v
}

func (e *testEnv) quantity(t *testing.T, variantID int64) int64 {
	t.Helper()
	v, err := e.repos.Variants().FindByID(context.Background(), variantID, false)
	require.NoError(t, err)
	return v.Quantity
}

func (e *testEnv) balance(t *testing.T, accountID int64) int64 {
	t.Helper()
	a, err := e.repos.Accounts().FindByID(context.Background(), accountID)
	require.NoError(t, err)
	return a.Balance
}

func (e *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Order{}).Count(&n).Error)
	return n
}
