package usecase_test

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository モック
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Bool(1), args.Error(2)
}

var _ repo.UserRepository = (*UserRepoMock)(nil)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

var _ repo.ProductRepository = (*ProductRepoMock)(nil)

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

var _ repo.InventoryRepository = (*InventoryRepoMock)(nil)

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.OrderRepository = (*OrderRepoMock)(nil)

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

var _ repo.OrderItemRepository = (*OrderItemRepoMock)(nil)

type TransactionRepoMock struct{ mock.Mock }

func (m *TransactionRepoMock) FindByID(ctx context.Context, transactionID int64) (model.Transaction, error) {
	args := m.Called(ctx, transactionID)
	t, _ := args.Get(0).(model.Transaction)
	return t, args.Error(1)
}

func (m *TransactionRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Transaction, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Transaction)
	return items, args.Error(1)
}

func (m *TransactionRepoMock) Create(ctx context.Context, txn model.Transaction) (int64, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TransactionRepoMock) UpdateStatus(ctx context.Context, transactionID int64, status model.TransactionStatus) error {
	args := m.Called(ctx, transactionID, status)
	return args.Error(0)
}

var _ repo.TransactionRepository = (*TransactionRepoMock)(nil)

type TransactionItemRepoMock struct{ mock.Mock }

func (m *TransactionItemRepoMock) CreateBulk(ctx context.Context, transactionID int64, items []model.TransactionItem) error {
	args := m.Called(ctx, transactionID, items)
	return args.Error(0)
}

func (m *TransactionItemRepoMock) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionItem, error) {
	args := m.Called(ctx, transactionID)
	items, _ := args.Get(0).([]model.TransactionItem)
	return items, args.Error(1)
}

var _ repo.TransactionItemRepository = (*TransactionItemRepoMock)(nil)

// =====================
// TxManager フェイク
// =====================

type fakeTxRepos struct {
	users            *UserRepoMock
	products         *ProductRepoMock
	inventory        *InventoryRepoMock
	orders           *OrderRepoMock
	orderItems       *OrderItemRepoMock
	transactions     *TransactionRepoMock
	transactionItems *TransactionItemRepoMock
}

func newFakeTxRepos() *fakeTxRepos {
	return &fakeTxRepos{
		users:            new(UserRepoMock),
		products:         new(ProductRepoMock),
		inventory:        new(InventoryRepoMock),
		orders:           new(OrderRepoMock),
		orderItems:       new(OrderItemRepoMock),
		transactions:     new(TransactionRepoMock),
		transactionItems: new(TransactionItemRepoMock),
	}
}

func (r *fakeTxRepos) Users() repo.UserRepository                       { return r.users }
func (r *fakeTxRepos) Products() repo.ProductRepository                 { return r.products }
func (r *fakeTxRepos) Inventory() repo.InventoryRepository              { return r.inventory }
func (r *fakeTxRepos) Orders() repo.OrderRepository                     { return r.orders }
func (r *fakeTxRepos) OrderItems() repo.OrderItemRepository             { return r.orderItems }
func (r *fakeTxRepos) Transactions() repo.TransactionRepository         { return r.transactions }
func (r *fakeTxRepos) TransactionItems() repo.TransactionItemRepository { return r.transactionItems }

// fnがエラーならそのまま返す＝rollback相当
// commitErr でコミット失敗を再現できる
type fakeTxManager struct {
	repos     *fakeTxRepos
	calls     int
	commitErr error
}

func newFakeTxManager() *fakeTxManager {
	return &fakeTxManager{repos: newFakeTxRepos()}
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.calls++
	if err := fn(m.repos); err != nil {
		return err
	}
	return m.commitErr
}

var _ repo.TransactionManager = (*fakeTxManager)(nil)

// =====================
// 小物フェイク
// =====================

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fixedCodeGen struct {
	code string
	err  error
}

func (g *fixedCodeGen) NewCode() (string, error) { return g.code, g.err }
