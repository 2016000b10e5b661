package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTransactionUC(tm *fakeTxManager) *usecase.TransactionUsecase {
	return usecase.NewTransactionUsecase(tm, &fixedCodeGen{code: "TRX-123456-ABCDEF01"}, 5*time.Second)
}

func TestTransactionUsecase_Checkout_EmptyItems(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{UserID: 1, Items: []usecase.CheckoutItem{}})

	var invalid *usecase.InvalidRequestError
	assert.ErrorAs(t, err, &invalid)
	//DBに触る前に弾く
	assert.Equal(t, 0, tm.calls)
}

func TestTransactionUsecase_Checkout_NonPositiveQuantity(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 1,
		Items:  []usecase.CheckoutItem{{ProductID: 10, Quantity: 0}},
	})

	var invalid *usecase.InvalidRequestError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, tm.calls)
}

func TestTransactionUsecase_Checkout_UserNotFound(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.users.On("FindByID", mock.Anything, int64(9)).Return(model.User{}, repo.ErrNotFound)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 9,
		Items:  []usecase.CheckoutItem{{ProductID: 10, Quantity: 1}},
	})

	var notFound *usecase.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "user", notFound.Resource)
	assert.Equal(t, int64(9), notFound.ID)

	//ユーザー確認が先。商品にも在庫にも触らない
	tm.repos.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	tm.repos.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionUsecase_Checkout_ProductNotFound(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	tm.repos.products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 1,
		Items:  []usecase.CheckoutItem{{ProductID: 99, Quantity: 1}},
	})

	var notFound *usecase.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "product", notFound.Resource)
	assert.Equal(t, int64(99), notFound.ID)
}

func TestTransactionUsecase_Checkout_InsufficientStock(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	tm.repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:    10,
		Name:  "コーヒー豆",
		Price: decimal.NewFromInt(100),
		Stock: 2,
	}, nil)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 1,
		Items:  []usecase.CheckoutItem{{ProductID: 10, Quantity: 5}},
	})

	var insufficient *usecase.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(10), insufficient.ProductID)
	assert.Equal(t, int64(2), insufficient.Available)
	assert.Equal(t, int64(5), insufficient.Requested)

	//在庫は減らさない
	tm.repos.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionUsecase_Checkout_LostStockRace(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	//読みでは足りていたが、条件付きUPDATEで負けた
	tm.repos.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	tm.repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:    10,
		Price: decimal.NewFromInt(100),
		Stock: 5,
	}, nil)
	tm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(3)).Return(false, nil)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 1,
		Items:  []usecase.CheckoutItem{{ProductID: 10, Quantity: 3}},
	})

	var insufficient *usecase.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	tm.repos.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransactionUsecase_Checkout_Success(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	tm.repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:    10,
		Name:  "コーヒー豆",
		Price: decimal.NewFromInt(100),
		Stock: 10,
	}, nil)
	tm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(3)).Return(true, nil)
	tm.repos.transactions.On("Create", mock.Anything, mock.MatchedBy(func(txn model.Transaction) bool {
		return txn.UserID == 1 &&
			txn.Code == "TRX-123456-ABCDEF01" &&
			txn.Status == model.TransactionStatusPending &&
			txn.TotalAmount.Equal(decimal.NewFromInt(300))
	})).Return(int64(77), nil)
	tm.repos.transactionItems.On("CreateBulk", mock.Anything, int64(77), mock.MatchedBy(func(items []model.TransactionItem) bool {
		return len(items) == 1 &&
			items[0].ProductID == 10 &&
			items[0].Quantity == 3 &&
			items[0].UnitPriceSnapshot.Equal(decimal.NewFromInt(100)) &&
			items[0].Subtotal.Equal(decimal.NewFromInt(300))
	})).Return(nil)
	tm.repos.transactions.On("UpdateStatus", mock.Anything, int64(77), model.TransactionStatusCompleted).Return(nil)

	out, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 1,
		Items:  []usecase.CheckoutItem{{ProductID: 10, Quantity: 3}},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)
	assert.Equal(t, "TRX-123456-ABCDEF01", out.Code)
	assert.Equal(t, int64(1), out.UserID)
	assert.Equal(t, string(model.TransactionStatusCompleted), out.Status)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, "コーヒー豆", out.Items[0].ProductName)
	assert.True(t, out.Items[0].Subtotal.Equal(decimal.NewFromInt(300)))

	tm.repos.transactions.AssertExpectations(t)
	tm.repos.transactionItems.AssertExpectations(t)
	tm.repos.inventory.AssertExpectations(t)
}

// 同じ商品が2回出てきたら、2回目は減算後の在庫を見る
func TestTransactionUsecase_Checkout_RepeatedProduct(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)

	//1回目の読み：在庫5 → 3個減算。2回目の読み：在庫2 → 3個は足りない
	tm.repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:    10,
		Price: decimal.NewFromInt(100),
		Stock: 5,
	}, nil).Once()
	tm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(3)).Return(true, nil).Once()
	tm.repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:    10,
		Price: decimal.NewFromInt(100),
		Stock: 2,
	}, nil).Once()

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 1,
		Items: []usecase.CheckoutItem{
			{ProductID: 10, Quantity: 3},
			{ProductID: 10, Quantity: 3},
		},
	})

	var insufficient *usecase.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Available)
}

func TestTransactionUsecase_Checkout_CommitFailure(t *testing.T) {
	tm := newFakeTxManager()
	tm.commitErr = errors.New("connection reset")
	uc := newTransactionUC(tm)

	tm.repos.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	tm.repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID:    10,
		Price: decimal.NewFromInt(100),
		Stock: 10,
	}, nil)
	tm.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(1)).Return(true, nil)
	tm.repos.transactions.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)
	tm.repos.transactionItems.On("CreateBulk", mock.Anything, int64(1), mock.Anything).Return(nil)
	tm.repos.transactions.On("UpdateStatus", mock.Anything, int64(1), model.TransactionStatusCompleted).Return(nil)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID: 1,
		Items:  []usecase.CheckoutItem{{ProductID: 10, Quantity: 1}},
	})

	//コミット失敗はリトライ可能なStorageError
	var storage *usecase.StorageError
	assert.ErrorAs(t, err, &storage)
}

func TestTransactionUsecase_GetTransaction_NotFound(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.transactions.On("FindByID", mock.Anything, int64(42)).Return(model.Transaction{}, repo.ErrNotFound)

	_, err := uc.GetTransaction(context.Background(), 42)

	var notFound *usecase.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "transaction", notFound.Resource)
}

// 作った直後の取引を読み戻すと、明細の小計の合計が合計金額に一致する
func TestTransactionUsecase_GetTransaction_ReadBack(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.transactions.On("FindByID", mock.Anything, int64(7)).Return(model.Transaction{
		ID:          7,
		Code:        "TRX-000001-00000000",
		UserID:      1,
		TotalAmount: decimal.NewFromInt(500),
		Status:      model.TransactionStatusCompleted,
	}, nil)
	tm.repos.transactionItems.On("ListByTransactionID", mock.Anything, int64(7)).Return([]model.TransactionItem{
		{ProductID: 10, Quantity: 3, UnitPriceSnapshot: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(300)},
		{ProductID: 11, Quantity: 2, UnitPriceSnapshot: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(200)},
	}, nil)

	out, err := uc.GetTransaction(context.Background(), 7)
	assert.NoError(t, err)

	sum := decimal.Zero
	for _, it := range out.Items {
		sum = sum.Add(it.Subtotal)
	}
	assert.True(t, sum.Equal(out.TotalAmount))
}

func TestTransactionUsecase_ListUserTransactions(t *testing.T) {
	tm := newFakeTxManager()
	uc := newTransactionUC(tm)

	tm.repos.users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1}, nil)
	tm.repos.transactions.On("ListByUserID", mock.Anything, int64(1)).Return([]model.Transaction{
		{ID: 2, UserID: 1, TotalAmount: decimal.NewFromInt(200)},
		{ID: 1, UserID: 1, TotalAmount: decimal.NewFromInt(100)},
	}, nil)
	tm.repos.transactionItems.On("ListByTransactionID", mock.Anything, int64(2)).Return([]model.TransactionItem{}, nil)
	tm.repos.transactionItems.On("ListByTransactionID", mock.Anything, int64(1)).Return([]model.TransactionItem{}, nil)

	out, err := uc.ListUserTransactions(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out))
	assert.Equal(t, int64(2), out[0].ID)
}
