package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type TransactionUsecase struct {
	tx      repo.TransactionManager
	codeGen TransactionCodeGenerator
	timeout time.Duration
}

func NewTransactionUsecase(tx repo.TransactionManager, codeGen TransactionCodeGenerator, timeout time.Duration) *TransactionUsecase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TransactionUsecase{tx: tx, codeGen: codeGen, timeout: timeout}
}

type TransactionItemOutput struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type TransactionOutput struct {
	ID          int64                   `json:"id"`
	Code        string                  `json:"code"`
	UserID      int64                   `json:"user_id"`
	TotalAmount decimal.Decimal         `json:"total_amount"`
	Status      string                  `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	Items       []TransactionItemOutput `json:"items"`
}

// CheckoutはOrderUsecase.Checkoutの取引版
// 取引コードを発行し、PENDINGで作成して同一Tx内でCOMPLETEDに進める
func (u *TransactionUsecase) Checkout(ctx context.Context, in CheckoutInput) (TransactionOutput, error) {
	if err := validateCheckoutInput(in); err != nil {
		return TransactionOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	var out TransactionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//在庫を触る前にユーザーの存在を確認する
		if _, err := r.Users().FindByID(ctx, in.UserID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return &NotFoundError{Resource: "user", ID: in.UserID}
			}
			return err
		}

		lines, total, err := reserveStock(ctx, r, in.Items)
		if err != nil {
			return err
		}

		code, err := u.codeGen.NewCode()
		if err != nil {
			return err
		}

		now := time.Now()
		txnID, err := r.Transactions().Create(ctx, model.Transaction{
			Code:        code,
			UserID:      in.UserID,
			TotalAmount: total,
			Status:      model.TransactionStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		//スナップショット
		txnItems := make([]model.TransactionItem, 0, len(lines))
		for _, l := range lines {
			txnItems = append(txnItems, model.TransactionItem{
				ProductID:           l.Product.ID,
				ProductNameSnapshot: l.Product.Name,
				UnitPriceSnapshot:   l.Product.Price,
				Quantity:            l.Quantity,
				Subtotal:            l.Subtotal,
				CreatedAt:           now,
			})
		}
		if err := r.TransactionItems().CreateBulk(ctx, txnID, txnItems); err != nil {
			return err
		}

		//同一Tx内でCOMPLETEDへ
		if err := r.Transactions().UpdateStatus(ctx, txnID, model.TransactionStatusCompleted); err != nil {
			return err
		}

		created := model.Transaction{
			ID:          txnID,
			Code:        code,
			UserID:      in.UserID,
			TotalAmount: total,
			Status:      model.TransactionStatusCompleted,
			CreatedAt:   now,
		}
		out = toTransactionOutput(created, txnItems)
		return nil
	})

	if err != nil {
		return TransactionOutput{}, wrapStorage(err)
	}
	return out, nil
}

func (u *TransactionUsecase) GetTransaction(ctx context.Context, transactionID int64) (TransactionOutput, error) {
	if transactionID <= 0 {
		return TransactionOutput{}, &InvalidRequestError{Reason: "invalid transaction id"}
	}

	var out TransactionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		t, err := r.Transactions().FindByID(ctx, transactionID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "transaction", ID: transactionID}
		}
		if err != nil {
			return err
		}

		items, err := r.TransactionItems().ListByTransactionID(ctx, transactionID)
		if err != nil {
			return err
		}

		out = toTransactionOutput(t, items)
		return nil
	})

	if err != nil {
		return TransactionOutput{}, wrapStorage(err)
	}
	return out, nil
}

// ユーザーの取引履歴を新しい順で返す
func (u *TransactionUsecase) ListUserTransactions(ctx context.Context, userID int64) ([]TransactionOutput, error) {
	if userID <= 0 {
		return []TransactionOutput{}, &InvalidRequestError{Reason: "invalid user id"}
	}

	var outs []TransactionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByID(ctx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return &NotFoundError{Resource: "user", ID: userID}
			}
			return err
		}

		txns, err := r.Transactions().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}

		outs = make([]TransactionOutput, 0, len(txns))
		for _, t := range txns {
			items, err := r.TransactionItems().ListByTransactionID(ctx, t.ID)
			if err != nil {
				return err
			}
			outs = append(outs, toTransactionOutput(t, items))
		}
		return nil
	})

	if err != nil {
		return []TransactionOutput{}, wrapStorage(err)
	}
	return outs, nil
}

func toTransactionOutput(t model.Transaction, items []model.TransactionItem) TransactionOutput {
	outItems := make([]TransactionItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, TransactionItemOutput{
			ProductID:   it.ProductID,
			ProductName: it.ProductNameSnapshot,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPriceSnapshot,
			Subtotal:    it.Subtotal,
		})
	}

	return TransactionOutput{
		ID:          t.ID,
		Code:        t.Code,
		UserID:      t.UserID,
		TotalAmount: t.TotalAmount,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		Items:       outItems,
	}
}
