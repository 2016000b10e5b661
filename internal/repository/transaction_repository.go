package repository

import (
	"context"

	"app/internal/domain/model"
)

type TransactionRepository interface {
	FindByID(ctx context.Context, transactionID int64) (model.Transaction, error)
	//ユーザーの取引履歴（新しい順）
	ListByUserID(ctx context.Context, userID int64) ([]model.Transaction, error)
	Create(ctx context.Context, txn model.Transaction) (int64, error)
	UpdateStatus(ctx context.Context, transactionID int64, status model.TransactionStatus) error
}
