package repository

import (
	"context"

	"app/internal/domain/model"
)

type TransactionItemRepository interface {
	CreateBulk(ctx context.Context, transactionID int64, items []model.TransactionItem) error
	ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionItem, error)
}
