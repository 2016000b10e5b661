package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type TransactionItemGormRepository struct {
	db *gorm.DB
}

func NewTransactionItemGormRepository(db *gorm.DB) *TransactionItemGormRepository {
	return &TransactionItemGormRepository{db: db}
}

func (r *TransactionItemGormRepository) CreateBulk(ctx context.Context, transactionID int64, items []model.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].TransactionID = transactionID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

func (r *TransactionItemGormRepository) ListByTransactionID(ctx context.Context, transactionID int64) ([]model.TransactionItem, error) {
	var items []model.TransactionItem
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Order("id asc").Find(&items).Error
	if err != nil {
		return []model.TransactionItem{}, err
	}
	return items, nil
}
