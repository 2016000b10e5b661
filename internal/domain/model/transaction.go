package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

type Transaction struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	UserID      int64             `gorm:"not null;index" json:"user_id"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt   time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}
