package usecase

import (
	"errors"
	"fmt"
)

// checkoutの失敗は閉じた集合。handler側はerrors.Asで判定する

// 入力の形式が不正（空の明細・数量0など）
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// 参照したリソースが存在しない
type NotFoundError struct {
	Resource string // user / product / order / transaction
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// 要求数量が在庫を超えた
type InsufficientStockError struct {
	ProductID int64
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// コミット失敗・接続断・タイムアウトなど。呼び出し側はリトライしてよい
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ドメインのエラー以外（DBドライバのエラー等）をStorageErrorに包む
func wrapStorage(err error) error {
	if err == nil {
		return nil
	}

	var (
		invalid      *InvalidRequestError
		notFound     *NotFoundError
		insufficient *InsufficientStockError
		storage      *StorageError
	)
	if errors.As(err, &invalid) || errors.As(err, &notFound) ||
		errors.As(err, &insufficient) || errors.As(err, &storage) {
		return err
	}

	return &StorageError{Err: err}
}
