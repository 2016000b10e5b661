package usecase

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// checkoutリクエストの1明細
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CheckoutInput struct {
	UserID int64
	Items  []CheckoutItem
}

// DBに触る前の形式チェック
func validateCheckoutInput(in CheckoutInput) error {
	if in.UserID <= 0 {
		return &InvalidRequestError{Reason: "invalid user id"}
	}
	if len(in.Items) == 0 {
		return &InvalidRequestError{Reason: "checkout must have at least one item"}
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return &InvalidRequestError{Reason: "invalid product id"}
		}
		if it.Quantity <= 0 {
			return &InvalidRequestError{Reason: "quantity must be positive"}
		}
	}
	return nil
}

// 予約済みの1明細。呼び出し側がOrder/Transactionの明細に変換する
type checkoutLine struct {
	Product  model.Product
	Quantity int64
	Subtotal decimal.Decimal
}

// 明細ごとに商品を検証して在庫を減らし、小計を積む
// 同じ商品が繰り返されても、2回目以降は減算後の在庫を見る
func reserveStock(ctx context.Context, r repo.TxRepos, items []CheckoutItem) ([]checkoutLine, decimal.Decimal, error) {
	lines := make([]checkoutLine, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := r.Products().FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, decimal.Zero, &NotFoundError{Resource: "product", ID: it.ProductID}
		}
		if err != nil {
			return nil, decimal.Zero, err
		}

		if it.Quantity > p.Stock {
			return nil, decimal.Zero, &InsufficientStockError{
				ProductID: p.ID,
				Available: p.Stock,
				Requested: it.Quantity,
			}
		}

		//在庫減算（条件付きUPDATE。足りないなら false）
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, it.Quantity)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !ok {
			return nil, decimal.Zero, &InsufficientStockError{
				ProductID: p.ID,
				Available: p.Stock,
				Requested: it.Quantity,
			}
		}

		//購入時点の価格で小計を確定（後の価格変更の影響を受けない）
		sub := p.Price.Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(sub)

		lines = append(lines, checkoutLine{Product: p, Quantity: it.Quantity, Subtotal: sub})
	}

	return lines, total, nil
}
