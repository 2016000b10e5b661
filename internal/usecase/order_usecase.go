package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx      repo.TransactionManager
	timeout time.Duration
}

func NewOrderUsecase(tx repo.TransactionManager, timeout time.Duration) *OrderUsecase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OrderUsecase{tx: tx, timeout: timeout}
}

type OrderItemOutput struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemOutput `json:"items"`
}

// Checkoutは商品と数量のリストを1つの注文に変換する
// 在庫減算と注文作成は同一トランザクション。途中で失敗したら全部戻す
func (u *OrderUsecase) Checkout(ctx context.Context, in CheckoutInput) (OrderOutput, error) {
	if err := validateCheckoutInput(in); err != nil {
		return OrderOutput{}, err
	}

	//放置されたcheckoutがTxを掴み続けないように期限を切る
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	var out OrderOutput

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

		//スナップショット
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           l.Product.ID,
				ProductNameSnapshot: l.Product.Name,
				UnitPriceSnapshot:   l.Product.Price,
				Quantity:            l.Quantity,
				Subtotal:            l.Subtotal,
				CreatedAt:           now,
			})
		}

		//注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:    in.UserID,
			Total:     total,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}

		created := model.Order{
			ID:        orderID,
			UserID:    in.UserID,
			Total:     total,
			CreatedAt: now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, wrapStorage(err)
	}
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, &InvalidRequestError{Reason: "invalid order id"}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "order", ID: orderID}
		}
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, wrapStorage(err)
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:   it.ProductID,
			ProductName: it.ProductNameSnapshot,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPriceSnapshot,
			Subtotal:    it.Subtotal,
		})
	}

	return OrderOutput{
		ID:        o.ID,
		UserID:    o.UserID,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		Items:     outItems,
	}
}
