package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/domain/repository"
)

const maxPageSize = 100

// QueryUseCase serves read paths and buyer-side seeding.
type QueryUseCase struct {
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewQueryUseCase constructs QueryUseCase.
func NewQueryUseCase(orders repository.OrderRepository, logger *zap.Logger) *QueryUseCase {
	return &QueryUseCase{orders: orders, logger: orNop(logger)}
}

// CreateOrder registers a new restock order awaiting the merchant's answer.
func (u *QueryUseCase) CreateOrder(ctx context.Context, input model.NewOrder) (*model.RestockOrder, error) {
	input, err := ValidateNewOrder(input)
	if err != nil {
		return nil, err
	}
	order, err := u.orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	u.logger.Info("restock order created",
		zap.Int64("order_id", order.ID),
		zap.String("skc", order.SKC),
		zap.String("shop", order.ShopRef),
		zap.Int("plan_quantity", order.PlanQuantity),
	)
	return order, nil
}

// ListOrders returns one page of orders visible to the actor.
func (u *QueryUseCase) ListOrders(ctx context.Context, actor model.Actor, filter model.OrderFilter) (*model.OrderPage, error) {
	if filter.Page < 0 || filter.PageSize < 0 {
		return nil, fmt.Errorf("%w: page and page size must not be negative", domainErrors.ErrInvalidInput)
	}
	if filter.PageSize > maxPageSize {
		return nil, fmt.Errorf("%w: page size must not exceed %d", domainErrors.ErrInvalidInput, maxPageSize)
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidInput, *filter.Status)
	}
	if actor.Role == model.RoleMerchant {
		if actor.ShopRef == "" {
			return nil, fmt.Errorf("%w: merchant is not bound to a shop", domainErrors.ErrForbidden)
		}
		filter.ShopRef = actor.ShopRef
	}
	return u.orders.List(ctx, filter)
}

// GetOrder returns an order with its ledger; other shops' orders are reported missing.
func (u *QueryUseCase) GetOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Aggregate, error) {
	agg, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSee(agg.Order.ShopRef) {
		return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
	}
	return agg, nil
}
