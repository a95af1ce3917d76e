package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/lifecycle"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/domain/repository"
)

// Shipment is one batch the merchant reports as shipped.
type Shipment struct {
	WaybillNumber   string
	Carrier         string
	ShippedQuantity int
}

// LogisticsUseCase appends shipments to an order's ledger.
type LogisticsUseCase struct {
	orders repository.OrderRepository
	logger *zap.Logger
	newID  func() string
}

// NewLogisticsUseCase constructs LogisticsUseCase.
func NewLogisticsUseCase(orders repository.OrderRepository, logger *zap.Logger) *LogisticsUseCase {
	return &LogisticsUseCase{orders: orders, logger: orNop(logger), newID: uuid.NewString}
}

// RecordShipment appends a new unconfirmed batch. Replaying a batch with the
// same waybill, carrier and quantity returns the order unchanged.
func (u *LogisticsUseCase) RecordShipment(ctx context.Context, actor model.Actor, orderID int64, shipment Shipment) (*model.Aggregate, error) {
	shipment.WaybillNumber = strings.TrimSpace(shipment.WaybillNumber)
	shipment.Carrier = strings.TrimSpace(shipment.Carrier)
	if err := ValidateCode("waybill number", shipment.WaybillNumber); err != nil {
		return nil, err
	}
	if shipment.Carrier == "" {
		return nil, fmt.Errorf("%w: carrier is required", domainErrors.ErrInvalidInput)
	}
	if shipment.ShippedQuantity <= 0 {
		return nil, fmt.Errorf("%w: shipped quantity must be positive, got %d", domainErrors.ErrInvalidQuantity, shipment.ShippedQuantity)
	}

	agg, err := u.orders.Apply(ctx, orderID, shipmentRecord{actor: actor, id: u.newID(), shipment: shipment})
	if err != nil {
		return nil, err
	}
	logApplied(u.logger, OperationRecordShipment, actor, agg)
	return agg, nil
}

// ListLogistics returns the ledger of an order visible to the actor.
func (u *LogisticsUseCase) ListLogistics(ctx context.Context, actor model.Actor, orderID int64) ([]model.LogisticsRecord, error) {
	agg, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanSee(agg.Order.ShopRef) {
		return nil, fmt.Errorf("%w: order %d", domainErrors.ErrNotFound, orderID)
	}
	if agg.Logistics == nil {
		return []model.LogisticsRecord{}, nil
	}
	return agg.Logistics, nil
}

type shipmentRecord struct {
	actor    model.Actor
	id       string
	shipment Shipment
}

func (m shipmentRecord) Name() string        { return OperationRecordShipment }
func (m shipmentRecord) Issuer() model.Actor { return m.actor }

func (m shipmentRecord) Apply(agg *model.Aggregate, now time.Time) error {
	order := &agg.Order
	if err := authorize(m.actor, *order, model.RoleMerchant); err != nil {
		return err
	}
	to, err := lifecycle.Transition(order.Status, lifecycle.EventShip)
	if err != nil {
		return err
	}

	for _, existing := range agg.Logistics {
		if existing.WaybillNumber != m.shipment.WaybillNumber || existing.Carrier != m.shipment.Carrier {
			continue
		}
		if existing.ShippedQuantity == m.shipment.ShippedQuantity {
			return nil
		}
		return fmt.Errorf("%w: waybill %s is already recorded with quantity %d",
			domainErrors.ErrInvalidInput, existing.WaybillNumber, existing.ShippedQuantity)
	}

	agg.Logistics = append(agg.Logistics, model.LogisticsRecord{
		ID:              m.id,
		OrderID:         order.ID,
		WaybillNumber:   m.shipment.WaybillNumber,
		Carrier:         m.shipment.Carrier,
		ShippedQuantity: m.shipment.ShippedQuantity,
		CreatedAt:       now,
	})
	settle(order, to, now)
	return nil
}
