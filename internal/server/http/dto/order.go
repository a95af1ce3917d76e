package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/restock/internal/domain/model"
)

var statusLabels = map[model.OrderStatus]string{
	model.StatusPendingAcceptance:             "待接单",
	model.StatusPendingReview:                 "待审核",
	model.StatusPendingCancelConfirmation:     "待确认取消",
	model.StatusInProduction:                  "生产中",
	model.StatusAwaitingWarehouseConfirmation: "待仓库确认",
	model.StatusCompleted:                     "已完成",
	model.StatusCancelled:                     "已取消",
}

// StatusLabel returns the UI label of a status.
func StatusLabel(status model.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// CreateOrderRequest is the seeding payload.
type CreateOrderRequest struct {
	SKC          string `json:"skc" binding:"required"`
	ShopRef      string `json:"shop" binding:"required"`
	PlanQuantity int    `json:"plan_quantity"`
}

// AcceptanceRequest declares the quantity a merchant will produce.
type AcceptanceRequest struct {
	Quantity *int   `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

// DeclineRequest refuses an order.
type DeclineRequest struct {
	Reason string `json:"reason"`
}

// ReviewRequest resolves a reduction.
type ReviewRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ShipmentRequest records a shipped batch.
type ShipmentRequest struct {
	WaybillNumber   string `json:"waybill_number" binding:"required"`
	Carrier         string `json:"carrier" binding:"required"`
	ShippedQuantity int    `json:"shipped_quantity"`
}

// ArrivalRequest confirms one record, or every pending one when the id is omitted.
type ArrivalRequest struct {
	LogisticsRecordID *string `json:"logistics_record_id"`
}

// OrderResponse is the public view of a restock order.
type OrderResponse struct {
	ID               int64      `json:"id"`
	SKC              string     `json:"skc"`
	Shop             string     `json:"shop"`
	PlanQuantity     int        `json:"plan_quantity"`
	AcceptedQuantity *int       `json:"accepted_quantity"`
	TargetQuantity   int        `json:"target_quantity"`
	ArrivedQuantity  int        `json:"arrived_quantity"`
	Progress         string     `json:"progress"`
	ReductionReason  string     `json:"reduction_reason,omitempty"`
	DeclineReason    string     `json:"decline_reason,omitempty"`
	Review           string     `json:"review,omitempty"`
	ReviewedBy       string     `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	Status           string     `json:"status"`
	StatusLabel      string     `json:"status_label"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
}

// LogisticsResponse is one shipped batch.
type LogisticsResponse struct {
	ID              string     `json:"id"`
	WaybillNumber   string     `json:"waybill_number"`
	Carrier         string     `json:"carrier"`
	ShippedQuantity int        `json:"shipped_quantity"`
	Confirmed       bool       `json:"confirmed"`
	ConfirmTime     *time.Time `json:"confirm_time,omitempty"`
	ConfirmedBy     string     `json:"confirmed_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// OrderDetailResponse is an order together with its ledger.
type OrderDetailResponse struct {
	OrderResponse
	ShippedQuantity int                 `json:"shipped_quantity"`
	Logistics       []LogisticsResponse `json:"logistics"`
}

// OrderPageResponse is one page of orders.
type OrderPageResponse struct {
	Items    []OrderResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ErrorResponse carries a stable code and a human readable message.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// Progress is arrived / target as a percentage with two decimals, capped at 100.
func Progress(order model.RestockOrder) string {
	target := order.Target()
	if target <= 0 {
		return "0.00"
	}
	hundred := decimal.NewFromInt(100)
	pct := decimal.NewFromInt(int64(order.ArrivedQuantity)).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(target)), 2)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.StringFixed(2)
}

// FromOrder builds the public order view.
func FromOrder(order model.RestockOrder) OrderResponse {
	return OrderResponse{
		ID:               order.ID,
		SKC:              order.SKC,
		Shop:             order.ShopRef,
		PlanQuantity:     order.PlanQuantity,
		AcceptedQuantity: order.AcceptedQuantity,
		TargetQuantity:   order.Target(),
		ArrivedQuantity:  order.ArrivedQuantity,
		Progress:         Progress(order),
		ReductionReason:  order.ReductionReason,
		DeclineReason:    order.DeclineReason,
		Review:           string(order.Review),
		ReviewedBy:       order.ReviewedBy,
		ReviewedAt:       order.ReviewedAt,
		Status:           string(order.Status),
		StatusLabel:      StatusLabel(order.Status),
		Version:          order.Version,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		CompletedAt:      order.CompletedAt,
		CancelledAt:      order.CancelledAt,
	}
}

// FromLogistics builds ledger views in insertion order.
func FromLogistics(records []model.LogisticsRecord) []LogisticsResponse {
	out := make([]LogisticsResponse, 0, len(records))
	for _, r := range records {
		out = append(out, LogisticsResponse{
			ID:              r.ID,
			WaybillNumber:   r.WaybillNumber,
			Carrier:         r.Carrier,
			ShippedQuantity: r.ShippedQuantity,
			Confirmed:       r.Confirmed,
			ConfirmTime:     r.ConfirmTime,
			ConfirmedBy:     r.ConfirmedBy,
			CreatedAt:       r.CreatedAt,
		})
	}
	return out
}

// FromAggregate builds the detail view.
func FromAggregate(agg *model.Aggregate) OrderDetailResponse {
	shipped := 0
	for _, r := range agg.Logistics {
		shipped += r.ShippedQuantity
	}
	return OrderDetailResponse{
		OrderResponse:   FromOrder(agg.Order),
		ShippedQuantity: shipped,
		Logistics:       FromLogistics(agg.Logistics),
	}
}

// FromPage builds a listing page.
func FromPage(page *model.OrderPage) OrderPageResponse {
	items := make([]OrderResponse, 0, len(page.Items))
	for _, o := range page.Items {
		items = append(items, FromOrder(o))
	}
	return OrderPageResponse{Items: items, Total: page.Total, Page: page.Page, PageSize: page.PageSize}
}
