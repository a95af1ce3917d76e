package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restock/internal/server/http/dto"
)

// LogisticsHandler serves shipments and arrival confirmation.
type LogisticsHandler struct {
	facade LogisticsFacade
}

// NewLogisticsHandler constructs LogisticsHandler.
func NewLogisticsHandler(facade LogisticsFacade) *LogisticsHandler {
	return &LogisticsHandler{facade: facade}
}

// Ship handles POST /api/restock/orders/:id/logistics.
func (h *LogisticsHandler) Ship(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req dto.ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "waybill_number, carrier and shipped_quantity are required")
		return
	}
	agg, err := h.facade.RecordShipment(c.Request.Context(), CurrentActor(c), id, req.WaybillNumber, req.Carrier, req.ShippedQuantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAggregate(agg))
}

// List handles GET /api/restock/orders/:id/logistics.
func (h *LogisticsHandler) List(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	records, err := h.facade.ListLogistics(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromLogistics(records))
}

// ConfirmArrival handles POST /api/restock/orders/:id/arrival. An empty body
// confirms every pending record.
func (h *LogisticsHandler) ConfirmArrival(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req dto.ArrivalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "request body must be a JSON object")
		return
	}
	agg, err := h.facade.ConfirmArrival(c.Request.Context(), CurrentActor(c), id, req.LogisticsRecordID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAggregate(agg))
}
