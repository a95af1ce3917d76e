package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restock/internal/server/http/dto"
)

// NegotiationHandler serves the merchant answer and the buyer review gate.
type NegotiationHandler struct {
	facade NegotiationFacade
}

// NewNegotiationHandler constructs NegotiationHandler.
func NewNegotiationHandler(facade NegotiationFacade) *NegotiationHandler {
	return &NegotiationHandler{facade: facade}
}

// Accept handles POST /api/restock/orders/:id/acceptance.
func (h *NegotiationHandler) Accept(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req dto.AcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantity is required")
		return
	}
	agg, err := h.facade.DeclareAcceptedQuantity(c.Request.Context(), CurrentActor(c), id, *req.Quantity, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAggregate(agg))
}

// Decline handles POST /api/restock/orders/:id/decline.
func (h *NegotiationHandler) Decline(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req dto.DeclineRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "request body must be a JSON object")
		return
	}
	agg, err := h.facade.DeclineAcceptance(c.Request.Context(), CurrentActor(c), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAggregate(agg))
}

// Review handles POST /api/restock/orders/:id/review.
func (h *NegotiationHandler) Review(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "approve is required")
		return
	}
	agg, err := h.facade.ResolveReduction(c.Request.Context(), CurrentActor(c), id, *req.Approve)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAggregate(agg))
}

// ConfirmCancellation handles POST /api/restock/orders/:id/cancellation.
func (h *NegotiationHandler) ConfirmCancellation(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	agg, err := h.facade.ConfirmCancellation(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAggregate(agg))
}
