package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/server/http/dto"
)

// OrderHandler serves order reads and seeding.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/internal/restock/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "skc, shop and plan_quantity are required")
		return
	}
	order, err := h.facade.CreateOrder(c.Request.Context(), model.NewOrder{
		SKC:          req.SKC,
		ShopRef:      req.ShopRef,
		PlanQuantity: req.PlanQuantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromOrder(*order))
}

// List handles GET /api/restock/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter := model.OrderFilter{}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := model.ParseOrderStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Status = &status
	}
	var ok bool
	if filter.Page, ok = queryInt(c, "page"); !ok {
		return
	}
	if filter.PageSize, ok = queryInt(c, "page_size"); !ok {
		return
	}

	page, err := h.facade.ListOrders(c.Request.Context(), CurrentActor(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromPage(page))
}

// Get handles GET /api/restock/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	agg, err := h.facade.GetOrder(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAggregate(agg))
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}
