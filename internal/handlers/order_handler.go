package handlers

import (
	"net/http"

	"store-service/internal/dto"
	"store-service/internal/models"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

func shippingFrom(r dto.ShippingRequest) service.ShippingDetails {
	return service.ShippingDetails{
		Address:    r.ShippingAddress,
		City:       r.ShippingCity,
		Country:    r.ShippingCountry,
		PostalCode: r.ShippingPostalCode,
	}
}

// PlaceOrder godoc
// @Summary Check out the cart
// @Description Converts the whole cart into a pending order in one transaction.
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param order body dto.PlaceOrderRequest true "shipping details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Failure 429 {object} dto.RateLimitedErrorResponse
// @Router /api/v1/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid place order request", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	ord, err := h.orders.PlaceOrder(c.Request.Context(), uid, service.PlaceOrderInput{
		Shipping:               shippingFrom(req.ShippingRequest),
		PreferredPaymentMethod: req.PaymentMethod,
		ContactEmail:           req.Email,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OrderFrom(ord))
}

// PlaceDirectOrder godoc
// @Summary Buy now
// @Description Places an order from explicit items without touching the cart.
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param order body dto.DirectOrderRequest true "items and shipping details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/v1/orders/direct [post]
func (h *OrderHandler) PlaceDirectOrder(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.DirectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	items := make([]service.DirectOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		pid, _ := uuid.Parse(it.ProductID)
		items = append(items, service.DirectOrderItem{ProductID: pid, Quantity: it.Quantity})
	}

	ord, err := h.orders.PlaceDirectOrder(c.Request.Context(), uid, service.DirectOrderInput{
		Items:                  items,
		Shipping:               shippingFrom(req.ShippingRequest),
		PreferredPaymentMethod: req.PaymentMethod,
		ContactEmail:           req.Email,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OrderFrom(ord))
}

// ListOrders godoc
// @Summary Order history
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param limit query int false "page size (default 10)"
// @Param offset query int false "page offset"
// @Success 200 {object} dto.OrderListResponse
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	limit, offset := pagination(c, 10, 100)

	orders, total, err := h.orders.ListOrders(c.Request.Context(), uid, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.OrderListResponse{Items: make([]dto.OrderResponse, 0, len(orders)), Total: total, Limit: limit, Offset: offset}
	for _, o := range orders {
		resp.Items = append(resp.Items, dto.OrderFrom(o))
	}
	c.JSON(http.StatusOK, resp)
}

// LatestOrder godoc
// @Summary Most recent order
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/orders/latest [get]
func (h *OrderHandler) LatestOrder(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	ord, err := h.orders.LatestOrder(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderFrom(ord))
}

// GetOrder godoc
// @Summary Order detail
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	ord, err := h.orders.GetOrder(c.Request.Context(), uid, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderFrom(ord))
}

// UpdateOrderStatus godoc
// @Summary Move an order to another status
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param status body dto.UpdateOrderStatusRequest true "target status"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/v1/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ord, err := h.orders.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderFrom(ord))
}

// UpdateTracking godoc
// @Summary Move a delivery tracking to another status
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "order id"
// @Param tracking body dto.UpdateTrackingRequest true "target status and notes"
// @Success 200 {object} dto.TrackingResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/v1/admin/orders/{id}/tracking [patch]
func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	t, err := h.orders.UpdateTracking(c.Request.Context(), id, models.TrackingStatus(req.Status), req.Notes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.TrackingFrom(t))
}
