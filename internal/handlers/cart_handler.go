package handlers

import (
	"net/http"

	"store-service/internal/dto"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart service.CartService
	log  *zap.Logger
}

func NewCartHandler(cart service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, log: log}
}

// GetCart godoc
// @Summary Current cart
// @Description Lines, per-line subtotals and the total in the store currency.
// @Tags cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CartResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	sum, err := h.cart.GetCart(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CartFrom(sum))
}

// AddToCart godoc
// @Summary Add a product to the cart
// @Description Merges with an existing line for the same product.
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param item body dto.AddToCartRequest true "product and quantity"
// @Success 200 {object} dto.AddToCartResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	pid, _ := uuid.Parse(req.ProductID)

	line, err := h.cart.AddToCart(c.Request.Context(), uid, pid, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.AddToCartResponse{
		LineID:    line.ID.String(),
		ProductID: line.ProductID.String(),
		Quantity:  line.Quantity,
	})
}

// RemoveFromCart godoc
// @Summary Remove a cart line
// @Tags cart
// @Security BearerAuth
// @Param id path string true "cart line id"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	lineID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.cart.RemoveFromCart(c.Request.Context(), uid, lineID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
