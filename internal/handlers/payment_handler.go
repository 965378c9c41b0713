package handlers

import (
	"net/http"

	"store-service/internal/dto"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	payments service.PaymentService
	log      *zap.Logger
}

func NewPaymentHandler(payments service.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

// Pay godoc
// @Summary Pay for an order
// @Description Pays order_id, or the caller's latest order when it is omitted. Only pending orders are payable.
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payment body dto.PaymentRequest true "method and method-specific fields"
// @Success 201 {object} dto.PayResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Failure 502 {object} dto.PaymentFailedErrorResponse
// @Router /api/v1/payments [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid payment request", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	// a blank order_id means the latest order, same as omitting it
	orderID, ok := optionalUUID(c, "order_id", req.OrderID)
	if !ok {
		return
	}

	in := service.PaymentInput{
		OrderID:        orderID,
		Method:         req.PaymentMethod,
		CardNumber:     req.CardNumber,
		CardExpiry:     req.CardExpiry,
		CardCVC:        req.CardCVC,
		IBAN:           req.IBAN,
		MandateConsent: req.MandateConsent,
	}
	res, err := h.payments.Pay(c.Request.Context(), uid, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PayResponse{
		Payment: dto.PaymentFrom(&res.Transaction),
		Order:   dto.OrderFrom(res.Order),
	})
}
