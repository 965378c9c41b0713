package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"store-service/internal/dto"
	"store-service/internal/middleware"
	"store-service/internal/models"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError maps service errors onto the HTTP error bodies.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		fe *service.FieldError
		se *service.InsufficientStockError
	)
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{{Field: fe.Field, Message: fe.Message}}))
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, models.ErrInventoryItemEmpty),
		errors.Is(err, models.ErrInventoryItemKind),
		errors.Is(err, models.ErrInventoryQuantity):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), nil))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
	case errors.As(err, &se):
		body := dto.NewConflictError("insufficient_stock", se.Error())
		body.Fields = []dto.FieldError{{Field: "product_id", Message: se.ProductID.String()}}
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, dto.NewConflictError("insufficient_stock", err.Error()))
	case errors.Is(err, service.ErrOrderNotPayable):
		c.JSON(http.StatusConflict, dto.NewConflictError("order_not_payable", err.Error()))
	case errors.Is(err, service.ErrCategoryExists):
		c.JSON(http.StatusConflict, dto.NewConflictError("category_exists", err.Error()))
	case errors.Is(err, service.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, dto.NewConflictError("already_reviewed", err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.NewConflictError("invalid_transition", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError(err.Error()))
	case errors.Is(err, service.ErrPaymentFailed):
		log.Error("payment failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, dto.NewPaymentFailedError(""))
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.NewValidationError(msg, nil))
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid "+name, []dto.FieldError{{Field: name, Message: "must be a uuid"}}))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional id; nil or blank means absent.
func optionalUUID(c *gin.Context, name string, raw *string) (*uuid.UUID, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid "+name, []dto.FieldError{{Field: name, Message: "must be a uuid"}}))
		return nil, false
	}
	return &id, true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthenticated"))
	}
	return uid, ok
}

func pagination(c *gin.Context, def, max int) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
