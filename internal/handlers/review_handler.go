package handlers

import (
	"net/http"

	"store-service/internal/dto"
	"store-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	reviews service.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(reviews service.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log}
}

// Submit godoc
// @Summary Review a product
// @Description One review per user and product. Reviews stay hidden until approved.
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "product id"
// @Param review body dto.SubmitReviewRequest true "rating 1-5 and comment"
// @Success 201 {object} dto.ReviewResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/v1/products/{id}/reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid review request", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	rv, err := h.reviews.SubmitReview(c.Request.Context(), uid, productID, service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewFrom(rv))
}

// List godoc
// @Summary List approved reviews of a product
// @Tags reviews
// @Produce json
// @Param id path string true "product id"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} dto.ReviewListResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/products/{id}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c, 10, 50)

	items, total, err := h.reviews.ListApprovedReviews(c.Request.Context(), productID, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := dto.ReviewListResponse{Items: make([]dto.ReviewResponse, 0, len(items)), Total: total, Limit: limit, Offset: offset}
	for i := range items {
		resp.Items = append(resp.Items, dto.ReviewFrom(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Approve godoc
// @Summary Approve a review
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "review id"
// @Success 200 {object} dto.ReviewResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/v1/admin/reviews/{id}/approve [patch]
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rv, err := h.reviews.ApproveReview(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFrom(rv))
}
