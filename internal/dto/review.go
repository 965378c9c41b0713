package dto

import (
	"time"

	"store-service/internal/models"
)

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	UserID     string `json:"user_id"`
	Rating     int16  `json:"rating"`
	Comment    string `json:"comment"`
	IsApproved bool   `json:"is_approved"`
	CreatedAt  string `json:"created_at"`
}

type ReviewListResponse struct {
	Items  []ReviewResponse `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func ReviewFrom(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID.String(),
		ProductID:  r.ProductID.String(),
		UserID:     r.UserID.String(),
		Rating:     r.Rating,
		Comment:    r.Comment,
		IsApproved: r.IsApproved,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
