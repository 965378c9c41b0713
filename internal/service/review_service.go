package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"store-service/internal/models"
	"store-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewInput struct {
	Rating  int
	Comment string
}

type ReviewService interface {
	SubmitReview(ctx context.Context, userID, productID uuid.UUID, in ReviewInput) (*models.Review, error)
	ListApprovedReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Review, int64, error)
	ApproveReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error)
}

type reviewService struct {
	repo *repository.Repository
	fx   SideEffects
	log  *zap.Logger
	now  func() time.Time
}

func NewReviewService(repo *repository.Repository, fx SideEffects, log *zap.Logger) ReviewService {
	return &reviewService{repo: repo, fx: fx, log: log, now: time.Now}
}

// SubmitReview stores an unapproved review and tells the author it was received.
func (s *reviewService) SubmitReview(ctx context.Context, userID, productID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fieldErr("rating", "must be between 1 and 5")
	}

	now := s.now().UTC()
	rv := &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    int16(in.Rating),
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
	}
	var n models.Notification

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		ok, err := tx.Reviews.TryCreate(ctx, rv)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyReviewed
		}

		n = models.Notification{
			UserID:    userID,
			Type:      models.NotificationSystem,
			Message:   fmt.Sprintf("Review submitted for %s", p.Name),
			CreatedAt: now,
		}
		return tx.Notifications.Create(ctx, &n)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("review submitted",
		zap.String("review_id", rv.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Int16("rating", rv.Rating),
	)
	if s.fx.Pusher != nil {
		s.fx.Pusher.Push(userID, n)
	}
	return rv, nil
}

func (s *reviewService) ListApprovedReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Review, int64, error) {
	if limit <= 0 {
		limit = defaultHistoryPage
	}
	if offset < 0 {
		offset = 0
	}
	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, ErrProductNotFound
	}
	return s.repo.Reviews.ListApprovedByProduct(ctx, productID, limit, offset)
}

func (s *reviewService) ApproveReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	ok, err := s.repo.Reviews.Approve(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReviewNotFound
	}
	s.log.Info("review approved", zap.String("review_id", reviewID.String()))
	return s.repo.Reviews.GetByID(ctx, reviewID)
}
