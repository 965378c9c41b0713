package service_test

import (
	"context"
	"errors"
	"testing"

	"store-service/internal/models"
	"store-service/internal/service"

	"github.com/google/uuid"
)

func TestReview_SubmitNotifiesAuthor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	p := e.product(t, "Goat Cheese", 1200, 4)

	rv, err := e.reviews.SubmitReview(ctx, userID, p.ID, service.ReviewInput{Rating: 5, Comment: "  tangy  "})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if rv.IsApproved || rv.Comment != "tangy" || rv.Rating != 5 {
		t.Fatalf("unexpected review: %+v", rv)
	}

	if n := e.count(t, &models.Notification{}, "user_id = ? AND type = ? AND message = ?",
		userID, models.NotificationSystem, "Review submitted for Goat Cheese"); n != 1 {
		t.Fatalf("expected one system notification, got %d", n)
	}
	if len(e.pusher.Pushed) != 1 || e.pusher.Pushed[0].Type != models.NotificationSystem {
		t.Fatalf("expected one pushed system notification, got %+v", e.pusher.Pushed)
	}
}

func TestReview_SubmitRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	p := e.product(t, "Plums", 400, 4)

	for _, rating := range []int{0, 6, -1} {
		if _, err := e.reviews.SubmitReview(ctx, userID, p.ID, service.ReviewInput{Rating: rating}); !errors.Is(err, service.ErrValidation) {
			t.Fatalf("rating %d: expected ErrValidation, got %v", rating, err)
		}
	}
	if _, err := e.reviews.SubmitReview(ctx, userID, uuid.New(), service.ReviewInput{Rating: 3}); !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("missing product: expected ErrProductNotFound, got %v", err)
	}

	if _, err := e.reviews.SubmitReview(ctx, userID, p.ID, service.ReviewInput{Rating: 3}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := e.reviews.SubmitReview(ctx, userID, p.ID, service.ReviewInput{Rating: 1}); !errors.Is(err, service.ErrAlreadyReviewed) {
		t.Fatalf("second review: expected ErrAlreadyReviewed, got %v", err)
	}
	if n := e.count(t, &models.Notification{}, "user_id = ?", userID); n != 1 {
		t.Fatalf("rejected reviews must not notify, got %d notifications", n)
	}
}

func TestReview_ListShowsOnlyApproved(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Sourdough", 650, 10)

	first, err := e.reviews.SubmitReview(ctx, uuid.New(), p.ID, service.ReviewInput{Rating: 4})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if _, err := e.reviews.SubmitReview(ctx, uuid.New(), p.ID, service.ReviewInput{Rating: 2}); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	list, total, err := e.reviews.ListApprovedReviews(ctx, p.ID, 10, 0)
	if err != nil || total != 0 || len(list) != 0 {
		t.Fatalf("before approval: total=%d len=%d err=%v", total, len(list), err)
	}

	approved, err := e.reviews.ApproveReview(ctx, first.ID)
	if err != nil {
		t.Fatalf("ApproveReview: %v", err)
	}
	if !approved.IsApproved {
		t.Fatalf("review not approved: %+v", approved)
	}

	list, total, err = e.reviews.ListApprovedReviews(ctx, p.ID, 10, 0)
	if err != nil || total != 1 || len(list) != 1 || list[0].ID != first.ID {
		t.Fatalf("after approval: total=%d list=%+v err=%v", total, list, err)
	}

	if _, err := e.reviews.ApproveReview(ctx, uuid.New()); !errors.Is(err, service.ErrReviewNotFound) {
		t.Fatalf("missing review: expected ErrReviewNotFound, got %v", err)
	}
	if _, _, err := e.reviews.ListApprovedReviews(ctx, uuid.New(), 10, 0); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("missing product: expected ErrNotFound, got %v", err)
	}
}
