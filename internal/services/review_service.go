package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewService struct {
	reviewsRepo models.ReviewsRepo
	eventsRepo  models.EventsRepo
}

func NewReviewService(reviewsRepo models.ReviewsRepo, eventsRepo models.EventsRepo) *ReviewService {
	return &ReviewService{
		reviewsRepo: reviewsRepo,
		eventsRepo:  eventsRepo,
	}
}

// CreateReview stores the review and refreshes the event's derived rating.
func (rs *ReviewService) CreateReview(ctx context.Context, userId, eventId uuid.UUID, review *models.EventReview) (*models.EventReview, error) {
	review.UserID = userId
	review.EventID = eventId
	review.Sanitize()

	if _, err := rs.eventsRepo.GetEventByID(ctx, eventId); err != nil {
		return nil, err
	}

	created, err := rs.reviewsRepo.CreateReview(ctx, review)
	if err != nil {
		return nil, err
	}

	rs.refreshRating(ctx, eventId)
	return created, nil
}

func (rs *ReviewService) GetReviewsByEvent(ctx context.Context, eventId uuid.UUID, offset, limit int) ([]*models.EventReview, int, error) {
	if eventId == uuid.Nil {
		return nil, 0, models.NewValidationError("invalid event ID")
	}
	if offset < 0 || limit <= 0 {
		return nil, 0, models.NewValidationError("invalid offset or limit")
	}
	return rs.reviewsRepo.GetReviewsByEvent(ctx, eventId, offset, limit)
}

func (rs *ReviewService) UpdateReview(ctx context.Context, userId uuid.UUID, reviewId primitive.ObjectID, rating int, title, comment string) (*models.EventReview, error) {
	if rating < 1 || rating > 5 {
		return nil, models.NewValidationError("rating must be between 1 and 5")
	}

	updated, err := rs.reviewsRepo.UpdateReview(ctx, userId, reviewId, rating, title, comment)
	if err != nil {
		return nil, err
	}

	rs.refreshRating(ctx, updated.EventID)
	return updated, nil
}

func (rs *ReviewService) DeleteReview(ctx context.Context, userId uuid.UUID, reviewId primitive.ObjectID, eventId uuid.UUID) error {
	if err := rs.reviewsRepo.DeleteReview(ctx, userId, reviewId); err != nil {
		return err
	}
	rs.refreshRating(ctx, eventId)
	return nil
}

// refreshRating is best effort; a stale average fixes itself on the next
// review write.
func (rs *ReviewService) refreshRating(ctx context.Context, eventId uuid.UUID) {
	avg, err := rs.reviewsRepo.AverageEventRating(ctx, eventId)
	if err != nil {
		return
	}
	_ = rs.eventsRepo.SetEventRating(ctx, eventId, avg)
}
