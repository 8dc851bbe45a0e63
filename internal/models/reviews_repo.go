package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewsRepo interface {
	CreateReview(ctx context.Context, review *EventReview) (*EventReview, error)
	GetReviewsByEvent(ctx context.Context, eventId uuid.UUID, offset, limit int) ([]*EventReview, int, error)
	UpdateReview(ctx context.Context, userId uuid.UUID, reviewId primitive.ObjectID, rating int, title, comment string) (*EventReview, error)
	DeleteReview(ctx context.Context, userId uuid.UUID, reviewId primitive.ObjectID) error
	AverageEventRating(ctx context.Context, eventId uuid.UUID) (float64, error)
}

func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *EventReview) (*EventReview, error) {
	if err := review.ValidateReview(); err != nil {
		return nil, err
	}
	if err := review.BeforeCreate(); err != nil {
		return nil, NewTransientError("failed to prepare review for creation", err)
	}

	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	if _, err := col.InsertOne(ctx, review); err != nil {
		return nil, NewTransientError("failed to insert review", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewsByEvent(ctx context.Context, eventId uuid.UUID, offset, limit int) ([]*EventReview, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return nil, 0, NewTransientError("error getting collection", err)
	}

	filter := bson.M{"event_id": eventId}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, NewTransientError("failed to count reviews", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, NewTransientError("failed to list reviews", err)
	}
	defer cursor.Close(ctx)

	reviews := []*EventReview{}
	for cursor.Next(ctx) {
		var review EventReview
		if err := cursor.Decode(&review); err != nil {
			return nil, 0, NewTransientError("failed to decode review", err)
		}
		reviews = append(reviews, &review)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, NewTransientError("cursor error", err)
	}

	return reviews, int(total), nil
}

func (mdb *MongodbRepo) UpdateReview(ctx context.Context, userId uuid.UUID, reviewId primitive.ObjectID, rating int, title, comment string) (*EventReview, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	filter := bson.M{"_id": reviewId, "user_id": userId}
	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"title":      title,
		"comment":    comment,
		"updated_at": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated EventReview
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, NewNotFoundError("review %s not found for user %s", reviewId.Hex(), userId)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, userId uuid.UUID, reviewId primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": reviewId, "user_id": userId})
	if err != nil {
		return NewTransientError("failed to delete review", err)
	}
	if res.DeletedCount == 0 {
		return NewNotFoundError("review %s not found for user %s", reviewId.Hex(), userId)
	}
	return nil
}

// AverageEventRating aggregates the mean rating for an event; 0 when the
// event has no reviews yet.
func (mdb *MongodbRepo) AverageEventRating(ctx context.Context, eventId uuid.UUID) (float64, error) {
	col, err := mdb.GetCollection(ctx, DbName, ReviewsColName)
	if err != nil {
		return 0, NewTransientError("error getting collection", err)
	}

	pipeline := ratingPipeline(eventId)
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, NewTransientError("failed to aggregate ratings", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Average float64 `bson:"average"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, NewTransientError("failed to decode rating aggregate", err)
		}
	}
	return result.Average, nil
}

func ratingPipeline(eventId uuid.UUID) []bson.M {
	return []bson.M{
		{"$match": bson.M{"event_id": eventId}},
		{"$group": bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
		}},
	}
}
