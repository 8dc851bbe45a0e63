package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, offset, limit int) ([]*Event, int, error)
	QueryEvents(ctx context.Context, query map[string]interface{}, offset, limit int) ([]*Event, int, error)
	ListEventsByOrganizer(ctx context.Context, organizerId uuid.UUID, offset, limit int) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, organizerId, eventId uuid.UUID, update map[string]interface{}) (*Event, error)
	DeleteEvent(ctx context.Context, organizerId, eventId uuid.UUID) error
	ReserveCapacity(ctx context.Context, eventId uuid.UUID, quantity int) error
	ReleaseCapacity(ctx context.Context, eventId uuid.UUID, quantity int) error
	SetEventRating(ctx context.Context, eventId uuid.UUID, rating float64) error
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	if _, err := col.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewConflictError("event %s already exists", event.ID)
		}
		return nil, NewTransientError("failed to insert event", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	var event Event
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("event %s not found", id)
		}
		return nil, NewTransientError("failed to find event", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, offset, limit int) ([]*Event, int, error) {
	return mdb.QueryEvents(ctx, map[string]interface{}{}, offset, limit)
}

func (mdb *MongodbRepo) QueryEvents(ctx context.Context, query map[string]interface{}, offset, limit int) ([]*Event, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return nil, 0, NewTransientError("error getting collection", err)
	}

	filter := bson.M{}
	for key, value := range query {
		filter[key] = value
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, NewTransientError("failed to count events", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, NewTransientError("failed to list events", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	for cursor.Next(ctx) {
		var event Event
		if err := cursor.Decode(&event); err != nil {
			return nil, 0, NewTransientError("failed to decode event", err)
		}
		events = append(events, &event)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, NewTransientError("cursor error", err)
	}

	return events, int(total), nil
}

func (mdb *MongodbRepo) ListEventsByOrganizer(ctx context.Context, organizerId uuid.UUID, offset, limit int) ([]*Event, int, error) {
	return mdb.QueryEvents(ctx, map[string]interface{}{"organizer_id": organizerId}, offset, limit)
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, organizerId, eventId uuid.UUID, update map[string]interface{}) (*Event, error) {
	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	set := bson.M{"updated_at": time.Now()}
	for key, value := range update {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"id": eventId, "organizer_id": organizerId}

	var updated Event
	if err := col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("event %s not found for organizer %s", eventId, organizerId)
		}
		return nil, NewTransientError("failed to update event", err)
	}
	return &updated, nil
}

// DeleteEvent refuses to remove an event that still has issued tickets;
// cancelling via status is the supported path for those.
func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, organizerId, eventId uuid.UUID) error {
	tickets, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	issued, err := tickets.CountDocuments(ctx, bson.M{"event_id": eventId})
	if err != nil {
		return NewTransientError("failed to count tickets for event", err)
	}
	if issued > 0 {
		return NewStateError("event %s has %d issued tickets and cannot be deleted; cancel it instead", eventId, issued)
	}

	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"id": eventId, "organizer_id": organizerId})
	if err != nil {
		return NewTransientError("failed to delete event", err)
	}
	if res.DeletedCount == 0 {
		return NewNotFoundError("event %s not found for organizer %s", eventId, organizerId)
	}
	return nil
}

// ReserveCapacity atomically bumps the attendee count, but only when the
// event is active and the post-increment count stays within capacity. The
// guard lives in the filter so two concurrent purchases can never both win
// the last seats. Never read-then-write the counter.
func (mdb *MongodbRepo) ReserveCapacity(ctx context.Context, eventId uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return NewValidationError("reservation quantity must be positive, got %d", quantity)
	}

	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	filter := bson.M{
		"id":     eventId,
		"status": EventStatusActive,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$attendees", quantity}},
				"$capacity",
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"attendees": quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}

	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return NewTransientError("failed to reserve capacity", err)
	}
	if res.ModifiedCount == 1 {
		return nil
	}

	// The guarded update matched nothing: work out which precondition failed.
	event, err := mdb.GetEventByID(ctx, eventId)
	if err != nil {
		return err
	}
	if !event.IsActive() {
		return NewStateError("event %q is %s and not selling tickets", event.Title, event.Status)
	}
	return NewCapacityError("event %q has %d of %d spots left, cannot take %d more",
		event.Title, event.RemainingCapacity(), event.Capacity, quantity)
}

// ReleaseCapacity undoes a reservation when a later purchase step fails. The
// floor guard keeps a double release from driving the counter negative.
func (mdb *MongodbRepo) ReleaseCapacity(ctx context.Context, eventId uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return NewValidationError("release quantity must be positive, got %d", quantity)
	}

	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	filter := bson.M{
		"id":        eventId,
		"attendees": bson.M{"$gte": quantity},
	}
	update := bson.M{
		"$inc": bson.M{"attendees": -quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}

	if _, err := col.UpdateOne(ctx, filter, update); err != nil {
		return NewTransientError(fmt.Sprintf("failed to release %d spots for event %s", quantity, eventId), err)
	}
	return nil
}

func (mdb *MongodbRepo) SetEventRating(ctx context.Context, eventId uuid.UUID, rating float64) error {
	col, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	update := bson.M{"$set": bson.M{"rating": rating, "updated_at": time.Now()}}
	if _, err := col.UpdateOne(ctx, bson.M{"id": eventId}, update); err != nil {
		return NewTransientError("failed to update event rating", err)
	}
	return nil
}
