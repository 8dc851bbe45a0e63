package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TicketsRepo interface {
	CreateTicket(ctx context.Context, ticket *Ticket) (*Ticket, error)
	GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetTicketByNumber(ctx context.Context, number string) (*Ticket, error)
	GetTicketByPaymentID(ctx context.Context, paymentId uuid.UUID) (*Ticket, error)
	ListTicketsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*Ticket, int, error)
	SaveTicket(ctx context.Context, ticket *Ticket) error
	DeleteTicket(ctx context.Context, id uuid.UUID) error
}

func (mdb *MongodbRepo) CreateTicket(ctx context.Context, ticket *Ticket) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	if _, err := col.InsertOne(ctx, ticket); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Ticket number collided with an existing one; the caller
			// regenerates and retries.
			return nil, NewConflictError("ticket number %s is already taken", ticket.TicketNumber)
		}
		return nil, NewTransientError("failed to insert ticket", err)
	}
	return ticket, nil
}

func (mdb *MongodbRepo) GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	var ticket Ticket
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&ticket); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("ticket %s not found", id)
		}
		return nil, NewTransientError("failed to find ticket", err)
	}
	return &ticket, nil
}

func (mdb *MongodbRepo) GetTicketByNumber(ctx context.Context, number string) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	var ticket Ticket
	if err := col.FindOne(ctx, bson.M{"ticket_number": number}).Decode(&ticket); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("ticket %s not found", number)
		}
		return nil, NewTransientError("failed to find ticket", err)
	}
	return &ticket, nil
}

func (mdb *MongodbRepo) GetTicketByPaymentID(ctx context.Context, paymentId uuid.UUID) (*Ticket, error) {
	col, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	var ticket Ticket
	if err := col.FindOne(ctx, bson.M{"payment_id": paymentId}).Decode(&ticket); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("no ticket issued for payment %s", paymentId)
		}
		return nil, NewTransientError("failed to find ticket", err)
	}
	return &ticket, nil
}

func (mdb *MongodbRepo) ListTicketsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*Ticket, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return nil, 0, NewTransientError("error getting collection", err)
	}

	filter := bson.M{"user_id": userId}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, NewTransientError("failed to count tickets", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, NewTransientError("failed to list tickets", err)
	}
	defer cursor.Close(ctx)

	tickets := []*Ticket{}
	for cursor.Next(ctx) {
		var ticket Ticket
		if err := cursor.Decode(&ticket); err != nil {
			return nil, 0, NewTransientError("failed to decode ticket", err)
		}
		tickets = append(tickets, &ticket)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, NewTransientError("cursor error", err)
	}

	return tickets, int(total), nil
}

// SaveTicket persists the full document after a lifecycle transition. The
// state machine runs on the entity, so the replace carries the already
// validated next state.
func (mdb *MongodbRepo) SaveTicket(ctx context.Context, ticket *Ticket) error {
	col, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	res, err := col.ReplaceOne(ctx, bson.M{"id": ticket.ID}, ticket)
	if err != nil {
		return NewTransientError("failed to save ticket", err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("ticket %s not found", ticket.ID)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	if _, err := col.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return NewTransientError("failed to delete ticket", err)
	}
	return nil
}
