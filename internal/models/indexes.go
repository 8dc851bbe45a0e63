package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the ticketing flow depends on. The
// unique indexes on ticket numbers and payment references are what turns a
// generator collision into a retryable duplicate-key failure instead of a
// silent double issue.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	tickets, err := mdb.GetCollection(ctx, DbName, TicketsColName)
	if err != nil {
		return err
	}
	_, err = tickets.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ticket_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "event_id", Value: 1}},
		},
	})
	if err != nil {
		return NewTransientError("failed to create ticket indexes", err)
	}

	payments, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return err
	}
	_, err = payments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return NewTransientError("failed to create payment indexes", err)
	}

	events, err := mdb.GetCollection(ctx, DbName, EventsColName)
	if err != nil {
		return err
	}
	_, err = events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "location", Value: 1}},
		},
	})
	if err != nil {
		return NewTransientError("failed to create event indexes", err)
	}

	return nil
}
