package models

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentsRepo interface {
	CreatePayment(ctx context.Context, payment *Payment) (*Payment, error)
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetPaymentByReference(ctx context.Context, reference string) (*Payment, error)
	ListPaymentsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*Payment, int, error)
	SavePayment(ctx context.Context, payment *Payment) error
	DeletePayment(ctx context.Context, id uuid.UUID) error
}

func (mdb *MongodbRepo) CreatePayment(ctx context.Context, payment *Payment) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	if _, err := col.InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewConflictError("payment reference %s is already taken", payment.Reference)
		}
		return nil, NewTransientError("failed to insert payment", err)
	}
	return payment, nil
}

func (mdb *MongodbRepo) GetPaymentByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	var payment Payment
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("payment %s not found", id)
		}
		return nil, NewTransientError("failed to find payment", err)
	}
	return &payment, nil
}

func (mdb *MongodbRepo) GetPaymentByReference(ctx context.Context, reference string) (*Payment, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	var payment Payment
	if err := col.FindOne(ctx, bson.M{"reference": reference}).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("payment %s not found", reference)
		}
		return nil, NewTransientError("failed to find payment", err)
	}
	return &payment, nil
}

func (mdb *MongodbRepo) ListPaymentsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*Payment, int, error) {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return nil, 0, NewTransientError("error getting collection", err)
	}

	filter := bson.M{"user_id": userId}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, NewTransientError("failed to count payments", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "initiated_at", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, NewTransientError("failed to list payments", err)
	}
	defer cursor.Close(ctx)

	payments := []*Payment{}
	for cursor.Next(ctx) {
		var payment Payment
		if err := cursor.Decode(&payment); err != nil {
			return nil, 0, NewTransientError("failed to decode payment", err)
		}
		payments = append(payments, &payment)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, NewTransientError("cursor error", err)
	}

	return payments, int(total), nil
}

func (mdb *MongodbRepo) SavePayment(ctx context.Context, payment *Payment) error {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	res, err := col.ReplaceOne(ctx, bson.M{"id": payment.ID}, payment)
	if err != nil {
		return NewTransientError("failed to save payment", err)
	}
	if res.MatchedCount == 0 {
		return NewNotFoundError("payment %s not found", payment.ID)
	}
	return nil
}

// DeletePayment exists for purchase compensation only; settled payments are
// never removed through the API surface.
func (mdb *MongodbRepo) DeletePayment(ctx context.Context, id uuid.UUID) error {
	col, err := mdb.GetCollection(ctx, DbName, PaymentsColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	if _, err := col.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return NewTransientError("failed to delete payment", err)
	}
	return nil
}
