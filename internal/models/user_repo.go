package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepo covers credential handling (Supabase GoTrue) and the profile
// document that lives alongside the ticketing data in Mongo.
type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (interface{}, error)
	AuthenticateUser(ctx context.Context, email, password string) (interface{}, error)
	RefreshToken(ctx context.Context, refreshToken string) (interface{}, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, update map[string]interface{}, userId uuid.UUID) (*User, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
}

// UserStore pairs the auth backend with the profile collection.
type UserStore struct {
	supa  *SupabaseRepo
	mongo *MongodbRepo
}

func NewUserStore(supa *SupabaseRepo, mongo *MongodbRepo) *UserStore {
	return &UserStore{
		supa:  supa,
		mongo: mongo,
	}
}

// CreateUser signs the user up with the auth service, then writes the
// profile document keyed by the auth user id.
func (us *UserStore) CreateUser(ctx context.Context, user *User) (interface{}, error) {
	signed := types.SignupRequest{
		Email:    user.Email,
		Password: user.Password,
	}

	res, err := us.supa.supabaseClient.Auth.Signup(signed)
	if err != nil {
		if strings.Contains(err.Error(), "User already Registered") {
			return nil, NewConflictError("email already in use")
		}
		if strings.Contains(err.Error(), "unique constraint") {
			return nil, NewConflictError("user already exists")
		}
		return nil, NewTransientError("signup failed", err)
	}

	user.ID = res.User.ID
	if user.Role == "" {
		user.Role = RoleAttendee
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	col, err := us.mongo.GetCollection(ctx, DbName, ProfilesColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}
	if _, err := col.InsertOne(ctx, user); err != nil {
		return nil, NewTransientError("failed to create profile", err)
	}

	return res, nil
}

func (us *UserStore) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	resp, err := us.supa.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, NewValidationError("invalid email or password")
	}
	return resp, nil
}

func (us *UserStore) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	resp, err := us.supa.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, NewTransientError("token refresh failed", err)
	}
	return resp, nil
}

func (us *UserStore) GetProfile(ctx context.Context, id uuid.UUID) (*User, error) {
	col, err := us.mongo.GetCollection(ctx, DbName, ProfilesColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	var user User
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("profile %s not found", id)
		}
		return nil, NewTransientError("failed to find profile", err)
	}
	return &user, nil
}

func (us *UserStore) UpdateProfile(ctx context.Context, update map[string]interface{}, userId uuid.UUID) (*User, error) {
	col, err := us.mongo.GetCollection(ctx, DbName, ProfilesColName)
	if err != nil {
		return nil, NewTransientError("error getting collection", err)
	}

	set := bson.M{"updated_at": time.Now()}
	for key, value := range update {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated User
	if err := col.FindOneAndUpdate(ctx, bson.M{"id": userId}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("profile %s not found", userId)
		}
		return nil, NewTransientError("failed to update profile", err)
	}
	return &updated, nil
}

func (us *UserStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	col, err := us.mongo.GetCollection(ctx, DbName, ProfilesColName)
	if err != nil {
		return NewTransientError("error getting collection", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return NewTransientError("failed to delete profile", err)
	}
	if res.DeletedCount == 0 {
		return NewNotFoundError("profile %s not found", id)
	}
	return nil
}
