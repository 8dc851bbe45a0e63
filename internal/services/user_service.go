package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/helpers"
	"github.com/pulsetix/api/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) CreateUser(user *models.User) (interface{}, error) {
	if err := models.Validate.Struct(user); err != nil {
		return nil, models.NewValidationError("invalid user data: %v", err)
	}

	if !helpers.IsPasswordStrong(user.Password) {
		return nil, models.NewValidationError("password is not strong enough")
	}

	switch user.Role {
	case "", models.RoleAttendee, models.RoleOrganizer:
	default:
		return nil, models.NewValidationError("unsupported role: %q", user.Role)
	}

	return us.userRepo.CreateUser(context.Background(), user)
}

func (us *UserService) AuthenticateUser(email, password string) (interface{}, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, models.NewValidationError("invalid email format")
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, models.NewValidationError("invalid password format")
	}
	response, err := us.userRepo.AuthenticateUser(context.Background(), email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	return response, nil
}

func (us *UserService) RefreshToken(refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, models.NewValidationError("refresh token is required")
	}
	response, err := us.userRepo.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return response, nil
}

func (us *UserService) GetProfile(id uuid.UUID) (*models.User, error) {
	res, err := us.userRepo.GetProfile(context.Background(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return res, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, update map[string]interface{}, userId uuid.UUID) (*models.User, error) {
	delete(update, "id")
	delete(update, "email")
	delete(update, "created_at")
	update["updated_at"] = time.Now()

	updated, err := us.userRepo.UpdateProfile(ctx, update, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return updated, nil
}

func (us *UserService) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if err := us.userRepo.DeleteProfile(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
