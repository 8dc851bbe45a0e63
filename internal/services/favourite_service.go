package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
)

type FavouriteService struct {
	favouritesRepo models.FavouriteRepo
}

func NewFavouriteService(favouritesRepo models.FavouriteRepo) *FavouriteService {
	return &FavouriteService{
		favouritesRepo: favouritesRepo,
	}
}

func (fs *FavouriteService) AddToFavourites(ctx context.Context, userId uuid.UUID, itemId string, itemType string) (*models.Favourite, error) {
	if userId == uuid.Nil {
		return nil, models.NewValidationError("invalid user ID")
	}
	if strings.TrimSpace(itemId) == "" {
		return nil, models.NewValidationError("item ID cannot be empty")
	}
	if itemType != "event" && itemType != "artist" {
		return nil, models.NewValidationError("item type must be either 'event' or 'artist'")
	}

	return fs.favouritesRepo.AddToFavourites(ctx, userId, itemId, itemType)
}

func (fs *FavouriteService) RemoveFromFavourites(ctx context.Context, userId uuid.UUID, itemId string) error {
	if userId == uuid.Nil {
		return models.NewValidationError("invalid user ID")
	}
	if strings.TrimSpace(itemId) == "" {
		return models.NewValidationError("item ID cannot be empty")
	}

	return fs.favouritesRepo.RemoveFromFavourites(ctx, userId, itemId)
}

func (fs *FavouriteService) GetFavouritesByUserID(ctx context.Context, userId uuid.UUID) ([]*models.Favourite, error) {
	if userId == uuid.Nil {
		return nil, models.NewValidationError("invalid user ID")
	}

	return fs.favouritesRepo.GetFavouritesByUserID(ctx, userId)
}
