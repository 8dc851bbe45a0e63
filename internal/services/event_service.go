package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/connect"
	"github.com/pulsetix/api/internal/helpers"
	"github.com/pulsetix/api/internal/models"
)

type EventService struct {
	eventsRepo models.EventsRepo
}

func NewEventService(eventsRepo models.EventsRepo) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
	}
}

func (es *EventService) CreateEvent(ctx context.Context, event *models.Event, organizerId uuid.UUID) (*models.Event, error) {
	event.OrganizerID = organizerId
	if event.Status == "" {
		event.Status = models.EventStatusDraft
	}
	if event.Currency == "" {
		event.Currency = models.CurrencyGHS
	}
	if err := event.ValidateEvent(); err != nil {
		return nil, err
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Slug = helpers.GenerateSlug(event.Title, event.Location)
	event.Attendees = 0
	event.Rating = 0
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	// Upload poster images first if any
	var uploadedPublicIDs []string
	if len(event.Images) > 0 && connect.Cld != nil {
		uploadChan := make(chan struct {
			urls      []string
			publicIDs []string
		}, 1)
		errorChan := make(chan error, 1)

		go func() {
			urls, publicIDs, uploadErr := helpers.UploadImages(ctx, connect.Cld, event.Images, helpers.EventsFolder)
			if uploadErr != nil {
				errorChan <- uploadErr
				return
			}
			uploadChan <- struct {
				urls      []string
				publicIDs []string
			}{urls, publicIDs}
		}()

		select {
		case result := <-uploadChan:
			event.Images = result.urls
			uploadedPublicIDs = result.publicIDs
		case uploadErr := <-errorChan:
			return nil, fmt.Errorf("failed to upload images: %v", uploadErr)
		case <-time.After(30 * time.Second):
			return nil, fmt.Errorf("image upload timeout")
		}
	}

	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		// If event creation fails, clean up uploaded images
		if len(uploadedPublicIDs) > 0 {
			helpers.DeleteImages(ctx, connect.Cld, helpers.EventsFolder, uploadedPublicIDs)
		}
		return nil, err
	}

	return created, nil
}

func (es *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, models.NewValidationError("invalid event ID")
	}
	return es.eventsRepo.GetEventByID(ctx, id)
}

func (es *EventService) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, models.NewValidationError("invalid offset or limit")
	}
	return es.eventsRepo.ListEvents(ctx, offset, limit)
}

// SearchEvents narrows the listing by the enumerated browse facets.
func (es *EventService) SearchEvents(ctx context.Context, category, location, status string, offset, limit int) ([]*models.Event, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, models.NewValidationError("invalid offset or limit")
	}

	query := map[string]interface{}{}
	if category != "" {
		query["category"] = category
	}
	if location != "" {
		query["location"] = location
	}
	if status != "" {
		query["status"] = status
	} else {
		query["status"] = models.EventStatusActive
	}
	return es.eventsRepo.QueryEvents(ctx, query, offset, limit)
}

func (es *EventService) ListEventsByOrganizer(ctx context.Context, organizerId uuid.UUID, offset, limit int) ([]*models.Event, int, error) {
	if organizerId == uuid.Nil {
		return nil, 0, models.NewValidationError("invalid organizer ID")
	}
	if offset < 0 || limit <= 0 {
		return nil, 0, models.NewValidationError("invalid offset or limit")
	}
	return es.eventsRepo.ListEventsByOrganizer(ctx, organizerId, offset, limit)
}

// UpdateEvent applies a partial update. Attendee counts are owned by the
// purchase flow and cannot be set through here.
func (es *EventService) UpdateEvent(ctx context.Context, organizerId, eventId uuid.UUID, update map[string]interface{}) (*models.Event, error) {
	if organizerId == uuid.Nil || eventId == uuid.Nil {
		return nil, models.NewValidationError("invalid organizer ID or event ID")
	}
	if len(update) == 0 {
		return nil, models.NewValidationError("no fields to update")
	}

	delete(update, "attendees")
	delete(update, "id")
	delete(update, "organizer_id")
	delete(update, "rating")

	if status, ok := update["status"].(string); ok {
		switch models.EventStatus(status) {
		case models.EventStatusDraft, models.EventStatusActive, models.EventStatusCancelled, models.EventStatusCompleted:
		default:
			return nil, models.NewValidationError("unsupported event status: %q", status)
		}
	}

	return es.eventsRepo.UpdateEvent(ctx, organizerId, eventId, update)
}

func (es *EventService) DeleteEvent(ctx context.Context, organizerId, eventId uuid.UUID) error {
	if organizerId == uuid.Nil || eventId == uuid.Nil {
		return models.NewValidationError("invalid organizer ID or event ID")
	}
	return es.eventsRepo.DeleteEvent(ctx, organizerId, eventId)
}
