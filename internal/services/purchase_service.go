package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/helpers"
	"github.com/pulsetix/api/internal/models"
)

// PurchaseService ties the three purchase writes together: reserve event
// capacity, record the payment, issue the ticket. The capacity reservation
// is the serialization point; everything after it is compensated on failure
// so a half-applied purchase never survives.
type PurchaseService struct {
	eventsRepo   models.EventsRepo
	paymentsRepo models.PaymentsRepo
	ticketsRepo  models.TicketsRepo
	logger       *slog.Logger
}

func NewPurchaseService(eventsRepo models.EventsRepo, paymentsRepo models.PaymentsRepo, ticketsRepo models.TicketsRepo, logger *slog.Logger) *PurchaseService {
	return &PurchaseService{
		eventsRepo:   eventsRepo,
		paymentsRepo: paymentsRepo,
		ticketsRepo:  ticketsRepo,
		logger:       logger,
	}
}

type PurchaseRequest struct {
	Quantity    int                  `json:"quantity" validate:"required,min=1,max=10"`
	Method      models.PaymentMethod `json:"payment_method" validate:"required"`
	TicketType  models.TicketType    `json:"ticket_type,omitempty"`
	TotalAmount float64              `json:"total_amount,omitempty"`
	PhoneNumber string               `json:"phone_number,omitempty"`
	Seat        string               `json:"seat,omitempty"`
	Section     string               `json:"section,omitempty"`
}

type PurchaseResult struct {
	Payment *models.Payment `json:"payment"`
	Ticket  *models.Ticket  `json:"ticket"`
}

// insertAttempts caps retries on unique-index collisions, mirroring the
// retry cap carried on the payment itself.
const insertAttempts = models.MaxPaymentRetries

// Purchase runs the full orchestration for one buyer against one event.
// The total is always recomputed server-side from the event's unit price; a
// client-supplied total is only checked for agreement, never trusted.
func (ps *PurchaseService) Purchase(ctx context.Context, eventId, buyerId uuid.UUID, req PurchaseRequest) (*PurchaseResult, error) {
	if buyerId == uuid.Nil {
		return nil, models.NewValidationError("purchase requires an authenticated buyer")
	}
	if req.Quantity < models.MinTicketsPerPurchase || req.Quantity > models.MaxTicketsPerPurchase {
		return nil, models.NewValidationError("quantity must be between %d and %d, got %d",
			models.MinTicketsPerPurchase, models.MaxTicketsPerPurchase, req.Quantity)
	}
	if !models.IsValidPaymentMethod(req.Method) {
		return nil, models.NewValidationError("unsupported payment method: %q", req.Method)
	}

	event, err := ps.eventsRepo.GetEventByID(ctx, eventId)
	if err != nil {
		return nil, err
	}
	if !event.IsActive() {
		return nil, models.NewStateError("event %q is %s and not selling tickets", event.Title, event.Status)
	}

	total := event.Price * float64(req.Quantity)
	if req.TotalAmount != 0 && math.Abs(req.TotalAmount-total) > 0.005 {
		return nil, models.NewValidationError("total amount %.2f does not match %d x %.2f = %.2f",
			req.TotalAmount, req.Quantity, event.Price, total)
	}

	// Serialization point: succeeds only if the post-increment attendee
	// count stays within capacity.
	if err := ps.eventsRepo.ReserveCapacity(ctx, eventId, req.Quantity); err != nil {
		return nil, err
	}

	payment, err := models.NewPayment(buyerId, eventId, total, event.Currency, req.Quantity, req.Method)
	if err != nil {
		ps.release(ctx, eventId, req.Quantity)
		return nil, err
	}
	payment.PhoneNumber = req.PhoneNumber

	if err := ps.createPaymentWithRetry(ctx, payment); err != nil {
		ps.release(ctx, eventId, req.Quantity)
		return nil, err
	}

	ticket, err := ps.createTicketWithRetry(ctx, event, payment, req)
	if err != nil {
		ps.compensatePayment(ctx, payment)
		ps.release(ctx, eventId, req.Quantity)
		return nil, err
	}

	ps.logger.Info("purchase completed",
		"event_id", eventId,
		"buyer_id", buyerId,
		"quantity", req.Quantity,
		"payment_reference", payment.Reference,
		"ticket_number", ticket.TicketNumber,
	)

	return &PurchaseResult{Payment: payment, Ticket: ticket}, nil
}

// createPaymentWithRetry regenerates the reference number on duplicate-key
// conflicts, up to the payment retry cap.
func (ps *PurchaseService) createPaymentWithRetry(ctx context.Context, payment *models.Payment) error {
	var lastErr error
	for attempt := 0; attempt < insertAttempts; attempt++ {
		if _, err := ps.paymentsRepo.CreatePayment(ctx, payment); err != nil {
			lastErr = err
			if models.IsKind(err, models.KindConflict) {
				payment.Reference = helpers.GeneratePaymentReference()
				if retryErr := payment.RecordRetry(); retryErr != nil {
					return retryErr
				}
				continue
			}
			return err
		}
		return nil
	}
	return lastErr
}

// createTicketWithRetry rebuilds the whole ticket on a number collision so
// the validation code always encodes the number that actually persisted.
func (ps *PurchaseService) createTicketWithRetry(ctx context.Context, event *models.Event, payment *models.Payment, req PurchaseRequest) (*models.Ticket, error) {
	var lastErr error
	for attempt := 0; attempt < insertAttempts; attempt++ {
		ticket, err := models.NewTicket(event, payment, req.TicketType)
		if err != nil {
			return nil, err
		}
		ticket.Seat = req.Seat
		ticket.Section = req.Section

		if _, err := ps.ticketsRepo.CreateTicket(ctx, ticket); err != nil {
			lastErr = err
			if models.IsKind(err, models.KindConflict) {
				continue
			}
			return nil, err
		}
		return ticket, nil
	}
	return nil, lastErr
}

func (ps *PurchaseService) release(ctx context.Context, eventId uuid.UUID, quantity int) {
	if err := ps.eventsRepo.ReleaseCapacity(ctx, eventId, quantity); err != nil {
		ps.logger.Error("failed to release reserved capacity",
			"event_id", eventId,
			"quantity", quantity,
			"error", err,
		)
	}
}

func (ps *PurchaseService) compensatePayment(ctx context.Context, payment *models.Payment) {
	if err := ps.paymentsRepo.DeletePayment(ctx, payment.ID); err != nil {
		ps.logger.Error("failed to remove orphaned payment",
			"payment_id", payment.ID,
			"reference", payment.Reference,
			"error", err,
		)
	}
}
