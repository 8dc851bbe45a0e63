package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
)

type PaymentService struct {
	paymentsRepo models.PaymentsRepo
	ticketsRepo  models.TicketsRepo
	eventsRepo   models.EventsRepo
	logger       *slog.Logger
}

func NewPaymentService(paymentsRepo models.PaymentsRepo, ticketsRepo models.TicketsRepo, eventsRepo models.EventsRepo, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		paymentsRepo: paymentsRepo,
		ticketsRepo:  ticketsRepo,
		eventsRepo:   eventsRepo,
		logger:       logger,
	}
}

func (ps *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	if id == uuid.Nil {
		return nil, models.NewValidationError("invalid payment ID")
	}
	return ps.paymentsRepo.GetPaymentByID(ctx, id)
}

func (ps *PaymentService) ListPaymentsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*models.Payment, int, error) {
	if userId == uuid.Nil {
		return nil, 0, models.NewValidationError("invalid user ID")
	}
	if offset < 0 || limit <= 0 {
		return nil, 0, models.NewValidationError("invalid offset or limit")
	}
	return ps.paymentsRepo.ListPaymentsByUser(ctx, userId, offset, limit)
}

// ConfirmPayment settles an asynchronously confirmed payment (mobile money,
// bank transfer) by reference.
func (ps *PaymentService) ConfirmPayment(ctx context.Context, reference string) (*models.Payment, error) {
	payment, err := ps.paymentsRepo.GetPaymentByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkCompleted(); err != nil {
		return nil, err
	}
	if err := ps.paymentsRepo.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	ps.logger.Info("payment confirmed", "reference", payment.Reference, "amount", payment.Amount)
	return payment, nil
}

// FailPayment marks a pending payment failed and unwinds what the purchase
// already applied: the issued ticket is cancelled and the reserved spots go
// back to the event.
func (ps *PaymentService) FailPayment(ctx context.Context, reference string) (*models.Payment, error) {
	payment, err := ps.paymentsRepo.GetPaymentByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkFailed(); err != nil {
		return nil, err
	}
	if err := ps.paymentsRepo.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	ticket, err := ps.ticketsRepo.GetTicketByPaymentID(ctx, payment.ID)
	if err == nil && ticket.Status == models.TicketActive {
		ticket.Status = models.TicketCancelled
		if saveErr := ps.ticketsRepo.SaveTicket(ctx, ticket); saveErr != nil {
			ps.logger.Error("failed to cancel ticket for failed payment",
				"reference", payment.Reference,
				"ticket_number", ticket.TicketNumber,
				"error", saveErr,
			)
		}
	}

	if err := ps.eventsRepo.ReleaseCapacity(ctx, payment.EventID, payment.Quantity); err != nil {
		ps.logger.Error("failed to release capacity for failed payment",
			"reference", payment.Reference,
			"event_id", payment.EventID,
			"error", err,
		)
	}

	ps.logger.Info("payment failed", "reference", payment.Reference)
	return payment, nil
}
