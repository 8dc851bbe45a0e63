package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
)

type TicketService struct {
	ticketsRepo models.TicketsRepo
}

func NewTicketService(ticketsRepo models.TicketsRepo) *TicketService {
	return &TicketService{
		ticketsRepo: ticketsRepo,
	}
}

func (ts *TicketService) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	if id == uuid.Nil {
		return nil, models.NewValidationError("invalid ticket ID")
	}
	return ts.ticketsRepo.GetTicketByID(ctx, id)
}

func (ts *TicketService) ListTicketsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*models.Ticket, int, error) {
	if userId == uuid.Nil {
		return nil, 0, models.NewValidationError("invalid user ID")
	}
	if offset < 0 || limit <= 0 {
		return nil, 0, models.NewValidationError("invalid offset or limit")
	}
	return ts.ticketsRepo.ListTicketsByUser(ctx, userId, offset, limit)
}

// ValidateTicket is the gate-scan operation. The state machine rejects
// anything but an active, unvalidated, unexpired ticket, so a double scan
// comes back as a state error with the first validation record intact.
func (ts *TicketService) ValidateTicket(ctx context.Context, ticketId, validatorId uuid.UUID) (*models.Ticket, error) {
	if validatorId == uuid.Nil {
		return nil, models.NewValidationError("validator identity is required")
	}

	ticket, err := ts.ticketsRepo.GetTicketByID(ctx, ticketId)
	if err != nil {
		return nil, err
	}

	if err := ticket.ValidateAt(validatorId, time.Now()); err != nil {
		return nil, err
	}

	if err := ts.ticketsRepo.SaveTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (ts *TicketService) TransferTicket(ctx context.Context, ticketId, ownerId, newOwnerId uuid.UUID, reason string) (*models.Ticket, error) {
	ticket, err := ts.ticketsRepo.GetTicketByID(ctx, ticketId)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != ownerId {
		return nil, models.NewStateError("ticket %s does not belong to the requesting user", ticket.TicketNumber)
	}

	if err := ticket.TransferTo(newOwnerId, reason, time.Now()); err != nil {
		return nil, err
	}

	if err := ts.ticketsRepo.SaveTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (ts *TicketService) RequestRefund(ctx context.Context, ticketId, ownerId uuid.UUID, reason string) (*models.Ticket, error) {
	ticket, err := ts.ticketsRepo.GetTicketByID(ctx, ticketId)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != ownerId {
		return nil, models.NewStateError("ticket %s does not belong to the requesting user", ticket.TicketNumber)
	}

	if err := ticket.RequestRefund(reason, time.Now()); err != nil {
		return nil, err
	}

	if err := ts.ticketsRepo.SaveTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// TicketQRContent returns the stored validation code for rendering. Owner
// only; the code identifies the ticket but does not authenticate it.
func (ts *TicketService) TicketQRContent(ctx context.Context, ticketId, ownerId uuid.UUID) (string, error) {
	ticket, err := ts.ticketsRepo.GetTicketByID(ctx, ticketId)
	if err != nil {
		return "", err
	}
	if ticket.UserID != ownerId {
		return "", models.NewStateError("ticket %s does not belong to the requesting user", ticket.TicketNumber)
	}
	if ticket.Status != models.TicketActive {
		return "", models.NewStateError("ticket %s is %s and cannot be presented", ticket.TicketNumber, ticket.Status)
	}
	return ticket.ValidationCode, nil
}
