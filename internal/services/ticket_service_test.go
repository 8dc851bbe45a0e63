package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuedTicket(t *testing.T, tickets *fakeTicketsRepo) *models.Ticket {
	t.Helper()
	event := activeEvent()
	payment, err := models.NewPayment(uuid.New(), event.ID, 300, models.CurrencyGHS, 2, models.MethodCard)
	require.NoError(t, err)
	ticket, err := models.NewTicket(event, payment, models.TypeGeneral)
	require.NoError(t, err)
	_, err = tickets.CreateTicket(context.Background(), ticket)
	require.NoError(t, err)
	return ticket
}

func TestValidateTicketPersistsScan(t *testing.T) {
	tickets := newFakeTicketsRepo()
	ticket := issuedTicket(t, tickets)
	svc := NewTicketService(tickets)
	gate := uuid.New()

	got, err := svc.ValidateTicket(context.Background(), ticket.ID, gate)
	require.NoError(t, err)
	assert.Equal(t, models.TicketUsed, got.Status)

	stored, err := tickets.GetTicketByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.Validated)
	assert.Equal(t, gate, *stored.ValidatedBy)

	// Double scan is a state error.
	_, err = svc.ValidateTicket(context.Background(), ticket.ID, uuid.New())
	assert.True(t, models.IsKind(err, models.KindState))
}

func TestValidateTicketRequiresValidator(t *testing.T) {
	tickets := newFakeTicketsRepo()
	ticket := issuedTicket(t, tickets)
	svc := NewTicketService(tickets)

	_, err := svc.ValidateTicket(context.Background(), ticket.ID, uuid.Nil)
	assert.True(t, models.IsKind(err, models.KindValidation))
}

func TestTransferTicketOwnershipCheck(t *testing.T) {
	tickets := newFakeTicketsRepo()
	ticket := issuedTicket(t, tickets)
	svc := NewTicketService(tickets)
	stranger := uuid.New()
	recipient := uuid.New()

	_, err := svc.TransferTicket(context.Background(), ticket.ID, stranger, recipient, "")
	assert.True(t, models.IsKind(err, models.KindState))

	got, err := svc.TransferTicket(context.Background(), ticket.ID, ticket.UserID, recipient, "gift")
	require.NoError(t, err)
	assert.Equal(t, recipient, got.UserID)
}

func TestRequestRefundOwnershipCheck(t *testing.T) {
	tickets := newFakeTicketsRepo()
	ticket := issuedTicket(t, tickets)
	svc := NewTicketService(tickets)

	_, err := svc.RequestRefund(context.Background(), ticket.ID, uuid.New(), "cannot attend")
	assert.True(t, models.IsKind(err, models.KindState))

	got, err := svc.RequestRefund(context.Background(), ticket.ID, ticket.UserID, "cannot attend")
	require.NoError(t, err)
	assert.True(t, got.RefundRequested)
}

func TestTicketQRContent(t *testing.T) {
	tickets := newFakeTicketsRepo()
	ticket := issuedTicket(t, tickets)
	svc := NewTicketService(tickets)

	// Only the owner can render their ticket.
	_, err := svc.TicketQRContent(context.Background(), ticket.ID, uuid.New())
	assert.True(t, models.IsKind(err, models.KindState))

	code, err := svc.TicketQRContent(context.Background(), ticket.ID, ticket.UserID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ValidationCode, code)

	// A used ticket cannot be presented again.
	_, err = svc.ValidateTicket(context.Background(), ticket.ID, uuid.New())
	require.NoError(t, err)
	_, err = svc.TicketQRContent(context.Background(), ticket.ID, ticket.UserID)
	assert.True(t, models.IsKind(err, models.KindState))
}
