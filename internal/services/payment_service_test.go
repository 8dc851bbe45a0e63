package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pendingPurchase seeds the fakes with a mobile money purchase awaiting
// confirmation.
func pendingPurchase(t *testing.T) (*fakeEventsRepo, *fakePaymentsRepo, *fakeTicketsRepo, *PurchaseResult) {
	t.Helper()
	events := &fakeEventsRepo{event: activeEvent()}
	payments := newFakePaymentsRepo()
	tickets := newFakeTicketsRepo()
	svc := newPurchaseService(events, payments, tickets)

	res, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity:    2,
		Method:      models.MethodMobileMoney,
		PhoneNumber: "0244000000",
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, res.Payment.Status)
	return events, payments, tickets, res
}

func newTestPaymentService(events *fakeEventsRepo, payments *fakePaymentsRepo, tickets *fakeTicketsRepo) *PaymentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPaymentService(payments, tickets, events, logger)
}

func TestConfirmPaymentSettlesPending(t *testing.T) {
	events, payments, tickets, res := pendingPurchase(t)
	svc := newTestPaymentService(events, payments, tickets)

	payment, err := svc.ConfirmPayment(context.Background(), res.Payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.NotNil(t, payment.CompletedAt)

	// Confirming twice is a state error.
	_, err = svc.ConfirmPayment(context.Background(), res.Payment.Reference)
	assert.True(t, models.IsKind(err, models.KindState))
}

func TestFailPaymentUnwindsPurchase(t *testing.T) {
	events, payments, tickets, res := pendingPurchase(t)
	svc := newTestPaymentService(events, payments, tickets)
	require.Equal(t, 2, events.event.Attendees)

	payment, err := svc.FailPayment(context.Background(), res.Payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, payment.Status)

	// The issued ticket is cancelled and the spots go back.
	stored, err := tickets.GetTicketByID(context.Background(), res.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketCancelled, stored.Status)
	assert.Equal(t, 0, events.event.Attendees)
}

func TestFailPaymentUnknownReference(t *testing.T) {
	events, payments, tickets, _ := pendingPurchase(t)
	svc := newTestPaymentService(events, payments, tickets)

	_, err := svc.FailPayment(context.Background(), "PAY-NOPE")
	assert.True(t, models.IsKind(err, models.KindNotFound))
}
