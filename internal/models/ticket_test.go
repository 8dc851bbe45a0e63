package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *Event {
	return &Event{
		ID:          uuid.New(),
		OrganizerID: uuid.New(),
		Title:       "Afro Nation Warmup",
		Category:    CategoryMusic,
		Date:        "2026-06-15",
		Venue:       "Black Star Square",
		Location:    "Accra",
		Capacity:    100,
		Price:       250,
		Currency:    CurrencyGHS,
		Status:      EventStatusActive,
	}
}

func testTicket(t *testing.T) *Ticket {
	t.Helper()
	event := testEvent()
	payment, err := NewPayment(uuid.New(), event.ID, 500, CurrencyGHS, 2, MethodCard)
	require.NoError(t, err)
	ticket, err := NewTicket(event, payment, TypeGeneral)
	require.NoError(t, err)
	return ticket
}

func TestNewTicketDerivedFields(t *testing.T) {
	event := testEvent()
	buyer := uuid.New()
	payment, err := NewPayment(buyer, event.ID, 500, CurrencyGHS, 2, MethodCard)
	require.NoError(t, err)

	ticket, err := NewTicket(event, payment, TypeVIP)
	require.NoError(t, err)

	assert.Equal(t, buyer, ticket.UserID)
	assert.Equal(t, event.ID, ticket.EventID)
	assert.Equal(t, payment.ID, ticket.PaymentID)
	assert.Equal(t, TypeVIP, ticket.Type)
	assert.Equal(t, TicketActive, ticket.Status)
	assert.Equal(t, 2, ticket.Quantity)
	assert.Equal(t, 250.0, ticket.UnitPrice)
	assert.Equal(t, 500.0, ticket.TotalAmount)
	assert.Contains(t, ticket.TicketNumber, helpers.TicketNumberPrefix+"-")

	// The validation code must round-trip back to the ticket's identity.
	payload, err := helpers.DecodeValidationCode(ticket.ValidationCode)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID.String(), payload.TicketID)
	assert.Equal(t, ticket.TicketNumber, payload.TicketNumber)
	assert.Equal(t, 2, payload.Quantity)

	// No end time set, so expiry is end of the event day plus the grace
	// window.
	wantExpiry := time.Date(2026, 6, 15, 23, 59, 59, 0, time.UTC).Add(TicketsExpiryGrace)
	assert.Equal(t, wantExpiry, ticket.ExpiresAt)
}

func TestNewTicketDefaultsToGeneral(t *testing.T) {
	event := testEvent()
	payment, err := NewPayment(uuid.New(), event.ID, 250, CurrencyGHS, 1, MethodCash)
	require.NoError(t, err)

	ticket, err := NewTicket(event, payment, "")
	require.NoError(t, err)
	assert.Equal(t, TypeGeneral, ticket.Type)

	_, err = NewTicket(event, payment, "backstage")
	assert.True(t, IsKind(err, KindValidation))
}

func TestValidateAtIsTerminal(t *testing.T) {
	ticket := testTicket(t)
	gate := uuid.New()
	first := time.Date(2026, 6, 15, 19, 0, 0, 0, time.UTC)

	require.NoError(t, ticket.ValidateAt(gate, first))
	assert.True(t, ticket.Validated)
	assert.Equal(t, TicketUsed, ticket.Status)
	require.NotNil(t, ticket.ValidatedAt)
	assert.Equal(t, first, *ticket.ValidatedAt)
	assert.Equal(t, gate, *ticket.ValidatedBy)

	// A second scan fails and must not disturb the first record.
	err := ticket.ValidateAt(uuid.New(), first.Add(time.Minute))
	assert.True(t, IsKind(err, KindState))
	assert.Equal(t, first, *ticket.ValidatedAt)
	assert.Equal(t, gate, *ticket.ValidatedBy)
}

func TestValidateAtRejectsExpired(t *testing.T) {
	ticket := testTicket(t)
	afterExpiry := ticket.ExpiresAt.Add(time.Minute)

	err := ticket.ValidateAt(uuid.New(), afterExpiry)
	assert.True(t, IsKind(err, KindState))
	assert.False(t, ticket.Validated)
	assert.Equal(t, TicketActive, ticket.Status)
}

func TestValidateAtRejectsNonActive(t *testing.T) {
	ticket := testTicket(t)
	ticket.Status = TicketCancelled

	err := ticket.ValidateAt(uuid.New(), time.Now())
	assert.True(t, IsKind(err, KindState))
}

func TestTransferRecordsOriginalOwnerOnce(t *testing.T) {
	ticket := testTicket(t)
	firstOwner := ticket.UserID
	second := uuid.New()
	third := uuid.New()
	now := time.Now()

	require.NoError(t, ticket.TransferTo(second, "friend", now))
	assert.Equal(t, second, ticket.UserID)
	require.NotNil(t, ticket.OriginalOwner)
	assert.Equal(t, firstOwner, *ticket.OriginalOwner)

	require.NoError(t, ticket.TransferTo(third, "", now))
	assert.Equal(t, third, ticket.UserID)
	// Still the first owner after a second hop.
	assert.Equal(t, firstOwner, *ticket.OriginalOwner)
	require.Len(t, ticket.Transfers, 2)
	assert.Equal(t, second, ticket.Transfers[1].From)
}

func TestTransferRejections(t *testing.T) {
	ticket := testTicket(t)
	now := time.Now()

	err := ticket.TransferTo(uuid.Nil, "", now)
	assert.True(t, IsKind(err, KindValidation))

	err = ticket.TransferTo(ticket.UserID, "", now)
	assert.True(t, IsKind(err, KindValidation))

	require.NoError(t, ticket.ValidateAt(uuid.New(), time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC)))
	err = ticket.TransferTo(uuid.New(), "", now)
	assert.True(t, IsKind(err, KindState))
}

func TestRequestRefund(t *testing.T) {
	ticket := testTicket(t)
	now := time.Now()

	require.NoError(t, ticket.RequestRefund("event moved", now))
	assert.True(t, ticket.RefundRequested)
	assert.Equal(t, RefundPending, ticket.RefundStatus)
	assert.Equal(t, ticket.TotalAmount, ticket.RefundAmount)

	// Only one open request at a time.
	err := ticket.RequestRefund("again", now)
	assert.True(t, IsKind(err, KindState))
}

func TestRequestRefundRejectsUsedTicket(t *testing.T) {
	ticket := testTicket(t)
	require.NoError(t, ticket.ValidateAt(uuid.New(), time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC)))

	err := ticket.RequestRefund("too late", time.Now())
	assert.True(t, IsKind(err, KindState))
}
