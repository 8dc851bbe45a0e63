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

// fakeEventsRepo implements just enough of models.EventsRepo for the
// purchase flow, with the same conditional semantics as the Mongo
// implementation: reservation fails atomically when the quantity does not
// fit.
type fakeEventsRepo struct {
	event         *models.Event
	reserveCalls  int
	releaseCalls  int
	releasedTotal int
}

func (f *fakeEventsRepo) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	return event, nil
}

func (f *fakeEventsRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, models.NewNotFoundError("event %s not found", id)
	}
	copy := *f.event
	return &copy, nil
}

func (f *fakeEventsRepo) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int, error) {
	return nil, 0, nil
}

func (f *fakeEventsRepo) QueryEvents(ctx context.Context, query map[string]interface{}, offset, limit int) ([]*models.Event, int, error) {
	return nil, 0, nil
}

func (f *fakeEventsRepo) ListEventsByOrganizer(ctx context.Context, organizerId uuid.UUID, offset, limit int) ([]*models.Event, int, error) {
	return nil, 0, nil
}

func (f *fakeEventsRepo) UpdateEvent(ctx context.Context, organizerId, eventId uuid.UUID, update map[string]interface{}) (*models.Event, error) {
	return f.event, nil
}

func (f *fakeEventsRepo) DeleteEvent(ctx context.Context, organizerId, eventId uuid.UUID) error {
	return nil
}

func (f *fakeEventsRepo) ReserveCapacity(ctx context.Context, eventId uuid.UUID, quantity int) error {
	f.reserveCalls++
	if f.event == nil || f.event.ID != eventId {
		return models.NewNotFoundError("event %s not found", eventId)
	}
	if f.event.Attendees+quantity > f.event.Capacity {
		return models.NewCapacityError("event %q has %d spots left, requested %d",
			f.event.Title, f.event.RemainingCapacity(), quantity)
	}
	f.event.Attendees += quantity
	return nil
}

func (f *fakeEventsRepo) ReleaseCapacity(ctx context.Context, eventId uuid.UUID, quantity int) error {
	f.releaseCalls++
	f.releasedTotal += quantity
	f.event.Attendees -= quantity
	return nil
}

func (f *fakeEventsRepo) SetEventRating(ctx context.Context, eventId uuid.UUID, rating float64) error {
	return nil
}

type fakePaymentsRepo struct {
	payments    map[uuid.UUID]*models.Payment
	createErrs  []error // consumed per CreatePayment call; nil means success
	createCalls int
	deleteCalls int
}

func newFakePaymentsRepo() *fakePaymentsRepo {
	return &fakePaymentsRepo{payments: make(map[uuid.UUID]*models.Payment)}
}

func (f *fakePaymentsRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.payments[payment.ID] = payment
	return payment, nil
}

func (f *fakePaymentsRepo) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, models.NewNotFoundError("payment %s not found", id)
	}
	return p, nil
}

func (f *fakePaymentsRepo) GetPaymentByReference(ctx context.Context, reference string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, models.NewNotFoundError("payment %s not found", reference)
}

func (f *fakePaymentsRepo) ListPaymentsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*models.Payment, int, error) {
	return nil, 0, nil
}

func (f *fakePaymentsRepo) SavePayment(ctx context.Context, payment *models.Payment) error {
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentsRepo) DeletePayment(ctx context.Context, id uuid.UUID) error {
	f.deleteCalls++
	delete(f.payments, id)
	return nil
}

type fakeTicketsRepo struct {
	tickets     map[uuid.UUID]*models.Ticket
	createErrs  []error
	createCalls int
}

func newFakeTicketsRepo() *fakeTicketsRepo {
	return &fakeTicketsRepo{tickets: make(map[uuid.UUID]*models.Ticket)}
}

func (f *fakeTicketsRepo) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.tickets[ticket.ID] = ticket
	return ticket, nil
}

func (f *fakeTicketsRepo) GetTicketByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, models.NewNotFoundError("ticket %s not found", id)
	}
	return t, nil
}

func (f *fakeTicketsRepo) GetTicketByNumber(ctx context.Context, number string) (*models.Ticket, error) {
	for _, t := range f.tickets {
		if t.TicketNumber == number {
			return t, nil
		}
	}
	return nil, models.NewNotFoundError("ticket %s not found", number)
}

func (f *fakeTicketsRepo) GetTicketByPaymentID(ctx context.Context, paymentId uuid.UUID) (*models.Ticket, error) {
	for _, t := range f.tickets {
		if t.PaymentID == paymentId {
			return t, nil
		}
	}
	return nil, models.NewNotFoundError("ticket for payment %s not found", paymentId)
}

func (f *fakeTicketsRepo) ListTicketsByUser(ctx context.Context, userId uuid.UUID, offset, limit int) ([]*models.Ticket, int, error) {
	return nil, 0, nil
}

func (f *fakeTicketsRepo) SaveTicket(ctx context.Context, ticket *models.Ticket) error {
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketsRepo) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	delete(f.tickets, id)
	return nil
}

func activeEvent() *models.Event {
	return &models.Event{
		ID:          uuid.New(),
		OrganizerID: uuid.New(),
		Title:       "Sabolai Radio",
		Category:    models.CategoryMusic,
		Date:        "2099-12-12",
		Venue:       "Osu Castle Gardens",
		Location:    "Accra",
		Capacity:    100,
		Price:       150,
		Currency:    models.CurrencyGHS,
		Status:      models.EventStatusActive,
	}
}

func newPurchaseService(events *fakeEventsRepo, payments *fakePaymentsRepo, tickets *fakeTicketsRepo) *PurchaseService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPurchaseService(events, payments, tickets, logger)
}

func TestPurchaseHappyPath(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	payments := newFakePaymentsRepo()
	tickets := newFakeTicketsRepo()
	svc := newPurchaseService(events, payments, tickets)
	buyer := uuid.New()

	res, err := svc.Purchase(context.Background(), events.event.ID, buyer, PurchaseRequest{
		Quantity: 2,
		Method:   models.MethodCard,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, events.event.Attendees)
	assert.Equal(t, 300.0, res.Payment.Amount) // 2 x 150, recomputed server-side
	assert.Equal(t, models.PaymentCompleted, res.Payment.Status)
	assert.Equal(t, buyer, res.Ticket.UserID)
	assert.Equal(t, res.Payment.ID, res.Ticket.PaymentID)
	assert.Equal(t, models.TicketActive, res.Ticket.Status)
	assert.Len(t, payments.payments, 1)
	assert.Len(t, tickets.tickets, 1)
}

func TestPurchaseMobileMoneyStaysPending(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	svc := newPurchaseService(events, newFakePaymentsRepo(), newFakeTicketsRepo())

	res, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity:    1,
		Method:      models.MethodMobileMoney,
		PhoneNumber: "0244000000",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, res.Payment.Status)
	assert.Equal(t, "0244000000", res.Payment.PhoneNumber)
}

func TestPurchaseRejectsOversell(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	events.event.Capacity = 2
	svc := newPurchaseService(events, newFakePaymentsRepo(), newFakeTicketsRepo())

	// First buyer takes the last two spots.
	_, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity: 2,
		Method:   models.MethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, events.event.Attendees)

	// Second buyer finds the event sold out; the attendee count must not move.
	_, err = svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity: 1,
		Method:   models.MethodCard,
	})
	assert.True(t, models.IsKind(err, models.KindCapacity))
	assert.Equal(t, 2, events.event.Attendees)
}

func TestPurchaseRejectsMismatchedTotal(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	svc := newPurchaseService(events, newFakePaymentsRepo(), newFakeTicketsRepo())

	_, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity:    2,
		Method:      models.MethodCard,
		TotalAmount: 200, // server computes 300
	})
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Equal(t, 0, events.event.Attendees)
}

func TestPurchaseRejectsInactiveEvent(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	events.event.Status = models.EventStatusDraft
	svc := newPurchaseService(events, newFakePaymentsRepo(), newFakeTicketsRepo())

	_, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity: 1,
		Method:   models.MethodCard,
	})
	assert.True(t, models.IsKind(err, models.KindState))
	assert.Equal(t, 0, events.reserveCalls)
}

func TestPurchaseRetriesPaymentReferenceCollision(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	payments := newFakePaymentsRepo()
	payments.createErrs = []error{
		models.NewConflictError("duplicate payment reference"),
		nil,
	}
	svc := newPurchaseService(events, payments, newFakeTicketsRepo())

	res, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity: 1,
		Method:   models.MethodCard,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, payments.createCalls)
	assert.Equal(t, 1, res.Payment.RetryCount)
}

func TestPurchaseReleasesCapacityWhenPaymentFails(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	payments := newFakePaymentsRepo()
	payments.createErrs = []error{
		models.NewTransientError("mongo unavailable", nil),
	}
	svc := newPurchaseService(events, payments, newFakeTicketsRepo())

	_, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity: 3,
		Method:   models.MethodCard,
	})
	require.Error(t, err)

	assert.Equal(t, 1, events.releaseCalls)
	assert.Equal(t, 3, events.releasedTotal)
	assert.Equal(t, 0, events.event.Attendees)
}

func TestPurchaseCompensatesWhenTicketInsertExhaustsRetries(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	payments := newFakePaymentsRepo()
	tickets := newFakeTicketsRepo()
	tickets.createErrs = []error{
		models.NewConflictError("duplicate ticket number"),
		models.NewConflictError("duplicate ticket number"),
		models.NewConflictError("duplicate ticket number"),
	}
	svc := newPurchaseService(events, payments, tickets)

	_, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity: 2,
		Method:   models.MethodCard,
	})
	assert.True(t, models.IsKind(err, models.KindConflict))

	// All three attempts ran, then the payment was removed and the spots
	// went back.
	assert.Equal(t, 3, tickets.createCalls)
	assert.Equal(t, 1, payments.deleteCalls)
	assert.Len(t, payments.payments, 0)
	assert.Equal(t, 0, events.event.Attendees)
	assert.Len(t, tickets.tickets, 0)
}

func TestPurchaseTicketRebuiltOnCollision(t *testing.T) {
	events := &fakeEventsRepo{event: activeEvent()}
	tickets := newFakeTicketsRepo()
	tickets.createErrs = []error{
		models.NewConflictError("duplicate ticket number"),
		nil,
	}
	svc := newPurchaseService(events, newFakePaymentsRepo(), tickets)

	res, err := svc.Purchase(context.Background(), events.event.ID, uuid.New(), PurchaseRequest{
		Quantity: 1,
		Method:   models.MethodCard,
	})
	require.NoError(t, err)

	// The persisted ticket's validation code must encode its own number,
	// not the number from the colliding first attempt.
	assert.Equal(t, 2, tickets.createCalls)
	stored, err := tickets.GetTicketByNumber(context.Background(), res.Ticket.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, res.Ticket.ValidationCode, stored.ValidationCode)
}
