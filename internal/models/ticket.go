package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/helpers"
)

type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
	TicketRefunded  TicketStatus = "refunded"
	TicketExpired   TicketStatus = "expired"
)

type TicketType string

const (
	TypeGeneral   TicketType = "general"
	TypeVIP       TicketType = "vip"
	TypePremium   TicketType = "premium"
	TypeStudent   TicketType = "student"
	TypeEarlyBird TicketType = "early_bird"
	TypeGroup     TicketType = "group"
)

type RefundStatus string

const (
	RefundPending  RefundStatus = "pending"
	RefundApproved RefundStatus = "approved"
	RefundRejected RefundStatus = "rejected"
)

type TransferRecord struct {
	From   uuid.UUID `bson:"from" json:"from"`
	To     uuid.UUID `bson:"to" json:"to"`
	At     time.Time `bson:"at" json:"at"`
	Reason string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

type Ticket struct {
	ID             uuid.UUID    `bson:"id" json:"id"`
	UserID         uuid.UUID    `bson:"user_id" json:"user_id"`
	OriginalOwner  *uuid.UUID   `bson:"original_owner,omitempty" json:"original_owner,omitempty"`
	EventID        uuid.UUID    `bson:"event_id" json:"event_id"`
	PaymentID      uuid.UUID    `bson:"payment_id" json:"payment_id"`
	TicketNumber   string       `bson:"ticket_number" json:"ticket_number"`
	Type           TicketType   `bson:"type" json:"type"`
	Quantity       int          `bson:"quantity" json:"quantity"`
	UnitPrice      float64      `bson:"unit_price" json:"unit_price"`
	TotalAmount    float64      `bson:"total_amount" json:"total_amount"`
	Status         TicketStatus `bson:"status" json:"status"`
	ValidationCode string       `bson:"validation_code" json:"validation_code"`

	Validated   bool       `bson:"validated" json:"validated"`
	ValidatedAt *time.Time `bson:"validated_at,omitempty" json:"validated_at,omitempty"`
	ValidatedBy *uuid.UUID `bson:"validated_by,omitempty" json:"validated_by,omitempty"`

	Seat    string `bson:"seat,omitempty" json:"seat,omitempty"`
	Section string `bson:"section,omitempty" json:"section,omitempty"`

	Transfers []TransferRecord `bson:"transfers,omitempty" json:"transfers,omitempty"`

	RefundRequested   bool         `bson:"refund_requested" json:"refund_requested"`
	RefundRequestedAt *time.Time   `bson:"refund_requested_at,omitempty" json:"refund_requested_at,omitempty"`
	RefundReason      string       `bson:"refund_reason,omitempty" json:"refund_reason,omitempty"`
	RefundStatus      RefundStatus `bson:"refund_status,omitempty" json:"refund_status,omitempty"`
	RefundAmount      float64      `bson:"refund_amount,omitempty" json:"refund_amount,omitempty"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func IsValidTicketType(t TicketType) bool {
	switch t {
	case TypeGeneral, TypeVIP, TypePremium, TypeStudent, TypeEarlyBird, TypeGroup:
		return true
	}
	return false
}

// NewTicket issues a ticket against a completed or pending payment. The
// ticket number, validation code, and expiry are all derived here, once, so
// the persisted document never depends on save-time hooks.
func NewTicket(event *Event, payment *Payment, ticketType TicketType) (*Ticket, error) {
	if event == nil || payment == nil {
		return nil, NewValidationError("ticket requires an event and a payment")
	}
	if ticketType == "" {
		ticketType = TypeGeneral
	}
	if !IsValidTicketType(ticketType) {
		return nil, NewValidationError("unsupported ticket type: %q", ticketType)
	}

	expiry, err := event.TicketExpiry()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Ticket{
		ID:           uuid.New(),
		UserID:       payment.UserID,
		EventID:      event.ID,
		PaymentID:    payment.ID,
		TicketNumber: helpers.GenerateTicketNumber(),
		Type:         ticketType,
		Quantity:     payment.Quantity,
		UnitPrice:    payment.UnitPrice,
		TotalAmount:  payment.Amount,
		Status:       TicketActive,
		ExpiresAt:    expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	code, err := helpers.EncodeValidationCode(helpers.ValidationPayload{
		TicketID:     t.ID.String(),
		EventID:      event.ID.String(),
		UserID:       payment.UserID.String(),
		TicketNumber: t.TicketNumber,
		Quantity:     payment.Quantity,
	})
	if err != nil {
		return nil, NewTransientError("failed to generate validation code", err)
	}
	t.ValidationCode = code

	return t, nil
}

func (t *Ticket) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ValidateAt admits the holder: legal only from active, unvalidated, and
// unexpired. It is the terminal transition to used. A second call is a state
// error and leaves the first validation record untouched.
func (t *Ticket) ValidateAt(validatorID uuid.UUID, now time.Time) error {
	if t.Validated {
		return NewStateError("ticket %s was already validated", t.TicketNumber)
	}
	if t.Status != TicketActive {
		return NewStateError("ticket %s cannot be validated while %s", t.TicketNumber, t.Status)
	}
	if t.IsExpired(now) {
		return NewStateError("ticket %s expired at %s", t.TicketNumber, t.ExpiresAt.Format(time.RFC3339))
	}

	t.Validated = true
	t.ValidatedAt = &now
	t.ValidatedBy = &validatorID
	t.Status = TicketUsed
	t.UpdatedAt = now
	return nil
}

// TransferTo reassigns the ticket to a new owner. The pre-transfer owner is
// recorded as OriginalOwner on the first transfer only.
func (t *Ticket) TransferTo(newOwnerID uuid.UUID, reason string, now time.Time) error {
	if newOwnerID == uuid.Nil {
		return NewValidationError("transfer requires a recipient")
	}
	if newOwnerID == t.UserID {
		return NewValidationError("ticket %s already belongs to that user", t.TicketNumber)
	}
	if t.Status != TicketActive {
		return NewStateError("ticket %s cannot be transferred while %s", t.TicketNumber, t.Status)
	}
	if t.Validated {
		return NewStateError("ticket %s was already validated and cannot be transferred", t.TicketNumber)
	}

	if t.OriginalOwner == nil {
		owner := t.UserID
		t.OriginalOwner = &owner
	}
	t.Transfers = append(t.Transfers, TransferRecord{
		From:   t.UserID,
		To:     newOwnerID,
		At:     now,
		Reason: reason,
	})
	t.UserID = newOwnerID
	t.UpdatedAt = now
	return nil
}

// RequestRefund opens a refund request; the administrative approval flow that
// settles the Payment is a separate operation.
func (t *Ticket) RequestRefund(reason string, now time.Time) error {
	if t.Status != TicketActive {
		return NewStateError("ticket %s cannot be refunded while %s", t.TicketNumber, t.Status)
	}
	if t.Validated {
		return NewStateError("ticket %s was already validated and cannot be refunded", t.TicketNumber)
	}
	if t.RefundRequested {
		return NewStateError("ticket %s already has a pending refund request", t.TicketNumber)
	}

	t.RefundRequested = true
	t.RefundRequestedAt = &now
	t.RefundReason = reason
	t.RefundStatus = RefundPending
	t.RefundAmount = t.TotalAmount
	t.UpdatedAt = now
	return nil
}
