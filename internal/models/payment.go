package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulsetix/api/internal/helpers"
)

type Currency string

const (
	CurrencyGHS Currency = "GHS"
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
)

type PaymentMethod string

const (
	MethodMobileMoney  PaymentMethod = "mobile_money"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodWallet       PaymentMethod = "wallet"
	MethodCash         PaymentMethod = "cash"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

const (
	MinTicketsPerPurchase = 1
	MaxTicketsPerPurchase = 10
	MaxPaymentRetries     = 3
)

// processingFeeRates by method, as a fraction of the gross amount.
var processingFeeRates = map[PaymentMethod]float64{
	MethodMobileMoney:  0.01,
	MethodCard:         0.025,
	MethodBankTransfer: 0.01,
	MethodWallet:       0.015,
	MethodCash:         0,
}

type Payment struct {
	ID        uuid.UUID     `bson:"id" json:"id"`
	UserID    uuid.UUID     `bson:"user_id" json:"user_id"`
	EventID   uuid.UUID     `bson:"event_id" json:"event_id"`
	Amount    float64       `bson:"amount" json:"amount"`
	Currency  Currency      `bson:"currency" json:"currency"`
	Quantity  int           `bson:"quantity" json:"quantity"`
	UnitPrice float64       `bson:"unit_price" json:"unit_price"`
	Method    PaymentMethod `bson:"method" json:"method"`
	Status    PaymentStatus `bson:"status" json:"status"`
	Reference string        `bson:"reference" json:"reference"`

	// Method-specific details.
	PhoneNumber   string `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	MobileNetwork string `bson:"mobile_network,omitempty" json:"mobile_network,omitempty"`
	CardBrand     string `bson:"card_brand,omitempty" json:"card_brand,omitempty"`
	CardLast4     string `bson:"card_last4,omitempty" json:"card_last4,omitempty"`
	BankName      string `bson:"bank_name,omitempty" json:"bank_name,omitempty"`

	ProcessingFee float64 `bson:"processing_fee" json:"processing_fee"`
	NetAmount     float64 `bson:"net_amount" json:"net_amount"`
	RetryCount    int     `bson:"retry_count" json:"retry_count"`

	InitiatedAt time.Time  `bson:"initiated_at" json:"initiated_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	FailedAt    *time.Time `bson:"failed_at,omitempty" json:"failed_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

func IsValidPaymentMethod(m PaymentMethod) bool {
	_, ok := processingFeeRates[m]
	return ok
}

// requiresConfirmation reports whether a method settles asynchronously. Those
// payments start out pending and complete on confirmation.
func (m PaymentMethod) requiresConfirmation() bool {
	return m == MethodMobileMoney || m == MethodBankTransfer
}

// NewPayment builds a payment with all derived fields computed up front:
// reference number, processing fee, net amount, and unit price when not
// supplied. Derivations live here rather than in a persistence hook so they
// are testable in isolation and always consistent with their inputs.
func NewPayment(userID, eventID uuid.UUID, amount float64, currency Currency, quantity int, method PaymentMethod) (*Payment, error) {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return nil, NewValidationError("payment requires a user and an event")
	}
	if quantity < MinTicketsPerPurchase || quantity > MaxTicketsPerPurchase {
		return nil, NewValidationError("quantity must be between %d and %d, got %d", MinTicketsPerPurchase, MaxTicketsPerPurchase, quantity)
	}
	if amount < 0 {
		return nil, NewValidationError("amount cannot be negative")
	}
	if !IsValidPaymentMethod(method) {
		return nil, NewValidationError("unsupported payment method: %q", method)
	}
	if currency == "" {
		currency = CurrencyGHS
	}

	now := time.Now()
	fee := amount * processingFeeRates[method]

	p := &Payment{
		ID:            uuid.New(),
		UserID:        userID,
		EventID:       eventID,
		Amount:        amount,
		Currency:      currency,
		Quantity:      quantity,
		UnitPrice:     amount / float64(quantity),
		Method:        method,
		Status:        PaymentPending,
		Reference:     helpers.GeneratePaymentReference(),
		ProcessingFee: fee,
		NetAmount:     amount - fee,
		InitiatedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if !method.requiresConfirmation() {
		p.MarkCompleted()
	}
	return p, nil
}

func (p *Payment) MarkProcessing() error {
	if p.Status != PaymentPending {
		return NewStateError("payment %s cannot move to processing from %s", p.Reference, p.Status)
	}
	p.Status = PaymentProcessing
	p.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted is a terminal transition from pending or processing. The
// first completion timestamp wins and is never overwritten.
func (p *Payment) MarkCompleted() error {
	switch p.Status {
	case PaymentPending, PaymentProcessing:
	default:
		return NewStateError("payment %s cannot complete from %s", p.Reference, p.Status)
	}
	p.Status = PaymentCompleted
	if p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Payment) MarkFailed() error {
	switch p.Status {
	case PaymentPending, PaymentProcessing:
	default:
		return NewStateError("payment %s cannot fail from %s", p.Reference, p.Status)
	}
	p.Status = PaymentFailed
	if p.FailedAt == nil {
		now := time.Now()
		p.FailedAt = &now
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Payment) MarkCancelled() error {
	switch p.Status {
	case PaymentPending, PaymentProcessing:
	default:
		return NewStateError("payment %s cannot be cancelled from %s", p.Reference, p.Status)
	}
	p.Status = PaymentCancelled
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Payment) MarkRefunded() error {
	if p.Status != PaymentCompleted && p.Status != PaymentCancelled {
		return NewStateError("payment %s cannot be refunded from %s", p.Reference, p.Status)
	}
	p.Status = PaymentRefunded
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Payment) CanRetry() bool {
	return p.RetryCount < MaxPaymentRetries
}

func (p *Payment) RecordRetry() error {
	if !p.CanRetry() {
		return NewConflictError("payment %s exceeded the retry cap of %d", p.Reference, MaxPaymentRetries)
	}
	p.RetryCount++
	p.UpdatedAt = time.Now()
	return nil
}
