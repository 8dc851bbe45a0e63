package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	TicketNumberPrefix     = "TKT"
	PaymentReferencePrefix = "PAY"
)

// randomCode returns n random bytes as an upper-cased hex string.
func randomCode(n int) string {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		// crypto/rand failing means the platform is broken; fall back to a
		// time-derived suffix so ticket issuance keeps working.
		return strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))
	}
	return strings.ToUpper(hex.EncodeToString(byt))
}

// GenerateTicketNumber produces a human-readable ticket number: prefix, a
// time component, and a random suffix. Collisions are vanishingly unlikely
// but not impossible; the tickets collection enforces uniqueness and a
// duplicate surfaces as a retryable conflict at creation.
func GenerateTicketNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("%s-%s-%s", TicketNumberPrefix, ts, randomCode(3))
}

func GeneratePaymentReference() string {
	return fmt.Sprintf("%s-%s-%s", PaymentReferencePrefix, time.Now().UTC().Format("20060102150405"), randomCode(4))
}

// ValidationPayload is what a gate scanner reads off a ticket's QR code. It
// is an encoded identifier, not a cryptographic proof: anyone holding the
// ticket record can regenerate it, so scanners must corroborate against the
// store before admitting.
type ValidationPayload struct {
	TicketID     string `json:"tid"`
	EventID      string `json:"eid"`
	UserID       string `json:"uid"`
	TicketNumber string `json:"num"`
	Quantity     int    `json:"qty"`
}

func EncodeValidationCode(p ValidationPayload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode validation payload: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeValidationCode(code string) (*ValidationPayload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("validation code is not valid base64: %v", err)
	}
	var p ValidationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("validation code payload is malformed: %v", err)
	}
	return &p, nil
}
