package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTicketNumberFormat(t *testing.T) {
	number := GenerateTicketNumber()

	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, TicketNumberPrefix, parts[0])
	assert.Equal(t, number, strings.ToUpper(number))
	assert.Len(t, parts[2], 6) // 3 random bytes, hex encoded
}

func TestGeneratePaymentReferenceFormat(t *testing.T) {
	ref := GeneratePaymentReference()

	parts := strings.Split(ref, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, PaymentReferencePrefix, parts[0])
	assert.Len(t, parts[1], 14) // timestamp component
	assert.Len(t, parts[2], 8)  // 4 random bytes, hex encoded
}

func TestGeneratedCodesDiffer(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := GenerateTicketNumber()
		assert.False(t, seen[n], "duplicate ticket number %s", n)
		seen[n] = true
	}
}

func TestValidationCodeRoundTrip(t *testing.T) {
	in := ValidationPayload{
		TicketID:     "0c6a2b36-5bb5-4a93-a271-1a0cf1a3a1da",
		EventID:      "9e107d9d-372b-4141-a6cb-b28073a2ca94",
		UserID:       "e4d909c2-90d0-4bb1-ab31-4718bbbe4cbe",
		TicketNumber: "TKT-ABC123-4F2A1B",
		Quantity:     3,
	}

	code, err := EncodeValidationCode(in)
	require.NoError(t, err)

	// URL-safe, no padding: embeddable straight into a QR code.
	assert.NotContains(t, code, "=")
	assert.NotContains(t, code, "+")
	assert.NotContains(t, code, "/")

	out, err := DecodeValidationCode(code)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestDecodeValidationCodeRejectsGarbage(t *testing.T) {
	_, err := DecodeValidationCode("not base64 at all!!")
	assert.Error(t, err)

	_, err = DecodeValidationCode("bm90IGpzb24")
	assert.Error(t, err)
}
