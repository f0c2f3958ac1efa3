package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DeclinedTestCard is the card number the mock processor always declines.
const DeclinedTestCard = "4000000000000002"

// MockConfirmer stands in for the real processor in development and tests.
// It accepts any card except the declined test card and mints intent ids
// from the client secret it was handed.
type MockConfirmer struct{}

func NewMockConfirmer() *MockConfirmer {
	return &MockConfirmer{}
}

func (m *MockConfirmer) ConfirmCardPayment(ctx context.Context, clientSecret string, card CardDetails) (string, error) {
	if clientSecret == "" {
		return "", fmt.Errorf("missing client secret")
	}
	if card.Number == DeclinedTestCard {
		return "", fmt.Errorf("card declined")
	}
	if len(card.Number) < 12 {
		return "", fmt.Errorf("invalid card number")
	}

	// Intent id is derived from the secret's prefix, mirroring the
	// processor's pi_..._secret_... scheme.
	intentID := clientSecret
	if i := strings.Index(clientSecret, "_secret"); i > 0 {
		intentID = clientSecret[:i]
	}
	if intentID == clientSecret {
		intentID = fmt.Sprintf("pi_mock_%d", time.Now().UnixNano())
	}
	return intentID, nil
}
