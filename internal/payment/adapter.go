package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/novamart/storefront/internal/config"
)

// CardDetails is what the processor's confirmation call needs. The card
// number never reaches the order backend; only the processor sees it.
type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

// CardConfirmer is the external payment processor's confirmation API. It
// exchanges an authorization handle (client secret) plus card details for a
// payment intent id.
type CardConfirmer interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, card CardDetails) (string, error)
}

// Adapter runs the two-leg confirmation protocol: request an authorization
// handle from the backend for the amount, then confirm it with the processor.
// It never retries; a failed attempt is retried only by the user re-submitting,
// and every attempt requests a fresh handle.
type Adapter struct {
	baseURL    string
	currency   string
	httpClient *http.Client
	confirmer  CardConfirmer
	logger     *zap.Logger
}

// NewAdapter creates a payment adapter
func NewAdapter(cfg config.PaymentConfig, confirmer CardConfirmer, logger *zap.Logger) *Adapter {
	return &Adapter{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		currency: cfg.Currency,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		confirmer: confirmer,
		logger:    logger,
	}
}

type intentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Message      string `json:"message,omitempty"`
}

// Confirm charges the given amount. On success it returns the processor's
// payment intent id; on any failure it returns a human-readable error and
// the checkout step must not advance.
func (a *Adapter) Confirm(ctx context.Context, amount float64, card CardDetails) (string, error) {
	secret, err := a.createIntent(ctx, amount)
	if err != nil {
		return "", err
	}

	intentID, err := a.confirmer.ConfirmCardPayment(ctx, secret, card)
	if err != nil {
		a.logger.Warn("Card confirmation declined", zap.Error(err))
		return "", fmt.Errorf("payment was declined: %w", err)
	}

	a.logger.Info("Payment confirmed", zap.String("payment_intent_id", intentID))
	return intentID, nil
}

// createIntent requests one authorization handle for this attempt. Handles
// are never reused across attempts.
func (a *Adapter) createIntent(ctx context.Context, amount float64) (string, error) {
	// The backend expects the amount in minor units.
	body := intentRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: a.currency,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/create-payment-intent", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment service is unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read intent response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("payment authorization was rejected, please sign in again")
	case http.StatusBadRequest:
		return "", fmt.Errorf("payment request was rejected: %s", messageFromBody(respBody))
	default:
		return "", fmt.Errorf("payment service error: status %d", resp.StatusCode)
	}

	var intent intentResponse
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return "", fmt.Errorf("failed to unmarshal intent response: %w", err)
	}
	if intent.ClientSecret == "" {
		return "", fmt.Errorf("payment service returned no client secret")
	}
	return intent.ClientSecret, nil
}

func messageFromBody(body []byte) string {
	var intent intentResponse
	if err := json.Unmarshal(body, &intent); err != nil || intent.Message == "" {
		return "invalid payment details"
	}
	return intent.Message
}
