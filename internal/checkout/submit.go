package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SubmissionClient turns a provider token plus donation metadata into
// exactly one backend request per logical attempt.
type SubmissionClient struct {
	BaseURL string
	client  *http.Client
}

func NewSubmissionClient(baseURL string) *SubmissionClient {
	return &SubmissionClient{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type payRequest struct {
	Token          string `json:"token"`
	Amount         int64  `json:"amount"`
	Fund           string `json:"fund"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	IdempotencyKey string `json:"idempotencyKey"`
	Note           string `json:"note,omitempty"`
	ClientSecret   string `json:"clientSecret,omitempty"`
}

// ChargeRecord is the backend's view of a settled charge.
type ChargeRecord struct {
	ID          uint   `json:"id"`
	ProviderRef string `json:"provider_ref"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	Fund        string `json:"fund"`
	ReceiptURL  string `json:"receipt_url,omitempty"`
}

type payResponse struct {
	OK     bool          `json:"ok"`
	Charge *ChargeRecord `json:"charge"`
	Error  string        `json:"error"`
}

// Submission is one attempt: a fresh idempotency key, the token, and the
// total captured at tokenize-time.
type Submission struct {
	Token          string
	TotalCents     int64
	IdempotencyKey string
	ClientSecret   string
	Intent         Intent
}

func (s *SubmissionClient) Submit(ctx context.Context, sub Submission) (*ChargeRecord, error) {
	body, _ := json.Marshal(payRequest{
		Token:          sub.Token,
		Amount:         sub.TotalCents,
		Fund:           sub.Intent.Fund,
		Name:           sub.Intent.DonorName,
		Email:          sub.Intent.DonorEmail,
		IdempotencyKey: sub.IdempotencyKey,
		Note:           sub.Intent.Note(),
		ClientSecret:   sub.ClientSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/api/pay", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	var out payResponse
	_ = json.Unmarshal(respBody, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if msg == "" {
			msg = "payment failed"
		}
		return nil, &ChargeError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out.Charge == nil {
		return nil, fmt.Errorf("submit: malformed backend response")
	}
	return out.Charge, nil
}

type intentRequest struct {
	Amount     int64  `json:"amount"`
	Fund       string `json:"fund"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Dedication string `json:"dedication,omitempty"`
	Previous   string `json:"previous,omitempty"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Reference    string `json:"reference"`
	Error        string `json:"error"`
}

// CreatePaymentIntent requests a pre-created payment context for the given
// total. The returned secret is single-use per amount and must be
// re-requested whenever the amount changes; previous supersedes the prior
// context when the total moves.
func (s *SubmissionClient) CreatePaymentIntent(ctx context.Context, intent Intent, totalCents int64, previous string) (secret, reference string, err error) {
	body, _ := json.Marshal(intentRequest{
		Amount:     totalCents,
		Fund:       intent.Fund,
		Name:       intent.DonorName,
		Email:      intent.DonorEmail,
		Dedication: intent.Note(),
		Previous:   previous,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/api/create-payment-intent", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var out intentResponse
	if decErr := json.NewDecoder(resp.Body).Decode(&out); decErr != nil {
		return "", "", decErr
	}
	if resp.StatusCode != http.StatusOK || out.ClientSecret == "" {
		msg := out.Error
		if msg == "" {
			msg = "could not create payment intent"
		}
		return "", "", &ChargeError{StatusCode: resp.StatusCode, Message: msg}
	}
	return out.ClientSecret, out.Reference, nil
}
