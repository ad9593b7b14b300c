package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// SquareProcessor creates charges against the Square Payments API.
type SquareProcessor struct {
	BaseURL     string
	AccessToken string
	LocationID  string
	client      *http.Client
}

func NewSquareProcessor(baseURL, accessToken, locationID string) *SquareProcessor {
	if baseURL == "" {
		baseURL = "https://connect.squareup.com"
	}
	return &SquareProcessor{
		BaseURL:     baseURL,
		AccessToken: accessToken,
		LocationID:  locationID,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type squareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type squareChargeReq struct {
	SourceID       string      `json:"source_id"`
	IdempotencyKey string      `json:"idempotency_key"`
	AmountMoney    squareMoney `json:"amount_money"`
	LocationID     string      `json:"location_id"`
	Note           string      `json:"note,omitempty"`
	BuyerEmail     string      `json:"buyer_email_address,omitempty"`
}

type squareChargeResp struct {
	Payment struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		ReceiptURL string `json:"receipt_url"`
	} `json:"payment"`
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (p *SquareProcessor) CreateCharge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	body, _ := json.Marshal(squareChargeReq{
		SourceID:       params.SourceToken,
		IdempotencyKey: params.IdempotencyKey,
		AmountMoney:    squareMoney{Amount: params.AmountCents, Currency: "USD"},
		LocationID:     p.LocationID,
		Note:           params.Note,
		BuyerEmail:     params.BuyerEmail,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v2/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.AccessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)

	var out squareChargeResp
	if err := json.Unmarshal(respBody, &out); err != nil && resp.StatusCode == http.StatusOK {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		detail := "payment error"
		if len(out.Errors) > 0 && out.Errors[0].Detail != "" {
			detail = out.Errors[0].Detail
		}
		log.Printf("[Square] charge rejected status=%d detail=%q key=%s", resp.StatusCode, detail, params.IdempotencyKey)
		return nil, &ProcessorError{StatusCode: resp.StatusCode, Detail: detail}
	}
	if out.Payment.ID == "" {
		return nil, fmt.Errorf("square: malformed payment response")
	}
	return &ChargeResult{
		ProviderRef: out.Payment.ID,
		Status:      out.Payment.Status,
		ReceiptURL:  out.Payment.ReceiptURL,
	}, nil
}
