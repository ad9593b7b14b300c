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

// HostedFieldsSDK drives a Square-style hosted tokenizer over its REST API:
// a capability probe per wallet/channel and a token-creation call. One
// instance per channel.
type HostedFieldsSDK struct {
	BaseURL    string
	AppID      string
	LocationID string
	Channel    string
	client     *http.Client

	node string
}

func NewHostedFieldsSDK(baseURL, appID, locationID, channel string) *HostedFieldsSDK {
	return &HostedFieldsSDK{
		BaseURL:    baseURL,
		AppID:      appID,
		LocationID: locationID,
		Channel:    channel,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type capabilityResp struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}

func (s *HostedFieldsSDK) Probe(ctx context.Context, totalCents int64) (bool, error) {
	if s.AppID == "" || s.LocationID == "" {
		return false, fmt.Errorf("hostedfields: missing app or location id")
	}
	url := fmt.Sprintf("%s/v2/capabilities/%s?location_id=%s&amount=%d", s.BaseURL, s.Channel, s.LocationID, totalCents)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("X-App-Id", s.AppID)
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	var out capabilityResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Eligible, nil
}

// Attach records the mount point for the channel's affordance. The hosted
// tokenizer renders remotely, so there is no remote call to make here.
func (s *HostedFieldsSDK) Attach(node string) error {
	if node == "" {
		return fmt.Errorf("hostedfields: empty mount node for %s", s.Channel)
	}
	s.node = node
	return nil
}

type tokenReq struct {
	Channel      string `json:"channel"`
	LocationID   string `json:"location_id"`
	AmountCents  int64  `json:"amount_cents"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type tokenResp struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Detail string `json:"detail"`
}

func (s *HostedFieldsSDK) Tokenize(ctx context.Context, totalCents int64) (*TokenizeResult, error) {
	return s.tokenize(ctx, totalCents, "")
}

func (s *HostedFieldsSDK) tokenize(ctx context.Context, totalCents int64, clientSecret string) (*TokenizeResult, error) {
	body, _ := json.Marshal(tokenReq{
		Channel:      s.Channel,
		LocationID:   s.LocationID,
		AmountCents:  totalCents,
		ClientSecret: clientSecret,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v2/tokens", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Id", s.AppID)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[HostedFields] tokenize %s failed status=%d body=%s", s.Channel, resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("hostedfields: tokenize %s: %d", s.Channel, resp.StatusCode)
	}
	var out tokenResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.Status == string(TokenizeCanceled) {
		return &TokenizeResult{Status: TokenizeCanceled, Detail: out.Detail}, nil
	}
	if out.Status != string(TokenizeOK) || out.Token == "" {
		return nil, fmt.Errorf("hostedfields: tokenize %s: %s", s.Channel, out.Detail)
	}
	return &TokenizeResult{Status: TokenizeOK, Token: out.Token}, nil
}

func (s *HostedFieldsSDK) Detach() {
	s.node = ""
}

// ACHDebitSDK is the hosted tokenizer's bank-debit flow. The provider holds
// a server-side payment context for it, so tokenization needs the current
// client secret for the session's total.
type ACHDebitSDK struct {
	*HostedFieldsSDK
	clientSecret string
}

func NewACHDebitSDK(baseURL, appID, locationID string) *ACHDebitSDK {
	return &ACHDebitSDK{HostedFieldsSDK: NewHostedFieldsSDK(baseURL, appID, locationID, "bankdebit")}
}

func (s *ACHDebitSDK) SetClientSecret(secret string) {
	s.clientSecret = secret
}

func (s *ACHDebitSDK) Tokenize(ctx context.Context, totalCents int64) (*TokenizeResult, error) {
	if s.clientSecret == "" {
		return nil, fmt.Errorf("achdebit: no payment context for tokenize")
	}
	return s.tokenize(ctx, totalCents, s.clientSecret)
}

func (s *ACHDebitSDK) Detach() {
	s.clientSecret = ""
	s.HostedFieldsSDK.Detach()
}

