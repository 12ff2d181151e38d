package paystack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Paystack API endpoint
const DefaultBaseURL = "https://api.paystack.co"

// Client talks to the Paystack transaction API
type Client struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// Config holds configuration for the Paystack client
type Config struct {
	SecretKey string
	BaseURL   string // Optional: defaults to the production endpoint
}

// NewClient creates a new Paystack API client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		secretKey: config.SecretKey,
		baseURL:   baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// InitializeRequest represents a transaction initialization request.
// Amount is in the currency's minor unit (pesewas for GHS).
type InitializeRequest struct {
	Email       string                 `json:"email"`
	Amount      int64                  `json:"amount"`
	Currency    string                 `json:"currency,omitempty"`
	Reference   string                 `json:"reference,omitempty"`
	CallbackURL string                 `json:"callback_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// InitializeData is the payload of a successful initialization
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// InitializeResponse represents the initialization response envelope
type InitializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

// VerifyData is the transaction record returned by verification
type VerifyData struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"` // success, failed, abandoned
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
	Channel         string `json:"channel"`
	Customer        struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// VerifyResponse represents the verification response envelope
type VerifyResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}

// InitializeTransaction creates a pending transaction and returns the hosted
// checkout URL the customer should be redirected to.
func (c *Client) InitializeTransaction(initReq InitializeRequest) (*InitializeData, error) {
	jsonData, err := json.Marshal(initReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	url := fmt.Sprintf("%s/transaction/initialize", c.baseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create initialize request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.secretKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send initialize request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read initialize response: %w", err)
	}

	var initResp InitializeResponse
	if err := json.Unmarshal(body, &initResp); err != nil {
		return nil, fmt.Errorf("failed to parse initialize response: %w", err)
	}

	if !initResp.Status {
		return nil, fmt.Errorf("transaction initialization failed: %s", initResp.Message)
	}

	return &initResp.Data, nil
}

// VerifyTransaction fetches the settled state of a transaction by reference
func (c *Client) VerifyTransaction(reference string) (*VerifyData, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.secretKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send verify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read verify response: %w", err)
	}

	var verifyResp VerifyResponse
	if err := json.Unmarshal(body, &verifyResp); err != nil {
		return nil, fmt.Errorf("failed to parse verify response: %w", err)
	}

	if !verifyResp.Status {
		return nil, fmt.Errorf("transaction verification failed: %s", verifyResp.Message)
	}

	return &verifyResp.Data, nil
}
