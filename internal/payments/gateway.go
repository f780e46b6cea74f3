package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/barberia-pro/platform/pkg/logging"
)

// Gateway opens PIX charges with a payment provider. Core logic depends only
// on this interface; tests use the fake.
type Gateway interface {
	CreateCharge(ctx context.Context, req CreateChargeRequest) (*Charge, error)
}

// HTTPGateway talks to a hosted PIX provider.
type HTTPGateway struct {
	baseURL   string
	apiKey    string
	pixKey    string
	merchant  string
	city      string
	chargeTTL time.Duration
	client    *http.Client
	logger    *logging.Logger
}

// HTTPGatewayConfig configures the provider client.
type HTTPGatewayConfig struct {
	BaseURL      string
	APIKey       string
	PixKey       string
	MerchantName string
	MerchantCity string
	ChargeTTL    time.Duration
	Client       *http.Client
	Logger       *logging.Logger
}

// NewHTTPGateway builds the provider client.
func NewHTTPGateway(cfg HTTPGatewayConfig) *HTTPGateway {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.ChargeTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &HTTPGateway{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		pixKey:    cfg.PixKey,
		merchant:  cfg.MerchantName,
		city:      cfg.MerchantCity,
		chargeTTL: ttl,
		client:    client,
		logger:    logger,
	}
}

type providerChargeRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	CustomerRef string `json:"customer_ref"`
	ExpiresIn   int64  `json:"expires_in_seconds"`
}

type providerChargeResponse struct {
	ID   string `json:"id"`
	TxID string `json:"txid"`
}

// CreateCharge registers the charge with the provider and builds the BR Code
// locally from the returned transaction id.
func (g *HTTPGateway) CreateCharge(ctx context.Context, req CreateChargeRequest) (*Charge, error) {
	body, err := json.Marshal(providerChargeRequest{
		AmountCents: req.AmountCents,
		Description: req.Description,
		CustomerRef: req.CustomerRef,
		ExpiresIn:   int64(g.chargeTTL.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("payments: encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("payments: build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payments: provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payments: provider returned status %d", resp.StatusCode)
	}

	var provider providerChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&provider); err != nil {
		return nil, fmt.Errorf("payments: decode provider response: %w", err)
	}
	if provider.ID == "" {
		return nil, fmt.Errorf("payments: provider response missing charge id")
	}

	now := time.Now().UTC()
	return &Charge{
		ID:          provider.ID,
		AmountCents: req.AmountCents,
		Description: req.Description,
		BRCode: BRCode(BRCodeParams{
			PixKey:       g.pixKey,
			MerchantName: g.merchant,
			MerchantCity: g.city,
			AmountCents:  req.AmountCents,
			TxID:         provider.TxID,
		}),
		Status:        ChargePending,
		CustomerRef:   req.CustomerRef,
		AppointmentID: req.AppointmentID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(g.chargeTTL),
	}, nil
}

// FakeGateway is a deterministic in-memory gateway for tests and local runs.
type FakeGateway struct {
	mu      sync.Mutex
	seq     int
	Charges []*Charge
	Err     error
}

// NewFakeGateway returns an empty fake.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{}
}

// CreateCharge returns sequential charge ids so assertions stay stable.
func (g *FakeGateway) CreateCharge(_ context.Context, req CreateChargeRequest) (*Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Err != nil {
		return nil, g.Err
	}
	g.seq++
	now := time.Now().UTC()
	charge := &Charge{
		ID:          fmt.Sprintf("pix_%06d", g.seq),
		AmountCents: req.AmountCents,
		Description: req.Description,
		BRCode: BRCode(BRCodeParams{
			PixKey:       "pagamentos@barberia-pro.com",
			MerchantName: "BARBERIA PRO LTDA",
			MerchantCity: "SAO PAULO",
			AmountCents:  req.AmountCents,
			TxID:         fmt.Sprintf("tx%06d", g.seq),
		}),
		Status:        ChargePending,
		CustomerRef:   req.CustomerRef,
		AppointmentID: req.AppointmentID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(30 * time.Minute),
	}
	g.Charges = append(g.Charges, charge)
	return charge, nil
}
