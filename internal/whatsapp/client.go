package whatsapp

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

// Client sends outbound WhatsApp messages. Handlers depend on this interface
// only; tests use the recording fake.
type Client interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// CloudClient talks to the WhatsApp Business Cloud API.
type CloudClient struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	client        *http.Client
	logger        *logging.Logger
}

// CloudClientConfig configures the Cloud API client.
type CloudClientConfig struct {
	BaseURL       string
	PhoneNumberID string
	AccessToken   string
	Client        *http.Client
	Logger        *logging.Logger
}

// NewCloudClient builds the Cloud API client.
func NewCloudClient(cfg CloudClientConfig) *CloudClient {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &CloudClient{
		baseURL:       cfg.BaseURL,
		phoneNumberID: cfg.PhoneNumberID,
		accessToken:   cfg.AccessToken,
		client:        client,
		logger:        logger,
	}
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendTextResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText posts a text message and returns the provider message id.
func (c *CloudClient) SendText(ctx context.Context, to, body string) (string, error) {
	payload, err := json.Marshal(sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	})
	if err != nil {
		return "", fmt.Errorf("whatsapp: encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: send failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("whatsapp: api returned status %d", resp.StatusCode)
	}

	var decoded sendTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if len(decoded.Messages) == 0 {
		return "", fmt.Errorf("whatsapp: response missing message id")
	}
	return decoded.Messages[0].ID, nil
}

// SentMessage is one message captured by the fake client.
type SentMessage struct {
	To   string
	Body string
}

// FakeClient records outbound messages for assertions.
type FakeClient struct {
	mu   sync.Mutex
	seq  int
	Sent []SentMessage
	Err  error
}

// NewFakeClient returns an empty fake.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

// SendText records the message and returns a deterministic id.
func (c *FakeClient) SendText(_ context.Context, to, body string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	c.seq++
	c.Sent = append(c.Sent, SentMessage{To: to, Body: body})
	return fmt.Sprintf("wamid.%06d", c.seq), nil
}
