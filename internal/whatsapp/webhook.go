package whatsapp

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	observemetrics "github.com/barberia-pro/platform/internal/observability/metrics"
	"github.com/barberia-pro/platform/pkg/logging"
)

// WebhookHandler serves the Meta webhook endpoint: the GET verification
// handshake and POST event ingestion.
type WebhookHandler struct {
	verifyToken string
	client      Client
	autoReply   string
	trigger     string
	metrics     *observemetrics.WebhookMetrics
	logger      *logging.Logger
}

// WebhookConfig wires the handler.
type WebhookConfig struct {
	VerifyToken string
	Client      Client
	AutoReply   string
	Trigger     string
	Metrics     *observemetrics.WebhookMetrics
	Logger      *logging.Logger
}

// NewWebhookHandler builds the WhatsApp webhook handler.
func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	trigger := cfg.Trigger
	if trigger == "" {
		trigger = "agendar"
	}
	return &WebhookHandler{
		verifyToken: cfg.VerifyToken,
		client:      cfg.Client,
		autoReply:   cfg.AutoReply,
		trigger:     strings.ToLower(trigger),
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// Verify answers the subscription handshake: echo the challenge when the
// presented token matches the configured secret. Plain equality is enough
// here; the token only gates webhook registration, not the payment path.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	mode := params.Get("hub.mode")
	token := params.Get("hub.verify_token")
	challenge := params.Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("whatsapp webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// The provider envelope. Absent arrays anywhere in the nesting are treated as
// empty, never as errors.
type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Field string      `json:"field"`
			Value changeValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type changeValue struct {
	Messages []inboundMessage `json:"messages"`
	Statuses []statusUpdate   `json:"statuses"`
}

type inboundMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
}

type statusUpdate struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Receive processes POST deliveries: inbound messages and delivery-status
// updates multiplexed on one endpoint.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var envelope webhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		h.logger.Warn("malformed whatsapp webhook payload", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			switch change.Field {
			case "messages":
				h.handleMessages(r, change.Value.Messages)
			case "message_status":
				h.handleStatuses(change.Value.Statuses)
			default:
				h.logger.Debug("whatsapp change ignored", "field", change.Field)
			}
		}
	}

	h.metrics.ObserveLatency("whatsapp", time.Since(start).Seconds())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *WebhookHandler) handleMessages(r *http.Request, messages []inboundMessage) {
	for _, msg := range messages {
		var body string
		if msg.Text != nil {
			body = msg.Text.Body
		}
		h.logger.Info("whatsapp message received", "from", msg.From, "message_id", msg.ID)

		if body == "" || !strings.Contains(strings.ToLower(body), h.trigger) {
			h.metrics.ObserveWhatsApp("messages", "no_trigger")
			continue
		}
		if h.client == nil {
			h.metrics.ObserveWhatsApp("messages", "no_client")
			continue
		}
		if _, err := h.client.SendText(r.Context(), msg.From, h.autoReply); err != nil {
			h.logger.Error("auto-reply failed", "error", err, "to", msg.From)
			h.metrics.ObserveWhatsApp("messages", "reply_failed")
			continue
		}
		h.metrics.ObserveWhatsApp("messages", "replied")
	}
}

func (h *WebhookHandler) handleStatuses(statuses []statusUpdate) {
	// Status updates are logged only; no state mutation.
	for _, status := range statuses {
		h.logger.Info("whatsapp delivery status", "message_id", status.ID, "status", status.Status)
		h.metrics.ObserveWhatsApp("message_status", status.Status)
	}
}
