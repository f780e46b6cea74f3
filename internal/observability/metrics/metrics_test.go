package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObservePixCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)

	m.ObservePix("confirmed")
	m.ObservePix("confirmed")
	m.ObservePix("ignored")

	if got := testutil.ToFloat64(m.pixTotal.WithLabelValues("confirmed")); got != 2 {
		t.Fatalf("expected 2 confirmed deliveries, got %v", got)
	}
	if got := testutil.ToFloat64(m.pixTotal.WithLabelValues("ignored")); got != 1 {
		t.Fatalf("expected 1 ignored delivery, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *WebhookMetrics
	m.ObservePix("confirmed")
	m.ObserveWhatsApp("messages", "ok")
	m.ObserveNotification("payment_confirmation", "sent")
	m.ObserveLatency("pix", 0.1)
}
