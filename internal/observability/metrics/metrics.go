package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for the PIX and WhatsApp
// webhook endpoints.
type WebhookMetrics struct {
	pixTotal       *prometheus.CounterVec
	whatsappTotal  *prometheus.CounterVec
	notifyTotal    *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		pixTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberia",
			Subsystem: "webhooks",
			Name:      "pix_total",
			Help:      "Total PIX webhook deliveries",
		}, []string{"status"}),
		whatsappTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberia",
			Subsystem: "webhooks",
			Name:      "whatsapp_total",
			Help:      "Total WhatsApp webhook deliveries",
		}, []string{"event_type", "status"}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberia",
			Subsystem: "notify",
			Name:      "outbound_total",
			Help:      "Total outbound WhatsApp notifications",
		}, []string{"template", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barberia",
			Subsystem: "webhooks",
			Name:      "latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"webhook"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.pixTotal, m.whatsappTotal, m.notifyTotal, m.webhookLatency)
	return m
}

func (m *WebhookMetrics) ObservePix(status string) {
	if m == nil {
		return
	}
	m.pixTotal.WithLabelValues(status).Inc()
}

func (m *WebhookMetrics) ObserveWhatsApp(eventType, status string) {
	if m == nil {
		return
	}
	m.whatsappTotal.WithLabelValues(eventType, status).Inc()
}

func (m *WebhookMetrics) ObserveNotification(template, status string) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(template, status).Inc()
}

func (m *WebhookMetrics) ObserveLatency(webhook string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(webhook).Observe(seconds)
}
