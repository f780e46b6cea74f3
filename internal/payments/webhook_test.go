package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/barberia-pro/platform/internal/booking"
	"github.com/barberia-pro/platform/pkg/logging"
)

type stubChargeStore struct {
	marked bool
	err    error
}

func (s *stubChargeStore) MarkPaidIfPending(context.Context, string, time.Time) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.marked = true
	return true, nil
}

type stubAppointmentStore struct {
	appt      *booking.Appointment
	getErr    error
	confirmed int
	changed   bool
}

func (s *stubAppointmentStore) GetByPixPaymentID(context.Context, string) (*booking.Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.appt, nil
}

func (s *stubAppointmentStore) ConfirmIfScheduled(context.Context, uuid.UUID) (bool, error) {
	s.confirmed++
	return s.changed, nil
}

type stubProcessed struct {
	already bool
	marked  []string
}

func (s *stubProcessed) AlreadyProcessed(context.Context, string, string) (bool, error) {
	return s.already, nil
}

func (s *stubProcessed) MarkProcessed(_ context.Context, _ string, eventID string) (bool, error) {
	s.marked = append(s.marked, eventID)
	return true, nil
}

type stubNotifier struct {
	sent []int64
	err  error
}

func (s *stubNotifier) PaymentConfirmed(_ context.Context, _ *booking.Appointment, amountCents int64) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, amountCents)
	return nil
}

func newPixHandler(charges *stubChargeStore, appts *stubAppointmentStore, processed *stubProcessed, notifier *stubNotifier) *WebhookHandler {
	return NewWebhookHandler(WebhookConfig{
		Charges:      charges,
		Appointments: appts,
		Processed:    processed,
		Notifier:     notifier,
		Logger:       logging.Default(),
	})
}

func pixPayload(t *testing.T, id, pixID, status string, amount float64) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":            id,
		"pixId":         pixID,
		"status":        status,
		"amount":        amount,
		"paidAt":        time.Now().UTC().Format(time.RFC3339),
		"payerDocument": "123.456.789-00",
		"payerName":     "João Silva",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return body
}

func postPix(t *testing.T, h *WebhookHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/pix", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func TestPixWebhookConfirmsAndNotifiesOnce(t *testing.T) {
	appt := &booking.Appointment{
		ID:           uuid.New(),
		ClientName:   "João Silva",
		ClientPhone:  "+5511999990000",
		Status:       booking.StatusScheduled,
		TotalCents:   4500,
		PixPaymentID: "pix_001",
	}
	charges := &stubChargeStore{}
	appts := &stubAppointmentStore{appt: appt, changed: true}
	processed := &stubProcessed{}
	notifier := &stubNotifier{}

	rr := postPix(t, newPixHandler(charges, appts, processed, notifier),
		pixPayload(t, "evt-1", "pix_001", "paid", 45.0))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || !resp["success"] {
		t.Fatalf("expected success response, got %s", rr.Body.String())
	}
	if !charges.marked {
		t.Fatal("expected charge marked paid")
	}
	if appts.confirmed != 1 {
		t.Fatalf("expected one confirm attempt, got %d", appts.confirmed)
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != 4500 {
		t.Fatalf("expected one notification for 4500 cents, got %v", notifier.sent)
	}
	if len(processed.marked) != 1 || processed.marked[0] != "evt-1" {
		t.Fatalf("expected event marked processed, got %v", processed.marked)
	}
}

func TestPixWebhookRedeliveryIsIdempotent(t *testing.T) {
	appts := &stubAppointmentStore{appt: &booking.Appointment{ID: uuid.New()}, changed: true}
	processed := &stubProcessed{already: true}
	notifier := &stubNotifier{}

	rr := postPix(t, newPixHandler(&stubChargeStore{}, appts, processed, notifier),
		pixPayload(t, "evt-1", "pix_001", "paid", 45.0))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", rr.Code)
	}
	if appts.confirmed != 0 {
		t.Fatal("duplicate delivery must not touch the appointment")
	}
	if len(notifier.sent) != 0 {
		t.Fatal("duplicate delivery must not notify again")
	}
}

func TestPixWebhookConcurrentConfirmLosesQuietly(t *testing.T) {
	// The conditional update reports no change: another delivery already
	// confirmed. No second notification goes out.
	appts := &stubAppointmentStore{appt: &booking.Appointment{ID: uuid.New()}, changed: false}
	notifier := &stubNotifier{}

	rr := postPix(t, newPixHandler(&stubChargeStore{}, appts, &stubProcessed{}, notifier),
		pixPayload(t, "evt-2", "pix_001", "paid", 45.0))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(notifier.sent) != 0 {
		t.Fatal("no notification when the confirm was a no-op")
	}
}

func TestPixWebhookUnknownPaymentIsSuccessNoop(t *testing.T) {
	appts := &stubAppointmentStore{getErr: booking.ErrNotFound}
	notifier := &stubNotifier{}

	rr := postPix(t, newPixHandler(&stubChargeStore{}, appts, &stubProcessed{}, notifier),
		pixPayload(t, "evt-3", "pix_unknown", "paid", 45.0))

	if rr.Code != http.StatusOK {
		t.Fatalf("unknown payment must still return 200, got %d", rr.Code)
	}
	if len(notifier.sent) != 0 {
		t.Fatal("no notification for unknown payment")
	}
}

func TestPixWebhookNonPaidStatusIgnored(t *testing.T) {
	charges := &stubChargeStore{}
	appts := &stubAppointmentStore{appt: &booking.Appointment{ID: uuid.New()}, changed: true}

	rr := postPix(t, newPixHandler(charges, appts, &stubProcessed{}, &stubNotifier{}),
		pixPayload(t, "evt-4", "pix_001", "cancelled", 45.0))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if charges.marked || appts.confirmed != 0 {
		t.Fatal("non-paid status must not mutate anything")
	}
}

func TestPixWebhookMalformedPayload(t *testing.T) {
	h := newPixHandler(&stubChargeStore{}, &stubAppointmentStore{}, &stubProcessed{}, &stubNotifier{})

	rr := postPix(t, h, []byte("{not json"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed body should be 400, got %d", rr.Code)
	}

	rr = postPix(t, h, []byte(`{"status":"paid"}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing pixId should be 400, got %d", rr.Code)
	}
}

func TestPixWebhookNotifyFailureStillSucceeds(t *testing.T) {
	appts := &stubAppointmentStore{appt: &booking.Appointment{ID: uuid.New(), TotalCents: 4000}, changed: true}
	notifier := &stubNotifier{err: context.DeadlineExceeded}
	processed := &stubProcessed{}

	rr := postPix(t, newPixHandler(&stubChargeStore{}, appts, processed, notifier),
		pixPayload(t, "evt-5", "pix_001", "paid", 40.0))

	if rr.Code != http.StatusOK {
		t.Fatalf("notification failure must not fail the webhook, got %d", rr.Code)
	}
	if len(processed.marked) != 1 {
		t.Fatal("event should still be marked processed")
	}
}

func TestPixWebhookFallsBackToAppointmentTotal(t *testing.T) {
	appts := &stubAppointmentStore{appt: &booking.Appointment{ID: uuid.New(), TotalCents: 4000}, changed: true}
	notifier := &stubNotifier{}

	postPix(t, newPixHandler(&stubChargeStore{}, appts, &stubProcessed{}, notifier),
		pixPayload(t, "evt-6", "pix_001", "paid", 0))

	if len(notifier.sent) != 1 || notifier.sent[0] != 4000 {
		t.Fatalf("zero webhook amount should fall back to the appointment total, got %v", notifier.sent)
	}
}
