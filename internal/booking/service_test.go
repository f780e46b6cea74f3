package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubSubmitStore struct {
	created   []*Appointment
	createErr error
	pixSet    map[uuid.UUID]string
	pixErr    error
	cancelled []uuid.UUID
}

func newStubSubmitStore() *stubSubmitStore {
	return &stubSubmitStore{pixSet: map[uuid.UUID]string{}}
}

func (s *stubSubmitStore) Create(_ context.Context, appt *Appointment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, appt)
	return nil
}

func (s *stubSubmitStore) SetPixPayment(_ context.Context, id uuid.UUID, pixPaymentID string) error {
	if s.pixErr != nil {
		return s.pixErr
	}
	s.pixSet[id] = pixPaymentID
	return nil
}

func (s *stubSubmitStore) CancelIfScheduled(_ context.Context, id uuid.UUID) (bool, error) {
	s.cancelled = append(s.cancelled, id)
	return true, nil
}

type stubOpener struct {
	chargeID string
	brCode   string
	err      error
	calls    int
}

func (s *stubOpener) OpenCharge(_ context.Context, _ *Appointment) (string, string, error) {
	s.calls++
	if s.err != nil {
		return "", "", s.err
	}
	return s.chargeID, s.brCode, nil
}

type stubConfirmNotifier struct {
	calls int
	err   error
}

func (s *stubConfirmNotifier) AppointmentConfirmed(context.Context, *Appointment, string) error {
	s.calls++
	return s.err
}

type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) Invalidate(context.Context, uuid.UUID, uuid.UUID, string) {
	s.calls++
}

func submittableWizard() Wizard {
	barber := Barber{ID: uuid.New(), Name: "Carlos"}
	services := []Service{{ID: uuid.New(), Name: "Corte", PriceCents: 2500, DurationMinutes: 30}}
	return NewWizard().
		SelectBarber(barber).Advance().
		SelectServices(services).Advance().
		SelectDate("2026-09-15").SelectTime("14:30").Advance().
		WithClient("João Silva", "5511999990000", "")
}

func TestSubmitCreatesAppointmentWithCharge(t *testing.T) {
	store := newStubSubmitStore()
	opener := &stubOpener{chargeID: "pix_000001", brCode: "br-code"}
	notifier := &stubConfirmNotifier{}
	invalidator := &stubInvalidator{}
	m := NewManager(ManagerConfig{Store: store, Charges: opener, Notifier: notifier, Slots: invalidator})

	shopID := uuid.New()
	result, err := m.Submit(context.Background(), shopID, submittableWizard())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	appt := result.Appointment
	if appt.Status != StatusScheduled || appt.TotalCents != 2500 {
		t.Fatalf("unexpected appointment %+v", appt)
	}
	if appt.PixPaymentID != "pix_000001" || result.BRCode != "br-code" {
		t.Fatalf("charge not attached: %+v", result)
	}
	if store.pixSet[appt.ID] != "pix_000001" {
		t.Fatal("pix payment id not persisted")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one confirmation, got %d", notifier.calls)
	}
	if invalidator.calls != 1 {
		t.Fatalf("expected one slot invalidation, got %d", invalidator.calls)
	}
}

func TestSubmitIncompleteDraft(t *testing.T) {
	m := NewManager(ManagerConfig{Store: newStubSubmitStore()})

	_, err := m.Submit(context.Background(), uuid.New(), NewWizard())
	if !errors.Is(err, ErrIncompleteDraft) {
		t.Fatalf("expected ErrIncompleteDraft, got %v", err)
	}
}

func TestSubmitSlotTakenSurfaces(t *testing.T) {
	store := newStubSubmitStore()
	store.createErr = ErrSlotTaken
	m := NewManager(ManagerConfig{Store: store})

	_, err := m.Submit(context.Background(), uuid.New(), submittableWizard())
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestSubmitChargeFailureReleasesSlot(t *testing.T) {
	store := newStubSubmitStore()
	opener := &stubOpener{err: errors.New("provider down")}
	notifier := &stubConfirmNotifier{}
	m := NewManager(ManagerConfig{Store: store, Charges: opener, Notifier: notifier})

	_, err := m.Submit(context.Background(), uuid.New(), submittableWizard())
	if err == nil {
		t.Fatal("expected error when charge fails")
	}
	if len(store.created) != 1 || len(store.cancelled) != 1 {
		t.Fatalf("expected create then cancel, got created=%d cancelled=%d", len(store.created), len(store.cancelled))
	}
	if store.cancelled[0] != store.created[0].ID {
		t.Fatal("cancelled a different appointment")
	}
	if notifier.calls != 0 {
		t.Fatal("no notification should go out for a failed booking")
	}
}

func TestSubmitPixAttachFailureReleasesSlot(t *testing.T) {
	store := newStubSubmitStore()
	store.pixErr = errors.New("db down")
	opener := &stubOpener{chargeID: "pix_000001", brCode: "code"}
	m := NewManager(ManagerConfig{Store: store, Charges: opener})

	_, err := m.Submit(context.Background(), uuid.New(), submittableWizard())
	if err == nil {
		t.Fatal("expected error when pix attach fails")
	}
	if len(store.cancelled) != 1 {
		t.Fatalf("expected slot release, cancelled=%d", len(store.cancelled))
	}
}

func TestSubmitCashSkipsCharge(t *testing.T) {
	store := newStubSubmitStore()
	opener := &stubOpener{chargeID: "pix_000001", brCode: "code"}
	m := NewManager(ManagerConfig{Store: store, Charges: opener})

	wizard := submittableWizard().WithPaymentMethod(PaymentCash)
	result, err := m.Submit(context.Background(), uuid.New(), wizard)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if opener.calls != 0 {
		t.Fatalf("cash booking opened a charge")
	}
	if result.BRCode != "" || result.Appointment.PixPaymentID != "" {
		t.Fatalf("cash booking carries pix data: %+v", result)
	}
}

func TestSubmitNotifierFailureDoesNotFailBooking(t *testing.T) {
	store := newStubSubmitStore()
	notifier := &stubConfirmNotifier{err: errors.New("whatsapp down")}
	m := NewManager(ManagerConfig{Store: store, Notifier: notifier})

	wizard := submittableWizard().WithPaymentMethod(PaymentCash)
	if _, err := m.Submit(context.Background(), uuid.New(), wizard); err != nil {
		t.Fatalf("notification failure must not fail the booking: %v", err)
	}
}
