package booking

// Step is one of the four ordered wizard states.
type Step int

const (
	StepBarber Step = iota + 1
	StepServices
	StepDateTime
	StepConfirm
)

// Draft holds the in-progress selection. Fields become non-zero only through
// the Select* transitions.
type Draft struct {
	Barber        *Barber
	Services      []Service
	Date          string
	Time          string
	ClientName    string
	ClientPhone   string
	Notes         string
	PaymentMethod PaymentMethod
}

// Wizard is a value-type state machine; every transition returns a new Wizard
// so the transition table stays unit-testable without a UI.
type Wizard struct {
	Step  Step
	Draft Draft
}

// NewWizard starts at barber selection with an empty draft and PIX as the
// default payment method.
func NewWizard() Wizard {
	return Wizard{Step: StepBarber, Draft: Draft{PaymentMethod: PaymentPix}}
}

// CanAdvance reports whether the current step's completion predicate holds.
func (w Wizard) CanAdvance() bool {
	switch w.Step {
	case StepBarber:
		return w.Draft.Barber != nil
	case StepServices:
		return len(w.Draft.Services) > 0
	case StepDateTime:
		return w.Draft.Date != "" && w.Draft.Time != ""
	default:
		return false
	}
}

// Advance moves forward one step when allowed, clamped at confirmation.
func (w Wizard) Advance() Wizard {
	if !w.CanAdvance() || w.Step >= StepConfirm {
		return w
	}
	w.Step++
	return w
}

// Retreat moves back one step unconditionally, clamped at barber selection.
func (w Wizard) Retreat() Wizard {
	if w.Step > StepBarber {
		w.Step--
	}
	return w
}

// SelectBarber records the chosen barber.
func (w Wizard) SelectBarber(b Barber) Wizard {
	w.Draft.Barber = &b
	return w
}

// SelectServices replaces the selected service set.
func (w Wizard) SelectServices(services []Service) Wizard {
	w.Draft.Services = services
	return w
}

// SelectDate records the chosen date. Picking a different date than the one a
// time was already chosen for clears that time; re-picking the same date
// leaves it untouched.
func (w Wizard) SelectDate(date string) Wizard {
	if w.Draft.Time != "" && w.Draft.Date != date {
		w.Draft.Time = ""
	}
	w.Draft.Date = date
	return w
}

// SelectTime records the chosen time slot. A time without a date is never a
// complete selection, so the call is ignored until a date is set.
func (w Wizard) SelectTime(slot string) Wizard {
	if w.Draft.Date == "" {
		return w
	}
	w.Draft.Time = slot
	return w
}

// WithClient fills the contact fields collected on the confirmation step.
func (w Wizard) WithClient(name, phone, notes string) Wizard {
	w.Draft.ClientName = name
	w.Draft.ClientPhone = phone
	w.Draft.Notes = notes
	return w
}

// WithPaymentMethod selects pix or cash.
func (w Wizard) WithPaymentMethod(method PaymentMethod) Wizard {
	w.Draft.PaymentMethod = method
	return w
}

// TotalPriceCents sums the selected services' prices. Recomputed on every
// call so it can never go stale after an add or remove.
func (w Wizard) TotalPriceCents() int64 {
	var total int64
	for _, s := range w.Draft.Services {
		total += s.PriceCents
	}
	return total
}

// TotalDurationMinutes sums the selected services' durations.
func (w Wizard) TotalDurationMinutes() int {
	var total int
	for _, s := range w.Draft.Services {
		total += s.DurationMinutes
	}
	return total
}

// CanSubmit reports whether the confirmation step may fire: every prior step
// complete plus non-empty client name and phone.
func (w Wizard) CanSubmit() bool {
	return w.Step == StepConfirm &&
		w.Draft.Barber != nil &&
		len(w.Draft.Services) > 0 &&
		w.Draft.Date != "" && w.Draft.Time != "" &&
		w.Draft.ClientName != "" && w.Draft.ClientPhone != ""
}
