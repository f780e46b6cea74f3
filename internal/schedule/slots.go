package schedule

import "fmt"

// Generate returns the ordered sequence of HH:MM slot labels covering
// [openHour:00, closeHour:00) stepping by intervalMinutes. Hours outside a
// sensible range or a non-positive interval yield an empty sequence rather
// than looping forever.
func Generate(openHour, closeHour, intervalMinutes int) []string {
	if openHour >= closeHour || intervalMinutes <= 0 {
		return nil
	}

	var slots []string
	for hour := openHour; hour < closeHour; hour++ {
		for minute := 0; minute < 60; minute += intervalMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// Available filters slots down to those not present in blocked, preserving
// the generated order.
func Available(slots []string, blocked map[string]struct{}) []string {
	available := make([]string, 0, len(slots))
	for _, slot := range slots {
		if _, taken := blocked[slot]; !taken {
			available = append(available, slot)
		}
	}
	return available
}

// BlockedSet builds a lookup set from a list of slot labels.
func BlockedSet(slots []string) map[string]struct{} {
	set := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		set[slot] = struct{}{}
	}
	return set
}
