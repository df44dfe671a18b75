package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/wholesale-trade/internal/domain"
)

const dateOnly = "2006-01-02"

// ParseDateRange interpreta start y end como YYYY-MM-DD o RFC 3339. Una fecha final
// sin hora incluye el día completo.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, _, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	to, bare, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
	}
	if bare {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date anterior a start_date: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
}
