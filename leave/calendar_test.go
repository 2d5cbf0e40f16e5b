package leave

import (
	"testing"
	"time"
)

func TestBusinessDaysBetween_MondayToFriday(t *testing.T) {
	// GIVEN: Mon Apr 14 2025 through Fri Apr 18 2025
	// WHEN: Counting business days
	// THEN: 4 (departure day excluded, return day included)

	from := NewDate(2025, time.April, 14)
	ret := NewDate(2025, time.April, 18)

	if got := BusinessDaysBetween(from, ret); got != 4 {
		t.Errorf("expected 4 business days Mon-Fri, got %d", got)
	}
}

func TestBusinessDaysBetween_SameDay(t *testing.T) {
	// Same-day spans count zero; the lifecycle forces those to one.
	d := NewDate(2025, time.April, 14)
	if got := BusinessDaysBetween(d, d); got != 0 {
		t.Errorf("expected 0 for same-day span, got %d", got)
	}
}

func TestBusinessDaysBetween_WeekendExcluded(t *testing.T) {
	// GIVEN: Fri Apr 11 2025 through Mon Apr 14 2025
	// WHEN: Counting business days
	// THEN: 1 (Saturday and Sunday are skipped, Monday counts)

	from := NewDate(2025, time.April, 11)
	ret := NewDate(2025, time.April, 14)

	if got := BusinessDaysBetween(from, ret); got != 1 {
		t.Errorf("expected 1 business day Fri-Mon, got %d", got)
	}
}

func TestBusinessDaysBetween_ReturnBeforeFrom(t *testing.T) {
	from := NewDate(2025, time.April, 18)
	ret := NewDate(2025, time.April, 14)

	if got := BusinessDaysBetween(from, ret); got != 0 {
		t.Errorf("expected 0 for inverted span, got %d", got)
	}
}

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := ParseDate("2025-04-14")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2025-04-14" {
		t.Errorf("round trip mismatch: %s", d)
	}
	if !d.IsWorkday() {
		t.Errorf("2025-04-14 is a Monday, expected workday")
	}

	if _, err := ParseDate("14/04/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestDate_UnmarshalTolerantOfTimestamps(t *testing.T) {
	var d Date
	if err := d.UnmarshalJSON([]byte(`"2025-04-14T00:00:00Z"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if d.String() != "2025-04-14" {
		t.Errorf("expected day portion only, got %s", d)
	}
}
