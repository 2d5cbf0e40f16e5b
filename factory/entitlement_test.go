package factory

import (
	"testing"

	"github.com/warp/leave-engine/leave"
)

func TestParseEntitlements_OverridesDefaults(t *testing.T) {
	table, err := ParseEntitlements([]byte(`{
		"entitlements": {"Annual leave": 24, "Study leave": 6},
		"default": 15
	}`))
	if err != nil {
		t.Fatalf("ParseEntitlements: %v", err)
	}

	if got := table.For("Annual leave"); got != 24 {
		t.Errorf("Annual leave: expected 24, got %d", got)
	}
	if got := table.For("Study leave"); got != 6 {
		t.Errorf("Study leave: expected 6, got %d", got)
	}
	// Untouched per-title default survives the override.
	if got := table.For("Sick leave"); got != 10 {
		t.Errorf("Sick leave: expected default 10, got %d", got)
	}
	if got := table.For("Garden leave"); got != 15 {
		t.Errorf("unknown title: expected configured default 15, got %d", got)
	}
}

func TestParseEntitlements_EmptyDocumentUsesDefaults(t *testing.T) {
	table, err := ParseEntitlements([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseEntitlements: %v", err)
	}
	if got := table.For("Unheard-of leave"); got != leave.FallbackEntitlement {
		t.Errorf("expected fallback %d, got %d", leave.FallbackEntitlement, got)
	}
}

func TestParseEntitlements_RejectsNegative(t *testing.T) {
	if _, err := ParseEntitlements([]byte(`{"entitlements": {"Annual leave": -1}}`)); err == nil {
		t.Error("expected error for negative entitlement")
	}
	if _, err := ParseEntitlements([]byte(`{"default": -5}`)); err == nil {
		t.Error("expected error for negative default")
	}
}

func TestParseEntitlements_InvalidJSON(t *testing.T) {
	if _, err := ParseEntitlements([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadEntitlements_EmptyPath(t *testing.T) {
	table, err := LoadEntitlements("")
	if err != nil {
		t.Fatalf("LoadEntitlements: %v", err)
	}
	if got := table.For("Annual leave"); got != 20 {
		t.Errorf("expected built-in default 20, got %d", got)
	}
}
