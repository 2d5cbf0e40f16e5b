/*
Package factory provides JSON to Go entitlement configuration conversion.

PURPOSE:
  Converts a JSON entitlement definition into a leave.EntitlementTable.
  HR can change annual day counts without a code change; the file is read
  once at startup.

JSON SCHEMA:
  {
    "entitlements": {
      "Annual leave": 24,
      "Sick leave": 12
    },
    "default": 20
  }

DEFAULTS:
  A missing or empty "entitlements" object falls back to the built-in
  per-title defaults; a missing "default" falls back to the generic
  fallback entitlement. Negative day counts are rejected.
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warp/leave-engine/leave"
)

// EntitlementJSON is the JSON representation of the entitlement table.
type EntitlementJSON struct {
	Entitlements map[string]int `json:"entitlements"`
	Default      int            `json:"default"`
}

// ParseEntitlements converts a JSON document into an EntitlementTable.
func ParseEntitlements(data []byte) (leave.EntitlementTable, error) {
	var cfg EntitlementJSON
	if err := json.Unmarshal(data, &cfg); err != nil {
		return leave.EntitlementTable{}, fmt.Errorf("invalid entitlement config: %w", err)
	}

	if cfg.Default < 0 {
		return leave.EntitlementTable{}, fmt.Errorf("default entitlement must not be negative, got %d", cfg.Default)
	}
	for title, days := range cfg.Entitlements {
		if days < 0 {
			return leave.EntitlementTable{}, fmt.Errorf("entitlement for %q must not be negative, got %d", title, days)
		}
	}

	table := leave.NewEntitlementTable()
	for title, days := range cfg.Entitlements {
		table.Entitlements[title] = days
	}
	if cfg.Default > 0 {
		table.Default = cfg.Default
	}
	return table, nil
}

// LoadEntitlements reads the table from a file. An empty path returns the
// built-in defaults.
func LoadEntitlements(path string) (leave.EntitlementTable, error) {
	if path == "" {
		return leave.NewEntitlementTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return leave.EntitlementTable{}, fmt.Errorf("reading entitlement config: %w", err)
	}
	return ParseEntitlements(data)
}
