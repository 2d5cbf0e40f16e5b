/*
balance.go - Balance derivation from request history

PURPOSE:
  Computes, for each leave type, the entitlement, consumed days and
  remaining balance of one employee. This answers the dashboard question
  "how much leave do I have left?".

KEY INVARIANT:
  A request counts toward `used` if and only if its status is Approved.
  Pending and Rejected requests never reduce a balance.

STALENESS:
  Balances are derived on demand from the history; nothing is cached. The
  moment a request is approved, every previously computed summary for that
  employee is stale and must be recomputed.
*/
package leave

import "github.com/shopspring/decimal"

// =============================================================================
// ENTITLEMENTS
// =============================================================================

// FallbackEntitlement is granted to leave types with no configured
// entitlement and no per-title default. A fixed non-zero fallback keeps an
// unconfigured type from spuriously reporting an exhausted balance.
const FallbackEntitlement = 20

// DefaultEntitlements are the per-title annual day counts used when no
// configuration overrides them.
var DefaultEntitlements = map[string]int{
	"Annual leave":   20,
	"Sick leave":     10,
	"Personal leave": 5,
}

// EntitlementTable maps a leave-type title to its configured annual
// entitlement in days.
type EntitlementTable struct {
	Entitlements map[string]int
	Default      int
}

// NewEntitlementTable returns a table backed by the default per-title counts.
func NewEntitlementTable() EntitlementTable {
	entitlements := make(map[string]int, len(DefaultEntitlements))
	for title, days := range DefaultEntitlements {
		entitlements[title] = days
	}
	return EntitlementTable{Entitlements: entitlements, Default: FallbackEntitlement}
}

// For returns the annual entitlement for a leave-type title.
func (t EntitlementTable) For(title string) int {
	if days, ok := t.Entitlements[title]; ok {
		return days
	}
	if days, ok := DefaultEntitlements[title]; ok {
		return days
	}
	if t.Default > 0 {
		return t.Default
	}
	return FallbackEntitlement
}

// =============================================================================
// BALANCE COMPUTATION
// =============================================================================

// ComputeBalances derives one BalanceSummary per leave type from an
// employee's full request history. Output order follows leaveTypes.
// Deterministic and idempotent: identical inputs give identical output, and
// the history order does not matter.
func ComputeBalances(history []LeaveRequest, leaveTypes []LeaveType, entitlements EntitlementTable) []BalanceSummary {
	summaries := make([]BalanceSummary, 0, len(leaveTypes))
	for _, lt := range leaveTypes {
		used := decimal.Zero
		for _, req := range history {
			if req.LeaveTypeID != lt.ID || req.Status != StatusApproved {
				continue
			}
			// Days is non-negative by construction; Abs guards a corrupt
			// record from ever reducing the consumed total.
			used = used.Add(req.Days.Abs())
		}
		total := entitlements.For(lt.Title)
		summaries = append(summaries, BalanceSummary{
			LeaveType: lt,
			Total:     total,
			Used:      used,
			Remaining: decimal.NewFromInt(int64(total)).Sub(used),
		})
	}
	return summaries
}
