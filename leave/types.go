/*
Package leave implements the leave-request lifecycle and balance engine.

PURPOSE:
  This package contains the business rules of the leave-management system:
  how a request is validated and priced at submission, how it moves from
  Pending to Approved/Rejected exactly once, and how remaining balances per
  leave type are derived from the approved history.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveType: Immutable reference entity (id + title), supplied externally
  - LeaveRequest: The central entity with its single-transition status
  - Session: Explicit authenticated identity passed into operations
  - BalanceSummary: Derived per-type balance, never persisted

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for day amounts so half days are exact
  2. Explicit identity: no ambient session state, callers inject a Session
  3. Derivation over storage: balances are recomputed, never cached

SEE ALSO:
  - lifecycle.go: Submit and Transition operations
  - balance.go: Balance computation from request history
  - calendar.go: Date type and business-day counting
  - store.go: Persistence interface
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STATUS - Single-transition state machine
// =============================================================================

// Status is the lifecycle state of a leave request.
//
//	Pending --approve--> Approved  (terminal)
//	Pending --reject---> Rejected  (terminal)
//
// A request starts Pending and transitions at most once.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Resolved reports whether s is a terminal status.
func (s Status) Resolved() bool {
	return s == StatusApproved || s == StatusRejected
}

// =============================================================================
// ROLES AND SESSION
// =============================================================================

type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// CanReview reports whether the role may approve or reject requests.
func (r Role) CanReview() bool {
	return r == RoleManager || r == RoleAdmin
}

// Session identifies the authenticated actor performing an operation.
// It is always passed in explicitly; the engine never reads identity from
// ambient state.
type Session struct {
	UserID int
	Role   Role
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// LeaveType is an immutable reference entity. The catalog is fetched from
// the store once per session and never mutated here.
type LeaveType struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

// LeaveRequest is the central entity.
//
// Invariants:
//   - ReturnDate >= FromDate; for half-day requests ReturnDate == FromDate
//   - Days == 0.5 iff IsFullDay == false, otherwise an integer >= 1
//   - Comment and OperatorID are unset while Pending and set together on
//     transition
type LeaveRequest struct {
	ID          int
	EmployeeID  int
	LeaveTypeID int
	FromDate    Date
	ReturnDate  Date
	IsFullDay   bool
	Days        decimal.Decimal
	Reason      string
	Status      Status
	Comment     string
	OperatorID  *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// BALANCE SUMMARY - Derived, not stored
// =============================================================================

// BalanceSummary is the computed balance for one (employee, leave type) pair.
// Remaining may be negative when approvals exceed the entitlement; callers
// surface that as an alert, it is never clamped here.
type BalanceSummary struct {
	LeaveType LeaveType
	Total     int
	Used      decimal.Decimal
	Remaining decimal.Decimal
}

// HalfDay is the cost of a half-day request.
var HalfDay = decimal.NewFromFloat(0.5)
