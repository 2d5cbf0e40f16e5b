/*
lifecycle.go - Submission and status transitions

PURPOSE:
  The Lifecycle owns the rules that make a request well-formed at
  submission time and legal at transition time. Duration is computed here,
  once, when the request is created; it is never recomputed afterwards.

DURATION RULE:
  Half-day requests always cost 0.5 and collapse to a single date.
  Full-day requests cost the number of business days after the departure
  date up to and including the return date; a same-day full-day request
  would count zero under that rule, so it is forced to exactly one day.

TRANSITION RULE:
  Pending -> Approved or Pending -> Rejected, once, by a reviewer role.
  Status, comment and operator travel to the store as one atomic update.
*/
package leave

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinReasonLength is the minimum number of characters in a submission reason.
const MinReasonLength = 10

// SubmitInput carries the caller-supplied fields of a new request.
// ReturnDate is required for full-day requests and ignored for half-day ones.
type SubmitInput struct {
	EmployeeID  int
	LeaveTypeID int
	FromDate    Date
	ReturnDate  Date
	IsFullDay   bool
	Reason      string
}

// Lifecycle validates, prices and persists leave requests.
type Lifecycle struct {
	Store Store
}

func NewLifecycle(store Store) *Lifecycle {
	return &Lifecycle{Store: store}
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit validates the candidate, computes its duration and hands it to the
// store as a Pending request. No local state is mutated; the caller refreshes
// any list views itself.
func (l *Lifecycle) Submit(ctx context.Context, in SubmitInput) (*LeaveRequest, error) {
	if in.LeaveTypeID == 0 {
		return nil, newValidationError("leaveTypeId", "leave type is required")
	}
	if in.FromDate.IsZero() {
		return nil, newValidationError("startDate", "start date is required")
	}
	if in.IsFullDay {
		if in.ReturnDate.IsZero() {
			return nil, newValidationError("returnDate", "return date is required")
		}
		if in.ReturnDate.Before(in.FromDate) {
			return nil, newValidationError("returnDate", "return date can't be before start date")
		}
	}
	if len(strings.TrimSpace(in.Reason)) < MinReasonLength {
		return nil, newValidationError("reason", fmt.Sprintf("reason must be at least %d characters", MinReasonLength))
	}

	types, err := l.Store.ListLeaveTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading leave types: %w", err)
	}
	if !knownLeaveType(types, in.LeaveTypeID) {
		return nil, newValidationError("leaveTypeId", "unknown leave type")
	}

	req := LeaveRequest{
		EmployeeID:  in.EmployeeID,
		LeaveTypeID: in.LeaveTypeID,
		FromDate:    in.FromDate,
		ReturnDate:  in.ReturnDate,
		IsFullDay:   in.IsFullDay,
		Reason:      strings.TrimSpace(in.Reason),
		Status:      StatusPending,
		Comment:     "",
		OperatorID:  nil,
	}

	if in.IsFullDay {
		days := BusinessDaysBetween(in.FromDate, in.ReturnDate)
		if days == 0 {
			// Same-day (or weekend-only) full-day request still costs one day.
			days = 1
		}
		req.Days = decimal.NewFromInt(int64(days))
	} else {
		req.Days = HalfDay
		req.ReturnDate = in.FromDate
	}

	created, err := l.Store.CreateRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return created, nil
}

func knownLeaveType(types []LeaveType, id int) bool {
	for _, t := range types {
		if t.ID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// TRANSITION
// =============================================================================

// Transition resolves a Pending request to Approved or Rejected on behalf of
// the session. Rejecting requires a non-empty comment. The store enforces the
// Pending precondition a second time so concurrent reviewers cannot both win;
// the loser gets ConflictError.
func (l *Lifecycle) Transition(ctx context.Context, sess Session, req *LeaveRequest, newStatus Status, comment string) (*LeaveRequest, error) {
	if newStatus != StatusApproved && newStatus != StatusRejected {
		return nil, newValidationError("status", "status must be Approved or Rejected")
	}
	if !sess.Role.CanReview() {
		return nil, &ForbiddenError{Role: sess.Role}
	}
	comment = strings.TrimSpace(comment)
	if newStatus == StatusRejected && comment == "" {
		return nil, newValidationError("comment", "a comment is required when rejecting")
	}
	if req.Status != StatusPending {
		return nil, &ConflictError{RequestID: req.ID, Status: req.Status}
	}

	updated, err := l.Store.UpdateStatus(ctx, req.ID, newStatus, comment, sess.UserID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
