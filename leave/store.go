/*
store.go - Persistence interface for leave requests

PURPOSE:
  Defines the boundary between the lifecycle/balance logic and whatever
  holds the records. Implementations exist for SQLite (store/sqlite),
  in-memory (leave/store) and a remote HTTP service (client).

ATOMICITY CONTRACT:
  UpdateStatus changes status, comment and operator together or not at all,
  and only while the stored status is still Pending. A request that already
  left Pending makes UpdateStatus fail with ConflictError - this is the
  mechanism that serializes two reviewers racing on the same request.

SEE ALSO:
  - leave/store/memory.go: In-memory implementation for testing
  - store/sqlite/sqlite.go: Production implementation
  - client/rest.go: Remote HTTP implementation
*/
package leave

import "context"

// Store persists leave requests and the leave-type catalog.
type Store interface {
	// CreateRequest persists a new request and returns it with the
	// store-assigned ID and timestamps.
	CreateRequest(ctx context.Context, req LeaveRequest) (*LeaveRequest, error)

	// UpdateStatus atomically resolves a Pending request. It returns
	// ConflictError when the stored status is no longer Pending and
	// ErrNotFound when the id is unknown.
	UpdateStatus(ctx context.Context, id int, status Status, comment string, operatorID int) (*LeaveRequest, error)

	// GetRequest returns a single request or ErrNotFound.
	GetRequest(ctx context.Context, id int) (*LeaveRequest, error)

	// ListForEmployee returns the full history for one employee.
	ListForEmployee(ctx context.Context, employeeID int) ([]LeaveRequest, error)

	// ListRequests returns every request (reviewer view).
	ListRequests(ctx context.Context) ([]LeaveRequest, error)

	// ListLeaveTypes returns the leave-type catalog.
	ListLeaveTypes(ctx context.Context) ([]LeaveType, error)
}
