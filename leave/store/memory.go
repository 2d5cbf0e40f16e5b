// Package store provides an in-memory leave.Store for testing and dev.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	nextID   int
	requests map[int]leave.LeaveRequest
	types    []leave.LeaveType
}

func NewMemory(types []leave.LeaveType) *Memory {
	return &Memory{
		nextID:   1,
		requests: make(map[int]leave.LeaveRequest),
		types:    append([]leave.LeaveType(nil), types...),
	}
}

func (m *Memory) CreateRequest(_ context.Context, req leave.LeaveRequest) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	m.requests[req.ID] = req

	out := req
	return &out, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id int, status leave.Status, comment string, operatorID int) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, leave.ErrNotFound
	}
	if req.Status != leave.StatusPending {
		return nil, &leave.ConflictError{RequestID: id, Status: req.Status}
	}

	req.Status = status
	req.Comment = comment
	req.OperatorID = &operatorID
	req.UpdatedAt = time.Now().UTC()
	m.requests[id] = req

	out := req
	return &out, nil
}

func (m *Memory) GetRequest(_ context.Context, id int) (*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, leave.ErrNotFound
	}
	out := req
	return &out, nil
}

func (m *Memory) ListForEmployee(_ context.Context, employeeID int) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, req := range m.requests {
		if req.EmployeeID == employeeID {
			out = append(out, req)
		}
	}
	sortByID(out)
	return out, nil
}

func (m *Memory) ListRequests(_ context.Context) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]leave.LeaveRequest, 0, len(m.requests))
	for _, req := range m.requests {
		out = append(out, req)
	}
	sortByID(out)
	return out, nil
}

func (m *Memory) ListLeaveTypes(_ context.Context) ([]leave.LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]leave.LeaveType(nil), m.types...), nil
}

func sortByID(reqs []leave.LeaveRequest) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].ID < reqs[j].ID })
}

var _ leave.Store = (*Memory)(nil)
