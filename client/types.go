package client

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// WIRE TYPES - The JSON shapes the leave service serves
// =============================================================================

// leaveWire is the flat request representation used by POST/PUT responses
// and inside list envelopes.
type leaveWire struct {
	ID          int          `json:"id"`
	Employee    int          `json:"employee"`
	LeaveTypeID int          `json:"leaveTypeId"`
	Reason      string       `json:"reason"`
	Days        float64      `json:"days"`
	Status      leave.Status `json:"status"`
	Comment     string       `json:"comment"`
	FromDate    leave.Date   `json:"fromDate"`
	ReturnDate  leave.Date   `json:"returnDate"`
	IsFullDay   bool         `json:"isFullDay"`
	Operator    *int         `json:"operator,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type submitWire struct {
	Employee    int          `json:"employee"`
	LeaveTypeID int          `json:"leaveTypeId"`
	Reason      string       `json:"reason"`
	Days        float64      `json:"days"`
	Status      leave.Status `json:"status"`
	FromDate    leave.Date   `json:"fromDate"`
	ReturnDate  leave.Date   `json:"returnDate"`
	IsFullDay   bool         `json:"isFullDay"`
}

type transitionWire struct {
	Status   leave.Status `json:"status"`
	Comment  string       `json:"comment"`
	Operator int          `json:"operator"`
}

type leaveListEnvelope struct {
	Status int         `json:"status"`
	Data   []leaveWire `json:"data"`
}

type leaveTypesEnvelope struct {
	Status int               `json:"status"`
	Data   []leave.LeaveType `json:"data"`
}

func (w leaveWire) toDomain() leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:          w.ID,
		EmployeeID:  w.Employee,
		LeaveTypeID: w.LeaveTypeID,
		FromDate:    w.FromDate,
		ReturnDate:  w.ReturnDate,
		IsFullDay:   w.IsFullDay,
		Days:        decimal.NewFromFloat(w.Days),
		Reason:      w.Reason,
		Status:      w.Status,
		Comment:     w.Comment,
		OperatorID:  w.Operator,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func (e leaveListEnvelope) toDomainList() []leave.LeaveRequest {
	out := make([]leave.LeaveRequest, len(e.Data))
	for i, w := range e.Data {
		out[i] = w.toDomain()
	}
	return out
}

func toSubmitWire(req leave.LeaveRequest) submitWire {
	days, _ := req.Days.Float64()
	return submitWire{
		Employee:    req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		Reason:      req.Reason,
		Days:        days,
		Status:      leave.StatusPending,
		FromDate:    req.FromDate,
		ReturnDate:  req.ReturnDate,
		IsFullDay:   req.IsFullDay,
	}
}
