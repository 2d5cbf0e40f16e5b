/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupled from the
  domain model. Field names follow the contract the front end already
  speaks: fromDate/returnDate/isFullDay/days on leaves, {status, data}
  envelopes on list endpoints.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in the lifecycle, not in DTOs. DTOs are pure data
  carriers.
*/
package api

import (
	"time"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// =============================================================================
// LEAVES
// =============================================================================

// LeaveDTO is the flat leave-request representation.
type LeaveDTO struct {
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

func toLeaveDTO(req leave.LeaveRequest) LeaveDTO {
	return LeaveDTO{
		ID:          req.ID,
		Employee:    req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		Reason:      req.Reason,
		Days:        req.Days.InexactFloat64(),
		Status:      req.Status,
		Comment:     req.Comment,
		FromDate:    req.FromDate,
		ReturnDate:  req.ReturnDate,
		IsFullDay:   req.IsFullDay,
		Operator:    req.OperatorID,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

func toLeaveDTOs(reqs []leave.LeaveRequest) []LeaveDTO {
	dtos := make([]LeaveDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toLeaveDTO(r)
	}
	return dtos
}

// SubmitLeaveRequest is the request body for POST /api/leaves.
// IsFullDay defaults to true when omitted.
type SubmitLeaveRequest struct {
	Employee    int        `json:"employee"`
	LeaveTypeID int        `json:"leaveTypeId"`
	Reason      string     `json:"reason"`
	FromDate    leave.Date `json:"fromDate"`
	ReturnDate  leave.Date `json:"returnDate"`
	IsFullDay   *bool      `json:"isFullDay"`
}

// TransitionRequest is the request body for PUT /api/leaves/{id}.
type TransitionRequest struct {
	Status   leave.Status `json:"status"`
	Comment  string       `json:"comment"`
	Operator int          `json:"operator"`
}

// =============================================================================
// BALANCES
// =============================================================================

type BalanceDTO struct {
	LeaveType leave.LeaveType `json:"leaveType"`
	Total     int             `json:"total"`
	Used      float64         `json:"used"`
	Remaining float64         `json:"remaining"`
}

// DashboardDTO is the payload of GET /api/leave-balance/{id}/report.
type DashboardDTO struct {
	LeaveBalances  []BalanceDTO `json:"leaveBalances"`
	UpcomingLeaves []LeaveDTO   `json:"upcomingLeaves"`
}

func toBalanceDTOs(balances []leave.BalanceSummary) []BalanceDTO {
	dtos := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		dtos[i] = BalanceDTO{
			LeaveType: b.LeaveType,
			Total:     b.Total,
			Used:      b.Used.InexactFloat64(),
			Remaining: b.Remaining.InexactFloat64(),
		}
	}
	return dtos
}

// =============================================================================
// AUTH AND USERS
// =============================================================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Names          string `json:"names"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DepartmentID   int    `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	Role           string `json:"role"`
	Password       string `json:"password"`
}

// LoginResponse mirrors the shape the front end stores after login.
type LoginResponse struct {
	Token          string     `json:"token"`
	ID             int        `json:"id"`
	Names          string     `json:"names"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	DepartmentID   int        `json:"departmentId"`
	DepartmentName string     `json:"departmentName"`
	Role           leave.Role `json:"role"`
	Status         int        `json:"status"`
	LastLogin      string     `json:"lastLogin"`
	CreatedAt      string     `json:"createdAt"`
}

type UserDTO struct {
	ID             int        `json:"id"`
	Names          string     `json:"names"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	DepartmentID   int        `json:"departmentId"`
	DepartmentName string     `json:"departmentName"`
	Role           leave.Role `json:"role"`
	Status         int        `json:"status"`
	LastLogin      string     `json:"lastLogin"`
	CreatedAt      string     `json:"createdAt"`
}

func toUserDTO(u sqlite.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Names:          u.Names,
		Email:          u.Email,
		Phone:          u.Phone,
		DepartmentID:   u.DepartmentID,
		DepartmentName: u.DepartmentName,
		Role:           u.Role,
		Status:         u.Status,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

type NotificationDTO struct {
	ID        string    `json:"id"`
	UserID    int       `json:"userId"`
	LeaveID   int       `json:"leaveId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationDTOs(ns []sqlite.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(ns))
	for i, n := range ns {
		dtos[i] = NotificationDTO{
			ID:        n.ID,
			UserID:    n.UserID,
			LeaveID:   n.LeaveID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return dtos
}

// =============================================================================
// COMMON
// =============================================================================

// Envelope wraps list responses the way the front end expects.
type Envelope struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
