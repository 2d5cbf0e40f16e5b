/*
handlers.go - HTTP API handlers for the leave management service

PURPOSE:
  Exposes the leave engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates every business decision to the leave
  package.

ENDPOINTS:
  Auth:
    POST   /api/auth/login               Login, returns token + profile
    POST   /api/auth/register            Register, returns token + profile

  Leaves:
    POST   /api/leaves                   Submit a leave request
    GET    /api/leaves                   History (own, or all for reviewers)
    GET    /api/leaves/{id}              Single request
    GET    /api/leaves/employee/{id}     History for one employee
    PUT    /api/leaves/{id}              Approve/reject

  Reference and reporting:
    GET    /api/leave-types              Leave-type catalog
    GET    /api/leave-balance/{id}/report  Balances + upcoming leaves

  Notifications:
    GET    /api/notifications/user/{id}  Feed for one user
    PUT    /api/notifications/{id}/read  Mark as seen

  Users:
    GET    /api/users                    All accounts (admin)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing/invalid token
  - 403: Role not allowed to review
  - 404: Unknown request/user
  - 409: Request already resolved
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Token issuance and session middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store        *sqlite.Store
	Lifecycle    *leave.Lifecycle
	Entitlements leave.EntitlementTable
	Auth         *Auth
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store *sqlite.Store, entitlements leave.EntitlementTable, auth *Auth) *Handler {
	return &Handler{
		Store:        store,
		Lifecycle:    leave.NewLifecycle(store),
		Entitlements: entitlements,
		Auth:         auth,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login verifies credentials and returns a signed token with the profile.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.Store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, leave.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load user", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	if err := h.Store.TouchLastLogin(r.Context(), user.ID); err != nil {
		log.Printf("warning: failed to record login for user %d: %v", user.ID, err)
	}

	h.writeLoginResponse(w, user)
}

// Register creates an account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Email == "" || req.Names == "" {
		writeError(w, http.StatusBadRequest, "names and email are required", nil)
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters", nil)
		return
	}

	role := leave.Role(req.Role)
	if role != leave.RoleManager && role != leave.RoleAdmin {
		role = leave.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), sqlite.User{
		Names:          req.Names,
		Email:          req.Email,
		Phone:          req.Phone,
		DepartmentID:   req.DepartmentID,
		DepartmentName: req.DepartmentName,
		Role:           role,
		Status:         1,
		PasswordHash:   string(hash),
	})
	if errors.Is(err, sqlite.ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "Email already registered", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	h.writeLoginResponse(w, user)
}

func (h *Handler) writeLoginResponse(w http.ResponseWriter, user *sqlite.User) {
	token, err := h.Auth.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}
	dto := toUserDTO(*user)
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:          token,
		ID:             dto.ID,
		Names:          dto.Names,
		Email:          dto.Email,
		Phone:          dto.Phone,
		DepartmentID:   dto.DepartmentID,
		DepartmentName: dto.DepartmentName,
		Role:           dto.Role,
		Status:         dto.Status,
		LastLogin:      dto.LastLogin,
		CreatedAt:      dto.CreatedAt,
	})
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// SubmitLeave creates a pending request for the authenticated employee.
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing session", nil)
		return
	}

	var req SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	isFullDay := true
	if req.IsFullDay != nil {
		isFullDay = *req.IsFullDay
	}

	created, err := h.Lifecycle.Submit(r.Context(), leave.SubmitInput{
		EmployeeID:  sess.UserID,
		LeaveTypeID: req.LeaveTypeID,
		FromDate:    req.FromDate,
		ReturnDate:  req.ReturnDate,
		IsFullDay:   isFullDay,
		Reason:      req.Reason,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.notifyReviewers(r, created)
	writeJSON(w, http.StatusCreated, toLeaveDTO(*created))
}

// TransitionLeave approves or rejects a pending request.
func (h *Handler) TransitionLeave(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing session", nil)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave id", err)
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	current, err := h.Store.GetRequest(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := h.Lifecycle.Transition(r.Context(), sess, current, req.Status, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.notifyEmployee(r, updated)
	writeJSON(w, http.StatusOK, toLeaveDTO(*updated))
}

// ListLeaves returns the caller's history, or everyone's for reviewers.
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing session", nil)
		return
	}

	var (
		leaves []leave.LeaveRequest
		err    error
	)
	if sess.Role.CanReview() {
		leaves, err = h.Store.ListRequests(r.Context())
	} else {
		leaves, err = h.Store.ListForEmployee(r.Context(), sess.UserID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leaves", err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: toLeaveDTOs(leaves)})
}

// GetLeave returns a single request.
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave id", err)
		return
	}

	req, err := h.Store.GetRequest(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: toLeaveDTO(*req)})
}

// ListEmployeeLeaves returns one employee's history.
func (h *Handler) ListEmployeeLeaves(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return
	}

	leaves, err := h.Store.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leaves", err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: toLeaveDTOs(leaves)})
}

// ListLeaveTypes returns the catalog.
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListLeaveTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave types", err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: types})
}

// =============================================================================
// BALANCE REPORT
// =============================================================================

// BalanceReport returns per-type balances plus upcoming approved leaves for
// one employee. Balances are derived fresh on every call.
func (h *Handler) BalanceReport(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee id", err)
		return
	}

	history, err := h.Store.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	types, err := h.Store.ListLeaveTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load leave types", err)
		return
	}

	balances := leave.ComputeBalances(history, types, h.Entitlements)

	today := leave.Today()
	var upcoming []leave.LeaveRequest
	for _, req := range history {
		if req.Status == leave.StatusApproved && req.FromDate.After(today) {
			upcoming = append(upcoming, req)
		}
	}

	writeJSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: DashboardDTO{
		LeaveBalances:  toBalanceDTOs(balances),
		UpcomingLeaves: toLeaveDTOs(upcoming),
	}})
}

// =============================================================================
// NOTIFICATION HANDLERS
// =============================================================================

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	notifications, err := h.Store.ListNotifications(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: toNotificationDTOs(notifications)})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.MarkNotificationRead(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": http.StatusOK})
}

// Notification delivery is best-effort: failures are logged, never surfaced.
func (h *Handler) notifyReviewers(r *http.Request, req *leave.LeaveRequest) {
	reviewers, err := h.Store.ListReviewers(r.Context())
	if err != nil {
		log.Printf("warning: failed to list reviewers for notification: %v", err)
		return
	}
	message := fmt.Sprintf("Leave request #%d is awaiting review", req.ID)
	for _, reviewer := range reviewers {
		if _, err := h.Store.CreateNotification(r.Context(), reviewer.ID, req.ID, message); err != nil {
			log.Printf("warning: failed to notify user %d: %v", reviewer.ID, err)
		}
	}
}

func (h *Handler) notifyEmployee(r *http.Request, req *leave.LeaveRequest) {
	message := fmt.Sprintf("Your leave request #%d was %s", req.ID, req.Status)
	if req.Comment != "" {
		message = fmt.Sprintf("%s: %s", message, req.Comment)
	}
	if _, err := h.Store.CreateNotification(r.Context(), req.EmployeeID, req.ID, message); err != nil {
		log.Printf("warning: failed to notify user %d: %v", req.EmployeeID, err)
	}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns all accounts. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing session", nil)
		return
	}
	if sess.Role != leave.RoleAdmin {
		writeError(w, http.StatusForbidden, "Admin role required", nil)
		return
	}

	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: dtos})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps leave-engine errors onto HTTP statuses. Conflict
// responses carry the id and resolved status so remote stores can rebuild
// the ConflictError.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validation *leave.ValidationError
		conflict   *leave.ConflictError
		forbidden  *leave.ForbiddenError
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error(), nil)
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  conflict.Error(),
			"id":     conflict.RequestID,
			"status": conflict.Status,
		})
	case errors.As(err, &forbidden):
		writeError(w, http.StatusForbidden, forbidden.Error(), nil)
	case errors.Is(err, leave.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
