package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, leave.NewEntitlementTable(), NewAuth("test-secret"))
	return NewRouter(h), h
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, router http.Handler, names, email, role string) LoginResponse {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Names:    names,
		Email:    email,
		Role:     role,
		Password: "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func submitLeave(t *testing.T, router http.Handler, token string) LeaveDTO {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/leaves", token, map[string]any{
		"leaveTypeId": 1,
		"fromDate":    "2025-04-14",
		"returnDate":  "2025-04-18",
		"reason":      "Family vacation abroad",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto LeaveDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	return dto
}

// =============================================================================
// AUTH
// =============================================================================

func TestAuth_RegisterAndLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	registered := register(t, router, "Jane Smith", "jane@example.com", "MANAGER")
	assert.Equal(t, leave.RoleManager, registered.Role)

	rec := doRequest(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.ID)
}

func TestAuth_WrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "Jane Smith", "jane@example.com", "USER")

	rec := doRequest(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_DuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)
	register(t, router, "Jane Smith", "jane@example.com", "USER")

	rec := doRequest(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Names:    "Other Jane",
		Email:    "jane@example.com",
		Password: "another secret phrase",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuth_ProtectedRouteRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/leaves", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/leaves", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RegisterDefaultsToUserRole(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := register(t, router, "Bob Wilson", "bob@example.com", "SUPERUSER")
	assert.Equal(t, leave.RoleUser, resp.Role)
}

// =============================================================================
// LEAVES
// =============================================================================

func TestSubmitLeave_ComputesDuration(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")

	dto := submitLeave(t, router, user.Token)
	assert.Equal(t, 4.0, dto.Days, "Mon-Fri full-day span costs 4 days")
	assert.Equal(t, leave.StatusPending, dto.Status)
	assert.Equal(t, user.ID, dto.Employee, "employee comes from the session, not the body")
}

func TestSubmitLeave_HalfDay(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")

	rec := doRequest(t, router, http.MethodPost, "/api/leaves", user.Token, map[string]any{
		"leaveTypeId": 2,
		"fromDate":    "2025-04-14",
		"isFullDay":   false,
		"reason":      "Doctor appointment",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto LeaveDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, 0.5, dto.Days)
	assert.Equal(t, "2025-04-14", dto.ReturnDate.String())
}

func TestSubmitLeave_ValidationErrors(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")

	rec := doRequest(t, router, http.MethodPost, "/api/leaves", user.Token, map[string]any{
		"leaveTypeId": 1,
		"fromDate":    "2025-04-14",
		"returnDate":  "2025-04-18",
		"reason":      "too short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reason")
}

func TestTransitionLeave_ApproveThenRejectConflicts(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")
	manager := register(t, router, "Jane Smith", "jane@example.com", "MANAGER")

	created := submitLeave(t, router, user.Token)

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/leaves/%d", created.ID), manager.Token,
		TransitionRequest{Status: leave.StatusApproved, Comment: "enjoy"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var approved LeaveDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&approved))
	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.Operator)
	assert.Equal(t, manager.ID, *approved.Operator)

	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/leaves/%d", created.ID), manager.Token,
		TransitionRequest{Status: leave.StatusRejected, Comment: "changed my mind"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTransitionLeave_UserRoleForbidden(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")
	created := submitLeave(t, router, user.Token)

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/leaves/%d", created.ID), user.Token,
		TransitionRequest{Status: leave.StatusApproved})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTransitionLeave_RejectWithoutComment(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")
	manager := register(t, router, "Jane Smith", "jane@example.com", "MANAGER")
	created := submitLeave(t, router, user.Token)

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/leaves/%d", created.ID), manager.Token,
		TransitionRequest{Status: leave.StatusRejected, Comment: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionLeave_UnknownID(t *testing.T) {
	router, _ := newTestRouter(t)
	manager := register(t, router, "Jane Smith", "jane@example.com", "MANAGER")

	rec := doRequest(t, router, http.MethodPut, "/api/leaves/999", manager.Token,
		TransitionRequest{Status: leave.StatusApproved})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLeaves_UserSeesOwnManagerSeesAll(t *testing.T) {
	router, _ := newTestRouter(t)
	alice := register(t, router, "Alice", "alice@example.com", "USER")
	bob := register(t, router, "Bob", "bob@example.com", "USER")
	manager := register(t, router, "Jane Smith", "jane@example.com", "MANAGER")

	submitLeave(t, router, alice.Token)
	submitLeave(t, router, bob.Token)

	var envelope struct {
		Data []LeaveDTO `json:"data"`
	}

	rec := doRequest(t, router, http.MethodGet, "/api/leaves", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Len(t, envelope.Data, 1)

	rec = doRequest(t, router, http.MethodGet, "/api/leaves", manager.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestListLeaveTypes_Public(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/leave-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []leave.LeaveType `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Len(t, envelope.Data, 3)
}

// =============================================================================
// BALANCE REPORT
// =============================================================================

func TestBalanceReport_OnlyApprovedCounts(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")
	manager := register(t, router, "Jane Smith", "jane@example.com", "MANAGER")

	approvedReq := submitLeave(t, router, user.Token) // 4 days, type 1
	submitLeave(t, router, user.Token)                // stays pending

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/leaves/%d", approvedReq.ID), manager.Token,
		TransitionRequest{Status: leave.StatusApproved})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/leave-balance/%d/report", user.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data DashboardDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data.LeaveBalances, 3)

	annual := envelope.Data.LeaveBalances[0]
	assert.Equal(t, "Annual leave", annual.LeaveType.Title)
	assert.Equal(t, 20, annual.Total)
	assert.Equal(t, 4.0, annual.Used, "pending request must not count")
	assert.Equal(t, 16.0, annual.Remaining)
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func TestNotifications_SubmitAndTransitionFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")
	manager := register(t, router, "Jane Smith", "jane@example.com", "MANAGER")

	created := submitLeave(t, router, user.Token)

	var envelope struct {
		Data []NotificationDTO `json:"data"`
	}

	// The reviewer is notified of the pending request.
	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/notifications/user/%d", manager.ID), manager.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, created.ID, envelope.Data[0].LeaveID)

	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/leaves/%d", created.ID), manager.Token,
		TransitionRequest{Status: leave.StatusRejected, Comment: "short staffed"})
	require.Equal(t, http.StatusOK, rec.Code)

	// The employee is notified of the outcome.
	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/notifications/user/%d", user.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Contains(t, envelope.Data[0].Message, "Rejected")

	// Mark it read.
	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/notifications/%s/read", envelope.Data[0].ID), user.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// USERS
// =============================================================================

func TestListUsers_AdminOnly(t *testing.T) {
	router, _ := newTestRouter(t)
	user := register(t, router, "Bob Wilson", "bob@example.com", "USER")
	admin := register(t, router, "Ada Admin", "ada@example.com", "ADMIN")

	rec := doRequest(t, router, http.MethodGet, "/api/users", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/users", admin.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []UserDTO `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Len(t, envelope.Data, 2)
}
