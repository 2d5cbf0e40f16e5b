package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/api"
	"github.com/warp/leave-engine/client"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// The RestStore is exercised against the real router so the wire contract
// stays honest on both sides.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)

	h := api.NewHandler(store, leave.NewEntitlementTable(), api.NewAuth("test-secret"))
	server := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

func registerUser(t *testing.T, baseURL, email, role string) (token string, id int) {
	t.Helper()
	payload, _ := json.Marshal(map[string]any{
		"names":    "Test User",
		"email":    email,
		"role":     role,
		"password": "correct horse battery staple",
	})
	resp, err := http.Post(baseURL+"/api/auth/register", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
		ID    int    `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token, out.ID
}

func pendingFullWeek() leave.LeaveRequest {
	return leave.LeaveRequest{
		LeaveTypeID: 1,
		FromDate:    leave.NewDate(2025, time.April, 14),
		ReturnDate:  leave.NewDate(2025, time.April, 18),
		IsFullDay:   true,
		Days:        decimal.NewFromInt(4),
		Reason:      "Family vacation abroad",
	}
}

func TestRestStore_CreateAndFetch(t *testing.T) {
	server := newTestServer(t)
	token, id := registerUser(t, server.URL, "bob@example.com", "USER")

	store := client.NewRestStore(server.URL)
	store.SetToken(token)
	ctx := context.Background()

	created, err := store.CreateRequest(ctx, pendingFullWeek())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, leave.StatusPending, created.Status)
	assert.Equal(t, id, created.EmployeeID)
	assert.True(t, created.Days.Equal(decimal.NewFromInt(4)))

	fetched, err := store.GetRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-14", fetched.FromDate.String())

	mine, err := store.ListForEmployee(ctx, id)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestRestStore_ListLeaveTypes(t *testing.T) {
	server := newTestServer(t)

	store := client.NewRestStore(server.URL)
	types, err := store.ListLeaveTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, "Annual leave", types[0].Title)
}

func TestRestStore_UpdateStatusConflict(t *testing.T) {
	server := newTestServer(t)
	userToken, _ := registerUser(t, server.URL, "bob@example.com", "USER")
	managerToken, managerID := registerUser(t, server.URL, "jane@example.com", "MANAGER")

	userStore := client.NewRestStore(server.URL)
	userStore.SetToken(userToken)
	ctx := context.Background()

	created, err := userStore.CreateRequest(ctx, pendingFullWeek())
	require.NoError(t, err)

	managerStore := client.NewRestStore(server.URL)
	managerStore.SetToken(managerToken)

	approved, err := managerStore.UpdateStatus(ctx, created.ID, leave.StatusApproved, "enjoy", managerID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)

	// Second resolution surfaces the remote conflict as ConflictError.
	_, err = managerStore.UpdateStatus(ctx, created.ID, leave.StatusRejected, "no", managerID)
	var conflict *leave.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, created.ID, conflict.RequestID)
	assert.Equal(t, leave.StatusApproved, conflict.Status)
}

func TestRestStore_UnauthorizedSurfacesStatus(t *testing.T) {
	server := newTestServer(t)

	store := client.NewRestStore(server.URL)
	// No token set.
	_, err := store.ListRequests(context.Background())

	var statusErr *leave.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestRestStore_NotFound(t *testing.T) {
	server := newTestServer(t)
	token, _ := registerUser(t, server.URL, "bob@example.com", "USER")

	store := client.NewRestStore(server.URL)
	store.SetToken(token)

	_, err := store.GetRequest(context.Background(), 999)
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestRestStore_NetworkFailureIsTransportError(t *testing.T) {
	server := newTestServer(t)
	url := server.URL
	server.Close()

	store := client.NewRestStore(url)
	_, err := store.ListLeaveTypes(context.Background())

	var transport *leave.TransportError
	assert.ErrorAs(t, err, &transport)
}

func TestLifecycleOverRestStore(t *testing.T) {
	// The core lifecycle runs unchanged against the remote collaborator.
	server := newTestServer(t)
	token, id := registerUser(t, server.URL, "bob@example.com", "USER")

	store := client.NewRestStore(server.URL)
	store.SetToken(token)

	lc := leave.NewLifecycle(store)
	created, err := lc.Submit(context.Background(), leave.SubmitInput{
		EmployeeID:  id,
		LeaveTypeID: 1,
		FromDate:    leave.NewDate(2025, time.April, 14),
		ReturnDate:  leave.NewDate(2025, time.April, 14),
		IsFullDay:   true,
		Reason:      "Moving apartments",
	})
	require.NoError(t, err)
	assert.True(t, created.Days.Equal(decimal.NewFromInt(1)), "same-day request costs one day")
}
