/*
Package client implements leave.Store against a remote leave service over
HTTP+JSON.

PURPOSE:
  Lets the lifecycle and balance logic run in a process that does not own
  the database, speaking the same REST protocol the api package serves.

ERROR CLASSIFICATION:
  Network failures come back as *leave.TransportError. Non-2xx responses
  come back as *leave.HTTPStatusError carrying the status code and the
  server's error message, except:
    404 -> leave.ErrNotFound
    409 -> *leave.ConflictError
  so the leave.Store contract holds across the wire. A 401 is passed
  through for the caller to re-authenticate; nothing is retried here.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/warp/leave-engine/leave"
)

// RestStore is an HTTP implementation of leave.Store.
type RestStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRestStore(baseURL string) *RestStore {
	return &RestStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to every request.
func (c *RestStore) SetToken(token string) { c.token = token }

func (c *RestStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &leave.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func classifyStatus(resp *http.Response) error {
	var payload struct {
		Error   string       `json:"error"`
		Details string       `json:"details"`
		Status  leave.Status `json:"status"`
		ID      int          `json:"id"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return leave.ErrNotFound
	case http.StatusConflict:
		return &leave.ConflictError{RequestID: payload.ID, Status: payload.Status}
	}

	message := payload.Error
	if payload.Details != "" {
		message = fmt.Sprintf("%s: %s", payload.Error, payload.Details)
	}
	return &leave.HTTPStatusError{StatusCode: resp.StatusCode, Message: message}
}

// =============================================================================
// leave.Store IMPLEMENTATION
// =============================================================================

func (c *RestStore) CreateRequest(ctx context.Context, req leave.LeaveRequest) (*leave.LeaveRequest, error) {
	var out leaveWire
	if err := c.do(ctx, http.MethodPost, "/api/leaves", toSubmitWire(req), &out); err != nil {
		return nil, err
	}
	created := out.toDomain()
	return &created, nil
}

func (c *RestStore) UpdateStatus(ctx context.Context, id int, status leave.Status, comment string, operatorID int) (*leave.LeaveRequest, error) {
	body := transitionWire{Status: status, Comment: comment, Operator: operatorID}
	var out leaveWire
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/leaves/%d", id), body, &out); err != nil {
		return nil, err
	}
	updated := out.toDomain()
	return &updated, nil
}

func (c *RestStore) GetRequest(ctx context.Context, id int) (*leave.LeaveRequest, error) {
	var envelope struct {
		Status int       `json:"status"`
		Data   leaveWire `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/leaves/%d", id), nil, &envelope); err != nil {
		return nil, err
	}
	req := envelope.Data.toDomain()
	return &req, nil
}

func (c *RestStore) ListForEmployee(ctx context.Context, employeeID int) ([]leave.LeaveRequest, error) {
	var envelope leaveListEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/leaves/employee/%d", employeeID), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.toDomainList(), nil
}

func (c *RestStore) ListRequests(ctx context.Context) ([]leave.LeaveRequest, error) {
	var envelope leaveListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/leaves", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.toDomainList(), nil
}

func (c *RestStore) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	var envelope leaveTypesEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/leave-types", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

var _ leave.Store = (*RestStore)(nil)
