package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"household-ledger-go/internal/domain/household"
)

const defaultHTTPTimeout = 15 * time.Second

// TokenSource supplies the bearer token for each request. Session/token
// issuance belongs to the external identity service, not this client.
type TokenSource func() string

type HTTPSyncClient struct {
	baseURL string
	client  *http.Client
	token   TokenSource
}

func NewHTTPSyncClient(baseURL string, token TokenSource, httpClient *http.Client) *HTTPSyncClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPSyncClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		token:   token,
	}
}

// Me identifies the authenticated user. It is not part of the SyncClient
// boundary; callers use it once to learn who the session belongs to.
type Me struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (c *HTTPSyncClient) Me(ctx context.Context) (*Me, error) {
	var out Me
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPSyncClient) ListHouseholds(ctx context.Context) ([]Household, error) {
	var out []Household
	if err := c.do(ctx, http.MethodGet, "/api/households", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPSyncClient) GetHouseholdDetail(ctx context.Context, householdID string) (*HouseholdDetail, error) {
	var out HouseholdDetail
	if err := c.do(ctx, http.MethodGet, "/api/households/"+url.PathEscape(householdID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPSyncClient) CreateHousehold(ctx context.Context, req CreateHouseholdRequest) (*Household, error) {
	var out Household
	if err := c.do(ctx, http.MethodPost, "/api/households", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPSyncClient) UpdateHousehold(ctx context.Context, householdID string, patch HouseholdPatch) (*Household, error) {
	var out Household
	if err := c.do(ctx, http.MethodPatch, "/api/households/"+url.PathEscape(householdID), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPSyncClient) DeleteHousehold(ctx context.Context, householdID string) error {
	return c.do(ctx, http.MethodDelete, "/api/households/"+url.PathEscape(householdID), nil, nil)
}

func (c *HTTPSyncClient) LeaveHousehold(ctx context.Context, householdID string) error {
	return c.do(ctx, http.MethodPost, "/api/households/"+url.PathEscape(householdID)+"/leave", nil, nil)
}

func (c *HTTPSyncClient) UpdateMemberRole(ctx context.Context, householdID, userID string, role household.Role) error {
	body := struct {
		Role household.Role `json:"role"`
	}{Role: role}
	path := "/api/households/" + url.PathEscape(householdID) + "/members/" + url.PathEscape(userID)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

func (c *HTTPSyncClient) RemoveMember(ctx context.Context, householdID, userID string) error {
	path := "/api/households/" + url.PathEscape(householdID) + "/members/" + url.PathEscape(userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPSyncClient) CreateInvitation(ctx context.Context, householdID, email string, role household.Role) (*Invitation, error) {
	body := struct {
		Email string         `json:"email"`
		Role  household.Role `json:"role"`
	}{Email: email, Role: role}

	var out Invitation
	path := "/api/households/" + url.PathEscape(householdID) + "/invitations"
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPSyncClient) ListHouseholdInvitations(ctx context.Context, householdID string) ([]Invitation, error) {
	var out []Invitation
	path := "/api/households/" + url.PathEscape(householdID) + "/invitations"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPSyncClient) CancelInvitation(ctx context.Context, householdID, invitationID string) error {
	path := "/api/households/" + url.PathEscape(householdID) + "/invitations/" + url.PathEscape(invitationID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPSyncClient) ListMyInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	if err := c.do(ctx, http.MethodGet, "/api/invitations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPSyncClient) AcceptInvitation(ctx context.Context, token string) (*AcceptResult, error) {
	body := struct {
		Token string `json:"token"`
	}{Token: token}

	var out AcceptResult
	if err := c.do(ctx, http.MethodPost, "/api/invitations/accept", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPSyncClient) RejectInvitation(ctx context.Context, token string) error {
	body := struct {
		Token string `json:"token"`
	}{Token: token}
	return c.do(ctx, http.MethodPost, "/api/invitations/reject", body, nil)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *HTTPSyncClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "internal_error", Message: "request failed"}
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
