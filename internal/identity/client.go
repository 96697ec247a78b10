// Package identity is the HTTP client for the hosted identity service's
// user administration API. It authenticates with a service key.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/apperr"
	"github.com/medconsole/admin-backend/internal/gateway"
	"github.com/medconsole/admin-backend/internal/model"
)

// Client talks to the identity admin API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ gateway.IdentityDirectory = (*Client)(nil)

// New creates a client. httpClient may be nil.
func New(baseURL, serviceKey string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: httpClient,
		log:        log.With().Str("component", "identity_client").Logger(),
	}
}

// ListUsers returns every end-user account.
func (c *Client) ListUsers(ctx context.Context) ([]model.UserAccount, error) {
	const op = "identity.list_users"
	resp, err := c.do(ctx, http.MethodGet, "/admin/users", nil)
	if err != nil {
		return nil, transportError(op, err)
	}

	var body listUsersResponse
	if err := decodeResponse(op, resp, &body); err != nil {
		return nil, err
	}

	accounts := make([]model.UserAccount, 0, len(body.Users))
	for _, u := range body.Users {
		accounts = append(accounts, u.toAccount())
	}
	c.log.Debug().Int("count", len(accounts)).Msg("Listed identity users")
	return accounts, nil
}

// DeleteUser removes an account from the identity service.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	const op = "identity.delete_user"
	resp, err := c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil)
	if err != nil {
		return transportError(op, err)
	}
	return decodeResponse(op, resp, nil)
}

// UpdateUserMetadata replaces the given user_metadata keys and returns the updated account.
func (c *Client) UpdateUserMetadata(ctx context.Context, id string, fields map[string]any) (*model.UserAccount, error) {
	const op = "identity.update_metadata"
	resp, err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), updateUserRequest{UserMetadata: fields})
	if err != nil {
		return nil, transportError(op, err)
	}

	var u remoteUser
	if err := decodeResponse(op, resp, &u); err != nil {
		return nil, err
	}
	acc := u.toAccount()
	return &acc, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.E(apperr.KindTimeout, op, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return apperr.E(apperr.KindTimeout, op, err)
	}
	return apperr.E(apperr.KindUnavailable, op, err)
}

// decodeResponse maps the status code to a kind and decodes a 2xx body into target.
func decodeResponse(op string, resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		cause := fmt.Errorf("identity service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return apperr.E(apperr.KindNotFound, op, errors.Join(gateway.ErrNotFound, cause))
		case resp.StatusCode == http.StatusGatewayTimeout:
			return apperr.E(apperr.KindTimeout, op, cause)
		case resp.StatusCode >= 500:
			return apperr.E(apperr.KindUnavailable, op, cause)
		default:
			return apperr.E(apperr.KindSystem, op, cause)
		}
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return apperr.E(apperr.KindSystem, op, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}
