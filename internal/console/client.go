package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/google/uuid"
)

// Client is the typed HTTP client for the user store. It knows the
// legacy wire envelopes ({results}, {users}, {message,error}) and
// turns non-2xx responses into APIError values instead of logging.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken sets the bearer token forwarded on every request, used by
// the authenticated /api/user route.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

type listEnvelope struct {
	Results []user.User `json:"results"`
}

type getEnvelope struct {
	Users user.User `json:"users"`
}

type messageEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var out listEnvelope

	err := c.do(ctx, http.MethodGet, "/api/users", nil, http.StatusOK, &out)

	if err != nil {
		return nil, err
	}

	return out.Results, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (user.User, error) {
	var out getEnvelope

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, http.StatusOK, &out)

	if err != nil {
		return user.User{}, err
	}

	return out.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, name, email, password string) (user.User, error) {
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	var out user.User

	err := c.do(ctx, http.MethodPost, "/api/addnew", payload, http.StatusCreated, &out)

	if err != nil {
		return user.User{}, err
	}

	return out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, name, email string) error {
	payload := map[string]string{
		"name":  name,
		"email": email,
	}

	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/usersupdate/%d", id), payload, http.StatusOK, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/usersdelete/%d", id), nil, http.StatusOK, nil)
}

// CurrentUser returns the authenticated principal. Requires a token.
func (c *Client) CurrentUser(ctx context.Context) (user.User, error) {
	var out user.User

	err := c.do(ctx, http.MethodGet, "/api/user", nil, http.StatusOK, &out)

	if err != nil {
		return user.User{}, err
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader

	if payload != nil {
		b, err := json.Marshal(payload)

		if err != nil {
			return err
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)

	if err != nil {
		return err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	var env messageEnvelope

	// best effort; the body may not be the message envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)

	msg := env.Message

	if env.Error != "" {
		msg = msg + ": " + env.Error
	}

	return &APIError{
		Status:  resp.StatusCode,
		Message: msg,
	}
}
