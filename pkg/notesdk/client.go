package notesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DeviceInfoHeader carries the DeviceInfo JSON on auth endpoints.
const DeviceInfoHeader = "x-device-info"

// Client is a session-managed client for the jotter API.
//
// The access token is held in memory only. The refresh token never passes
// through this package at all; the server delivers it as an HttpOnly
// cookie, which the client's cookie jar sends back on refresh and logout.
// When the server rejects an access token, the client refreshes once and
// retries the request; concurrent rejections share a single refresh.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Device identifies this client to the server. Sessions are scoped
	// per device, so keep the DeviceID stable across runs (see
	// LoadOrCreateDeviceInfo).
	Device DeviceInfo

	mu          sync.RWMutex
	accessToken string
	user        *User

	refreshGroup singleflight.Group
}

// NewClient creates a client for the jotter API at baseURL. The built-in
// http.Client carries an in-memory cookie jar; swap HTTPClient for one
// with a persistent jar to keep sessions across process restarts.
func NewClient(baseURL string, device DeviceInfo) *Client {
	jar, _ := cookiejar.New(nil)

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
		Device: device,
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// deviceHeaders returns the headers auth endpoints require.
func (c *Client) deviceHeaders() map[string]string {
	data, _ := json.Marshal(c.Device)
	return map[string]string{DeviceInfoHeader: string(data)}
}

func bearerHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// do performs a request and returns the status code and raw body. The body
// argument is marshalled to JSON when non-nil.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	headers map[string]string,
) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("notesdk: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("notesdk: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("notesdk: send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("notesdk: read response: %w", err)
	}

	return resp.StatusCode, payload, nil
}

// callOpen performs an unauthenticated request and decodes the envelope.
func (c *Client) callOpen(
	ctx context.Context,
	method, path string,
	body any,
	headers map[string]string,
	out any,
	expectedStatus int,
) error {
	status, payload, err := c.do(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	if status != expectedStatus {
		return parseAPIError(status, payload)
	}
	return decodeData(payload, out)
}

// callAuth performs an authenticated request. A 401 answer triggers one
// refresh and one retry with the rotated token; if the refresh fails too,
// local auth state is dropped and the original rejection is returned.
func (c *Client) callAuth(
	ctx context.Context,
	method, path string,
	body any,
	out any,
	expectedStatus int,
) error {
	token := c.AccessToken()
	if token == "" {
		return ErrNotAuthenticated
	}

	status, payload, err := c.do(ctx, method, path, body, bearerHeaders(token))
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if refreshErr := c.sharedRefresh(ctx, token); refreshErr != nil {
			c.clearAuth()
			return parseAPIError(status, payload)
		}

		status, payload, err = c.do(ctx, method, path, body, bearerHeaders(c.AccessToken()))
		if err != nil {
			return err
		}
	}

	if status != expectedStatus {
		return parseAPIError(status, payload)
	}
	return decodeData(payload, out)
}

// sharedRefresh collapses concurrent refresh attempts into one request.
// Callers pass the token they saw rejected; when another caller already
// rotated past it, the flight returns without touching the network.
func (c *Client) sharedRefresh(ctx context.Context, staleToken string) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		if current := c.AccessToken(); current != "" && current != staleToken {
			return nil, nil
		}
		return nil, c.refreshOnce(ctx)
	})
	return err
}

// refreshOnce exchanges the refresh cookie for a new token pair. The jar
// picks up the replacement cookie from the response automatically.
func (c *Client) refreshOnce(ctx context.Context) error {
	status, payload, err := c.do(ctx, http.MethodPost, "/refresh-token", nil, c.deviceHeaders())
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return parseAPIError(status, payload)
	}

	var data AuthData
	if err := decodeData(payload, &data); err != nil {
		return err
	}

	c.setAuth(data.AccessToken, data.User)
	return nil
}

// decodeData unwraps the envelope and decodes its data payload into out.
func decodeData(payload []byte, out any) error {
	if out == nil {
		return nil
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("notesdk: decode response: %w", err)
	}
	if env.Data == nil {
		return fmt.Errorf("notesdk: response has no data payload")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("notesdk: decode response data: %w", err)
	}
	return nil
}

func (c *Client) setAuth(token string, user User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
	c.user = &user
}

func (c *Client) clearAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.user = nil
}

// AccessToken returns the current access token, or "" when signed out.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetAccessToken seeds the client with an access token obtained elsewhere,
// e.g. carried over from a previous process. The token is used as-is until
// the server rejects it, at which point the usual refresh flow takes over.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// User returns the profile cached from the last signup, login or refresh
// response, or nil when signed out.
func (c *Client) User() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}
