package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production API root of the booking platform.
const DefaultBaseURL = "https://urbansportsclub.com/api"

const (
	loginEndpoint    = "/auth/login"
	refreshEndpoint  = "/auth/refresh"
	classesEndpoint  = "/classes"
	bookingsEndpoint = "/bookings"

	defaultRequestTimeout = 30 * time.Second
)

var (
	// ErrAuthentication is returned when login or token refresh is rejected.
	ErrAuthentication = errors.New("platform: authentication failed")
	// ErrTokenExpired is returned when a call is rejected with a 401.
	ErrTokenExpired = errors.New("platform: access token expired")
)

// TokenPair carries the credential pair issued by a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ClassRecord is the wire representation of one bookable class.
type ClassRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	Activity       string `json:"activity"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	AvailableSlots int    `json:"available_slots"`
	TotalSlots     int    `json:"total_slots"`
	Instructor     string `json:"instructor"`
}

// Client issues HTTP calls against the booking platform. Every request runs
// under the configured timeout so a degraded platform cannot stall a cycle
// indefinitely.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a Client. An empty baseURL selects the production API;
// a non-positive timeout selects the 30 second default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Login exchanges primary credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.postJSON(ctx, loginEndpoint, body, nil)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer discardBody(resp)

	if resp.StatusCode != http.StatusOK {
		return TokenPair{}, fmt.Errorf("%w: status %d: %s", ErrAuthentication, resp.StatusCode, readErrorText(resp))
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return TokenPair{}, fmt.Errorf("%w: decoding login response: %v", ErrAuthentication, err)
	}
	return pair, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := c.postJSON(ctx, refreshEndpoint, body, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer discardBody(resp)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: refresh status %d: %s", ErrAuthentication, resp.StatusCode, readErrorText(resp))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decoding refresh response: %v", ErrAuthentication, err)
	}
	return payload.AccessToken, nil
}

// FetchClasses lists class records within the date window. Bounds are sent as
// ISO-8601 query parameters.
func (c *Client) FetchClasses(ctx context.Context, start, end time.Time, headers map[string]string) ([]ClassRecord, error) {
	query := url.Values{}
	query.Set("start_date", start.Format(time.RFC3339))
	query.Set("end_date", end.Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+classesEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	applyHeaders(req, headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer discardBody(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrTokenExpired, readErrorText(resp))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching classes: status %d: %s", resp.StatusCode, readErrorText(resp))
	}

	var payload struct {
		Classes []ClassRecord `json:"classes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding classes response: %w", err)
	}
	return payload.Classes, nil
}

// BookClass requests a reservation for the class. Any 2xx status confirms the
// booking; a 401 reports token expiry to the caller.
func (c *Client) BookClass(ctx context.Context, classID, clientReference string, headers map[string]string) error {
	body := map[string]string{
		"class_id":         classID,
		"client_reference": clientReference,
	}
	resp, err := c.postJSON(ctx, bookingsEndpoint, body, headers)
	if err != nil {
		return err
	}
	defer discardBody(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrTokenExpired, readErrorText(resp))
	}
	return fmt.Errorf("booking class %s: status %d: %s", classID, resp.StatusCode, readErrorText(resp))
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any, headers map[string]string) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	applyHeaders(req, headers)
	return c.httpClient.Do(req)
}

// CloseIdleConnections releases any pooled transport connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

func applyHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

func readErrorText(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return resp.Status
	}
	return string(data)
}

func discardBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
