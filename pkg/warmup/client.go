// Package warmup implements a client for the My Warmup cloud API, which
// manages networked room thermostats.
//
// It provides:
//   - Username/password authentication with cached session tokens
//   - Bounded retry on authentication failure (no backoff)
//   - Status queries for all locations, rooms and thermostats on the account
//   - Temperature override and frost protection mutations
//
// The vendor API is GraphQL-flavoured: every call is an HTTP POST carrying a
// query string, authenticated with a session token issued by a separate
// token endpoint. A 401 or an application-level non-success status
// invalidates the cached token so the next call re-authenticates.
//
// All calls through one Client instance are serialized: the vendor API does
// not tolerate concurrent requests against the same session.
package warmup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/cmartindale/warmup-prometheus-exporter/pkg/logger"
)

// statusQuery requests every location, room and thermostat serial on the account
const statusQuery = "query QUERY { user { locations{ id name " +
	" rooms { id roomName runMode overrideDur targetTemp currentTemp " +
	" thermostat4ies{ deviceSN }}}}}"

// Doer is the HTTP transport consumed by the client. *http.Client satisfies
// it; tests inject fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a My Warmup API client owning one authentication session.
// It is safe for concurrent use; concurrent calls serialize rather than
// race on the session token.
type Client struct {
	httpClient Doer
	log        *logger.Logger
	session    *session

	// endpoints are fields so tests can point the client at a local server
	appEndpoint   string
	queryEndpoint string

	// mu serializes the check-token, authenticate-if-needed, perform-call
	// sequence of each domain operation. callMu serializes the raw HTTP
	// exchange itself (authentication included). Lock order: mu then callMu.
	mu     sync.Mutex
	callMu sync.Mutex
}

// NewClient creates a My Warmup client for the given account credentials
func NewClient(creds Credentials) *Client {
	return NewClientWithLogger(creds, nil)
}

// NewClientWithLogger creates a My Warmup client with logging
func NewClientWithLogger(creds Credentials, log *logger.Logger) *Client {
	// Use noop logger if none provided
	if log == nil {
		noop, _ := logger.NewWithWriter("error", "text", io.Discard)
		log = noop
	}

	return &Client{
		httpClient:    &http.Client{Timeout: callTimeout},
		log:           log,
		session:       newSession(creds),
		appEndpoint:   AppEndpoint,
		queryEndpoint: QueryEndpoint,
	}
}

// SetConfiguration replaces the account credentials. The cached token is
// cleared unconditionally so the next call re-authenticates with the new
// credentials.
func (c *Client) SetConfiguration(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.setConfiguration(creds)
}

// GetStatus queries the API for the status of every location, room and
// thermostat on the account.
//
// A nil response with a nil error means the call was skipped: either the
// session was not ready (a soft authentication failure) or the API reported
// a non-success status, in which case the token has been invalidated.
// Callers must treat it as "try again later", not as a hard error.
func (c *Client) GetStatus(ctx context.Context) (*QueryResponse, error) {
	return c.callGraphQL(ctx, statusQuery)
}

// SetOverride sets a temporary temperature override on a room. The
// temperature is in degrees and is converted to the vendor's fixed-point
// representation; the override expires after the given number of minutes.
func (c *Client) SetOverride(ctx context.Context, locationID, roomID string, temperature float64, minutes int) error {
	_, err := c.callGraphQL(ctx, fmt.Sprintf("mutation{deviceOverride(lid:%s,rid:%s,temperature:%d,minutes:%d)}",
		locationID, roomID, EncodeTemperature(temperature), minutes))
	return err
}

// ToggleFrostProtection toggles frost protection mode on a room: off when
// the command is currently on, on when it is currently off.
func (c *Client) ToggleFrostProtection(ctx context.Context, locationID, roomID string, command OnOff) error {
	direction := "On"
	if command == On {
		direction = "Off"
	}
	_, err := c.callGraphQL(ctx, fmt.Sprintf("mutation{turn%s(lid:%s,rid:%s){id}}", direction, locationID, roomID))
	return err
}

// callGraphQL ensures a session, dispatches one GraphQL-style call and
// decodes the response. On a non-success application-level status, or when
// the session could not be established softly, the token is invalidated and
// (nil, nil) is returned.
func (c *Client) callGraphQL(ctx context.Context, query string) (*QueryResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok, err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	if ok {
		body, err := json.Marshal(graphQLRequest{Query: query})
		if err != nil {
			return nil, &APICallError{Err: err}
		}

		data, err := c.call(ctx, c.queryEndpoint, body, true)
		if err != nil {
			return nil, err
		}

		var qr QueryResponse
		if err := json.Unmarshal(data, &qr); err != nil {
			c.session.invalidate()
			return nil, &APICallError{Err: err}
		}

		if qr.Status == "success" {
			return &qr, nil
		}
	}

	c.session.invalidate()
	return nil, nil
}

// ensureAuthenticated reports whether a usable token is present or was just
// obtained. It returns (false, nil) on a soft authentication failure within
// the retry budget and a terminal AuthenticationError once the budget is
// exceeded. When a token is already held no network call is made.
func (c *Client) ensureAuthenticated(ctx context.Context) (bool, error) {
	if c.session.hasToken() {
		return true, nil
	}
	return c.authenticate(ctx)
}

// authenticate performs one authentication attempt against the app endpoint
func (c *Client) authenticate(ctx context.Context) (bool, error) {
	body, err := json.Marshal(c.session.authRequest())
	if err != nil {
		return false, c.session.recordFailure(err.Error())
	}

	data, err := c.call(ctx, c.appEndpoint, body, false)
	if err != nil {
		c.log.Debug("Authentication callout failed", "error", err.Error())
		return false, c.session.recordFailure(err.Error())
	}

	var ar authResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return false, c.session.recordFailure(err.Error())
	}

	if ar.Status.Result != "success" {
		c.log.Debug("Authentication failure", "body", string(data))
		return false, c.session.recordFailure("Authentication Failed")
	}

	c.session.setToken(ar.Response.Token)
	return true, nil
}

// call performs one HTTP exchange with the vendor API. On 401 the session
// token is invalidated as a side effect. Any non-200 outcome or transport
// fault is an APICallError; retry policy lives one level up.
func (c *Client) call(ctx context.Context, endpoint string, body []byte, authenticated bool) ([]byte, error) {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &APICallError{Err: err}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAppToken, appToken)
	if authenticated {
		req.Header.Set(headerAuthorization, c.session.currentToken())
	}

	c.log.Debug("Sending body to My Warmup", "endpoint", endpoint, "body", string(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APICallError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APICallError{Err: err}
	}

	c.log.Debug("Response from My Warmup", "status", resp.StatusCode, "body", string(data))

	if resp.StatusCode == http.StatusOK {
		return data, nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.session.invalidate()
	}
	return nil, &APICallError{Message: "Callout failed"}
}
