package warmup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer bundles an httptest server posing as both Warmup endpoints with
// counters and captures for the requests it saw
type testServer struct {
	server *httptest.Server

	authCalls  atomic.Int64
	queryCalls atomic.Int64

	lastAuthRequest authRequest
	lastQuery       string
	lastAuthHeader  string
	lastAppToken    string
	lastUserAgent   string
	lastContentType string

	authHandler  func(w http.ResponseWriter, r *http.Request)
	queryHandler func(w http.ResponseWriter, r *http.Request)
}

// newTestServer starts a server whose default handlers authenticate
// successfully with token "abc" and answer queries with an empty success
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{}
	ts.authHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"result":"success"},"response":{"token":"abc"}}`))
	}
	ts.queryHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/app", func(w http.ResponseWriter, r *http.Request) {
		ts.authCalls.Add(1)
		_ = json.NewDecoder(r.Body).Decode(&ts.lastAuthRequest)
		ts.captureHeaders(r)
		ts.authHandler(w, r)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		ts.queryCalls.Add(1)
		var gr graphQLRequest
		_ = json.NewDecoder(r.Body).Decode(&gr)
		ts.lastQuery = gr.Query
		ts.captureHeaders(r)
		ts.queryHandler(w, r)
	})

	ts.server = httptest.NewServer(mux)
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) captureHeaders(r *http.Request) {
	ts.lastAuthHeader = r.Header.Get(headerAuthorization)
	ts.lastAppToken = r.Header.Get(headerAppToken)
	ts.lastUserAgent = r.Header.Get("User-Agent")
	ts.lastContentType = r.Header.Get("Content-Type")
}

// newTestClient creates a client pointed at the test server
func newTestClient(ts *testServer) *Client {
	c := NewClient(Credentials{Username: "user@example.com", Password: "secret"})
	c.appEndpoint = ts.server.URL + "/app"
	c.queryEndpoint = ts.server.URL + "/graphql"
	return c
}

// TestGetStatus_AuthenticatesThenQueries tests the happy path: a fresh client
// authenticates, dispatches the query with the issued token and returns the
// parsed location data
func TestGetStatus_AuthenticatesThenQueries(t *testing.T) {
	ts := newTestServer(t)
	ts.queryHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"user":{"locations":[
			{"id":100,"name":"Home","rooms":[
				{"id":200,"roomName":"Bathroom","runMode":"prog","overrideDur":0,
				 "targetTemp":210,"currentTemp":215,"thermostat4ies":[{"deviceSN":"SN-1"}]}
			]}]}}}`))
	}
	c := newTestClient(ts)

	status, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status)

	// Auth request body carries the fixed method and app identifier
	assert.Equal(t, "user@example.com", ts.lastAuthRequest.Username)
	assert.Equal(t, "secret", ts.lastAuthRequest.Password)
	assert.Equal(t, "userLogin", ts.lastAuthRequest.Method)
	assert.Equal(t, "WARMUP-APP-V001", ts.lastAuthRequest.AppID)

	// Query was dispatched with the issued token and fixed headers
	assert.Equal(t, "abc", ts.lastAuthHeader)
	assert.Equal(t, appToken, ts.lastAppToken)
	assert.Equal(t, "WARMUP_APP", ts.lastUserAgent)
	assert.Equal(t, "application/json", ts.lastContentType)

	// Parsed payload
	require.Len(t, status.Data.User.Locations, 1)
	location := status.Data.User.Locations[0]
	assert.Equal(t, 100, location.ID)
	assert.Equal(t, "Home", location.Name)
	require.Len(t, location.Rooms, 1)
	room := location.Rooms[0]
	assert.Equal(t, "Bathroom", room.Name)
	assert.Equal(t, 215, room.CurrentTemp)
	assert.Equal(t, "SN-1", room.Thermostats[0].DeviceSN)
}

// TestGetStatus_TokenReused tests that a held token is reused without a
// redundant authentication call
func TestGetStatus_TokenReused(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	for i := 0; i < 3; i++ {
		_, err := c.GetStatus(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), ts.authCalls.Load())
	assert.Equal(t, int64(3), ts.queryCalls.Load())
}

// TestGetStatus_AuthSoftFailureWithinBudget tests that the first two
// authentication failures are swallowed and reported as "no result"
func TestGetStatus_AuthSoftFailureWithinBudget(t *testing.T) {
	ts := newTestServer(t)
	ts.authHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"result":"error"}}`))
	}
	c := newTestClient(ts)

	for i := 0; i < 2; i++ {
		status, err := c.GetStatus(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, status)
	}

	assert.False(t, c.session.hasToken())
	assert.Equal(t, int64(0), ts.queryCalls.Load())
}

// TestGetStatus_AuthTerminalFailureOnThirdAttempt tests that the third
// consecutive authentication failure raises AuthenticationError
func TestGetStatus_AuthTerminalFailureOnThirdAttempt(t *testing.T) {
	ts := newTestServer(t)
	ts.authHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"result":"error"}}`))
	}
	c := newTestClient(ts)

	for i := 0; i < 2; i++ {
		_, err := c.GetStatus(context.Background())
		require.NoError(t, err)
	}

	_, err := c.GetStatus(context.Background())
	require.Error(t, err)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Authentication Failed", authErr.Reason)
	assert.Equal(t, int64(3), ts.authCalls.Load())
}

// TestGetStatus_AuthSuccessResetsFailCounter tests that a success between
// failures resets the budget
func TestGetStatus_AuthSuccessResetsFailCounter(t *testing.T) {
	ts := newTestServer(t)
	fail := true
	ts.authHandler = func(w http.ResponseWriter, r *http.Request) {
		if fail {
			_, _ = w.Write([]byte(`{"status":{"result":"error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":{"result":"success"},"response":{"token":"abc"}}`))
	}
	c := newTestClient(ts)

	// Two soft failures
	for i := 0; i < 2; i++ {
		_, err := c.GetStatus(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.session.failures())

	// Success resets the counter
	fail = false
	_, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.session.failures())
}

// TestGetStatus_Unauthorized tests that a 401 on a query raises APICallError
// and clears the token so the next call re-authenticates
func TestGetStatus_Unauthorized(t *testing.T) {
	ts := newTestServer(t)
	unauthorized := true
	ts.queryHandler = func(w http.ResponseWriter, r *http.Request) {
		if unauthorized {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}
	c := newTestClient(ts)

	_, err := c.GetStatus(context.Background())
	require.Error(t, err)

	var callErr *APICallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "Callout failed", callErr.Error())
	assert.False(t, c.session.hasToken())

	// Next call re-authenticates before proceeding
	unauthorized = false
	status, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, int64(2), ts.authCalls.Load())
}

// TestGetStatus_NonSuccessStatusInvalidatesToken tests that an
// application-level non-success status returns no result and clears the token
func TestGetStatus_NonSuccessStatusInvalidatesToken(t *testing.T) {
	ts := newTestServer(t)
	ts.queryHandler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}
	c := newTestClient(ts)

	status, err := c.GetStatus(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, status)
	assert.False(t, c.session.hasToken())
}

// TestGetStatus_ServerError tests that a 500 raises APICallError without
// clearing the token
func TestGetStatus_ServerError(t *testing.T) {
	ts := newTestServer(t)
	ts.queryHandler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	c := newTestClient(ts)

	_, err := c.GetStatus(context.Background())
	require.Error(t, err)

	var callErr *APICallError
	require.ErrorAs(t, err, &callErr)
	assert.True(t, c.session.hasToken())
}

// TestGetStatus_TransportFault tests that a network-level fault surfaces as
// APICallError carrying the underlying cause
func TestGetStatus_TransportFault(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)
	ts.server.Close()

	// The failed callout counts against the authentication budget
	status, err := c.GetStatus(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, status)
	assert.Equal(t, 1, c.session.failures())
}

// TestSetOverride_EncodesTemperature tests that the override mutation carries
// the fixed-point temperature and duration
func TestSetOverride_EncodesTemperature(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	err := c.SetOverride(context.Background(), "123", "456", 21.5, 60)
	require.NoError(t, err)

	assert.Equal(t, "mutation{deviceOverride(lid:123,rid:456,temperature:215,minutes:60)}", ts.lastQuery)
}

// TestToggleFrostProtection tests that the mutation direction is the inverse
// of the current command
func TestToggleFrostProtection(t *testing.T) {
	tests := []struct {
		name     string
		command  OnOff
		expected string
	}{
		{
			name:     "Currently on turns off",
			command:  On,
			expected: "mutation{turnOff(lid:123,rid:456){id}}",
		},
		{
			name:     "Currently off turns on",
			command:  Off,
			expected: "mutation{turnOn(lid:123,rid:456){id}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			c := newTestClient(ts)

			err := c.ToggleFrostProtection(context.Background(), "123", "456", tt.command)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ts.lastQuery)
		})
	}
}

// TestSetConfiguration_ClearsToken tests that replacing the credentials
// always clears the token and the next call authenticates with the new ones
func TestSetConfiguration_ClearsToken(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	_, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	require.True(t, c.session.hasToken())

	c.SetConfiguration(Credentials{Username: "new@example.com", Password: "changed"})
	assert.False(t, c.session.hasToken())

	_, err = c.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", ts.lastAuthRequest.Username)
	assert.Equal(t, int64(2), ts.authCalls.Load())
}

// TestGetStatus_SendsFixedQuery tests that the status query requests
// locations, rooms and thermostat serials
func TestGetStatus_SendsFixedQuery(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(ts)

	_, err := c.GetStatus(context.Background())
	require.NoError(t, err)

	assert.Contains(t, ts.lastQuery, "locations{ id name")
	assert.Contains(t, ts.lastQuery, "rooms { id roomName runMode overrideDur targetTemp currentTemp")
	assert.Contains(t, ts.lastQuery, "thermostat4ies{ deviceSN }")
}

// TestAuthEndpointUnauthenticated tests that the authentication call itself
// carries no authorization header
func TestAuthEndpointUnauthenticated(t *testing.T) {
	ts := newTestServer(t)
	var sawAuthHeader bool
	ts.authHandler = func(w http.ResponseWriter, r *http.Request) {
		sawAuthHeader = r.Header.Get(headerAuthorization) != ""
		_, _ = w.Write([]byte(`{"status":{"result":"success"},"response":{"token":"abc"}}`))
	}
	c := newTestClient(ts)

	_, err := c.GetStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, sawAuthHeader)
}
