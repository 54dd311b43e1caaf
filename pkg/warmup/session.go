package warmup

import "sync"

// session owns the mutable authentication state of one client instance:
// the current token, the stored credentials, and the consecutive failure
// counter. All access goes through the mutex so that a token fetched by one
// goroutine is never observed half-written by another.
type session struct {
	mu        sync.Mutex
	creds     Credentials
	token     string
	failCount int
}

// newSession creates session state for the given credentials
func newSession(creds Credentials) *session {
	return &session{creds: creds}
}

// hasToken reports whether a session token is currently held
func (s *session) hasToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// currentToken returns the held token, or the empty string when absent
func (s *session) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// setToken stores a freshly issued token and resets the failure counter
func (s *session) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.failCount = 0
}

// invalidate discards the held token. The next call through the client will
// re-authenticate before proceeding.
func (s *session) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// setConfiguration swaps the stored credentials and unconditionally clears
// the token, forcing re-authentication with the new credentials
func (s *session) setConfiguration(creds Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.creds = creds
}

// authRequest builds the authentication payload from the stored credentials
func (s *session) authRequest() authRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return authRequest{
		Username: s.creds.Username,
		Password: s.creds.Password,
		Method:   authMethod,
		AppID:    authAppID,
	}
}

// recordFailure increments the consecutive failure counter. While the counter
// is within the budget it returns nil (soft failure, retried on the next
// invocation); once the budget is exceeded it returns a terminal
// AuthenticationError carrying the failure reason.
func (s *session) recordFailure(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCount++
	if s.failCount > authFailureBudget {
		return &AuthenticationError{Reason: reason}
	}
	return nil
}

// failures returns the current consecutive failure count
func (s *session) failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failCount
}
