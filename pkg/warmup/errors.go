package warmup

// AuthenticationError is returned once the authentication failure budget is
// exhausted. It is terminal: the client will not recover until
// SetConfiguration supplies new credentials.
type AuthenticationError struct {
	// Reason is the message of the last failed authentication attempt
	Reason string
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

// APICallError is returned for any non-200 HTTP outcome or transport fault.
// It is recoverable: callers may retry the whole operation later.
type APICallError struct {
	// Message describes the failure when no underlying error is available
	Message string

	// Err is the underlying transport error, if any
	Err error
}

// Error implements the error interface
func (e *APICallError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying transport error
func (e *APICallError) Unwrap() error {
	return e.Err
}
