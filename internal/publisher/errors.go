package publisher

import "fmt"

// AuthError reports a missing or rejected hub credential. Credential
// problems are surfaced before any remote mutation is attempted.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hub authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("hub authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// UploadError reports a failed repo creation or commit against the hub.
type UploadError struct {
	Repo string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload dataset to %s: %v", e.Repo, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
