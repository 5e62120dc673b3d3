// GO TESTING BASICS:
// 1. Test files MUST end in _test.go — Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
// 4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string // Descriptive name for test output
		err       error  // The error to test
		target    error  // What we expect it to match
		wantMatch bool   // Should errors.Is() return true?
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("submission", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("resource-title", "title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "ParseFailed wraps ErrParse",
			err:       ParseFailed(errors.New("unexpected end of JSON input")),
			target:    ErrParse,
			wantMatch: true,
		},
		{
			name:      "PublishFailed wraps ErrPublish",
			err:       PublishFailed("creating branch", errors.New("403 Forbidden")),
			target:    ErrPublish,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("login required"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "PublishFailed does NOT match ErrParse",
			err:       PublishFailed("creating pull request", errors.New("rate limited")),
			target:    ErrParse,
			wantMatch: false,
		},
		{
			name:      "ValidationFailed does NOT match ErrNotFound",
			err:       ValidationFailed("resource-url", "url is required"),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("submission", "abc123"),
			wantMessage: "submission not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("resource-title", "title is required"),
			wantMessage: "title is required",
		},
		{
			name:        "PublishFailed message is generic",
			err:         PublishFailed("creating branch", errors.New("secret token leaked here")),
			wantMessage: "An error occurred while processing your submission.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// .Error() should return the human-readable message
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

// TestPublishFailedHidesCause is the propagation policy in miniature: the raw
// cause (which can include API response bodies) must be reachable through
// Unwrap for logging, but absent from the caller-facing message.
func TestPublishFailedHidesCause(t *testing.T) {
	cause := errors.New("POST https://api.github.com/...: 401 Bad credentials")
	err := PublishFailed("committing dataset", cause)

	if got := err.Error(); got != "An error occurred while processing your submission." {
		t.Errorf("Error() leaked detail: %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should remain in the wrapped chain for operator logs")
	}
}

func TestUnwrap(t *testing.T) {
	// Verify that Unwrap() returns the underlying sentinel error.
	// This is what makes errors.Is() work — it "unwraps" the chain.
	err := NotFound("submission", "abc123")
	unwrapped := err.Unwrap()

	if !errors.Is(unwrapped, ErrNotFound) {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	// Verify that the Field is set correctly for validation errors.
	// This lets handlers tell the frontend WHICH field was invalid.
	err := ValidationFailed("resource-url", "url must be absolute")

	if err.Field != "resource-url" {
		t.Errorf("Field = %q, want %q", err.Field, "resource-url")
	}
}
