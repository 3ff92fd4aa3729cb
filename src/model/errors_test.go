package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"usage", &UsageError{Msg: "bad"}, ExitUsage},
		{"configuration", &ConfigurationError{Key: "GCSE_ID"}, ExitConfiguration},
		{"search", &SearchError{StatusCode: 500}, ExitSearch},
		{"shape", &ResponseShapeError{Err: ErrMissingItems}, ExitResponseShape},
		{"chat", &ChatError{Err: errors.New("eof")}, ExitChat},
		{"wrapped", fmt.Errorf("run: %w", &SearchError{Err: errors.New("dial")}), ExitSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigurationErrorIs(t *testing.T) {
	err := fmt.Errorf("load: %w", &ConfigurationError{Key: "GCSE_API_KEY"})
	if !errors.Is(err, ErrMissingConfig) {
		t.Error("missing key should match ErrMissingConfig")
	}
	invalid := &ConfigurationError{Key: "HEY_TIMEOUT", Reason: "not a number"}
	if errors.Is(invalid, ErrMissingConfig) {
		t.Error("invalid value should not match ErrMissingConfig")
	}
	if !strings.Contains(err.Error(), "GCSE_API_KEY") {
		t.Errorf("Error() = %q, should name the key", err.Error())
	}
}

func TestResponseShapeErrorUnwrap(t *testing.T) {
	err := &ResponseShapeError{Detail: "decode", Err: ErrMissingItems}
	if !errors.Is(err, ErrMissingItems) {
		t.Error("should unwrap to ErrMissingItems")
	}
}

func TestSearchErrorMessage(t *testing.T) {
	tests := []struct {
		err  *SearchError
		want string
	}{
		{&SearchError{StatusCode: 403, Body: "forbidden"}, "search: server returned 403: forbidden"},
		{&SearchError{StatusCode: 500}, "search: server returned 500"},
		{&SearchError{Err: errors.New("dial tcp")}, "search: request failed: dial tcp"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestChatErrorMessage(t *testing.T) {
	cause := errors.New("denied")
	tests := []struct {
		status int
		want   string
	}{
		{401, "authentication failed"},
		{429, "rate limit"},
		{500, "server returned 500"},
		{0, "chat: denied"},
	}
	for _, tt := range tests {
		err := &ChatError{StatusCode: tt.status, Err: cause}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("status %d: Error() = %q, want substring %q", tt.status, err.Error(), tt.want)
		}
		if !errors.Is(err, cause) {
			t.Errorf("status %d: should unwrap to cause", tt.status)
		}
	}
}
