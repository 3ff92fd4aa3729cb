// Package model defines the error taxonomy shared by the hey packages
// and the exit codes the CLI maps them to.
package model

import (
	"errors"
	"fmt"
)

// Exit codes returned by the hey binary
const (
	ExitOK            = 0
	ExitFailure       = 1 // Any error outside the taxonomy below
	ExitUsage         = 2
	ExitConfiguration = 3
	ExitSearch        = 4
	ExitResponseShape = 5
	ExitChat          = 6
)

// Sentinel errors, usable with errors.Is
var (
	ErrMissingConfig = errors.New("missing required configuration")
	ErrEmptyQuery    = errors.New("query text cannot be empty")
	ErrMissingItems  = errors.New("response has no items field")
)

// ConfigurationError reports a required setting that is absent or invalid.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: %s is not set", e.Key)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

// Is lets errors.Is(err, ErrMissingConfig) match missing-variable errors.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrMissingConfig && e.Reason == ""
}

// ExitCode returns the process exit status for this error
func (e *ConfigurationError) ExitCode() int { return ExitConfiguration }

// UsageError reports malformed command-line input.
type UsageError struct {
	Msg string
	Err error
}

func (e *UsageError) Error() string {
	if e.Msg == "" && e.Err != nil {
		return "usage: " + e.Err.Error()
	}
	return "usage: " + e.Msg
}

func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status for this error
func (e *UsageError) ExitCode() int { return ExitUsage }

// SearchError reports a search API transport failure or a non-success status.
// StatusCode is 0 when no HTTP response was received.
type SearchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SearchError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("search: server returned %d: %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("search: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("search: request failed: %v", e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status for this error
func (e *SearchError) ExitCode() int { return ExitSearch }

// ResponseShapeError reports a search response that does not decode into
// the expected shape.
type ResponseShapeError struct {
	Detail string
	Err    error
}

func (e *ResponseShapeError) Error() string {
	msg := "search: unexpected response shape"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResponseShapeError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status for this error
func (e *ResponseShapeError) ExitCode() int { return ExitResponseShape }

// ChatError reports a chat completion failure, before or during streaming.
type ChatError struct {
	StatusCode int
	Err        error
}

func (e *ChatError) Error() string {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return fmt.Sprintf("chat: authentication failed (%d): %v", e.StatusCode, e.Err)
	case e.StatusCode == 429:
		return fmt.Sprintf("chat: rate limit or quota exceeded: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("chat: server returned %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("chat: %v", e.Err)
}

func (e *ChatError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status for this error
func (e *ChatError) ExitCode() int { return ExitChat }

// ExitCode maps any error to a process exit status. nil maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return ExitFailure
}
