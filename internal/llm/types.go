// Package llm is the boundary to the external generation provider. The
// rest of the pipeline composes a prompt; this package delivers it and
// normalizes the result into either text or a typed GenerationError.
package llm

import (
	"context"
	"fmt"
)

// Request carries one composed prompt and its generation parameters.
// Single attempt per call: no retries, no bespoke timeout.
type Request struct {
	Prompt          string
	Temperature     float64
	TopK            float64
	TopP            float64
	MaxOutputTokens int32
}

// Provider generates a text completion for a composed prompt. Failures are
// returned as *GenerationError; implementations never panic on malformed
// provider responses.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrorKind distinguishes the two failure classes the caller renders
// differently.
type ErrorKind int

const (
	// ErrKindRequestFailed covers transport errors, non-OK statuses, and
	// anything the provider client raises.
	ErrKindRequestFailed ErrorKind = iota
	// ErrKindEmptyResponse covers responses whose first candidate carries
	// no text (blocked or malformed content).
	ErrKindEmptyResponse
)

// GenerationError is the typed failure a Provider returns. The assistant
// layer decides how it surfaces to the user.
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case ErrKindEmptyResponse:
		return "provider returned no usable candidate text"
	default:
		if e.Err != nil {
			return fmt.Sprintf("generation request failed: %v", e.Err)
		}
		return "generation request failed"
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// RequestFailed wraps a transport or API error.
func RequestFailed(err error) *GenerationError {
	return &GenerationError{Kind: ErrKindRequestFailed, Err: err}
}

// EmptyResponse marks a response with no extractable text.
func EmptyResponse() *GenerationError {
	return &GenerationError{Kind: ErrKindEmptyResponse}
}
