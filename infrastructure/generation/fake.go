package generation

import (
	"context"
	"fmt"

	"ideaflow-backend/application/ports"
)

// StaticGenerator returns a canned completion. Used for local development
// when no provider key is configured, and as a test double.
type StaticGenerator struct {
	Response string
	Err      error
	calls    int
}

// NewStaticGenerator creates a generator that always returns the given text
func NewStaticGenerator(response string) *StaticGenerator {
	return &StaticGenerator{Response: response}
}

// Generate returns the configured response or error
func (s *StaticGenerator) Generate(_ context.Context, prompt string, _ ports.GenerationOptions) (string, error) {
	s.calls++
	if s.Err != nil {
		return "", s.Err
	}
	if s.Response != "" {
		return s.Response, nil
	}
	return fmt.Sprintf("This is a placeholder answer for: %.80s", prompt), nil
}

// Calls reports how many times Generate was invoked
func (s *StaticGenerator) Calls() int {
	return s.calls
}
