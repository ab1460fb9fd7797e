package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ideaflow-backend/domain/config"
	pkgerrors "ideaflow-backend/pkg/errors"
)

// Content is a value object for the text of a question or answer node
type Content struct {
	text string
}

// NewContent creates content with validation using default configuration
func NewContent(text string) (Content, error) {
	return NewContentWithConfig(text, config.DefaultDomainConfig())
}

// NewContentWithConfig creates content with validation and configuration
func NewContentWithConfig(text string, cfg *config.DomainConfig) (Content, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	text = strings.TrimSpace(text)

	length := utf8.RuneCountInString(text)
	if length < cfg.MinContentLength {
		return Content{}, pkgerrors.NewValidationError("content cannot be empty")
	}
	if length > cfg.MaxContentLength {
		return Content{}, pkgerrors.NewValidationError(
			fmt.Sprintf("content exceeds maximum length of %d characters", cfg.MaxContentLength))
	}

	return Content{text: text}, nil
}

// Text returns the content text
func (c Content) Text() string {
	return c.text
}

// IsEmpty checks if content is empty
func (c Content) IsEmpty() bool {
	return c.text == ""
}

// Equals checks if two contents are equal
func (c Content) Equals(other Content) bool {
	return c.text == other.text
}

// Excerpt returns the content truncated to maxRunes, ellipsis-suffixed when cut.
// Used when assembling bounded prompt context.
func (c Content) Excerpt(maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(c.text) <= maxRunes {
		return c.text
	}
	runes := []rune(c.text)
	return string(runes[:maxRunes]) + "..."
}

// FirstLine returns a single-line title derived from the content
func (c Content) FirstLine(maxRunes int) string {
	line := c.text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return Content{text: strings.TrimSpace(line)}.Excerpt(maxRunes)
}
