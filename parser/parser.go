package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinHeadlineLength is the rune count a headline must exceed.
const MinHeadlineLength = 10

var (
	ErrEmptyHeadline    = errors.New("headline is empty")
	ErrHeadlineTooShort = errors.New("headline too short")
)

// ParseError wraps a failure of the HTML parser itself.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("parse: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NormalizeHeadline trims the text and collapses interior whitespace runs to one space.
func NormalizeHeadline(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ValidateHeadline checks a normalised headline against the length filter.
func ValidateHeadline(text string) error {
	if text == "" {
		return ErrEmptyHeadline
	}
	if utf8.RuneCountInString(text) <= MinHeadlineLength {
		return fmt.Errorf("%w: %q", ErrHeadlineTooShort, text)
	}
	return nil
}
