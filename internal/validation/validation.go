package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits mirroring the column widths in the database schema.
const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 50
	EmailMaxLen       = 100
	FullNameMaxLen    = 100
	TaskNameMaxLen    = 100
	DescriptionMaxLen = 1000
)

// ErrInvalidFormat is the class every validation failure wraps. Callers
// match the class with errors.Is and surface the specific message.
var ErrInvalidFormat = errors.New("invalid format")

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Username reports whether s is a valid username: 3-50 characters, letters,
// digits and underscores only.
func Username(s string) error {
	if !usernameRe.MatchString(s) {
		return fmt.Errorf("%w: username must be %d-%d characters of letters, digits and underscores",
			ErrInvalidFormat, UsernameMinLen, UsernameMaxLen)
	}
	return nil
}

// Email reports whether s looks like local@domain.tld. This is intentionally
// not full RFC 5322 validation.
func Email(s string) error {
	if utf8.RuneCountInString(s) > EmailMaxLen {
		return fmt.Errorf("%w: email must be at most %d characters", ErrInvalidFormat, EmailMaxLen)
	}
	if !emailRe.MatchString(s) {
		return fmt.Errorf("%w: email is not a valid address", ErrInvalidFormat)
	}
	return nil
}

// TaskName trims surrounding whitespace and returns the trimmed value. The
// trimmed name must be non-empty and at most 100 characters.
func TaskName(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: task name cannot be empty", ErrInvalidFormat)
	}
	if utf8.RuneCountInString(trimmed) > TaskNameMaxLen {
		return "", fmt.Errorf("%w: task name must be at most %d characters", ErrInvalidFormat, TaskNameMaxLen)
	}
	return trimmed, nil
}

// FullName bounds the optional display name.
func FullName(s string) error {
	if utf8.RuneCountInString(s) > FullNameMaxLen {
		return fmt.Errorf("%w: full name must be at most %d characters", ErrInvalidFormat, FullNameMaxLen)
	}
	return nil
}

// Description bounds the optional task description.
func Description(s string) error {
	if utf8.RuneCountInString(s) > DescriptionMaxLen {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidFormat, DescriptionMaxLen)
	}
	return nil
}
