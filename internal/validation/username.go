package validation

import (
	"errors"
	"regexp"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateUsername validates a profile username
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if trimmed == "" {
		return errors.New("username is required")
	}

	if len(trimmed) < 2 {
		return errors.New("username is too short (min 2 characters)")
	}

	if len(trimmed) > 30 {
		return errors.New("username is too long (max 30 characters)")
	}

	if !usernameRe.MatchString(trimmed) {
		return errors.New("username may only contain letters, digits, '_', '.' and '-'")
	}

	return nil
}
