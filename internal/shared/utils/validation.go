package utils

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/demolauncher/internal/shared/id"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid input")

// String length limits
const (
	MaxIDLength   = 128
	MaxPathLength = 4096
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%w: %s must be at least %d characters", ErrInvalid, fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%w: %s must not exceed %d characters", ErrInvalid, fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%w: %s contains invalid characters", ErrInvalid, fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(value, fieldName string, required bool) error {
	if err := ValidateString(value, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if value != "" && !SafeIDPattern.MatchString(value) {
		return fmt.Errorf("%w: %s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", ErrInvalid, fieldName)
	}

	return nil
}

// ValidateScreenID validates a run screen ID of the form scr_<ULID>
func ValidateScreenID(value string) error {
	if err := ValidateID(value, "screen_id", true); err != nil {
		return err
	}
	if !id.IsValidScreenID(value) {
		return fmt.Errorf("%w: screen_id %q is not a screen ID", ErrInvalid, value)
	}
	return nil
}

// ParseIndex parses a list row index. Range checks belong to the list.
func ParseIndex(value string) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not an integer", ErrInvalid, value)
	}
	if index < 0 {
		return 0, fmt.Errorf("%w: index %d is negative", ErrInvalid, index)
	}
	return index, nil
}

// ValidateProgramPath checks a path handed directly to a run screen
func ValidateProgramPath(path string) error {
	if err := ValidateString(path, "program", 1, MaxPathLength, true); err != nil {
		return err
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: program %q must be an absolute path", ErrInvalid, path)
	}
	return nil
}
