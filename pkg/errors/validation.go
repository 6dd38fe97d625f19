package errors

import (
	"strings"
	"unicode"
)

const (
	maxKeyLength     = 128
	maxFieldIDLength = 128
)

// ValidateLayoutKey validates a persistence key for safety.
// Keys end up in file names, Redis keys and SQL parameters, so the rules
// are conservative:
//   - No empty keys
//   - No control characters or whitespace
//   - No path traversal sequences or separators
//   - Maximum length of 128 characters
func ValidateLayoutKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "layout key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidKey, "layout key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidKey, "layout key contains invalid characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidKey, "layout key contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateFieldID validates a field identifier supplied by a host application.
func ValidateFieldID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "field id cannot be empty")
	}
	if len(id) > maxFieldIDLength {
		return New(ErrCodeInvalidInput, "field id too long (max %d characters)", maxFieldIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "field id contains invalid control characters")
		}
	}
	return nil
}
