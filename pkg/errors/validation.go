package errors

import (
	"regexp"
	"unicode"
)

// maxIdentifierLength bounds module identifiers accepted from untrusted input.
const maxIdentifierLength = 512

// ValidateModuleID validates a module identifier received over the HTTP API.
//
// Validation rules:
//   - Identifier cannot be empty
//   - Maximum length of 512 bytes
//   - No control characters or null bytes
func ValidateModuleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "module identifier cannot be empty")
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "module identifier too long (max %d characters)", maxIdentifierLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "module identifier contains invalid control characters")
		}
	}
	return nil
}

// formatNameRegex matches renderer registry names.
var formatNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// ValidateFormatName validates a renderer format name taken from a URL path
// or command-line flag.
func ValidateFormatName(name string) error {
	if !formatNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFormat, "invalid format name: %q", name)
	}
	return nil
}
