package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length limits for user supplied values.
const (
	MaxIDLength   = 128
	MaxNameLength = 256
	MaxTextLength = 1024
)

// ValidateUserID validates a user identifier used to scope stored mind maps.
// User IDs end up in store keys and URL paths, so the rules are conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No key separators ('.', ':', '/') or path traversal
//   - Maximum length of MaxIDLength characters
func ValidateUserID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "user id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "user id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "user id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, ".:/\\") {
		return New(ErrCodeInvalidID, "user id cannot contain '.', ':', '/' or '\\'")
	}
	return nil
}

var (
	mapIDRegex  = regexp.MustCompile(`^MM-[A-Za-z0-9]+$`)
	nodeIDRegex = regexp.MustCompile(`^ND-[A-Za-z0-9]+$`)
)

// ValidateMapID validates a mind map ID of the form "MM-<alnum>".
func ValidateMapID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "mind map id cannot be empty")
	}
	if len(id) > MaxIDLength || !mapIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid mind map id: %q", id)
	}
	return nil
}

// ValidateNodeID validates a node ID of the form "ND-<alnum>".
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "node id cannot be empty")
	}
	if len(id) > MaxIDLength || !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid node id: %q", id)
	}
	return nil
}

// ValidateName validates a mind map name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", MaxNameLength)
	}
	return validatePrintable("name", name)
}

// ValidateNodeText validates the label of a node.
func ValidateNodeText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "node text cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return New(ErrCodeInvalidInput, "node text too long (max %d characters)", MaxTextLength)
	}
	return validatePrintable("node text", text)
}

func validatePrintable(field, s string) error {
	for _, r := range s {
		if r == '\x00' || (unicode.IsControl(r) && r != '\n' && r != '\t') {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}
