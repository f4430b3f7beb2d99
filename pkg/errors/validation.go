package errors

import (
	"os"
	"strings"
	"unicode"
)

// ValidateInputPath checks that an input path is safe to use and exists.
// Go package patterns ending in "/..." are checked without the suffix.
//
// The validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - The path must exist on disk
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "input path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "input path contains invalid characters")
		}
	}

	dir := strings.TrimSuffix(path, "/...")
	if dir == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return WithHint(New(ErrCodeFileNotFound, "input not found: %s", path),
				"pass a Go package directory or a .json/.yaml type model")
		}
		return Wrap(ErrCodeInvalidInput, err, "stat %s", path)
	}
	return nil
}

// ValidateMaxTypesPerPage rejects page sizes below one.
func ValidateMaxTypesPerPage(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "max types per page must be positive, got %d", n)
	}
	return nil
}

// ValidateOneOf checks that value is one of allowed. Empty values pass;
// callers apply their own defaults.
func ValidateOneOf(what, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "invalid %s %q (want one of %s)", what, value, strings.Join(allowed, ", "))
}
