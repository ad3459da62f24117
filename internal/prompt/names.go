package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateName checks that a persona, action, example, variant, or library
// name is usable as a file name component: non-empty, lowercase alphanumeric
// with hyphens and underscores, starting with a letter and not ending with a
// separator.
func ValidateName(name, kind string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%s name %q must be lowercase letters, digits, hyphens, or underscores, and start with a letter", kind, name)
	}
	if strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("%s name %q must not end with a hyphen or underscore", kind, name)
	}
	return nil
}
