// Package validation holds the domain-level field validators shared by the
// HTTP services and the CSV loader.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// usernamePattern is the single canonical username rule: letters, digits,
// hyphen and underscore. The admin surface historically accepted dot/@/plus
// as well; the stricter rule is enforced on every write path.
var usernamePattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

const reservedUsername = "me"

// Username validates a username against the reserved name and the allowed
// character set.
func Username(name string) error {
	if strings.EqualFold(name, reservedUsername) {
		return fmt.Errorf("username %q is reserved and cannot be used", name)
	}
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("username may contain only letters, digits, '-' and '_'")
	}
	return nil
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Slug validates a category or genre slug: letters, digits, hyphen, underscore.
func Slug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("slug may contain only letters, digits, '-' and '_'")
	}
	return nil
}

// YearNotFuture fails when year is later than the current calendar year.
func YearNotFuture(year int) error {
	if current := time.Now().Year(); year > current {
		return fmt.Errorf("year %d is in the future (current year is %d)", year, current)
	}
	return nil
}
