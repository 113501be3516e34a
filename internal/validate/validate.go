// Package validate checks tool inputs before any state mutation or outbound
// call. Every failure is an errors.ValidationError.
package validate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pilab-dev/taiga-bridge/errors"
)

// Simplified RFC 5322 email shape.
var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var slugRegexp = regexp.MustCompile(`^[a-z0-9-]+$`)

// Maximum lengths for common fields.
const (
	MaxSubjectLen     = 500
	MaxDescriptionLen = 10000
	MaxNameLen        = 255
	MaxSlugLen        = 255
	MaxEmailLen       = 254 // RFC 5321
)

// Optional fields accepted per resource type on create/update.
var allowedFields = map[string]map[string]bool{
	"project":    fields("description", "is_private", "default_owner_role", "tags"),
	"epic":       fields("description", "color"),
	"user_story": fields("description", "assigned_to", "milestone", "status", "points", "tags"),
	"task":       fields("description", "assigned_to", "user_story", "status", "tags"),
	"issue":      fields("description", "assigned_to", "status", "priority", "severity", "type", "tags"),
	"milestone":  fields("name", "estimated_start", "estimated_finish"),
}

func fields(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// PositiveInt validates that value is strictly positive.
func PositiveInt(value int, field string) error {
	if value <= 0 {
		return errors.NewValidation(field, "must be a positive integer, got %d", value)
	}
	return nil
}

// StringLength validates that value is non-blank and within maxLen.
func StringLength(value, field string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidation(field, "cannot be empty")
	}
	if len(value) > maxLen {
		return errors.NewValidation(field, "exceeds maximum length of %d characters", maxLen)
	}
	return nil
}

// Subject validates a subject/title field.
func Subject(subject string) error {
	return StringLength(subject, "subject", MaxSubjectLen)
}

// Description validates an optional description field. Empty is allowed.
func Description(description string) error {
	if description == "" {
		return nil
	}
	if len(description) > MaxDescriptionLen {
		return errors.NewValidation("description", "exceeds maximum length of %d characters", MaxDescriptionLen)
	}
	return nil
}

// Name validates a name field.
func Name(name string) error {
	return StringLength(name, "name", MaxNameLen)
}

// Slug validates a slug: non-blank, bounded, lowercase alphanumerics and
// hyphens only.
func Slug(slug string) error {
	if err := StringLength(slug, "slug", MaxSlugLen); err != nil {
		return err
	}
	if !slugRegexp.MatchString(strings.ToLower(slug)) {
		return errors.NewValidation("slug", "must contain only alphanumeric characters and hyphens: %s", slug)
	}
	return nil
}

// Email validates an email address.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.NewValidation("email", "cannot be empty")
	}
	if !emailRegexp.MatchString(email) {
		return errors.NewValidation("email", "invalid email format: %s", email)
	}
	if len(email) > MaxEmailLen {
		return errors.NewValidation("email", "exceeds maximum length of %d characters", MaxEmailLen)
	}
	return nil
}

// Fields whitelists the optional fields of a create/update payload against
// the allowed set for the resource type.
func Fields(resourceType string, payload map[string]any) error {
	allowed, ok := allowedFields[resourceType]
	if !ok {
		return errors.NewValidation("resource_type", "unknown resource type: %s", resourceType)
	}
	var invalid []string
	for k := range payload {
		if !allowed[k] {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return errors.NewValidation("fields",
			"invalid fields for this resource: %s (allowed: %s)",
			strings.Join(invalid, ", "), joinAllowed(allowed))
	}
	return nil
}

func joinAllowed(allowed map[string]bool) string {
	names := make([]string, 0, len(allowed))
	for n := range allowed {
		names = append(names, n)
	}
	// Deterministic order keeps error messages stable.
	sort.Strings(names)
	return strings.Join(names, ", ")
}
