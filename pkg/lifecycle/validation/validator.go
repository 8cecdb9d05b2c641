// Package validation checks request payloads against named field profiles.
package validation

import (
	"fmt"
	"sort"
)

// Profile is a field rule set: every Required field must be present and
// non-empty, and no Forbidden field may appear. Forbidden fields are the
// ones this layer owns (identifiers, lifecycle status, version keys) or
// that must go through their dedicated operations.
type Profile struct {
	Required  []string
	Forbidden []string
}

// Validator validates payloads against registered profiles.
type Validator struct {
	profiles map[string]Profile
}

// New creates a validator with the default content profiles registered.
func New() *Validator {
	v := &Validator{profiles: make(map[string]Profile)}
	v.Register("create", Profile{
		Required:  []string{"name", "contentType", "mimeType"},
		Forbidden: []string{"identifier", "status", "versionKey", "badgeAssertions"},
	})
	v.Register("update", Profile{
		Forbidden: []string{"identifier", "status", "versionKey", "createdBy", "badgeAssertions"},
	})
	return v
}

// Register adds or replaces a named profile.
func (v *Validator) Register(name string, p Profile) {
	v.profiles[name] = p
}

// Validate checks payload against the named profile. Unknown profiles are
// an error: a typo must not silently skip validation.
func (v *Validator) Validate(payload map[string]interface{}, profile string) error {
	p, ok := v.profiles[profile]
	if !ok {
		return fmt.Errorf("unknown validation profile %q", profile)
	}

	var missing []string
	for _, field := range p.Required {
		if !present(payload, field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required fields: %v", missing)
	}

	for _, field := range p.Forbidden {
		if _, ok := payload[field]; ok {
			return fmt.Errorf("field %q is not allowed", field)
		}
	}
	return nil
}

func present(payload map[string]interface{}, field string) bool {
	value, ok := payload[field]
	if !ok || value == nil {
		return false
	}
	if s, isString := value.(string); isString && s == "" {
		return false
	}
	return true
}
