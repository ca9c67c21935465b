package core

import (
	"fmt"
	"strconv"
	"strings"
)

// NameTemplate resolves the destination name of an artifact stream. A
// template is either a literal name or carries exactly one positional "{}"
// slot. Without a slot every resolve yields the same name, so each successful
// upload overwrites the previous one (single-most-recent-checkpoint mode).
// With a slot, the adapter's counter value is substituted, producing a
// monotonically increasing series such as model-0.pkl, model-1.pkl, ...
//
// Parsing is strict: a second slot or any brace that does not form a "{}"
// pair is rejected with a *ConfigError, so misconfiguration surfaces when the
// adapter is constructed, never at the first checkpoint write.
type NameTemplate struct {
	raw       string
	templated bool
}

// ParseNameTemplate validates raw and returns an immutable template.
func ParseNameTemplate(raw string) (NameTemplate, error) {
	if raw == "" {
		return NameTemplate{}, NewConfigError("template", "destination name must not be empty")
	}
	slots := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			if i+1 >= len(raw) || raw[i+1] != '}' {
				return NameTemplate{}, NewConfigError("template",
					fmt.Sprintf("malformed slot at byte %d in %q", i, raw))
			}
			slots++
			i++ // consume the matching '}'
		case '}':
			return NameTemplate{}, NewConfigError("template",
				fmt.Sprintf("unmatched '}' at byte %d in %q", i, raw))
		}
	}
	if slots > 1 {
		return NameTemplate{}, NewConfigError("template",
			fmt.Sprintf("%q contains %d slots, at most one is allowed", raw, slots))
	}
	return NameTemplate{raw: raw, templated: slots == 1}, nil
}

// Resolve substitutes the counter into the slot, or returns the literal name
// for slot-free templates. Counters are expected to be non-negative; the
// adapter owning the template guarantees this.
func (t NameTemplate) Resolve(counter int) string {
	if !t.templated {
		return t.raw
	}
	return strings.Replace(t.raw, "{}", strconv.Itoa(counter), 1)
}

// Templated reports whether the template carries a counter slot.
func (t NameTemplate) Templated() bool { return t.templated }

// Raw returns the template string as configured.
func (t NameTemplate) Raw() string { return t.raw }

// String implements fmt.Stringer.
func (t NameTemplate) String() string { return t.raw }
