package parse

import (
	"fmt"
	"sort"

	"github.com/amirbrooks/taskcli/internal/dates"
	"github.com/amirbrooks/taskcli/internal/task"
)

// NormalizeProperties coerces recognized keys of a raw property map to
// typed values. Priority must be one of h/m/l in any case and comes
// back as the upper-cased letter; an unrecognized literal drops the
// key silently. "due" and "scheduled" go through the date resolver
// against ref; an unresolvable expression drops the key and adds a
// human-readable warning. Every other key passes through unchanged so
// the assembling step can decide what to keep.
func NormalizeProperties(raw map[string]string, ref dates.Date) (scalars map[string]string, resolved map[string]dates.Date, warnings []string) {
	scalars = map[string]string{}
	resolved = map[string]dates.Date{}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		switch key {
		case "priority":
			if p := task.NormalizePriority(value); p != "" {
				scalars[key] = p
			}
		case "due", "scheduled":
			d, err := dates.Resolve(value, ref)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("date %q not parsable; ignoring %s", value, key))
				continue
			}
			resolved[key] = d
		default:
			scalars[key] = value
		}
	}
	return scalars, resolved, warnings
}
