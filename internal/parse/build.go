package parse

import (
	"strconv"
	"strings"

	"github.com/amirbrooks/taskcli/internal/dates"
	"github.com/amirbrooks/taskcli/internal/task"
)

// BuildFilter assembles a Filter from a filter section. Extraction
// passes run in order (ids, properties, tags), each consuming its
// matches before the next pass sees the remainder; leftover tokens
// become the title substring. Warnings carry diagnostics for dropped
// date values and are surfaced by the caller.
func BuildFilter(tokens []string, ref dates.Date) (task.Filter, []string) {
	ids, rest := ExtractIDs(tokens)
	props, rest := ExtractProperties(rest)
	tags, rest := ExtractTags(rest)
	scalars, resolved, warnings := NormalizeProperties(props, ref)

	f := task.Filter{
		IDs:       ids,
		Title:     JoinTitle(rest),
		Project:   scalars["project"],
		Priority:  scalars["priority"],
		Status:    scalars["status"],
		Due:       resolved["due"],
		Scheduled: resolved["scheduled"],
		Tags:      tags,
	}
	// depends/blocks filter by numeric task id; a non-numeric value is
	// ignored like any other malformed token.
	if n, err := strconv.Atoi(scalars["depends"]); err == nil {
		f.Depends = n
	}
	if n, err := strconv.Atoi(scalars["blocks"]); err == nil {
		f.Blocks = n
	}
	return f, warnings
}

// BuildModification assembles a Modification from a modification
// section. Same pipeline as BuildFilter minus id extraction: a
// modification has no id-set concept, and digits-only tokens stay
// title words. depends/blocks take comma-separated ids; a negative id
// removes the reference.
func BuildModification(tokens []string, ref dates.Date) (task.Modification, []string) {
	props, rest := ExtractProperties(tokens)
	tags, rest := ExtractTags(rest)
	scalars, resolved, warnings := NormalizeProperties(props, ref)

	m := task.Modification{
		Title:     JoinTitle(rest),
		Project:   scalars["project"],
		Priority:  scalars["priority"],
		Due:       resolved["due"],
		Scheduled: resolved["scheduled"],
		Tags:      tags,
		Depends:   parseRefEdits(scalars["depends"]),
		Blocks:    parseRefEdits(scalars["blocks"]),
	}
	return m, warnings
}

func parseRefEdits(value string) []int {
	if value == "" {
		return nil
	}
	var edits []int
	for _, part := range strings.Split(value, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n != 0 {
			edits = append(edits, n)
		}
	}
	return edits
}
