package task

import (
	"strings"
	"time"

	"github.com/amirbrooks/taskcli/internal/dates"
)

// Modification describes field-level writes to apply to a task. Empty
// or zero fields leave the corresponding task field untouched. Tags
// keep their sigils: "+name" adds, "-name" removes. Depends/Blocks
// hold sequential task ids; a positive id adds a reference, a negative
// one removes it.
type Modification struct {
	Title     string
	Project   string
	Priority  string
	Due       dates.Date
	Scheduled dates.Date
	Depends   []int
	Blocks    []int
	Tags      []string
}

// IsEmpty reports whether the modification would change nothing.
func (m Modification) IsEmpty() bool {
	return m.Title == "" &&
		m.Project == "" &&
		m.Priority == "" &&
		m.Due.IsZero() &&
		m.Scheduled.IsZero() &&
		len(m.Depends) == 0 &&
		len(m.Blocks) == 0 &&
		len(m.Tags) == 0
}

// Apply returns a copy of t with m applied. resolveUID translates a
// sequential id to a task UID for dependency edits; references that do
// not resolve are skipped. Removal of a tag or reference that is not
// present is inert, so the same modification works on freshly created
// tasks.
func (t Task) Apply(m Modification, now time.Time, resolveUID func(int) (string, bool)) Task {
	out := t
	out.Depends = append([]string{}, t.Depends...)
	out.Blocks = append([]string{}, t.Blocks...)
	out.Tags = append([]string{}, t.Tags...)

	if m.Title != "" {
		out.Title = m.Title
	}
	if m.Project != "" {
		out.Project = m.Project
	}
	if m.Priority != "" {
		out.Priority = m.Priority
	}
	if !m.Due.IsZero() {
		out.Due = m.Due
	}
	if !m.Scheduled.IsZero() {
		out.Scheduled = m.Scheduled
	}
	out.Depends = editRefs(out.Depends, m.Depends, resolveUID)
	out.Blocks = editRefs(out.Blocks, m.Blocks, resolveUID)
	for _, entry := range m.Tags {
		if len(entry) < 2 {
			continue
		}
		name := strings.TrimSpace(entry[1:])
		if name == "" {
			continue
		}
		switch entry[0] {
		case '+':
			if !t.HasTag(name) && !containsString(out.Tags, name) {
				out.Tags = append(out.Tags, name)
			}
		case '-':
			out.Tags = withoutString(out.Tags, name)
		}
	}
	out.UpdatedAt = now
	return out
}

func editRefs(refs []string, ids []int, resolveUID func(int) (string, bool)) []string {
	if resolveUID == nil {
		return refs
	}
	for _, id := range ids {
		remove := id < 0
		if remove {
			id = -id
		}
		uid, ok := resolveUID(id)
		if !ok {
			continue
		}
		if remove {
			refs = withoutString(refs, uid)
		} else if !containsString(refs, uid) {
			refs = append(refs, uid)
		}
	}
	return refs
}
