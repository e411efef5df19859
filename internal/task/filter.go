package task

import (
	"strings"

	"github.com/amirbrooks/taskcli/internal/dates"
)

// Filter holds query criteria. Every zero-valued field matches all
// tasks for that dimension; predicates on set fields are ANDed.
type Filter struct {
	IDs       []int
	Title     string
	Project   string
	Priority  string
	Due       dates.Date
	Scheduled dates.Date
	Depends   int
	Blocks    int
	Tags      []string // sigils retained: "+name" include, "-name" exclude
	Status    string
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return len(f.IDs) == 0 &&
		f.Title == "" &&
		f.Project == "" &&
		f.Priority == "" &&
		f.Due.IsZero() &&
		f.Scheduled.IsZero() &&
		f.Depends == 0 &&
		f.Blocks == 0 &&
		len(f.Tags) == 0 &&
		f.Status == ""
}

// Select narrows a task snapshot to the subset matching f. An empty
// filter returns the input unchanged; an empty input stays an
// explicitly empty (non-nil) result. Select never mutates tasks.
func Select(tasks []Task, f Filter) []Task {
	if f.IsEmpty() {
		return tasks
	}

	// Depends/Blocks carry sequential ids; translate them to the stable
	// UID of the referenced task before matching. A reference to an id
	// not present in the snapshot matches nothing.
	dependsUID, dependsOK := uidForID(tasks, f.Depends)
	blocksUID, blocksOK := uidForID(tasks, f.Blocks)

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if len(f.IDs) > 0 && !containsInt(f.IDs, t.ID) {
			continue
		}
		if f.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Title)) {
			continue
		}
		if f.Project != "" && t.Project != f.Project {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if !f.Due.IsZero() && t.Due != f.Due {
			continue
		}
		if !f.Scheduled.IsZero() && t.Scheduled != f.Scheduled {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Depends != 0 && (!dependsOK || !containsString(t.Depends, dependsUID)) {
			continue
		}
		if f.Blocks != 0 && (!blocksOK || !containsString(t.Blocks, blocksUID)) {
			continue
		}
		if !matchTags(t, f.Tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchTags(t Task, sigil []string) bool {
	for _, entry := range sigil {
		if len(entry) < 2 {
			continue
		}
		name := entry[1:]
		switch entry[0] {
		case '+':
			if !t.HasTag(name) {
				return false
			}
		case '-':
			if t.HasTag(name) {
				return false
			}
		}
	}
	return true
}

func uidForID(tasks []Task, id int) (string, bool) {
	if id == 0 {
		return "", false
	}
	for _, t := range tasks {
		if t.ID == id {
			return t.UID, true
		}
	}
	return "", false
}

func containsInt(list []int, v int) bool {
	for _, n := range list {
		if n == v {
			return true
		}
	}
	return false
}
