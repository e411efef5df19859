// Package task defines the task record and the pure operations over
// it: filtering a snapshot, applying a modification, and urgency
// scoring. Nothing here touches disk; persistence lives in
// internal/store.
package task

import (
	"crypto/rand"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/amirbrooks/taskcli/internal/dates"
)

// Statuses a task moves through.
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusDone    = "done"
	StatusDeleted = "deleted"
)

// Priorities are single upper-case letters.
const (
	PriorityHigh   = "H"
	PriorityMedium = "M"
	PriorityLow    = "L"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

// Task is a single tracked item. Sequential ID is 0 once a task is
// done or deleted; UID is stable for the task's whole life and is what
// Depends/Blocks reference. Treat values as immutable: Apply returns a
// modified copy.
type Task struct {
	UID       string     `json:"uid" yaml:"uid"`
	ID        int        `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string     `json:"title" yaml:"title"`
	Project   string     `json:"project,omitempty" yaml:"project,omitempty"`
	Priority  string     `json:"priority,omitempty" yaml:"priority,omitempty"`
	Due       dates.Date `json:"due,omitempty" yaml:"due,omitempty"`
	Scheduled dates.Date `json:"scheduled,omitempty" yaml:"scheduled,omitempty"`
	Depends   []string   `json:"depends,omitempty" yaml:"depends,omitempty"`
	Blocks    []string   `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Tags      []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Status    string     `json:"status" yaml:"status"`
	RankScore float64    `json:"rank_score" yaml:"rank_score"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`
}

// New returns a pending task with a fresh UID and fresh (non-shared)
// slices.
func New(id int, title string, now time.Time) Task {
	return Task{
		UID:       NewUID(now),
		ID:        id,
		Title:     title,
		Depends:   []string{},
		Blocks:    []string{},
		Tags:      []string{},
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewUID generates an upper-cased ULID string used as the stable task
// identifier across renumbering.
func NewUID(now time.Time) string {
	t := ulid.Timestamp(now.UTC())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		return fmt.Sprintf("%d", now.UTC().UnixNano())
	}
	return strings.ToUpper(id.String())
}

// HasTag reports whether the task carries the bare (sigil-free) tag
// name, case-insensitively.
func (t Task) HasTag(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, tag := range t.Tags {
		if strings.ToLower(tag) == name {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func withoutString(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// NormalizePriority maps any casing of h/m/l to the canonical letter;
// anything else returns "".
func NormalizePriority(p string) string {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityMedium:
		return PriorityMedium
	case PriorityLow:
		return PriorityLow
	default:
		return ""
	}
}

// SortByID orders a copy of tasks by sequential id ascending, tasks
// without an id last (by UID for stability).
func SortByID(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.ID == 0) != (b.ID == 0) {
			return a.ID != 0
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.UID < b.UID
	})
	return out
}

// SortByRank orders a copy of tasks by rank score descending, then by
// sequential id for a stable listing.
func SortByRank(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RankScore != out[j].RankScore {
			return out[i].RankScore > out[j].RankScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}
