package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/amirbrooks/taskcli/internal/dates"
	"github.com/amirbrooks/taskcli/internal/task"
)

// LoadTasks reads the current context's database. A missing file maps
// to ErrNotFound so callers can tell an uninitialized store from an
// initialized-but-empty one; an empty database comes back as an empty
// non-nil slice.
func (s *Store) LoadTasks() ([]task.Task, error) {
	b, err := os.ReadFile(s.DBPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: database %s (run \"task init\")", ErrNotFound, s.DBPath())
		}
		return nil, err
	}
	var tasks []task.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("%w: database %s: %v", ErrInvalid, s.DBPath(), err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// SaveTasks writes the full snapshot atomically, sorted by sequential
// id for stable files and diffs.
func (s *Store) SaveTasks(tasks []task.Task) error {
	b, err := json.MarshalIndent(task.SortByID(tasks), "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.DBPath(), append(b, '\n'), 0o644)
}

// NextID returns the next sequential id: one past the highest assigned
// id, starting at 1. Tasks that lost their id (done/deleted) do not
// participate.
func NextID(tasks []task.Task) int {
	max := 0
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// AddTask appends t and returns a new sorted slice; the input slice is
// left untouched.
func AddTask(tasks []task.Task, t task.Task) []task.Task {
	out := make([]task.Task, 0, len(tasks)+1)
	out = append(out, tasks...)
	out = append(out, t)
	return task.SortByID(out)
}

// ResolveUID maps a sequential id to the stable UID of the task
// carrying it in the snapshot.
func ResolveUID(tasks []task.Task) func(int) (string, bool) {
	return func(id int) (string, bool) {
		for _, t := range tasks {
			if t.ID != 0 && t.ID == id {
				return t.UID, true
			}
		}
		return "", false
	}
}

// ReplaceTask swaps the task with updated.UID for updated, returning a
// new slice.
func ReplaceTask(tasks []task.Task, updated task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].UID == updated.UID {
			out[i] = updated
		}
	}
	return out
}

// Rescore recomputes every task's rank score with the given
// coefficients, returning a new slice.
func Rescore(tasks []task.Task, coeff map[string]float64, today dates.Date) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		out[i].RankScore = task.Rank(out[i], coeff, today)
	}
	return out
}
