package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirbrooks/taskcli/internal/dates"
	"github.com/amirbrooks/taskcli/internal/task"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestOpenDefaultsWhenConfigMissing(t *testing.T) {
	s := openTemp(t)
	cfg := s.Config()
	if cfg.CurrentContext != "default" {
		t.Fatalf("current context = %q", cfg.CurrentContext)
	}
	if cfg.DBPath == "" {
		t.Fatal("default db path is empty")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	s := openTemp(t)
	cfg := s.Config()
	cfg.Contexts = map[string]string{"default": cfg.DBPath, "work": filepath.Join(s.Root, "db", "work.json")}
	cfg.UrgencyCoefficients = map[string]float64{"due": 20}
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	reopened, err := Open(s.Root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Config()
	if got.Contexts["work"] == "" {
		t.Fatalf("contexts lost: %#v", got.Contexts)
	}
	if got.UrgencyCoefficients["due"] != 20 {
		t.Fatalf("coefficients lost: %#v", got.UrgencyCoefficients)
	}
	if reopened.Coefficients()["due"] != 20 {
		t.Fatal("override not merged")
	}
	if reopened.Coefficients()["priority_h"] != task.DefaultCoefficients()["priority_h"] {
		t.Fatal("defaults lost in merge")
	}
}

func TestLoadTasksMissingDatabase(t *testing.T) {
	s := openTemp(t)
	_, err := s.LoadTasks()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInitCreatesEmptyDatabase(t *testing.T) {
	s := openTemp(t)
	if err := s.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	tasks, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil snapshot, got %#v", tasks)
	}
	if _, err := os.Stat(filepath.Join(s.Root, "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
}

func TestInitDeclinedOverwriteKeepsData(t *testing.T) {
	s := openTemp(t)
	if err := s.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	now := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	tasks := AddTask(nil, task.New(1, "Keep me", now))
	if err := s.SaveTasks(tasks); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Init(func(string) bool { return false }); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	got, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Keep me" {
		t.Fatalf("data lost on declined overwrite: %#v", got)
	}

	if err := s.Init(func(string) bool { return true }); err != nil {
		t.Fatalf("forced re-init: %v", err)
	}
	got, err = s.LoadTasks()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("confirmed overwrite should reset the db, got %#v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	if err := s.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	now := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	one := task.New(1, "Buy groceries", now)
	one.Project = "home"
	one.Priority = task.PriorityHigh
	one.Due = dates.New(2025, time.November, 5)
	one.Tags = []string{"errand"}
	two := task.New(2, "Write report", now)
	two.Depends = []string{one.UID}

	if err := s.SaveTasks([]task.Task{two, one}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	// Saved sorted by id.
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("order = %d, %d", got[0].ID, got[1].ID)
	}
	if got[0].Due != (dates.New(2025, time.November, 5)) {
		t.Fatalf("due lost: %s", got[0].Due)
	}
	if len(got[1].Depends) != 1 || got[1].Depends[0] != one.UID {
		t.Fatalf("depends lost: %#v", got[1].Depends)
	}
}

func TestNextID(t *testing.T) {
	now := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	if got := NextID(nil); got != 1 {
		t.Fatalf("NextID(nil) = %d", got)
	}
	if got := NextID([]task.Task{}); got != 1 {
		t.Fatalf("NextID(empty) = %d", got)
	}
	tasks := []task.Task{task.New(1, "a", now), task.New(5, "b", now)}
	if got := NextID(tasks); got != 6 {
		t.Fatalf("NextID = %d", got)
	}
	// Tasks that lost their sequential id do not count.
	closed := task.New(0, "done", now)
	if got := NextID([]task.Task{closed}); got != 1 {
		t.Fatalf("NextID with closed task = %d", got)
	}
}

func TestAddTaskImmutability(t *testing.T) {
	now := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	existing := []task.Task{task.New(3, "three", now), task.New(1, "one", now)}
	out := AddTask(existing, task.New(2, "two", now))
	if len(existing) != 2 {
		t.Fatalf("input slice mutated: %#v", existing)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(out))
	}
	if out[0].ID != 1 || out[1].ID != 2 || out[2].ID != 3 {
		t.Fatalf("order = %d, %d, %d", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestSwitchContext(t *testing.T) {
	s := openTemp(t)
	cfg := s.Config()
	cfg.Contexts = map[string]string{"work": filepath.Join(s.Root, "db", "work.json")}
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if err := s.SwitchContext("work"); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if s.Config().CurrentContext != "work" {
		t.Fatalf("current context = %q", s.Config().CurrentContext)
	}
	if s.DBPath() != filepath.Join(s.Root, "db", "work.json") {
		t.Fatalf("db path = %q", s.DBPath())
	}
	if err := s.SwitchContext("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRescore(t *testing.T) {
	now := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	today := dates.New(2025, time.November, 3)
	urgent := task.New(1, "urgent", now)
	urgent.Priority = task.PriorityHigh
	plain := task.New(2, "plain", now)

	out := Rescore([]task.Task{urgent, plain}, task.DefaultCoefficients(), today)
	if out[0].RankScore <= out[1].RankScore {
		t.Fatalf("scores = %f, %f", out[0].RankScore, out[1].RankScore)
	}
	if urgent.RankScore != 0 {
		t.Fatalf("input mutated: %f", urgent.RankScore)
	}
}
