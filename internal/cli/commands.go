package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/amirbrooks/taskcli/internal/parse"
	"github.com/amirbrooks/taskcli/internal/store"
	"github.com/amirbrooks/taskcli/internal/task"
)

func cmdInit(a *App, filter, modification []string) int {
	if err := a.Store.Init(a.confirm); err != nil {
		fmt.Fprintln(a.Stderr, "init:", err)
		return ExitInternal
	}
	fmt.Fprintln(a.Stdout, "Initialized task store at:", a.Store.Root)
	return ExitOK
}

func cmdAdd(a *App, filter, modification []string) int {
	mod, warnings := parse.BuildModification(modification, a.today())
	a.warn(warnings)

	tasks, code := a.loadTasks("add")
	if code != ExitOK {
		return code
	}

	now := a.Now()
	t := task.New(store.NextID(tasks), mod.Title, now)
	t = t.Apply(mod, now, store.ResolveUID(tasks))
	t.RankScore = task.Rank(t, a.Store.Coefficients(), a.today())

	tasks = store.AddTask(tasks, t)
	if err := a.Store.SaveTasks(tasks); err != nil {
		fmt.Fprintln(a.Stderr, "add:", err)
		return ExitInternal
	}
	fmt.Fprintf(a.Stdout, "Added task %d: %s\n", t.ID, t.Title)
	return ExitOK
}

func cmdList(a *App, filter, modification []string) int {
	f, warnings := parse.BuildFilter(filter, a.today())
	a.warn(warnings)

	tasks, code := a.loadTasks("list")
	if code != ExitOK {
		return code
	}
	matches := task.Select(tasks, f)
	// Closed tasks stay out of the default listing; ask for them with
	// status:done / status:deleted or an explicit id.
	if f.Status == "" && len(f.IDs) == 0 {
		open := matches[:0:0]
		for _, t := range matches {
			if t.Status == task.StatusDone || t.Status == task.StatusDeleted {
				continue
			}
			open = append(open, t)
		}
		matches = open
	}
	if len(matches) == 0 {
		fmt.Fprintln(a.Stdout, "No matching tasks.")
		return ExitOK
	}

	w := tabwriter.NewWriter(a.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tST\tPRI\tDUE\tSCHED\tPROJECT\tTAGS\tTITLE")
	for _, t := range task.SortByRank(matches) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			idLabel(t), statusAbbrev(t.Status), dash(t.Priority),
			dash(t.Due.String()), dash(t.Scheduled.String()),
			dash(t.Project), dash(strings.Join(t.Tags, ",")), t.Title)
	}
	_ = w.Flush()
	return ExitOK
}

func cmdShow(a *App, filter, modification []string) int {
	f, warnings := parse.BuildFilter(filter, a.today())
	a.warn(warnings)

	tasks, code := a.loadTasks("show")
	if code != ExitOK {
		return code
	}
	matches := task.Select(tasks, f)
	if len(matches) == 0 {
		fmt.Fprintln(a.Stderr, "show: no matching tasks")
		return ExitNotFound
	}
	byUID := map[string]task.Task{}
	for _, t := range tasks {
		byUID[t.UID] = t
	}
	for i, t := range task.SortByID(matches) {
		if i > 0 {
			fmt.Fprintln(a.Stdout)
		}
		renderTask(a, t, byUID)
	}
	return ExitOK
}

func cmdModify(a *App, filter, modification []string) int {
	f, warnings := parse.BuildFilter(filter, a.today())
	a.warn(warnings)
	if f.IsEmpty() {
		fmt.Fprintln(a.Stderr, "modify: refusing to modify every task; give a filter")
		return ExitUsage
	}
	mod, warnings := parse.BuildModification(modification, a.today())
	a.warn(warnings)
	if mod.IsEmpty() {
		fmt.Fprintln(a.Stderr, "modify: nothing to change")
		return ExitUsage
	}
	return a.mutate("modify", f, func(t task.Task, resolve func(int) (string, bool)) task.Task {
		return t.Apply(mod, a.Now(), resolve)
	})
}

func cmdDone(a *App, filter, modification []string) int {
	f, warnings := parse.BuildFilter(filter, a.today())
	a.warn(warnings)
	if f.IsEmpty() {
		fmt.Fprintln(a.Stderr, "done: no filter given")
		return ExitUsage
	}
	return a.mutate("done", f, func(t task.Task, _ func(int) (string, bool)) task.Task {
		t.Status = task.StatusDone
		t.ID = 0 // sequential ids belong to open tasks only
		t.UpdatedAt = a.Now()
		return t
	})
}

func cmdStart(a *App, filter, modification []string) int {
	f, warnings := parse.BuildFilter(filter, a.today())
	a.warn(warnings)
	if f.IsEmpty() {
		fmt.Fprintln(a.Stderr, "start: no filter given")
		return ExitUsage
	}
	return a.mutate("start", f, func(t task.Task, _ func(int) (string, bool)) task.Task {
		now := a.Now()
		t.Status = task.StatusActive
		t.StartedAt = &now
		t.UpdatedAt = now
		return t
	})
}

func cmdStop(a *App, filter, modification []string) int {
	f, warnings := parse.BuildFilter(filter, a.today())
	a.warn(warnings)
	if f.IsEmpty() {
		fmt.Fprintln(a.Stderr, "stop: no filter given")
		return ExitUsage
	}
	return a.mutate("stop", f, func(t task.Task, _ func(int) (string, bool)) task.Task {
		t.Status = task.StatusPending
		t.StartedAt = nil
		t.UpdatedAt = a.Now()
		return t
	})
}

func cmdDelete(a *App, filter, modification []string) int {
	f, warnings := parse.BuildFilter(filter, a.today())
	a.warn(warnings)
	if f.IsEmpty() {
		fmt.Fprintln(a.Stderr, "delete: no filter given")
		return ExitUsage
	}
	return a.mutate("delete", f, func(t task.Task, _ func(int) (string, bool)) task.Task {
		now := a.Now()
		t.Status = task.StatusDeleted
		t.ID = 0
		t.DeletedAt = &now
		t.UpdatedAt = now
		return t
	})
}

func cmdContext(a *App, filter, modification []string) int {
	name := strings.TrimSpace(parse.JoinTitle(modification))
	if name == "" {
		cfg := a.Store.Config()
		names := make([]string, 0, len(cfg.Contexts)+1)
		for n := range cfg.Contexts {
			names = append(names, n)
		}
		if _, ok := cfg.Contexts[cfg.CurrentContext]; !ok {
			names = append(names, cfg.CurrentContext)
		}
		sort.Strings(names)
		for _, n := range names {
			marker := " "
			if n == cfg.CurrentContext {
				marker = "*"
			}
			fmt.Fprintf(a.Stdout, "%s %s\n", marker, n)
		}
		return ExitOK
	}
	if err := a.Store.SwitchContext(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintln(a.Stderr, "context: unknown context", name)
			return ExitNotFound
		}
		fmt.Fprintln(a.Stderr, "context:", err)
		return ExitInternal
	}
	fmt.Fprintln(a.Stdout, "Switched to context:", name)
	return ExitOK
}

func cmdHelp(a *App, filter, modification []string) int {
	a.printUsage(registry())
	return ExitOK
}

// mutate applies fn to every task matching f, rescoring and saving the
// result.
func (a *App) mutate(name string, f task.Filter, fn func(task.Task, func(int) (string, bool)) task.Task) int {
	tasks, code := a.loadTasks(name)
	if code != ExitOK {
		return code
	}
	matches := task.Select(tasks, f)
	if len(matches) == 0 {
		fmt.Fprintln(a.Stderr, name+": no matching tasks")
		return ExitNotFound
	}
	resolve := store.ResolveUID(tasks)
	for _, t := range matches {
		tasks = store.ReplaceTask(tasks, fn(t, resolve))
	}
	tasks = store.Rescore(tasks, a.Store.Coefficients(), a.today())
	if err := a.Store.SaveTasks(tasks); err != nil {
		fmt.Fprintln(a.Stderr, name+":", err)
		return ExitInternal
	}
	if len(matches) == 1 {
		fmt.Fprintf(a.Stdout, "%s: 1 task\n", strings.Title(name))
	} else {
		fmt.Fprintf(a.Stdout, "%s: %d tasks\n", strings.Title(name), len(matches))
	}
	return ExitOK
}

func (a *App) loadTasks(name string) ([]task.Task, int) {
	tasks, err := a.Store.LoadTasks()
	if err != nil {
		fmt.Fprintln(a.Stderr, name+":", err)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ExitNotFound
		}
		return nil, ExitInternal
	}
	return tasks, ExitOK
}

func renderTask(a *App, t task.Task, byUID map[string]task.Task) {
	fmt.Fprintf(a.Stdout, "%s %s\n", idLabel(t), t.Title)
	fmt.Fprintln(a.Stdout, "  UID:      ", t.UID)
	fmt.Fprintln(a.Stdout, "  Status:   ", t.Status)
	if t.Project != "" {
		fmt.Fprintln(a.Stdout, "  Project:  ", t.Project)
	}
	if t.Priority != "" {
		fmt.Fprintln(a.Stdout, "  Priority: ", t.Priority)
	}
	if !t.Due.IsZero() {
		fmt.Fprintln(a.Stdout, "  Due:      ", t.Due.String())
	}
	if !t.Scheduled.IsZero() {
		fmt.Fprintln(a.Stdout, "  Scheduled:", t.Scheduled.String())
	}
	if len(t.Tags) > 0 {
		fmt.Fprintln(a.Stdout, "  Tags:     ", strings.Join(t.Tags, ", "))
	}
	for _, uid := range t.Depends {
		fmt.Fprintln(a.Stdout, "  Depends:  ", refLabel(uid, byUID))
	}
	for _, uid := range t.Blocks {
		fmt.Fprintln(a.Stdout, "  Blocks:   ", refLabel(uid, byUID))
	}
	fmt.Fprintf(a.Stdout, "  Urgency:   %.1f\n", t.RankScore)
	fmt.Fprintln(a.Stdout, "  Created:  ", t.CreatedAt.Format("2006-01-02 15:04"))
}

func refLabel(uid string, byUID map[string]task.Task) string {
	if t, ok := byUID[uid]; ok && t.ID != 0 {
		return fmt.Sprintf("%d (%s)", t.ID, t.Title)
	}
	return uid
}

func idLabel(t task.Task) string {
	if t.ID == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", t.ID)
}

func statusAbbrev(status string) string {
	switch status {
	case task.StatusPending:
		return "p"
	case task.StatusActive:
		return "a"
	case task.StatusDone:
		return "✓"
	case task.StatusDeleted:
		return "x"
	default:
		return "?"
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
