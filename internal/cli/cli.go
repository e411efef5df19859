package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/amirbrooks/taskcli/internal/dates"
	"github.com/amirbrooks/taskcli/internal/parse"
	"github.com/amirbrooks/taskcli/internal/store"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitInternal = 10
)

// App carries the wiring a command handler needs. Streams and the
// clock are injectable for tests.
type App struct {
	Store  *store.Store
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type handler struct {
	run     func(a *App, filter, modification []string) int
	summary string
}

// registry maps every command name, aliases included, to its handler.
// Built explicitly at startup; the set of keys is also what the
// argument segmenter treats as section delimiters.
func registry() map[string]handler {
	reg := map[string]handler{
		"init":    {cmdInit, "create the config and task database"},
		"add":     {cmdAdd, "add a task from the modification section"},
		"list":    {cmdList, "list tasks matching the filter"},
		"show":    {cmdShow, "show full details of matching tasks"},
		"modify":  {cmdModify, "apply the modification to matching tasks"},
		"done":    {cmdDone, "mark matching tasks done"},
		"start":   {cmdStart, "mark matching tasks active"},
		"stop":    {cmdStop, "return matching tasks to pending"},
		"delete":  {cmdDelete, "mark matching tasks deleted"},
		"context": {cmdContext, "list or switch contexts"},
		"help":    {cmdHelp, "show this help"},
	}
	reg["ls"] = reg["list"]
	reg["mod"] = reg["modify"]
	reg["del"] = reg["delete"]
	return reg
}

// Run is the entry point: it segments argv around the first known
// command name and dispatches. Everything before the command is the
// filter section, everything after it the modification section.
func Run(args []string) int {
	a := &App{
		Now:    func() time.Time { return time.Now().UTC() },
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	return a.Run(args)
}

func (a *App) Run(args []string) int {
	reg := registry()
	if len(args) == 0 {
		a.printUsage(reg)
		return ExitUsage
	}

	names := make(map[string]bool, len(reg))
	for name := range reg {
		names[name] = true
	}
	cmd, filterToks, modToks, ok := parse.SeparateSections(args, names)
	if !ok {
		fmt.Fprintln(a.Stderr, "Unknown command. Available commands:", commandNames(reg))
		return ExitUsage
	}

	if a.Store == nil {
		st, err := store.Open(store.DefaultRoot())
		if err != nil {
			fmt.Fprintln(a.Stderr, "task:", err)
			return ExitInternal
		}
		a.Store = st
	}
	return reg[cmd].run(a, filterToks, modToks)
}

// today is the reference date for every date expression in this
// invocation.
func (a *App) today() dates.Date {
	return dates.FromTime(a.Now())
}

// warn surfaces parser diagnostics without stopping the command.
func (a *App) warn(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(a.Stderr, "task:", w)
	}
}

// confirm prompts on stdout and reads a y/n answer from stdin.
func (a *App) confirm(prompt string) bool {
	fmt.Fprint(a.Stdout, prompt)
	reader := bufio.NewReader(a.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}

func commandNames(reg map[string]handler) string {
	names := make([]string, 0, len(reg))
	for name := range reg {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (a *App) printUsage(reg map[string]handler) {
	fmt.Fprint(a.Stdout, `task - personal task tracker

Usage:
  task [filter] <command> [modification]

Filter tokens (before the command):
  12              sequential task id (repeatable)
  word            title substring
  +tag / -tag     must have / must not have tag
  project:home    exact project
  priority:h      priority H|M|L
  due:friday      due date (today, tomorrow, eom, weekday, month,
                  YYYY-MM-DD, nov6)
  scheduled:eom   scheduled date
  status:pending  status (pending|active|done|deleted)
  depends:3       depends on task 3
  blocks:3        blocks task 3

Modification tokens (after the command):
  word            title word
  +tag / -tag     add / remove tag
  depends:3,-4    add / remove a dependency by task id (blocks: likewise)
  project:work priority:m due:tomorrow scheduled:2026-01-15

Environment:
  TASKCLI_ROOT    store root (default ~/.taskcli)

Commands:
`)
	primaries := []string{"init", "add", "list", "show", "modify", "done", "start", "stop", "delete", "context", "help"}
	for _, name := range primaries {
		fmt.Fprintf(a.Stdout, "  %-8s %s\n", name, reg[name].summary)
	}
	fmt.Fprintln(a.Stdout, "\nAliases: ls=list, mod=modify, del=delete")
}
