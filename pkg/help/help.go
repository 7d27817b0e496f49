// Package help is a read-only lookup table of commands.
//
// A [Registry] holds top-level commands and their subcommands together with
// a usage line where required arguments are written <name> and optional ones
// [name]. The CLI builds it from its cobra tree with [FromCobra]; the
// help-info command and the HTTP /help endpoint only read it.
package help

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// Arg is a positional argument or flag shown in a usage line.
type Arg struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// String renders the argument as <name> or [name].
func (a Arg) String() string {
	if a.Required {
		return "<" + a.Name + ">"
	}
	return "[" + a.Name + "]"
}

// Entry describes one command.
type Entry struct {
	// Path is the command path without the program name, e.g. "map create".
	Path        string  `json:"path"`
	Description string  `json:"description"`
	Args        []Arg   `json:"args,omitempty"`
	Subcommands []Entry `json:"subcommands,omitempty"`
}

// Name returns the last element of the path.
func (e Entry) Name() string {
	if i := strings.LastIndex(e.Path, " "); i >= 0 {
		return e.Path[i+1:]
	}
	return e.Path
}

// IsSubcommand reports whether the entry is nested below another command.
func (e Entry) IsSubcommand() bool {
	return strings.Contains(e.Path, " ")
}

// Usage returns the command structure, e.g. "mindmap node add <map-id> <text> [color]".
func (e Entry) Usage(program string) string {
	parts := []string{program, e.Path}
	for _, a := range e.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// Suggestion is one completion candidate.
type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Registry is an immutable command lookup table.
type Registry struct {
	program string
	entries []Entry
	index   map[string]Entry
}

// NewRegistry builds a registry for program from top-level entries.
func NewRegistry(program string, entries []Entry) *Registry {
	r := &Registry{
		program: program,
		entries: slices.Clone(entries),
		index:   make(map[string]Entry),
	}
	var walk func([]Entry)
	walk = func(es []Entry) {
		for _, e := range es {
			r.index[normalize(e.Path)] = e
			walk(e.Subcommands)
		}
	}
	walk(r.entries)
	return r
}

// Program returns the program name used in usage lines.
func (r *Registry) Program() string { return r.program }

// Commands returns the top-level entries in registration order.
func (r *Registry) Commands() []Entry { return slices.Clone(r.entries) }

// Lookup finds a command by path. Lookup is case-insensitive, tolerates a
// leading "/" or program name, and collapses repeated spaces.
func (r *Registry) Lookup(name string) (Entry, bool) {
	key := normalize(name)
	if rest, ok := strings.CutPrefix(key, strings.ToLower(r.program)+" "); ok {
		key = rest
	}
	e, ok := r.index[key]
	return e, ok
}

// MaxSuggestions caps the result of Complete.
const MaxSuggestions = 25

// Complete returns every command and subcommand whose path starts with
// prefix. An input naming a command followed by a space only suggests that
// command's subcommands.
func (r *Registry) Complete(prefix string) []Suggestion {
	p := strings.TrimPrefix(strings.ToLower(strings.TrimLeft(prefix, " ")), "/")

	var out []Suggestion
	add := func(e Entry) bool {
		if !strings.HasPrefix(strings.ToLower(e.Path), p) {
			return true
		}
		kind := "Main Command"
		if e.IsSubcommand() {
			kind = "Subcommand"
		}
		out = append(out, Suggestion{Value: e.Path, Label: e.Path + " - " + kind})
		return len(out) < MaxSuggestions
	}

	if parent, _, nested := strings.Cut(p, " "); nested {
		if e, ok := r.index[parent]; ok {
			for _, s := range e.Subcommands {
				if !add(s) {
					break
				}
			}
		}
		return out
	}

	for _, e := range r.entries {
		if !add(e) {
			return out
		}
	}
	for _, e := range r.entries {
		for _, s := range e.Subcommands {
			if !add(s) {
				return out
			}
		}
	}
	return out
}

func normalize(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// FromCobra builds a registry from a cobra command tree. Hidden commands
// and cobra's own help command are skipped. Arguments are taken from the
// <required> and [optional] tokens of each Use line.
func FromCobra(root *cobra.Command) *Registry {
	var build func(parent string, cmd *cobra.Command) Entry
	build = func(parent string, cmd *cobra.Command) Entry {
		path := cmd.Name()
		if parent != "" {
			path = parent + " " + path
		}
		e := Entry{Path: path, Description: cmd.Short, Args: parseUse(cmd.Use)}
		for _, c := range cmd.Commands() {
			if skip(c) {
				continue
			}
			e.Subcommands = append(e.Subcommands, build(path, c))
		}
		return e
	}

	var entries []Entry
	for _, c := range root.Commands() {
		if skip(c) {
			continue
		}
		entries = append(entries, build("", c))
	}
	return NewRegistry(root.Name(), entries)
}

func skip(c *cobra.Command) bool {
	return c.Name() == "help" || !c.IsAvailableCommand()
}

func parseUse(use string) []Arg {
	fields := strings.Fields(use)
	if len(fields) < 2 {
		return nil
	}
	var args []Arg
	for _, f := range fields[1:] {
		switch {
		case f == "[flags]":
		case strings.HasPrefix(f, "<") && strings.HasSuffix(f, ">"):
			args = append(args, Arg{Name: strings.Trim(f, "<>"), Required: true})
		case strings.HasPrefix(f, "[") && strings.HasSuffix(f, "]"):
			args = append(args, Arg{Name: strings.Trim(f, "[]")})
		}
	}
	return args
}
