package command

import (
	"fmt"
	"sort"
)

// Registry resolves the first word of a console line to its Command.
//
// Invariant: every canonical name and alias maps to exactly one Command.
type Registry struct {
	// words maps canonical names and aliases alike.
	words  map[string]*Command
	sorted []*Command
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error naming the first collision.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{words: make(map[string]*Command, 2*len(cmds))}
	for i := range cmds {
		if err := r.register(&cmds[i]); err != nil {
			return nil, err
		}
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].Name < r.sorted[j].Name })
	return r, nil
}

func (r *Registry) register(cmd *Command) error {
	if prev, taken := r.words[cmd.Name]; taken {
		if prev.Name == cmd.Name {
			return fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		return fmt.Errorf("command name %q is already an alias of %q", cmd.Name, prev.Name)
	}
	r.words[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		if prev, taken := r.words[alias]; taken {
			if prev.Name == alias {
				return fmt.Errorf("alias %q of %q shadows a command name", alias, cmd.Name)
			}
			return fmt.Errorf("duplicate alias %q: used by %q and %q", alias, prev.Name, cmd.Name)
		}
		r.words[alias] = cmd
	}
	r.sorted = append(r.sorted, cmd)
	return nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias. word must already be lowercased,
// as Parse does.
func (r *Registry) Resolve(word string) (*Command, bool) {
	cmd, ok := r.words[word]
	return cmd, ok
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.sorted...)
}

// CommandsByCategory returns commands grouped by category, each group sorted by name.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.sorted {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}
