package command

import (
	"fmt"
	"sort"
)

// Registry maps verb names and aliases to Verb definitions.
type Registry struct {
	verbs   map[string]*Verb // canonical name → verb
	aliases map[string]string
}

// NewRegistry creates a Registry populated with the given verbs.
//
// Precondition: No two verbs may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(verbs []Verb) (*Registry, error) {
	r := &Registry{
		verbs:   make(map[string]*Verb, len(verbs)),
		aliases: make(map[string]string),
	}

	for i := range verbs {
		v := &verbs[i]
		if v.Build == nil {
			return nil, fmt.Errorf("verb %q has no builder", v.Name)
		}
		if _, exists := r.verbs[v.Name]; exists {
			return nil, fmt.Errorf("duplicate verb name: %q", v.Name)
		}
		if _, exists := r.aliases[v.Name]; exists {
			return nil, fmt.Errorf("verb name %q conflicts with an existing alias", v.Name)
		}
		r.verbs[v.Name] = v

		for _, alias := range v.Aliases {
			if _, exists := r.verbs[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with verb name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, v.Name)
			}
			r.aliases[alias] = v.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in verbs.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinVerbs())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a verb by name or alias.
//
// Postcondition: Returns (verb, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Verb, bool) {
	if v, ok := r.verbs[input]; ok {
		return v, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.verbs[canonical], true
	}
	return nil, false
}

// Build parses line and constructs the command it names, stamped atMs.
//
// Precondition: line is non-blank.
// Postcondition: Returns a Command, or an error wrapping ErrUnknownCommand
// for an unregistered verb, or a usage error from the verb's builder.
func (r *Registry) Build(line string, atMs int64) (Command, error) {
	p := Parse(line)
	if p.Verb == "" {
		return nil, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	v, ok := r.Resolve(p.Verb)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, p.Verb)
	}
	cmd, err := v.Build(p.Args, atMs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Name, err)
	}
	return cmd, nil
}

// Verbs returns all registered verbs sorted by name.
func (r *Registry) Verbs() []*Verb {
	result := make([]*Verb, 0, len(r.verbs))
	for _, v := range r.verbs {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// VerbsByCategory returns verbs grouped by category.
func (r *Registry) VerbsByCategory() map[string][]*Verb {
	categories := make(map[string][]*Verb)
	for _, v := range r.Verbs() {
		categories[v.Category] = append(categories[v.Category], v)
	}
	return categories
}
