package action

import (
	"fmt"
	"slices"
	"strings"
)

// Registry holds actions by name.
type Registry struct {
	actions map[string]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// Register adds actions. Names must be non-empty and unique.
func (r *Registry) Register(actions ...Action) error {
	for _, a := range actions {
		name := a.Name()
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("action registry: empty action name")
		}
		if _, exists := r.actions[name]; exists {
			return fmt.Errorf("action registry: %q registered twice", name)
		}
		r.actions[name] = a
	}
	return nil
}

// MustRegister is Register for static wiring; it panics on a duplicate.
func (r *Registry) MustRegister(actions ...Action) {
	if err := r.Register(actions...); err != nil {
		panic(err)
	}
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	return len(r.actions)
}
