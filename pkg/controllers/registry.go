package controllers

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Tag classifies a registered controller
type Tag string

const (
	TagBaseController    Tag = "base.controller"    // Public facing controllers
	TagBackendController Tag = "backend.controller" // Administrative controllers
)

var (
	// ErrEmptyID is returned when a controller is registered without an ID
	ErrEmptyID = errors.New("controller registry: empty controller id")
	// ErrNilMethods is returned when a controller has no method source
	ErrNilMethods = errors.New("controller registry: nil method source")
	// ErrConflictingRegistration is returned when an ID is registered twice
	ErrConflictingRegistration = errors.New("controller registry: conflicting registration")
)

// Method describes one method of a controller and the metadata declared on it
type Method struct {
	Name       string
	Public     bool
	Route      string   // Route hint used as the initial SEO URL path
	Locked     bool     // Protected system route
	Parameters []string // Declared parameter names in order
}

// Descriptor is a registered controller. Methods is called every time the
// controller is inspected; returning an error marks the controller as not
// inspectable for that caller.
type Descriptor struct {
	ID      string
	Tags    []Tag
	Methods func() ([]Method, error)
}

// HasAnyTag reports whether the descriptor carries one of the tags
func (d Descriptor) HasAnyTag(tags ...Tag) bool {
	for _, want := range tags {
		for _, have := range d.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// StaticMethods returns a method source over a fixed method table
func StaticMethods(methods ...Method) func() ([]Method, error) {
	return func() ([]Method, error) {
		out := make([]Method, len(methods))
		copy(out, methods)
		return out, nil
	}
}

// Registry holds controller descriptors keyed by ID
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]Descriptor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]Descriptor),
	}
}

// Default is the process-wide registry populated from package init functions
var Default = NewRegistry()

// Register adds a controller to the registry
func (r *Registry) Register(d Descriptor) error {
	if d.ID == "" {
		return ErrEmptyID
	}
	if d.Methods == nil {
		return fmt.Errorf("%w for controller %s", ErrNilMethods, d.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controllers[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, d.ID)
	}
	r.controllers[d.ID] = d
	return nil
}

// MustRegister registers a controller and panics on error
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Unregister removes a controller. It returns false if the ID was unknown.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controllers[id]; !exists {
		return false
	}
	delete(r.controllers, id)
	return true
}

// Get returns the controller registered under id
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.controllers[id]
	return d, ok
}

// ListHandlers returns every controller tagged with at least one of tags.
// Without tags every controller is returned.
func (r *Registry) ListHandlers(tags ...Tag) map[string]Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]Descriptor)
	for id, d := range r.controllers {
		if len(tags) == 0 || d.HasAnyTag(tags...) {
			result[id] = d
		}
	}
	return result
}

// IDs returns the registered controller IDs in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered controllers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controllers)
}

// MustRegister registers a controller with the Default registry
func MustRegister(d Descriptor) {
	Default.MustRegister(d)
}
