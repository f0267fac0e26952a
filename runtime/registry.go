// Package runtime builds values and calls their behaviours by name, from
// constructors and methods registered at compile time.
package runtime

import (
	"fmt"
	"message-lab/errors"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Constructor builds a value from a positional argument list.
type Constructor func(args ...any) (any, error)

// Method invokes a behaviour on target with a positional argument list.
type Method func(target any, args ...any) (any, error)

// Named is implemented by values whose methods are registered by type name.
type Named interface {
	TypeName() string
}

// PropertyHolder is implemented by values exposing named properties.
type PropertyHolder interface {
	Has(key string) bool
}

// Registry maps names to constructors and methods registered at start-up,
// so values can be built and invoked by name without runtime introspection.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	methods      map[string]map[string]Method // map type name -> method name -> method
}

func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
		methods:      make(map[string]map[string]Method),
	}
}

func (r *Registry) RegisterConstructor(name string, c Constructor) error {
	name = strings.TrimSpace(name)
	if name == "" || c == nil {
		return fmt.Errorf("%w: constructor needs a name and a function", errors.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.constructors[name]; exists {
		return fmt.Errorf("%w: constructor %s", errors.ErrAlreadyRegistered, name)
	}
	r.constructors[name] = c
	return nil
}

// RegisterMethod attaches a method to every value whose TypeName is typeName.
// The per-type map is created on the fly.
func (r *Registry) RegisterMethod(typeName, name string, m Method) error {
	typeName, name = strings.TrimSpace(typeName), strings.TrimSpace(name)
	if typeName == "" || name == "" || m == nil {
		return fmt.Errorf("%w: method needs a type, a name and a function", errors.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[typeName]; !ok {
		r.methods[typeName] = make(map[string]Method)
	}
	if _, exists := r.methods[typeName][name]; exists {
		return fmt.Errorf("%w: method %s.%s", errors.ErrAlreadyRegistered, typeName, name)
	}
	r.methods[typeName][name] = m
	return nil
}

// Construct builds a value with the constructor registered under name.
func (r *Registry) Construct(name string, args ...any) (any, error) {
	r.mu.RLock()
	c, ok := r.constructors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownConstructor, name)
	}
	return c(args...)
}

// Apply calls the method registered under name for the type of target.
// Errors returned by the method are passed through unchanged.
func (r *Registry) Apply(target any, name string, args ...any) (any, error) {
	m, ok := r.lookup(target, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownMethod, name)
	}
	return m(target, args...)
}

// Has reports whether target answers to name, either through a registered
// method or through one of its own named properties.
func (r *Registry) Has(target any, name string) bool {
	if _, ok := r.lookup(target, name); ok {
		return true
	}
	holder, ok := target.(PropertyHolder)
	return ok && holder.Has(name)
}

// IsInstance reports whether target was built as typeName.
func (r *Registry) IsInstance(target any, typeName string) bool {
	named, ok := target.(Named)
	return ok && named.TypeName() == typeName
}

func (r *Registry) Constructors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.constructors)
	slices.Sort(names)
	return names
}

func (r *Registry) Methods(typeName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.methods[typeName])
	slices.Sort(names)
	return names
}

func (r *Registry) lookup(target any, name string) (Method, bool) {
	named, ok := target.(Named)
	if !ok {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[named.TypeName()][name]
	return m, ok
}
