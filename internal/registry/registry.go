package registry

import (
	"errors"
	"reflect"
	"slices"
	"sync"
)

var (
	ErrDuplicateName = errors.New("name already registered")
	ErrDuplicateType = errors.New("type already registered")
	ErrUnknownName   = errors.New("name not registered")
)

// Entry pairs a bean name with its definition and, once created, its
// singleton instance.
type Entry[D comparable] struct {
	Name         string
	Type         reflect.Type
	Definition   D
	Instance     any
	Instantiated bool
}

// Registry maps bean names and types to entries. D is the definition type
// owned by the caller.
type Registry[D comparable] struct {
	mu      sync.RWMutex
	entries map[string]*Entry[D]
	names   []string
	byType  map[reflect.Type]string
	aliases map[reflect.Type]string
	created []string
}

func New[D comparable]() *Registry[D] {
	return &Registry[D]{
		entries: make(map[string]*Entry[D]),
		byType:  make(map[reflect.Type]string),
		aliases: make(map[reflect.Type]string),
	}
}

// Register adds a definition. Registering the same definition under the
// same name again is a no-op; any other clash on name or type is an error.
func (r *Registry[D]) Register(name string, t reflect.Type, def D) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[name]; ok {
		if existing.Definition == def && existing.Type == t {
			return nil
		}
		return ErrDuplicateName
	}
	if _, ok := r.byType[t]; ok {
		return ErrDuplicateType
	}

	r.entries[name] = &Entry[D]{Name: name, Type: t, Definition: def}
	r.names = append(r.names, name)
	r.byType[t] = name
	return nil
}

// RegisterInstance adds an already built singleton.
func (r *Registry[D]) RegisterInstance(name string, t reflect.Type, def D, instance any) error {
	if err := r.Register(name, t, def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entries[name]
	if entry.Instantiated {
		return ErrDuplicateName
	}
	entry.Instance = instance
	entry.Instantiated = true
	r.created = append(r.created, name)
	return nil
}

// AliasName makes alias a second name for the entry registered under name.
// Aliases share the entry, its instance included, and are not listed by
// Names.
func (r *Registry[D]) AliasName(alias, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok {
		return ErrUnknownName
	}
	if existing, ok := r.entries[alias]; ok {
		if existing == entry {
			return nil
		}
		return ErrDuplicateName
	}
	r.entries[alias] = entry
	return nil
}

// Alias makes lookups of t resolve to the bean registered under name.
func (r *Registry[D]) Alias(t reflect.Type, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.aliases[t]; ok && existing != name {
		return ErrDuplicateType
	}
	if _, ok := r.byType[t]; ok {
		return ErrDuplicateType
	}
	r.aliases[t] = name
	return nil
}

func (r *Registry[D]) Get(name string) (Entry[D], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return Entry[D]{}, false
	}
	return *entry, true
}

// NameOf returns the bean name registered for exactly t, or aliased to t.
func (r *Registry[D]) NameOf(t reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.byType[t]; ok {
		return name, true
	}
	name, ok := r.aliases[t]
	return name, ok
}

// Implementers lists, in registration order, the beans whose type
// implements the interface iface.
func (r *Registry[D]) Implementers(iface reflect.Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, name := range r.names {
		t := r.entries[name].Type
		if t != iface && t.Implements(iface) {
			names = append(names, name)
		}
	}
	return names
}

func (r *Registry[D]) Instance(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok || !entry.Instantiated {
		return nil, false
	}
	return entry.Instance, true
}

// SetInstance caches the singleton for name and appends it to the creation
// order. It reports false if the name is unknown or already instantiated.
func (r *Registry[D]) SetInstance(name string, instance any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok || entry.Instantiated {
		return false
	}
	entry.Instance = instance
	entry.Instantiated = true
	r.created = append(r.created, name)
	return true
}

// Names returns bean names in registration order.
func (r *Registry[D]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.names)
}

// Created returns instantiated bean names in creation order.
func (r *Registry[D]) Created() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.created)
}

func (r *Registry[D]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}
