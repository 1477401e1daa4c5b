package format

import (
	"strings"
	"sync"

	"github.com/vburojevic/ltail/internal/errs"
)

// Registry holds the built-in formats plus user defined ones
type Registry struct {
	mu      sync.RWMutex
	builtIn []Descriptor
	custom  []Descriptor
}

// NewRegistry creates a registry seeded with the built-ins and the given custom formats.
// Custom formats that collide with a built-in name are ignored.
func NewRegistry(custom ...Descriptor) *Registry {
	r := &Registry{builtIn: BuiltIns()}
	for _, d := range custom {
		if r.isBuiltInName(d.Name) {
			continue
		}
		d.BuiltIn = false
		r.custom = upsert(r.custom, d)
	}
	return r
}

// GetByName returns the format with the given name, ignoring case.
// Unknown names fall back to Default.
func (r *Registry) GetByName(name string) Descriptor {
	if d, ok := r.Lookup(name); ok {
		return d
	}
	return Default()
}

// Lookup returns the format with the given name, ignoring case
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	name = strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.builtIn {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	for _, d := range r.custom {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// All returns the built-in formats followed by the custom ones
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.builtIn)+len(r.custom))
	out = append(out, r.builtIn...)
	return append(out, r.custom...)
}

// Custom returns only the user defined formats
func (r *Registry) Custom() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Descriptor(nil), r.custom...)
}

// Save adds d or replaces the custom format with the same name.
// Built-in formats cannot be overwritten.
func (r *Registry) Save(d Descriptor) error {
	if d.BuiltIn || r.isBuiltInName(d.Name) {
		return errs.NewPermissionDenied("cannot modify built-in format " + d.Name)
	}
	if d.LevelRegexp() == nil {
		return errs.NewMalformedInput("format "+d.Name+" was not compiled", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = upsert(r.custom, d)
	return nil
}

// Delete removes the custom format with the given name.
// It reports whether a format was removed.
func (r *Registry) Delete(name string) (bool, error) {
	if r.isBuiltInName(name) {
		return false, errs.NewPermissionDenied("cannot delete built-in format " + name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.custom {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) {
			r.custom = append(r.custom[:i], r.custom[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *Registry) isBuiltInName(name string) bool {
	name = strings.TrimSpace(name)
	for _, d := range r.builtIn {
		if strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

func upsert(list []Descriptor, d Descriptor) []Descriptor {
	for i := range list {
		if strings.EqualFold(list[i].Name, d.Name) {
			list[i] = d
			return list
		}
	}
	return append(list, d)
}
