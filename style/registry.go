package style

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/maruel/natural"
)

// Registry tracks stylesheets currently attached to the document so the same
// styles are not injected twice.
type Registry struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewRegistry creates empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]string)}
}

// CreateID registers value under id (random one when id is empty) and
// returns the id. Nothing is registered and false is returned when id is
// already taken or identical value is registered under any id.
func (r *Registry) CreateID(id, value string) (string, bool) {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return "", false
	}
	for _, v := range r.entries {
		if v != "" && v == value {
			return "", false
		}
	}
	r.entries[id] = value
	return id, true
}

// Set updates value registered under id.
func (r *Registry) Set(id, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = value
}

// Remove forgets id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// ActiveValues returns non empty registered values ordered by id.
func (r *Registry) ActiveValues() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Sort(natural.StringSlice(ids))

	values := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := r.entries[id]; v != "" {
			values = append(values, v)
		}
	}
	return values
}
