// Package registry keeps the ordered set of wizard steps. Steps attach and
// detach independently of navigation; order is first-registration order and
// names are unique, so registering an existing name replaces the descriptor in
// place.
package registry

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// ErrNameRequired is returned when registering a descriptor without a name.
var ErrNameRequired = errors.New("registry: input name is required")

// EventKind identifies a registry mutation.
type EventKind string

const (
	EventRegistered   EventKind = "registered"
	EventReplaced     EventKind = "replaced"
	EventUnregistered EventKind = "unregistered"
	EventUpdated      EventKind = "updated"
)

// Event describes a mutation. Index is the position of the entry before an
// unregister and after any other mutation.
type Event struct {
	Kind  EventKind
	Name  string
	Index int
}

// Listener observes registry mutations. Listeners run after the registry lock
// is released and may read the registry.
type Listener func(Event)

// Registry is an ordered, name-keyed collection of inputs.
type Registry struct {
	mu        sync.RWMutex
	inputs    []model.Input
	index     map[string]int
	listeners map[int]Listener
	nextID    int
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		index:     make(map[string]int),
		listeners: make(map[int]Listener),
	}
}

// Register upserts an input keyed by name. New names append; existing names
// are replaced at their original position. It reports whether the name was
// new.
func (r *Registry) Register(input model.Input) (bool, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return false, ErrNameRequired
	}
	input = input.Clone()
	input.Name = name

	r.mu.Lock()
	event := Event{Name: name}
	if pos, ok := r.index[name]; ok {
		r.inputs[pos] = input
		event.Kind, event.Index = EventReplaced, pos
	} else {
		r.inputs = append(r.inputs, input)
		r.index[name] = len(r.inputs) - 1
		event.Kind, event.Index = EventRegistered, len(r.inputs)-1
	}
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, event)
	return event.Kind == EventRegistered, nil
}

// Unregister removes the named input. It returns the index the entry held and
// false when the name was not registered.
func (r *Registry) Unregister(name string) (int, bool) {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	pos, ok := r.index[name]
	if !ok {
		r.mu.Unlock()
		return -1, false
	}
	r.inputs = append(r.inputs[:pos], r.inputs[pos+1:]...)
	delete(r.index, name)
	for i := pos; i < len(r.inputs); i++ {
		r.index[r.inputs[i].Name] = i
	}
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, Event{Kind: EventUnregistered, Name: name, Index: pos})
	return pos, true
}

// Update mutates the named input in place. The callback receives a pointer
// to the stored descriptor and must not retain it; renaming is ignored.
func (r *Registry) Update(name string, fn func(*model.Input)) bool {
	if fn == nil {
		return false
	}
	name = strings.TrimSpace(name)

	r.mu.Lock()
	pos, ok := r.index[name]
	if !ok {
		r.mu.Unlock()
		return false
	}
	fn(&r.inputs[pos])
	r.inputs[pos].Name = name
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, Event{Kind: EventUpdated, Name: name, Index: pos})
	return true
}

// Get returns a copy of the named input.
func (r *Registry) Get(name string) (model.Input, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[strings.TrimSpace(name)]
	if !ok {
		return model.Input{}, false
	}
	return r.inputs[pos].Clone(), true
}

// At returns a copy of the input at index.
func (r *Registry) At(index int) (model.Input, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.inputs) {
		return model.Input{}, false
	}
	return r.inputs[index].Clone(), true
}

// IndexOf returns the position of the named input or -1.
func (r *Registry) IndexOf(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if pos, ok := r.index[strings.TrimSpace(name)]; ok {
		return pos
	}
	return -1
}

// Snapshot returns copies of every input in registration order.
func (r *Registry) Snapshot() []model.Input {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Input, len(r.inputs))
	for i, input := range r.inputs {
		out[i] = input.Clone()
	}
	return out
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.inputs))
	for i, input := range r.inputs {
		out[i] = input.Name
	}
	return out
}

// Count reports the number of registered inputs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.inputs)
}

// Subscribe registers a listener and returns a function that removes it.
func (r *Registry) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = listener
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

func (r *Registry) listenersLocked() []Listener {
	if len(r.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = r.listeners[id]
	}
	return out
}

func notify(listeners []Listener, event Event) {
	for _, listener := range listeners {
		listener(event)
	}
}
