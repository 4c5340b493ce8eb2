package accounts

import "github.com/google/uuid"

// EventKind names a registry mutation.
type EventKind string

const (
	EventLoaded   EventKind = "loaded"
	EventAdded    EventKind = "added"
	EventUpdated  EventKind = "updated"
	EventSwitched EventKind = "switched"
	EventRemoved  EventKind = "removed"
	EventCleared  EventKind = "cleared"
)

// Event describes a completed mutation. AccountID is the affected account,
// empty for Loaded and Cleared. CurrentID is the current id afterwards.
type Event struct {
	Kind      EventKind
	AccountID string
	CurrentID string
}

// Subscribe registers fn for every subsequent Event and returns a function
// that removes it. fn runs on the goroutine that performed the mutation,
// after the registry lock has been released.
func (r *Registry) Subscribe(fn func(Event)) (cancel func()) {
	id := uuid.New()

	r.subMu.Lock()
	r.subscribers[id] = fn
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subscribers, id)
		r.subMu.Unlock()
	}
}

func (r *Registry) publish(ev Event) {
	r.subMu.Lock()
	fns := make([]func(Event), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
