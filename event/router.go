package event

// Handler is implemented by systems and services that consume events
type Handler interface {
	// EventTypes returns the event types this handler wants
	EventTypes() []Type

	// HandleEvent processes a single event, called on the frame loop thread
	HandleEvent(ev GameEvent)
}

// Router dispatches consumed events to registered handlers.
// Registration happens during startup; dispatch is single-threaded
type Router struct {
	handlers map[Type][]Handler
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[Type][]Handler),
	}
}

// Register subscribes a handler to all its declared event types
func (r *Router) Register(h Handler) {
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// Dispatch routes one event to every handler registered for its type
func (r *Router) Dispatch(ev GameEvent) {
	for _, h := range r.handlers[ev.Type] {
		h.HandleEvent(ev)
	}
}

// DispatchAll drains a slice of consumed events through the router
func (r *Router) DispatchAll(events []GameEvent) {
	for _, ev := range events {
		r.Dispatch(ev)
	}
}
