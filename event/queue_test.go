package event

import (
	"sync"
	"testing"

	"github.com/lixenwraith/voxforge/parameter"
)

func TestQueuePushConsumeFIFO(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 10; i++ {
		q.Push(GameEvent{Type: EventEntityCreated, Payload: i})
	}
	if q.Len() != 10 {
		t.Errorf("len = %d, want 10", q.Len())
	}

	events := q.Consume()
	if len(events) != 10 {
		t.Fatalf("consumed %d events, want 10", len(events))
	}
	for i, ev := range events {
		if ev.Payload.(int) != i {
			t.Errorf("event %d payload = %v, want %d", i, ev.Payload, i)
		}
	}
	if got := q.Consume(); got != nil {
		t.Errorf("second consume returned %d events, want none", len(got))
	}
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	q := NewQueue()
	total := parameter.EventQueueSize + 100
	for i := 0; i < total; i++ {
		q.Push(GameEvent{Type: EventEntityCreated, Payload: i})
	}

	events := q.Consume()
	if len(events) > parameter.EventQueueSize {
		t.Fatalf("consumed %d events, capacity is %d", len(events), parameter.EventQueueSize)
	}
	// The newest event must have survived the overwrite
	last := events[len(events)-1]
	if last.Payload.(int) != total-1 {
		t.Errorf("newest payload = %v, want %d", last.Payload, total-1)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(GameEvent{Type: EventSoundRequest, Payload: id})
			}
		}(p)
	}
	wg.Wait()

	events := q.Consume()
	if len(events) != producers*perProducer {
		t.Errorf("consumed %d events, want %d", len(events), producers*perProducer)
	}
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	h := &recordingHandler{types: []Type{EventSoundRequest, EventWorldClear}}
	r.Register(h)

	r.Dispatch(GameEvent{Type: EventSoundRequest})
	r.Dispatch(GameEvent{Type: EventEntityCreated}) // not subscribed
	r.DispatchAll([]GameEvent{{Type: EventWorldClear}, {Type: EventWorldClear}})

	if h.count != 3 {
		t.Errorf("handler saw %d events, want 3", h.count)
	}
}

type recordingHandler struct {
	types []Type
	count int
}

func (h *recordingHandler) EventTypes() []Type      { return h.types }
func (h *recordingHandler) HandleEvent(ev GameEvent) { h.count++ }
