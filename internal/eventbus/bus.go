package eventbus

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Type string

const (
	TaskCreated        Type = "task.created"
	TaskCompleted      Type = "task.completed"
	TaskReassigned     Type = "task.reassigned"
	TaskDueDateChanged Type = "task.due_date_changed"
	TaskDeleted        Type = "task.deleted"
	UserRegistered     Type = "user.registered"
)

// Event is a change made through the tracker. TaskID is empty for user events.
type Event struct {
	ID     string            `json:"id"`
	Type   Type              `json:"type"`
	TaskID string            `json:"task_id,omitempty"`
	Actor  string            `json:"actor"`
	At     time.Time         `json:"at"`
	Detail map[string]string `json:"detail,omitempty"`
}

type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan *Event
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan *Event),
	}
}

func (b *Bus) Subscribe(bufSize int) (string, <-chan *Event) {
	id := ulid.Make().String()
	ch := make(chan *Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Close unsubscribes everyone. Publishing afterwards is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// buffer full, drop event for this subscriber
		}
	}
}

func (b *Bus) PublishNew(eventType Type, taskID, actor string, at time.Time, detail map[string]string) {
	b.Publish(&Event{
		ID:     ulid.Make().String(),
		Type:   eventType,
		TaskID: taskID,
		Actor:  actor,
		At:     at,
		Detail: detail,
	})
}
