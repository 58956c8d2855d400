package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FanOut(t *testing.T) {
	b := New()
	_, a := b.Subscribe(4)
	_, c := b.Subscribe(4)

	at := time.Date(2025, time.October, 10, 9, 0, 0, 0, time.UTC)
	b.PublishNew(TaskCreated, "T1", "amy", at, map[string]string{"title": "Write docs"})

	for _, ch := range []<-chan *Event{a, c} {
		ev := <-ch
		assert.Equal(t, TaskCreated, ev.Type)
		assert.Equal(t, "T1", ev.TaskID)
		assert.Equal(t, "amy", ev.Actor)
		assert.Equal(t, at, ev.At)
		assert.NotEmpty(t, ev.ID)
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	b := New()
	_, ch := b.Subscribe(1)

	b.PublishNew(TaskCreated, "T1", "amy", time.Now(), nil)
	b.PublishNew(TaskDeleted, "T1", "admin", time.Now(), nil)

	ev := <-ch
	assert.Equal(t, TaskCreated, ev.Type)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestBus_UnsubscribeCloses(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	b.Unsubscribe(id)

	_, ok := <-ch
	require.False(t, ok)

	// Unknown ids and publishing without subscribers are fine.
	b.Unsubscribe(id)
	b.PublishNew(UserRegistered, "", "admin", time.Now(), nil)
}

func TestBus_Close(t *testing.T) {
	b := New()
	_, a := b.Subscribe(1)
	_, c := b.Subscribe(1)
	b.Close()

	_, ok := <-a
	assert.False(t, ok)
	_, ok = <-c
	assert.False(t, ok)
}
