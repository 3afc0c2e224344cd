package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventCollaboratorAdded, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.CollaboratorID)
		return nil
	})
	d.Subscribe(EventCollaboratorAdded, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.CollaboratorID)
		return nil
	})
	d.Subscribe(EventRosterLoaded, func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventCollaboratorAdded, CollaboratorID: "42"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:42", "second:42"}, got)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventViewChanged}))
}

func TestDispatcher_JoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	errA := errors.New("relay down")
	errB := errors.New("log sink full")

	calls := 0
	d.Subscribe(EventRosterLoaded, func(context.Context, Event) error { calls++; return errA })
	d.Subscribe(EventRosterLoaded, func(context.Context, Event) error { calls++; return nil })
	d.Subscribe(EventRosterLoaded, func(context.Context, Event) error { calls++; return errB })

	err := d.Publish(context.Background(), Event{Type: EventRosterLoaded})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestDispatcher_ConcurrentSubscribeAndPublish(t *testing.T) {
	d := NewInMemoryDispatcher()

	var mu sync.Mutex
	delivered := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.Subscribe(EventViewChanged, func(context.Context, Event) error {
				mu.Lock()
				delivered++
				mu.Unlock()
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_ = d.Publish(context.Background(), Event{Type: EventViewChanged})
		}()
	}
	wg.Wait()

	mu.Lock()
	before := delivered
	mu.Unlock()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventViewChanged}))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, before+10, delivered)
}
