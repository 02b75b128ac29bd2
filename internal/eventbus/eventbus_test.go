package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishDeliversInOrder(t *testing.T) {
	b := New(zap.NewNop())
	defer b.Close()

	var mu sync.Mutex
	var got []uint64
	done := make(chan struct{})

	b.Subscribe(EventSearchStarted, func(e DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(SearchStartedEvent).Token)
		if len(got) == 3 {
			close(done)
		}
	})

	for i := uint64(1); i <= 3; i++ {
		b.Publish(SearchStartedEvent{Token: i})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2, 3}, got)
}

func TestSubscribersOnlySeeTheirType(t *testing.T) {
	b := New(nil)

	var completed, failed int
	var mu sync.Mutex
	b.Subscribe(EventSearchCompleted, func(DomainEvent) { mu.Lock(); completed++; mu.Unlock() })
	b.Subscribe(EventSearchFailed, func(DomainEvent) { mu.Lock(); failed++; mu.Unlock() })

	b.Publish(SearchCompletedEvent{Token: 1})
	b.Publish(SearchCompletedEvent{Token: 2})
	b.Publish(SearchFailedEvent{Token: 3})
	b.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 1, failed)
}

func TestUnsubscribe(t *testing.T) {
	b := New(nil)

	var calls int
	var mu sync.Mutex
	unsubscribe := b.Subscribe(EventConfigSaved, func(DomainEvent) { mu.Lock(); calls++; mu.Unlock() })
	unsubscribe()

	b.Publish(ConfigSavedEvent{Path: "x"})
	b.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	b := New(nil)

	delivered := make(chan struct{}, 1)
	b.Subscribe(EventHistoryChanged, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventHistoryChanged, func(DomainEvent) { delivered <- struct{}{} })

	b.Publish(HistoryChangedEvent{Recent: []string{"asthma"}})
	b.Close()

	select {
	case <-delivered:
	default:
		require.Fail(t, "second handler not called after panic")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New(nil)
	b.Close()
	b.Close()

	assert.NotPanics(t, func() { b.Publish(ConfigSavedEvent{}) })
}
