package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestPublishSubscribeOrder(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	next, unsub := b.Subscribe(ctx, "game:1")
	defer unsub()

	b.Publish("game:1", "a")
	b.Publish("game:1", "b")

	v1, ok := next()
	if !ok || v1 != "a" {
		t.Fatalf("expected a, got %v ok=%v", v1, ok)
	}
	v2, ok := next()
	if !ok || v2 != "b" {
		t.Fatalf("expected b, got %v ok=%v", v2, ok)
	}
}

func TestNoReplayBeforeSubscription(t *testing.T) {
	b := New()
	b.Publish("game:1", "before")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	next, unsub := b.Subscribe(ctx, "game:1")
	defer unsub()

	b.Publish("game:1", "after")
	v, ok := next()
	if !ok || v != "after" {
		t.Fatalf("expected only post-subscription event, got %v ok=%v", v, ok)
	}
}

func TestCancellationEndsSequence(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	next, _ := b.Subscribe(ctx, "game:1")
	cancel()

	done := make(chan struct{})
	go func() {
		_, ok := next()
		if ok {
			t.Error("expected pop to fail after cancellation")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pop did not return after cancellation")
	}
}

func TestOverflowDropsOldest(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	next, unsub := b.Subscribe(ctx, "game:1")
	defer unsub()

	for i := 0; i < defaultBuffer+10; i++ {
		b.Publish("game:1", i)
	}

	first, ok := next()
	if !ok {
		t.Fatal("expected an event")
	}
	if first == 0 {
		t.Fatal("expected the oldest events to have been dropped, got the very first one")
	}
}

func TestIndependentSubscribersEachGetEvents(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	next1, unsub1 := b.Subscribe(ctx, "game:1")
	defer unsub1()
	next2, unsub2 := b.Subscribe(ctx, "game:1")
	defer unsub2()

	b.Publish("game:1", "x")

	v1, ok1 := next1()
	v2, ok2 := next2()
	if !ok1 || v1 != "x" || !ok2 || v2 != "x" {
		t.Fatalf("expected both subscribers to receive x, got %v/%v %v/%v", v1, ok1, v2, ok2)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, unsub := b.Subscribe(ctx, "game:1")
	unsub()
	if n := b.SubscriberCount("game:1"); n != 0 {
		t.Fatalf("expected 0 subscribers after unsubscribe, got %d", n)
	}
}
