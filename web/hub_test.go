package web

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastAndClose(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := &Client{hub: h, send: make(chan []byte, 4)}
	if !h.join(ctx, c) {
		t.Fatal("join failed on a running hub")
	}
	h.Broadcast([]byte("hello"))

	select {
	case got := <-c.send:
		if string(got) != "hello" {
			t.Errorf("got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast not delivered")
	}

	if n := h.ClientCount(); n != 1 {
		t.Fatalf("ClientCount() = %d, want 1", n)
	}

	cancel()
	<-stopped

	if _, ok := <-c.send; ok {
		t.Error("client queue still open after hub stopped")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	slow := &Client{hub: h, send: make(chan []byte)}
	h.join(ctx, slow)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast([]byte("x"))
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestHubJoinAfterStop(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if h.join(ctx, &Client{hub: h, send: make(chan []byte, 1)}) {
		t.Error("join succeeded without a running hub")
	}
}

func TestHubSkipsBroadcastsBeforeJoin(t *testing.T) {
	t.Parallel()

	h := NewHub()

	// Queue before the hub runs: order is fixed by the queue alone.
	h.Broadcast([]byte("early"))
	c := &Client{hub: h, send: make(chan []byte, 4)}
	if !h.join(context.Background(), c) {
		t.Fatal("join failed")
	}
	h.Send(c, []byte("direct"))
	h.Broadcast([]byte("late"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	for _, want := range []string{"direct", "late"} {
		select {
		case got := <-c.send:
			if string(got) != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("%q not delivered", want)
		}
	}
}
