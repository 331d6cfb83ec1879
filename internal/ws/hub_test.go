package ws

import (
	"testing"
	"time"

	"github.com/lexc24/tictactoe/internal/testutil"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "client-1", nil)
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast([]byte(`{"action":"queueUpdate","data":[]}`))

	select {
	case msg := <-client.send:
		if string(msg) != `{"action":"queueUpdate","data":[]}` {
			t.Errorf("unexpected message: %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	clients := []*Client{
		NewClient(hub, "client-1", nil),
		NewClient(hub, "client-2", nil),
		NewClient(hub, "client-3", nil),
	}
	for _, c := range clients {
		hub.Register(c)
	}
	waitFor(t, func() bool { return hub.ClientCount() == 3 })

	hub.Broadcast([]byte("update"))

	for _, c := range clients {
		select {
		case msg := <-c.send:
			if string(msg) != "update" {
				t.Errorf("client %s got %q, want %q", c.id, msg, "update")
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s got no message", c.id)
		}
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "client-1", nil)
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Unregister(client)
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	// The send channel is closed on unregister
	_, ok := <-client.send
	if ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHubBroadcastOrderPreserved(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "client-1", nil)
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast([]byte("first"))
	hub.Broadcast([]byte("second"))
	hub.Broadcast([]byte("third"))

	for _, want := range []string{"first", "second", "third"} {
		select {
		case msg := <-client.send:
			if string(msg) != want {
				t.Errorf("got %q, want %q", msg, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestHubSlowClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	slow := NewClient(hub, "slow", nil)
	slow.send = make(chan []byte) // unbuffered and never drained
	fast := NewClient(hub, "fast", nil)

	hub.Register(slow)
	hub.Register(fast)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.Broadcast([]byte("update"))

	// The fast client still receives despite the slow client's full buffer
	select {
	case <-fast.send:
	case <-time.After(time.Second):
		t.Fatal("fast client got no message")
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	client := NewClient(hub, "client-1", nil)
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after close, want 0", hub.ClientCount())
	}
}
