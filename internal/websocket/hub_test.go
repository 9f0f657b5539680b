package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   nil,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var got Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
	return Message{}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message %s", data)
	default:
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	var counts []int
	hub.OnClientCount(func(n int) { counts = append(counts, n) })

	c1 := mockClient(hub, "user_a")
	c2 := mockClient(hub, "user_b")

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)
	hub.Unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
	want := []int{1, 2, 1, 0}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts = %v, want %v", counts, want)
			break
		}
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, "user_a")
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "user_a")
	c2 := mockClient(hub, "user_b")
	hub.Register(c1)
	hub.Register(c2)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)

	hub.Broadcast(NewMessage("product", "created", "prod_1", nil))

	for _, c := range []*Client{c1, c2} {
		got := receive(t, c)
		if got.Type != "product_created" {
			t.Errorf("expected type product_created, got %s", got.Type)
		}
		if got.ID != "prod_1" {
			t.Errorf("expected id prod_1, got %s", got.ID)
		}
	}
}

func TestBroadcastToMembersOnly(t *testing.T) {
	hub := NewHub(slog.Default())

	alice := mockClient(hub, "user_a")
	alicePhone := mockClient(hub, "user_a")
	bob := mockClient(hub, "user_b")
	carol := mockClient(hub, "user_c")
	for _, c := range []*Client{alice, alicePhone, bob, carol} {
		hub.Register(c)
		defer hub.Unregister(c)
	}

	msg := NewMessage("list_item", "created", "item_1", map[string]any{"list_id": "list_1"})
	hub.BroadcastTo([]string{"user_a", "user_b"}, msg)

	for _, c := range []*Client{alice, alicePhone, bob} {
		got := receive(t, c)
		if got.Extra["list_id"] != "list_1" {
			t.Errorf("expected list_id list_1, got %v", got.Extra["list_id"])
		}
	}
	expectNothing(t, carol)

	hub.BroadcastTo(nil, msg)
	expectNothing(t, alice)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	hub.Broadcast(NewMessage("list", "cleared", "list_1", nil))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, "user_a")
	hub.Register(c)
	defer hub.Unregister(c)

	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewMessage("test", "fill", "", nil))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(NewMessage("test", "dropped", "", nil))

	count := 0
	for {
		select {
		case <-c.send:
			count++
			continue
		default:
		}
		break
	}
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("list_item", "updated", "item_5", nil)
	if msg.Type != "list_item_updated" {
		t.Errorf("expected type list_item_updated, got %s", msg.Type)
	}
	if msg.Entity != "list_item" {
		t.Errorf("expected entity list_item, got %s", msg.Entity)
	}
	if msg.Action != "updated" {
		t.Errorf("expected action updated, got %s", msg.Action)
	}
	if msg.ID != "item_5" {
		t.Errorf("expected id item_5, got %s", msg.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub, "user_a")
			hub.Register(c)
			hub.BroadcastTo([]string{"user_a"}, NewMessage("test", "concurrent", "", nil))
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
