package stream

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/pricing-board/internal/broker"
)

type countingObserver struct {
	added, removed, dropped atomic.Int32
}

func (o *countingObserver) SubscriberAdded()   { o.added.Add(1) }
func (o *countingObserver) SubscriberRemoved() { o.removed.Add(1) }
func (o *countingObserver) DeliveryDropped()   { o.dropped.Add(1) }

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitSubscribers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.Stats().Subscribers == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Subscribers = %d, want %d", h.Stats().Subscribers, n)
}

func outbound(vendor, instrument, body string) broker.Message {
	return broker.Message{
		Topic: "Outbound",
		Value: []byte(body),
		Headers: map[string]string{
			broker.HeaderVendor:     vendor,
			broker.HeaderInstrument: instrument,
		},
	}
}

func TestHub_DeliversBySelector(t *testing.T) {
	hub := NewHub(DefaultConfig(), nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	all := dial(t, server, "")
	onlyX := dial(t, server, "vendor=VendorX")
	onlyBBB := dial(t, server, "vendor=VendorY&instrument=BBB")
	waitSubscribers(t, hub, 3)

	ctx := context.Background()
	hub.Publish(ctx, outbound("VendorX", "AAA", "x-aaa"))
	hub.Publish(ctx, outbound("VendorY", "BBB", "y-bbb"))

	read := func(conn *websocket.Conn) string {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		return string(data)
	}

	if got := read(all); got != "x-aaa" {
		t.Errorf("all[0] = %q, want x-aaa", got)
	}
	if got := read(all); got != "y-bbb" {
		t.Errorf("all[1] = %q, want y-bbb", got)
	}
	if got := read(onlyX); got != "x-aaa" {
		t.Errorf("onlyX = %q, want x-aaa", got)
	}
	if got := read(onlyBBB); got != "y-bbb" {
		t.Errorf("onlyBBB = %q, want y-bbb", got)
	}

	if got := hub.Stats().Delivered; got != 4 {
		t.Errorf("Delivered = %d, want 4", got)
	}
}

func TestHub_DropsForFullQueue(t *testing.T) {
	obs := &countingObserver{}
	hub := NewHub(DefaultConfig(), nil)
	hub.SetObserver(obs)

	// A subscriber with no writer draining its queue.
	sub := &subscriber{
		id:       "slow",
		selector: broker.NewSelector("", ""),
		send:     make(chan []byte, 1),
		done:     make(chan struct{}),
	}
	hub.subscribers[sub] = struct{}{}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := hub.Publish(ctx, outbound("VendorX", "AAA", "p")); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	stats := hub.Stats()
	if stats.Delivered != 1 || stats.Dropped != 2 {
		t.Errorf("stats = %+v, want 1 delivered, 2 dropped", stats)
	}
	if got := obs.dropped.Load(); got != 2 {
		t.Errorf("observer dropped = %d, want 2", got)
	}
}

func TestHub_Close(t *testing.T) {
	obs := &countingObserver{}
	hub := NewHub(DefaultConfig(), nil)
	hub.SetObserver(obs)
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dial(t, server, "")
	waitSubscribers(t, hub, 1)

	hub.Close()
	waitSubscribers(t, hub, 0)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}

	if err := hub.Publish(context.Background(), outbound("VendorX", "AAA", "p")); !errors.Is(err, ErrHubClosed) {
		t.Errorf("Publish after Close = %v, want ErrHubClosed", err)
	}
	if obs.added.Load() != 1 || obs.removed.Load() != 1 {
		t.Errorf("observer added=%d removed=%d, want 1/1", obs.added.Load(), obs.removed.Load())
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub(DefaultConfig(), nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	conn := dial(t, server, "")
	waitSubscribers(t, hub, 1)

	conn.Close()
	waitSubscribers(t, hub, 0)
}
