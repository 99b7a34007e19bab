package sse

import (
	"testing"
	"time"

	"github.com/ollieshotz/shotz/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "event_insert",
			data:      `{"id":"evt_1","type":"save"}`,
			expected:  "event: event_insert\ndata: {\"id\":\"evt_1\",\"type\":\"save\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "game_update",
			data:      "{\n  \"status\": \"live\"\n}",
			expected:  "event: game_update\ndata: {\ndata:   \"status\": \"live\"\ndata: }\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "event_delete",
			data:      "line1\r\nline2",
			expected:  "event: event_delete\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub("game-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub)
	if !hub.Register(client) {
		t.Fatal("Register() = false, want true")
	}

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.BroadcastEvent("event_insert", `{"id":"evt_1"}`)

	select {
	case msg := <-client.send:
		want := "event: event_insert\ndata: {\"id\":\"evt_1\"}\n\n"
		if string(msg) != want {
			t.Errorf("received %q, want %q", string(msg), want)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub("game-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}

	// The hub closes the client's send channel on unregister
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := NewHub("game-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	c1 := NewClient(hub)
	c2 := NewClient(hub)
	hub.Register(c1)
	hub.Register(c2)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastEvent("game_update", `{"status":"completed"}`)

	for i, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			if len(msg) == 0 {
				t.Errorf("client %d received empty message", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %d timed out", i)
		}
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub("game-1", testutil.NopLogger())
	go hub.Run()

	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Close()
	time.Sleep(10 * time.Millisecond)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after hub shutdown")
	}
}

func TestHub_RegisterAfterCloseDoesNotBlock(t *testing.T) {
	hub := NewHub("game-1", testutil.NopLogger())
	go hub.Run()
	hub.Close()
	time.Sleep(10 * time.Millisecond)

	done := make(chan bool, 1)
	go func() {
		done <- hub.Register(NewClient(hub))
	}()

	select {
	case registered := <-done:
		if registered {
			t.Error("Register() = true on a closed hub, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("Register blocked on a closed hub")
	}

	// Unregister must not block either
	go func() {
		hub.Unregister(NewClient(hub))
		done <- true
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked on a closed hub")
	}
}
