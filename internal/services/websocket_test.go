package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastDropsClientWithFullBuffer(t *testing.T) {
	hub := NewHub()

	healthy := &Client{ID: 1, UserType: "traveler", Send: make(chan []byte, 8)}
	stale := &Client{ID: 1, UserType: "traveler", Send: make(chan []byte)}
	hub.clients[healthy] = true
	hub.clients[stale] = true

	hub.BroadcastToUser(1, []byte(`{"type":"ping"}`))

	assert.Equal(t, 1, hub.GetConnectedClients())
	assert.Len(t, healthy.Send, 1)

	_, open := <-stale.Send
	assert.False(t, open, "dropped client's channel should be closed")
}

func TestConcurrentBroadcastsAndCounts(t *testing.T) {
	hub := NewHub()
	for i := uint(1); i <= 4; i++ {
		hub.clients[&Client{ID: i, UserType: "traveler", Send: make(chan []byte, 256)}] = true
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.BroadcastToUser(uint(n%4+1), []byte(`{"type":"ping"}`))
				hub.GetConnectedClients()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, hub.GetConnectedClients())
}
