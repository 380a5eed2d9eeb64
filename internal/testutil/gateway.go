package testutil

import "sync"

// FakeGateway is an always-fresh in-memory cache gateway that records every
// put for assertions.
type FakeGateway struct {
	mu      sync.Mutex
	entries map[string][]byte
	puts    []string
}

// NewFakeGateway constructs an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{entries: make(map[string][]byte)}
}

// GetIfFresh returns whatever was stored under key; entries never expire.
func (g *FakeGateway) GetIfFresh(key, namespace string) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	payload, ok := g.entries[key]
	return payload, ok
}

// Put stores payload under key and records the write.
func (g *FakeGateway) Put(key string, payload []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := make([]byte, len(payload))
	copy(stored, payload)
	g.entries[key] = stored
	g.puts = append(g.puts, key)
	return nil
}

// Seed pre-populates an entry without recording a put.
func (g *FakeGateway) Seed(key string, payload []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[key] = payload
}

// Puts returns the keys written so far, in order.
func (g *FakeGateway) Puts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.puts))
	copy(out, g.puts)
	return out
}

// Payload returns the stored bytes for key.
func (g *FakeGateway) Payload(key string) ([]byte, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	payload, ok := g.entries[key]
	return payload, ok
}
