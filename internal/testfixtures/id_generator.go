package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator mints sequential identifiers so tests can predict the event
// ids a fake transport will hand back.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

// NewIDGenerator returns a generator yielding "<prefix>-1", "<prefix>-2"
// and so on. An empty prefix defaults to "id".
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

// NextFunc adapts the generator to the `func() string` shape dependencies
// expect.
func (g *IDGenerator) NextFunc() func() string {
	return g.Next
}
