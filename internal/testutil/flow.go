package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator yields prefix-0001, prefix-0002, ... so call ids in
// golden files stay stable without listing every id up front.
//
// Unlike engine.FixedGenerator it never runs out.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator for prefix. An empty prefix
// becomes "call".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "call"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id. Implements engine.CallIDGenerator.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
