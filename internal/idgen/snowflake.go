package idgen

import (
	"fmt"
	"sync"
	"time"
)

// 41 bits of milliseconds since customEpoch, 10 bits of node, 12 bits of
// per-millisecond sequence.
const (
	nodeBits       = 10
	sequenceBits   = 12
	maxNodeID      = -1 ^ (-1 << nodeBits)
	maxSequence    = -1 ^ (-1 << sequenceBits)
	nodeShift      = sequenceBits
	timestampShift = sequenceBits + nodeBits
	customEpoch    = 1704067200000 // 2024-01-01T00:00:00Z
)

// Generator hands out time-ordered post ids. It is safe for concurrent use.
type Generator struct {
	mu            sync.Mutex
	nodeID        int64
	sequence      int64
	lastTimestamp int64
	now           func() time.Time
}

func NewGenerator(nodeID int64) (*Generator, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("node ID must be between 0 and %d, got %d", maxNodeID, nodeID)
	}

	return &Generator{
		nodeID: nodeID,
		now:    time.Now,
	}, nil
}

func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.millis()
	if timestamp < g.lastTimestamp {
		return 0, fmt.Errorf("clock moved backwards: refusing to generate ID for %d milliseconds", g.lastTimestamp-timestamp)
	}

	if timestamp == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			for timestamp <= g.lastTimestamp {
				timestamp = g.millis()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTimestamp = timestamp

	return (timestamp << timestampShift) | (g.nodeID << nodeShift) | g.sequence, nil
}

// NextCode returns NextID in base62.
func (g *Generator) NextCode() (string, error) {
	id, err := g.NextID()
	if err != nil {
		return "", err
	}
	return Encode(id), nil
}

func (g *Generator) millis() int64 {
	return g.now().UnixMilli() - customEpoch
}
