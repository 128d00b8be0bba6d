package graph

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// IDSequence hands out node ids 00000000-0000-0000-0000-000000000001,
// ...0002 and so on.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type IDSequence struct {
	mu sync.Mutex
	n  uint64
}

// NewIDSequence creates a sequence whose first id ends in 1.
func NewIDSequence() *IDSequence {
	return &IDSequence{}
}

// Next returns the next id.
func (s *IDSequence) Next() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], s.n)
	return id
}

// Reset restarts the sequence at 1.
func (s *IDSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}

// renumber maps every server node id of s to the next id of seq, walking
// boxes in script order.
func renumber(s *Script, seq *IDSequence) map[uuid.UUID]uuid.UUID {
	ids := make(map[uuid.UUID]uuid.UUID)
	for _, b := range s.boxes {
		for _, n := range b.nodes {
			if n.IsServer() {
				ids[n.id] = seq.Next()
			}
		}
	}
	return ids
}
