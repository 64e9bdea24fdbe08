package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique entity ids.
type Generator interface {
	NewID() string
}

// UUIDv7 returns time-ordered UUIDs. Ids created within the same millisecond
// are still strictly increasing.
type UUIDv7 struct{}

func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Sequence returns prefix-1, prefix-2, ... and is meant for tests and seeds.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return s.prefix + "-" + strconv.FormatUint(s.n.Add(1), 10)
}
