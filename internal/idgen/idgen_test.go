package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7IsStrictlyIncreasing(t *testing.T) {
	var gen UUIDv7
	prev := gen.NewID()
	for i := 0; i < 1000; i++ {
		next := gen.NewID()
		require.Greater(t, next, prev)
		prev = next
	}

	parsed, err := uuid.Parse(prev)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestSequence(t *testing.T) {
	seq := NewSequence("msg")
	assert.Equal(t, "msg-1", seq.NewID())
	assert.Equal(t, "msg-2", seq.NewID())
}
