package diag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	var c Capture
	c.Warnf("bad action at %#x", 16)
	c.Warnf("bad vendor")

	require.Equal(t, []string{"bad action at 0x10", "bad vendor"}, c.Messages())
}

func TestRateLimited(t *testing.T) {
	now := time.Unix(0, 0)

	var c Capture
	rl := NewRateLimited(&c, 1, 2)
	rl.now = func() time.Time { return now }

	// The burst passes, everything after it is dropped.
	rl.Warnf("one")
	rl.Warnf("two")
	rl.Warnf("three")
	require.Equal(t, []string{"one", "two"}, c.Messages())

	// A token refills after a second.
	now = now.Add(time.Second)
	rl.Warnf("four")
	rl.Warnf("five")
	require.Equal(t, []string{"one", "two", "four"}, c.Messages())
}

func TestDiscard(t *testing.T) {
	// Only proves the no-op sink does not blow up.
	Discard().Warnf("dropped %d", 1)
}
