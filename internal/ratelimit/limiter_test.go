package ratelimit

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabled(t *testing.T) {
	assert.Nil(t, New(0, 5, 0))
	assert.Nil(t, New(1, 0, 0))

	var l *Limiter
	assert.True(t, l.Allow("10.0.0.1", time.Now()))
}

func TestAllowPerKey(t *testing.T) {
	l := New(1, 2, time.Minute)
	require.NotNil(t, l)
	now := time.Unix(1700000000, 0)

	assert.True(t, l.Allow("10.0.0.1", now))
	assert.True(t, l.Allow("10.0.0.1", now))
	assert.False(t, l.Allow("10.0.0.1", now), "burst exhausted")

	// another client has its own bucket
	assert.True(t, l.Allow("10.0.0.2", now))

	// one token refills per second
	assert.True(t, l.Allow("10.0.0.1", now.Add(time.Second)))

	// blank keys are not limited
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("  ", now))
	}
}

func TestEvictIdle(t *testing.T) {
	l := New(10, 10, time.Minute)
	start := time.Unix(1700000000, 0)

	for i := 0; i < 511; i++ {
		l.Allow("client-"+strconv.Itoa(i), start)
	}
	assert.Equal(t, 511, l.size())

	// the 512th hit sweeps entries idle for longer than the TTL
	l.Allow("fresh", start.Add(2*time.Minute))
	assert.Equal(t, 1, l.size())
}
