package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	h, m, err := parseClock(" 03:30 ")
	require.NoError(t, err)
	assert.Equal(t, 3, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"", "3", "24:00", "12:60", "ab:cd", "1:2:3"} {
		_, _, err := parseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestNextRun(t *testing.T) {
	tz := time.FixedZone("GET", 4*3600)

	now := time.Date(2025, 6, 1, 2, 0, 0, 0, tz)
	assert.Equal(t, time.Date(2025, 6, 1, 3, 0, 0, 0, tz), nextRun(now, 3, 0))

	now = time.Date(2025, 6, 1, 3, 0, 0, 0, tz)
	assert.Equal(t, time.Date(2025, 6, 2, 3, 0, 0, 0, tz), nextRun(now, 3, 0), "exact time rolls to tomorrow")

	now = time.Date(2025, 12, 31, 23, 0, 0, 0, tz)
	assert.Equal(t, time.Date(2026, 1, 1, 3, 0, 0, 0, tz), nextRun(now, 3, 0))
}

func TestStartDaily_RejectsBadClock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := StartDaily(ctx, "test", "noon", "UTC", func(context.Context) {})
	assert.Error(t, err)
}
