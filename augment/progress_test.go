package augment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var fractions []float64
	tracker := NewProgressTracker(func(fraction float64, _ string) {
		fractions = append(fractions, fraction)
	}, 100, 25)

	tracker.Start()
	for i := 0; i < 100; i++ {
		tracker.Increment(1)
	}
	tracker.Finish()

	// four interval reports plus the final one
	require.Len(t, fractions, 5)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1.0, 1.0}, fractions)
}

func TestProgressTracker_Monotonic(t *testing.T) {
	var fractions []float64
	tracker := NewProgressTracker(func(fraction float64, _ string) {
		fractions = append(fractions, fraction)
	}, 10, 1)

	tracker.Start()
	tracker.Update(5)
	tracker.Update(3) // ignored: lower than current
	tracker.Update(7)
	tracker.Finish()

	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var last float64
	tracker := NewProgressTracker(func(fraction float64, _ string) {
		last = fraction
	}, 10, 1)

	tracker.Start()
	tracker.Increment(50)
	assert.Equal(t, 1.0, last)
}

func TestProgressTracker_NoReportsBeforeStart(t *testing.T) {
	calls := 0
	tracker := NewProgressTracker(func(float64, string) {
		calls++
	}, 10, 1)

	tracker.Increment(5)
	tracker.Update(5)
	tracker.Finish()

	assert.Equal(t, 0, calls)
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_NilCallback(t *testing.T) {
	tracker := NewProgressTracker(nil, 10, 1)
	tracker.Start()
	tracker.Increment(10)
	tracker.Finish()
	assert.GreaterOrEqual(t, tracker.Elapsed(), time.Duration(0))
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var last float64
	tracker := NewProgressTracker(func(fraction float64, _ string) {
		last = fraction
	}, 0, 1)

	tracker.Start()
	tracker.Finish()
	assert.Equal(t, 1.0, last)
}
