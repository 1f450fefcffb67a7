package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical", at(0), at(60), at(0), at(60), true},
		{"partial overlap", at(0), at(60), at(30), at(90), true},
		{"contained", at(0), at(60), at(15), at(45), true},
		{"touching endpoints do not overlap", at(0), at(60), at(60), at(120), false},
		{"touching reversed", at(60), at(120), at(0), at(60), false},
		{"disjoint", at(0), at(60), at(120), at(180), false},
		{"one minute overlap", at(0), at(61), at(60), at(120), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Symmetric by definition.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestGapOK(t *testing.T) {
	assert.True(t, GapOK(at(0), at(15), 15*time.Minute))
	assert.True(t, GapOK(at(0), at(30), 15*time.Minute))
	assert.False(t, GapOK(at(0), at(10), 15*time.Minute))
	assert.True(t, GapOK(at(0), at(0), 0))
}

func TestOverlapSpan(t *testing.T) {
	start, end := OverlapSpan(at(0), at(60), at(30), at(90))
	assert.Equal(t, at(30), start)
	assert.Equal(t, at(60), end)
}

func TestValidateInterval(t *testing.T) {
	require.NoError(t, ValidateInterval(at(0), at(60)))

	var zero time.Time
	assert.ErrorIs(t, ValidateInterval(zero, at(60)), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateInterval(at(0), zero), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateInterval(at(60), at(0)), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateInterval(at(0), at(0)), ErrInvalidInterval)
}
