package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDistance(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name   string
		meters float64
		want   string
	}{
		{"zero distance", 0, LabelHigh},
		{"just inside high", 150, LabelHigh},
		{"just past high", 150.1, LabelLikely},
		{"likely boundary", 500, LabelLikely},
		{"uncertain band", 1200, LabelUncertain},
		{"uncertain boundary", 2000, LabelUncertain},
		{"far away", 25000, LabelUnlikely},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDistance(tt.meters, th))
		})
	}
}

func TestDistanceMeters(t *testing.T) {
	// Ubud to Denpasar is roughly 20 km.
	d := DistanceMeters(-8.5069, 115.2625, -8.6705, 115.2126)
	assert.InDelta(t, 18500, d, 2500)

	// Same point.
	assert.InDelta(t, 0, DistanceMeters(-8.5069, 115.2625, -8.5069, 115.2625), 0.01)
}

func TestLabelVerified(t *testing.T) {
	requireBool := func(p *bool, want bool) {
		require.NotNil(t, p)
		assert.Equal(t, want, *p)
	}

	requireBool(LabelVerified(LabelHigh), true)
	requireBool(LabelVerified(LabelLikely), true)
	requireBool(LabelVerified(LabelUncertain), false)
	requireBool(LabelVerified(LabelUnlikely), false)
	assert.Nil(t, LabelVerified(""))
	assert.Nil(t, LabelVerified("garbage"))
}

func TestMatchDateTime(t *testing.T) {
	th := DefaultThresholds()
	classDate := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	at := func(hour, min int) *time.Time {
		tm := time.Date(2025, 4, 15, hour, min, 0, 0, time.UTC)
		return &tm
	}

	tests := []struct {
		name     string
		timeStr  string
		exifTime *time.Time
		want     string
	}{
		{"no exif", "09.00-10.00 am", nil, DateNoExif},
		{"exact hour", "09.00-10.00 am", at(9, 12), DateMatch},
		{"within tolerance", "09.00-10.00 am", at(11, 0), DateMatch},
		{"outside tolerance", "09.00-10.00 am", at(14, 0), DateMismatch},
		{"no parseable time", "after lunch", at(9, 0), DateNoTime},
		{"empty time string", "", at(9, 0), DateNoTime},
		{"wrong day", "09.00-10.00 am", func() *time.Time {
			tm := time.Date(2025, 4, 16, 9, 0, 0, 0, time.UTC)
			return &tm
		}(), DateMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, notes := MatchDateTime(classDate, tt.timeStr, tt.exifTime, th)
			assert.Equal(t, tt.want, label)
			assert.NotEmpty(t, notes)
		})
	}
}

// A date mismatch wins over a missing time string: the teacher may not have
// written a time, but the photo being from another day is still a mismatch.
func TestMatchDateTimeDateCheckedFirst(t *testing.T) {
	th := DefaultThresholds()
	classDate := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	exif := time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC)

	label, _ := MatchDateTime(classDate, "", &exif, th)
	assert.Equal(t, DateMismatch, label)
}
