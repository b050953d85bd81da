package verification

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Confidence labels for the GPS distance check, shared with the AI
// orphanage-match field.
const (
	LabelHigh      = "high"
	LabelLikely    = "likely"
	LabelUncertain = "uncertain"
	LabelUnlikely  = "unlikely"
)

// Date/time match outcomes.
const (
	DateMatch    = "match"
	DateMismatch = "mismatch"
	DateNoExif   = "no_exif"
	DateNoTime   = "no_time"
)

// Thresholds parameterize the checks. The exact cutoffs are a judgment call,
// so they are injected from config rather than fixed here.
type Thresholds struct {
	// GPS distance cutoffs in meters: <=HighM is "high", <=LikelyM "likely",
	// <=UncertainM "uncertain", beyond that "unlikely".
	HighM      float64
	LikelyM    float64
	UncertainM float64

	// HourTolerance is the accepted difference between the logged start hour
	// and the EXIF capture hour, in whole hours either side.
	HourTolerance int
}

// DefaultThresholds mirror the config defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{HighM: 150, LikelyM: 500, UncertainM: 2000, HourTolerance: 2}
}

// DistanceMeters is the great-circle distance between a photo's GPS position
// and an orphanage's registered coordinates.
func DistanceMeters(photoLat, photoLng, orphLat, orphLng float64) float64 {
	return geo.Distance(orb.Point{photoLng, photoLat}, orb.Point{orphLng, orphLat})
}

// ClassifyDistance thresholds a distance into a confidence label.
func ClassifyDistance(meters float64, t Thresholds) string {
	switch {
	case meters <= t.HighM:
		return LabelHigh
	case meters <= t.LikelyM:
		return LabelLikely
	case meters <= t.UncertainM:
		return LabelUncertain
	default:
		return LabelUnlikely
	}
}

// LabelVerified maps a confidence label to a tri-state verification result:
// true for high/likely, false for uncertain/unlikely, nil for anything else
// (no analysis ran; unknown is not false).
func LabelVerified(label string) *bool {
	switch label {
	case LabelHigh, LabelLikely:
		v := true
		return &v
	case LabelUncertain, LabelUnlikely:
		v := false
		return &v
	default:
		return nil
	}
}

// MatchDateTime compares a class log's date and free-form time string with a
// photo's EXIF capture time. Calendar date must match exactly; the hour of
// day must fall within ±t.HourTolerance of the logged start hour. A missing
// EXIF timestamp or an unparseable time string degrades the result, it never
// produces an error.
func MatchDateTime(classDate time.Time, timeStr string, exifTime *time.Time, t Thresholds) (label, notes string) {
	if exifTime == nil {
		return DateNoExif, "photo carries no EXIF capture time"
	}

	cy, cm, cd := classDate.Date()
	ey, em, ed := exifTime.Date()
	if cy != ey || cm != em || cd != ed {
		return DateMismatch, fmt.Sprintf(
			"photo taken %s but class logged for %s",
			exifTime.Format("2006-01-02"), classDate.Format("2006-01-02"))
	}

	hour := ParseHour(timeStr)
	if hour == nil {
		return DateNoTime, "date matches; class time not recognized so hour not checked"
	}

	delta := exifTime.Hour() - *hour
	if delta < 0 {
		delta = -delta
	}
	if delta <= t.HourTolerance {
		return DateMatch, fmt.Sprintf("photo taken %02d:%02d, class starts around %d:00",
			exifTime.Hour(), exifTime.Minute(), *hour)
	}
	return DateMismatch, fmt.Sprintf("photo taken at hour %d but class starts around hour %d",
		exifTime.Hour(), *hour)
}
