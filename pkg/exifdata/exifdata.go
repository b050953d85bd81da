// Package exifdata pulls the GPS position and capture timestamp out of
// uploaded photos. Phones routinely strip EXIF, so a photo without usable
// metadata yields a nil result rather than an error.
package exifdata

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Data is the subset of EXIF metadata the verification pipeline uses.
type Data struct {
	Latitude   *float64
	Longitude  *float64
	CapturedAt *time.Time
}

// Extract reads EXIF from a photo. It returns nil when the file carries no
// usable EXIF at all; partial metadata (GPS without timestamp, or vice versa)
// comes back with the missing fields nil.
func Extract(r io.Reader) *Data {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}

	d := &Data{}

	if lat, lng, err := x.LatLong(); err == nil {
		d.Latitude = &lat
		d.Longitude = &lng
	}

	if t, err := x.DateTime(); err == nil {
		d.CapturedAt = &t
	}

	if d.Latitude == nil && d.CapturedAt == nil {
		return nil
	}
	return d
}
