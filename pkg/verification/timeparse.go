package verification

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Teachers enter class times free-form: "09.00-10.00 am", "4pm", "16:00",
// "9-10am". These helpers normalize that text far enough to compare against
// EXIF capture times. They never fail hard: unparseable input passes through
// unchanged and ParseHour reports nil instead of an error.

var (
	clockRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?`)
	// No leading \b: "4pm" has no word boundary between the digit and the
	// marker.
	meridiemRe = regexp.MustCompile(`(?i)(am|pm)\b\.?`)
	rangeRe    = regexp.MustCompile(`\s*(?:-|–|—|\bto\b)\s*`)
)

// FormatStartTime extracts the start of a free-form time range and renders it
// as "9:00 AM". Periods are treated as minute separators ("09.00" == "09:00")
// and an am/pm marker on either side of the range applies to the start.
// Input that yields no recognizable clock time is returned unmodified, so the
// function is idempotent on its own output.
func FormatStartTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}

	norm := strings.ReplaceAll(s, ".", ":")
	parts := rangeRe.Split(norm, -1)
	start := strings.TrimSpace(parts[0])

	meridiem := detectMeridiem(start)
	if meridiem == "" {
		for _, p := range parts[1:] {
			if m := detectMeridiem(p); m != "" {
				meridiem = m
				break
			}
		}
	}

	hour, minute, ok := parseClock(start)
	if !ok {
		return raw
	}
	h24, ok := to24Hour(hour, meridiem)
	if !ok {
		return raw
	}

	display := h24 % 12
	if display == 0 {
		display = 12
	}
	suffix := "AM"
	if h24 >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

// ParseHour returns the 24-hour hour-of-day of the start of a free-form time
// string, or nil when no hour token can be recognized. Lone numbers without
// an am/pm marker are accepted as 24-hour hours only when in range 0-23.
func ParseHour(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	norm := strings.ReplaceAll(s, ".", ":")
	parts := rangeRe.Split(norm, -1)
	start := strings.TrimSpace(parts[0])

	meridiem := detectMeridiem(start)
	if meridiem == "" {
		for _, p := range parts[1:] {
			if m := detectMeridiem(p); m != "" {
				meridiem = m
				break
			}
		}
	}

	hour, _, ok := parseClock(start)
	if !ok {
		return nil
	}
	h24, ok := to24Hour(hour, meridiem)
	if !ok {
		return nil
	}
	return &h24
}

// detectMeridiem returns "am", "pm" or "".
func detectMeridiem(s string) string {
	m := meridiemRe.FindString(s)
	if m == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(m), "."))
}

// parseClock pulls a leading hour(:minute) token out of a string that may
// still carry an am/pm suffix.
func parseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(meridiemRe.ReplaceAllString(s, ""))
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return 0, 0, false
		}
	}
	return hour, minute, true
}

// to24Hour applies an optional am/pm marker. Without one, the hour is taken
// as a 24-hour hour-of-day and rejected outside 0-23.
func to24Hour(hour int, meridiem string) (int, bool) {
	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			return 0, true
		}
		return hour, true
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			return 12, true
		}
		return hour + 12, true
	default:
		if hour < 0 || hour > 23 {
			return 0, false
		}
		return hour, true
	}
}
