package verification

import "testing"

func TestFormatStartTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"range with trailing am", "09.00-10.00 am", "9:00 AM"},
		{"range with colons", "09:00-10:00 am", "9:00 AM"},
		{"am on start side", "9am-10am", "9:00 AM"},
		{"pm range", "4.00-5.00 pm", "4:00 PM"},
		{"pm attached to digit", "4pm", "4:00 PM"},
		{"am attached in range", "9-10am", "9:00 AM"},
		{"midnight attached", "12am", "12:00 AM"},
		{"24 hour time", "16:00-17:00", "4:00 PM"},
		{"bare 24 hour", "16.30", "4:30 PM"},
		{"lone morning hour", "9", "9:00 AM"},
		{"noon", "12:00 pm", "12:00 PM"},
		{"midnight", "12:00 am", "12:00 AM"},
		{"en dash range", "9.00–10.00 am", "9:00 AM"},
		{"to separator", "9 to 10 am", "9:00 AM"},
		{"already formatted", "9:00 AM", "9:00 AM"},
		{"unparseable passes through", "after lunch", "after lunch"},
		{"empty passes through", "", ""},
		{"out of range hour passes through", "25:00", "25:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatStartTime(tt.input); got != tt.want {
				t.Errorf("FormatStartTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Formatting its own output must not change it.
func TestFormatStartTimeIdempotent(t *testing.T) {
	inputs := []string{
		"09.00-10.00 am", "4pm", "16:00", "9-10am", "12.15 pm", "7.45-8.45 am",
	}
	for _, in := range inputs {
		once := FormatStartTime(in)
		twice := FormatStartTime(once)
		if once != twice {
			t.Errorf("FormatStartTime not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestParseHour(t *testing.T) {
	ptr := func(h int) *int { return &h }

	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"range with trailing am", "09.00-10.00 am", ptr(9)},
		{"pm converts", "4.00-5.00 pm", ptr(16)},
		{"noon", "12pm", ptr(12)},
		{"midnight", "12am", ptr(0)},
		{"24 hour", "16:00", ptr(16)},
		{"lone number in range", "9", ptr(9)},
		{"lone number at top of range", "23", ptr(23)},
		{"lone number out of range", "24", nil},
		{"no hour token", "after lunch", nil},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"13 pm is nonsense", "13pm", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseHour(tt.input)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseHour(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseHour(%q) = %d, want %d", tt.input, *got, *tt.want)
			}
		})
	}
}
