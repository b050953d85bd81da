package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJSONTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2025-05-16T15:32:25Z"`, time.Date(2025, 5, 16, 15, 32, 25, 0, time.UTC)},
		{"millis no zone", `"2025-05-16T15:32:25.000"`, time.Date(2025, 5, 16, 15, 32, 25, 0, time.UTC)},
		{"seconds no zone", `"2025-05-16T15:32:25"`, time.Date(2025, 5, 16, 15, 32, 25, 0, time.UTC)},
		{"bare date", `"2025-05-16"`, time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var jt JSONTime
			if err := json.Unmarshal([]byte(tt.input), &jt); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if !jt.Time().Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, jt.Time(), tt.want)
			}
		})
	}

	var jt JSONTime
	if err := json.Unmarshal([]byte(`"yesterday"`), &jt); err == nil {
		t.Error("expected error for unparseable input")
	}
}

func TestJSONTimeDate(t *testing.T) {
	jt := JSONTime(time.Date(2025, 5, 16, 15, 32, 25, 0, time.UTC))
	want := time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC)
	if got := jt.Date(); !got.Equal(want) {
		t.Errorf("Date() = %v, want %v", got, want)
	}
}

func TestJSONTimeMarshalRoundTrip(t *testing.T) {
	in := JSONTime(time.Date(2025, 5, 16, 15, 32, 25, 0, time.UTC))
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"2025-05-16T15:32:25Z"` {
		t.Errorf("Marshal = %s", raw)
	}
}
