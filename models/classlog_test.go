package models

import "testing"

func TestOrphanageMatchVerified(t *testing.T) {
	strptr := func(s string) *string { return &s }

	tests := []struct {
		name  string
		match *string
		want  *bool
	}{
		{"not analyzed", nil, nil},
		{"empty label", strptr(""), nil},
		{"high", strptr(MatchHigh), boolPtr(true)},
		{"likely", strptr(MatchLikely), boolPtr(true)},
		{"uncertain", strptr(MatchUncertain), boolPtr(false)},
		{"unlikely", strptr(MatchUnlikely), boolPtr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := ClassLog{AIOrphanageMatch: tt.match}
			got := log.OrphanageMatchVerified()
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("got %v, want %v", *got, *tt.want)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }
