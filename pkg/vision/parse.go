package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Analysis is the model's verdict on one class log's photos.
type Analysis struct {
	KidCount             int    `json:"kidCount"`
	LocationDescription  string `json:"locationDescription"`
	TimestampDescription string `json:"timestampDescription"`
	OrphanageMatch       string `json:"orphanageMatch"`
	ConfidenceNotes      string `json:"confidenceNotes"`
}

var validMatchLabels = map[string]bool{
	"high": true, "likely": true, "uncertain": true, "unlikely": true,
}

// ParseAnalysis extracts the JSON verdict from a model reply. Models tend to
// wrap JSON in markdown fences or lead with prose, so the parser hunts for
// the outermost brace pair instead of unmarshaling the raw reply. Missing
// fields come back as zero values; an unrecognized match label is cleared so
// downstream code treats it as unverified.
func ParseAnalysis(reply string) (*Analysis, error) {
	s := strings.TrimSpace(reply)

	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	var a Analysis
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return nil, fmt.Errorf("parse analysis reply: %w", err)
	}

	a.OrphanageMatch = strings.ToLower(strings.TrimSpace(a.OrphanageMatch))
	if !validMatchLabels[a.OrphanageMatch] {
		a.OrphanageMatch = ""
	}
	if a.KidCount < 0 {
		a.KidCount = 0
	}
	return &a, nil
}
