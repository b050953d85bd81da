package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		a, err := ParseAnalysis(`{"kidCount": 12, "locationDescription": "open-air classroom",
			"timestampDescription": "daylight, long shadows", "orphanageMatch": "likely",
			"confidenceNotes": "matches prior photos of the courtyard"}`)
		require.NoError(t, err)
		assert.Equal(t, 12, a.KidCount)
		assert.Equal(t, "likely", a.OrphanageMatch)
		assert.Equal(t, "open-air classroom", a.LocationDescription)
	})

	t.Run("fenced json", func(t *testing.T) {
		a, err := ParseAnalysis("```json\n{\"kidCount\": 5, \"orphanageMatch\": \"high\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, 5, a.KidCount)
		assert.Equal(t, "high", a.OrphanageMatch)
	})

	t.Run("prose around json", func(t *testing.T) {
		a, err := ParseAnalysis("Here is my assessment:\n{\"kidCount\": 8, \"orphanageMatch\": \"Uncertain\"}\nLet me know if you need more.")
		require.NoError(t, err)
		assert.Equal(t, 8, a.KidCount)
		assert.Equal(t, "uncertain", a.OrphanageMatch)
	})

	t.Run("missing fields become zero values", func(t *testing.T) {
		a, err := ParseAnalysis(`{"kidCount": 3}`)
		require.NoError(t, err)
		assert.Equal(t, 3, a.KidCount)
		assert.Empty(t, a.OrphanageMatch)
		assert.Empty(t, a.ConfidenceNotes)
	})

	t.Run("invalid match label cleared", func(t *testing.T) {
		a, err := ParseAnalysis(`{"orphanageMatch": "very sure"}`)
		require.NoError(t, err)
		assert.Empty(t, a.OrphanageMatch)
	})

	t.Run("negative kid count clamped", func(t *testing.T) {
		a, err := ParseAnalysis(`{"kidCount": -2}`)
		require.NoError(t, err)
		assert.Zero(t, a.KidCount)
	})

	t.Run("no json at all", func(t *testing.T) {
		_, err := ParseAnalysis("I cannot analyze these photos.")
		assert.Error(t, err)
	})
}
