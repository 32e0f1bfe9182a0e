package frecency

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordHitIncrementsAndFlushIsIdempotentlyAdditive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frecency.json")

	s := Load(path, nil)
	s.RecordHit("/scripts/a.js")
	s.RecordHit("/scripts/a.js")
	require.NoError(t, s.FlushNow())

	require.Equal(t, float64(2), s.Count("/scripts/a.js"))

	reloaded := Load(path, nil)
	require.Equal(t, float64(2), reloaded.Count("/scripts/a.js"))
}

func TestAbsentPathScoresZero(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Equal(t, float64(0), s.Score("/nope.js"))
}

func TestScoreDecaysWithAge(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Load(filepath.Join(t.TempDir(), "f.json"), nil)
	s.now = func() time.Time { return fixed }
	s.RecordHit("/scripts/old.js")

	recent := s.Score("/scripts/old.js")

	s.now = func() time.Time { return fixed.Add(HalfLife) }
	decayed := s.Score("/scripts/old.js")

	require.InDelta(t, recent/2, decayed, 0.01)
}

func TestMalformedFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frecency.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	var warned bool
	s := Load(path, func(string, ...any) { warned = true })
	require.True(t, warned)
	require.Equal(t, float64(0), s.Count("/anything.js"))
}
