package eval

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"chessadvisor/internal/feature"
	"chessadvisor/internal/model"
	"chessadvisor/internal/rules"
)

func heuristicOnly() *Blender {
	return NewBlender(nil, DefaultMLWeight, DefaultHeuristicWeight, zerolog.Nop())
}

func loadedArtifact(t *testing.T, intercept float64, weights []float64) *model.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, model.Save(path, intercept, weights))
	a, err := model.Load(path)
	require.NoError(t, err)
	return a
}

func TestBlenderFallsBackWithoutModel(t *testing.T) {
	b := heuristicOnly()
	result := b.Evaluate(rules.Starting())

	require.Equal(t, SourceHeuristic, result.Source)
	require.Equal(t, Equal, result.Classification)
	require.InDelta(t, 0.0, result.Score, 1e-9)
}

func TestBlenderMixesModelAndHeuristic(t *testing.T) {
	// Constant model: intercept only, zero weights.
	weights := make([]float64, feature.Count)
	b := NewBlender(loadedArtifact(t, 2.0, weights), 0.5, 0.5, zerolog.Nop())

	pos := rules.Starting()
	result := b.Evaluate(pos)

	require.Equal(t, SourceBlended, result.Source)
	require.InDelta(t, 0.5*2.0+0.5*Heuristic(pos), result.Score, 1e-9)
	require.Equal(t, SlightAdvantage, result.Classification)
}

func TestBlenderCheckmateShortCircuits(t *testing.T) {
	// White mated (fool's mate).
	pos := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	result := heuristicOnly().Evaluate(pos)
	require.Equal(t, Result{Score: -MateScore, Classification: Mate, Source: SourceHeuristic}, result)

	// Black mated (scholar's mate).
	pos = mustParse(t, "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4")
	result = heuristicOnly().Evaluate(pos)
	require.Equal(t, Result{Score: MateScore, Classification: Mate, Source: SourceHeuristic}, result)
}

func TestBlenderDrawsScoreZero(t *testing.T) {
	cases := map[string]string{
		"stalemate":             "k7/2Q5/1K6/8/8/8/8/8 b - - 0 1",
		"insufficient material": "8/8/8/8/4N3/8/8/K6k w - - 0 1",
		"fifty-move rule":       "4k3/8/8/8/8/8/8/4K2R w - - 100 80",
	}
	for name, fen := range cases {
		t.Run(name, func(t *testing.T) {
			result := heuristicOnly().Evaluate(mustParse(t, fen))
			require.Equal(t, Result{Score: 0, Classification: Equal, Source: SourceHeuristic}, result)
		})
	}
}

func TestBlenderTerminalSkipsModel(t *testing.T) {
	// A huge intercept would dominate any blended score; a draw must ignore
	// the model entirely.
	weights := make([]float64, feature.Count)
	b := NewBlender(loadedArtifact(t, 500.0, weights), DefaultMLWeight, DefaultHeuristicWeight, zerolog.Nop())

	result := b.Evaluate(mustParse(t, "k7/2Q5/1K6/8/8/8/8/8 b - - 0 1"))
	require.Equal(t, 0.0, result.Score)
	require.Equal(t, SourceHeuristic, result.Source)
}

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		score float64
		want  Classification
	}{
		{0, Equal},
		{0.99, Equal},
		{-0.99, Equal},
		{1.0, SlightAdvantage},
		{-1.5, SlightAdvantage},
		{2.0, Advantage},
		{3.0, Advantage},
		{-2.5, Advantage},
		{3.01, Winning},
		{-50, Winning},
		{MateScore, Winning}, // magnitude alone never classifies as mate
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.score, false), "score %g", tc.score)
	}
	require.Equal(t, Mate, Classify(0, true))
}

func TestFingerprintCoversBlendWeights(t *testing.T) {
	weights := make([]float64, feature.Count)
	artifact := loadedArtifact(t, 1.0, weights)

	a := NewBlender(artifact, 0.7, 0.3, zerolog.Nop())
	b := NewBlender(artifact, 0.5, 0.5, zerolog.Nop())
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
