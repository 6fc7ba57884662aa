package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartingPosition(t *testing.T) {
	pos := Starting()
	require.True(t, pos.WhiteToMove())
	require.Len(t, pos.LegalMoves(), 20)
	require.Equal(t, 20, pos.OpponentMoveCount())
	require.Equal(t, 0, pos.HalfmoveClock())
}

func TestParseFENRoundTrip(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	pos, err := ParseFEN(fen)
	require.NoError(t, err)
	require.Equal(t, fen, pos.FEN())
}

func TestParseFENDefaultsClocks(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	require.NoError(t, err)
	require.Equal(t, 0, pos.HalfmoveClock())
	require.Equal(t, Starting().Hash(), pos.Hash())
}

func TestParseFENRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"too few fields":   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w",
		"seven ranks":      "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"overflowing rank": "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"short rank":       "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"bad piece":        "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"bad side to move": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"no white king":    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w KQkq - 0 1",
		"two black kings":  "rnbqkknr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	}
	for name, fen := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFEN(fen)
			require.ErrorIs(t, err, ErrInvalidPosition)
		})
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	pos := Starting()
	m, err := pos.FindMove("e2e4")
	require.NoError(t, err)

	next := pos.Apply(m)
	require.NotEqual(t, pos.FEN(), next.FEN())
	require.Equal(t, Starting().FEN(), pos.FEN())
	require.False(t, next.WhiteToMove())
}

func TestFindMoveRejectsIllegal(t *testing.T) {
	pos := Starting()
	_, err := pos.FindMove("e2e5")
	require.Error(t, err)
	_, err = pos.FindMove("e7e5")
	require.Error(t, err)
}

func TestPiecesStartingCounts(t *testing.T) {
	for _, white := range []bool{true, false} {
		ps := Starting().Pieces(white)
		require.Equal(t, 8, popcount(ps.Pawns))
		require.Equal(t, 2, popcount(ps.Knights))
		require.Equal(t, 2, popcount(ps.Bishops))
		require.Equal(t, 2, popcount(ps.Rooks))
		require.Equal(t, 1, popcount(ps.Queens))
		require.Equal(t, 1, popcount(ps.Kings))
		require.Equal(t, 16, popcount(ps.All))
	}
}

func popcount(b uint64) int {
	n := 0
	for ; b != 0; b &= b - 1 {
		n++
	}
	return n
}
