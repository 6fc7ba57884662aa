package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chessadvisor/internal/rules"
)

func mustParse(t *testing.T, fen string) rules.Position {
	t.Helper()
	pos, err := rules.ParseFEN(fen)
	require.NoError(t, err)
	return pos
}

func TestHeuristicStartingPositionBalanced(t *testing.T) {
	require.InDelta(t, 0.0, Heuristic(rules.Starting()), 1e-9)
}

func TestHeuristicSideToMoveInvariant(t *testing.T) {
	white := Heuristic(mustParse(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"))
	black := Heuristic(mustParse(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1"))
	require.InDelta(t, white, black, 1e-9)
}

func TestHeuristicQueenOddsFavorsWhite(t *testing.T) {
	score := Heuristic(mustParse(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"))
	require.Greater(t, score, 8.0)
}

func TestHeuristicMirrorSymmetry(t *testing.T) {
	// A position and its color-flipped mirror must score as exact negatives.
	asym := mustParse(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	asymMirror := mustParse(t, "rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.InDelta(t, Heuristic(asym), -Heuristic(asymMirror), 1e-9)
}

func TestHeuristicPrefersCastledKing(t *testing.T) {
	// Same material either way: two rooks, knight, bishop, queen, king.
	castled := Heuristic(mustParse(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1RK1 b kq - 0 1"))
	home := Heuristic(mustParse(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQK2R b KQkq - 0 1"))
	require.Greater(t, castled, home)
}

func TestHeuristicPenalizesBrokenPawns(t *testing.T) {
	// Doubled, isolated e-pawns versus healthy connected ones.
	broken := Heuristic(mustParse(t, "4k3/8/8/8/4P3/4P3/8/4K3 w - - 0 1"))
	healthy := Heuristic(mustParse(t, "4k3/8/8/8/8/4P3/3P4/4K3 w - - 0 1"))
	require.Less(t, broken, healthy)
}

func TestHeuristicBishopPair(t *testing.T) {
	pair := Heuristic(mustParse(t, "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1"))
	knights := Heuristic(mustParse(t, "4k3/8/8/8/8/8/8/1N2K1N1 w - - 0 1"))
	require.Greater(t, pair, knights)
}

func TestHeuristicBareKingsNearZero(t *testing.T) {
	score := Heuristic(mustParse(t, "8/8/8/8/8/8/8/K6k w - - 0 1"))
	require.Less(t, score, 1.0)
	require.Greater(t, score, -1.0)
}
