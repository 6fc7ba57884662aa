// Package advisor ranks candidate moves, detects blunders and classifies
// terminal game states on top of the blended evaluator.
package advisor

import (
	"golang.org/x/exp/slices"

	"chessadvisor/internal/eval"
	"chessadvisor/internal/rules"
)

// DefaultSuggestCount is the number of candidates returned when the caller
// does not ask for a specific K.
const DefaultSuggestCount = 3

// Evaluator scores a position. Satisfied by eval.Blender and by the engine's
// cache-wrapping scorer.
type Evaluator interface {
	Evaluate(pos rules.Position) eval.Result
}

// Candidate is one ranked move suggestion. Score and Delta are normalized to
// the perspective of the side making the move: higher is better for the
// mover.
type Candidate struct {
	Move  string  `json:"move"`
	Score float64 `json:"score"`
	Delta float64 `json:"delta"`
}

// Advisor ranks legal moves by single-ply evaluation of the resulting
// positions. Stateless beyond its evaluator; safe for concurrent use.
type Advisor struct {
	eval Evaluator
}

// New builds an Advisor over an evaluator.
func New(e Evaluator) *Advisor {
	return &Advisor{eval: e}
}

// normalize flips a White-positive score to the mover's perspective.
func normalize(score float64, moverIsWhite bool) float64 {
	if moverIsWhite {
		return score
	}
	return -score
}

// Suggest returns the top k moves for the side to move, best first. Equal
// scores keep the oracle's move enumeration order, so identical input yields
// identical output. Terminal positions return nil: there are no meaningful
// candidates in a finished game, and callers pair this with Classify to tell
// checkmate from stalemate.
func (a *Advisor) Suggest(pos rules.Position, k int) []Candidate {
	if k <= 0 {
		k = DefaultSuggestCount
	}
	if Classify(pos).Terminal() {
		return nil
	}

	moverIsWhite := pos.WhiteToMove()
	current := normalize(a.eval.Evaluate(pos).Score, moverIsWhite)

	moves := pos.LegalMoves()
	candidates := make([]Candidate, 0, len(moves))
	for _, m := range moves {
		next := pos.Apply(m)
		score := normalize(a.eval.Evaluate(next).Score, moverIsWhite)
		candidates = append(candidates, Candidate{
			Move:  m.String(),
			Score: score,
			Delta: score - current,
		})
	}

	slices.SortStableFunc(candidates, func(x, y Candidate) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return 0
		}
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
