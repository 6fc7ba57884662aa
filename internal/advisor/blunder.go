package advisor

import (
	"chessadvisor/internal/rules"
)

// DefaultBlunderThreshold is the evaluation drop, from the mover's
// perspective, beyond which a move counts as a blunder.
const DefaultBlunderThreshold = -2.0

// Report is the outcome of a blunder check. EvalBefore and EvalAfter are
// normalized to the mover's perspective. Alternatives is populated only when
// the move is flagged, best first, excluding the played move.
type Report struct {
	IsBlunder    bool        `json:"is_blunder"`
	EvalBefore   float64     `json:"eval_before"`
	EvalAfter    float64     `json:"eval_after"`
	Threshold    float64     `json:"threshold"`
	Alternatives []Candidate `json:"alternatives,omitempty"`
}

// CheckBlunder compares the evaluation before and after a played move. The
// drop is measured from the mover's perspective; a drop below threshold
// flags the move. A move that is itself the best available can never be a
// blunder, whatever the raw delta: in a lost position every move loses, and
// the best of them is not a mistake.
func (a *Advisor) CheckBlunder(before rules.Position, played rules.Move, after rules.Position, threshold float64) Report {
	moverIsWhite := before.WhiteToMove()
	evalBefore := normalize(a.eval.Evaluate(before).Score, moverIsWhite)
	evalAfter := normalize(a.eval.Evaluate(after).Score, moverIsWhite)

	report := Report{
		EvalBefore: evalBefore,
		EvalAfter:  evalAfter,
		Threshold:  threshold,
	}
	if evalAfter-evalBefore >= threshold {
		return report
	}

	suggestions := a.Suggest(before, DefaultSuggestCount)
	if len(suggestions) > 0 && suggestions[0].Move == played.String() {
		return report
	}

	report.IsBlunder = true
	report.Alternatives = make([]Candidate, 0, len(suggestions))
	for _, c := range suggestions {
		if c.Move == played.String() {
			continue
		}
		report.Alternatives = append(report.Alternatives, c)
	}
	return report
}
