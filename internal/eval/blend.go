package eval

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"chessadvisor/internal/feature"
	"chessadvisor/internal/model"
	"chessadvisor/internal/rules"
)

// MateScore is the magnitude reserved for checkmate. Classification never
// infers mate from score magnitude alone; the oracle's checkmate signal is
// consulted directly, so a runaway material score stays WINNING.
const MateScore = 1000.0

// Default blend weights for the learned and heuristic scores.
const (
	DefaultMLWeight        = 0.70
	DefaultHeuristicWeight = 0.30
)

// Source records which evaluators produced a score. The model falling back
// to heuristic-only must be observable here, never silent.
type Source string

const (
	SourceHeuristic Source = "heuristic"
	SourceBlended   Source = "blended"
)

// Classification buckets a score for presentation layers.
type Classification string

const (
	Equal           Classification = "EQUAL"
	SlightAdvantage Classification = "SLIGHT_ADVANTAGE"
	Advantage       Classification = "ADVANTAGE"
	Winning         Classification = "WINNING"
	Mate            Classification = "MATE"
)

// Result is one completed position evaluation. Score is in pawns, positive
// favors White.
type Result struct {
	Score          float64        `json:"score"`
	Classification Classification `json:"classification"`
	Source         Source         `json:"source"`
}

// Blender combines the heuristic and learned evaluators with a fixed
// weighting, falling back to heuristic-only when the model is unavailable.
// Safe for concurrent use once constructed.
type Blender struct {
	artifact        *model.Artifact
	mlWeight        float64
	heuristicWeight float64
	log             zerolog.Logger
	warnOnce        sync.Once
}

// NewBlender builds a blended evaluator. artifact may be nil, which pins the
// blender to heuristic-only scoring.
func NewBlender(artifact *model.Artifact, mlWeight, heuristicWeight float64, log zerolog.Logger) *Blender {
	return &Blender{
		artifact:        artifact,
		mlWeight:        mlWeight,
		heuristicWeight: heuristicWeight,
		log:             log,
	}
}

// ModelLoaded reports whether a model artifact is active.
func (b *Blender) ModelLoaded() bool {
	return b.artifact != nil
}

// Fingerprint identifies the blender's full scoring configuration, for cache
// keying: same fingerprint, bit-identical results.
func (b *Blender) Fingerprint() string {
	return fmt.Sprintf("%s|%g|%g", b.artifact.Fingerprint(), b.mlWeight, b.heuristicWeight)
}

// Evaluate scores a position. Terminal positions short-circuit to the mate
// or draw score without consulting the model. Always returns a well-formed
// result; model failures degrade the source to heuristic.
func (b *Blender) Evaluate(pos rules.Position) Result {
	if pos.MoveCount() == 0 {
		if pos.InCheck() {
			score := MateScore
			if pos.WhiteToMove() {
				score = -MateScore // White to move and mated
			}
			return Result{Score: score, Classification: Mate, Source: SourceHeuristic}
		}
		return Result{Score: 0, Classification: Equal, Source: SourceHeuristic}
	}
	if pos.InsufficientMaterial() || pos.IsFiftyMoveDraw() {
		return Result{Score: 0, Classification: Equal, Source: SourceHeuristic}
	}

	heuristic := Heuristic(pos)

	predicted, err := b.artifact.Predict(feature.Extract(pos))
	if err != nil {
		// A nil artifact was already reported at startup; only an artifact
		// that loaded and then failed to predict is worth a warning.
		if b.artifact != nil {
			b.warnOnce.Do(func() {
				b.log.Warn().Err(err).Msg("model prediction failed, falling back to heuristic scoring")
			})
		}
		return Result{Score: heuristic, Classification: Classify(heuristic, false), Source: SourceHeuristic}
	}

	score := b.mlWeight*predicted + b.heuristicWeight*heuristic
	return Result{Score: score, Classification: Classify(score, false), Source: SourceBlended}
}

// Classify buckets a score. mate must come from the rules oracle's checkmate
// signal.
func Classify(score float64, mate bool) Classification {
	if mate {
		return Mate
	}
	switch magnitude := math.Abs(score); {
	case magnitude < 1.0:
		return Equal
	case magnitude < 2.0:
		return SlightAdvantage
	case magnitude <= 3.0:
		return Advantage
	default:
		return Winning
	}
}
