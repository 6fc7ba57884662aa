// Package eval scores positions. Heuristic produces a deterministic
// hand-tuned score; Blender mixes it with the trained model's prediction
// and classifies the result.
//
// Score convention, fixed across the engine: pawns-equivalent units,
// positive favors White. Per-side normalization happens at the advisor
// boundary, never here.
package eval

import (
	"math/bits"

	"chessadvisor/internal/rules"
)

// Heuristic weights. Fixed constants, not learned.
const (
	mobilityWeight      = 0.01 // per legal move
	castledKingBonus    = 0.5  // king on g1/c1 (g8/c8)
	exposedKingPenalty  = 0.3  // king still on the d/e files, first two ranks
	centerControlBonus  = 0.1  // per piece on d4/e4/d5/e5
	doubledPawnPenalty  = 0.2
	isolatedPawnPenalty = 0.15
	bishopPairBonus     = 0.3
	endgamePieceLimit   = 12 // total pieces at or below this use endgame king tables
)

var pieceValues = [...]float64{1, 3, 3, 5, 9} // P N B R Q; kings cancel out

const (
	centerMask       uint64 = 1<<27 | 1<<28 | 1<<35 | 1<<36   // d4 e4 d5 e5
	whiteCastleMask  uint64 = 1<<2 | 1<<6                     // c1 g1
	blackCastleMask  uint64 = 1<<58 | 1<<62                   // c8 g8
	whiteExposedMask uint64 = 1<<3 | 1<<4 | 1<<11 | 1<<12     // d1 e1 d2 e2
	blackExposedMask uint64 = 1<<59 | 1<<60 | 1<<51 | 1<<52   // d8 e8 d7 e7
)

// Heuristic returns the hand-tuned evaluation of a position: material,
// piece placement, mobility, king safety and pawn structure. It never fails,
// including for bare-king positions; terminal detection is the blender's
// job.
func Heuristic(pos rules.Position) float64 {
	white := pos.Pieces(true)
	black := pos.Pieces(false)
	endgame := bits.OnesCount64(white.All|black.All) <= endgamePieceLimit

	score := sideScore(white, true, endgame) - sideScore(black, false, endgame)

	moverMobility := mobilityWeight * float64(pos.MoveCount())
	waiterMobility := mobilityWeight * float64(pos.OpponentMoveCount())
	if pos.WhiteToMove() {
		score += moverMobility - waiterMobility
	} else {
		score += waiterMobility - moverMobility
	}

	return score
}

func sideScore(ps rules.PieceSet, white, endgame bool) float64 {
	kingTable := &kingMiddleTable
	if endgame {
		kingTable = &kingEndTable
	}

	score := pieceValues[0]*float64(bits.OnesCount64(ps.Pawns)) +
		pieceValues[1]*float64(bits.OnesCount64(ps.Knights)) +
		pieceValues[2]*float64(bits.OnesCount64(ps.Bishops)) +
		pieceValues[3]*float64(bits.OnesCount64(ps.Rooks)) +
		pieceValues[4]*float64(bits.OnesCount64(ps.Queens))

	score += placement(ps.Pawns, &pawnTable, white)
	score += placement(ps.Knights, &knightTable, white)
	score += placement(ps.Bishops, &bishopTable, white)
	score += placement(ps.Rooks, &rookTable, white)
	score += placement(ps.Queens, &queenTable, white)
	score += placement(ps.Kings, kingTable, white)

	score += centerControlBonus * float64(bits.OnesCount64(ps.All&centerMask))

	castled, exposed := whiteCastleMask, whiteExposedMask
	if !white {
		castled, exposed = blackCastleMask, blackExposedMask
	}
	if ps.Kings&castled != 0 {
		score += castledKingBonus
	}
	if ps.Kings&exposed != 0 {
		score -= exposedKingPenalty
	}

	score -= doubledPawnPenalty * float64(doubledCount(ps.Pawns))
	score -= isolatedPawnPenalty * float64(isolatedCount(ps.Pawns))

	if bits.OnesCount64(ps.Bishops) >= 2 {
		score += bishopPairBonus
	}

	return score
}

// placement sums a piece-square table over a bitboard, in pawns. Tables are
// printed with a8 first, so White squares are mirrored vertically.
func placement(pieces uint64, table *[64]int8, white bool) float64 {
	total := 0
	for pieces != 0 {
		sq := bits.TrailingZeros64(pieces)
		pieces &= pieces - 1
		if white {
			sq ^= 56
		}
		total += int(table[sq])
	}
	return float64(total) / 100.0
}

func filePawns(pawns uint64, file int) int {
	return bits.OnesCount64(pawns & (0x0101010101010101 << uint(file)))
}

func doubledCount(pawns uint64) int {
	doubled := 0
	for f := 0; f < 8; f++ {
		if n := filePawns(pawns, f); n > 1 {
			doubled += n - 1
		}
	}
	return doubled
}

func isolatedCount(pawns uint64) int {
	isolated := 0
	for f := 0; f < 8; f++ {
		n := filePawns(pawns, f)
		if n == 0 {
			continue
		}
		support := 0
		if f > 0 {
			support += filePawns(pawns, f-1)
		}
		if f < 7 {
			support += filePawns(pawns, f+1)
		}
		if support == 0 {
			isolated += n
		}
	}
	return isolated
}
