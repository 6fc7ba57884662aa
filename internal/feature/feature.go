// Package feature converts a position into the fixed-length numeric vector
// the trained regression model was fitted against. The schema is versioned:
// a model artifact trained against a different schema must be rejected, not
// padded or truncated.
package feature

import (
	"math"
	"math/bits"

	"chessadvisor/internal/rules"
)

// SchemaVersion identifies the feature layout below. Bump it whenever the
// count, order or meaning of features changes.
const SchemaVersion = 1

// Names lists the features in vector order.
var Names = []string{
	"pawn_material_white", "pawn_material_black",
	"knight_material_white", "knight_material_black",
	"bishop_material_white", "bishop_material_black",
	"rook_material_white", "rook_material_black",
	"queen_material_white", "queen_material_black",
	"king_material_white", "king_material_black",
	"mobility_white", "mobility_black",
	"king_safety_white", "king_safety_black",
	"doubled_pawns", "isolated_pawns",
	"game_phase",
}

// Count is the schema's fixed vector length.
const Count = 19

// Vector is one extracted feature vector. Index order matches Names.
type Vector [Count]float64

// Material scale used by the training pipeline: pawns-equivalent per piece.
var materialScale = [...]float64{1, 3, 3, 5, 9, 100}

// Extract computes the feature vector for a position. It touches each of the
// 64 squares and both sides' legal move lists once; no deeper search.
func Extract(pos rules.Position) Vector {
	var v Vector

	white := pos.Pieces(true)
	black := pos.Pieces(false)

	// Signed material features: white counts positive, black negative,
	// each scaled by the conventional piece value.
	wSets := [...]uint64{white.Pawns, white.Knights, white.Bishops, white.Rooks, white.Queens, white.Kings}
	bSets := [...]uint64{black.Pawns, black.Knights, black.Bishops, black.Rooks, black.Queens, black.Kings}
	for i := range wSets {
		v[2*i] = float64(bits.OnesCount64(wSets[i])) * materialScale[i]
		v[2*i+1] = -float64(bits.OnesCount64(bSets[i])) * materialScale[i]
	}

	moverMoves := float64(pos.MoveCount())
	waiterMoves := float64(pos.OpponentMoveCount())
	if pos.WhiteToMove() {
		v[12], v[13] = moverMoves, waiterMoves
	} else {
		v[12], v[13] = waiterMoves, moverMoves
	}

	// King safety: Manhattan distance from the board center, negative for
	// White (far is bad), positive for Black (far is good for White).
	v[14] = -kingCenterDistance(white.Kings)
	v[15] = kingCenterDistance(black.Kings)

	v[16] = float64(doubledPawns(white.Pawns) - doubledPawns(black.Pawns))
	v[17] = float64(isolatedPawns(white.Pawns) - isolatedPawns(black.Pawns))

	// Game phase: total piece count normalized to [0, 1].
	v[18] = float64(bits.OnesCount64(white.All|black.All)) / 32.0

	return v
}

func kingCenterDistance(kings uint64) float64 {
	if kings == 0 {
		return 0
	}
	sq := bits.TrailingZeros64(kings)
	file := float64(sq % 8)
	rank := float64(sq / 8)
	return math.Abs(3.5-file) + math.Abs(3.5-rank)
}

func fileMask(file int) uint64 {
	return 0x0101010101010101 << uint(file)
}

func doubledPawns(pawns uint64) int {
	doubled := 0
	for f := 0; f < 8; f++ {
		if n := bits.OnesCount64(pawns & fileMask(f)); n > 1 {
			doubled += n - 1
		}
	}
	return doubled
}

func isolatedPawns(pawns uint64) int {
	isolated := 0
	for f := 0; f < 8; f++ {
		own := bits.OnesCount64(pawns & fileMask(f))
		if own == 0 {
			continue
		}
		var neighbors uint64
		if f > 0 {
			neighbors |= fileMask(f - 1)
		}
		if f < 7 {
			neighbors |= fileMask(f + 1)
		}
		if pawns&neighbors == 0 {
			isolated += own
		}
	}
	return isolated
}
