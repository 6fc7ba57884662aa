package rules

import "math/bits"

// Light squares mask, used for same-colored-bishop draw detection.
const lightSquares uint64 = 0x55AA55AA55AA55AA

// InCheck reports whether the side to move is in check.
func (p Position) InCheck() bool {
	b := p.board
	return b.OurKingInCheck()
}

// IsCheckmate reports whether the side to move is checkmated.
func (p Position) IsCheckmate() bool {
	return p.MoveCount() == 0 && p.InCheck()
}

// IsStalemate reports whether the side to move has no legal moves while not
// in check.
func (p Position) IsStalemate() bool {
	return p.MoveCount() == 0 && !p.InCheck()
}

// IsFiftyMoveDraw reports whether the fifty-move rule applies (100 plies
// without a capture or pawn move).
func (p Position) IsFiftyMoveDraw() bool {
	return p.board.Halfmoveclock >= 100
}

// InsufficientMaterial reports whether neither side can deliver checkmate:
// bare kings, a lone minor piece, or same-colored bishops only.
func (p Position) InsufficientMaterial() bool {
	w, b := p.board.White, p.board.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	knights := w.Knights | b.Knights
	bishops := w.Bishops | b.Bishops
	minors := bits.OnesCount64(knights | bishops)
	if minors <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	// Bishops only: drawn when they all live on one square color.
	return bishops&lightSquares == bishops || bishops&^lightSquares == bishops
}

// IsTerminal reports whether the game is over in this position: checkmate,
// stalemate, insufficient material or the fifty-move rule.
func (p Position) IsTerminal() bool {
	if p.MoveCount() == 0 {
		return true
	}
	return p.InsufficientMaterial() || p.IsFiftyMoveDraw()
}
