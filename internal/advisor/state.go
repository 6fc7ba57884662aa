package advisor

import "chessadvisor/internal/rules"

// GameState is the reportable status of a position.
type GameState string

const (
	StateNormal               GameState = "NORMAL"
	StateCheck                GameState = "CHECK"
	StateCheckmate            GameState = "CHECKMATE"
	StateStalemate            GameState = "STALEMATE"
	StateInsufficientMaterial GameState = "INSUFFICIENT_MATERIAL"
	StateDraw                 GameState = "DRAW"
)

// Terminal reports whether the game is over in this state. Check is not
// terminal.
func (s GameState) Terminal() bool {
	switch s {
	case StateCheckmate, StateStalemate, StateInsufficientMaterial, StateDraw:
		return true
	}
	return false
}

// Classify maps the rules oracle's signals onto a game state. Terminal
// states take precedence over check so a finished game is never reported as
// merely "in check".
func Classify(pos rules.Position) GameState {
	if pos.MoveCount() == 0 {
		if pos.InCheck() {
			return StateCheckmate
		}
		return StateStalemate
	}
	if pos.InsufficientMaterial() {
		return StateInsufficientMaterial
	}
	if pos.IsFiftyMoveDraw() {
		return StateDraw
	}
	if pos.InCheck() {
		return StateCheck
	}
	return StateNormal
}
