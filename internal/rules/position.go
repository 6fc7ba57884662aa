// Package rules adapts the dragontoothmg move-generation library into the
// board oracle the evaluation engine consumes: immutable positions, legal
// move enumeration, terminal-state predicates and notation helpers.
package rules

import (
	"errors"
	"fmt"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = dragon.Startpos

// ErrInvalidPosition reports a malformed board description. Positions that
// fail to parse are never evaluated.
var ErrInvalidPosition = errors.New("invalid position")

// Move identifies a single legal move in UCI coordinate form (e2e4, e7e8q).
type Move = dragon.Move

// Position is an immutable snapshot of a board state: piece placement, side
// to move, castling and en passant rights, and move clocks. Apply returns a
// new Position; the receiver is never mutated.
type Position struct {
	board dragon.Board
}

// PieceSet holds one side's occupancy as 64-bit masks, a1 = bit 0.
type PieceSet struct {
	Pawns   uint64
	Knights uint64
	Bishops uint64
	Rooks   uint64
	Queens  uint64
	Kings   uint64
	All     uint64
}

// Starting returns the initial position.
func Starting() Position {
	return Position{board: dragon.ParseFen(dragon.Startpos)}
}

// ParseFEN validates and parses a FEN string. The underlying move-generation
// library assumes well-formed input, so structural validation happens here
// and malformed strings fail fast with ErrInvalidPosition.
func ParseFEN(fen string) (pos Position, err error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return Position{}, fmt.Errorf("%w: need 4-6 FEN fields, got %d", ErrInvalidPosition, len(fields))
	}
	if err := validatePlacement(fields[0]); err != nil {
		return Position{}, err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return Position{}, fmt.Errorf("%w: side to move %q", ErrInvalidPosition, fields[1])
	}
	// Optional clocks default like the usual short-form FEN.
	if len(fields) == 4 {
		fields = append(fields, "0")
	}
	if len(fields) == 5 {
		fields = append(fields, "1")
	}
	defer func() {
		if r := recover(); r != nil {
			pos, err = Position{}, fmt.Errorf("%w: %v", ErrInvalidPosition, r)
		}
	}()
	return Position{board: dragon.ParseFen(strings.Join(fields, " "))}, nil
}

func validatePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidPosition, len(ranks))
	}
	var whiteKings, blackKings int
	for _, rank := range ranks {
		files := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				files += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				files++
				if c == 'K' {
					whiteKings++
				}
				if c == 'k' {
					blackKings++
				}
			default:
				return fmt.Errorf("%w: piece character %q", ErrInvalidPosition, c)
			}
		}
		if files != 8 {
			return fmt.Errorf("%w: rank %q covers %d files", ErrInvalidPosition, rank, files)
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return fmt.Errorf("%w: need exactly one king per side", ErrInvalidPosition)
	}
	return nil
}

// ParseMove parses a UCI coordinate move string.
func ParseMove(s string) (Move, error) {
	return dragon.ParseMove(s)
}

// WhiteToMove reports which side moves next.
func (p Position) WhiteToMove() bool {
	return p.board.Wtomove
}

// FEN returns the position in FEN notation.
func (p Position) FEN() string {
	b := p.board
	return b.ToFen()
}

// Hash returns the position's Zobrist hash.
func (p Position) Hash() uint64 {
	b := p.board
	return b.Hash()
}

// HalfmoveClock returns plies since the last capture or pawn move.
func (p Position) HalfmoveClock() int {
	return int(p.board.Halfmoveclock)
}

// LegalMoves enumerates every legal move for the side to move in the
// oracle's stable generation order.
func (p Position) LegalMoves() []Move {
	b := p.board
	return b.GenerateLegalMoves()
}

// FindMove resolves a UCI move string against the position's legal moves.
func (p Position) FindMove(s string) (Move, error) {
	for _, m := range p.LegalMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("move %s is not legal in %s", s, p.FEN())
}

// Apply derives the position after a move. The move must be legal.
func (p Position) Apply(m Move) Position {
	b := p.board
	b.Apply(m)
	return Position{board: b}
}

// MoveCount returns the number of legal moves for the side to move.
func (p Position) MoveCount() int {
	return len(p.LegalMoves())
}

// OpponentMoveCount measures the waiting side's mobility by generating moves
// on a null-flipped board. When the side to move is in check the flipped
// board is not a reachable position, so the count is an approximation; it is
// still deterministic for identical input.
func (p Position) OpponentMoveCount() int {
	b := p.board
	b.Wtomove = !b.Wtomove
	return len(b.GenerateLegalMoves())
}

// Pieces returns one side's piece occupancy.
func (p Position) Pieces(white bool) PieceSet {
	bb := p.board.Black
	if white {
		bb = p.board.White
	}
	return PieceSet{
		Pawns:   bb.Pawns,
		Knights: bb.Knights,
		Bishops: bb.Bishops,
		Rooks:   bb.Rooks,
		Queens:  bb.Queens,
		Kings:   bb.Kings,
		All:     bb.All,
	}
}
