package board

import (
	"errors"
	"fmt"
)

const (
	DefaultSize = 8
	MinSize     = 4
	MaxSize     = 16
)

var ErrMalformedSnapshot = errors.New("malformed board snapshot")

// Square is one cell of the grid as it travels over the wire.
type Square struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Piece  *Piece `json:"piece"`
}

// Snapshot is the authoritative state a Board is built from.
type Snapshot struct {
	Checkers  [][]Square `json:"checkers"`
	Turn      Player     `json:"turn"`
	BoardSize int        `json:"boardSize"`
}

// NewInitialSnapshot lays out a fresh game: each player fills size/2-1 rows of
// playable squares on its own side, the creator moves first.
func NewInitialSnapshot(size int) Snapshot {
	rows := size/2 - 1
	checkers := make([][]Square, size)
	for r := 0; r < size; r++ {
		checkers[r] = make([]Square, size)
		for c := 0; c < size; c++ {
			sq := Square{Row: r, Column: c}
			if (Position{Row: r, Col: c}).Playable() {
				switch {
				case r < rows:
					sq.Piece = NewPiece(Creator, Normal{})
				case r >= size-rows:
					sq.Piece = NewPiece(Joiner, Normal{})
				}
			}
			checkers[r][c] = sq
		}
	}
	return Snapshot{Checkers: checkers, Turn: Creator, BoardSize: size}
}

// Validate checks the snapshot shape so a Board never indexes outside its grid.
func (s Snapshot) Validate() error {
	if s.BoardSize < MinSize || s.BoardSize > MaxSize {
		return fmt.Errorf("%w: board size %d", ErrMalformedSnapshot, s.BoardSize)
	}
	if !s.Turn.Valid() {
		return fmt.Errorf("%w: turn %d", ErrMalformedSnapshot, s.Turn)
	}
	if len(s.Checkers) != s.BoardSize {
		return fmt.Errorf("%w: %d rows", ErrMalformedSnapshot, len(s.Checkers))
	}
	for r, row := range s.Checkers {
		if len(row) != s.BoardSize {
			return fmt.Errorf("%w: row %d has %d squares", ErrMalformedSnapshot, r, len(row))
		}
		for c, sq := range row {
			if sq.Piece == nil {
				continue
			}
			if !(Position{Row: r, Col: c}).Playable() {
				return fmt.Errorf("%w: piece on unplayable square (%d,%d)", ErrMalformedSnapshot, r, c)
			}
			if sq.Piece.Kind == nil || !sq.Piece.Owner.Valid() {
				return fmt.Errorf("%w: bad piece at (%d,%d)", ErrMalformedSnapshot, r, c)
			}
		}
	}
	return nil
}

// Count returns the number of pieces the player has on the snapshot.
func (s Snapshot) Count(player Player) int {
	n := 0
	for _, row := range s.Checkers {
		for _, sq := range row {
			if sq.Piece != nil && sq.Piece.Owner == player {
				n++
			}
		}
	}
	return n
}
