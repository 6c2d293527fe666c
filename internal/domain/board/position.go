package board

// Player is the signed id of a participant. The sign is also the direction
// in which the player's normal pieces advance along the rows.
type Player int

const (
	Creator Player = 1
	Joiner  Player = -1
)

func (p Player) Opponent() Player {
	return -p
}

func (p Player) Valid() bool {
	return p == Creator || p == Joiner
}

// Position of a square on the grid.
type Position struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

func (p Position) add(d direction) Position {
	return Position{Row: p.Row + d.row, Col: p.Col + d.col}
}

// Playable reports whether pieces may stand on the square.
func (p Position) Playable() bool {
	return (p.Row+p.Col)%2 == 1
}

type direction struct {
	row, col int
}

var diagonals = [4]direction{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}

// Play is one elementary step of a turn: a simple move or a single hop over
// the captured piece.
type Play struct {
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Captured *Position `json:"captured"`
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
