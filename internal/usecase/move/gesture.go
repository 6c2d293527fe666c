package move

import "checkers/internal/domain/board"

// landingOverlap is the share of a square the dropped piece has to cover.
const landingOverlap = 0.7

// Geometry is where the grid is drawn: top-left corner and square size.
type Geometry struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	Size   float64 `json:"size"`
}

// Point is the top-left corner of the dragged piece.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (g Geometry) Corner(p board.Position) Point {
	return Point{X: g.StartX + float64(p.Col)*g.Size, Y: g.StartY + float64(p.Row)*g.Size}
}

// Landing finds the playable square the piece was dropped on.
func (g Geometry) Landing(b *board.Board, at Point) (board.Position, bool) {
	if g.Size <= 0 {
		return board.Position{}, false
	}
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			p := board.Position{Row: r, Col: c}
			if p.Playable() && g.covers(at, g.Corner(p)) {
				return p, true
			}
		}
	}
	return board.Position{}, false
}

func (g Geometry) covers(piece, square Point) bool {
	dx := piece.X - square.X
	if dx < 0 {
		dx = -dx
	}
	dy := piece.Y - square.Y
	if dy < 0 {
		dy = -dy
	}
	if dx >= g.Size || dy >= g.Size {
		return false
	}
	return (g.Size-dx)*(g.Size-dy) >= landingOverlap*g.Size*g.Size
}
