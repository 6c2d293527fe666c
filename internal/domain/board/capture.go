package board

// view is a read-only look at the grid from the point of view of a moving
// piece. Captured squares and the vacated origin live in the view itself, so
// exploring capture chains never touches the board.
type view struct {
	b        *Board
	mover    Player
	origin   Position
	captured []Position
}

type capture struct {
	over    Position
	landing Position
}

func (b *Board) viewFrom(mover Player, origin Position, captured []Position) view {
	return view{b: b, mover: mover, origin: origin, captured: captured}
}

func (v view) isCaptured(p Position) bool {
	for _, c := range v.captured {
		if c == p {
			return true
		}
	}
	return false
}

// withCapture returns a copy of the view where p is already taken.
func (v view) withCapture(p Position) view {
	next := v
	next.captured = append(append(make([]Position, 0, len(v.captured)+1), v.captured...), p)
	return next
}

func (v view) occupant(p Position) *Piece {
	if p == v.origin {
		return nil
	}
	return v.b.grid[p.Row][p.Col]
}

func (v view) isEmpty(p Position) bool {
	if !v.b.Within(p) {
		return false
	}
	if v.occupant(p) == nil {
		return true
	}
	return v.b.rules.DiscardCaptured && v.isCaptured(p)
}

// capturable: an opponent piece that has not been taken yet this turn.
func (v view) capturable(p Position) bool {
	if !v.b.Within(p) {
		return false
	}
	piece := v.occupant(p)
	return piece != nil && piece.Owner != v.mover && !v.isCaptured(p)
}

func (v view) captures(from Position, piece Piece) []capture {
	switch piece.Kind.(type) {
	case Normal:
		return v.normalCaptures(from, piece.Owner)
	case King:
		return v.kingCaptures(from)
	}
	return nil
}

func (v view) normalCaptures(from Position, owner Player) []capture {
	var out []capture
	for _, d := range diagonals {
		if !v.b.rules.CaptureBackwards && d.row != int(owner) {
			continue
		}
		over := from.add(d)
		landing := over.add(d)
		if v.capturable(over) && v.isEmpty(landing) {
			out = append(out, capture{over: over, landing: landing})
		}
	}
	return out
}

func (v view) kingCaptures(from Position) []capture {
	var out []capture
	for _, d := range diagonals {
		p := from.add(d)
		if v.b.rules.FlyingKings {
			for v.isEmpty(p) {
				p = p.add(d)
			}
		}
		if !v.capturable(p) {
			continue
		}
		for landing := p.add(d); v.isEmpty(landing); landing = landing.add(d) {
			out = append(out, capture{over: p, landing: landing})
			if !v.b.rules.FlyingKings {
				break
			}
		}
	}
	return out
}

// maxChain is the length of the longest capture sequence the piece can make
// starting at from, given what this view has already captured. A piece
// crowned on the way goes on capturing as a king, if the rules let it go on.
func (v view) maxChain(from Position, piece Piece) int {
	best := 0
	for _, c := range v.captures(from, piece) {
		n := 1
		next, crowned := promoted(c.landing, piece, v.b.size)
		if !crowned || v.b.rules.CaptureAfterFarRow {
			n += v.withCapture(c.over).maxChain(c.landing, next)
		}
		if n > best {
			best = n
		}
	}
	return best
}

// MaxCaptures is the longest capture chain available to the player on the
// current grid, ignoring the captures already made this turn.
func (b *Board) MaxCaptures(player Player) int {
	best := 0
	b.eachPiece(player, func(at Position, piece Piece) {
		if n := b.viewFrom(player, at, nil).maxChain(at, piece); n > best {
			best = n
		}
	})
	return best
}

func (b *Board) canAnyCapture(player Player) bool {
	found := false
	b.eachPiece(player, func(at Position, piece Piece) {
		if !found && b.canCapture(at, piece) {
			found = true
		}
	})
	return found
}

// canCapture looks at the live turn: pieces captured so far can't be taken
// again and block the path.
func (b *Board) canCapture(at Position, piece Piece) bool {
	return len(b.viewFrom(piece.Owner, at, b.ctx.Captured).captures(at, piece)) > 0
}

// CanCaptureMore reports whether the piece on the square can continue the
// capture chain. A piece crowned during the turn stops there unless the rules
// say otherwise.
func (b *Board) CanCaptureMore(at Position) bool {
	piece, ok := b.PieceAt(at)
	if !ok || (b.ctx.crowned > 0 && !b.rules.CaptureAfterFarRow) {
		return false
	}
	return len(b.viewFrom(piece.Owner, at, b.ctx.Captured).captures(at, piece)) > 0
}

// ShouldCaptureMore implements the turning rule for kings: after a capture
// that leaves the king without a continuation, any other empty square past
// the last captured piece on the same line that would have allowed one makes
// the landing illegal.
func (b *Board) ShouldCaptureMore(at Position) bool {
	piece, ok := b.PieceAt(at)
	if !ok || !piece.IsKing() || !b.rules.FlyingKings || !b.ctx.capturedDuringMove || len(b.ctx.Captured) == 0 {
		return false
	}
	// crowned by this very capture, it moved as a normal piece
	if b.ctx.crowned == len(b.ctx.Plays) {
		return false
	}
	if b.CanCaptureMore(at) {
		return false
	}
	last := b.ctx.Captured[len(b.ctx.Captured)-1]
	d := direction{row: sign(at.Row - last.Row), col: sign(at.Col - last.Col)}
	v := b.viewFrom(piece.Owner, at, b.ctx.Captured)
	// Squares beyond the landing count as well as those before it: stopping
	// short of a continuation is refused, not only overshooting one.
	for p := last.add(d); v.isEmpty(p); p = p.add(d) {
		if p == at {
			continue
		}
		if len(v.kingCaptures(p)) > 0 {
			return true
		}
	}
	return false
}
