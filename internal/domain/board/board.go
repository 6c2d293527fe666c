package board

import (
	"errors"
	"fmt"
)

// Reasons a move is refused. All of them mean "wrong move" to the player.
var (
	ErrNotInTurn        = errors.New("player is not in turn")
	ErrTurnCompleted    = errors.New("turn already completed")
	ErrNoPiece          = errors.New("no piece on the square")
	ErrNotOwner         = errors.New("piece belongs to the opponent")
	ErrDifferentPiece   = errors.New("another piece is in the middle of a capture")
	ErrOutOfBounds      = errors.New("square is outside the board")
	ErrOccupied         = errors.New("landing square is occupied")
	ErrNotDiagonal      = errors.New("move is not diagonal")
	ErrWrongDirection   = errors.New("normal piece can't move that way")
	ErrTooFar           = errors.New("move is too long")
	ErrNothingToCapture = errors.New("no opponent piece to capture")
	ErrBlocked          = errors.New("path is blocked")
	ErrCaptureRequired  = errors.New("a capture is mandatory")
	ErrChainInProgress  = errors.New("capture chain must be continued")
	ErrUnknownKind      = errors.New("unknown piece kind")
	ErrBadPlay          = errors.New("play does not match the board")
)

// Board owns the grid, whose turn it is and the bookkeeping of the turn in
// progress. It is not safe for concurrent use.
type Board struct {
	size  int
	grid  [][]*Piece
	turn  Player
	self  Player
	rules Rules
	ctx   TurnContext
}

// New builds a board for the player self from an authoritative snapshot.
func New(s Snapshot, self Player, rules Rules) (*Board, error) {
	if !self.Valid() {
		return nil, fmt.Errorf("unknown player %d", self)
	}
	b := &Board{self: self, rules: rules}
	if err := b.Init(s); err != nil {
		return nil, err
	}
	return b, nil
}

// Init replaces the grid and the turn pointer. Whatever was in progress is
// dropped.
func (b *Board) Init(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	b.size = s.BoardSize
	b.grid = make([][]*Piece, s.BoardSize)
	for r, row := range s.Checkers {
		b.grid[r] = make([]*Piece, s.BoardSize)
		for c, sq := range row {
			if sq.Piece != nil {
				b.grid[r][c] = NewPiece(sq.Piece.Owner, sq.Piece.Kind)
			}
		}
	}
	b.turn = s.Turn
	b.ctx = newTurn(0)
	if b.IsPlayerInTurn() {
		b.InitTurn()
	}
	return nil
}

// InitTurn starts the turn of the player in turn from scratch.
func (b *Board) InitTurn() {
	b.ctx = newTurn(b.requiredCaptures())
}

// InitMove is called when a new gesture starts.
func (b *Board) InitMove() {
	b.ctx.capturedDuringMove = false
}

func (b *Board) requiredCaptures() int {
	switch {
	case !b.rules.MandatoryCapture:
		return 0
	case b.rules.MaximumCapture:
		return b.MaxCaptures(b.turn)
	case b.canAnyCapture(b.turn):
		return 1
	}
	return 0
}

func (b *Board) Size() int { return b.size }
func (b *Board) Turn() Player { return b.turn }
func (b *Board) Self() Player { return b.self }
func (b *Board) Rules() Rules { return b.rules }
func (b *Board) Required() int { return b.ctx.Required }
func (b *Board) Plays() []Play { return b.ctx.clone().Plays }
func (b *Board) DidCapture() bool { return b.ctx.capturedDuringMove }

// Context returns a copy of the turn in progress.
func (b *Board) Context() TurnContext {
	return b.ctx.clone()
}

// PlayCompleted reports whether the plays of this turn are final and can be
// sent to the opponent.
func (b *Board) PlayCompleted() bool {
	return b.ctx.Completed
}

func (b *Board) IsPlayerInTurn() bool {
	return b.self == b.turn && !b.ctx.Completed
}

// HasCapturedAll reports whether the turn reached its required capture count.
func (b *Board) HasCapturedAll() bool {
	return len(b.ctx.Captured) >= b.ctx.Required
}

func (b *Board) Within(p Position) bool {
	return p.Row >= 0 && p.Row < b.size && p.Col >= 0 && p.Col < b.size
}

func (b *Board) PieceAt(p Position) (Piece, bool) {
	if !b.Within(p) || b.grid[p.Row][p.Col] == nil {
		return Piece{}, false
	}
	return *b.grid[p.Row][p.Col], true
}

func (b *Board) eachPiece(player Player, fn func(at Position, piece Piece)) {
	for r, row := range b.grid {
		for c, piece := range row {
			if piece != nil && piece.Owner == player {
				fn(Position{Row: r, Col: c}, *piece)
			}
		}
	}
}

// IsPieceMovable reports whether the local player may start dragging the
// piece on the square.
func (b *Board) IsPieceMovable(at Position) bool {
	piece, ok := b.PieceAt(at)
	if !ok || !b.IsPlayerInTurn() || piece.Owner != b.self {
		return false
	}
	canCapture := b.canCapture(at, piece)
	if !canCapture && b.shouldCapture() {
		return false
	}
	if !canCapture && !b.viewFrom(piece.Owner, at, b.ctx.Captured).hasStep(at, piece) {
		return false
	}
	return !b.isDifferentPiece(at)
}

func (b *Board) shouldCapture() bool {
	return b.rules.MandatoryCapture && b.canAnyCapture(b.self)
}

func (b *Board) isDifferentPiece(at Position) bool {
	return b.ctx.Engaged != nil && *b.ctx.Engaged != at
}

func (v view) hasStep(at Position, piece Piece) bool {
	for _, d := range diagonals {
		switch piece.Kind.(type) {
		case Normal:
			if d.row == int(piece.Owner) && v.isEmpty(at.add(d)) {
				return true
			}
		case King:
			if v.isEmpty(at.add(d)) {
				return true
			}
		}
	}
	return false
}

// CheckMove decides whether moving the piece on from to the square to is
// legal right now. It does not change the board: pass the returned step to
// Commit to apply it.
func (b *Board) CheckMove(from, to Position) (Step, error) {
	if b.ctx.Completed {
		return Step{}, ErrTurnCompleted
	}
	if !b.IsPlayerInTurn() {
		return Step{}, ErrNotInTurn
	}
	piece, ok := b.PieceAt(from)
	if !ok {
		return Step{}, ErrNoPiece
	}
	if piece.Owner != b.self {
		return Step{}, ErrNotOwner
	}
	if b.isDifferentPiece(from) {
		return Step{}, ErrDifferentPiece
	}
	if !b.Within(to) {
		return Step{}, ErrOutOfBounds
	}
	v := b.viewFrom(piece.Owner, from, b.ctx.Captured)
	if !v.isEmpty(to) {
		return Step{}, ErrOccupied
	}
	dRow, dCol := to.Row-from.Row, to.Col-from.Col
	if dRow == 0 || abs(dRow) != abs(dCol) {
		return Step{}, ErrNotDiagonal
	}

	var (
		step Step
		err  error
	)
	switch piece.Kind.(type) {
	case Normal:
		step, err = v.normalStep(from, to, piece.Owner)
	case King:
		step, err = v.kingStep(from, to)
	default:
		err = ErrUnknownKind
	}
	if err != nil {
		return Step{}, err
	}

	if step.Captured == nil {
		if len(b.ctx.Captured) > 0 {
			return Step{}, ErrChainInProgress
		}
		if b.ctx.Required > 0 {
			return Step{}, ErrCaptureRequired
		}
	}
	return step, nil
}

func (v view) normalStep(from, to Position, owner Player) (Step, error) {
	dRow := to.Row - from.Row
	switch abs(dRow) {
	case 1:
		if dRow != int(owner) {
			return Step{}, ErrWrongDirection
		}
		return Step{From: from, To: to}, nil
	case 2:
		if !v.b.rules.CaptureBackwards && sign(dRow) != int(owner) {
			return Step{}, ErrWrongDirection
		}
		over := Position{Row: (from.Row + to.Row) / 2, Col: (from.Col + to.Col) / 2}
		if !v.capturable(over) {
			return Step{}, ErrNothingToCapture
		}
		return Step{From: from, To: to, Captured: &over}, nil
	}
	return Step{}, ErrTooFar
}

func (v view) kingStep(from, to Position) (Step, error) {
	d := direction{row: sign(to.Row - from.Row), col: sign(to.Col - from.Col)}
	distance := abs(to.Row - from.Row)
	var between []Position
	for p := from.add(d); p != to; p = p.add(d) {
		if !v.isEmpty(p) {
			between = append(between, p)
		}
	}
	switch {
	case len(between) == 0:
		if !v.b.rules.FlyingKings && distance > 1 {
			return Step{}, ErrTooFar
		}
		return Step{From: from, To: to}, nil
	case len(between) == 1 && v.capturable(between[0]):
		if !v.b.rules.FlyingKings && distance != 2 {
			return Step{}, ErrTooFar
		}
		over := between[0]
		return Step{From: from, To: to, Captured: &over}, nil
	case len(between) == 1:
		return Step{}, ErrNothingToCapture
	}
	return Step{}, ErrBlocked
}

// Commit applies a step returned by CheckMove. A normal piece landing on its
// far row is crowned at once, even in the middle of a capture chain.
func (b *Board) Commit(step Step) {
	piece := b.grid[step.From.Row][step.From.Col]
	b.grid[step.From.Row][step.From.Col] = nil
	b.grid[step.To.Row][step.To.Col] = piece

	next := b.ctx.withStep(step)
	if step.Captured != nil && b.rules.DiscardCaptured {
		c := *step.Captured
		next = next.withDiscarded(c, b.grid[c.Row][c.Col])
		b.grid[c.Row][c.Col] = nil
	}
	if b.promote(step.To) {
		next = next.withCrowned()
	}
	b.ctx = next
}

// Rollback puts the moved piece back where it started the turn, uncrowned if
// it was crowned on the way, returns anything lifted off the grid, and starts
// the turn over.
func (b *Board) Rollback() {
	if n := len(b.ctx.Plays); n > 0 {
		at := b.ctx.Plays[n-1].To
		piece := b.grid[at.Row][at.Col]
		if piece != nil && b.ctx.crowned > 0 {
			piece = NewPiece(piece.Owner, Normal{})
		}
		b.grid[at.Row][at.Col] = nil
		b.grid[b.ctx.Origin.Row][b.ctx.Origin.Col] = piece
	}
	for p, piece := range b.ctx.discarded {
		b.grid[p.Row][p.Col] = piece
	}
	b.InitTurn()
}

// Finalize closes the turn: removes the captured pieces and passes the turn.
func (b *Board) Finalize() {
	for _, c := range b.ctx.Captured {
		b.grid[c.Row][c.Col] = nil
	}
	b.ctx = b.ctx.completed()
	b.turn = b.turn.Opponent()
}

// promote crowns the normal piece on the square if it stands on its far row.
func (b *Board) promote(at Position) bool {
	piece := b.grid[at.Row][at.Col]
	if piece == nil {
		return false
	}
	crowned, ok := promoted(at, *piece, b.size)
	if ok {
		b.grid[at.Row][at.Col] = NewPiece(crowned.Owner, crowned.Kind)
	}
	return ok
}

// ApplyPlays replays the plays the opponent made, in order, then hands the
// turn to the local player. The plays are checked on a copy of the grid, so a
// rejected turn leaves the board as it was.
func (b *Board) ApplyPlays(plays []Play) error {
	if len(plays) == 0 {
		return fmt.Errorf("%w: empty turn", ErrBadPlay)
	}
	mover := b.turn
	if mover == b.self {
		return fmt.Errorf("%w: player %d is in turn locally", ErrBadPlay, mover)
	}
	grid := b.cloneGrid()
	for i, play := range plays {
		if err := b.replay(grid, mover, play); err != nil {
			return fmt.Errorf("%w: play %d: %w", ErrBadPlay, i, err)
		}
	}

	b.grid = grid
	b.turn = mover.Opponent()
	b.ctx = newTurn(0)
	if b.IsPlayerInTurn() {
		b.InitTurn()
	}
	return nil
}

func (b *Board) cloneGrid() [][]*Piece {
	grid := make([][]*Piece, len(b.grid))
	for r, row := range b.grid {
		grid[r] = make([]*Piece, len(row))
		for c, piece := range row {
			if piece != nil {
				grid[r][c] = NewPiece(piece.Owner, piece.Kind)
			}
		}
	}
	return grid
}

// replay checks one remote play against grid and applies it there.
func (b *Board) replay(grid [][]*Piece, mover Player, play Play) error {
	if !b.Within(play.From) || !b.Within(play.To) {
		return ErrOutOfBounds
	}
	piece := grid[play.From.Row][play.From.Col]
	if piece == nil {
		return ErrNoPiece
	}
	if piece.Owner != mover {
		return ErrNotOwner
	}
	if grid[play.To.Row][play.To.Col] != nil {
		return ErrOccupied
	}
	dRow, dCol := play.To.Row-play.From.Row, play.To.Col-play.From.Col
	if dRow == 0 || abs(dRow) != abs(dCol) {
		return ErrNotDiagonal
	}

	var pieces []Position
	d := direction{row: sign(dRow), col: sign(dCol)}
	for p := play.From.add(d); p != play.To; p = p.add(d) {
		if grid[p.Row][p.Col] != nil {
			pieces = append(pieces, p)
		}
	}
	if err := b.checkReplayPath(piece, abs(dRow), dRow, pieces, play.Captured); err != nil {
		return err
	}
	if play.Captured != nil && grid[play.Captured.Row][play.Captured.Col].Owner == mover {
		return ErrNothingToCapture
	}

	grid[play.From.Row][play.From.Col] = nil
	if play.Captured != nil {
		grid[play.Captured.Row][play.Captured.Col] = nil
	}
	if crowned, ok := promoted(play.To, *piece, b.size); ok {
		piece = NewPiece(crowned.Owner, crowned.Kind)
	}
	grid[play.To.Row][play.To.Col] = piece
	return nil
}

// checkReplayPath checks the distance of a remote play and that its captured
// square is the one piece it jumps.
func (b *Board) checkReplayPath(piece *Piece, dist, dRow int, pieces []Position, captured *Position) error {
	if captured == nil {
		if len(pieces) > 0 {
			return ErrBlocked
		}
		if _, ok := piece.Kind.(Normal); ok && (dist != 1 || dRow != int(piece.Owner)) {
			return ErrWrongDirection
		}
		if _, ok := piece.Kind.(King); ok && dist > 1 && !b.rules.FlyingKings {
			return ErrTooFar
		}
		return nil
	}
	if len(pieces) != 1 || pieces[0] != *captured {
		return ErrNothingToCapture
	}
	switch piece.Kind.(type) {
	case Normal:
		if dist != 2 {
			return ErrTooFar
		}
		if !b.rules.CaptureBackwards && sign(dRow) != int(piece.Owner) {
			return ErrWrongDirection
		}
	case King:
		if dist != 2 && !b.rules.FlyingKings {
			return ErrTooFar
		}
	}
	return nil
}

// Snapshot serializes the grid and the turn pointer.
func (b *Board) Snapshot() Snapshot {
	checkers := make([][]Square, b.size)
	for r, row := range b.grid {
		checkers[r] = make([]Square, b.size)
		for c, piece := range row {
			sq := Square{Row: r, Column: c}
			if piece != nil {
				sq.Piece = NewPiece(piece.Owner, piece.Kind)
			}
			checkers[r][c] = sq
		}
	}
	return Snapshot{Checkers: checkers, Turn: b.turn, BoardSize: b.size}
}

// HasLegalMove reports whether the player could move anything at the start
// of a turn.
func (b *Board) HasLegalMove(player Player) bool {
	found := false
	b.eachPiece(player, func(at Position, piece Piece) {
		if found {
			return
		}
		v := b.viewFrom(player, at, nil)
		found = len(v.captures(at, piece)) > 0 || v.hasStep(at, piece)
	})
	return found
}

// Winner reports the winner once the player in turn can't move.
func (b *Board) Winner() (Player, bool) {
	if b.HasLegalMove(b.turn) {
		return 0, false
	}
	return b.turn.Opponent(), true
}
