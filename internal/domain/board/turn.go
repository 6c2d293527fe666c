package board

// TurnContext is everything the board remembers about the turn in progress.
// Transitions return a new value instead of editing the current one.
type TurnContext struct {
	// Required is the capture count the player in turn has to reach.
	Required int
	// Engaged is the square of the piece in the middle of a capture chain.
	Engaged *Position
	// Origin is the square the moved piece started the turn from.
	Origin    Position
	Captured  []Position
	Plays     []Play
	Completed bool

	capturedDuringMove bool
	// crowned is the number of plays made when the moved piece was crowned,
	// zero while it is still a normal piece.
	crowned int
	// discarded keeps pieces lifted from the grid right after their capture
	// so a rollback can put them back.
	discarded map[Position]*Piece
}

func newTurn(required int) TurnContext {
	return TurnContext{Required: required}
}

func (t TurnContext) withStep(step Step) TurnContext {
	next := t
	if len(t.Plays) == 0 {
		next.Origin = step.From
	}
	next.Plays = append(append(make([]Play, 0, len(t.Plays)+1), t.Plays...), step.play())
	next.capturedDuringMove = step.Captured != nil
	if step.Captured != nil {
		next.Captured = append(append(make([]Position, 0, len(t.Captured)+1), t.Captured...), *step.Captured)
		to := step.To
		next.Engaged = &to
	}
	return next
}

func (t TurnContext) withCrowned() TurnContext {
	next := t
	next.crowned = len(t.Plays)
	return next
}

func (t TurnContext) withDiscarded(p Position, piece *Piece) TurnContext {
	next := t
	next.discarded = make(map[Position]*Piece, len(t.discarded)+1)
	for k, v := range t.discarded {
		next.discarded[k] = v
	}
	next.discarded[p] = piece
	return next
}

func (t TurnContext) completed() TurnContext {
	next := t
	next.Completed = true
	next.Engaged = nil
	return next
}

// clone copies the slices so callers can't reach into the board.
func (t TurnContext) clone() TurnContext {
	c := t
	c.Captured = append([]Position(nil), t.Captured...)
	c.Plays = append([]Play(nil), t.Plays...)
	if t.Engaged != nil {
		e := *t.Engaged
		c.Engaged = &e
	}
	c.discarded = nil
	return c
}

// Step is a checked but not yet committed elementary move.
type Step struct {
	From     Position
	To       Position
	Captured *Position
}

func (s Step) play() Play {
	p := Play{From: s.From, To: s.To}
	if s.Captured != nil {
		c := *s.Captured
		p.Captured = &c
	}
	return p
}
