package move

import (
	"errors"

	"go.uber.org/zap"

	"checkers/internal/domain/board"
)

var (
	ErrNoLanding  = errors.New("piece was not dropped on a playable square")
	ErrSameSquare = errors.New("piece was dropped on its own square")
)

// Result of one gesture. Snap is the square the dragged piece has to be drawn
// on afterwards.
type Result struct {
	Feedback
	Snap board.Position
}

// Processor drives a Board through one gesture. All state lives in the board.
type Processor struct {
	log *zap.SugaredLogger
}

func NewProcessor(log *zap.SugaredLogger) *Processor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Processor{log: log}
}

// ProcessMove handles a piece dragged from its square and dropped at the
// point at, on a grid drawn with geometry g.
func (p *Processor) ProcessMove(b *board.Board, from board.Position, at Point, g Geometry) Result {
	landing, ok := g.Landing(b, at)
	if !ok {
		return wrongMove(from, ErrNoLanding)
	}
	if landing == from {
		return wrongMove(from, ErrSameSquare)
	}
	return p.Step(b, from, landing)
}

// Step moves the piece on from to the square to, or explains why it can't.
func (p *Processor) Step(b *board.Board, from, to board.Position) Result {
	b.InitMove()
	step, err := b.CheckMove(from, to)
	if err != nil {
		p.log.Debugf("move (%d,%d)->(%d,%d) rejected: %v", from.Row, from.Col, to.Row, to.Col, err)
		return wrongMove(from, err)
	}
	b.Commit(step)

	if !b.DidCapture() {
		return p.processNormalMove(b, step)
	}
	return p.processPieceCaptured(b, step)
}

func (p *Processor) processNormalMove(b *board.Board, step board.Step) Result {
	if !b.HasCapturedAll() {
		return p.rollback(b, b.Required())
	}
	b.Finalize()
	return Result{Feedback: Feedback{Code: TurnCompleted}, Snap: step.To}
}

func (p *Processor) processPieceCaptured(b *board.Board, step board.Step) Result {
	if b.CanCaptureMore(step.To) {
		return Result{Feedback: Feedback{Code: CaptureMore}, Snap: step.To}
	}
	captured := len(b.Context().Captured)
	if b.ShouldCaptureMore(step.To) {
		p.log.Debugf("king landed on (%d,%d) and skipped a continuation", step.To.Row, step.To.Col)
		return p.rollback(b, max(b.Required(), captured+1))
	}
	if !b.HasCapturedAll() {
		return p.rollback(b, b.Required())
	}
	b.Finalize()
	return Result{Feedback: Feedback{Code: TurnCompleted}, Snap: step.To}
}

func (p *Processor) rollback(b *board.Board, required int) Result {
	origin := b.Context().Origin
	b.Rollback()
	return Result{Feedback: Feedback{Code: CaptureRequired, Required: required}, Snap: origin}
}

func wrongMove(from board.Position, reason error) Result {
	return Result{Feedback: Feedback{Code: WrongMove, Reason: reason}, Snap: from}
}
