package move

import (
	"errors"
	"fmt"

	"checkers/internal/domain/board"
)

var (
	ErrEmptyTurn        = errors.New("turn has no plays")
	ErrShortCapture     = errors.New("capture path is shorter than required")
	ErrUnfinishedChain  = errors.New("capture chain left unfinished")
	ErrPlaysAfterTurn   = errors.New("plays after the end of the turn")
	ErrCapturedMismatch = errors.New("play captures a different piece")
)

// PlayTurn runs the plays of a whole turn through Step as if the player had
// dragged the pieces one by one. Every play but the last has to leave a
// capture chain open and the last one has to complete the turn. On error the
// board may be left mid-turn and should be dropped.
func (p *Processor) PlayTurn(b *board.Board, plays []board.Play) ([]Result, error) {
	if len(plays) == 0 {
		return nil, ErrEmptyTurn
	}
	results := make([]Result, 0, len(plays))
	for i, play := range plays {
		res := p.Step(b, play.From, play.To)
		results = append(results, res)
		last := i == len(plays)-1

		switch {
		case res.Code == WrongMove:
			return results, fmt.Errorf("play %d: %w", i, res.Reason)
		case res.Code == CaptureRequired:
			return results, fmt.Errorf("play %d: %w: %s", i, ErrShortCapture, res)
		case res.Code == CaptureMore && last:
			return results, ErrUnfinishedChain
		case res.Code == TurnCompleted && !last:
			return results, fmt.Errorf("%w: %d left", ErrPlaysAfterTurn, len(plays)-1-i)
		}

		if play.Captured != nil {
			made := b.Plays()[i].Captured
			if made == nil || *made != *play.Captured {
				return results, fmt.Errorf("play %d: %w", i, ErrCapturedMismatch)
			}
		}
	}
	return results, nil
}
