package move

import (
	"fmt"

	"checkers/internal/domain/board"
)

type Code int

const (
	WrongMove Code = iota + 1
	CaptureMore
	CaptureRequired
	TurnCompleted
	YourTurn
	Won
	Lost
	OpponentLeft
)

// Feedback is what the player is told after a gesture or a game event.
type Feedback struct {
	Code Code
	// Required is the capture count the turn asks for, set with CaptureRequired.
	Required int
	// Reason says why the board refused the move, set with WrongMove.
	Reason error
}

func (f Feedback) String() string {
	switch f.Code {
	case WrongMove:
		return "wrong move"
	case CaptureMore:
		return "capture more..."
	case CaptureRequired:
		return fmt.Sprintf("Choose a path that captures %d pieces", f.Required)
	case TurnCompleted:
		return "turn completed"
	case YourTurn:
		return "Your turn"
	case Won:
		return "You won!"
	case Lost:
		return "You lost!"
	case OpponentLeft:
		return "Your opponent left the game"
	}
	return ""
}

// GameOver picks the feedback for the end of the game.
func GameOver(winner, self board.Player) Feedback {
	if winner == self {
		return Feedback{Code: Won}
	}
	return Feedback{Code: Lost}
}
