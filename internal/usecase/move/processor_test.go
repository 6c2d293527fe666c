package move

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkers/internal/domain/board"
)

func pos(r, c int) board.Position { return board.Position{Row: r, Col: c} }

func man(p board.Player) *board.Piece { return board.NewPiece(p, board.Normal{}) }

func king(p board.Player) *board.Piece { return board.NewPiece(p, board.King{}) }

func newBoard(t *testing.T, rules board.Rules, pieces map[board.Position]*board.Piece) *board.Board {
	t.Helper()
	s := board.Snapshot{BoardSize: board.DefaultSize, Turn: board.Creator, Checkers: make([][]board.Square, board.DefaultSize)}
	for r := range s.Checkers {
		s.Checkers[r] = make([]board.Square, board.DefaultSize)
		for c := range s.Checkers[r] {
			s.Checkers[r][c] = board.Square{Row: r, Column: c, Piece: pieces[pos(r, c)]}
		}
	}
	b, err := board.New(s, board.Creator, rules)
	require.NoError(t, err)
	return b
}

func TestSimpleMove(t *testing.T) {
	b := newBoard(t, board.DefaultRules(), map[board.Position]*board.Piece{
		pos(2, 3): man(board.Creator),
		pos(6, 1): man(board.Joiner),
	})
	res := NewProcessor(nil).Step(b, pos(2, 3), pos(3, 2))

	assert.Equal(t, TurnCompleted, res.Code)
	assert.Equal(t, pos(3, 2), res.Snap)
	assert.True(t, b.PlayCompleted())
	assert.Equal(t, board.Joiner, b.Turn())
	assert.Equal(t, []board.Play{{From: pos(2, 3), To: pos(3, 2)}}, b.Plays())
}

func TestSingleCapture(t *testing.T) {
	b := newBoard(t, board.DefaultRules(), map[board.Position]*board.Piece{
		pos(2, 3): man(board.Creator),
		pos(3, 2): man(board.Joiner),
	})
	require.Equal(t, 1, b.Required())

	res := NewProcessor(nil).Step(b, pos(2, 3), pos(4, 1))
	assert.Equal(t, TurnCompleted, res.Code)
	_, ok := b.PieceAt(pos(3, 2))
	assert.False(t, ok)

	captured := pos(3, 2)
	want := []board.Play{{From: pos(2, 3), To: pos(4, 1), Captured: &captured}}
	if diff := cmp.Diff(want, b.Plays()); diff != "" {
		t.Errorf("plays mismatch (-want +got):\n%s", diff)
	}
}

func TestMaximumCaptureChain(t *testing.T) {
	b := newBoard(t, board.DefaultRules(), map[board.Position]*board.Piece{
		pos(2, 1): man(board.Creator),
		pos(0, 7): man(board.Creator),
		pos(3, 2): man(board.Joiner),
		pos(5, 4): man(board.Joiner),
		pos(1, 6): man(board.Joiner),
	})
	require.Equal(t, 2, b.Required())
	p := NewProcessor(nil)
	before := b.Snapshot()

	res := p.Step(b, pos(0, 7), pos(2, 5))
	assert.Equal(t, CaptureRequired, res.Code)
	assert.Equal(t, 2, res.Required)
	assert.Equal(t, "Choose a path that captures 2 pieces", res.String())
	assert.Equal(t, pos(0, 7), res.Snap)
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("short capture left the board changed (-want +got):\n%s", diff)
	}

	res = p.Step(b, pos(2, 1), pos(3, 0))
	assert.Equal(t, WrongMove, res.Code)
	assert.ErrorIs(t, res.Reason, board.ErrCaptureRequired)
	assert.Equal(t, pos(2, 1), res.Snap)

	res = p.Step(b, pos(2, 1), pos(4, 3))
	assert.Equal(t, CaptureMore, res.Code)
	assert.False(t, b.IsPieceMovable(pos(0, 7)))

	res = p.Step(b, pos(0, 7), pos(2, 5))
	assert.Equal(t, WrongMove, res.Code)
	assert.ErrorIs(t, res.Reason, board.ErrDifferentPiece)

	res = p.Step(b, pos(4, 3), pos(6, 5))
	assert.Equal(t, TurnCompleted, res.Code)
	assert.Len(t, b.Plays(), 2)
	for _, gone := range []board.Position{pos(3, 2), pos(5, 4)} {
		_, ok := b.PieceAt(gone)
		assert.False(t, ok, "captured piece on %v", gone)
	}
	_, ok := b.PieceAt(pos(1, 6))
	assert.True(t, ok)
}

func TestFarRowEndsTheChain(t *testing.T) {
	pieces := map[board.Position]*board.Piece{
		pos(5, 2): man(board.Creator),
		pos(6, 3): man(board.Joiner),
		pos(6, 5): man(board.Joiner),
	}

	t.Run("stop and crown", func(t *testing.T) {
		b := newBoard(t, board.DefaultRules(), pieces)
		require.Equal(t, 1, b.Required())

		res := NewProcessor(nil).Step(b, pos(5, 2), pos(7, 4))
		assert.Equal(t, TurnCompleted, res.Code)
		piece, ok := b.PieceAt(pos(7, 4))
		require.True(t, ok)
		assert.True(t, piece.IsKing())
		_, ok = b.PieceAt(pos(6, 5))
		assert.True(t, ok)
	})

	t.Run("continue past far row", func(t *testing.T) {
		rules := board.DefaultRules()
		rules.CaptureAfterFarRow = true
		b := newBoard(t, rules, pieces)
		require.Equal(t, 2, b.Required())
		p := NewProcessor(nil)

		assert.Equal(t, CaptureMore, p.Step(b, pos(5, 2), pos(7, 4)).Code)
		piece, ok := b.PieceAt(pos(7, 4))
		require.True(t, ok)
		assert.True(t, piece.IsKing(), "crowned on the far row before the chain goes on")

		assert.Equal(t, TurnCompleted, p.Step(b, pos(7, 4), pos(5, 6)).Code)
		piece, ok = b.PieceAt(pos(5, 6))
		require.True(t, ok)
		assert.True(t, piece.IsKing(), "a crowned piece stays a king")
	})
}

func TestKingTurningRule(t *testing.T) {
	pieces := map[board.Position]*board.Piece{
		pos(7, 0): king(board.Creator),
		pos(5, 2): man(board.Joiner),
		pos(5, 6): man(board.Joiner),
	}
	tests := []struct {
		name     string
		maximum  bool
		required int
	}{
		{"maximum capture", true, 2},
		{"any capture", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := board.DefaultRules()
			rules.MaximumCapture = tt.maximum
			b := newBoard(t, rules, pieces)
			require.Equal(t, tt.required, b.Required())
			p := NewProcessor(nil)

			res := p.Step(b, pos(7, 0), pos(4, 3))
			assert.Equal(t, CaptureRequired, res.Code)
			assert.Equal(t, 2, res.Required)
			assert.Equal(t, pos(7, 0), res.Snap)
			piece, ok := b.PieceAt(pos(7, 0))
			require.True(t, ok)
			assert.True(t, piece.IsKing())

			assert.Equal(t, CaptureMore, p.Step(b, pos(7, 0), pos(3, 4)).Code)
			assert.Equal(t, TurnCompleted, p.Step(b, pos(3, 4), pos(6, 7)).Code)
			assert.Equal(t, 0, b.Snapshot().Count(board.Joiner))
		})
	}
}

func TestRejectedMoveLeavesBoard(t *testing.T) {
	b := newBoard(t, board.DefaultRules(), map[board.Position]*board.Piece{
		pos(2, 3): man(board.Creator),
		pos(6, 1): man(board.Joiner),
	})
	before := b.Snapshot()

	res := NewProcessor(nil).Step(b, pos(2, 3), pos(4, 3))
	assert.Equal(t, WrongMove, res.Code)
	assert.ErrorIs(t, res.Reason, board.ErrNotDiagonal)
	assert.Equal(t, pos(2, 3), res.Snap)
	assert.Equal(t, "wrong move", res.String())
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("board changed (-want +got):\n%s", diff)
	}
	assert.True(t, b.IsPlayerInTurn())
}

func TestGestureLanding(t *testing.T) {
	b := newBoard(t, board.DefaultRules(), map[board.Position]*board.Piece{
		pos(2, 3): man(board.Creator),
		pos(6, 1): man(board.Joiner),
	})
	g := Geometry{StartX: 10, StartY: 20, Size: 50}
	corner := g.Corner(pos(3, 2))
	require.Equal(t, Point{X: 110, Y: 170}, corner)

	tests := []struct {
		name   string
		at     Point
		want   board.Position
		landed bool
	}{
		{"exact", corner, pos(3, 2), true},
		{"slightly off", Point{X: corner.X + 5, Y: corner.Y - 5}, pos(3, 2), true},
		{"between squares", Point{X: corner.X + 25, Y: corner.Y}, board.Position{}, false},
		{"outside the grid", Point{X: -500, Y: -500}, board.Position{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.Landing(b, tt.at)
			assert.Equal(t, tt.landed, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcessMove(t *testing.T) {
	b := newBoard(t, board.DefaultRules(), map[board.Position]*board.Piece{
		pos(2, 3): man(board.Creator),
		pos(6, 1): man(board.Joiner),
	})
	g := Geometry{Size: 40}
	p := NewProcessor(nil)

	res := p.ProcessMove(b, pos(2, 3), Point{X: 1000, Y: 1000}, g)
	assert.Equal(t, WrongMove, res.Code)
	assert.ErrorIs(t, res.Reason, ErrNoLanding)

	res = p.ProcessMove(b, pos(2, 3), g.Corner(pos(2, 3)), g)
	assert.ErrorIs(t, res.Reason, ErrSameSquare)

	res = p.ProcessMove(b, pos(2, 3), g.Corner(pos(3, 4)), g)
	assert.Equal(t, TurnCompleted, res.Code)
	assert.Equal(t, pos(3, 4), res.Snap)
}

func TestGameOverFeedback(t *testing.T) {
	assert.Equal(t, "You won!", GameOver(board.Creator, board.Creator).String())
	assert.Equal(t, "You lost!", GameOver(board.Creator, board.Joiner).String())
	assert.Equal(t, "Your opponent left the game", Feedback{Code: OpponentLeft}.String())
	assert.Equal(t, "Your turn", Feedback{Code: YourTurn}.String())
}

func TestPlayTurn(t *testing.T) {
	pieces := map[board.Position]*board.Piece{
		pos(2, 1): man(board.Creator),
		pos(0, 5): man(board.Creator),
		pos(3, 2): man(board.Joiner),
		pos(5, 4): man(board.Joiner),
	}
	c1, c2, wrong := pos(3, 2), pos(5, 4), pos(3, 4)
	chain := []board.Play{
		{From: pos(2, 1), To: pos(4, 3), Captured: &c1},
		{From: pos(4, 3), To: pos(6, 5), Captured: &c2},
	}

	tests := []struct {
		name  string
		plays []board.Play
		want  error
	}{
		{"full chain", chain, nil},
		{"no plays", nil, ErrEmptyTurn},
		{"half a chain", chain[:1], ErrUnfinishedChain},
		{"simple move while capture is due", []board.Play{{From: pos(0, 5), To: pos(1, 4)}}, board.ErrCaptureRequired},
		{"extra play", append(append([]board.Play(nil), chain...), board.Play{From: pos(6, 5), To: pos(7, 6)}), ErrPlaysAfterTurn},
		{"captured square differs", []board.Play{{From: pos(2, 1), To: pos(4, 3), Captured: &wrong}, chain[1]}, ErrCapturedMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoard(t, board.DefaultRules(), pieces)
			results, err := NewProcessor(nil).PlayTurn(b, tt.plays)
			if tt.want == nil {
				require.NoError(t, err)
				require.Len(t, results, 2)
				assert.Equal(t, CaptureMore, results[0].Code)
				assert.Equal(t, TurnCompleted, results[1].Code)
				assert.Equal(t, board.Joiner, b.Turn())
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPlayTurnShortCapture(t *testing.T) {
	b := newBoard(t, board.DefaultRules(), map[board.Position]*board.Piece{
		pos(2, 1): man(board.Creator),
		pos(0, 7): man(board.Creator),
		pos(3, 2): man(board.Joiner),
		pos(5, 4): man(board.Joiner),
		pos(1, 6): man(board.Joiner),
	})
	results, err := NewProcessor(nil).PlayTurn(b, []board.Play{{From: pos(0, 7), To: pos(2, 5)}})
	assert.ErrorIs(t, err, ErrShortCapture)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Required)
}
