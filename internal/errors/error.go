package errors

import "errors"

var (
	ErrSessionNotFound  = errors.New("session was not found")
	ErrCreateGameFailed = errors.New("create game failed")
	ErrJoinGameFailed   = errors.New("join game failed")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameFull         = errors.New("game already has two players")
	ErrGameNotStarted   = errors.New("game is waiting for an opponent")
	ErrGameOver         = errors.New("game is over")
	ErrNotInTurn        = errors.New("player is not in turn")
	ErrIllegalPlay      = errors.New("illegal play")
	ErrBadBoardSize     = errors.New("unsupported board size")
	ErrBadPlayerName    = errors.New("player name must not be empty")
	ErrBadChatMessage   = errors.New("chat message must be 1 to 255 characters")
	ErrUnknownAction    = errors.New("unknown action")
	ErrInternal         = errors.New("internal error")
)
