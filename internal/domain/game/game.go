package game

import (
	"time"

	"checkers/internal/domain/board"
)

// Game is the record of a room. GameKey is secret, Code is the public join code.
type Game struct {
	GameKey    string       `json:"game_key" bson:"game_key"`
	Code       string       `json:"code" bson:"code"`
	Creator    string       `json:"creator" bson:"creator"`
	Joiner     string       `json:"joiner" bson:"joiner"`
	Status     string       `json:"status" bson:"status"`
	BoardSize  int          `json:"board_size" bson:"board_size"`
	Rules      board.Rules  `json:"rules" bson:"rules"`
	Winner     board.Player `json:"winner,omitempty" bson:"winner,omitempty"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	StartedAt  *time.Time   `json:"started_at,omitempty" bson:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// PlayerName returns the name the player joined the game with.
func (g Game) PlayerName(p board.Player) string {
	if p == board.Creator {
		return g.Creator
	}
	return g.Joiner
}

type CreateGameRequest struct {
	Name      string       `json:"name"`
	BoardSize int          `json:"boardSize,omitempty"`
	Rules     *board.Rules `json:"rules,omitempty"`
}

type CreateGameResponse struct {
	GameKey  string       `json:"game_key"`
	Code     string       `json:"code"`
	Token    string       `json:"token"`
	PlayerID board.Player `json:"player_id"`
}

type JoinGameRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type JoinGameResponse struct {
	GameKey  string       `json:"game_key"`
	Token    string       `json:"token"`
	PlayerID board.Player `json:"player_id"`
}

// GameInfo is what anybody holding the join code may see.
type GameInfo struct {
	Code      string      `json:"code"`
	Creator   string      `json:"creator"`
	Joiner    string      `json:"joiner,omitempty"`
	Status    string      `json:"status"`
	BoardSize int         `json:"board_size"`
	Rules     board.Rules `json:"rules"`
}

func (g Game) Info() GameInfo {
	return GameInfo{
		Code:      g.Code,
		Creator:   g.Creator,
		Joiner:    g.Joiner,
		Status:    g.Status,
		BoardSize: g.BoardSize,
		Rules:     g.Rules,
	}
}

// Session binds a player token to a seat in a game.
type Session struct {
	Token    string       `json:"token"`
	GameKey  string       `json:"game_key"`
	PlayerID board.Player `json:"player_id"`
	Name     string       `json:"name"`
}
