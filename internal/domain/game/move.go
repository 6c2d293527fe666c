package game

import (
	"encoding/json"
	"fmt"
	"time"

	"checkers/internal/domain/board"
)

// PlayPayload carries the plays of one turn. Plays is itself a JSON array,
// the way the web client sends it.
type PlayPayload struct {
	Plays string `json:"plays"`
}

func NewPlayPayload(plays []board.Play) (PlayPayload, error) {
	raw, err := json.Marshal(plays)
	if err != nil {
		return PlayPayload{}, err
	}
	return PlayPayload{Plays: string(raw)}, nil
}

func (p PlayPayload) Decode() ([]board.Play, error) {
	var plays []board.Play
	if err := json.Unmarshal([]byte(p.Plays), &plays); err != nil {
		return nil, fmt.Errorf("decode plays: %w", err)
	}
	return plays, nil
}

type ChatMessage struct {
	Chat   string       `json:"chat"`
	From   string       `json:"from"`
	Player board.Player `json:"player"`
	SentAt time.Time    `json:"sent_at"`
}

// State is the snapshot together with who plays and how.
type State struct {
	board.Snapshot
	Creator string       `json:"creator"`
	Joiner  string       `json:"joiner"`
	Status  string       `json:"status"`
	Rules   board.Rules  `json:"rules"`
	Self    board.Player `json:"self"`
}

type OverPayload struct {
	WinnerID board.Player `json:"winnerId"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type InfoPayload struct {
	Info string `json:"info"`
}
