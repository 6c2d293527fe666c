package game

import (
	"encoding/json"
	"fmt"
)

// Action codes of the socket envelope. 1 and 2 belong to account
// registration and login, which this server does not do.
const (
	ActionRegister     = 1
	ActionLogin        = 2
	ActionChat         = 3
	ActionPlay         = 4
	ActionJoin         = 5
	ActionLeave        = 6
	ActionRestart      = 7
	ActionCreate       = 8
	ActionError        = 9
	ActionConnect      = 10
	ActionOtherConnect = 11
	ActionInfo         = 12
	ActionClosed       = 13
	ActionState        = 14
	ActionOver         = 15
	ActionOtherClosed  = 16
)

// Message is the envelope of everything sent over the socket. Data holds a
// JSON document as a string.
type Message struct {
	Code int    `json:"code"`
	Data string `json:"data"`
}

func NewMessage(code int, payload any) (Message, error) {
	if payload == nil {
		return Message{Code: code}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode action %d: %w", code, err)
	}
	return Message{Code: code, Data: string(raw)}, nil
}

// Decode unmarshals the data of the message into v.
func (m Message) Decode(v any) error {
	if m.Data == "" {
		return fmt.Errorf("action %d carries no data", m.Code)
	}
	return json.Unmarshal([]byte(m.Data), v)
}
