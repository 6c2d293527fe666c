package board

import (
	"encoding/json"
	"fmt"
)

// Wire values of the piece type.
const (
	TypeNormal = 1
	TypeKing   = 2
)

// Kind is either Normal or King. The set is closed: rule code switches on
// the concrete type and treats anything else as a programming error.
type Kind interface {
	wireType() int
}

type Normal struct{}

type King struct{}

func (Normal) wireType() int { return TypeNormal }

func (King) wireType() int { return TypeKing }

func kindFromType(t int) (Kind, error) {
	switch t {
	case TypeNormal:
		return Normal{}, nil
	case TypeKing:
		return King{}, nil
	}
	return nil, fmt.Errorf("unknown piece type %d", t)
}

type Piece struct {
	Owner Player
	Kind  Kind
}

func NewPiece(owner Player, kind Kind) *Piece {
	return &Piece{Owner: owner, Kind: kind}
}

func (p Piece) IsKing() bool {
	_, ok := p.Kind.(King)
	return ok
}

type pieceJSON struct {
	Owner Player `json:"owner"`
	Type  int    `json:"type"`
}

func (p Piece) MarshalJSON() ([]byte, error) {
	if p.Kind == nil {
		return nil, fmt.Errorf("piece of player %d has no kind", p.Owner)
	}
	return json.Marshal(pieceJSON{Owner: p.Owner, Type: p.Kind.wireType()})
}

func (p *Piece) UnmarshalJSON(data []byte) error {
	var raw pieceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Owner.Valid() {
		return fmt.Errorf("unknown piece owner %d", raw.Owner)
	}
	kind, err := kindFromType(raw.Type)
	if err != nil {
		return err
	}
	p.Owner = raw.Owner
	p.Kind = kind
	return nil
}

// lastRow is the far row for the owner, where normal pieces get crowned.
func lastRow(owner Player, size int) int {
	if owner == Creator {
		return size - 1
	}
	return 0
}

// promoted returns the piece as it is after landing on the square: a normal
// piece on its far row becomes a king.
func promoted(at Position, piece Piece, size int) (Piece, bool) {
	if _, ok := piece.Kind.(Normal); !ok || at.Row != lastRow(piece.Owner, size) {
		return piece, false
	}
	return Piece{Owner: piece.Owner, Kind: King{}}, true
}
