package models

import "github.com/google/uuid"

// Player is one occupied seat in a game session.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Seat      int       `json:"seat"`
	Connected bool      `json:"connected"`
}

// Action is a single inbound game action from one player. Type is one of
// the ActionXxx constants; the remaining fields are populated per kind.
type Action struct {
	Type  string `json:"type"`
	Trump string `json:"trump,omitempty"` // declare-contract
	Level int    `json:"level,omitempty"` // declare-contract
	Suit  string `json:"suit,omitempty"`  // play-card
	Rank  string `json:"rank,omitempty"`  // play-card
}

// Action kinds accepted by the engine dispatch.
const (
	ActionPass     = "pass"
	ActionDeclare  = "declare-contract"
	ActionPlayCard = "play-card"
)
