package game

import (
	"github.com/google/uuid"

	"github.com/gbridge/server/engine"
)

// GameEventType names every message the server pushes to clients.
type GameEventType string

const (
	EventRoomJoined   GameEventType = "room_joined"
	EventUserJoined   GameEventType = "user_joined"
	EventUserLeft     GameEventType = "user_left"
	EventGameStarted  GameEventType = "game_started"
	EventGameState    GameEventType = "game_state"
	EventGameFinished GameEventType = "game_finished"
	EventError        GameEventType = "error"
)

// SeatInfo identifies who sits at a seat, for clients to map seat
// indices to people.
type SeatInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Connected bool      `json:"connected"`
}

// StateView is a redacted game snapshot addressed to one player. The
// embedded engine view flattens into the same JSON object.
type StateView struct {
	engine.View

	GameID   uuid.UUID                 `json:"gameId"`
	RoomID   uuid.UUID                 `json:"roomId"`
	Players  [engine.NumSeats]SeatInfo `json:"players"`
	LastMove string                    `json:"lastMove,omitempty"`
	WinnerID *uuid.UUID                `json:"winnerId,omitempty"`
}

// GameEvent is the envelope for every server-to-client push.
type GameEvent struct {
	Type    GameEventType `json:"type"`
	State   *StateView    `json:"state,omitempty"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
}
