package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus tracks a room's lifecycle.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// RoomMember is one user inside a room's lobby.
type RoomMember struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsReady  bool      `json:"isReady"`
}

// Room is a pre-game lobby. Membership order seeds the seat order when a
// game starts from the room.
type Room struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	MaxPlayers   int          `json:"maxPlayers"`
	Members      []RoomMember `json:"currentPlayers"`
	IsPrivate    bool         `json:"isPrivate"`
	PasswordHash []byte       `json:"-"`
	CreatedBy    uuid.UUID    `json:"createdBy"`
	CreatedAt    time.Time    `json:"createdAt"`
	Status       RoomStatus   `json:"status"`
	GameID       *uuid.UUID   `json:"gameId,omitempty"`
}
