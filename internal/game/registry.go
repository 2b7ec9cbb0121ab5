package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gbridge/server/engine"
	"github.com/gbridge/server/internal/models"
)

var (
	ErrSessionNotFound = errors.New("game session not found")
	ErrNeedFourPlayers = errors.New("a game needs exactly four players")
	ErrDuplicatePlayer = errors.New("duplicate player in seating")
)

// Registry tracks every live session by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	byPlayer map[uuid.UUID]uuid.UUID
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		byPlayer: make(map[uuid.UUID]uuid.UUID),
	}
}

// CreateSession seats the given users in order, deals a game, and
// registers it. Seating must be exactly four distinct users.
func (r *Registry) CreateSession(roomID uuid.UUID, users []models.User, seed uint64) (*Session, error) {
	if len(users) != engine.NumSeats {
		return nil, ErrNeedFourPlayers
	}
	seen := make(map[uuid.UUID]struct{}, engine.NumSeats)
	var players [engine.NumSeats]*models.Player
	for i, u := range users {
		if _, dup := seen[u.ID]; dup {
			return nil, ErrDuplicatePlayer
		}
		seen[u.ID] = struct{}{}
		players[i] = &models.Player{ID: u.ID, Username: u.Username}
	}

	s := newSession(roomID, players, seed)

	r.mu.Lock()
	r.sessions[s.ID] = s
	for _, p := range players {
		r.byPlayer[p.ID] = s.ID
	}
	r.mu.Unlock()

	s.mu.Lock()
	s.persistInitialDeal()
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"game_id": s.ID, "room_id": roomID}).Info("game session created")
	return s, nil
}

// Get returns the session by id.
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// SessionForPlayer finds the session a player is seated in, if any.
func (r *Registry) SessionForPlayer(playerID uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPlayer[playerID]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[id]
	return s, ok
}

// SubmitAction routes an action to its session.
func (r *Registry) SubmitAction(gameID, playerID uuid.UUID, action models.Action) error {
	s, err := r.Get(gameID)
	if err != nil {
		return err
	}
	return s.HandleAction(playerID, action)
}

// Dispose drops a finished session from the registry.
func (r *Registry) Dispose(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	for _, p := range s.Players {
		delete(r.byPlayer, p.ID)
	}
	delete(r.sessions, id)
	logrus.WithField("game_id", id).Info("game session disposed")
}
