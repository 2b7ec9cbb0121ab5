// Package room keeps the in-memory lobby bookkeeping: who is waiting where
// before a game session is created from a full room.
package room

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/gbridge/server/internal/models"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("already in room")
	ErrNotInRoom     = errors.New("not a member of this room")
	ErrRoomNotReady  = errors.New("room does not have four players")
	ErrWrongPassword = errors.New("wrong room password")
)

// Service owns the room map. All methods are safe for concurrent use.
type Service struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*models.Room
}

// NewService returns an empty room registry.
func NewService() *Service {
	return &Service{rooms: make(map[uuid.UUID]*models.Room)}
}

// ListPublic returns every listable room: public and not yet finished.
func (s *Service) ListPublic() []*models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if !r.IsPrivate && r.Status != models.RoomFinished {
			out = append(out, copyRoom(r))
		}
	}
	return out
}

// Create opens a new room with the creator as its first member. A
// non-empty password protects the room; it is stored bcrypt-hashed.
func (s *Service) Create(name string, isPrivate bool, password string, creator models.User) (*models.Room, error) {
	var hash []byte
	if password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash room password: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := &models.Room{
		ID:         uuid.New(),
		Name:       name,
		MaxPlayers: 4,
		Members: []models.RoomMember{
			{ID: creator.ID, Username: creator.Username},
		},
		IsPrivate:    isPrivate,
		PasswordHash: hash,
		CreatedBy:    creator.ID,
		CreatedAt:    time.Now(),
		Status:       models.RoomWaiting,
	}
	s.rooms[r.ID] = r
	logrus.WithFields(logrus.Fields{"room_id": r.ID, "name": name}).Info("room created")
	return copyRoom(r), nil
}

// Join adds a user to a waiting room, checking the password when the
// room has one.
func (s *Service) Join(roomID uuid.UUID, user models.User, password string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if len(r.PasswordHash) > 0 {
		if bcrypt.CompareHashAndPassword(r.PasswordHash, []byte(password)) != nil {
			return nil, ErrWrongPassword
		}
	}
	if len(r.Members) >= r.MaxPlayers {
		return nil, ErrRoomFull
	}
	for _, m := range r.Members {
		if m.ID == user.ID {
			return nil, ErrAlreadyInRoom
		}
	}
	r.Members = append(r.Members, models.RoomMember{ID: user.ID, Username: user.Username})
	return copyRoom(r), nil
}

// SetReady flips a member's ready flag in the lobby.
func (s *Service) SetReady(roomID, userID uuid.UUID, ready bool) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	for i := range r.Members {
		if r.Members[i].ID == userID {
			r.Members[i].IsReady = ready
			return copyRoom(r), nil
		}
	}
	return nil, ErrNotInRoom
}

// Leave removes a user from a room; an emptied room is deleted.
func (s *Service) Leave(roomID, userID uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaveLocked(roomID, userID)
}

func (s *Service) leaveLocked(roomID, userID uuid.UUID) (*models.Room, error) {
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	kept := r.Members[:0]
	for _, m := range r.Members {
		if m.ID != userID {
			kept = append(kept, m)
		}
	}
	r.Members = kept
	if len(r.Members) == 0 {
		delete(s.rooms, roomID)
		logrus.WithField("room_id", roomID).Info("room deleted (empty)")
	}
	return copyRoom(r), nil
}

// Get returns a room by id.
func (s *Service) Get(roomID uuid.UUID) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return copyRoom(r), nil
}

// Participants returns the room's members in join order, exactly four of
// them, for seeding a game session. The caller must be a member.
func (s *Service) Participants(roomID, requester uuid.UUID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	isMember := false
	for _, m := range r.Members {
		if m.ID == requester {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, ErrNotInRoom
	}
	if len(r.Members) != r.MaxPlayers {
		return nil, ErrRoomNotReady
	}
	users := make([]models.User, len(r.Members))
	for i, m := range r.Members {
		users[i] = models.User{ID: m.ID, Username: m.Username}
	}
	return users, nil
}

// AttachGame marks the room as playing the given game.
func (s *Service) AttachGame(roomID, gameID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	id := gameID
	r.GameID = &id
	r.Status = models.RoomPlaying
	return nil
}

// FinishGame marks the room's game as over.
func (s *Service) FinishGame(roomID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		r.Status = models.RoomFinished
	}
}

// HandleDisconnect removes the user from every room they occupy and
// returns the ids of the rooms that changed.
func (s *Service) HandleDisconnect(userID uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	var touched []uuid.UUID
	for id, r := range s.rooms {
		for _, m := range r.Members {
			if m.ID == userID {
				touched = append(touched, id)
				s.leaveLocked(id, userID)
				break
			}
		}
	}
	return touched
}

// copyRoom returns a defensive copy so callers never alias the owned state.
func copyRoom(r *models.Room) *models.Room {
	cp := *r
	cp.Members = append([]models.RoomMember(nil), r.Members...)
	if r.GameID != nil {
		id := *r.GameID
		cp.GameID = &id
	}
	return &cp
}
