// Package game runs live game sessions: it wraps the pure engine with
// player identity, locking, broadcast callbacks, and persistence.
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gbridge/server/engine"
	"github.com/gbridge/server/internal/cache"
	"github.com/gbridge/server/internal/database"
	"github.com/gbridge/server/internal/models"
)

// Session binds four players to one engine game. The mutex guards the
// engine state and player records; broadcast callbacks run outside it.
type Session struct {
	ID     uuid.UUID
	RoomID uuid.UUID

	mu        sync.Mutex
	Players   [engine.NumSeats]*models.Player
	Engine    engine.Game
	CreatedAt time.Time
	LastMove  time.Time
	moveIndex int

	// BroadcastToPlayerFn delivers an event to a single player. Set by
	// the websocket layer before any action is handled.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)

	// OnGameEnd runs once when the game finishes.
	OnGameEnd func(roomID, winnerID uuid.UUID, scores map[uuid.UUID]int)
}

// newSession deals a fresh game for the given players, seated in order.
func newSession(roomID uuid.UUID, players [engine.NumSeats]*models.Player, seed uint64) *Session {
	s := &Session{
		ID:        uuid.New(),
		RoomID:    roomID,
		Players:   players,
		Engine:    engine.NewGame(seed),
		CreatedAt: time.Now(),
	}
	for i := range s.Players {
		s.Players[i].Seat = i
		s.Players[i].Connected = true
	}
	return s
}

// seatOf maps a player id to their seat index.
func (s *Session) seatOf(playerID uuid.UUID) (uint8, bool) {
	for i, p := range s.Players {
		if p.ID == playerID {
			return uint8(i), true
		}
	}
	return 0, false
}

// HandleAction applies one player action to the engine. Rule violations
// go back to the submitter only; accepted moves fan out fresh views to
// every seat and are logged asynchronously.
func (s *Session) HandleAction(playerID uuid.UUID, action models.Action) error {
	s.mu.Lock()

	seat, ok := s.seatOf(playerID)
	if !ok {
		s.mu.Unlock()
		return errors.New("player not in session")
	}

	err := s.applyAction(seat, action)
	if err != nil {
		s.mu.Unlock()
		s.sendError(playerID, err)
		return err
	}

	s.LastMove = time.Now()
	s.moveIndex++
	s.logMove(playerID, action)

	views := s.buildViews(action.Type)
	finished := s.Engine.IsTerminal()
	var winnerID uuid.UUID
	var scores map[uuid.UUID]int
	if finished {
		winnerID, scores = s.finalizeLocked(&views)
	}

	// Fan out while still holding the lock so clients observe committed
	// transitions in commit order. Delivery only enqueues, never blocks.
	eventType := EventGameState
	if finished {
		eventType = EventGameFinished
	}
	for i, p := range s.Players {
		s.broadcast(p.ID, GameEvent{Type: eventType, State: &views[i]})
	}
	s.mu.Unlock()

	if finished && s.OnGameEnd != nil {
		s.OnGameEnd(s.RoomID, winnerID, scores)
	}
	return nil
}

// applyAction translates the wire action into an engine call.
// Assumes lock is held by caller.
func (s *Session) applyAction(seat uint8, action models.Action) error {
	switch action.Type {
	case models.ActionPass:
		return s.Engine.Pass(seat)
	case models.ActionDeclare:
		trump, err := engine.ParseSuit(action.Trump)
		if err != nil {
			return err
		}
		return s.Engine.Declare(seat, trump, uint8(action.Level))
	case models.ActionPlayCard:
		card, err := engine.ParseCard(action.Suit, action.Rank)
		if err != nil {
			return err
		}
		return s.Engine.PlayCard(seat, card)
	default:
		return engine.ErrInvalidCard
	}
}

// buildViews projects one redacted view per seat.
// Assumes lock is held by caller.
func (s *Session) buildViews(lastMove string) [engine.NumSeats]StateView {
	var seats [engine.NumSeats]SeatInfo
	for i, p := range s.Players {
		seats[i] = SeatInfo{ID: p.ID, Username: p.Username, Connected: p.Connected}
	}

	var views [engine.NumSeats]StateView
	for i := range views {
		views[i] = StateView{
			View:     s.Engine.Project(uint8(i)),
			GameID:   s.ID,
			RoomID:   s.RoomID,
			Players:  seats,
			LastMove: lastMove,
		}
	}
	return views
}

// finalizeLocked resolves the winner identity, stamps it on every view,
// and persists the final result. Assumes lock is held by caller.
func (s *Session) finalizeLocked(views *[engine.NumSeats]StateView) (uuid.UUID, map[uuid.UUID]int) {
	winnerSeat, _ := s.Engine.Winner()
	winnerID := s.Players[winnerSeat].ID

	scores := make(map[uuid.UUID]int, engine.NumSeats)
	for i, sc := range s.Engine.Scores() {
		scores[s.Players[i].ID] = int(sc)
	}
	for i := range views {
		id := winnerID
		views[i].WinnerID = &id
	}

	logrus.WithFields(logrus.Fields{
		"game_id": s.ID,
		"winner":  winnerID,
	}).Info("game finished")

	go database.StoreFinalResult(s.ID, winnerID, scores)
	return winnerID, scores
}

// SendView pushes the current redacted state to one player, for initial
// delivery and reconnect catch-up.
func (s *Session) SendView(playerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.seatOf(playerID)
	if !ok {
		return
	}
	views := s.buildViews("")
	s.broadcast(playerID, GameEvent{Type: EventGameState, State: &views[seat]})
}

// HandleDisconnect marks the seat as away. Turns are not skipped; the
// game waits for the player to return.
func (s *Session) HandleDisconnect(playerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seat, ok := s.seatOf(playerID); ok {
		s.Players[seat].Connected = false
		logrus.WithFields(logrus.Fields{"game_id": s.ID, "player_id": playerID}).Info("player disconnected")
	}
}

// HandleReconnect marks the seat occupied again and resends state.
func (s *Session) HandleReconnect(playerID uuid.UUID) {
	s.mu.Lock()
	seat, ok := s.seatOf(playerID)
	if ok {
		s.Players[seat].Connected = true
	}
	s.mu.Unlock()
	if ok {
		s.SendView(playerID)
	}
}

// persistInitialDeal snapshots the dealt hands for audit.
// Assumes lock is held by caller.
func (s *Session) persistInitialDeal() {
	type seatDeal struct {
		PlayerID string   `json:"playerId"`
		Hand     []string `json:"hand"`
	}

	deals := make([]seatDeal, engine.NumSeats)
	for i, p := range s.Players {
		st := s.Engine.Seats[i]
		hand := make([]string, 0, st.HandLen)
		for j := uint8(0); j < st.HandLen; j++ {
			hand = append(hand, st.Hand[j].String())
		}
		deals[i] = seatDeal{PlayerID: p.ID.String(), Hand: hand}
	}

	go database.UpsertInitialDeal(s.ID, s.RoomID, deals)
}

// logMove queues the accepted move onto the Redis move log and the
// Postgres move table. Assumes lock is held by caller.
func (s *Session) logMove(actorID uuid.UUID, action models.Action) {
	payload := map[string]interface{}{}
	switch action.Type {
	case models.ActionDeclare:
		payload["trump"] = action.Trump
		payload["level"] = action.Level
	case models.ActionPlayCard:
		payload["suit"] = action.Suit
		payload["rank"] = action.Rank
	}

	rec := cache.MoveRecord{
		GameID:    s.ID,
		MoveIndex: s.moveIndex,
		ActorID:   actorID,
		Type:      action.Type,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishMove(ctx, rec); err != nil {
			logrus.WithError(err).WithField("game_id", rec.GameID).Error("publish move to redis")
		}
	}()
	go database.RecordTransition(rec.GameID, actorID, rec.MoveIndex, rec.Type, payload)
}

// sendError reports a rejected action to the submitter only.
func (s *Session) sendError(playerID uuid.UUID, err error) {
	code := "invalid_action"
	var rule engine.RuleError
	if errors.As(err, &rule) {
		code = string(rule)
	}
	s.broadcast(playerID, GameEvent{Type: EventError, Code: code, Message: err.Error()})
}

func (s *Session) broadcast(playerID uuid.UUID, ev GameEvent) {
	if s.BroadcastToPlayerFn != nil {
		s.BroadcastToPlayerFn(playerID, ev)
	}
}
