// Package ws is the realtime transport: one authenticated websocket per
// player, with lobby and game traffic multiplexed over a typed envelope.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gbridge/server/internal/auth"
	"github.com/gbridge/server/internal/game"
	"github.com/gbridge/server/internal/models"
	"github.com/gbridge/server/internal/room"
)

// ClientMessage is the inbound envelope from a connected player.
type ClientMessage struct {
	Type     string        `json:"type"`
	RoomID   uuid.UUID     `json:"roomId,omitempty"`
	GameID   uuid.UUID     `json:"gameId,omitempty"`
	Password string        `json:"password,omitempty"`
	Move     models.Action `json:"move,omitempty"`
}

// Inbound message types.
const (
	MsgJoinRoom  = "join-room"
	MsgLeaveRoom = "leave-room"
	MsgStartGame = "start-game"
	MsgMakeMove  = "make-move"
)

type client struct {
	user models.User
	conn *websocket.Conn
	send chan []byte
}

// Server accepts websocket connections and routes messages between the
// lobby, the session registry, and connected players.
type Server struct {
	jwtSecret string
	rooms     *room.Service
	registry  *game.Registry

	mu      sync.RWMutex
	clients map[uuid.UUID]*client
}

func NewServer(jwtSecret string, rooms *room.Service, registry *game.Registry) *Server {
	return &Server{
		jwtSecret: jwtSecret,
		rooms:     rooms,
		registry:  registry,
		clients:   make(map[uuid.UUID]*client),
	}
}

// SendToUser delivers one event to a player's connection, dropping it if
// the player is offline or their send buffer is full. The channel send
// happens under the read lock so it cannot race a disconnect closing the
// channel under the write lock.
func (s *Server) SendToUser(userID uuid.UUID, ev game.GameEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).Error("marshal game event")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[userID]
	if !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) sendToRoom(roomID uuid.UUID, ev game.GameEvent) {
	r, err := s.rooms.Get(roomID)
	if err != nil {
		return
	}
	for _, m := range r.Members {
		s.SendToUser(m.ID, ev)
	}
}

// ServeHTTP upgrades the connection, authenticates the token, and runs
// the read loop until the client goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	user, err := auth.VerifyToken(s.jwtSecret, token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logrus.WithError(err).Warn("websocket accept failed")
		return
	}

	c := &client{user: user, conn: conn, send: make(chan []byte, 64)}

	s.mu.Lock()
	if old, ok := s.clients[user.ID]; ok {
		// One connection per user; the newer one wins.
		old.conn.Close(websocket.StatusPolicyViolation, "superseded by new connection")
	}
	s.clients[user.ID] = c
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("client connected")

	if sess, ok := s.registry.SessionForPlayer(user.ID); ok {
		sess.HandleReconnect(user.ID)
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)
	s.disconnect(c)
}

func (s *Server) writeLoop(ctx context.Context, c *client) {
	ping := time.NewTicker(15 * time.Second)
	defer func() {
		ping.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "bye")
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) readLoop(ctx context.Context, c *client) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(c.user.ID, "bad_message", "message is not valid JSON")
			continue
		}
		s.dispatch(c, msg)
	}
}

func (s *Server) dispatch(c *client, msg ClientMessage) {
	switch msg.Type {
	case MsgJoinRoom:
		s.handleJoinRoom(c, msg.RoomID, msg.Password)
	case MsgLeaveRoom:
		s.handleLeaveRoom(c, msg.RoomID)
	case MsgStartGame:
		s.handleStartGame(c, msg.RoomID)
	case MsgMakeMove:
		s.handleMakeMove(c, msg.GameID, msg.Move)
	default:
		s.sendError(c.user.ID, "unknown_type", "unknown message type: "+msg.Type)
	}
}

func (s *Server) handleJoinRoom(c *client, roomID uuid.UUID, password string) {
	r, err := s.rooms.Join(roomID, c.user, password)
	if err != nil {
		s.sendError(c.user.ID, "join_failed", err.Error())
		return
	}
	s.SendToUser(c.user.ID, game.GameEvent{Type: game.EventRoomJoined})
	for _, m := range r.Members {
		if m.ID != c.user.ID {
			s.SendToUser(m.ID, game.GameEvent{Type: game.EventUserJoined, Message: c.user.Username})
		}
	}
}

func (s *Server) handleLeaveRoom(c *client, roomID uuid.UUID) {
	r, err := s.rooms.Leave(roomID, c.user.ID)
	if err != nil {
		s.sendError(c.user.ID, "leave_failed", err.Error())
		return
	}
	for _, m := range r.Members {
		s.SendToUser(m.ID, game.GameEvent{Type: game.EventUserLeft, Message: c.user.Username})
	}
}

func (s *Server) handleStartGame(c *client, roomID uuid.UUID) {
	users, err := s.rooms.Participants(roomID, c.user.ID)
	if err != nil {
		s.sendError(c.user.ID, "start_failed", err.Error())
		return
	}

	sess, err := s.registry.CreateSession(roomID, users, uint64(time.Now().UnixNano()))
	if err != nil {
		s.sendError(c.user.ID, "start_failed", err.Error())
		return
	}
	sess.BroadcastToPlayerFn = s.SendToUser
	sess.OnGameEnd = func(roomID, winnerID uuid.UUID, scores map[uuid.UUID]int) {
		s.rooms.FinishGame(roomID)
		s.registry.Dispose(sess.ID)
	}

	if err := s.rooms.AttachGame(roomID, sess.ID); err != nil {
		s.sendError(c.user.ID, "start_failed", err.Error())
		return
	}

	s.sendToRoom(roomID, game.GameEvent{Type: game.EventGameStarted})
	for _, u := range users {
		sess.SendView(u.ID)
	}
}

func (s *Server) handleMakeMove(c *client, gameID uuid.UUID, move models.Action) {
	// Rule violations are reported by the session to the submitter.
	if err := s.registry.SubmitAction(gameID, c.user.ID, move); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": c.user.ID,
			"game_id": gameID,
		}).WithError(err).Debug("move rejected")
	}
}

func (s *Server) sendError(userID uuid.UUID, code, message string) {
	s.SendToUser(userID, game.GameEvent{Type: game.EventError, Code: code, Message: message})
}

func (s *Server) disconnect(c *client) {
	s.mu.Lock()
	current := s.clients[c.user.ID] == c
	if current {
		delete(s.clients, c.user.ID)
	}
	close(c.send)
	s.mu.Unlock()

	// A superseded connection must not tear down the live one's state.
	if !current {
		return
	}

	if sess, ok := s.registry.SessionForPlayer(c.user.ID); ok {
		sess.HandleDisconnect(c.user.ID)
	}
	for _, roomID := range s.rooms.HandleDisconnect(c.user.ID) {
		s.sendToRoom(roomID, game.GameEvent{Type: game.EventUserLeft, Message: c.user.Username})
	}

	logrus.WithField("user_id", c.user.ID).Info("client disconnected")
}
