// Package handlers exposes the REST surface: auth and the room lobby.
// Realtime play goes over the websocket endpoint instead.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gbridge/server/internal/auth"
	"github.com/gbridge/server/internal/cache"
	"github.com/gbridge/server/internal/models"
	"github.com/gbridge/server/internal/room"
)

// API bundles the handler dependencies.
type API struct {
	JWTSecret  string
	CORSOrigin string
	Rooms      *room.Service
}

// Register mounts all REST routes on the mux and returns the wrapped
// handler with CORS applied.
func (a *API) Register(mux *http.ServeMux) http.Handler {
	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.HandleFunc("GET /api/rooms", a.handleListRooms)
	mux.HandleFunc("POST /api/rooms", a.requireAuth(a.handleCreateRoom))
	mux.HandleFunc("POST /api/rooms/{id}/join", a.requireAuth(a.handleJoinRoom))
	mux.HandleFunc("POST /api/rooms/{id}/ready", a.requireAuth(a.handleSetReady))
	mux.HandleFunc("GET /api/rooms/{id}", a.handleGetRoom)
	mux.HandleFunc("GET /api/games/{id}/moves", a.requireAuth(a.handleGameMoves))
	return a.corsMiddleware(mux)
}

func (a *API) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", a.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, user models.User)

// requireAuth verifies the bearer token and passes the user through.
func (a *API) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user, err := auth.VerifyToken(a.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next(w, r, user)
	}
}

// handleLogin issues a token for a display name. There are no stored
// accounts; identity lives for the lifetime of the token.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	user := models.User{ID: uuid.New(), Username: strings.TrimSpace(req.Username)}
	token, err := auth.IssueToken(a.JWTSecret, user)
	if err != nil {
		logrus.WithError(err).Error("issue token")
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (a *API) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Rooms.ListPublic())
}

func (a *API) handleCreateRoom(w http.ResponseWriter, r *http.Request, user models.User) {
	var req struct {
		Name      string `json:"name"`
		IsPrivate bool   `json:"isPrivate"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "room name is required")
		return
	}

	created, err := a.Rooms.Create(strings.TrimSpace(req.Name), req.IsPrivate, req.Password, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleJoinRoom(w http.ResponseWriter, r *http.Request, user models.User) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	// The body is optional; only password-protected rooms need one.
	var req struct {
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	joined, err := a.Rooms.Join(id, user, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, joined)
	case err == room.ErrRoomNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case err == room.ErrWrongPassword:
		writeError(w, http.StatusForbidden, err.Error())
	case err == room.ErrRoomFull, err == room.ErrAlreadyInRoom:
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (a *API) handleSetReady(w http.ResponseWriter, r *http.Request, user models.User) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req struct {
		Ready bool `json:"ready"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "ready flag is required")
		return
	}

	updated, err := a.Rooms.SetReady(id, user.ID, req.Ready)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, updated)
	case err == room.ErrRoomNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case err == room.ErrNotInRoom:
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (a *API) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	got, err := a.Rooms.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, got)
}

// handleGameMoves serves the Redis-backed move log for a game. Returns
// an empty list when Redis is not configured.
func (a *API) handleGameMoves(w http.ResponseWriter, r *http.Request, _ models.User) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	moves, err := cache.MoveHistory(r.Context(), id, 512)
	if err != nil {
		logrus.WithError(err).Error("fetch move history")
		writeError(w, http.StatusInternalServerError, "could not fetch move history")
		return
	}
	if moves == nil {
		moves = []cache.MoveRecord{}
	}
	writeJSON(w, http.StatusOK, moves)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
