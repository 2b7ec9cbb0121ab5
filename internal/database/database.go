// Package database persists game lifecycle snapshots to Postgres.
// All writes are best-effort: the server plays on when Postgres is absent.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. It stays nil when no DATABASE_URL is
// configured; callers must check before writing.
var DB *pgxpool.Pool

// Connect opens the pool and verifies the connection.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("postgres ping: %w", err)
	}

	DB = pool
	logrus.Info("connected to postgres")
	return nil
}

// Close releases the pool if one was opened.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// UpsertInitialDeal stores the dealt hands for a new game so it can be
// audited or replayed afterwards.
func UpsertInitialDeal(gameID, roomID uuid.UUID, snapshot interface{}) {
	if DB == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logrus.WithError(err).Error("marshal initial deal")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = DB.Exec(ctx, `
		INSERT INTO games (id, room_id, initial_deal, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET initial_deal = EXCLUDED.initial_deal`,
		gameID, roomID, data)
	if err != nil {
		logrus.WithError(err).WithField("game_id", gameID).Error("upsert initial deal")
	}
}

// RecordTransition appends one accepted move to the game's move table.
func RecordTransition(gameID, actorID uuid.UUID, moveIndex int, moveType string, payload interface{}) {
	if DB == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("marshal move payload")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = DB.Exec(ctx, `
		INSERT INTO game_moves (game_id, move_index, actor_id, move_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (game_id, move_index) DO NOTHING`,
		gameID, moveIndex, actorID, moveType, data)
	if err != nil {
		logrus.WithError(err).WithField("game_id", gameID).Error("record move")
	}
}

// StoreFinalResult writes the finished game's winner and scores.
func StoreFinalResult(gameID, winnerID uuid.UUID, scores map[uuid.UUID]int) {
	if DB == nil {
		return
	}
	data, err := json.Marshal(scores)
	if err != nil {
		logrus.WithError(err).Error("marshal final scores")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = DB.Exec(ctx, `
		UPDATE games
		SET winner_id = $2, final_scores = $3, finished_at = now()
		WHERE id = $1`,
		gameID, winnerID, data)
	if err != nil {
		logrus.WithError(err).WithField("game_id", gameID).Error("store final result")
	}
}
