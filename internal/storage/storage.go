// Package storage defines the persistence contracts for users, games, and
// the matching queue.
package storage

import (
	"context"
	"time"

	"github.com/woneyH/game-pot/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// User is a Discord-authenticated account.
//
// The Discord id is the upsert key: profile fields are overwritten on every
// login and the record is never deleted by this service.
type User struct {
	ID          string
	DiscordID   string
	Username    string
	DisplayName string
	Email       string
	Avatar      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserProfile holds the mutable profile fields captured at login.
type UserProfile struct {
	DiscordID   string
	Username    string
	DisplayName string
	Email       string
	Avatar      string
}

// Game is a resolved catalog entry, keyed by its Steam app id. Rows are
// created lazily on first successful resolution and immutable afterwards.
type Game struct {
	ID         string
	SteamAppID int64
	Name       string
	CreatedAt  time.Time
}

// QueueMember is a queue row joined with its user, projected for status
// reads and party creation.
type QueueMember struct {
	UserID      string
	DiscordID   string
	Username    string
	DisplayName string
	Email       string
	JoinedAt    time.Time
}

// UserStore persists user records.
type UserStore interface {
	// UpsertUser creates or updates the user keyed by Discord id and
	// returns the stored record.
	UpsertUser(ctx context.Context, profile UserProfile) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByDiscordID(ctx context.Context, discordID string) (User, error)
}

// GameStore persists resolved games.
type GameStore interface {
	// EnsureGame returns the game with the given Steam app id, creating it
	// with the provided name when absent.
	EnsureGame(ctx context.Context, steamAppID int64, name string) (Game, error)
	GetGame(ctx context.Context, gameID string) (Game, error)
}

// QueueStore persists matching queue entries. At most one entry exists per
// user; ReplaceQueueEntry enforces that in a single upsert.
type QueueStore interface {
	// ReplaceQueueEntry queues the user for the game, replacing any prior
	// entry for that user atomically.
	ReplaceQueueEntry(ctx context.Context, userID, gameID string, now time.Time) error
	// DeleteQueueEntry removes the user's entry; missing entries are a no-op.
	DeleteQueueEntry(ctx context.Context, userID string) error
	ListQueueMembers(ctx context.Context, gameID string) ([]QueueMember, error)
	// DeleteQueueEntriesBefore removes entries created strictly before the
	// cutoff and reports how many were deleted.
	DeleteQueueEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store bundles all persistence contracts backed by one database.
type Store interface {
	UserStore
	GameStore
	QueueStore
	Close() error
}
