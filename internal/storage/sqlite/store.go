// Package sqlite implements the matchmaking persistence contracts over a
// single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/woneyH/game-pot/internal/platform/id"
	"github.com/woneyH/game-pot/internal/platform/storage/sqlitemigrate"
	"github.com/woneyH/game-pot/internal/storage"
	"github.com/woneyH/game-pot/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements storage.Store over SQLite.
//
// One file backs users, games, and queue entries so queue replacement and
// status reads share the same transaction and visibility boundaries.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens the SQLite store and applies bundled migrations.
//
// This keeps startup and schema evolution in one place, instead of
// requiring callers to coordinate migrations independently.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// UpsertUser creates or refreshes the user record keyed by Discord id.
func (s *Store) UpsertUser(ctx context.Context, profile storage.UserProfile) (storage.User, error) {
	if strings.TrimSpace(profile.DiscordID) == "" {
		return storage.User{}, fmt.Errorf("discord id is required")
	}

	userID, err := id.NewID()
	if err != nil {
		return storage.User{}, fmt.Errorf("generate user id: %w", err)
	}
	now := toMillis(time.Now())

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (id, discord_id, username, display_name, email, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(discord_id) DO UPDATE SET
			username = excluded.username,
			display_name = excluded.display_name,
			email = excluded.email,
			avatar = excluded.avatar,
			updated_at = excluded.updated_at`,
		userID, profile.DiscordID, profile.Username, profile.DisplayName,
		profile.Email, profile.Avatar, now, now,
	)
	if err != nil {
		return storage.User{}, fmt.Errorf("upsert user: %w", err)
	}

	return s.GetUserByDiscordID(ctx, profile.DiscordID)
}

// GetUser returns the user with the given internal id.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	return s.getUser(ctx, "id = ?", userID)
}

// GetUserByDiscordID returns the user with the given Discord id.
func (s *Store) GetUserByDiscordID(ctx context.Context, discordID string) (storage.User, error) {
	return s.getUser(ctx, "discord_id = ?", discordID)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (storage.User, error) {
	var (
		user      storage.User
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, discord_id, username, display_name, email, avatar, created_at, updated_at
		FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.DiscordID, &user.Username, &user.DisplayName,
		&user.Email, &user.Avatar, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("query user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

// EnsureGame returns the game for the Steam app id, creating it when absent.
// Existing rows keep their original name: games are immutable once created.
func (s *Store) EnsureGame(ctx context.Context, steamAppID int64, name string) (storage.Game, error) {
	if steamAppID == 0 {
		return storage.Game{}, fmt.Errorf("steam app id is required")
	}

	gameID, err := id.NewID()
	if err != nil {
		return storage.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (id, steam_app_id, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(steam_app_id) DO NOTHING`,
		gameID, steamAppID, name, toMillis(time.Now()),
	)
	if err != nil {
		return storage.Game{}, fmt.Errorf("insert game: %w", err)
	}

	return s.getGame(ctx, "steam_app_id = ?", steamAppID)
}

// GetGame returns the game with the given internal id.
func (s *Store) GetGame(ctx context.Context, gameID string) (storage.Game, error) {
	return s.getGame(ctx, "id = ?", gameID)
}

func (s *Store) getGame(ctx context.Context, where string, arg any) (storage.Game, error) {
	var (
		game      storage.Game
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, steam_app_id, name, created_at FROM games WHERE `+where, arg,
	).Scan(&game.ID, &game.SteamAppID, &game.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Game{}, storage.ErrNotFound
		}
		return storage.Game{}, fmt.Errorf("query game: %w", err)
	}
	game.CreatedAt = fromMillis(createdAt)
	return game, nil
}

// ReplaceQueueEntry queues the user for a game in a single upsert keyed on
// user id. The UNIQUE(user_id) constraint plus the upsert removes the
// transient unqueued window a delete-then-insert sequence would expose to
// concurrent status reads.
func (s *Store) ReplaceQueueEntry(ctx context.Context, userID, gameID string, now time.Time) error {
	entryID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate queue entry id: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO queue_entries (id, user_id, game_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			game_id = excluded.game_id,
			created_at = excluded.created_at`,
		entryID, userID, gameID, toMillis(now),
	)
	if err != nil {
		return fmt.Errorf("replace queue entry: %w", err)
	}
	return nil
}

// DeleteQueueEntry removes the user's queue entry. Missing rows are fine:
// stop-matching is idempotent.
func (s *Store) DeleteQueueEntry(ctx context.Context, userID string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		"DELETE FROM queue_entries WHERE user_id = ?", userID,
	)
	if err != nil {
		return fmt.Errorf("delete queue entry: %w", err)
	}
	return nil
}

// ListQueueMembers returns queued users for a game, oldest first.
func (s *Store) ListQueueMembers(ctx context.Context, gameID string) ([]storage.QueueMember, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT q.user_id, u.discord_id, u.username, u.display_name, u.email, q.created_at
		FROM queue_entries q
		JOIN users u ON u.id = q.user_id
		WHERE q.game_id = ?
		ORDER BY q.created_at ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query queue members: %w", err)
	}
	defer rows.Close()

	var members []storage.QueueMember
	for rows.Next() {
		var (
			member   storage.QueueMember
			joinedAt int64
		)
		if err := rows.Scan(&member.UserID, &member.DiscordID, &member.Username,
			&member.DisplayName, &member.Email, &joinedAt); err != nil {
			return nil, fmt.Errorf("scan queue member: %w", err)
		}
		member.JoinedAt = fromMillis(joinedAt)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue members: %w", err)
	}
	return members, nil
}

// DeleteQueueEntriesBefore removes entries created strictly before the
// cutoff. An entry created exactly at the cutoff survives.
func (s *Store) DeleteQueueEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.sqlDB.ExecContext(ctx,
		"DELETE FROM queue_entries WHERE created_at < ?", toMillis(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("delete stale queue entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted queue entries: %w", err)
	}
	return deleted, nil
}
