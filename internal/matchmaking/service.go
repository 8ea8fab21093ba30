// Package matchmaking implements the matching queue: joining, leaving,
// status polling, and party creation for queued members.
package matchmaking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/woneyH/game-pot/internal/game"
	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/storage"
)

// PartyRelay forwards party requests to the Discord bot.
type PartyRelay interface {
	Create(ctx context.Context, memberIDs []string) ([]byte, error)
}

// Service coordinates queue state with game resolution and the party bot.
type Service struct {
	store    storage.Store
	resolver *game.Resolver
	relay    PartyRelay
	now      func() time.Time
	tracer   trace.Tracer
}

// NewService builds the matchmaking service.
func NewService(store storage.Store, resolver *game.Resolver, relay PartyRelay) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		relay:    relay,
		now:      time.Now,
		tracer:   otel.Tracer("matchmaking"),
	}
}

// Start resolves the requested game and queues the user for it. A user
// holds at most one queue entry; starting again moves the entry to the
// new game.
func (s *Service) Start(ctx context.Context, userID, gameName string) (storage.Game, error) {
	ctx, span := s.tracer.Start(ctx, "matchmaking.Start")
	defer span.End()

	resolved, err := s.resolver.Resolve(ctx, gameName)
	if err != nil {
		return storage.Game{}, err
	}
	span.SetAttributes(
		attribute.String("game.id", resolved.ID),
		attribute.Int64("game.steam_app_id", resolved.SteamAppID),
	)
	if err := s.store.ReplaceQueueEntry(ctx, userID, resolved.ID, s.now().UTC()); err != nil {
		return storage.Game{}, err
	}
	return resolved, nil
}

// Stop removes the user's queue entry. Stopping without an entry is a
// no-op so clients can retry freely.
func (s *Service) Stop(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "matchmaking.Stop")
	defer span.End()
	return s.store.DeleteQueueEntry(ctx, userID)
}

// Status returns the members queued for a game, oldest first.
func (s *Service) Status(ctx context.Context, gameID string) (storage.Game, []storage.QueueMember, error) {
	ctx, span := s.tracer.Start(ctx, "matchmaking.Status")
	defer span.End()

	resolved, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return storage.Game{}, nil, err
	}
	members, err := s.store.ListQueueMembers(ctx, gameID)
	if err != nil {
		return storage.Game{}, nil, err
	}
	return resolved, members, nil
}

// CreateParty forwards the queued members of a game to the Discord bot
// and returns the bot's response verbatim. An empty queue is rejected
// before any bot call.
func (s *Service) CreateParty(ctx context.Context, gameID string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "matchmaking.CreateParty")
	defer span.End()

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	members, err := s.store.ListQueueMembers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, errors.New(errors.CodeQueueEmpty, "no members queued for game")
	}
	memberIDs := make([]string, 0, len(members))
	for _, member := range members {
		memberIDs = append(memberIDs, member.DiscordID)
	}
	span.SetAttributes(attribute.Int("party.size", len(memberIDs)))
	return s.relay.Create(ctx, memberIDs)
}
