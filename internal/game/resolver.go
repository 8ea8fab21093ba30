// Package game resolves free-text game names to catalog entries.
//
// Resolution order: the non-catalog table, the alias table, then the Steam
// storefront search. Both tables are immutable package-level maps built at
// init; no locking is needed.
package game

import (
	"context"
	"strings"

	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/steam"
	"github.com/woneyH/game-pot/internal/storage"
)

// Searcher is the storefront lookup the resolver falls back to.
type Searcher interface {
	Search(ctx context.Context, term string) (steam.Result, error)
}

// Resolver turns user input into a stored Game, creating catalog rows
// lazily on first resolution.
type Resolver struct {
	games    storage.GameStore
	searcher Searcher
}

// NewResolver builds a resolver over the game store and a storefront
// searcher.
func NewResolver(games storage.GameStore, searcher Searcher) *Resolver {
	return &Resolver{games: games, searcher: searcher}
}

// Resolve maps free-text input to a Game. First match wins:
//
//  1. exact non-catalog hit → synthetic fixed app id, no storefront call;
//  2. exact alias hit → substitute the canonical search term;
//  3. storefront search → first item.
//
// Unresolvable input is CodeGameNotFound; storefront transport failures
// surface as CodeSteamUnavailable so the caller can tell the user the
// catalog is down rather than the game missing.
func (r *Resolver) Resolve(ctx context.Context, input string) (storage.Game, error) {
	normalized := normalize(input)
	if normalized == "" {
		return storage.Game{}, errors.New(errors.CodeGameNameEmpty, "game name is required")
	}

	if entry, ok := nonCatalogGames[normalized]; ok {
		return r.games.EnsureGame(ctx, entry.AppID, entry.Name)
	}

	// Trim but keep the caller's casing for the storefront query.
	term := strings.TrimSpace(input)
	if alias, ok := searchAliases[normalized]; ok {
		term = alias
	}

	result, err := r.searcher.Search(ctx, term)
	if err != nil {
		return storage.Game{}, err
	}

	return r.games.EnsureGame(ctx, result.AppID, result.Name)
}
