// Package server parses matchmaking backend flags and launches the service.
package server

import (
	"context"
	"flag"
	"time"

	"github.com/woneyH/game-pot/internal/app"
	entrypoint "github.com/woneyH/game-pot/internal/platform/cmd"
)

// Config holds server command configuration.
type Config struct {
	Addr          string        `env:"GAMEPOT_HTTP_ADDR" envDefault:":8080"`
	DBPath        string        `env:"GAMEPOT_DB_PATH" envDefault:"data/gamepot.db"`
	FrontendURL   string        `env:"GAMEPOT_FRONTEND_URL" envDefault:"http://localhost:3000"`
	SessionSecret string        `env:"GAMEPOT_SESSION_SECRET"`
	SessionTTL    time.Duration `env:"GAMEPOT_SESSION_TTL" envDefault:"24h"`

	DiscordClientID     string   `env:"GAMEPOT_DISCORD_CLIENT_ID"`
	DiscordClientSecret string   `env:"GAMEPOT_DISCORD_CLIENT_SECRET"`
	DiscordRedirectURI  string   `env:"GAMEPOT_DISCORD_REDIRECT_URI"`
	DiscordScopes       []string `env:"GAMEPOT_DISCORD_SCOPES" envDefault:"identify,email"`

	SteamBaseURL string `env:"GAMEPOT_STEAM_BASE_URL"`
	BotPartyURL  string `env:"GAMEPOT_BOT_PARTY_URL"`

	CleanupInterval time.Duration `env:"GAMEPOT_CLEANUP_INTERVAL" envDefault:"1h"`
	QueueRetention  time.Duration `env:"GAMEPOT_QUEUE_RETENTION" envDefault:"2h"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The sqlite database path")
	fs.StringVar(&cfg.FrontendURL, "frontend-url", cfg.FrontendURL, "The frontend origin for CORS and login redirects")
	fs.DurationVar(&cfg.CleanupInterval, "cleanup-interval", cfg.CleanupInterval, "How often stale queue entries are swept")
	fs.DurationVar(&cfg.QueueRetention, "queue-retention", cfg.QueueRetention, "How long queue entries live before sweeping")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the matchmaking HTTP service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		server, err := app.NewServer(app.Config{
			Addr:                cfg.Addr,
			DBPath:              cfg.DBPath,
			FrontendURL:         cfg.FrontendURL,
			SessionSecret:       cfg.SessionSecret,
			SessionTTL:          cfg.SessionTTL,
			DiscordClientID:     cfg.DiscordClientID,
			DiscordClientSecret: cfg.DiscordClientSecret,
			DiscordRedirectURI:  cfg.DiscordRedirectURI,
			DiscordScopes:       cfg.DiscordScopes,
			SteamBaseURL:        cfg.SteamBaseURL,
			BotPartyURL:         cfg.BotPartyURL,
			CleanupInterval:     cfg.CleanupInterval,
			QueueRetention:      cfg.QueueRetention,
		})
		if err != nil {
			return err
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
	})
}
