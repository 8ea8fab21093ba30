// Package app assembles the matchmaking backend: storage, Discord auth,
// the matching queue API, and the background reaper.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/woneyH/game-pot/internal/auth"
	"github.com/woneyH/game-pot/internal/game"
	"github.com/woneyH/game-pot/internal/matchmaking"
	"github.com/woneyH/game-pot/internal/party"
	"github.com/woneyH/game-pot/internal/platform/timeouts"
	"github.com/woneyH/game-pot/internal/steam"
	"github.com/woneyH/game-pot/internal/storage"
	"github.com/woneyH/game-pot/internal/storage/sqlite"
)

// Config controls server startup and dependency wiring.
type Config struct {
	Addr          string
	DBPath        string
	FrontendURL   string
	SessionSecret string
	SessionTTL    time.Duration

	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordScopes       []string

	SteamBaseURL string
	BotPartyURL  string

	CleanupInterval time.Duration
	QueueRetention  time.Duration
}

const (
	defaultAddr   = ":8080"
	defaultDBPath = "data/gamepot.db"
)

// Server is the assembled HTTP server plus its background reaper.
type Server struct {
	addr       string
	httpServer *http.Server
	store      storage.Store
	reaper     *matchmaking.Reaper
}

// NewServer opens storage and wires the HTTP surface from config.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if strings.TrimSpace(cfg.BotPartyURL) == "" {
		return nil, fmt.Errorf("bot party URL is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	sessions := auth.NewSessions([]byte(cfg.SessionSecret), cfg.SessionTTL)
	authHandler := auth.NewHandler(auth.Config{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.DiscordRedirectURI,
		Scopes:       cfg.DiscordScopes,
		FrontendURL:  cfg.FrontendURL,
	}, store, sessions)

	resolver := game.NewResolver(store, steam.NewClient(cfg.SteamBaseURL, nil))
	relay := party.NewRelay(cfg.BotPartyURL, nil)
	service := matchmaking.NewService(store, resolver, relay)

	mux := http.NewServeMux()
	authHandler.Register(mux)
	matchmaking.NewHandler(service).Register(mux)
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := http.Handler(mux)
	if cfg.FrontendURL != "" {
		handler = cors.New(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler(handler)
	}
	handler = sessions.Middleware(handler)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		addr:       cfg.Addr,
		httpServer: httpServer,
		store:      store,
		reaper:     matchmaking.NewReaper(store, cfg.CleanupInterval, cfg.QueueRetention),
	}, nil
}

// ListenAndServe runs the HTTP server and the queue reaper until the
// context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go s.reaper.Run(reaperCtx)

	serveErr := make(chan error, 1)
	log.Printf("matchmaking backend listening on %s", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Handler exposes the assembled HTTP handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Close releases storage held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close sqlite store: %v", err)
	}
}
