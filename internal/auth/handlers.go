package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/platform/requestctx"
	"github.com/woneyH/game-pot/internal/storage"
)

// Discord OAuth2 endpoints.
const (
	discordAuthURL     = "https://discord.com/oauth2/authorize"
	discordTokenURL    = "https://discord.com/api/oauth2/token"
	discordUserinfoURL = "https://discord.com/api/users/@me"
)

// Config wires the Discord application credentials into the handler.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	FrontendURL  string

	// UserinfoURL overrides the Discord profile endpoint in tests.
	UserinfoURL string
	// Endpoint overrides the Discord OAuth endpoints in tests.
	Endpoint oauth2.Endpoint
}

// Handler serves the Discord login flow and session endpoints.
type Handler struct {
	oauth       *oauth2.Config
	users       storage.UserStore
	sessions    *Sessions
	flows       *pendingFlowStore
	frontendURL string
	userinfoURL string
}

// NewHandler builds the auth handler from Discord app credentials.
func NewHandler(cfg Config, users storage.UserStore, sessions *Sessions) *Handler {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = oauth2.Endpoint{AuthURL: discordAuthURL, TokenURL: discordTokenURL}
	}
	userinfoURL := cfg.UserinfoURL
	if userinfoURL == "" {
		userinfoURL = discordUserinfoURL
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"identify", "email"}
	}
	return &Handler{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		users:       users,
		sessions:    sessions,
		flows:       newPendingFlowStore(),
		frontendURL: cfg.FrontendURL,
		userinfoURL: userinfoURL,
	}
}

// Register mounts the auth routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/auth/discord/login", h.handleLogin)
	mux.HandleFunc("/auth/discord/callback", h.handleCallback)
	mux.HandleFunc("/api/auth/me", h.handleMe)
	mux.HandleFunc("/api/auth/logout", h.handleLogout)
}

// handleLogin starts the PKCE authorization flow with Discord.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	verifier := oauth2.GenerateVerifier()
	state := h.flows.create(verifier)
	url := h.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	http.Redirect(w, r, url, http.StatusFound)
}

// discordUser is the profile shape returned by the Discord users/@me API.
type discordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
}

// handleCallback finishes the authorization flow: it exchanges the code,
// fetches the Discord profile, upserts the account, and issues a session.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	flow := h.flows.consume(state)
	if flow == nil || code == "" {
		writeError(w, errors.New(errors.CodeOAuthStateInvalid, "login flow expired or state mismatch"))
		return
	}

	ctx := r.Context()
	token, err := h.oauth.Exchange(ctx, code, oauth2.VerifierOption(flow.codeVerifier))
	if err != nil {
		writeError(w, errors.Wrap(errors.CodeOAuthExchangeFailed, "exchange authorization code", err))
		return
	}

	profile, err := h.fetchProfile(ctx, token)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.UpsertUser(ctx, profile)
	if err != nil {
		log.Printf("upsert user discord_id=%s: %v", profile.DiscordID, err)
		writeError(w, err)
		return
	}

	session, err := h.sessions.Issue(user.ID)
	if err != nil {
		log.Printf("issue session user_id=%s: %v", user.ID, err)
		writeError(w, err)
		return
	}
	setSessionCookie(w, session, h.sessions.ttl)
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

// fetchProfile loads the Discord profile with the exchanged token.
func (h *Handler) fetchProfile(ctx context.Context, token *oauth2.Token) (storage.UserProfile, error) {
	res, err := h.oauth.Client(ctx, token).Get(h.userinfoURL)
	if err != nil {
		return storage.UserProfile{}, errors.Wrap(errors.CodeOAuthExchangeFailed, "fetch discord profile", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return storage.UserProfile{}, errors.New(errors.CodeOAuthExchangeFailed, "discord profile request failed")
	}
	var user discordUser
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return storage.UserProfile{}, errors.Wrap(errors.CodeOAuthExchangeFailed, "decode discord profile", err)
	}
	if user.ID == "" {
		return storage.UserProfile{}, errors.New(errors.CodeOAuthExchangeFailed, "discord profile missing id")
	}
	displayName := user.GlobalName
	if strings.TrimSpace(displayName) == "" {
		displayName = user.Username
	}
	return storage.UserProfile{
		DiscordID:   user.ID,
		Username:    user.Username,
		DisplayName: displayName,
		Email:       user.Email,
		Avatar:      user.Avatar,
	}, nil
}

// userView is the session owner's own profile. The id is the internal
// account id, never the Discord id; the avatar hash lets the frontend
// build the Discord CDN URL.
type userView struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
}

type meResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *userView `json:"user,omitempty"`
}

// handleMe reports whether the caller holds a session and, if so, the
// session owner's profile. Unauthenticated callers get a 200 with
// authenticated=false so the frontend can render a login prompt without
// treating the poll as an error.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusOK, meResponse{Authenticated: false})
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		Authenticated: true,
		User: &userView{
			ID:         user.ID,
			Username:   user.Username,
			GlobalName: user.DisplayName,
			Email:      user.Email,
			Avatar:     user.Avatar,
		},
	})
}

// handleLogout clears the session cookie. Tokens are stateless, so there
// is nothing to revoke server-side.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}
