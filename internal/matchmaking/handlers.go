package matchmaking

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/platform/requestctx"
)

// Handler exposes the matchmaking service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the matchmaking HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the matchmaking routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/match/start", h.handleStart)
	mux.HandleFunc("/api/match/stop", h.handleStop)
	mux.HandleFunc("/api/match/status/", h.handleStatus)
	mux.HandleFunc("/api/match/party", h.handleParty)
}

type startRequest struct {
	GameName string `json:"gameName"`
}

type startResponse struct {
	GameID   string `json:"gameId"`
	GameName string `json:"gameName"`
	Status   string `json:"status"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, errors.New(errors.CodeUnauthenticated, "login required"))
		return
	}
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.CodeInvalidRequest, "request body must name a game"))
		return
	}
	resolved, err := h.service.Start(r.Context(), userID, req.GameName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startResponse{
		GameID:   resolved.ID,
		GameName: resolved.Name,
		Status:   "matching started",
	})
}

type stopResponse struct {
	Status string `json:"status"`
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, errors.New(errors.CodeUnauthenticated, "login required"))
		return
	}
	if err := h.service.Stop(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stopResponse{Status: "matching stopped"})
}

// memberView is a queued member as shown to other members. Internal and
// Discord ids stay private.
type memberView struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, errors.New(errors.CodeUnauthenticated, "login required"))
		return
	}
	gameID := strings.TrimPrefix(r.URL.Path, "/api/match/status/")
	if gameID == "" || strings.Contains(gameID, "/") {
		writeError(w, errors.New(errors.CodeNotFound, "game not found"))
		return
	}
	_, members, err := h.service.Status(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]memberView, 0, len(members))
	for _, member := range members {
		views = append(views, memberView{
			Username:    member.Username,
			DisplayName: member.DisplayName,
			Email:       member.Email,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

type partyRequest struct {
	GameID string `json:"gameId"`
}

func (h *Handler) handleParty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, errors.New(errors.CodeUnauthenticated, "login required"))
		return
	}
	var req partyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		writeError(w, errors.New(errors.CodeInvalidRequest, "request body must name a game"))
		return
	}
	body, err := h.service.CreateParty(r.Context(), req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("write party response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError renders a domain error as a JSON body. Bot rejections carry
// the upstream status in their metadata and keep it on the way out.
func writeError(w http.ResponseWriter, err error) {
	status := errors.CodeOf(err).HTTPStatus()
	if domainErr := errors.FromError(err); domainErr != nil {
		if upstream, parseErr := strconv.Atoi(domainErr.Metadata["status"]); parseErr == nil {
			status = upstream
		}
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}
