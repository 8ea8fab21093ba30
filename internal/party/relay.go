// Package party forwards party creation requests to the Discord bot
// responsible for opening voice channels and invites.
package party

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/platform/timeouts"
)

// Relay delivers party requests to the bot endpoint and returns its
// response body verbatim so the caller can pass it through.
type Relay struct {
	endpoint   string
	httpClient *http.Client
}

// NewRelay builds a relay for the given bot endpoint. A nil client
// falls back to one with the standard outbound timeout.
func NewRelay(endpoint string, httpClient *http.Client) *Relay {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.Outbound}
	}
	return &Relay{endpoint: endpoint, httpClient: httpClient}
}

type createRequest struct {
	MemberIDs []string `json:"memberIds"`
}

// Create posts the Discord member ids to the bot and returns the raw
// response body on success. Bot rejections keep their upstream status
// in the error metadata so handlers can relay it unchanged.
func (r *Relay) Create(ctx context.Context, memberIDs []string) ([]byte, error) {
	payload, err := json.Marshal(createRequest{MemberIDs: memberIDs})
	if err != nil {
		return nil, fmt.Errorf("encode party request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build party request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.CodeBotUnavailable, "party bot unreachable", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeBotUnavailable, "read party bot response", err)
	}

	if res.StatusCode >= 400 {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = "party bot rejected request"
		}
		return nil, errors.WithMetadata(errors.CodeBotRejected, message, map[string]string{
			"status": strconv.Itoa(res.StatusCode),
		})
	}
	return body, nil
}
