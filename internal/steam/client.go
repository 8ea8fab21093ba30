// Package steam queries the Steam storefront search API.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/platform/timeouts"
)

// DefaultBaseURL is the public Steam storefront endpoint. The search API
// below needs no API key.
const DefaultBaseURL = "https://store.steampowered.com"

// Result is the first storefront hit for a search term.
type Result struct {
	AppID int64
	Name  string
}

// Client calls the storefront search API with a bounded timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a storefront client. An empty baseURL selects the public
// Steam endpoint; httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.Outbound}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Search returns the first storefront item for the term. Locale and
// region are pinned to Korean so search text in either language resolves
// consistently.
//
// A missing or invalid first item is CodeGameNotFound; transport failures
// and non-2xx responses are CodeSteamUnavailable so callers can render the
// two cases differently.
func (c *Client) Search(ctx context.Context, term string) (Result, error) {
	query := url.Values{}
	query.Set("term", term)
	query.Set("l", "korean")
	query.Set("cc", "kr")
	searchURL := c.baseURL + "/api/storesearch/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return Result{}, errors.Wrap(errors.CodeSteamUnavailable, "build store search request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, errors.Wrap(errors.CodeSteamUnavailable, "store search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, errors.New(errors.CodeSteamUnavailable,
			fmt.Sprintf("store search returned status %d", resp.StatusCode))
	}

	var payload struct {
		Items []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, errors.Wrap(errors.CodeSteamUnavailable, "decode store search response", err)
	}

	if len(payload.Items) == 0 {
		return Result{}, errors.New(errors.CodeGameNotFound, "store search found no results")
	}
	first := payload.Items[0]
	if first.ID == 0 || first.Name == "" {
		return Result{}, errors.New(errors.CodeGameNotFound, "store search returned an invalid item")
	}

	return Result{AppID: first.ID, Name: first.Name}, nil
}
