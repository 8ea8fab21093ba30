package steam

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woneyH/game-pot/internal/platform/errors"
)

func TestSearchReturnsFirstItem(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"term": r.URL.Query().Get("term"),
			"l":    r.URL.Query().Get("l"),
			"cc":   r.URL.Query().Get("cc"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":578080,"name":"PUBG: BATTLEGROUNDS"},{"id":570,"name":"Dota 2"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	result, err := client.Search(context.Background(), "PUBG: BATTLEGROUNDS")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.AppID != 578080 || result.Name != "PUBG: BATTLEGROUNDS" {
		t.Fatalf("expected first item, got %+v", result)
	}
	if gotQuery["term"] != "PUBG: BATTLEGROUNDS" || gotQuery["l"] != "korean" || gotQuery["cc"] != "kr" {
		t.Fatalf("unexpected query parameters: %+v", gotQuery)
	}
}

func TestSearchEmptyResultsIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.Search(context.Background(), "no such game")
	if errors.CodeOf(err) != errors.CodeGameNotFound {
		t.Fatalf("expected CodeGameNotFound, got %v", err)
	}
}

func TestSearchInvalidFirstItemIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":0,"name":""}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.Search(context.Background(), "broken")
	if errors.CodeOf(err) != errors.CodeGameNotFound {
		t.Fatalf("expected CodeGameNotFound, got %v", err)
	}
}

func TestSearchServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.Search(context.Background(), "anything")
	if errors.CodeOf(err) != errors.CodeSteamUnavailable {
		t.Fatalf("expected CodeSteamUnavailable, got %v", err)
	}
}

func TestSearchTransportErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down before the call to force a dial failure

	client := NewClient(server.URL, nil)
	_, err := client.Search(context.Background(), "anything")
	if errors.CodeOf(err) != errors.CodeSteamUnavailable {
		t.Fatalf("expected CodeSteamUnavailable, got %v", err)
	}
	var domainErr *errors.Error
	if !stderrors.As(err, &domainErr) || domainErr.Cause == nil {
		t.Fatal("expected wrapped transport cause")
	}
}
