package matchmaking

import (
	"context"
	"testing"
	"time"

	"github.com/woneyH/game-pot/internal/game"
	"github.com/woneyH/game-pot/internal/platform/errors"
	"github.com/woneyH/game-pot/internal/steam"
	"github.com/woneyH/game-pot/internal/storage"
	"github.com/woneyH/game-pot/internal/storage/sqlite"
)

type fakeSearcher struct {
	results map[string]steam.Result
}

func (f *fakeSearcher) Search(ctx context.Context, term string) (steam.Result, error) {
	if result, ok := f.results[term]; ok {
		return result, nil
	}
	return steam.Result{}, errors.New(errors.CodeGameNotFound, "store search found no results")
}

type fakeRelay struct {
	calls [][]string
	body  []byte
	err   error
}

func (f *fakeRelay) Create(ctx context.Context, memberIDs []string) ([]byte, error) {
	f.calls = append(f.calls, memberIDs)
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func newTestService(t *testing.T) (*Service, storage.Store, *fakeRelay) {
	t.Helper()
	store, err := sqlite.Open(t.TempDir() + "/match.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	searcher := &fakeSearcher{results: map[string]steam.Result{
		"PUBG: BATTLEGROUNDS": {AppID: 578080, Name: "PUBG: BATTLEGROUNDS"},
		"ELDEN RING":          {AppID: 1245620, Name: "ELDEN RING"},
	}}
	relay := &fakeRelay{body: []byte(`{"channelId":"42"}`)}
	service := NewService(store, game.NewResolver(store, searcher), relay)
	return service, store, relay
}

func seedUser(t *testing.T, store storage.UserStore, discordID, username string) storage.User {
	t.Helper()
	user, err := store.UpsertUser(context.Background(), storage.UserProfile{
		DiscordID:   discordID,
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestStartQueuesUserForResolvedGame(t *testing.T) {
	service, store, _ := newTestService(t)
	user := seedUser(t, store, "111", "woney")

	resolved, err := service.Start(context.Background(), user.ID, "배그")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if resolved.Name != "PUBG: BATTLEGROUNDS" {
		t.Fatalf("unexpected game: %+v", resolved)
	}
	members, err := store.ListQueueMembers(context.Background(), resolved.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != user.ID {
		t.Fatalf("expected queued member, got %+v", members)
	}
}

func TestStartAgainMovesQueueEntry(t *testing.T) {
	service, store, _ := newTestService(t)
	user := seedUser(t, store, "111", "woney")

	first, err := service.Start(context.Background(), user.ID, "배그")
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := service.Start(context.Background(), user.ID, "ELDEN RING")
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	old, err := store.ListQueueMembers(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("list old queue: %v", err)
	}
	if len(old) != 0 {
		t.Fatalf("expected old queue empty, got %+v", old)
	}
	current, err := store.ListQueueMembers(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("list new queue: %v", err)
	}
	if len(current) != 1 {
		t.Fatalf("expected one entry in new queue, got %+v", current)
	}
}

func TestStopWithoutEntryIsNoOp(t *testing.T) {
	service, store, _ := newTestService(t)
	user := seedUser(t, store, "111", "woney")
	if err := service.Stop(context.Background(), user.ID); err != nil {
		t.Fatalf("stop without entry: %v", err)
	}
}

func TestStatusExcludesStoppedUsers(t *testing.T) {
	service, store, _ := newTestService(t)
	alice := seedUser(t, store, "111", "alice")
	bob := seedUser(t, store, "222", "bob")

	resolved, err := service.Start(context.Background(), alice.ID, "배그")
	if err != nil {
		t.Fatalf("start alice: %v", err)
	}
	if _, err := service.Start(context.Background(), bob.ID, "배그"); err != nil {
		t.Fatalf("start bob: %v", err)
	}
	if err := service.Stop(context.Background(), alice.ID); err != nil {
		t.Fatalf("stop alice: %v", err)
	}

	_, members, err := service.Status(context.Background(), resolved.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(members) != 1 || members[0].Username != "bob" {
		t.Fatalf("expected only bob queued, got %+v", members)
	}
}

func TestStatusUnknownGame(t *testing.T) {
	service, _, _ := newTestService(t)
	_, _, err := service.Status(context.Background(), "missing")
	if errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestCreatePartyForwardsDiscordIDsInJoinOrder(t *testing.T) {
	service, store, relay := newTestService(t)
	alice := seedUser(t, store, "111", "alice")
	bob := seedUser(t, store, "222", "bob")

	resolved, err := service.Start(context.Background(), alice.ID, "배그")
	if err != nil {
		t.Fatalf("start alice: %v", err)
	}
	service.now = func() time.Time { return time.Now().Add(time.Minute) }
	if _, err := service.Start(context.Background(), bob.ID, "배그"); err != nil {
		t.Fatalf("start bob: %v", err)
	}

	body, err := service.CreateParty(context.Background(), resolved.ID)
	if err != nil {
		t.Fatalf("create party: %v", err)
	}
	if string(body) != `{"channelId":"42"}` {
		t.Fatalf("expected relay body passed through, got %q", body)
	}
	if len(relay.calls) != 1 {
		t.Fatalf("expected one relay call, got %d", len(relay.calls))
	}
	got := relay.calls[0]
	if len(got) != 2 || got[0] != "111" || got[1] != "222" {
		t.Fatalf("expected Discord ids oldest first, got %v", got)
	}
}

func TestCreatePartyEmptyQueue(t *testing.T) {
	service, store, relay := newTestService(t)
	user := seedUser(t, store, "111", "woney")

	resolved, err := service.Start(context.Background(), user.ID, "배그")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := service.Stop(context.Background(), user.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	_, err = service.CreateParty(context.Background(), resolved.ID)
	if errors.CodeOf(err) != errors.CodeQueueEmpty {
		t.Fatalf("expected CodeQueueEmpty, got %v", err)
	}
	if len(relay.calls) != 0 {
		t.Fatalf("expected no relay calls for empty queue, got %d", len(relay.calls))
	}
}

func TestCreatePartyUnknownGame(t *testing.T) {
	service, _, relay := newTestService(t)
	_, err := service.CreateParty(context.Background(), "missing")
	if errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
	if len(relay.calls) != 0 {
		t.Fatalf("expected no relay calls, got %d", len(relay.calls))
	}
}
