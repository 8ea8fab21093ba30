package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// pendingFlow holds PKCE state for an in-flight Discord login.
type pendingFlow struct {
	codeVerifier string
	createdAt    time.Time
}

// pendingFlowStore is a thread-safe store for in-flight PKCE flows.
// Abandoned flows are swept on every create so unauthenticated hits on
// the login endpoint cannot grow the map without bound.
type pendingFlowStore struct {
	mu    sync.Mutex
	flows map[string]*pendingFlow
	ttl   time.Duration
	now   func() time.Time
}

// newPendingFlowStore creates an empty pending flow store with a 10-minute TTL.
func newPendingFlowStore() *pendingFlowStore {
	return &pendingFlowStore{
		flows: make(map[string]*pendingFlow),
		ttl:   10 * time.Minute,
		now:   time.Now,
	}
}

// create evicts expired flows, stores a new pending flow, and returns the
// state parameter.
func (s *pendingFlowStore) create(codeVerifier string) string {
	state := randomHex(16)
	now := s.now()
	s.mu.Lock()
	for key, flow := range s.flows {
		if now.Sub(flow.createdAt) > s.ttl {
			delete(s.flows, key)
		}
	}
	s.flows[state] = &pendingFlow{
		codeVerifier: codeVerifier,
		createdAt:    now,
	}
	s.mu.Unlock()
	return state
}

// consume retrieves and removes a pending flow by state.
// Returns nil if missing or expired.
func (s *pendingFlowStore) consume(state string) *pendingFlow {
	s.mu.Lock()
	flow, ok := s.flows[state]
	if ok {
		delete(s.flows, state)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if s.now().Sub(flow.createdAt) > s.ttl {
		return nil
	}
	return flow
}

// randomHex generates a cryptographically random hex string of n bytes.
func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
