// Package timeouts defines shared timeout constants used across the server.
// Centralizing these values prevents drift between call sites and makes the
// durations discoverable.
package timeouts

import "time"

// Outbound caps a single outbound HTTP request to Steam or the party bot.
// Expiry is treated as "service unavailable" by callers.
const Outbound = 10 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// ReaperTick bounds a single cleanup pass over the matching queue.
const ReaperTick = 30 * time.Second
