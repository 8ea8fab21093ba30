// Package errors provides structured error handling for the matchmaking
// backend.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidRequest marks a malformed or incomplete request body.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// Auth errors
	CodeUnauthenticated     Code = "UNAUTHENTICATED"
	CodeSessionInvalid      Code = "SESSION_INVALID"
	CodeOAuthStateInvalid   Code = "OAUTH_STATE_INVALID"
	CodeOAuthExchangeFailed Code = "OAUTH_EXCHANGE_FAILED"

	// Game resolution errors
	CodeGameNameEmpty    Code = "GAME_NAME_EMPTY"
	CodeGameNotFound     Code = "GAME_NOT_FOUND"
	CodeSteamUnavailable Code = "STEAM_UNAVAILABLE"

	// Queue errors
	CodeQueueEmpty Code = "QUEUE_EMPTY"

	// Party relay errors
	CodeBotRejected    Code = "BOT_REJECTED"
	CodeBotUnavailable Code = "BOT_UNAVAILABLE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps an error code to the HTTP status rendered to API clients.
//
// CodeBotRejected carries the upstream status in the error metadata; the
// fallback here only applies when that metadata is missing.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated, CodeSessionInvalid:
		return http.StatusUnauthorized
	case CodeInvalidRequest, CodeGameNameEmpty, CodeQueueEmpty, CodeOAuthStateInvalid, CodeOAuthExchangeFailed:
		return http.StatusBadRequest
	case CodeGameNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeSteamUnavailable, CodeBotUnavailable:
		return http.StatusServiceUnavailable
	case CodeBotRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
