// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the event feed.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
	SlowConsumerError     = 3002 // Client fell too far behind the event stream.
)
