package websocket

// Action constants for WebSocket messages
const (
	ActionHealthCheck = "health.check"

	// Board subscriptions
	ActionBoardSubscribe   = "board.subscribe"
	ActionBoardUnsubscribe = "board.unsubscribe"
)

// Error codes
const (
	ErrorCodeBadRequest    = "BAD_REQUEST"
	ErrorCodeInternalError = "INTERNAL_ERROR"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeUnknownAction = "UNKNOWN_ACTION"
)
