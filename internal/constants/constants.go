package constants

const (
	// ContextKeyUserID is the session and gin context key holding the principal id.
	ContextKeyUserID = "user_id"
	// ContextKeyRequestID is the gin context key holding the request id.
	ContextKeyRequestID = "request_id"

	SessionCookieName = "kanban_session"
	RequestIDHeader   = "X-Request-ID"
)

const (
	MinPasswordLength  = 8
	MaxTaskTitleLength = 200

	DefaultTagColor = "blue"

	MaxAvatarBytes = 5 << 20

	MaxAISuggestedTasks = 20
)
