package constants

const (
	// ContextKeyUserID is the key used for the user ID in both the session and the gin context.
	ContextKeyUserID = "user_id"

	// ContextKeyTask is the gin context key for the task loaded by RequireTaskAccess.
	ContextKeyTask = "task"

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "task_session"

	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 8

	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200

	MaxAIGeneratedTasks = 20
)
