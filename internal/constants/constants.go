package constants

// Context keys
const (
	ContextKeyIdentity = "identity"
)

// Auth
const (
	AccessTokenCookie = "access_token"
	MinPasswordLength = 6
)

// Task suggestion limits
const (
	MaxSuggestedTasks = 20
)
