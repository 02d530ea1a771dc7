package constants

import "time"

// Session
const (
	SessionCookieName = "support_session"
	ContextKeyUserID  = "user_id"
)

// Auth
const MinPasswordLength = 8

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Cache
const ListCacheTTL = 5 * time.Minute
