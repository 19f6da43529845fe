package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail is the gin context key holding the authenticated user's email
	ContextKeyUserEmail = "user_email"
	// ContextKeyTaskID is the gin context key holding the parsed :id route parameter
	ContextKeyTaskID = "task_id"
	// ContextKeyRequestID is the gin context key holding the request ID
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// Pagination
const (
	MinPage         = 1
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 9
)

// Field limits
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxEmailLength       = 255
	MinPasswordLength    = 8
	// bcrypt ignores everything past 72 bytes
	MaxPasswordLength = 72
	BcryptCost        = 10
)

// Sorting
const (
	SortByCreatedAt = "createdAt"
	SortByTitle     = "title"
	OrderAsc        = "asc"
	OrderDesc       = "desc"
)

const MaxAIGeneratedTasks = 20
