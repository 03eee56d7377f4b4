package constants

import "time"

// Context keys set by the auth middleware
const (
	ContextKeyUserID       = "user_id"
	ContextKeyRole         = "role"
	ContextKeyTokenID      = "token_id"
	ContextKeyTokenExpires = "token_expires"
)

// Validation bounds
const (
	MinPasswordLength    = 6
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinCommentLength     = 5
	MaxHoursPerUpdate    = 24
	MinNameLength        = 2
	MaxNameLength        = 50
	MinCourierTypeLength = 2
	MaxCourierTypeLength = 50
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Attachments
const (
	MaxAttachmentsPerUpdate = 5
	AttachmentFormField     = "attachments"
)

// Couriers
const (
	TrackingNumberPrefix      = "TRK"
	TrackingNumberMaxAttempts = 10
)

// Reporting
const (
	RecentTasksLimit = 5
	WeeklyWindow     = 7 * 24 * time.Hour
)
