package domain

import (
	"context"
	"time"
)

// ProfileUpdate carries the profile fields the HTTP boundary may change.
// Nil fields are left untouched so a partial update never erases data.
type ProfileUpdate struct {
	Name          *string
	Age           *int
	Weight        *float64
	Height        *float64
	Gender        *Gender
	ActivityLevel *ActivityLevel
	Goal          *Goal
	WorkoutLevel  *string
	WorkoutDays   *int
}

// UserRepository defines access to user records. The engine never creates
// users on its own; Upsert is the seam the chat-platform collaborator uses
// when a profile is first submitted.
type UserRepository interface {
	GetByID(ctx context.Context, telegramID int64) (*User, error)
	Upsert(ctx context.Context, telegramID int64, update ProfileUpdate) (*User, error)
	// CommitQuota atomically decrements the counter for the action and sets
	// the cooldown anchor for the content type. It reports ErrQuotaExceeded
	// when the counter is already spent (lost-update safe).
	CommitQuota(ctx context.Context, telegramID int64, action ActionType, ct ContentType, at time.Time) error
	ResetQuota(ctx context.Context, telegramID int64, planQuota, chatQuota int) error
	SetPrivileged(ctx context.Context, telegramID int64, privileged bool) error
}

// PlanRepository persists the paginated artifacts, one per user and content
// type. Replace is a full overwrite; there are no partial page updates.
type PlanRepository interface {
	Get(ctx context.Context, telegramID int64, ct ContentType) (*Artifact, error)
	Replace(ctx context.Context, telegramID int64, ct ContentType, pages []string) error
	Clear(ctx context.Context, telegramID int64, ct ContentType) error
}

// CompletionRepository stores the workout completion log.
type CompletionRepository interface {
	Append(ctx context.Context, telegramID int64, dayLabel string) error
	Remove(ctx context.Context, telegramID int64, dayLabel string) error
	Clear(ctx context.Context, telegramID int64) error
	List(ctx context.Context, telegramID int64) ([]Completion, error)
}
