package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentType enumerates the plan kinds the engine can generate and store.
type ContentType string

const (
	ContentWorkout   ContentType = "workout"
	ContentNutrition ContentType = "nutrition"
)

// ParseContentType validates an externally supplied content type token.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case ContentWorkout:
		return ContentWorkout, nil
	case ContentNutrition:
		return ContentNutrition, nil
	}
	return "", fmt.Errorf("%w: content type %q", ErrInvalidInput, s)
}

// ActionType enumerates quota ledger actions.
type ActionType string

const (
	ActionPlan ActionType = "plan"
	ActionChat ActionType = "chat"
)

// Artifact is the persisted, paginated result of one generation request.
// Pages are replaced wholesale on regeneration, never merged.
type Artifact struct {
	ContentType ContentType
	Pages       []string
	CreatedAt   time.Time
}

// PaginationSession is the transient viewing state for one user and content
// type. Completed marks are reconciled from the durable completion log when
// the session is (re)built.
type PaginationSession struct {
	CurrentIndex int
	TotalPages   int
	Completed    map[int]bool
}

// Completion is one durable "day done" mark on a workout page. Undo removes
// the row entirely rather than flagging it.
type Completion struct {
	ID        uuid.UUID
	UserID    int64
	DayLabel  string
	CreatedAt time.Time
}

const dayLabelPrefix = "Day "

// DayLabel renders the human-readable label stored in the completion log for
// a zero-based page index. The format round-trips through DayIndex.
func DayLabel(index int) string {
	return dayLabelPrefix + strconv.Itoa(index+1)
}

// DayIndex parses a completion-log label back into a zero-based page index.
func DayIndex(label string) (int, error) {
	rest, ok := strings.CutPrefix(label, dayLabelPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: day label %q", ErrInvalidInput, label)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: day label %q", ErrInvalidInput, label)
	}
	return n - 1, nil
}
