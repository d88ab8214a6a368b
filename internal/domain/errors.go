package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrCooldownActive   = errors.New("cooldown active")
	ErrGenerationBusy   = errors.New("generation already in progress")
	ErrSessionExpired   = errors.New("pagination session expired")
	ErrNoConfirmPending = errors.New("no confirmation pending")
)

// CooldownError carries the remaining wait alongside ErrCooldownActive.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }
