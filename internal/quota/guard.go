// Package quota enforces generation and chat budgets per user.
package quota

import (
	"context"
	"sync"
	"time"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
)

// Guard answers "may this user spend an attempt right now" and, separately,
// records the spend. Check has no side effects; Commit is the single ledger
// mutation and runs only after a generation fully succeeded.
type Guard struct {
	users        domain.UserRepository
	planCooldown time.Duration
	chatCooldown time.Duration
	now          func() time.Time

	mu        sync.Mutex
	lastChats map[int64]time.Time
}

type Options struct {
	Users        domain.UserRepository
	PlanCooldown time.Duration
	ChatCooldown time.Duration
	Now          func() time.Time
}

func New(opts Options) *Guard {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Guard{
		users:        opts.Users,
		planCooldown: opts.PlanCooldown,
		chatCooldown: opts.ChatCooldown,
		now:          now,
		lastChats:    make(map[int64]time.Time),
	}
}

// Check reports whether the user may start the action. Cooldown is evaluated
// before the counter so the denial reason is stable. Privileged users always
// pass.
func (g *Guard) Check(user *domain.User, action domain.ActionType, ct domain.ContentType) error {
	if user.Privileged {
		return nil
	}
	switch action {
	case domain.ActionChat:
		if remaining := g.chatCooldownLeft(user.TelegramID); remaining > 0 {
			return &domain.CooldownError{RetryAfter: remaining}
		}
		if user.ChatQuota <= 0 {
			return domain.ErrQuotaExceeded
		}
	default:
		if anchor := user.GeneratedAt(ct); anchor != nil {
			elapsed := g.now().Sub(*anchor)
			if elapsed < g.planCooldown {
				return &domain.CooldownError{RetryAfter: g.planCooldown - elapsed}
			}
		}
		if user.PlanQuota <= 0 {
			return domain.ErrQuotaExceeded
		}
	}
	return nil
}

// Commit spends one unit and stamps the cooldown anchor atomically. Callers
// invoke it exactly once per successful generation; a denial or failure never
// reaches it.
func (g *Guard) Commit(ctx context.Context, user *domain.User, action domain.ActionType, ct domain.ContentType) error {
	if user.Privileged {
		return nil
	}
	at := g.now()
	if err := g.users.CommitQuota(ctx, user.TelegramID, action, ct, at); err != nil {
		return err
	}
	if action == domain.ActionChat {
		g.mu.Lock()
		g.lastChats[user.TelegramID] = at
		g.mu.Unlock()
	}
	return nil
}

func (g *Guard) chatCooldownLeft(userID int64) time.Duration {
	if g.chatCooldown <= 0 {
		return 0
	}
	g.mu.Lock()
	last, ok := g.lastChats[userID]
	g.mu.Unlock()
	if !ok {
		return 0
	}
	left := g.chatCooldown - g.now().Sub(last)
	if left < 0 {
		return 0
	}
	return left
}
