package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
)

type fakeUserRepo struct {
	commitCalls int
	commitErr   error
	lastAction  domain.ActionType
	lastContent domain.ContentType
}

func (f *fakeUserRepo) GetByID(context.Context, int64) (*domain.User, error) { return nil, nil }
func (f *fakeUserRepo) Upsert(context.Context, int64, domain.ProfileUpdate) (*domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) CommitQuota(_ context.Context, _ int64, action domain.ActionType, ct domain.ContentType, _ time.Time) error {
	f.commitCalls++
	f.lastAction = action
	f.lastContent = ct
	return f.commitErr
}
func (f *fakeUserRepo) ResetQuota(context.Context, int64, int, int) error { return nil }
func (f *fakeUserRepo) SetPrivileged(context.Context, int64, bool) error  { return nil }

func newTestGuard(repo *fakeUserRepo, now time.Time) *Guard {
	return New(Options{
		Users:        repo,
		PlanCooldown: 5 * time.Minute,
		ChatCooldown: 10 * time.Second,
		Now:          func() time.Time { return now },
	})
}

func TestCheckAllowsFreshUser(t *testing.T) {
	g := newTestGuard(&fakeUserRepo{}, time.Now())
	u := &domain.User{TelegramID: 1, PlanQuota: 3, ChatQuota: 5}

	if err := g.Check(u, domain.ActionPlan, domain.ContentWorkout); err != nil {
		t.Fatalf("plan check: %v", err)
	}
	if err := g.Check(u, domain.ActionChat, ""); err != nil {
		t.Fatalf("chat check: %v", err)
	}
}

func TestCheckExhaustedQuota(t *testing.T) {
	repo := &fakeUserRepo{}
	g := newTestGuard(repo, time.Now())
	u := &domain.User{TelegramID: 1, PlanQuota: 0, ChatQuota: 0}

	if err := g.Check(u, domain.ActionPlan, domain.ContentWorkout); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if err := g.Check(u, domain.ActionChat, ""); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("chat err = %v, want ErrQuotaExceeded", err)
	}
	// Denial never touches the ledger.
	if repo.commitCalls != 0 {
		t.Fatalf("commit calls = %d, want 0", repo.commitCalls)
	}
}

func TestCheckCooldownBeforeCounter(t *testing.T) {
	now := time.Now()
	g := newTestGuard(&fakeUserRepo{}, now)
	recent := now.Add(-2 * time.Minute)
	u := &domain.User{TelegramID: 1, PlanQuota: 0, WorkoutGeneratedAt: &recent}

	err := g.Check(u, domain.ActionPlan, domain.ContentWorkout)
	var cd *domain.CooldownError
	if !errors.As(err, &cd) {
		t.Fatalf("err = %v, want CooldownError", err)
	}
	if !errors.Is(err, domain.ErrCooldownActive) {
		t.Fatal("CooldownError does not unwrap to ErrCooldownActive")
	}
	if cd.RetryAfter != 3*time.Minute {
		t.Fatalf("retry after = %v, want 3m", cd.RetryAfter)
	}
}

func TestCheckCooldownPerContentType(t *testing.T) {
	now := time.Now()
	g := newTestGuard(&fakeUserRepo{}, now)
	recent := now.Add(-time.Minute)
	u := &domain.User{TelegramID: 1, PlanQuota: 2, WorkoutGeneratedAt: &recent}

	if err := g.Check(u, domain.ActionPlan, domain.ContentWorkout); !errors.Is(err, domain.ErrCooldownActive) {
		t.Fatalf("workout err = %v, want cooldown", err)
	}
	if err := g.Check(u, domain.ActionPlan, domain.ContentNutrition); err != nil {
		t.Fatalf("nutrition check: %v", err)
	}
}

func TestCheckPrivilegedBypassesEverything(t *testing.T) {
	now := time.Now()
	g := newTestGuard(&fakeUserRepo{}, now)
	recent := now.Add(-time.Second)
	u := &domain.User{TelegramID: 1, Privileged: true, PlanQuota: 0, ChatQuota: 0, WorkoutGeneratedAt: &recent}

	if err := g.Check(u, domain.ActionPlan, domain.ContentWorkout); err != nil {
		t.Fatalf("plan check: %v", err)
	}
	if err := g.Check(u, domain.ActionChat, ""); err != nil {
		t.Fatalf("chat check: %v", err)
	}
}

func TestCommitDelegatesOnce(t *testing.T) {
	repo := &fakeUserRepo{}
	g := newTestGuard(repo, time.Now())
	u := &domain.User{TelegramID: 1, PlanQuota: 3}

	if err := g.Commit(context.Background(), u, domain.ActionPlan, domain.ContentNutrition); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if repo.commitCalls != 1 {
		t.Fatalf("commit calls = %d, want 1", repo.commitCalls)
	}
	if repo.lastAction != domain.ActionPlan || repo.lastContent != domain.ContentNutrition {
		t.Fatalf("committed %v/%v", repo.lastAction, repo.lastContent)
	}
}

func TestCommitSkippedForPrivileged(t *testing.T) {
	repo := &fakeUserRepo{}
	g := newTestGuard(repo, time.Now())
	u := &domain.User{TelegramID: 1, Privileged: true}

	if err := g.Commit(context.Background(), u, domain.ActionPlan, domain.ContentWorkout); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if repo.commitCalls != 0 {
		t.Fatalf("commit calls = %d, want 0", repo.commitCalls)
	}
}

func TestChatCooldownAfterCommit(t *testing.T) {
	repo := &fakeUserRepo{}
	now := time.Now()
	g := newTestGuard(repo, now)
	u := &domain.User{TelegramID: 1, ChatQuota: 5}

	if err := g.Commit(context.Background(), u, domain.ActionChat, ""); err != nil {
		t.Fatalf("commit: %v", err)
	}
	err := g.Check(u, domain.ActionChat, "")
	var cd *domain.CooldownError
	if !errors.As(err, &cd) {
		t.Fatalf("err = %v, want CooldownError", err)
	}
	if cd.RetryAfter != 10*time.Second {
		t.Fatalf("retry after = %v, want 10s", cd.RetryAfter)
	}
}

func TestCommitSurfacesRepoError(t *testing.T) {
	repo := &fakeUserRepo{commitErr: domain.ErrQuotaExceeded}
	g := newTestGuard(repo, time.Now())
	u := &domain.User{TelegramID: 1, PlanQuota: 1}

	if err := g.Commit(context.Background(), u, domain.ActionPlan, domain.ContentWorkout); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}
