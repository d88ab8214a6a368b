package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor

	defaultPlanQuota int
	defaultChatQuota int
}

// NewUserRepository creates a new UserRepositoryPG. The default quotas seed
// the ledger of newly upserted users.
func NewUserRepository(sql infra.SQLExecutor, defaultPlanQuota, defaultChatQuota int) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql, defaultPlanQuota: defaultPlanQuota, defaultChatQuota: defaultChatQuota}
}

// GetByID fetches a user by telegram id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, telegramID)
	return scanUser(row)
}

// Upsert inserts the user on first contact and patches only the non-nil
// profile fields on subsequent calls.
func (r *UserRepositoryPG) Upsert(ctx context.Context, telegramID int64, update domain.ProfileUpdate) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertUserProfile,
		telegramID,
		update.Name,
		update.Age,
		update.Weight,
		update.Height,
		(*string)(update.Gender),
		(*string)(update.ActivityLevel),
		(*string)(update.Goal),
		update.WorkoutLevel,
		update.WorkoutDays,
		r.defaultPlanQuota,
		r.defaultChatQuota,
	)
	return scanUser(row)
}

// CommitQuota decrements the ledger counter for the action and stamps the
// cooldown anchor in one statement. The counter guard makes concurrent
// commits from two sessions lose cleanly instead of double-spending.
func (r *UserRepositoryPG) CommitQuota(ctx context.Context, telegramID int64, action domain.ActionType, ct domain.ContentType, at time.Time) error {
	var query string
	switch {
	case action == domain.ActionChat:
		query = sqlinline.QCommitChatQuota
	case ct == domain.ContentNutrition:
		query = sqlinline.QCommitPlanQuotaNutrition
	default:
		query = sqlinline.QCommitPlanQuotaWorkout
	}

	var remaining int
	args := []any{telegramID, at}
	if action == domain.ActionChat {
		args = []any{telegramID}
	}
	if err := r.sql.QueryRow(ctx, query, args...).Scan(&remaining); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrQuotaExceeded
		}
		return fmt.Errorf("commit quota: %w", err)
	}
	return nil
}

// ResetQuota sets both counters, used by the operator CLI.
func (r *UserRepositoryPG) ResetQuota(ctx context.Context, telegramID int64, planQuota, chatQuota int) error {
	var id int64
	if err := r.sql.QueryRow(ctx, sqlinline.QResetQuota, telegramID, planQuota, chatQuota).Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("reset quota: %w", err)
	}
	return nil
}

// SetPrivileged toggles the quota bypass flag.
func (r *UserRepositoryPG) SetPrivileged(ctx context.Context, telegramID int64, privileged bool) error {
	var id int64
	if err := r.sql.QueryRow(ctx, sqlinline.QSetPrivileged, telegramID, privileged).Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set privileged: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var gender, activity, goal string
	if err := row.Scan(
		&u.TelegramID,
		&u.Name,
		&u.Age,
		&u.Weight,
		&u.Height,
		&gender,
		&activity,
		&goal,
		&u.WorkoutLevel,
		&u.WorkoutDays,
		&u.PlanQuota,
		&u.ChatQuota,
		&u.WorkoutGeneratedAt,
		&u.NutritionGeneratedAt,
		&u.Privileged,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Gender = domain.Gender(gender)
	u.ActivityLevel = domain.ActivityLevel(activity)
	u.Goal = domain.Goal(goal)
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
