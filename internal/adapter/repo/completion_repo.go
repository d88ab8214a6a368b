package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/sqlinline"
)

// CompletionRepositoryPG implements domain.CompletionRepository. One row per
// marked day; undo deletes the row so mark/unmark round-trips to the original
// state.
type CompletionRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewCompletionRepository(sql infra.SQLExecutor) *CompletionRepositoryPG {
	return &CompletionRepositoryPG{sql: sql}
}

func (r *CompletionRepositoryPG) Append(ctx context.Context, telegramID int64, dayLabel string) error {
	if _, err := domain.DayIndex(dayLabel); err != nil {
		return err
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertCompletion, uuid.New(), telegramID, dayLabel); err != nil {
		return fmt.Errorf("append completion: %w", err)
	}
	return nil
}

func (r *CompletionRepositoryPG) Remove(ctx context.Context, telegramID int64, dayLabel string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDeleteCompletion, telegramID, dayLabel); err != nil {
		return fmt.Errorf("remove completion: %w", err)
	}
	return nil
}

func (r *CompletionRepositoryPG) Clear(ctx context.Context, telegramID int64) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QClearCompletions, telegramID); err != nil {
		return fmt.Errorf("clear completions: %w", err)
	}
	return nil
}

func (r *CompletionRepositoryPG) List(ctx context.Context, telegramID int64) ([]domain.Completion, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectCompletions, telegramID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var items []domain.Completion
	for rows.Next() {
		var c domain.Completion
		if err := rows.Scan(&c.ID, &c.UserID, &c.DayLabel, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return items, nil
}

var _ domain.CompletionRepository = (*CompletionRepositoryPG)(nil)
