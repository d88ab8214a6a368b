package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/sqlinline"
)

// PlanRepositoryPG implements domain.PlanRepository. Pages are stored as one
// jsonb array per user and content type; Replace overwrites the whole row.
type PlanRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewPlanRepository(sql infra.SQLExecutor) *PlanRepositoryPG {
	return &PlanRepositoryPG{sql: sql}
}

func (r *PlanRepositoryPG) Get(ctx context.Context, telegramID int64, ct domain.ContentType) (*domain.Artifact, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectPlanPages, telegramID, string(ct))
	var raw []byte
	var createdAt time.Time
	if err := row.Scan(&raw, &createdAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load plan: %w", err)
	}
	var pages []string
	if err := json.Unmarshal(raw, &pages); err != nil {
		return nil, fmt.Errorf("decode plan pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, domain.ErrNotFound
	}
	return &domain.Artifact{ContentType: ct, Pages: pages, CreatedAt: createdAt}, nil
}

func (r *PlanRepositoryPG) Replace(ctx context.Context, telegramID int64, ct domain.ContentType, pages []string) error {
	if len(pages) == 0 {
		return fmt.Errorf("%w: empty page set", domain.ErrInvalidInput)
	}
	raw, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("encode plan pages: %w", err)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QReplacePlanPages, telegramID, string(ct), raw); err != nil {
		return fmt.Errorf("store plan: %w", err)
	}
	return nil
}

func (r *PlanRepositoryPG) Clear(ctx context.Context, telegramID int64, ct domain.ContentType) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDeletePlanPages, telegramID, string(ct)); err != nil {
		return fmt.Errorf("clear plan: %w", err)
	}
	return nil
}

var _ domain.PlanRepository = (*PlanRepositoryPG)(nil)
