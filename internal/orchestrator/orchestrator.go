// Package orchestrator drives the generation lifecycle: quota gate,
// confirmation, provider call, segmentation, persistence, and pagination.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/plan"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/providers/llm"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/quota"
)

// flowState tracks one user's in-flight generation for one content type.
// Idle and Ready need no entry; a pending confirmation or a running
// generation does.
type flowState int

const (
	statePending flowState = iota + 1
	stateGenerating
)

type flowKey struct {
	userID int64
	ct     domain.ContentType
}

// Result is the outcome of a generation-path operation. Either the
// confirmation question or the first rendered page.
type Result struct {
	ConfirmationRequired bool
	Page                 *plan.Page
}

type Options struct {
	Users       domain.UserRepository
	Plans       domain.PlanRepository
	Completions domain.CompletionRepository
	Guard       *quota.Guard
	Generator   llm.Generator
	Prompts     *llm.PromptBuilder
	Segmenter   *plan.Segmenter
	Paginator   *plan.Paginator
	Sessions    *plan.SessionStore
	GenTimeout  time.Duration
	Logger      zerolog.Logger
}

// Orchestrator serializes generations per user and content type. Only the
// provider call runs outside the state lock, so a second request during
// generation is denied immediately instead of queueing.
type Orchestrator struct {
	users       domain.UserRepository
	plans       domain.PlanRepository
	completions domain.CompletionRepository
	guard       *quota.Guard
	generator   llm.Generator
	prompts     *llm.PromptBuilder
	segmenter   *plan.Segmenter
	paginator   *plan.Paginator
	sessions    *plan.SessionStore
	genTimeout  time.Duration
	log         zerolog.Logger

	mu    sync.Mutex
	flows map[flowKey]flowState
}

func New(opts Options) *Orchestrator {
	timeout := opts.GenTimeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Orchestrator{
		users:       opts.Users,
		plans:       opts.Plans,
		completions: opts.Completions,
		guard:       opts.Guard,
		generator:   opts.Generator,
		prompts:     opts.Prompts,
		segmenter:   opts.Segmenter,
		paginator:   opts.Paginator,
		sessions:    opts.Sessions,
		genTimeout:  timeout,
		log:         opts.Logger,
	}
}

// Request starts a plan generation. When a saved plan of the same type
// exists the user must confirm the overwrite first; otherwise generation
// runs immediately.
func (o *Orchestrator) Request(ctx context.Context, userID int64, ct domain.ContentType) (*Result, error) {
	user, err := o.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// An existing plan asks for confirmation before any quota talk; the
	// guard runs on Confirm instead, right before the work it gates.
	_, err = o.plans.Get(ctx, userID, ct)
	switch {
	case err == nil:
		if err := o.setFlow(userID, ct, statePending); err != nil {
			return nil, err
		}
		return &Result{ConfirmationRequired: true}, nil
	case errorsIsNotFound(err):
		if err := o.guard.Check(user, domain.ActionPlan, ct); err != nil {
			return nil, err
		}
		return o.generate(ctx, user, ct)
	default:
		return nil, err
	}
}

// Confirm resolves a pending overwrite confirmation and runs the generation.
func (o *Orchestrator) Confirm(ctx context.Context, userID int64, ct domain.ContentType) (*Result, error) {
	if !o.clearFlow(userID, ct, statePending) {
		return nil, domain.ErrNoConfirmPending
	}
	user, err := o.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := o.guard.Check(user, domain.ActionPlan, ct); err != nil {
		return nil, err
	}
	return o.generate(ctx, user, ct)
}

// Cancel abandons a pending confirmation. The saved plan stays untouched.
func (o *Orchestrator) Cancel(userID int64, ct domain.ContentType) error {
	if !o.clearFlow(userID, ct, statePending) {
		return domain.ErrNoConfirmPending
	}
	return nil
}

// DeletePlan removes the saved plan and closes any open reading session.
func (o *Orchestrator) DeletePlan(ctx context.Context, userID int64, ct domain.ContentType) error {
	if _, err := o.plans.Get(ctx, userID, ct); err != nil {
		return err
	}
	if err := o.plans.Clear(ctx, userID, ct); err != nil {
		return err
	}
	if ct == domain.ContentWorkout {
		if err := o.completions.Clear(ctx, userID); err != nil {
			return err
		}
	}
	o.sessions.Drop(userID, ct)
	return nil
}

// Regenerate skips the confirmation step: asking to regenerate is the
// consent. Quota still commits exactly once.
func (o *Orchestrator) Regenerate(ctx context.Context, userID int64, ct domain.ContentType) (*Result, error) {
	o.clearFlow(userID, ct, statePending)
	user, err := o.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := o.guard.Check(user, domain.ActionPlan, ct); err != nil {
		return nil, err
	}
	return o.generate(ctx, user, ct)
}

// generate runs the provider, segments, persists, commits quota, and resets
// the session. Any failure before Replace leaves both quota and the prior
// artifact untouched.
func (o *Orchestrator) generate(ctx context.Context, user *domain.User, ct domain.ContentType) (*Result, error) {
	if err := o.setFlow(user.TelegramID, ct, stateGenerating); err != nil {
		return nil, err
	}
	defer o.clearFlow(user.TelegramID, ct, stateGenerating)

	spec := o.prompts.Workout(user)
	if ct == domain.ContentNutrition {
		spec = o.prompts.Nutrition(user)
	}

	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	started := time.Now()
	raw, err := o.generator.Generate(genCtx, spec)
	if err != nil {
		o.log.Warn().Err(err).
			Int64("user_id", user.TelegramID).
			Str("content_type", string(ct)).
			Str("provider", o.generator.Name()).
			Msg("generation failed")
		return nil, err
	}

	pages := o.segmenter.Split(ct, raw)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: empty completion", llm.ErrRemote)
	}

	if err := o.plans.Replace(ctx, user.TelegramID, ct, pages); err != nil {
		return nil, err
	}
	// Completion marks belong to the replaced plan; a fresh plan starts with a
	// clean log or stale rows resurface on the next View.
	if ct == domain.ContentWorkout {
		if err := o.completions.Clear(ctx, user.TelegramID); err != nil {
			return nil, err
		}
	}
	if err := o.guard.Commit(ctx, user, domain.ActionPlan, ct); err != nil {
		return nil, err
	}

	o.log.Info().
		Int64("user_id", user.TelegramID).
		Str("content_type", string(ct)).
		Str("provider", o.generator.Name()).
		Int("pages", len(pages)).
		Dur("took", time.Since(started)).
		Msg("plan generated")

	o.sessions.Drop(user.TelegramID, ct)
	o.sessions.Start(user.TelegramID, ct, len(pages), nil)

	page, err := o.paginator.Render(pages, 0, ct, nil)
	if err != nil {
		return nil, err
	}
	return &Result{Page: &page}, nil
}

// View loads the saved plan, reconciles workout completions from the log,
// and renders the first page.
func (o *Orchestrator) View(ctx context.Context, userID int64, ct domain.ContentType) (*plan.Page, error) {
	artifact, err := o.plans.Get(ctx, userID, ct)
	if err != nil {
		return nil, err
	}
	completed, err := o.completedIndexes(ctx, userID, ct)
	if err != nil {
		return nil, err
	}
	o.sessions.Start(userID, ct, len(artifact.Pages), completed)

	page, err := o.paginator.Render(artifact.Pages, 0, ct, completed)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Navigate moves the session to the requested page and renders it.
func (o *Orchestrator) Navigate(ctx context.Context, userID int64, ct domain.ContentType, index int) (*plan.Page, error) {
	if _, err := o.sessions.Load(userID, ct); err != nil {
		return nil, err
	}
	artifact, err := o.plans.Get(ctx, userID, ct)
	if err != nil {
		return nil, err
	}
	if err := o.sessions.SetIndex(userID, ct, index); err != nil {
		return nil, err
	}
	sess, err := o.sessions.Load(userID, ct)
	if err != nil {
		return nil, err
	}
	page, err := o.paginator.Render(artifact.Pages, sess.CurrentIndex, ct, sess.Completed)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ToggleCompletion flips the completion mark for one workout page.
// Marking an already-marked page undoes it; the log mutation is idempotent
// either way.
func (o *Orchestrator) ToggleCompletion(ctx context.Context, userID int64, index int) (*plan.Page, error) {
	ct := domain.ContentWorkout
	sess, err := o.sessions.Load(userID, ct)
	if err != nil {
		return nil, err
	}
	artifact, err := o.plans.Get(ctx, userID, ct)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(artifact.Pages) {
		return nil, domain.ErrInvalidInput
	}

	label := domain.DayLabel(index)
	if sess.Completed[index] {
		if err := o.completions.Remove(ctx, userID, label); err != nil {
			return nil, err
		}
		if err := o.sessions.SetCompleted(userID, ct, index, false); err != nil {
			return nil, err
		}
	} else {
		if err := o.completions.Append(ctx, userID, label); err != nil {
			return nil, err
		}
		if err := o.sessions.SetCompleted(userID, ct, index, true); err != nil {
			return nil, err
		}
	}

	sess, err = o.sessions.Load(userID, ct)
	if err != nil {
		return nil, err
	}
	page, err := o.paginator.Render(artifact.Pages, index, ct, sess.Completed)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Chat answers one coach question with the rolling history, spending one
// chat quota unit on success.
func (o *Orchestrator) Chat(ctx context.Context, userID int64, question string) (string, error) {
	if question == "" {
		return "", domain.ErrInvalidInput
	}
	user, err := o.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := o.guard.Check(user, domain.ActionChat, ""); err != nil {
		return "", err
	}

	history := o.sessions.ChatHistory(userID)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: question})
	spec := o.prompts.Chat(user, history)

	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	answer, err := o.generator.Generate(genCtx, spec)
	if err != nil {
		return "", err
	}
	if err := o.guard.Commit(ctx, user, domain.ActionChat, ""); err != nil {
		return "", err
	}
	o.sessions.AppendChatTurn(userID, question, answer)
	return answer, nil
}

func (o *Orchestrator) loadProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := o.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasProfile() {
		return nil, fmt.Errorf("%w: profile incomplete", domain.ErrInvalidInput)
	}
	return user, nil
}

func (o *Orchestrator) completedIndexes(ctx context.Context, userID int64, ct domain.ContentType) (map[int]bool, error) {
	if ct != domain.ContentWorkout {
		return nil, nil
	}
	list, err := o.completions.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[int]bool, len(list))
	for _, c := range list {
		idx, err := domain.DayIndex(c.DayLabel)
		if err != nil {
			continue
		}
		completed[idx] = true
	}
	return completed, nil
}

// setFlow transitions Idle -> next, denying when a generation is running.
func (o *Orchestrator) setFlow(userID int64, ct domain.ContentType, next flowState) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.flows == nil {
		o.flows = make(map[flowKey]flowState)
	}
	key := flowKey{userID, ct}
	if o.flows[key] == stateGenerating {
		return domain.ErrGenerationBusy
	}
	o.flows[key] = next
	return nil
}

// clearFlow drops the entry when it matches the expected state.
func (o *Orchestrator) clearFlow(userID int64, ct domain.ContentType, expect flowState) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	key := flowKey{userID, ct}
	if o.flows[key] != expect {
		return false
	}
	delete(o.flows, key)
	return true
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
