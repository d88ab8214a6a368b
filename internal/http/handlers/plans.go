package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/middleware"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/plan"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/pkg/locales"
)

type pageResponse struct {
	Text       string            `json:"text"`
	Nav        []plan.Affordance `json:"nav"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

type confirmationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type pageRequest struct {
	Index int `json:"index"`
}

func toPageResponse(p *plan.Page) pageResponse {
	return pageResponse{Text: p.Text, Nav: p.Nav, Page: p.Index, TotalPages: p.Total}
}

// PlanRequest starts a generation, answering either with the confirmation
// question (a plan already exists) or with the first page of the new plan.
func (a *App) PlanRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	ct, ok := a.contentType(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan type")
		return
	}

	res, err := a.Orch.Request(r.Context(), userID, ct)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	if res.ConfirmationRequired {
		locale := middleware.LocaleFromContext(r.Context())
		a.json(w, http.StatusOK, confirmationResponse{
			Status:  "confirmation_required",
			Message: locales.Message(locale, "confirm_overwrite"),
		})
		return
	}
	a.json(w, http.StatusOK, toPageResponse(res.Page))
}

func (a *App) PlanConfirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	ct, ok := a.contentType(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan type")
		return
	}

	res, err := a.Orch.Confirm(r.Context(), userID, ct)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toPageResponse(res.Page))
}

func (a *App) PlanCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	ct, ok := a.contentType(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan type")
		return
	}

	if err := a.Orch.Cancel(userID, ct); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (a *App) PlanDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	ct, ok := a.contentType(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan type")
		return
	}

	if err := a.Orch.DeletePlan(r.Context(), userID, ct); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *App) PlanRegenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	ct, ok := a.contentType(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan type")
		return
	}

	res, err := a.Orch.Regenerate(r.Context(), userID, ct)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toPageResponse(res.Page))
}

// PlanView renders page 0 of the saved plan with completions reconciled.
func (a *App) PlanView(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	ct, ok := a.contentType(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan type")
		return
	}

	page, err := a.Orch.View(r.Context(), userID, ct)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toPageResponse(page))
}

// PlanPage navigates to the index carried by the platform's action token.
func (a *App) PlanPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	ct, ok := a.contentType(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown plan type")
		return
	}
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	page, err := a.Orch.Navigate(r.Context(), userID, ct, req.Index)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toPageResponse(page))
}

// WorkoutComplete toggles the "day done" mark on one workout page. Only the
// workout plan has completions.
func (a *App) WorkoutComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.userID(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}
	if ct, ok := a.contentType(r); !ok || ct != domain.ContentWorkout {
		a.error(w, http.StatusBadRequest, "bad_request", "completions are workout-only")
		return
	}
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	page, err := a.Orch.ToggleCompletion(r.Context(), userID, req.Index)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toPageResponse(page))
}
