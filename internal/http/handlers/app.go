// Package handlers is the chat-platform boundary: it translates HTTP
// requests into orchestrator operations and domain errors into status codes
// with localized copy.
package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/middleware"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/orchestrator"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/providers/llm"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/pkg/locales"
)

type App struct {
	Orch   *orchestrator.Orchestrator
	Users  domain.UserRepository
	Logger zerolog.Logger
}

func NewApp(orch *orchestrator.Orchestrator, users domain.UserRepository, logger zerolog.Logger) *App {
	return &App{Orch: orch, Users: users, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

func (a *App) error(w http.ResponseWriter, code int, codeStr, message string) {
	a.json(w, code, errorResponse{Code: codeStr, Message: message})
}

// domainError maps the error taxonomy onto HTTP statuses with catalog copy.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error) {
	locale := middleware.LocaleFromContext(r.Context())

	var cd *domain.CooldownError
	switch {
	case errors.As(err, &cd):
		a.json(w, http.StatusTooManyRequests, errorResponse{
			Code:              "cooldown_active",
			Message:           locales.Message(locale, "cooldown_active"),
			RetryAfterSeconds: int(math.Ceil(cd.RetryAfter.Seconds())),
		})
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, http.StatusForbidden, "quota_exceeded", locales.Message(locale, "quota_exceeded"))
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, llm.ErrRemote):
		a.error(w, http.StatusBadGateway, "generation_unavailable", locales.Message(locale, "generation_unavailable"))
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", locales.Message(locale, "nothing_saved"))
	case errors.Is(err, domain.ErrSessionExpired):
		a.error(w, http.StatusConflict, "session_expired", locales.Message(locale, "session_expired"))
	case errors.Is(err, domain.ErrGenerationBusy):
		a.error(w, http.StatusConflict, "generation_busy", locales.Message(locale, "generation_busy"))
	case errors.Is(err, domain.ErrNoConfirmPending):
		a.error(w, http.StatusConflict, "no_confirmation_pending", locales.Message(locale, "no_confirmation_pending"))
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", locales.Message(locale, "bad_request"))
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", locales.Message(locale, "internal_error"))
	}
}

func (a *App) userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (a *App) contentType(r *http.Request) (domain.ContentType, bool) {
	ct, err := domain.ParseContentType(chi.URLParam(r, "type"))
	return ct, err == nil
}
