package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/http/handlers"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/http/httpapi"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/orchestrator"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/plan"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/providers/llm"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/quota"
)

type memUsers struct {
	users map[int64]*domain.User
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Upsert(_ context.Context, id int64, up domain.ProfileUpdate) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		u = &domain.User{TelegramID: id, PlanQuota: 10, ChatQuota: 30}
		m.users[id] = u
	}
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.Age != nil {
		u.Age = *up.Age
	}
	if up.Weight != nil {
		u.Weight = *up.Weight
	}
	if up.Height != nil {
		u.Height = *up.Height
	}
	if up.Gender != nil {
		u.Gender = *up.Gender
	}
	if up.ActivityLevel != nil {
		u.ActivityLevel = *up.ActivityLevel
	}
	if up.Goal != nil {
		u.Goal = *up.Goal
	}
	if up.WorkoutDays != nil {
		u.WorkoutDays = *up.WorkoutDays
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) CommitQuota(_ context.Context, id int64, action domain.ActionType, ct domain.ContentType, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if action == domain.ActionChat {
		u.ChatQuota--
		return nil
	}
	u.PlanQuota--
	if ct == domain.ContentNutrition {
		u.NutritionGeneratedAt = &at
	} else {
		u.WorkoutGeneratedAt = &at
	}
	return nil
}

func (m *memUsers) ResetQuota(context.Context, int64, int, int) error { return nil }
func (m *memUsers) SetPrivileged(context.Context, int64, bool) error  { return nil }

type memPlans struct {
	pages map[domain.ContentType][]string
}

func (m *memPlans) Get(_ context.Context, _ int64, ct domain.ContentType) (*domain.Artifact, error) {
	pages, ok := m.pages[ct]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Artifact{ContentType: ct, Pages: pages}, nil
}

func (m *memPlans) Replace(_ context.Context, _ int64, ct domain.ContentType, pages []string) error {
	m.pages[ct] = pages
	return nil
}

func (m *memPlans) Clear(_ context.Context, _ int64, ct domain.ContentType) error {
	delete(m.pages, ct)
	return nil
}

type memCompletions struct {
	labels map[string]bool
}

func (m *memCompletions) Append(_ context.Context, _ int64, label string) error {
	m.labels[label] = true
	return nil
}

func (m *memCompletions) Remove(_ context.Context, _ int64, label string) error {
	delete(m.labels, label)
	return nil
}

func (m *memCompletions) Clear(_ context.Context, _ int64) error {
	m.labels = make(map[string]bool)
	return nil
}

func (m *memCompletions) List(_ context.Context, id int64) ([]domain.Completion, error) {
	var out []domain.Completion
	for label := range m.labels {
		out = append(out, domain.Completion{UserID: id, DayLabel: label})
	}
	return out, nil
}

type staticGen struct{ text string }

func (g *staticGen) Generate(context.Context, llm.PromptSpec) (string, error) { return g.text, nil }
func (g *staticGen) Name() string                                             { return "static" }

func fitUser() *domain.User {
	return &domain.User{
		TelegramID:    42,
		Name:          "Аня",
		Age:           28,
		Weight:        60,
		Height:        168,
		Gender:        domain.GenderFemale,
		ActivityLevel: domain.ActivityLight,
		Goal:          domain.GoalMaintenance,
		WorkoutDays:   2,
		PlanQuota:     3,
		ChatQuota:     5,
	}
}

func newTestServer(t *testing.T, users *memUsers) http.Handler {
	t.Helper()
	plans := &memPlans{pages: make(map[domain.ContentType][]string)}
	completions := &memCompletions{labels: make(map[string]bool)}
	guard := quota.New(quota.Options{Users: users, PlanCooldown: 5 * time.Minute})
	orch := orchestrator.New(orchestrator.Options{
		Users:       users,
		Plans:       plans,
		Completions: completions,
		Guard:       guard,
		Generator:   &staticGen{text: "📅 День 1: приседания и выпады дома\n===PAGE_BREAK===\n💡 Советы: следи за техникой"},
		Prompts:     llm.NewPromptBuilder(llm.DefaultPromptConfig()),
		Segmenter:   plan.NewSegmenter(4096, 20),
		Paginator:   plan.NewPaginator([]string{"отдых"}),
		Sessions:    plan.NewSessionStore(),
		GenTimeout:  time.Second,
		Logger:      zerolog.Nop(),
	})
	app := handlers.NewApp(orch, users, zerolog.Nop())
	return httpapi.NewRouter(httpapi.Options{App: app, Logger: zerolog.Nop(), DefaultLocale: "ru"})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, hdr map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	payload := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return rec, payload
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{}})
	rec, body := doJSON(t, h, http.MethodGet, "/v1/healthz", "", nil)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
}

func TestProfileUpsertThenGet(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{}})

	rec, body := doJSON(t, h, http.MethodPut, "/v1/users/42/profile",
		`{"name":"Аня","age":28,"weight":60,"height":168,"gender":"female","goal":"maintenance"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert code = %d body=%v", rec.Code, body)
	}
	if body["gender"] != "female" {
		t.Fatalf("gender = %v", body["gender"])
	}

	rec, body = doJSON(t, h, http.MethodGet, "/v1/users/42/profile", "", nil)
	if rec.Code != http.StatusOK || body["name"] != "Аня" {
		t.Fatalf("get code=%d body=%v", rec.Code, body)
	}
}

func TestProfileUpsertRejectsUnknownEnum(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{}})
	rec, body := doJSON(t, h, http.MethodPut, "/v1/users/42/profile", `{"gender":"other"}`, nil)
	if rec.Code != http.StatusBadRequest || body["code"] != "bad_request" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
}

func TestPlanRequestFirstTime(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})

	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
	if body["total_pages"] != float64(2) || body["page"] != float64(0) {
		t.Fatalf("body=%v", body)
	}
	text, _ := body["text"].(string)
	if !strings.HasPrefix(text, "📅") {
		t.Fatalf("text = %q", text)
	}
}

func TestPlanRequestQuotaExceeded(t *testing.T) {
	u := fitUser()
	u.PlanQuota = 0
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: u}})

	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "", nil)
	if rec.Code != http.StatusForbidden || body["code"] != "quota_exceeded" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}

	// The English catalog serves the same denial when the client asks for it.
	rec, body = doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "",
		map[string]string{"X-Locale": "en"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code=%d", rec.Code)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "Subscribe") {
		t.Fatalf("message = %q, want English copy", body["message"])
	}
}

func TestPlanRequestCooldown(t *testing.T) {
	u := fitUser()
	recent := time.Now().Add(-time.Minute)
	u.WorkoutGeneratedAt = &recent
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: u}})

	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "", nil)
	if rec.Code != http.StatusTooManyRequests || body["code"] != "cooldown_active" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
	retry, _ := body["retry_after_seconds"].(float64)
	if retry < 230 || retry > 240 {
		t.Fatalf("retry_after_seconds = %v, want ~240", retry)
	}
}

func TestConfirmFlow(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})

	// First generation saves a plan, second request asks for confirmation.
	if rec, _ := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("first request code=%d", rec.Code)
	}
	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "", nil)
	if rec.Code != http.StatusOK || body["status"] != "confirmation_required" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}

	rec, body = doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/confirm", "", nil)
	if rec.Code != http.StatusOK || body["total_pages"] != float64(2) {
		t.Fatalf("confirm code=%d body=%v", rec.Code, body)
	}

	rec, body = doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/cancel", "", nil)
	if rec.Code != http.StatusConflict || body["code"] != "no_confirmation_pending" {
		t.Fatalf("cancel code=%d body=%v", rec.Code, body)
	}
}

func TestViewWithoutPlan(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})
	rec, body := doJSON(t, h, http.MethodGet, "/v1/users/42/plans/nutrition/", "", nil)
	if rec.Code != http.StatusNotFound || body["code"] != "not_found" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
}

func TestPlanDelete(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})

	rec, _ := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("request code=%d", rec.Code)
	}

	rec, body := doJSON(t, h, http.MethodDelete, "/v1/users/42/plans/workout/", "", nil)
	if rec.Code != http.StatusOK || body["status"] != "deleted" {
		t.Fatalf("delete code=%d body=%v", rec.Code, body)
	}

	rec, body = doJSON(t, h, http.MethodGet, "/v1/users/42/plans/workout/", "", nil)
	if rec.Code != http.StatusNotFound || body["code"] != "not_found" {
		t.Fatalf("view after delete code=%d body=%v", rec.Code, body)
	}
}

func TestNavigateWithoutSession(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})
	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/page", `{"index":1}`, nil)
	if rec.Code != http.StatusConflict || body["code"] != "session_expired" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
}

func TestNavigateAndComplete(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})
	if rec, _ := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/request", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("request failed")
	}

	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/page", `{"index":1}`, nil)
	if rec.Code != http.StatusOK || body["page"] != float64(1) {
		t.Fatalf("navigate code=%d body=%v", rec.Code, body)
	}

	rec, body = doJSON(t, h, http.MethodPost, "/v1/users/42/plans/workout/complete", `{"index":0}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete code=%d body=%v", rec.Code, body)
	}

	rec, body = doJSON(t, h, http.MethodPost, "/v1/users/42/plans/nutrition/complete", `{"index":0}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("nutrition complete code=%d body=%v", rec.Code, body)
	}
}

func TestUnknownPlanType(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})
	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/plans/cardio/request", "", nil)
	if rec.Code != http.StatusBadRequest || body["code"] != "bad_request" {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
}

func TestChatEndpoint(t *testing.T) {
	h := newTestServer(t, &memUsers{users: map[int64]*domain.User{42: fitUser()}})

	rec, body := doJSON(t, h, http.MethodPost, "/v1/users/42/chat", `{"message":"Как часто тренироваться?"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d body=%v", rec.Code, body)
	}
	if answer, _ := body["answer"].(string); answer == "" {
		t.Fatalf("empty answer: %v", body)
	}

	rec, body = doJSON(t, h, http.MethodPost, "/v1/users/42/chat", `{"message":"  "}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank message code=%d body=%v", rec.Code, body)
	}
}
