package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
)

// PageBreakToken is the explicit page delimiter the prompts ask the model to
// emit between sections. The segmenter splits on it first.
const PageBreakToken = "===PAGE_BREAK==="

// PromptConfig carries the persona wording and is injected at construction so
// prompt copy never lives in package state.
type PromptConfig struct {
	WorkoutPersona   string
	NutritionPersona string
	ChatPersona      string
}

// DefaultPromptConfig returns the stock coach personas.
func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		WorkoutPersona:   "Ты — TrAIner, персональный фитнес-тренер. Пиши программу, используя HTML теги (b, i).",
		NutritionPersona: "Ты — TrAIner, тренер-диетолог. Пиши кратко, без вступлений.",
		ChatPersona:      "Ты — фитнес-тренер TrAIner.",
	}
}

// PromptBuilder turns a user profile into backend-agnostic prompt specs.
type PromptBuilder struct {
	cfg PromptConfig
	now func() time.Time
}

func NewPromptBuilder(cfg PromptConfig) *PromptBuilder {
	return &PromptBuilder{cfg: cfg, now: time.Now}
}

// Workout builds the weekly training plan prompt. Days are anchored to real
// dates so the generated headers line up with the user's week.
func (b *PromptBuilder) Workout(u *domain.User) PromptSpec {
	days := u.WorkoutDays
	if days < 1 || days > 6 {
		days = 3
	}
	dates := strings.Join(scheduleDates(b.now(), days), ", ")

	body := fmt.Sprintf(`СОСТАВЬ ПРОГРАММУ (%s, Цель: %s, %d дн).
ДАТЫ ТРЕНИРОВОК: %s

ФОРМАТ ДНЯ (Строго):
📅 <b>[Дата] — [Группа мышц]</b>
1. <b>[Упражнение]</b>
<i>[Подходы] x [Повторения]</i>
Техника: [Очень кратко]

Раздели дни строкой %s.
В конце добавь блок "💡 Советы".`, workoutLevel(u), goalText(u.Goal), days, dates, PageBreakToken)

	return PromptSpec{
		Kind: KindWorkout,
		Messages: []Message{
			{Role: RoleSystem, Content: b.cfg.WorkoutPersona},
			{Role: RoleUser, Content: body},
		},
		Temperature: 0.3,
		Profile:     u,
	}
}

// Nutrition builds the daily menu prompt around the computed calorie target.
func (b *PromptBuilder) Nutrition(u *domain.User) PromptSpec {
	kcal := TargetCalories(u)

	body := fmt.Sprintf(`Составь рацион на ~%d ккал для цели: %s.
ВАЖНО: НЕ ПИШИ ВСТУПЛЕНИЕ.

ФОРМАТ ВЫВОДА ДЛЯ КАЖДОГО БЛЮДА:
Вариант X: <b>[Блюдо]</b>
* [Состав кратко]
* <b>КБЖУ: ~[ккал] (Б:.., Ж:.., У:..)</b>

СТРУКТУРА МЕНЮ:
🍳 <b>ЗАВТРАК (3 варианта)</b>
%[3]s
🍲 <b>ОБЕД (3 варианта)</b>
%[3]s
🥗 <b>УЖИН (3 варианта)</b>
%[3]s
🥪 <b>ПЕРЕКУСЫ (3 варианта)</b>
%[3]s
🛒 <b>СПИСОК ПРОДУКТОВ</b>`, kcal, goalText(u.Goal), PageBreakToken)

	return PromptSpec{
		Kind: KindNutrition,
		Messages: []Message{
			{Role: RoleSystem, Content: b.cfg.NutritionPersona},
			{Role: RoleUser, Content: body},
		},
		Temperature: 0.4,
		Profile:     u,
	}
}

// Chat builds a coach chat turn from the rolling history.
func (b *PromptBuilder) Chat(u *domain.User, history []Message) PromptSpec {
	name := u.Name
	if name == "" {
		name = "Атлет"
	}
	system := fmt.Sprintf("%s Твой подопечный: %s, цель: %s.", b.cfg.ChatPersona, name, goalText(u.Goal))

	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	msgs = append(msgs, history...)
	return PromptSpec{Kind: KindChat, Messages: msgs, Temperature: 0.7, Profile: u}
}

// TargetCalories computes the Mifflin-St Jeor target with a light activity
// multiplier and a goal adjustment. Falls back to 2000 on an empty profile.
func TargetCalories(u *domain.User) int {
	if u == nil || u.Weight <= 0 || u.Height <= 0 || u.Age <= 0 {
		return 2000
	}
	bmr := 10*u.Weight + 6.25*u.Height - 5*float64(u.Age)
	if u.Gender == domain.GenderFemale {
		bmr -= 161
	} else {
		bmr += 5
	}
	total := int(bmr * activityMultiplier(u.ActivityLevel))

	switch u.Goal {
	case domain.GoalWeightLoss:
		total -= 400
	case domain.GoalMuscleGain:
		total += 300
	case domain.GoalRecomposition:
		total -= 150
	}
	return total
}

func activityMultiplier(a domain.ActivityLevel) float64 {
	switch a {
	case domain.ActivitySedentary:
		return 1.2
	case domain.ActivityLight:
		return 1.375
	case domain.ActivityHigh:
		return 1.725
	default:
		return 1.55
	}
}

var (
	monthsShort   = []string{"янв", "фев", "мар", "апр", "май", "июн", "июл", "авг", "сен", "окт", "ноя", "дек"}
	weekdaysShort = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

	// Day offsets inside a week for each training frequency.
	scheduleOffsets = map[int][]int{
		1: {0},
		2: {0, 3},
		3: {0, 2, 4},
		4: {0, 1, 3, 4},
		5: {0, 1, 2, 3, 4},
		6: {0, 1, 2, 3, 4, 5},
	}
)

// scheduleDates renders human-readable training dates starting today.
func scheduleDates(today time.Time, days int) []string {
	offsets, ok := scheduleOffsets[days]
	if !ok {
		offsets = scheduleOffsets[3]
	}
	out := make([]string, 0, len(offsets))
	for _, off := range offsets {
		d := today.AddDate(0, 0, off)
		out = append(out, fmt.Sprintf("%d %s (%s)", d.Day(), monthsShort[d.Month()-1], weekdaysShort[d.Weekday()]))
	}
	return out
}

func goalText(g domain.Goal) string {
	switch g {
	case domain.GoalWeightLoss:
		return "похудение"
	case domain.GoalMuscleGain:
		return "набор массы"
	case domain.GoalRecomposition:
		return "рекомпозиция"
	default:
		return "поддержание формы"
	}
}

func workoutLevel(u *domain.User) string {
	if u.WorkoutLevel == "" {
		return "Новичок"
	}
	return u.WorkoutLevel
}
