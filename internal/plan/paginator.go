package plan

import (
	"strings"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
)

// Affordance actions the chat platform renders as buttons.
const (
	ActionPrev     = "prev"
	ActionNext     = "next"
	ActionJumpLast = "jump_last"
	ActionFirst    = "first"
	ActionComplete = "complete"
	ActionUndo     = "undo"
)

type Affordance struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	Index  int    `json:"index"`
}

// Page is one rendered plan page with its navigation affordances.
type Page struct {
	Text  string       `json:"text"`
	Index int          `json:"index"`
	Total int          `json:"total"`
	Nav   []Affordance `json:"nav"`
}

// Paginator decides which affordances accompany a page. The last page of a
// multi-page plan is the advice (workout) or shopping list (nutrition)
// section: it is reachable only by an explicit jump and offers only the way
// back to the first page.
type Paginator struct {
	restWords []string
}

func NewPaginator(restWords []string) *Paginator {
	words := make([]string, 0, len(restWords))
	for _, w := range restWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return &Paginator{restWords: words}
}

// Render builds the page at index. An out-of-range index is clamped, so a
// stale button press degrades to showing a nearby page instead of failing.
func (p *Paginator) Render(pages []string, index int, ct domain.ContentType, completed map[int]bool) (Page, error) {
	if len(pages) == 0 {
		return Page{}, domain.ErrNotFound
	}
	if index < 0 {
		index = 0
	}
	if index > len(pages)-1 {
		index = len(pages) - 1
	}

	page := Page{Text: pages[index], Index: index, Total: len(pages)}
	last := len(pages) - 1

	if index == last && len(pages) > 1 {
		page.Nav = append(page.Nav, Affordance{Action: ActionFirst, Label: "🔄 К началу", Index: 0})
		return page, nil
	}

	if index > 0 {
		page.Nav = append(page.Nav, Affordance{Action: ActionPrev, Label: "⬅️ Назад", Index: index - 1})
	}
	if index < last-1 {
		page.Nav = append(page.Nav, Affordance{Action: ActionNext, Label: "Вперёд ➡️", Index: index + 1})
	}
	if len(pages) > 1 {
		label := "💡 Советы"
		if ct == domain.ContentNutrition {
			label = "🛒 Список покупок"
		}
		page.Nav = append(page.Nav, Affordance{Action: ActionJumpLast, Label: label, Index: last})
	}

	if ct == domain.ContentWorkout && !p.IsRestDay(pages[index]) {
		if completed[index] {
			page.Nav = append(page.Nav, Affordance{Action: ActionUndo, Label: "↩️ Отменить выполнение", Index: index})
		} else {
			page.Nav = append(page.Nav, Affordance{Action: ActionComplete, Label: "✅ Выполнено", Index: index})
		}
	}
	return page, nil
}

// IsRestDay reports whether a page describes a rest day. Rest pages carry no
// completion affordance.
func (p *Paginator) IsRestDay(text string) bool {
	lowered := strings.ToLower(text)
	for _, w := range p.restWords {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
