package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
)

func TestOfflineWorkoutPlanStructure(t *testing.T) {
	gen := NewOffline()
	spec := NewPromptBuilder(DefaultPromptConfig()).Workout(testUser())

	text, err := gen.Generate(context.Background(), spec)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	// 3 training days plus the advice block.
	if got := strings.Count(text, PageBreakToken); got != 3 {
		t.Fatalf("page breaks = %d, want 3", got)
	}
	if got := strings.Count(text, "📅"); got != 3 {
		t.Fatalf("day headers = %d, want 3", got)
	}
	if !strings.Contains(text, "💡 <b>Советы</b>") {
		t.Fatalf("plan missing advice block:\n%s", text)
	}
}

func TestOfflineNutritionPlanStructure(t *testing.T) {
	gen := NewOffline()
	spec := NewPromptBuilder(DefaultPromptConfig()).Nutrition(testUser())

	text, err := gen.Generate(context.Background(), spec)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	for _, header := range []string{"🍳", "🍲", "🥗", "🥪", "🛒"} {
		if !strings.Contains(text, header) {
			t.Fatalf("menu missing %s section:\n%s", header, text)
		}
	}
	if got := strings.Count(text, PageBreakToken); got != 4 {
		t.Fatalf("page breaks = %d, want 4", got)
	}
}

func TestOfflineRespectsCancelledContext(t *testing.T) {
	gen := NewOffline()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gen.Generate(ctx, PromptSpec{Kind: KindWorkout, Profile: &domain.User{}}); err == nil {
		t.Fatal("Generate succeeded on a cancelled context")
	}
}
