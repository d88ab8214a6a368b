package plan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/providers/llm"
)

func TestSessionStartAndLoad(t *testing.T) {
	s := NewSessionStore()
	s.Start(7, domain.ContentWorkout, 4, map[int]bool{1: true, 9: true})

	sess, err := s.Load(7, domain.ContentWorkout)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.CurrentIndex != 0 || sess.TotalPages != 4 {
		t.Fatalf("session = %+v", sess)
	}
	if !sess.Completed[1] {
		t.Fatal("reconciled completion lost")
	}
	if sess.Completed[9] {
		t.Fatal("out-of-range completion kept")
	}
}

func TestSessionMissingIsExpired(t *testing.T) {
	s := NewSessionStore()
	if _, err := s.Load(7, domain.ContentWorkout); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if err := s.SetIndex(7, domain.ContentWorkout, 1); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestSessionIndexClamped(t *testing.T) {
	s := NewSessionStore()
	s.Start(7, domain.ContentNutrition, 5, nil)

	if err := s.SetIndex(7, domain.ContentNutrition, 99); err != nil {
		t.Fatalf("set index: %v", err)
	}
	sess, _ := s.Load(7, domain.ContentNutrition)
	if sess.CurrentIndex != 4 {
		t.Fatalf("index = %d, want 4", sess.CurrentIndex)
	}
}

func TestSessionCompletionToggle(t *testing.T) {
	s := NewSessionStore()
	s.Start(7, domain.ContentWorkout, 3, nil)

	if err := s.SetCompleted(7, domain.ContentWorkout, 1, true); err != nil {
		t.Fatalf("set completed: %v", err)
	}
	sess, _ := s.Load(7, domain.ContentWorkout)
	if !sess.Completed[1] {
		t.Fatal("completion not recorded")
	}

	if err := s.SetCompleted(7, domain.ContentWorkout, 1, false); err != nil {
		t.Fatalf("undo: %v", err)
	}
	sess, _ = s.Load(7, domain.ContentWorkout)
	if sess.Completed[1] {
		t.Fatal("undo not recorded")
	}

	if err := s.SetCompleted(7, domain.ContentWorkout, 8, true); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSessionDropOnReplacement(t *testing.T) {
	s := NewSessionStore()
	s.Start(7, domain.ContentWorkout, 3, nil)
	s.Drop(7, domain.ContentWorkout)
	if _, err := s.Load(7, domain.ContentWorkout); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestSessionSnapshotIsolated(t *testing.T) {
	s := NewSessionStore()
	s.Start(7, domain.ContentWorkout, 3, nil)

	sess, _ := s.Load(7, domain.ContentWorkout)
	sess.Completed[0] = true

	again, _ := s.Load(7, domain.ContentWorkout)
	if again.Completed[0] {
		t.Fatal("snapshot shares state with the store")
	}
}

func TestChatHistoryRolling(t *testing.T) {
	s := NewSessionStore()
	for i := 0; i < 10; i++ {
		s.AppendChatTurn(7, fmt.Sprintf("вопрос %d", i), fmt.Sprintf("ответ %d", i))
	}

	history := s.ChatHistory(7)
	if len(history) != chatHistoryTurns*2 {
		t.Fatalf("history len = %d, want %d", len(history), chatHistoryTurns*2)
	}
	if history[0].Role != llm.RoleUser || history[0].Content != "вопрос 4" {
		t.Fatalf("oldest kept = %+v, want вопрос 4", history[0])
	}
	if last := history[len(history)-1]; last.Role != llm.RoleAssistant || last.Content != "ответ 9" {
		t.Fatalf("newest = %+v, want ответ 9", last)
	}
}
