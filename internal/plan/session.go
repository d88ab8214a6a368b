package plan

import (
	"sync"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/domain"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/providers/llm"
)

// chatHistoryTurns is how many question/answer exchanges the coach chat
// remembers per user.
const chatHistoryTurns = 6

type sessionKey struct {
	userID int64
	ct     domain.ContentType
}

// SessionStore holds per-user pagination state and chat history in memory.
// Sessions are recreated from the plan store and completion log on demand, so
// losing them on restart costs one reload, not data.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*domain.PaginationSession
	chats    map[int64][]llm.Message
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[sessionKey]*domain.PaginationSession),
		chats:    make(map[int64][]llm.Message),
	}
}

// Start replaces any existing session with a fresh one at page 0. Completion
// marks reconciled from the persistent log are carried in.
func (s *SessionStore) Start(userID int64, ct domain.ContentType, totalPages int, completed map[int]bool) {
	done := make(map[int]bool, len(completed))
	for i, v := range completed {
		if v && i >= 0 && i < totalPages {
			done[i] = true
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey{userID, ct}] = &domain.PaginationSession{
		TotalPages: totalPages,
		Completed:  done,
	}
}

// Load returns a snapshot of the session, or ErrSessionExpired when none
// exists.
func (s *SessionStore) Load(userID int64, ct domain.ContentType) (domain.PaginationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey{userID, ct}]
	if !ok {
		return domain.PaginationSession{}, domain.ErrSessionExpired
	}
	return snapshot(sess), nil
}

// SetIndex records the page the user is on, clamped to the session bounds.
func (s *SessionStore) SetIndex(userID int64, ct domain.ContentType, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey{userID, ct}]
	if !ok {
		return domain.ErrSessionExpired
	}
	if index < 0 {
		index = 0
	}
	if index > sess.TotalPages-1 {
		index = sess.TotalPages - 1
	}
	sess.CurrentIndex = index
	return nil
}

// SetCompleted flips the in-session completion mark for one page.
func (s *SessionStore) SetCompleted(userID int64, ct domain.ContentType, index int, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey{userID, ct}]
	if !ok {
		return domain.ErrSessionExpired
	}
	if index < 0 || index >= sess.TotalPages {
		return domain.ErrInvalidInput
	}
	if done {
		sess.Completed[index] = true
	} else {
		delete(sess.Completed, index)
	}
	return nil
}

// Drop removes the session, typically on artifact replacement.
func (s *SessionStore) Drop(userID int64, ct domain.ContentType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{userID, ct})
}

// ChatHistory returns a copy of the user's recent coach chat exchanges.
func (s *SessionStore) ChatHistory(userID int64) []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.chats[userID]
	out := make([]llm.Message, len(history))
	copy(out, history)
	return out
}

// AppendChatTurn records one question/answer pair, dropping the oldest turns
// past the history limit.
func (s *SessionStore) AppendChatTurn(userID int64, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.chats[userID],
		llm.Message{Role: llm.RoleUser, Content: question},
		llm.Message{Role: llm.RoleAssistant, Content: answer},
	)
	if max := chatHistoryTurns * 2; len(history) > max {
		history = history[len(history)-max:]
	}
	s.chats[userID] = history
}

func snapshot(sess *domain.PaginationSession) domain.PaginationSession {
	done := make(map[int]bool, len(sess.Completed))
	for i, v := range sess.Completed {
		if v {
			done[i] = true
		}
	}
	return domain.PaginationSession{
		CurrentIndex: sess.CurrentIndex,
		TotalPages:   sess.TotalPages,
		Completed:    done,
	}
}
