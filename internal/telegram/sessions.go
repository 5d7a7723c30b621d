package telegram

import (
	"sync"
	"time"

	"github.com/avkuzn/Salon-BookingBot/pkg/types"
)

// Шаги диалога записи
const (
	stepDate    = "await_date"
	stepTime    = "await_time"
	stepComment = "await_comment"
	stepPhone   = "await_phone"
)

// session состояние диалога записи одного чата.
// Хранится только в памяти: после рестарта клиент начнет диалог заново,
// созданные удержания при этом не теряются.
type session struct {
	Step        string
	ServiceID   int64
	ServiceName string
	Date        time.Time
	StartTime   types.TimeString
	Comment     *string
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

func (s *sessionStore) get(chatID int64) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID]
}

func (s *sessionStore) set(chatID int64, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = sess
}

func (s *sessionStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
