// Package notifysvc delivers community notifications. Notifications are
// actor-facing activity records ("You liked ...") kept in memory per user,
// most recent first.
package notifysvc

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
)

// keep at most this many notifications per user.
const maxPerUser = 50

type Store struct {
	logger core.Logger

	mu     sync.RWMutex
	byUser map[string][]core.Notification
}

var _ core.Notifier = (*Store)(nil)

func NewStore(logger core.Logger) *Store {
	return &Store{logger: logger, byUser: make(map[string][]core.Notification)}
}

func (s *Store) Notify(_ context.Context, n core.Notification) {
	s.mu.Lock()
	events := append([]core.Notification{n}, s.byUser[n.ActorID]...)
	if len(events) > maxPerUser {
		events = events[:maxPerUser]
	}
	s.byUser[n.ActorID] = events
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("notification: " + n.Message)
	}
}

// Recent returns the user's notifications, newest first.
func (s *Store) Recent(userID string) []core.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Notification(nil), s.byUser[userID]...)
}

// Clear drops the user's notifications.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	delete(s.byUser, userID)
	s.mu.Unlock()
}
