package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/musedating/muse-engine/internal/domain"
)

// Notifications returns the log, newest first. The log is volatile: it is
// never persisted and resets on reload.
func (e *Engine) Notifications() []domain.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Notification(nil), e.notifications...)
}

// MarkNotificationRead flips the read flag. Unknown ids no-op.
func (e *Engine) MarkNotificationRead(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.notifications {
		if e.notifications[i].ID == id {
			e.notifications[i].Read = true
			return
		}
	}
}

// UnreadNotifications counts entries still marked unread.
func (e *Engine) UnreadNotifications() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for i := range e.notifications {
		if !e.notifications[i].Read {
			n++
		}
	}
	return n
}

// RecordCallEnded feeds the notification log from the call machine; wire it
// to the machine's "ended" event.
func (e *Engine) RecordCallEnded(counterpartName string, duration time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addNotificationLocked(domain.NotificationCall,
		fmt.Sprintf("Call with %s ended (%s)", counterpartName, duration.Round(time.Second)))
}

func (e *Engine) addNotificationLocked(typ domain.NotificationType, message string) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Message:   message,
		CreatedAt: e.now(),
	}
	e.notifications = append([]domain.Notification{n}, e.notifications...)
}
