package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/hisakawa/tsunagari/internal/services"
	"github.com/hisakawa/tsunagari/pkg/cache"
)

// graphChannel is the NOTIFY channel the user repository fires on every
// relationship write, with the affected user id as payload.
const graphChannel = "graph_changed"

// ProfileInvalidator keeps the profile cache consistent across instances.
// It uses PostgreSQL LISTEN/NOTIFY: every committed graph write notifies
// graph_changed, and every instance drops its cached copy of the affected
// profile. The instance that performed the write receives its own
// notification too, so local invalidation needs no extra path.
type ProfileInvalidator struct {
	mu       sync.Mutex
	profiles cache.Cache
	listener *pq.Listener
	connStr  string
	stopCh   chan struct{}
	stopped  bool
}

// NewProfileInvalidator creates a new ProfileInvalidator.
// connStr is the PostgreSQL connection string for LISTEN/NOTIFY.
func NewProfileInvalidator(profiles cache.Cache, connStr string) *ProfileInvalidator {
	return &ProfileInvalidator{
		profiles: profiles,
		connStr:  connStr,
		stopCh:   make(chan struct{}),
	}
}

// Start begins listening for graph change notifications.
func (inv *ProfileInvalidator) Start() error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			// Reconnects are automatic; stale entries expire via TTL meanwhile.
			slog.Warn("profile invalidator listener error", "error", err)
		}
	}

	inv.listener = pq.NewListener(inv.connStr, 10*time.Second, time.Minute, reportProblem)

	if err := inv.listener.Listen(graphChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", graphChannel, err)
	}

	go inv.handleNotifications()

	return nil
}

// Stop stops the listener and cleans up resources.
func (inv *ProfileInvalidator) Stop() error {
	inv.mu.Lock()
	if inv.stopped {
		inv.mu.Unlock()
		return nil
	}
	inv.stopped = true
	close(inv.stopCh)
	inv.mu.Unlock()

	if inv.listener != nil {
		return inv.listener.Close()
	}
	return nil
}

// handleNotifications processes incoming NOTIFY events.
func (inv *ProfileInvalidator) handleNotifications() {
	for {
		select {
		case <-inv.stopCh:
			return
		case notification := <-inv.listener.Notify:
			if notification == nil {
				// Connection lost, listener will reconnect automatically
				continue
			}
			inv.invalidate(notification.Extra)
		case <-time.After(90 * time.Second):
			// Periodic ping to keep connection alive
			go func() {
				if err := inv.listener.Ping(); err != nil {
					slog.Warn("profile invalidator ping error", "error", err)
				}
			}()
		}
	}
}

// invalidate drops the cached profile of a user. Called with the
// notification payload; an empty payload is ignored.
func (inv *ProfileInvalidator) invalidate(userID string) {
	if userID == "" {
		return
	}
	if err := inv.profiles.Delete(context.Background(), services.ProfileCacheKey(userID)); err != nil {
		slog.Warn("profile cache invalidation failed", "user_id", userID, "error", err)
	}
}
