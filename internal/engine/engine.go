// Package engine owns all mutable domain state for a signed-in session and
// exposes the operations every screen calls: session lifecycle, discovery
// swipes with undo, match/conversation pipeline, entitlements and the
// notification log. One guarded struct, no ambient globals; collaborators
// come in through app.Context.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/musedating/muse-engine/internal/app"
	"github.com/musedating/muse-engine/internal/domain"
)

const (
	defaultSessionTimeout = 24 * time.Hour
	defaultReplyDelay     = 2 * time.Second
	defaultFeedSize       = 40
)

// Options tune the engine. Zero durations fall back to defaults; a negative
// FeedSize falls back too, while zero means "no generated feed" (callers
// supply candidates via LoadFeed).
type Options struct {
	SessionTimeout time.Duration
	ReplyDelay     time.Duration
	FeedSize       int
}

// Engine is the client-side application state store. All public operations
// serialize on one mutex; deferred work (simulated replies) re-enters
// through the same lock and re-validates state before mutating.
type Engine struct {
	appCtx *app.Context
	log    *slog.Logger

	sessionTimeout time.Duration
	replyDelay     time.Duration
	feedSize       int

	mu sync.Mutex

	// session
	currentUser     *domain.User
	isAuthenticated bool
	lastActivity    time.Time
	userLocation    *domain.Location

	// discovery
	queue     []domain.CandidateProfile
	undoStack []domain.SwipeRecord
	matches   []domain.Match

	// conversations
	chats    []domain.Chat
	messages map[string][]domain.Message

	// moments, preferences, stats
	moments      []domain.Moment
	preferences  domain.Preferences
	profileStats domain.ProfileStats

	// entitlement
	premiumPlan   *domain.PremiumPlan
	premiumExpiry *time.Time
	lastBoost     *time.Time

	// volatile
	notifications []domain.Notification
	showOnline    bool
	showProfile   bool

	replyTimers map[string]*time.Timer
	closed      bool
}

// New restores the persisted snapshot (if any) from the store, regenerates
// the volatile discovery feed and returns a ready engine.
func New(appCtx *app.Context, opts Options) *Engine {
	if opts.SessionTimeout <= 0 {
		opts.SessionTimeout = defaultSessionTimeout
	}
	if opts.ReplyDelay <= 0 {
		opts.ReplyDelay = defaultReplyDelay
	}
	if opts.FeedSize < 0 {
		opts.FeedSize = defaultFeedSize
	}

	log := appCtx.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		appCtx:         appCtx,
		log:            log,
		sessionTimeout: opts.SessionTimeout,
		replyDelay:     opts.ReplyDelay,
		feedSize:       opts.FeedSize,
		messages:       map[string][]domain.Message{},
		preferences:    domain.DefaultPreferences(),
		showOnline:     true,
		showProfile:    true,
		replyTimers:    map[string]*time.Timer{},
	}

	e.restore()

	if e.feedSize > 0 {
		e.queue = generateCandidates(e.feedSize, appCtx.Rand)
	}

	return e
}

// Close stops outstanding reply timers. Process shutdown only; it is not
// called on logout (in-flight replies deliberately survive a logout).
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for id, timer := range e.replyTimers {
		timer.Stop()
		delete(e.replyTimers, id)
	}
}

// LoadFeed replaces the active queue with the given candidates.
func (e *Engine) LoadFeed(profiles []domain.CandidateProfile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = append([]domain.CandidateProfile(nil), profiles...)
}

// ResetFeed regenerates the active queue, discarding what is left of it.
func (e *Engine) ResetFeed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = generateCandidates(e.feedSize, e.appCtx.Rand)
}

// persistLocked writes the persisted subset of state through to the durable
// store. Failures are logged and swallowed: the in-memory state stays the
// source of truth for the session.
func (e *Engine) persistLocked() {
	blob, err := e.snapshotLocked()
	if err != nil {
		e.log.Error("snapshot marshal failed", "err", err)
		return
	}
	if err := e.appCtx.Store.Save(context.Background(), blob); err != nil {
		e.log.Warn("snapshot save failed", "err", err)
	}
}

func (e *Engine) now() time.Time { return e.appCtx.Clock.Now() }

// --- read-side accessors (copies, UI must not mutate engine state) ---

func (e *Engine) CurrentUser() *domain.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentUser == nil {
		return nil
	}
	u := *e.currentUser
	return &u
}

func (e *Engine) IsAuthenticated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isAuthenticated
}

func (e *Engine) UserLocation() *domain.Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.userLocation == nil {
		return nil
	}
	loc := *e.userLocation
	return &loc
}

func (e *Engine) Queue() []domain.CandidateProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.CandidateProfile(nil), e.queue...)
}

func (e *Engine) UndoStack() []domain.SwipeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.SwipeRecord(nil), e.undoStack...)
}

func (e *Engine) Matches() []domain.Match {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Match(nil), e.matches...)
}

func (e *Engine) Chats() []domain.Chat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Chat(nil), e.chats...)
}

func (e *Engine) ChatMessages(chatID string) []domain.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Message(nil), e.messages[chatID]...)
}

func (e *Engine) Moments() []domain.Moment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Moment(nil), e.moments...)
}

func (e *Engine) Preferences() domain.Preferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preferences
}

func (e *Engine) Stats() domain.ProfileStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profileStats
}
