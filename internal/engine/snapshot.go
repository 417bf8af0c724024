package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/store"
)

// snapshot is the persisted subset of engine state. The active discovery
// queue, notifications and call state are volatile and never serialized:
// they regenerate or reset on reload.
type snapshot struct {
	CurrentUser     *domain.User                `json:"currentUser"`
	IsAuthenticated bool                        `json:"isAuthenticated"`
	LastActivity    *time.Time                  `json:"lastActivity"`
	MatchedProfiles []domain.Match              `json:"matchedProfiles"`
	PassedProfiles  []domain.SwipeRecord        `json:"passedProfiles"`
	Chats           []domain.Chat               `json:"chats"`
	Messages        map[string][]domain.Message `json:"messages"`
	Moments         []domain.Moment             `json:"moments"`
	Preferences     domain.Preferences          `json:"preferences"`
	PremiumPlan     *domain.PremiumPlan         `json:"premiumPlan"`
	PremiumExpiry   *time.Time                  `json:"premiumExpiry"`
	ProfileStats    domain.ProfileStats         `json:"profileStats"`
	LastBoost       *time.Time                  `json:"lastBoost"`
}

func (e *Engine) snapshotLocked() ([]byte, error) {
	snap := snapshot{
		CurrentUser:     e.currentUser,
		IsAuthenticated: e.isAuthenticated,
		MatchedProfiles: e.matches,
		PassedProfiles:  e.undoStack,
		Chats:           e.chats,
		Messages:        e.messages,
		Moments:         e.moments,
		Preferences:     e.preferences,
		PremiumPlan:     e.premiumPlan,
		PremiumExpiry:   e.premiumExpiry,
		ProfileStats:    e.profileStats,
		LastBoost:       e.lastBoost,
	}
	if !e.lastActivity.IsZero() {
		la := e.lastActivity
		snap.LastActivity = &la
	}
	return json.Marshal(&snap)
}

// restore loads the persisted snapshot at startup. A missing snapshot means
// a fresh install; a corrupt one is logged and discarded rather than
// crashing the host.
func (e *Engine) restore() {
	blob, err := e.appCtx.Store.Load(context.Background())
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		e.log.Warn("snapshot load failed", "err", err)
		return
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		e.log.Warn("snapshot corrupt, starting fresh", "err", err)
		return
	}

	e.currentUser = snap.CurrentUser
	e.isAuthenticated = snap.IsAuthenticated
	if snap.LastActivity != nil {
		e.lastActivity = *snap.LastActivity
	}
	e.matches = snap.MatchedProfiles
	e.undoStack = snap.PassedProfiles
	e.chats = snap.Chats
	if snap.Messages != nil {
		e.messages = snap.Messages
	}
	e.moments = snap.Moments
	if snap.Preferences != (domain.Preferences{}) {
		e.preferences = snap.Preferences
	}
	e.premiumPlan = snap.PremiumPlan
	e.premiumExpiry = snap.PremiumExpiry
	e.profileStats = snap.ProfileStats
	e.lastBoost = snap.LastBoost
}
