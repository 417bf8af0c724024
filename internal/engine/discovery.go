package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/musedating/muse-engine/internal/domain"
)

// Match probabilities: a trial succeeds when the random draw exceeds the
// threshold, so likes match 40% of the time and super-likes 80%.
const (
	likeMatchThreshold      = 0.6
	superLikeMatchThreshold = 0.2
)

// SwipeRight removes the candidate from the queue and runs a match trial.
// On a match the candidate becomes a Match and is not undoable; otherwise a
// "liked" record is pushed onto the undo stack. Unknown candidate ids are a
// safe no-op. Returns whether a match was made.
func (e *Engine) SwipeRight(candidateID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.removeCandidateLocked(candidateID)
	if !ok {
		return false
	}

	if e.appCtx.Rand.Float64() > likeMatchThreshold {
		e.recordMatchLocked(profile)
		e.persistLocked()
		return true
	}

	e.undoStack = append(e.undoStack, domain.SwipeRecord{
		CandidateID: profile.ID,
		Profile:     profile,
		Action:      domain.SwipeLiked,
	})
	e.persistLocked()
	return false
}

// SwipeLeft removes the candidate and unconditionally pushes a "passed"
// record so the swipe can be undone.
func (e *Engine) SwipeLeft(candidateID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.removeCandidateLocked(candidateID)
	if !ok {
		return
	}

	e.undoStack = append(e.undoStack, domain.SwipeRecord{
		CandidateID: profile.ID,
		Profile:     profile,
		Action:      domain.SwipePassed,
	})
	e.persistLocked()
}

// SuperLike runs a higher-probability match trial. A non-match super-like
// is consumed outright: no undo record is pushed either way, unlike an
// ordinary right swipe.
func (e *Engine) SuperLike(candidateID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.removeCandidateLocked(candidateID)
	if !ok {
		return false
	}

	matched := e.appCtx.Rand.Float64() > superLikeMatchThreshold
	if matched {
		e.recordMatchLocked(profile)
	}
	e.persistLocked()
	return matched
}

// UndoSwipe pops the most recent swipe record and returns its exact
// candidate snapshot to the back of the active queue. No-op when the stack
// is empty; matched candidates are never resurrected (they were never
// pushed).
func (e *Engine) UndoSwipe() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.undoStack) == 0 {
		return false
	}

	top := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.queue = append(e.queue, top.Profile)
	e.persistLocked()
	return true
}

func (e *Engine) removeCandidateLocked(candidateID string) (domain.CandidateProfile, bool) {
	for i, p := range e.queue {
		if p.ID == candidateID {
			e.queue = append(e.queue[:i], e.queue[i+1:]...)
			return p, true
		}
	}
	return domain.CandidateProfile{}, false
}

func (e *Engine) recordMatchLocked(profile domain.CandidateProfile) {
	match := domain.Match{
		ID:        uuid.NewString(),
		MatchedAt: e.now(),
		Candidate: profile,
	}
	if e.currentUser != nil {
		match.MatchedUser = *e.currentUser
	}
	e.matches = append(e.matches, match)
	e.profileStats.Matches++

	e.addNotificationLocked(domain.NotificationMatch,
		fmt.Sprintf("You matched with %s!", profile.Name))

	e.log.Debug("match made", "candidate", profile.ID, "match_id", match.ID)
}
