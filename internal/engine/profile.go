package engine

import (
	"github.com/google/uuid"

	"github.com/musedating/muse-engine/internal/domain"
)

// AddMoment posts a story stamped with the signed-in user's identity.
// No-op when signed out.
func (e *Engine) AddMoment(image, caption string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.currentUser == nil {
		return
	}

	moment := domain.Moment{
		ID:        uuid.NewString(),
		UserID:    e.currentUser.ID,
		UserName:  e.currentUser.Name,
		Image:     image,
		Caption:   caption,
		CreatedAt: e.now(),
	}
	if len(e.currentUser.Photos) > 0 {
		moment.UserPhoto = e.currentUser.Photos[0]
	}
	e.moments = append([]domain.Moment{moment}, e.moments...)
	e.persistLocked()
}

// ViewMoment bumps the view counter. Unknown ids no-op.
func (e *Engine) ViewMoment(momentID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.moments {
		if e.moments[i].ID == momentID {
			e.moments[i].Views++
			e.persistLocked()
			return
		}
	}
}

// PreferencesUpdate carries partial preference changes; nil fields keep
// their current value.
type PreferencesUpdate struct {
	AgeRange *[2]int
	Distance *int
	Gender   *string
}

// UpdatePreferences merges the update into the stored filters.
func (e *Engine) UpdatePreferences(upd PreferencesUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if upd.AgeRange != nil {
		e.preferences.AgeRange = *upd.AgeRange
	}
	if upd.Distance != nil {
		e.preferences.Distance = *upd.Distance
	}
	if upd.Gender != nil {
		e.preferences.Gender = *upd.Gender
	}
	e.persistLocked()
}

// AddProfileView records that someone viewed this profile.
func (e *Engine) AddProfileView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profileStats.ProfileViews++
	e.persistLocked()
}

// AddLikeReceived records an incoming like.
func (e *Engine) AddLikeReceived() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profileStats.Likes++
	e.persistLocked()
}

// SetShowOnline toggles the online-status visibility flag (volatile).
func (e *Engine) SetShowOnline(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.showOnline = v
}

// SetShowProfile toggles discovery visibility (volatile).
func (e *Engine) SetShowProfile(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.showProfile = v
}

// Visibility returns the showOnline/showProfile pair.
func (e *Engine) Visibility() (showOnline, showProfile bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.showOnline, e.showProfile
}
