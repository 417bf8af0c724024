package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/engine"
)

func TestAddMomentRequiresSession(t *testing.T) {
	f := newFixture(t, engine.Options{})

	f.eng.AddMoment("img.jpg", "no one is signed in")
	assert.Empty(t, f.eng.Moments())
}

func TestAddMomentStampsOwner(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.idp.register("ana@example.com", "hunter22", domain.User{
		Name: "Ana", Photos: []string{"ana.jpg"},
	})
	require.NoError(t, f.eng.Login(t.Context(), "ana@example.com", "hunter22"))

	f.eng.AddMoment("sunset.jpg", "golden hour")
	f.eng.AddMoment("coffee.jpg", "morning")

	moments := f.eng.Moments()
	require.Len(t, moments, 2)
	// Newest first.
	assert.Equal(t, "morning", moments[0].Caption)
	assert.Equal(t, "Ana", moments[0].UserName)
	assert.Equal(t, "ana.jpg", moments[0].UserPhoto)
	assert.Equal(t, testEpoch, moments[0].CreatedAt)
}

func TestViewMoment(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.login(t)
	f.eng.AddMoment("img.jpg", "hello")
	id := f.eng.Moments()[0].ID

	f.eng.ViewMoment(id)
	f.eng.ViewMoment(id)
	f.eng.ViewMoment("no-such-moment")

	assert.Equal(t, 2, f.eng.Moments()[0].Views)
}

func TestUpdatePreferencesMerges(t *testing.T) {
	f := newFixture(t, engine.Options{})

	dist := 10
	f.eng.UpdatePreferences(engine.PreferencesUpdate{Distance: &dist})

	prefs := f.eng.Preferences()
	assert.Equal(t, 10, prefs.Distance)
	// Untouched fields keep their defaults.
	assert.Equal(t, [2]int{18, 50}, prefs.AgeRange)
	assert.Equal(t, "all", prefs.Gender)

	ages := [2]int{25, 35}
	gender := "women"
	f.eng.UpdatePreferences(engine.PreferencesUpdate{AgeRange: &ages, Gender: &gender})

	prefs = f.eng.Preferences()
	assert.Equal(t, [2]int{25, 35}, prefs.AgeRange)
	assert.Equal(t, "women", prefs.Gender)
	assert.Equal(t, 10, prefs.Distance)
}

func TestProfileStatCounters(t *testing.T) {
	f := newFixture(t, engine.Options{})

	f.eng.AddProfileView()
	f.eng.AddProfileView()
	f.eng.AddLikeReceived()

	stats := f.eng.Stats()
	assert.Equal(t, 2, stats.ProfileViews)
	assert.Equal(t, 1, stats.Likes)
}

func TestVisibilityToggles(t *testing.T) {
	f := newFixture(t, engine.Options{})

	online, profile := f.eng.Visibility()
	assert.True(t, online)
	assert.True(t, profile)

	f.eng.SetShowOnline(false)
	f.eng.SetShowProfile(false)
	online, profile = f.eng.Visibility()
	assert.False(t, online)
	assert.False(t, profile)
}

func TestNotificationLog(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.login(t)
	f.eng.LoadFeed(candidates("A", "B"))
	f.rnd.vals = []float64{0.9}

	require.True(t, f.eng.SwipeRight("A"))
	f.eng.RecordCallEnded("Priya", 95*time.Second)

	notes := f.eng.Notifications()
	require.Len(t, notes, 2)
	// Newest first.
	assert.Equal(t, domain.NotificationCall, notes[0].Type)
	assert.Equal(t, domain.NotificationMatch, notes[1].Type)
	assert.Equal(t, 2, f.eng.UnreadNotifications())

	f.eng.MarkNotificationRead(notes[0].ID)
	assert.Equal(t, 1, f.eng.UnreadNotifications())
	f.eng.MarkNotificationRead("no-such-id")
	assert.Equal(t, 1, f.eng.UnreadNotifications())
}

func TestResetFeedRegenerates(t *testing.T) {
	f := newFixture(t, engine.Options{FeedSize: 10})
	first := f.eng.Queue()
	require.Len(t, first, 10)

	f.eng.SwipeLeft(first[0].ID)
	require.Len(t, f.eng.Queue(), 9)

	f.eng.ResetFeed()
	second := f.eng.Queue()
	require.Len(t, second, 10)
	assert.NotEqual(t, first[0].ID, second[0].ID)
}
