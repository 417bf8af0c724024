package engine_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musedating/muse-engine/internal/app"
	"github.com/musedating/muse-engine/internal/clock"
	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/engine"
	"github.com/musedating/muse-engine/internal/identity"
	"github.com/musedating/muse-engine/internal/store"
)

//
// Test fakes
//

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	mu   sync.Mutex
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.vals) == 0 {
		return 0.5
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func (r *seqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.i++
	return (r.i - 1) % n
}

// fakeIdentity is an in-memory identity provider.
type fakeIdentity struct {
	mu        sync.Mutex
	users     map[string]domain.User // keyed by lowercased email
	passwords map[string]string
	listeners []func(*domain.User)
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		users:     map[string]domain.User{},
		passwords: map[string]string{},
	}
}

func (f *fakeIdentity) register(email, password string, user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	user.Email = key
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users[key] = user
	f.passwords[key] = password
}

func (f *fakeIdentity) Login(_ context.Context, email, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	user, ok := f.users[key]
	if !ok || f.passwords[key] != password {
		return nil, identity.ErrInvalidCredentials
	}
	u := user
	return &u, nil
}

func (f *fakeIdentity) Signup(_ context.Context, email, password string, draft domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := f.users[key]; ok {
		return nil, identity.ErrEmailTaken
	}
	draft.ID = uuid.NewString()
	draft.Email = key
	f.users[key] = draft
	f.passwords[key] = password
	u := draft
	return &u, nil
}

func (f *fakeIdentity) Logout(_ context.Context) error { return nil }

func (f *fakeIdentity) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeIdentity) OnAuthChange(fn func(*domain.User)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

//
// Fixture
//

type fixture struct {
	eng    *engine.Engine
	st     *store.Memory
	idp    *fakeIdentity
	clk    *clock.Manual
	rnd    *seqRand
	appCtx *app.Context
}

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newFixture builds an engine over a memory store with a manual clock, a
// scripted RNG and an empty feed (tests load candidates explicitly).
func newFixture(t *testing.T, opts engine.Options) *fixture {
	t.Helper()

	st := store.NewMemory()
	idp := newFakeIdentity()
	clk := clock.NewManual(testEpoch)
	rnd := &seqRand{}

	appCtx := app.New(st, idp, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	appCtx.Clock = clk
	appCtx.Rand = rnd

	eng := engine.New(appCtx, opts)
	t.Cleanup(eng.Close)

	return &fixture{eng: eng, st: st, idp: idp, clk: clk, rnd: rnd, appCtx: appCtx}
}

func candidates(ids ...string) []domain.CandidateProfile {
	out := make([]domain.CandidateProfile, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.CandidateProfile{ID: id, Name: "c-" + id, Age: 25})
	}
	return out
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.idp.register("ana@example.com", "hunter22", domain.User{Name: "Ana", Age: 25})
	require.NoError(t, f.eng.Login(context.Background(), "ana@example.com", "hunter22"))
}

//
// Startup and persistence
//

func TestFreshEngineGeneratesFeed(t *testing.T) {
	f := newFixture(t, engine.Options{FeedSize: 40})
	assert.Len(t, f.eng.Queue(), 40)
	assert.False(t, f.eng.IsAuthenticated())
	assert.Equal(t, domain.DefaultPreferences(), f.eng.Preferences())
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: time.Hour})
	f.login(t)

	f.eng.LoadFeed(candidates("a", "b", "c"))
	f.rnd.vals = []float64{0.9} // next right swipe matches
	require.True(t, f.eng.SwipeRight("a"))
	f.eng.SwipeLeft("b")

	chatID := f.eng.CreateChat(f.eng.Matches()[0].Candidate)
	f.eng.SendMessage(chatID, "hello there")
	require.True(t, f.eng.PurchasePremium("weekly"))
	f.eng.AddMoment("img.jpg", "sunset")
	f.eng.AddLikeReceived()

	// A second engine over the same store must restore the persisted subset.
	restored := engine.New(f.appCtx, engine.Options{FeedSize: 40})
	t.Cleanup(restored.Close)

	require.NotNil(t, restored.CurrentUser())
	assert.Equal(t, "Ana", restored.CurrentUser().Name)
	assert.True(t, restored.IsAuthenticated())

	require.Len(t, restored.Matches(), 1)
	assert.Equal(t, "a", restored.Matches()[0].Candidate.ID)

	require.Len(t, restored.UndoStack(), 1)
	assert.Equal(t, "b", restored.UndoStack()[0].CandidateID)

	require.Len(t, restored.Chats(), 1)
	require.Len(t, restored.ChatMessages(chatID), 1)
	assert.Equal(t, "hello there", restored.ChatMessages(chatID)[0].Text)

	plan, expiry := restored.Premium()
	require.NotNil(t, plan)
	assert.Equal(t, "weekly", plan.ID)
	require.NotNil(t, expiry)

	require.Len(t, restored.Moments(), 1)
	assert.Equal(t, 1, restored.Stats().Likes)
	assert.Equal(t, 1, restored.Stats().Matches)

	// Volatile state does not survive: notifications reset, feed regenerates.
	assert.Empty(t, restored.Notifications())
	assert.Len(t, restored.Queue(), 40)
}

func TestSnapshotOmitsVolatileFields(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.login(t)
	f.eng.LoadFeed(candidates("a"))
	f.rnd.vals = []float64{0.9}
	f.eng.SwipeRight("a") // produces a match notification

	blob, err := f.st.Load(context.Background())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(blob, &raw))

	for _, key := range []string{
		"currentUser", "isAuthenticated", "lastActivity", "matchedProfiles",
		"passedProfiles", "chats", "messages", "moments", "preferences",
		"premiumPlan", "premiumExpiry", "profileStats", "lastBoost",
	} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "notifications")
	assert.NotContains(t, raw, "profiles")
	assert.NotContains(t, raw, "queue")
}

func TestCorruptSnapshotStartsFresh(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Save(context.Background(), []byte("{not json")))

	appCtx := app.New(st, newFakeIdentity(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	eng := engine.New(appCtx, engine.Options{})
	t.Cleanup(eng.Close)

	assert.False(t, eng.IsAuthenticated())
	assert.Nil(t, eng.CurrentUser())
}
