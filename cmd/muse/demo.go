package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/musedating/muse-engine/internal/call"
	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/engine"
	"github.com/musedating/muse-engine/internal/identity"
)

// runDemo drives a short scripted session against the real engine: sign in
// (or up), swipe through a few candidates, open a chat on the first match
// and place a quick call.
func runDemo(eng *engine.Engine, machine *call.Machine, log *slog.Logger) {
	ctx := context.Background()

	const email, password = "demo@muse.app", "demo-password"
	if err := eng.Login(ctx, email, password); err != nil {
		log.Info("demo account missing, signing up", "err", err)
		err = eng.Signup(ctx, email, password, domain.User{
			Name:      "Demo",
			Age:       25,
			Bio:       "Looking for something real",
			Photos:    []string{"https://randomuser.me/api/portraits/44.jpg"},
			Interests: []string{"Music", "Travel", "Food"},
		})
		if err != nil && !errors.Is(err, identity.ErrEmailTaken) {
			log.Error("demo signup failed", "err", err)
			return
		}
	}

	for _, p := range eng.Queue()[:min(6, len(eng.Queue()))] {
		if eng.SwipeRight(p.ID) {
			log.Info("matched", "name", p.Name)
		} else {
			log.Info("liked, no match", "name", p.Name)
		}
	}

	matches := eng.Matches()
	if len(matches) == 0 {
		log.Info("no matches this run")
		return
	}

	chatID := eng.CreateChat(matches[0].Candidate)
	eng.SendMessage(chatID, "Hey! Nice to match with you")
	time.Sleep(3 * time.Second) // let the simulated reply land
	for _, m := range eng.ChatMessages(chatID) {
		log.Info("message", "sender", string(m.Sender), "text", m.Text)
	}

	if err := machine.InitiateCall(matches[0].Candidate.ID, call.TypeVideo); err == nil {
		token := machine.CreateRoom(matches[0].ID, call.TypeVideo)
		if _, err := machine.JoinRoom(ctx, token, "Demo", true); err != nil {
			log.Warn("joined without media", "err", err)
		}
		machine.EndCall(5 * time.Second)
	}

	log.Info("demo done",
		"matches", len(eng.Matches()),
		"notifications", len(eng.Notifications()),
		"call_history", len(machine.History()),
	)
}
