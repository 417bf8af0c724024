package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"github.com/musedating/muse-engine/internal/app"
	"github.com/musedating/muse-engine/internal/call"
	"github.com/musedating/muse-engine/internal/config"
	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/engine"
	"github.com/musedating/muse-engine/internal/identity"
	"github.com/musedating/muse-engine/internal/location"
	"github.com/musedating/muse-engine/internal/logger"
	"github.com/musedating/muse-engine/internal/random"
	"github.com/musedating/muse-engine/internal/store"
)

func main() {
	demo := flag.Bool("demo", false, "run a short scripted session")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg := config.New()

	logger.InitFromConfig(cfg)
	log := logger.L()

	st, err := store.Open(cfg)
	if err != nil {
		log.Error("failed to open snapshot store", "backend", cfg.Store.Backend, "err", err)
		return
	}
	if rs, ok := st.(*store.RedisStore); ok {
		if err := rs.Ping(context.Background()); err != nil {
			log.Error("failed to connect to redis", "err", err)
			return
		}
	}

	idb, err := store.OpenSQLite(cfg.Identity.SQLitePath)
	if err != nil {
		log.Error("failed to open identity db", "err", err)
		return
	}
	directory, err := identity.NewDirectory(idb)
	if err != nil {
		log.Error("failed to init identity directory", "err", err)
		return
	}

	locator := location.NewStatic(domain.Location{City: "Mumbai", Country: "India"})

	appCtx := app.New(st, directory, locator, log)
	if cfg.Engine.Seed != 0 {
		appCtx.Rand = random.Seeded(cfg.Engine.Seed)
	}
	eng := engine.New(appCtx, engine.Options{
		SessionTimeout: cfg.Engine.SessionTimeout,
		ReplyDelay:     cfg.Engine.ReplyDelay,
		FeedSize:       cfg.Engine.FeedSize,
	})
	defer eng.Close()

	machine := call.NewMachine(call.NewSimulatedDevices(), appCtx.Clock, log)
	machine.Events.On(call.EventEnded, func(payload any) {
		if ended, ok := payload.(call.EndedPayload); ok && ended.CounterpartID != "" {
			eng.RecordCallEnded(ended.CounterpartID, ended.Duration)
		}
	})

	if !eng.CheckSession() {
		log.Info("persisted session expired, signed out")
	}

	log.Info("engine ready",
		"authenticated", eng.IsAuthenticated(),
		"queue", len(eng.Queue()),
		"matches", len(eng.Matches()),
		"chats", len(eng.Chats()),
	)

	if *demo {
		runDemo(eng, machine, log)
	}
}
