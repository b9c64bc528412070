package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/dsemenov/routinebot/internal/bot"
	"github.com/dsemenov/routinebot/internal/config"
	"github.com/dsemenov/routinebot/internal/sched"
	"github.com/dsemenov/routinebot/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Config error: %v", err)
	}

	// 2. Initialize DB
	db, err := store.NewDB(cfg.DatabasePath)
	if err != nil {
		sugar.Fatalf("Fatal: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		sugar.Fatalf("Schema init failed: %v", err)
	}
	st := store.New(db)

	// 3. Bot
	b, err := bot.New(bot.Config{
		Token:       cfg.BotToken,
		AdminChatID: cfg.AdminChatID,
		Location:    cfg.Location,
	}, st, sugar)
	if err != nil {
		sugar.Fatalf("Bot init failed: %v", err)
	}

	// 4. Scheduler (recurring resets + reminders)
	scheduler := sched.New(st, b, cfg.Location, sugar)
	if err := scheduler.Start(); err != nil {
		sugar.Fatalf("Scheduler init failed: %v", err)
	}
	defer scheduler.Stop()

	// 5. Start Bot (blocks until stopped)
	b.Start()
}
