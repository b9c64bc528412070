// duecheck prints what the scheduler would do right now: which tasks are
// due today per user and which completed tasks are ripe for a reset.
// Handy for poking at a live database without running the bot.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dsemenov/routinebot/internal/store"
)

func main() {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./routine.db"
	}

	db, err := store.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Schema init failed: %v", err)
	}
	st := store.New(db)

	now := time.Now()
	fmt.Printf("Due check at %s\n", now.Format("2006-01-02 15:04"))

	users, err := st.Users()
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}

	for _, u := range users {
		due, err := st.TasksDueToday(u.ID, now)
		if err != nil {
			log.Fatalf("Fatal: %v", err)
		}
		fmt.Printf("User %d (tg %d): %d due\n", u.ID, u.TelegramID, len(due))
		for _, t := range due {
			fmt.Printf("  - #%d %s (%s)\n", t.ID, t.Title, t.Frequency)
		}
	}

	n, err := st.ResetRecurring(now)
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	fmt.Printf("Recurring tasks reset: %d\n", n)
}
