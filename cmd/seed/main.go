// Command seed fills the database with sample notes through the engine,
// so seeded rows get real ids, modification codes and anonymous labels.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/eugenemartinez/drop-note-api/internal/config"
	"github.com/eugenemartinez/drop-note-api/internal/entity"
	"github.com/eugenemartinez/drop-note-api/internal/repository"
	notesuc "github.com/eugenemartinez/drop-note-api/internal/usecase/notes"
	"github.com/eugenemartinez/drop-note-api/migrations"
	"github.com/eugenemartinez/drop-note-api/pkg/database"
	"github.com/eugenemartinez/drop-note-api/pkg/logger/slogx"
)

var possibleTags = []string{
	"python", "javascript", "vue", "react", "flask", "database", "sql",
	"webdev", "tutorial", "guide", "tips", "tricks", "thoughts",
	"random", "idea", "project", "learning", "code", "snippet",
	"config", "setup", "docker", "cloud", "api", "testing", "css",
	"html", "typescript", "performance", "security",
}

var titleWords = []string{
	"notes", "on", "quick", "guide", "to", "thoughts", "about", "setting",
	"up", "the", "a", "first", "look", "at", "debugging", "deploying",
	"learning", "building", "testing", "scaling",
}

var contentSentences = []string{
	"Wrote this down before I forget it again.",
	"The trick is to keep the configuration minimal and let defaults do the work.",
	"Spent the whole evening on this and the fix was a single line.",
	"Sharing in case someone else runs into the same problem.",
	"This approach worked much better than the one in the official docs.",
	"Still not sure this is the right way, but it works.",
	"Benchmarks looked fine on my machine, needs a second pair of eyes.",
}

var usernames = []string{
	"mquill", "daria_codes", "tomo", "lena.k", "prosper", "ivo", "nadia",
}

func main() {
	count := flag.Int("count", 50, "number of sample notes to insert")
	flag.Parse()

	if err := run(*count); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func run(count int) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, true); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	dbOpts := database.NewOptions(
		cfg.Database.Address(),
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		database.WithLogger(slogx.Default()),
	)

	if err := migrations.Up(ctx, dbOpts.DSN()); err != nil {
		return fmt.Errorf("run migrations: %v", err)
	}

	pool, err := database.NewPGX(ctx, dbOpts)
	if err != nil {
		return fmt.Errorf("init pgx pool: %v", err)
	}
	defer pool.Close()

	db := database.NewDatabase(pool)

	uc, err := notesuc.New(notesuc.NewOptions(repository.New(db), db))
	if err != nil {
		return fmt.Errorf("init notes usecase: %v", err)
	}

	rng := rand.New(rand.NewSource(int64(os.Getpid())))

	for i := 0; i < count; i++ {
		note, err := uc.CreateNote(ctx, sampleNote(rng))
		if err != nil {
			return fmt.Errorf("insert sample note %d: %w", i+1, err)
		}

		slogx.Info(ctx, "seeded note", slogx.NoteID(note.ID), slogx.Username(note.Username))
	}

	slogx.Info(ctx, "seeding done")

	return nil
}

func sampleNote(rng *rand.Rand) notesuc.CreateNoteInput {
	title := ""
	for i, n := 0, 3+rng.Intn(5); i < n; i++ {
		if i > 0 {
			title += " "
		}
		title += titleWords[rng.Intn(len(titleWords))]
	}

	content := ""
	for i, n := 0, 1+rng.Intn(4); i < n; i++ {
		if i > 0 {
			content += " "
		}
		content += contentSentences[rng.Intn(len(contentSentences))]
	}

	tags := make([]string, 0, 5)
	for _, idx := range rng.Perm(len(possibleTags))[:rng.Intn(6)] {
		tags = append(tags, possibleTags[idx])
	}

	visibility := entity.VisibilityPublic
	if rng.Intn(4) == 0 {
		visibility = entity.VisibilityPrivate
	}

	// every fourth note goes in without a username to exercise the
	// anonymous counter
	username := ""
	if rng.Intn(4) != 0 {
		username = usernames[rng.Intn(len(usernames))]
	}

	return notesuc.CreateNoteInput{
		Title:      title,
		Content:    content,
		Username:   username,
		Tags:       tags,
		Visibility: visibility,
	}
}
