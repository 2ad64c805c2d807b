// Command seed provisions the document store with the admin account and a
// starter catalog so a fresh deployment is browsable immediately. It is
// idempotent: the admin is upserted by email and theories are only inserted
// when the catalog is empty.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/conspiralab/conspiralab/internal/config"
	"github.com/conspiralab/conspiralab/internal/database"
	"github.com/conspiralab/conspiralab/internal/model"
	"github.com/conspiralab/conspiralab/internal/repository"
	"github.com/conspiralab/conspiralab/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@conspiralab.local"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		log.Fatal("ADMIN_PASSWORD must be set to seed the admin account")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	users := repository.NewUserRepo(db)
	theories := repository.NewTheoryRepo(db)

	admin, err := users.FindByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		log.Printf("admin %s already present", adminEmail)
	case errors.Is(err, repository.ErrNotFound):
		hash, err := utils.HashPassword(adminPass, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		admin = &model.User{
			Email:        adminEmail,
			DisplayName:  "Site Admin",
			PasswordHash: hash,
			Role:         model.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("create admin: %v", err)
		}
		log.Printf("created admin %s", adminEmail)
	default:
		log.Fatalf("lookup admin: %v", err)
	}

	existing, err := theories.List(ctx)
	if err != nil {
		log.Fatalf("list theories: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("catalog already has %d theories, skipping seed", len(existing))
		return
	}

	for _, t := range starterTheories() {
		t.AuthorID = admin.ID
		if err := theories.Create(ctx, &t); err != nil {
			log.Fatalf("seed theory %q: %v", t.Title, err)
		}
		log.Printf("seeded theory %q", t.Title)
	}
}

func starterTheories() []model.Theory {
	titles := []struct {
		title, summary, body string
	}{
		{
			"The Great Pigeon Surveillance Network",
			"Why are there so many pigeons near government buildings?",
			"Observation logs from three capital cities show pigeon density correlating with ministry locations. Draw your own conclusions.",
		},
		{
			"Elevators That Skip Floor Thirteen",
			"An architectural habit, or something more deliberate?",
			"A survey of 200 office towers found 174 without a labeled thirteenth floor. Where did those floors go, and who works on them?",
		},
		{
			"The Sock Disappearance Ledger",
			"Washing machines as entry points to somewhere else.",
			"Household studies consistently report single-sock loss. No mechanism has ever been demonstrated. This catalog entry collects the best field reports.",
		},
	}
	out := make([]model.Theory, 0, len(titles))
	for _, t := range titles {
		out = append(out, model.Theory{
			Title:   t.title,
			Slug:    utils.Slugify(t.title),
			Summary: t.summary,
			Body:    t.body,
		})
	}
	return out
}
