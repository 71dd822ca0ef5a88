package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-social-api/config"
	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/domain/repository"
	"github.com/oksasatya/go-social-api/internal/infrastructure/elastic"
	pginfra "github.com/oksasatya/go-social-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-social-api/pkg/helpers"
)

const demoPassword = "password123"

var demoUsers = []entity.User{
	{Username: "demoUser", Email: "demo@example.com", FirstName: "Demo", LastName: "User", Bio: "Just here to try things out."},
	{Username: "janedoe", Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Bio: "Photographer."},
	{Username: "bobsmith", Email: "bob@example.com", FirstName: "Bob", LastName: "Smith"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)

	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	seeded := make([]*entity.User, 0, len(demoUsers))
	for _, u := range demoUsers {
		existing, err := users.GetByUsername(ctx, u.Username)
		if err == nil {
			seeded = append(seeded, existing)
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("lookup %s: %v", u.Username, err)
		}
		u := u
		u.Password = hash
		if err := users.Create(ctx, &u); err != nil {
			log.Fatalf("failed to seed user %s: %v", u.Username, err)
		}
		fmt.Printf("seeded user: id=%s username=%s email=%s password=%s\n", u.ID, u.Username, u.Email, demoPassword)

		p := &entity.Post{AuthorID: u.ID, Content: "Hello from " + u.FirstName + "!"}
		if err := posts.Create(ctx, p); err != nil {
			log.Fatalf("failed to seed post for %s: %v", u.Username, err)
		}
		seeded = append(seeded, &u)
	}

	// everyone follows the first demo user
	for _, u := range seeded[1:] {
		if _, err := users.Follow(ctx, u.ID, seeded[0].ID); err != nil {
			log.Fatalf("failed to seed follow: %v", err)
		}
	}
	fmt.Printf("follow edges ensured towards %s\n", seeded[0].Username)

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := elastic.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		idx := elastic.NewUserIndex(es, cfg.ESUsersIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			log.Fatalf("failed to prepare index %s: %v", cfg.ESUsersIndex, err)
		}
		svc := &application.UserService{Users: users, Index: idx, Logger: logger}
		sent, err := svc.Reindex(ctx)
		if err != nil {
			log.Fatalf("reindex failed after %d users: %v", sent, err)
		}
		fmt.Printf("indexed %d users into %s\n", sent, cfg.ESUsersIndex)
	}
}
