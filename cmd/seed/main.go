package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"realagent/internal/config"
	"realagent/internal/db"
	"realagent/internal/model"
	"realagent/internal/password"
	"realagent/internal/repository"
)

// seedUser is one demo account candidate, unique by email.
type seedUser struct {
	Name     string
	Email    string
	Role     model.Role
	Password string
}

var sampleUsers = []seedUser{
	{"John Smith", "john.admin@realagent.com", model.RoleAdmin, "admin123"},
	{"Sarah Johnson", "sarah.admin@realagent.com", model.RoleAdmin, "admin456"},
	{"Michael Torres", "michael.player@realagent.com", model.RolePlayer, "player123"},
	{"David Martinez", "david.player@realagent.com", model.RolePlayer, "player456"},
	{"Robert Wilson", "robert.agent@realagent.com", model.RoleAgent, "agent123"},
	{"Jennifer Brown", "jennifer.agent@realagent.com", model.RoleAgent, "agent456"},
	{"James Anderson", "james.manager@realagent.com", model.RoleClubManager, "manager123"},
	{"Patricia Taylor", "patricia.manager@realagent.com", model.RoleClubManager, "manager456"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	hasher := password.New(cfg.HashScheme)
	ctx := context.Background()

	created, skipped, err := seedUsers(ctx, userRepo, hasher, sampleUsers)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users skipped: %d", skipped)

	for _, role := range model.AllRoles {
		count, err := userRepo.CountByRole(ctx, string(role))
		if err != nil {
			log.Fatalf("Failed to count role %s: %v", role, err)
		}
		log.Printf("  - %-12s: %d users", role, count)
	}
}

// seedUsers inserts each candidate whose email is not yet present. Existing
// rows are never overwritten, so the script is safe to run repeatedly.
func seedUsers(ctx context.Context, repo repository.UserRepository, hasher password.Hasher, candidates []seedUser) (created int, skipped int, err error) {
	for _, candidate := range candidates {
		_, err := repo.FindByEmail(ctx, candidate.Email)
		if err == nil {
			log.Printf("User %s already exists, skipping", candidate.Email)
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("check user %s: %w", candidate.Email, err)
		}

		hashed, err := hasher.Hash(candidate.Password)
		if err != nil {
			return created, skipped, fmt.Errorf("hash password for %s: %w", candidate.Email, err)
		}

		user := &model.User{
			Name:         candidate.Name,
			Email:        candidate.Email,
			Role:         candidate.Role,
			PasswordHash: hashed,
			IsActive:     true,
		}
		if err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with another seeder; treat as already present.
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("create user %s: %w", candidate.Email, err)
		}
		log.Printf("Inserted: %s - %s", candidate.Name, candidate.Role)
		created++
	}
	return created, skipped, nil
}
