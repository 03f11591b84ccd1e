// Package main provides admin role management for the blog API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"blogmesh/internal/cache"
	"blogmesh/internal/config"
	"blogmesh/internal/database"
	"blogmesh/internal/models"
	"blogmesh/internal/pagination"
	"blogmesh/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <email>     - Grant the ADMIN role")
		fmt.Println("  go run ./cmd/admin demote <email>      - Revert to the USER role")
		fmt.Println("  go run ./cmd/admin list-admins         - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{Schema: database.BlogSchema})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	// Role changes must evict the cached user, so go through the repository.
	rdb := cache.NewClient(cfg.RedisURL)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	users := repository.NewUserRepository(db, repository.WithCache(cache.NewStore(rdb)))
	ctx := context.Background()

	command := os.Args[1]
	switch command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: go run ./cmd/admin %s <email>\n", command)
			os.Exit(1)
		}
		role := models.RoleAdmin
		if command == "demote" {
			role = models.RoleUser
		}
		setRole(ctx, users, os.Args[2], role)

	case "list-admins":
		listAdmins(ctx, users)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setRole(ctx context.Context, users repository.UserRepository, email string, role models.Role) {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			fmt.Printf("User with email %s not found\n", email)
			os.Exit(1)
		}
		log.Fatalf("Database error: %v", err)
	}

	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", user.Email, user.ID, role)
		return
	}

	user.Role = role
	if err := users.Update(ctx, user); err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("✅ %s (ID: %d) now has role %s\n", user.Email, user.ID, role)
}

func listAdmins(ctx context.Context, users repository.UserRepository) {
	page, err := users.ListByRole(ctx, models.RoleAdmin, pagination.NewRequest("0", "100", "id", "asc"))
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(page.Content) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, admin := range page.Content {
		fmt.Printf("ID: %d | Name: %s %s | Email: %s\n", admin.ID, admin.FirstName, admin.LastName, admin.Email)
	}
	if page.TotalElement > int64(len(page.Content)) {
		fmt.Printf("... and %d more\n", page.TotalElement-int64(len(page.Content)))
	}
	fmt.Println("─────────────────────────────────────")
}
