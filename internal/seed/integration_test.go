//go:build integration

package seed

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"blogmesh/internal/config"
	"blogmesh/internal/database"
	"blogmesh/internal/models"
)

func parseDatabaseURLToConfig(dsn string) (*config.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	password := ""
	if u.User != nil {
		password, _ = u.User.Password()
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	return &config.Config{
		DBDriver:     "postgres",
		DBHost:       u.Hostname(),
		DBPort:       port,
		DBUser:       u.User.Username(),
		DBPassword:   password,
		DBName:       strings.TrimPrefix(u.Path, "/"),
		DBSSLMode:    "disable",
		Env:          "test",
		DBSchemaMode: "sql",
	}, nil
}

func TestIntegration_SeedPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration seed test")
	}
	cfg, err := parseDatabaseURLToConfig(dsn)
	if err != nil {
		t.Fatalf("failed parse dsn: %v", err)
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{Schema: database.BlogSchema, ApplySchema: true})
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	s := NewSeeder(db, Options{SkipBcrypt: true, BatchSize: 50, MaxDays: 30})
	if err := s.ClearAll(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := s.Run(Counts{Users: 10, Posts: 25, CommentsPerPost: 2}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var cnt int64
	if err := db.Model(&models.Post{}).Count(&cnt).Error; err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if cnt != 25 {
		t.Fatalf("expected 25 seeded posts, got %d", cnt)
	}
}
