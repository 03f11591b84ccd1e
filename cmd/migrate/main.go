// Command migrate runs schema operations for the blog and address databases.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"blogmesh/internal/config"
	"blogmesh/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate [-schema blog|address] <up|auto|status|down> [version]")
}

func schemaByName(name string) (database.Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "blog", "":
		return database.BlogSchema, nil
	case "address":
		return database.AddressSchema, nil
	default:
		return database.Schema{}, fmt.Errorf("unknown schema %q", name)
	}
}

func run() error {
	schemaName := flag.String("schema", "blog", "Schema to operate on: blog or address")
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	schema, err := schemaByName(*schemaName)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{Schema: schema})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "up":
		if err := database.RunMigrations(ctx, db, schema); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Printf("%s sql migrations applied", schema.Name)
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg, schema); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Printf("%s automigrations applied", schema.Name)
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg, schema)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("schema=%s mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d",
			status.Schema, status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
			len(status.AppliedVersions), len(status.PendingMigrations))
		for _, m := range status.PendingMigrations {
			log.Printf("pending: %06d_%s", m.Version, m.Name)
		}
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: go run ./cmd/migrate [-schema blog|address] down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, schema, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back %s migration %d", schema.Name, version)
	default:
		return usage()
	}

	return nil
}
