package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/samirrijal/evoteli/internal/adapters/postgres"
	"github.com/samirrijal/evoteli/internal/adapters/sqlite"
	"github.com/samirrijal/evoteli/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|list>")
	}

	cfg, err := config.Load("evoteli-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "up":
		migrateUp(ctx, cfg)
	case "list":
		files, err := postgres.MigrationFiles()
		if err != nil {
			log.Fatalf("list: %v", err)
		}
		fmt.Println(strings.Join(files, "\n"))
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func migrateUp(ctx context.Context, cfg *config.Config) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx, func(name string) { fmt.Printf("OK  %s\n", name) }); err != nil {
			log.Fatalf("migrate: %v", err)
		}

	case config.DriverSQLite:
		// Open creates the schema.
		p, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite: %v", err)
		}
		defer p.Close()
		fmt.Printf("OK  %s\n", p.Path())

	default:
		log.Printf("storage driver %q has no schema", cfg.Storage.Driver)
		return
	}

	log.Println("all migrations applied")
}
