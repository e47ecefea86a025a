package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/samirrijal/biogrid/internal/adapters/postgres"
	"github.com/samirrijal/biogrid/internal/pkg/config"
	"github.com/samirrijal/biogrid/internal/pkg/logging"
)

const downSQL = `
DROP TABLE IF EXISTS reports;
DROP TABLE IF EXISTS batch_mappings;
DROP TABLE IF EXISTS batches;
`

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("biogrid-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.SetupCLI(cfg.Log.Level, "text")

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := runMigrations(ctx, db, "migrations"); err != nil {
			log.Fatal(err)
		}
	case "down":
		if _, err := db.Pool.Exec(ctx, downSQL); err != nil {
			log.Fatalf("down: %v", err)
		}
		slog.Info("schema dropped")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, db *postgres.DB, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", f, err)
		}
		fmt.Printf("OK  %s\n", f)
	}

	slog.Info("all migrations applied", "count", len(files))
	return nil
}
