package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	natsadapter "github.com/samirrijal/biogrid/internal/adapters/nats"
	"github.com/samirrijal/biogrid/internal/adapters/postgres"
	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/ports"
	"github.com/samirrijal/biogrid/internal/core/usecases"
	"github.com/samirrijal/biogrid/internal/pkg/config"
	"github.com/samirrijal/biogrid/internal/pkg/logging"
)

// batchFile is the on-disk shape of one observation batch.
type batchFile struct {
	Name         string                  `json:"name"`
	Observations []domain.ObservationMap `json:"observations"`
}

func main() {
	flags := pflag.NewFlagSet("ingestor", pflag.ExitOnError)
	concurrency := flags.Int("concurrency", 4, "batches ingested in parallel")
	flags.String("log-level", "info", "log level")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: ingestor [flags] <batch.json|url>...")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadWithFlags("biogrid-ingestor", flags)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	sources := flags.Args()
	if len(sources) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(*concurrency)+1)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, batches will not be announced", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	svc := usecases.NewBatchService(postgres.NewBatchRepo(db), publisher)
	client := &http.Client{Timeout: 60 * time.Second}

	slog.Info("biogrid ingestor starting", "sources", len(sources), "concurrency", *concurrency)

	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)
	sem := make(chan struct{}, max(*concurrency, 1))

	for _, src := range sources {
		wg.Add(1)
		go func(src string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ingest(ctx, svc, client, src); err != nil {
				failed.Add(1)
				slog.Error("ingest failed", "source", src, "error", err)
			}
		}(src)
	}

	wg.Wait()
	slog.Info("ingestion complete", "sources", len(sources), "failed", failed.Load())
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func ingest(ctx context.Context, svc *usecases.BatchService, client *http.Client, src string) error {
	data, err := readSource(ctx, client, src)
	if err != nil {
		return err
	}

	var bf batchFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return fmt.Errorf("parse %s: %w", src, err)
	}
	if bf.Name == "" {
		bf.Name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}

	batch, err := svc.Ingest(ctx, bf.Name, bf.Observations)
	if err != nil {
		return fmt.Errorf("store %s: %w", src, err)
	}

	slog.Info("batch stored", "source", src, "batchID", batch.ID,
		"mappings", len(batch.Mappings), "observations", batch.ObservationCount)
	return nil
}

// readSource loads a local file or, for http(s) sources, downloads it.
func readSource(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)
	}
	return io.ReadAll(resp.Body)
}
