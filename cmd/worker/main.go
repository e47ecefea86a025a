package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/spf13/afero"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/biogrid/internal/adapters/export"
	natsadapter "github.com/samirrijal/biogrid/internal/adapters/nats"
	"github.com/samirrijal/biogrid/internal/adapters/postgres"
	"github.com/samirrijal/biogrid/internal/core/ports"
	"github.com/samirrijal/biogrid/internal/core/usecases"
	"github.com/samirrijal/biogrid/internal/pkg/config"
	"github.com/samirrijal/biogrid/internal/pkg/logging"
	"github.com/samirrijal/biogrid/internal/workflows"
)

func main() {
	cfg, err := config.Load("biogrid-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var (
		publisher ports.EventPublisher
		notifier  ports.Notifier = export.NewLogNotifier(slog.Default())
	)
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		notifier = pub
	}

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		log.Fatalf("export dir %s: %v", cfg.Export.Dir, err)
	}

	reports := usecases.NewReportService(
		postgres.NewReportRepo(db),
		postgres.NewBatchRepo(db),
		nil,
		publisher,
		export.NewWriter(fs, notifier),
		usecases.ReportOptions{ExportDir: cfg.Export.Dir, Headers: cfg.Export.Headers},
	)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.ReportWorkflow)
	w.RegisterActivity(&workflows.ReportActivities{Reports: reports})

	slog.Info("report worker started", "taskQueue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
