package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	natsadapter "github.com/samirrijal/biogrid/internal/adapters/nats"
	"github.com/samirrijal/biogrid/internal/pkg/config"
	"github.com/samirrijal/biogrid/internal/pkg/logging"
	"github.com/samirrijal/biogrid/internal/workflows"
)

func main() {
	flags := pflag.NewFlagSet("reporter", pflag.ExitOnError)
	exportReports := flags.Bool("export", true, "export each generated report to export.dir")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadWithFlags("biogrid-reporter", flags)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer tc.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeBatchIngested(ctx, func(ctx context.Context, batchID string) error {
		run, err := tc.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
			ID:        workflows.WorkflowID(batchID),
			TaskQueue: cfg.Temporal.TaskQueue,
		}, workflows.ReportWorkflow, workflows.ReportInput{BatchID: batchID, Export: *exportReports})
		if temporal.IsWorkflowExecutionAlreadyStartedError(err) {
			slog.Info("report workflow already started", "batchID", batchID)
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("report workflow started", "batchID", batchID, "workflowID", run.GetID(), "runID", run.GetRunID())
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("biogrid reporter listening", "taskQueue", cfg.Temporal.TaskQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("received signal, shutting down reporter", "signal", sig.String())
}
