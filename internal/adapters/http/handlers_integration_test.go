//go:build integration
// +build integration

package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/samirrijal/biogrid/internal/adapters/export"
	handler "github.com/samirrijal/biogrid/internal/adapters/http"
	"github.com/samirrijal/biogrid/internal/adapters/postgres"
	"github.com/samirrijal/biogrid/internal/core/usecases"
	"github.com/samirrijal/biogrid/internal/pkg/config"
)

// setupTestDB connects to the database named by the BIOGRID_DATABASE_* settings.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("biogrid-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// setupTestDeps wires real repositories, no cache, no NATS.
func setupTestDeps(db *postgres.DB) *handler.Dependencies {
	reports := postgres.NewReportRepo(db)
	batches := postgres.NewBatchRepo(db)
	writer := export.NewWriter(afero.NewMemMapFs(), nil)

	return &handler.Dependencies{
		Grid:    usecases.NewGridService(),
		Reports: usecases.NewReportService(reports, batches, nil, nil, writer, usecases.ReportOptions{ExportDir: "/exports"}),
		Batches: usecases.NewBatchService(batches, nil),
		DB:      db,
	}
}

func TestBatchToReport_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupApp(setupTestDeps(setupTestDB(t)))

	resp, status := doJSON(t, app, "POST", "/v1/batches",
		`{"name":"integration","observations":[{"0":{"Foo":[[1,10.123456,-70.654321,"GBIF"]]}}]}`)
	if status != 202 {
		t.Fatalf("expected 202, got %d: %s", status, resp.body)
	}
	var accepted struct {
		ID string `json:"id"`
	}
	resp.decode(t, &accepted)

	resp, status = doJSON(t, app, "POST", "/v1/batches/"+accepted.ID+"/report", "")
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, resp.body)
	}
	var rep reportBody
	resp.decode(t, &rep)
	if rep.BatchID != accepted.ID {
		t.Errorf("expected batch %s, got %s", accepted.ID, rep.BatchID)
	}

	resp, status = doJSON(t, app, "GET", "/v1/reports/"+rep.ID+"/sites.csv", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if string(resp.body) != scenarioSiteRow+"\n" {
		t.Errorf("unexpected sites %q", resp.body)
	}
}

func TestReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	app := setupApp(setupTestDeps(setupTestDB(t)))

	_, status := doJSON(t, app, "GET", "/v1/ready", "")
	if status != 200 {
		t.Fatalf("expected 200 with a live database, got %d", status)
	}
}
