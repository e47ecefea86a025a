package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/biogrid/internal/adapters/postgres"
	"github.com/samirrijal/biogrid/internal/adapters/valkey"
	"github.com/samirrijal/biogrid/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// NATS, DB and Cache are optional; handlers degrade when they are nil.
type Dependencies struct {
	Grid    *usecases.GridService
	Reports *usecases.ReportService
	Batches *usecases.BatchService
	NATS    *nats.Conn
	DB      *postgres.DB
	Cache   *valkey.Cache

	// ExportHeaders prepends column headers to CSV downloads by default.
	ExportHeaders bool
}
