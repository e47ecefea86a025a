package telemetry

// Span attribute keys.
const (
	AttrGridAxis  = "grid.axis"
	AttrGridCells = "grid.cells"

	AttrBatchID            = "batch.id"
	AttrReportID           = "report.id"
	AttrReportMappings     = "report.mappings"
	AttrReportSites        = "report.sites"
	AttrReportSequenceKeys = "report.sequence_keys"
)

// Span event names.
const (
	EventAggregated = "report.aggregated"
	EventStored     = "report.stored"
)
