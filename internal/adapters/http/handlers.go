package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/biogrid/internal/core/domain"
	"github.com/samirrijal/biogrid/internal/core/usecases"
)

// ---- Grid ----

type subdivideRequest struct {
	Bounds domain.Bounds `json:"bounds"`
	Step   float64       `json:"step"`
	Axis   string        `json:"axis"`
}

type gridResponse struct {
	Axis  domain.Axis     `json:"axis"`
	Outer domain.Bounds   `json:"outer"`
	Step  float64         `json:"step"`
	Count int             `json:"count"`
	Cells []domain.Bounds `json:"cells"`
}

func newGridResponse(g *domain.Grid) gridResponse {
	return gridResponse{Axis: g.Axis, Outer: g.Outer, Step: g.Step, Count: len(g.Cells), Cells: g.Cells}
}

// SubdivideHandler splits a bounding box into cells along one axis.
func SubdivideHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req subdivideRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if req.Axis == "" {
			req.Axis = string(domain.AxisLongitude)
		}
		axis, err := domain.ParseAxis(req.Axis)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		grid, err := deps.Grid.Subdivide(c.UserContext(), req.Bounds, req.Step, axis)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(newGridResponse(grid))
	}
}

// LegacyGridHandler serves the query-string subdivision endpoints for a fixed axis.
func LegacyGridHandler(deps *Dependencies, axis domain.Axis) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bounds := domain.Bounds{
			MinLat: c.QueryFloat("min_lat"),
			MaxLat: c.QueryFloat("max_lat"),
			MinLon: c.QueryFloat("min_lon"),
			MaxLon: c.QueryFloat("max_lon"),
		}
		step := c.QueryFloat("step")

		grid, err := deps.Grid.Subdivide(c.UserContext(), bounds, step, axis)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(newGridResponse(grid))
	}
}

// ---- Reports ----

type createReportRequest struct {
	Observations []domain.ObservationMap `json:"observations"`
}

type reportResponse struct {
	*domain.Report
	SiteRows     []string `json:"site_rows"`
	SequenceRows []string `json:"sequence_rows"`
}

func newReportResponse(r *domain.Report) reportResponse {
	return reportResponse{
		Report:       r,
		SiteRows:     usecases.SplitRows(r.Sites),
		SequenceRows: usecases.SplitRows(r.Sequences),
	}
}

// CreateReportHandler aggregates the posted observation mappings into a stored report.
func CreateReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createReportRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid observations: "+err.Error())
		}
		if len(req.Observations) == 0 {
			return errBadRequest(c, "observations must contain at least one mapping")
		}

		report, err := deps.Reports.Create(c.UserContext(), req.Observations)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newReportResponse(report))
	}
}

// ListReportsHandler returns report summaries, newest first.
func ListReportsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		reports, total, err := deps.Reports.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}
		if reports == nil {
			reports = []domain.ReportSummary{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: reports, Pagination: pg})
	}
}

// GetReportHandler returns a report with its rows split out.
func GetReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := deps.Reports.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(newReportResponse(report))
	}
}

// ReportCSVHandler streams one of the report texts as CSV. ?header=true|false
// overrides the configured header default.
func ReportCSVHandler(deps *Dependencies, sites bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := deps.Reports.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}

		body, header, name := report.Sequences, usecases.SequenceHeader, "_sequences.csv"
		if sites {
			body, header, name = report.Sites, usecases.SiteHeader, "_sites.csv"
		}
		if !c.QueryBool("header", deps.ExportHeaders) {
			header = ""
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+report.ID+name+`"`)
		return c.SendString(header + body)
	}
}

// ExportReportHandler writes both report files to the export directory.
// Write failures come back as warnings with a 200.
func ExportReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := deps.Reports.Export(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		if len(res.Warnings) > 0 {
			LoggerFromCtx(c.UserContext()).Warn("report export incomplete",
				"report_id", res.ReportID, "warnings", strings.Join(res.Warnings, "; "))
		}
		return c.JSON(res)
	}
}

// ---- Batches ----

type createBatchRequest struct {
	Name         string                  `json:"name"`
	Observations []domain.ObservationMap `json:"observations"`
}

type batchAccepted struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	MappingCount     int    `json:"mapping_count"`
	ObservationCount int    `json:"observation_count"`
}

// CreateBatchHandler stores an observation batch for asynchronous reporting.
func CreateBatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createBatchRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid batch: "+err.Error())
		}
		if strings.TrimSpace(req.Name) == "" {
			return errBadRequest(c, "name is required")
		}
		if len(req.Observations) == 0 {
			return errBadRequest(c, "observations must contain at least one mapping")
		}

		batch, err := deps.Batches.Ingest(c.UserContext(), req.Name, req.Observations)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(batchAccepted{
			ID:               batch.ID,
			Name:             batch.Name,
			MappingCount:     len(batch.Mappings),
			ObservationCount: batch.ObservationCount,
		})
	}
}

// GetBatchHandler returns a stored batch.
func GetBatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		batch, err := deps.Batches.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(batch)
	}
}

// BatchReportHandler builds a report for a stored batch synchronously.
func BatchReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := deps.Reports.GenerateForBatch(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newReportResponse(report))
	}
}
