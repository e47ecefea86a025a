package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SiteRow is one line of the unique-site listing.
type SiteRow struct {
	SiteID     string  `json:"site_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	TaxonCount int     `json:"taxon_count"`
	CellIndex  int     `json:"cell_index"`
	Source     string  `json:"source"`
	Taxon      string  `json:"taxon"`
}

// String renders the row as a newline-terminated CSV line.
func (r SiteRow) String() string {
	return fmt.Sprintf("%s,%f,%f,%d,%d,%s,%s\n",
		r.SiteID, r.Latitude, r.Longitude, r.TaxonCount, r.CellIndex, r.Source, r.Taxon)
}

// SequenceRow is one line of the per-site sequence aggregation.
type SequenceRow struct {
	FirstSequenceID int64   `json:"first_sequence_id"`
	Key             string  `json:"key"`
	SequenceIDs     []int64 `json:"sequence_ids"` // distinct, ascending
}

// Count is the number of distinct sequence IDs in the row.
func (r SequenceRow) Count() int { return len(r.SequenceIDs) }

// String renders the row as a newline-terminated CSV line.
func (r SequenceRow) String() string {
	ids := make([]string, len(r.SequenceIDs))
	for i, id := range r.SequenceIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%d,%s,%d,%s\n", r.FirstSequenceID, r.Key, r.Count(), strings.Join(ids, "|"))
}

// Report holds the two text blobs produced by one aggregation run.
type Report struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id,omitempty"`
	Sites         string    `json:"sites"`
	Sequences     string    `json:"sequences"`
	SiteCount     int       `json:"site_count"`
	SequenceCount int       `json:"sequence_count"`
	MappingCount  int       `json:"mapping_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReportSummary is a report without its text bodies, used for listings.
type ReportSummary struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id,omitempty"`
	SiteCount     int       `json:"site_count"`
	SequenceCount int       `json:"sequence_count"`
	MappingCount  int       `json:"mapping_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary drops the text bodies.
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:            r.ID,
		BatchID:       r.BatchID,
		SiteCount:     r.SiteCount,
		SequenceCount: r.SequenceCount,
		MappingCount:  r.MappingCount,
		CreatedAt:     r.CreatedAt,
	}
}
