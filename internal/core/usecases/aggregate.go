package usecases

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

// Header lines written in front of exported report files when headers are enabled.
const (
	SiteHeader     = "site_id,latitude,longitude,taxon_count,cell_index,source,taxon\n"
	SequenceHeader = "first_sequence_id,site_id,latitude,longitude,source,taxon,raw_latitude,raw_longitude,sequence_count,sequence_ids\n"
)

// markup matches any angle-bracket-delimited substring, shortest first.
var markup = regexp.MustCompile(`<.*?>`)

// Aggregation is the structured output of one aggregation pass.
type Aggregation struct {
	Sites     []domain.SiteRow
	Sequences []domain.SequenceRow
}

// SiteText renders the unique-site listing.
func (a Aggregation) SiteText() string {
	var b strings.Builder
	for _, r := range a.Sites {
		b.WriteString(r.String())
	}
	return b.String()
}

// SequenceText renders the per-key sequence aggregation.
func (a Aggregation) SequenceText() string {
	var b strings.Builder
	for _, r := range a.Sequences {
		b.WriteString(r.String())
	}
	return b.String()
}

// SiteID derives the site identifier for an observation.
func SiteID(o domain.Observation) string {
	id := fmt.Sprintf("%s_%f_%f", o.Source, o.Latitude, o.Longitude)
	return strings.ReplaceAll(id, " ", "_")
}

// AggregationKey builds the (site, taxon) grouping key with markup removed.
func AggregationKey(siteID, taxon string, o domain.Observation) string {
	key := fmt.Sprintf("%s,%f,%f,%s,%s,%s,%s",
		siteID, o.Latitude, o.Longitude, o.Source, taxon,
		rawCoord(o.Latitude), rawCoord(o.Longitude))
	return markup.ReplaceAllString(key, "")
}

// rawCoord is the shortest decimal form that round-trips to v.
func rawCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type sequenceGroup struct {
	first int64
	ids   map[int64]struct{}
}

// Aggregate walks one observation mapping in sorted order and produces the site
// listing and sequence aggregation rows. Site dedup is scoped to this call.
func Aggregate(obs domain.ObservationMap) Aggregation {
	var out Aggregation
	seen := make(map[string]struct{})
	groups := make(map[string]*sequenceGroup)

	cells := make([]int, 0, len(obs))
	for cell := range obs {
		cells = append(cells, cell)
	}
	sort.Ints(cells)

	for _, cell := range cells {
		taxa := obs[cell]
		if len(taxa) == 0 {
			continue
		}

		names := make([]string, 0, len(taxa))
		for name := range taxa {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, taxon := range names {
			for _, o := range byLocation(taxa[taxon]) {
				id := SiteID(o)
				if _, ok := seen[id]; !ok {
					seen[id] = struct{}{}
					out.Sites = append(out.Sites, domain.SiteRow{
						SiteID:     id,
						Latitude:   o.Latitude,
						Longitude:  o.Longitude,
						TaxonCount: len(taxa),
						CellIndex:  cell + (int(o.Longitude) + 180),
						Source:     o.Source,
						Taxon:      taxon,
					})
				}

				key := AggregationKey(id, taxon, o)
				g, ok := groups[key]
				if !ok {
					g = &sequenceGroup{first: o.SequenceID, ids: make(map[int64]struct{})}
					groups[key] = g
				}
				g.ids[o.SequenceID] = struct{}{}
			}
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		g := groups[k]
		ids := make([]int64, 0, len(g.ids))
		for id := range g.ids {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out.Sequences = append(out.Sequences, domain.SequenceRow{
			FirstSequenceID: g.first,
			Key:             k,
			SequenceIDs:     ids,
		})
	}
	return out
}

// byLocation returns a copy of obs stably sorted by (latitude, longitude).
func byLocation(obs []domain.Observation) []domain.Observation {
	sorted := make([]domain.Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Latitude != sorted[j].Latitude {
			return sorted[i].Latitude < sorted[j].Latitude
		}
		return sorted[i].Longitude < sorted[j].Longitude
	})
	return sorted
}

// AggregateAll aggregates each mapping on its own and concatenates the texts in
// input order. Sites are not deduplicated across mappings.
func AggregateAll(mappings []domain.ObservationMap) (sites, sequences string) {
	c := aggregateAll(mappings)
	return c.sites, c.sequences
}

// combined is the concatenated output of several mappings plus its row counts.
type combined struct {
	sites, sequences       string
	siteRows, sequenceRows int
}

func aggregateAll(mappings []domain.ObservationMap) combined {
	var (
		s, q strings.Builder
		c    combined
	)
	for _, m := range mappings {
		a := Aggregate(m)
		s.WriteString(a.SiteText())
		q.WriteString(a.SequenceText())
		c.siteRows += len(a.Sites)
		c.sequenceRows += len(a.Sequences)
	}
	c.sites, c.sequences = s.String(), q.String()
	return c
}

// SplitRows breaks a report text into its lines for tabular display.
func SplitRows(text string) []string {
	rows := strings.Split(text, "\n")
	if n := len(rows); n > 0 && rows[n-1] == "" {
		rows = rows[:n-1]
	}
	return rows
}
