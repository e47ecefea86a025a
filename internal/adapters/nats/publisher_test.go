package natsadapter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/biogrid/internal/core/domain"
)

func TestNewBatchIngestedEvent(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := &domain.Batch{
		ID:               "b-1",
		Name:             "survey",
		Mappings:         []domain.ObservationMap{{}, {}},
		ObservationCount: 12,
		CreatedAt:        created,
	}

	data, err := json.Marshal(newBatchIngestedEvent(b))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "b-1", got["batch_id"])
	assert.Equal(t, "survey", got["name"])
	assert.EqualValues(t, 2, got["mapping_count"])
	assert.EqualValues(t, 12, got["observation_count"])
	_, hasMappings := got["observations"]
	assert.False(t, hasMappings, "event must not carry the observations")
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "biogrid.batches.ingested.abc", SubjectBatchIngested+"abc")
	assert.Equal(t, "biogrid.reports.generated.abc", SubjectReportGenerated+"abc")
	assert.Equal(t, "biogrid.alerts.export", SubjectExportAlert)
}
