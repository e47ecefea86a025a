package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Observation is a single mined sequence record at a sampling location.
// On the wire it is a fixed 4-element array: [sequenceId, latitude, longitude, source].
type Observation struct {
	SequenceID int64
	Latitude   float64
	Longitude  float64
	Source     string
}

// MarshalJSON encodes the observation as a 4-element array.
func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.SequenceID, o.Latitude, o.Longitude, o.Source})
}

// UnmarshalJSON decodes a 4-element array and rejects any other shape.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("observation: %w", err)
	}
	if len(parts) != 4 {
		return fmt.Errorf("observation: expected 4 elements, got %d", len(parts))
	}

	var out Observation
	if err := json.Unmarshal(parts[0], &out.SequenceID); err != nil {
		return fmt.Errorf("observation sequence id: %w", err)
	}
	if err := json.Unmarshal(parts[1], &out.Latitude); err != nil {
		return fmt.Errorf("observation latitude: %w", err)
	}
	if err := json.Unmarshal(parts[2], &out.Longitude); err != nil {
		return fmt.Errorf("observation longitude: %w", err)
	}
	if err := json.Unmarshal(parts[3], &out.Source); err != nil {
		return fmt.Errorf("observation source: %w", err)
	}

	*o = out
	return nil
}

// ObservationMap groups observations by grid-cell index, then by taxon name.
type ObservationMap map[int]map[string][]Observation

// Count returns the total number of observations in the mapping.
func (m ObservationMap) Count() int {
	n := 0
	for _, taxa := range m {
		for _, obs := range taxa {
			n += len(obs)
		}
	}
	return n
}

// Batch is a named set of observation mappings handed over by the data-mining step.
type Batch struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Mappings         []ObservationMap `json:"observations"`
	ObservationCount int              `json:"observation_count"`
	CreatedAt        time.Time        `json:"created_at"`
}
