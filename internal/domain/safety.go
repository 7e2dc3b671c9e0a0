package domain

import (
	"errors"
	"sort"
	"time"
)

// ErrNoSafetyLevels is returned when classification is attempted against an
// empty level set.
var ErrNoSafetyLevels = errors.New("no safety levels configured")

// SafetyLevel is an administrator-defined PM2.5 band. Levels are ordered by
// threshold ascending; a measurement classifies into the first level whose
// threshold is >= the value.
type SafetyLevel struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Threshold   float64   `json:"threshold"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClassifySafety maps a PM2.5 value to a safety level. A value above every
// threshold classifies into the highest-threshold level: an off-scale reading
// reports the most severe known band rather than no answer.
func ClassifySafety(levels []SafetyLevel, value float64) (*SafetyLevel, error) {
	if len(levels) == 0 {
		return nil, ErrNoSafetyLevels
	}

	sorted := make([]SafetyLevel, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})

	for i := range sorted {
		if value <= sorted[i].Threshold {
			return &sorted[i], nil
		}
	}
	return &sorted[len(sorted)-1], nil
}
