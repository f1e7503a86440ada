package domain

import (
	"errors"
	"sort"
)

var ErrEmptyTierSchedule = errors.New("tier schedule must contain at least one threshold")

type TierThreshold struct {
	MinPoints int64
	Tier      string
}

// TierSchedule maps lifetime points to a tier label. It is a step
// function: the tier is the one with the highest MinPoints not exceeding
// the lifetime total. Thresholds are held sorted ascending, which makes
// the mapping monotonic by construction.
type TierSchedule struct {
	thresholds []TierThreshold
}

// NewTierSchedule builds a schedule from the given thresholds. The first
// threshold is forced down to zero so the function is total over all
// non-negative inputs.
func NewTierSchedule(thresholds []TierThreshold) (TierSchedule, error) {
	if len(thresholds) == 0 {
		return TierSchedule{}, ErrEmptyTierSchedule
	}

	sorted := make([]TierThreshold, len(thresholds))
	copy(sorted, thresholds)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinPoints < sorted[j].MinPoints
	})
	sorted[0].MinPoints = 0

	return TierSchedule{thresholds: sorted}, nil
}

// TierFor returns the tier label for the given lifetime points. Negative
// input is a caller contract violation and maps to the base tier.
func (s TierSchedule) TierFor(lifetimePoints int64) string {
	tier := s.thresholds[0].Tier
	for _, t := range s.thresholds {
		if lifetimePoints < t.MinPoints {
			break
		}
		tier = t.Tier
	}

	return tier
}

// Thresholds returns a copy of the ordered thresholds.
func (s TierSchedule) Thresholds() []TierThreshold {
	out := make([]TierThreshold, len(s.thresholds))
	copy(out, s.thresholds)

	return out
}
