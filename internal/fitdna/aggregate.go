package fitdna

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

type Axis string

const (
	AxisStrength    Axis = "strength"
	AxisFlexibility Axis = "flexibility"
	AxisEndurance   Axis = "endurance"
)

// Candidate measurement items per axis. Strength and endurance require at
// least one usable item; flexibility is optional and defaults to neutral.
var (
	StrengthItems    = []string{ItemGripRight, ItemGripLeft, ItemStandingLongJump, ItemSitUp}
	FlexibilityItems = []string{ItemSitAndReach}
	EnduranceItems   = []string{ItemVO2Max, ItemShuttleRun}
)

const (
	ItemGripRight        = "grip_right"
	ItemGripLeft         = "grip_left"
	ItemStandingLongJump = "standing_long_jump"
	ItemSitUp            = "sit_up"
	ItemSitAndReach      = "sit_and_reach"
	ItemVO2Max           = "vo2max"
	ItemShuttleRun       = "shuttle_run"
)

// ItemResult is the outcome of normalizing one candidate item: either a
// z-score or an explicit skip with its reason. Collecting these (instead of
// swallowing lookup failures inline) keeps the "at least one usable item"
// rule a plain fold over the list.
type ItemResult struct {
	Item       string  `json:"item"`
	Z          float64 `json:"z"`
	Skipped    bool    `json:"skipped"`
	SkipReason string  `json:"skipReason,omitempty"`
}

// AxisScores holds the three axis-level z-scores plus the per-item outcomes
// they were folded from.
type AxisScores struct {
	Strength    float64
	Flexibility float64
	Endurance   float64

	StrengthItems    []ItemResult
	FlexibilityItems []ItemResult
	EnduranceItems   []ItemResult
}

// UsedItems returns the names of the items that actually contributed to the
// given axis score.
func (s *AxisScores) UsedItems(axis Axis) []string {
	var results []ItemResult
	switch axis {
	case AxisStrength:
		results = s.StrengthItems
	case AxisFlexibility:
		results = s.FlexibilityItems
	case AxisEndurance:
		results = s.EnduranceItems
	}
	used := make([]string, 0, len(results))
	for _, res := range results {
		if !res.Skipped {
			used = append(used, res.Item)
		}
	}
	return used
}

// normalizeCandidates runs Normalize over every candidate item present in the
// measurement set and records hit-or-skip per item.
func normalizeCandidates(
	candidates []string,
	measurements map[string]float64,
	age int,
	gender Gender,
	table *Table,
) []ItemResult {
	results := make([]ItemResult, 0, len(candidates))
	for _, item := range candidates {
		value, ok := measurements[item]
		if !ok {
			continue
		}
		z, err := Normalize(value, age, gender, item, table)
		if err != nil {
			log.Debugf("axis aggregation: skipping item %q: %s", item, err)
			results = append(results, ItemResult{
				Item:       item,
				Skipped:    true,
				SkipReason: err.Error(),
			})
			continue
		}
		results = append(results, ItemResult{Item: item, Z: z})
	}
	return results
}

func foldAxisMean(results []ItemResult) (float64, int) {
	var sum float64
	var n int
	for _, res := range results {
		if res.Skipped {
			continue
		}
		sum += res.Z
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// AggregateAxes turns a raw measurement set into the three axis z-scores.
//
// Strength and endurance each need at least one item with a usable reference
// entry; unusable items are skipped, but an axis with zero contributions
// fails the whole aggregation. Flexibility is the sanctioned exception: a
// missing measurement or reference entry yields a neutral 0.0 score.
func AggregateAxes(
	age int,
	gender Gender,
	measurements map[string]float64,
	table *Table,
) (*AxisScores, error) {
	scores := &AxisScores{
		StrengthItems:    normalizeCandidates(StrengthItems, measurements, age, gender, table),
		FlexibilityItems: normalizeCandidates(FlexibilityItems, measurements, age, gender, table),
		EnduranceItems:   normalizeCandidates(EnduranceItems, measurements, age, gender, table),
	}

	strengthZ, n := foldAxisMean(scores.StrengthItems)
	if n == 0 {
		return nil, NewInsufficientAxisDataError(AxisStrength, StrengthItems)
	}
	scores.Strength = strengthZ

	// flexibility defaults to neutral when absent or without reference data
	flexZ, n := foldAxisMean(scores.FlexibilityItems)
	if n == 0 {
		flexZ = 0.0
		log.Debugf("axis aggregation: no usable flexibility data, using neutral 0.0")
	}
	scores.Flexibility = flexZ

	enduranceZ, n := foldAxisMean(scores.EnduranceItems)
	if n == 0 {
		return nil, NewInsufficientAxisDataError(AxisEndurance, EnduranceItems)
	}
	scores.Endurance = enduranceZ

	return scores, nil
}

// AxisReadings is the secondary calling convention: readings already averaged
// per device, normalized against the axis-level reference entries
// ("strength" / "flexibility" / "endurance") instead of per-item ones.
type AxisReadings struct {
	GripStrengthRight *float64 `json:"grip_strength_right,omitempty"`
	GripStrengthLeft  *float64 `json:"grip_strength_left,omitempty"`
	StandingLongJump  *float64 `json:"standing_long_jump,omitempty"`

	SitAndReach *float64 `json:"sit_and_reach,omitempty"`

	VO2Max *float64 `json:"vo2max,omitempty"`
	// ShuttleRunTime is a time in seconds: lower is better, so its z-score
	// contributes with the sign inverted.
	ShuttleRunTime *float64 `json:"shuttle_run_time,omitempty"`
}

// AggregateAxisReadings computes the three axis z-scores from pre-averaged
// axis-level readings. Same required-axis policy as AggregateAxes, same
// flexibility neutral default.
func AggregateAxisReadings(
	age int,
	gender Gender,
	readings AxisReadings,
	table *Table,
) (*AxisScores, error) {
	scores := &AxisScores{}

	normalize := func(axis Axis, item string, value *float64, invert bool) ItemResult {
		z, err := Normalize(*value, age, gender, string(axis), table)
		if err != nil {
			log.Debugf("axis readings: skipping %q: %s", item, err)
			return ItemResult{Item: item, Skipped: true, SkipReason: err.Error()}
		}
		if invert {
			z = -z
		}
		return ItemResult{Item: item, Z: z}
	}

	if readings.GripStrengthRight != nil {
		scores.StrengthItems = append(scores.StrengthItems,
			normalize(AxisStrength, "grip_strength_right", readings.GripStrengthRight, false))
	}
	if readings.GripStrengthLeft != nil {
		scores.StrengthItems = append(scores.StrengthItems,
			normalize(AxisStrength, "grip_strength_left", readings.GripStrengthLeft, false))
	}
	if readings.StandingLongJump != nil {
		scores.StrengthItems = append(scores.StrengthItems,
			normalize(AxisStrength, ItemStandingLongJump, readings.StandingLongJump, false))
	}

	strengthZ, n := foldAxisMean(scores.StrengthItems)
	if n == 0 {
		return nil, NewInsufficientAxisDataError(AxisStrength,
			[]string{"grip_strength_right", "grip_strength_left", ItemStandingLongJump})
	}
	scores.Strength = strengthZ

	if readings.SitAndReach != nil {
		scores.FlexibilityItems = append(scores.FlexibilityItems,
			normalize(AxisFlexibility, ItemSitAndReach, readings.SitAndReach, false))
	}
	flexZ, n := foldAxisMean(scores.FlexibilityItems)
	if n == 0 {
		flexZ = 0.0
	}
	scores.Flexibility = flexZ

	if readings.VO2Max != nil {
		scores.EnduranceItems = append(scores.EnduranceItems,
			normalize(AxisEndurance, ItemVO2Max, readings.VO2Max, false))
	}
	if readings.ShuttleRunTime != nil {
		scores.EnduranceItems = append(scores.EnduranceItems,
			normalize(AxisEndurance, "shuttle_run_time", readings.ShuttleRunTime, true))
	}
	enduranceZ, n := foldAxisMean(scores.EnduranceItems)
	if n == 0 {
		return nil, NewInsufficientAxisDataError(AxisEndurance,
			[]string{ItemVO2Max, "shuttle_run_time"})
	}
	scores.Endurance = enduranceZ

	return scores, nil
}

// IsInsufficientAxisData reports whether err is a missing-required-axis error.
func IsInsufficientAxisData(err error) bool {
	var insufficientErr *InsufficientAxisDataError
	return errors.As(err, &insufficientErr)
}
