package fitdna

import (
	"fmt"
	"math"
	"time"
)

// ClassifyRequest is the measurement-to-type classification request: raw
// measurements keyed by item name, plus the (age, gender) cohort selector.
// Threshold overrides DefaultThreshold when set. UserID is optional; when
// set, the computed result gets persisted for that user.
type ClassifyRequest struct {
	Age          int                `json:"age"`
	Gender       Gender             `json:"gender"`
	Measurements map[string]float64 `json:"measurements"`
	Threshold    *float64           `json:"threshold,omitempty"`
	UserID       int                `json:"userId,omitempty"`
}

// items where a negative raw value is physically impossible;
// sit_and_reach is legitimately negative when the reach falls short of the toes
var nonNegativeItems = map[string]bool{
	ItemGripRight:        true,
	ItemGripLeft:         true,
	ItemStandingLongJump: true,
	ItemSitUp:            true,
	ItemVO2Max:           true,
	ItemShuttleRun:       true,
}

const (
	minSupportedAge = 1
	maxSupportedAge = 120
)

// Validate checks the request at the boundary, before anything reaches the
// normalizer: supported age/gender domain and well-formed measurement values.
func (req *ClassifyRequest) Validate() error {
	if req.Age < minSupportedAge || req.Age > maxSupportedAge {
		return fmt.Errorf("%w: age %d out of supported range [%d, %d]",
			ErrInvalidInput, req.Age, minSupportedAge, maxSupportedAge)
	}
	if !req.Gender.IsValid() {
		return fmt.Errorf("%w: gender must be M or F, got %q", ErrInvalidInput, req.Gender)
	}
	if len(req.Measurements) == 0 {
		return fmt.Errorf("%w: no measurements given", ErrInvalidInput)
	}
	for item, value := range req.Measurements {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: measurement %q is not a finite number", ErrInvalidInput, item)
		}
		if value < 0 && nonNegativeItems[item] {
			return fmt.Errorf("%w: measurement %q cannot be negative", ErrInvalidInput, item)
		}
	}
	return nil
}

type MeasurementsUsed struct {
	StrengthItems    []string `json:"strength_items"`
	FlexibilityItems []string `json:"flexibility_items"`
	EnduranceItems   []string `json:"endurance_items"`
}

// Result is one computed FIT-DNA classification.
type Result struct {
	ID     int `json:"id,omitempty"`
	UserID int `json:"userId,omitempty"`

	Type        Code   `json:"fitdna_type"`
	TypeName    string `json:"type_name"`
	Description string `json:"description"`

	StrengthLevel    string `json:"strength_level"`
	FlexibilityLevel string `json:"flexibility_level"`
	EnduranceLevel   string `json:"endurance_level"`

	StrengthZ    float64 `json:"strength_z"`
	FlexibilityZ float64 `json:"flexibility_z"`
	EnduranceZ   float64 `json:"endurance_z"`

	// display scores on a 0-10 scale derived from the z-scores
	StrengthScore    float64 `json:"strength_score"`
	FlexibilityScore float64 `json:"flexibility_score"`
	EnduranceScore   float64 `json:"endurance_score"`

	MeasurementsUsed MeasurementsUsed `json:"measurements_used"`

	Age       int       `json:"age"`
	Gender    Gender    `json:"gender"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// newResult assembles a Result from the aggregated axis scores.
func newResult(age int, gender Gender, scores *AxisScores, threshold float64) *Result {
	code := Classify(scores.Strength, scores.Flexibility, scores.Endurance, threshold)
	desc := Describe(code)
	strengthLevel, flexLevel, enduranceLevel := AxisLevels(
		scores.Strength, scores.Flexibility, scores.Endurance, threshold,
	)

	return &Result{
		Type:        code,
		TypeName:    desc.Name,
		Description: desc.Description,

		StrengthLevel:    strengthLevel,
		FlexibilityLevel: flexLevel,
		EnduranceLevel:   enduranceLevel,

		StrengthZ:    round2(scores.Strength),
		FlexibilityZ: round2(scores.Flexibility),
		EnduranceZ:   round2(scores.Endurance),

		StrengthScore:    ScoreOutOf10(scores.Strength),
		FlexibilityScore: ScoreOutOf10(scores.Flexibility),
		EnduranceScore:   ScoreOutOf10(scores.Endurance),

		MeasurementsUsed: MeasurementsUsed{
			StrengthItems:    scores.UsedItems(AxisStrength),
			FlexibilityItems: scores.UsedItems(AxisFlexibility),
			EnduranceItems:   scores.UsedItems(AxisEndurance),
		},

		Age:       age,
		Gender:    gender,
		Threshold: threshold,
	}
}
