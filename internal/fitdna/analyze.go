package fitdna

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Level is a qualitative fitness band derived from a z-score.
type Level string

const (
	LevelVeryGood         Level = "Very Good"
	LevelGood             Level = "Good"
	LevelAboveAverage     Level = "Above Average"
	LevelBelowAverage     Level = "Below Average"
	LevelNeedsImprovement Level = "Needs Improvement"
	LevelNeedsUrgentWork  Level = "Needs Urgent Improvement"
)

// LevelForZ maps a z-score to its qualitative band. Bands are closed on the
// lower bound and cover all reals.
func LevelForZ(z float64) Level {
	switch {
	case z >= 1.0:
		return LevelVeryGood
	case z >= 0.5:
		return LevelGood
	case z >= 0.0:
		return LevelAboveAverage
	case z >= -0.5:
		return LevelBelowAverage
	case z >= -1.0:
		return LevelNeedsImprovement
	default:
		return LevelNeedsUrgentWork
	}
}

// axes with a z-score spread below this are considered balanced
const balancedStdDevThreshold = 0.3

type AxisAssessment struct {
	Axis  Axis    `json:"axis"`
	Z     float64 `json:"z"`
	Level Level   `json:"level"`
}

// Analysis is the qualitative strength/weakness breakdown of the three axis
// z-scores. An axis with a z-score of exactly zero is neither a strength nor
// a weakness.
type Analysis struct {
	Strengths  []AxisAssessment `json:"strengths"`
	Weaknesses []AxisAssessment `json:"weaknesses"`
	Balanced   bool             `json:"balanced"`
	Dispersion float64          `json:"dispersion"`
}

// Analyze computes strengths (z strictly > 0, best first), weaknesses
// (z strictly < 0, worst first) and the balance verdict over the population
// standard deviation of the three scores. Pure, no hidden state.
func Analyze(strengthZ, flexZ, enduranceZ float64) Analysis {
	axes := []AxisAssessment{
		{Axis: AxisStrength, Z: strengthZ, Level: LevelForZ(strengthZ)},
		{Axis: AxisFlexibility, Z: flexZ, Level: LevelForZ(flexZ)},
		{Axis: AxisEndurance, Z: enduranceZ, Level: LevelForZ(enduranceZ)},
	}

	analysis := Analysis{
		Strengths:  make([]AxisAssessment, 0, 3),
		Weaknesses: make([]AxisAssessment, 0, 3),
		Dispersion: populationStdDev(strengthZ, flexZ, enduranceZ),
	}
	analysis.Balanced = analysis.Dispersion < balancedStdDevThreshold

	for _, axis := range axes {
		switch {
		case axis.Z > 0:
			analysis.Strengths = append(analysis.Strengths, axis)
		case axis.Z < 0:
			analysis.Weaknesses = append(analysis.Weaknesses, axis)
		}
	}

	sort.SliceStable(analysis.Strengths, func(i, j int) bool {
		return analysis.Strengths[i].Z > analysis.Strengths[j].Z
	})
	sort.SliceStable(analysis.Weaknesses, func(i, j int) bool {
		return analysis.Weaknesses[i].Z < analysis.Weaknesses[j].Z
	})

	return analysis
}

func populationStdDev(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sqSum float64
	for _, v := range values {
		sqSum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sqSum / float64(len(values)))
}

// PercentileOfScore is the standard percentile-of-score: the fraction of
// cohort values less than or equal to z, scaled to 0-100.
func PercentileOfScore(cohort []float64, z float64) (float64, error) {
	if len(cohort) == 0 {
		return 0, ErrNoCohortData
	}
	count := 0
	for _, v := range cohort {
		if v <= z {
			count++
		}
	}
	return float64(count) / float64(len(cohort)) * 100, nil
}

// ScoreOutOf10 maps a z-score in the practical [-3, 3] range onto a 0-10
// display score, clipped at both ends and rounded to one decimal.
func ScoreOutOf10(z float64) float64 {
	score := (z + 3) / 6 * 10
	score = math.Max(0, math.Min(10, score))
	return math.Round(score*10) / 10
}

var remedialSuggestions = map[Axis]string{
	AxisStrength:    "weight training and bodyweight exercises",
	AxisFlexibility: "yoga, stretching and pilates",
	AxisEndurance:   "cardio, jogging and swimming",
}

// FeedbackText renders the human-facing analysis summary: relative standing
// within the type, each strength and weakness with its level and percentile,
// a remedial suggestion per weakness, and the balance verdict.
// Percentiles may be nil when no cohort data is available.
func FeedbackText(code Code, analysis Analysis, percentiles map[Axis]float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s type analysis]\n", code)

	if len(percentiles) > 0 {
		var sum float64
		for _, p := range percentiles {
			sum += p
		}
		avg := sum / float64(len(percentiles))
		switch {
		case avg >= 75:
			fmt.Fprintf(&b, "You are in the top %.0f%% of the %s type.\n", 100-avg, code)
		case avg >= 50:
			fmt.Fprintf(&b, "You are around the average of the %s type.\n", code)
		default:
			fmt.Fprintf(&b, "You are in the bottom %.0f%% of the %s type.\n", avg, code)
		}
	} else {
		b.WriteString("No cohort data available for your type yet.\n")
	}

	b.WriteString("\nStrengths:\n")
	if len(analysis.Strengths) == 0 {
		b.WriteString("  - no axis above average yet, overall conditioning recommended\n")
	}
	for _, s := range analysis.Strengths {
		fmt.Fprintf(&b, "  - %s: %s (z %+.2f)", s.Axis, s.Level, s.Z)
		if p, ok := percentiles[s.Axis]; ok {
			fmt.Fprintf(&b, ", top %.0f%%", 100-p)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nWeaknesses:\n")
	if len(analysis.Weaknesses) == 0 {
		b.WriteString("  - all axes at or above average, keep it up\n")
	}
	for _, w := range analysis.Weaknesses {
		fmt.Fprintf(&b, "  - %s: %s (z %+.2f)", w.Axis, w.Level, w.Z)
		if p, ok := percentiles[w.Axis]; ok {
			fmt.Fprintf(&b, ", bottom %.0f%%", p)
		}
		fmt.Fprintf(&b, "\n    suggested: %s\n", remedialSuggestions[w.Axis])
	}

	if analysis.Balanced {
		b.WriteString("\nOverall: a well balanced fitness profile.")
	} else {
		b.WriteString("\nOverall: skewed towards specific axes, work on the weaknesses above.")
	}

	return b.String()
}
