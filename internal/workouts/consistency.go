package workouts

import (
	"fmt"
	"math"
	"sort"
)

// RegularityMode selects how the regularity sub-score is computed. A
// deployment picks one mode and sticks with it; the two are never mixed
// within a single score.
type RegularityMode string

const (
	// RegularityModeIntervalVariance scores how evenly the sessions are
	// spaced around the ideal every-other-day cadence. The deployed default.
	RegularityModeIntervalVariance RegularityMode = "interval_variance"
	// RegularityModeSimpleThreshold is the simplified fallback: a flat score
	// keyed only on the session count.
	RegularityModeSimpleThreshold RegularityMode = "simple_threshold"
)

func (m RegularityMode) IsValid() bool {
	return m == RegularityModeIntervalVariance || m == RegularityModeSimpleThreshold
}

const (
	DefaultTargetWeekly  = 4
	DefaultTargetMonthly = 16

	achievementMaxPoints = 40.0
	regularityMaxPoints  = 40.0
	intensityMaxPoints   = 20.0

	// every-other-day cadence, matching a 4-per-week target
	idealIntervalDays     = 2.0
	intervalPenaltyPoints = 5.0

	simpleRegularityHighCount  = 12
	simpleRegularityHighPoints = 30.0
	simpleRegularityLowPoints  = 20.0
)

// Scorer computes the 0-100 consistency score over a workout history.
// Stateless; safe to share.
type Scorer struct {
	TargetWeekly   int
	TargetMonthly  int
	RegularityMode RegularityMode
}

func NewScorer() Scorer {
	return Scorer{
		TargetWeekly:   DefaultTargetWeekly,
		TargetMonthly:  DefaultTargetMonthly,
		RegularityMode: RegularityModeIntervalVariance,
	}
}

type Breakdown struct {
	AchievementRate      float64 `json:"achievement_rate"`
	Regularity           float64 `json:"regularity"`
	IntensityMaintenance float64 `json:"intensity_maintenance"`
}

type ConsistencyResult struct {
	TotalScore int       `json:"total_score"`
	Breakdown  Breakdown `json:"breakdown"`
	Feedback   string    `json:"feedback"`
}

// Score computes the consistency score from the completed sessions:
// achievement (up to 40), regularity (up to 40) and intensity maintenance
// (up to 20). An empty history is a normal state for new users and scores 0
// with the lowest feedback tier, never an error.
func (s Scorer) Score(sessions []Session) ConsistencyResult {
	completed := make([]Session, 0, len(sessions))
	for _, session := range sessions {
		if session.Completed {
			completed = append(completed, session)
		}
	}
	n := len(completed)

	achievementRate := math.Min(
		float64(n)/float64(s.TargetMonthly)*achievementMaxPoints,
		achievementMaxPoints,
	)

	regularity := s.regularity(completed)
	intensityMaintenance := intensityMaintenance(completed)

	totalScore := int(math.Round(achievementRate + regularity + intensityMaintenance))

	return ConsistencyResult{
		TotalScore: totalScore,
		Breakdown: Breakdown{
			AchievementRate:      round1(achievementRate),
			Regularity:           round1(regularity),
			IntensityMaintenance: round1(intensityMaintenance),
		},
		Feedback: feedback(totalScore, n, s.TargetMonthly),
	}
}

func (s Scorer) regularity(completed []Session) float64 {
	if s.RegularityMode == RegularityModeSimpleThreshold {
		if len(completed) >= simpleRegularityHighCount {
			return simpleRegularityHighPoints
		}
		return simpleRegularityLowPoints
	}

	if len(completed) < 2 {
		return 0
	}

	dates := make([]int64, 0, len(completed))
	for _, session := range completed {
		dates = append(dates, session.Date.Unix()/(24*3600))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	var deviationSum float64
	for i := 1; i < len(dates); i++ {
		gap := float64(dates[i] - dates[i-1])
		deviationSum += math.Abs(gap - idealIntervalDays)
	}
	variance := deviationSum / float64(len(dates)-1)

	return math.Max(regularityMaxPoints-variance*intervalPenaltyPoints, 0)
}

func intensityMaintenance(completed []Session) float64 {
	if len(completed) == 0 {
		return 0
	}

	var weightSum int
	for _, session := range completed {
		weightSum += session.Intensity.Weight()
	}
	avgIntensity := float64(weightSum) / float64(len(completed))

	return math.Min(avgIntensity/3*intensityMaxPoints, intensityMaxPoints)
}

// feedback tiers are checked highest first; the boundaries and the numbers
// substituted into the messages are the contract, the wording is not.
func feedback(score, actualWorkouts, targetWorkouts int) string {
	switch {
	case score >= 90:
		return fmt.Sprintf(
			"Perfect! You exceeded your goal with %d workouts this month. Keep this pace!",
			actualWorkouts,
		)
	case score >= 80:
		return fmt.Sprintf(
			"Excellent! You trained consistently %d times this month. See you next month!",
			actualWorkouts,
		)
	case score >= 70:
		return fmt.Sprintf(
			"You are doing well! Only %d workouts left to reach your goal. Almost there!",
			targetWorkouts-actualWorkouts,
		)
	case score >= 60:
		return "A good start. How about raising the workout frequency a little?"
	default:
		return "You got started! Build up from small goals, step by step."
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
