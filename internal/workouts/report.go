package workouts

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/westhnu/fitdna/internal/telemetry/tracing"
)

// Measurement is one dated set of raw fitness measurement values, keyed by
// item name. Used by the monthly report to show metric changes over time.
type Measurement struct {
	ID         int                `json:"id"`
	UserID     int                `json:"userId"`
	MeasuredAt time.Time          `json:"measuredAt"`
	Values     map[string]float64 `json:"values"`
}

type MonthlySummary struct {
	TotalWorkoutDays int     `json:"totalWorkoutDays"`
	TotalSessions    int     `json:"totalSessions"`
	TotalDuration    int     `json:"totalDuration"` // minutes
	WeeklyAverage    float64 `json:"weeklyAverage"`
}

type TypeFrequency struct {
	Strength    int `json:"strength"`
	Flexibility int `json:"flexibility"`
	Endurance   int `json:"endurance"`
}

type MetricChange struct {
	Item          string  `json:"item"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Previous      float64 `json:"previous"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

type MonthlyReport struct {
	UserID        int               `json:"userId"`
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	Summary       MonthlySummary    `json:"summary"`
	Frequency     TypeFrequency     `json:"frequency"`
	MetricChanges []MetricChange    `json:"metricChanges,omitempty"`
	Consistency   ConsistencyResult `json:"consistency"`
}

// fixed report order
var metricOrder = []string{
	"grip_right", "grip_left", "sit_up", "sit_and_reach",
	"standing_long_jump", "vo2max", "shuttle_run",
}

var metricDisplay = map[string]struct{ Name, Unit string }{
	"grip_right":         {"Grip strength (right)", "kg"},
	"grip_left":          {"Grip strength (left)", "kg"},
	"sit_up":             {"Sit-ups", "reps/min"},
	"sit_and_reach":      {"Sit and reach", "cm"},
	"standing_long_jump": {"Standing long jump", "cm"},
	"vo2max":             {"VO2max", "ml/kg/min"},
	"shuttle_run":        {"Shuttle run", "laps"},
}

//go:generate mockgen -source=$GOFILE -destination=report_mocks_test.go -package=workouts_test

type reportRepo interface {
	ListSessions(ctx context.Context, params SessionParams) ([]Session, error)
	LatestMeasurements(ctx context.Context, userID int, before time.Time, limit int) ([]Measurement, error)
}

// Analyzer derives the monthly report facts from the workout history.
type Analyzer struct {
	repo   reportRepo
	scorer Scorer
}

func NewAnalyzer(repo reportRepo, scorer Scorer) *Analyzer {
	return &Analyzer{
		repo:   repo,
		scorer: scorer,
	}
}

// MonthlyReport builds the summary, per-type frequency, metric changes vs the
// previous measurement and the consistency score for one calendar month.
func (a *Analyzer) MonthlyReport(ctx context.Context, userID, year int, month time.Month) (_ *MonthlyReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.workouts.monthlyReport")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("report.year", year),
		attribute.Int("report.month", int(month)),
	)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	sessions, err := a.repo.ListSessions(ctx, SessionParams{
		UserID: userID,
		From:   &monthStart,
		To:     &monthEnd,
	})
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		UserID:      userID,
		Year:        year,
		Month:       int(month),
		Summary:     summarize(sessions),
		Frequency:   typeFrequency(sessions),
		Consistency: a.scorer.Score(sessions),
	}

	// metric changes need the two most recent measurements up to month end
	measurements, err := a.repo.LatestMeasurements(ctx, userID, monthEnd, 2)
	if err != nil {
		return nil, err
	}
	if len(measurements) == 2 {
		report.MetricChanges = metricChanges(measurements[1], measurements[0])
	}

	return report, nil
}

func summarize(sessions []Session) MonthlySummary {
	summary := MonthlySummary{}
	days := make(map[string]bool)
	for _, session := range sessions {
		if !session.Completed {
			continue
		}
		summary.TotalSessions++
		summary.TotalDuration += session.Duration
		days[session.Date.Format("2006-01-02")] = true
	}
	summary.TotalWorkoutDays = len(days)
	summary.WeeklyAverage = math.Round(float64(summary.TotalWorkoutDays)/4*10) / 10
	return summary
}

func typeFrequency(sessions []Session) TypeFrequency {
	freq := TypeFrequency{}
	for _, session := range sessions {
		if !session.Completed {
			continue
		}
		switch session.ExerciseType {
		case ExerciseTypeStrength:
			freq.Strength++
		case ExerciseTypeFlexibility:
			freq.Flexibility++
		case ExerciseTypeEndurance:
			freq.Endurance++
		}
	}
	return freq
}

func metricChanges(previous, current Measurement) []MetricChange {
	changes := make([]MetricChange, 0)
	for _, item := range metricOrder {
		display := metricDisplay[item]
		prevValue, prevOK := previous.Values[item]
		currValue, currOK := current.Values[item]
		if !prevOK || !currOK {
			continue
		}

		change := math.Round((currValue-prevValue)*100) / 100
		var changePercent float64
		if prevValue != 0 {
			changePercent = math.Round(change/prevValue*100*10) / 10
		}

		changes = append(changes, MetricChange{
			Item:          item,
			Name:          display.Name,
			Unit:          display.Unit,
			Previous:      prevValue,
			Current:       currValue,
			Change:        change,
			ChangePercent: changePercent,
		})
	}
	return changes
}
