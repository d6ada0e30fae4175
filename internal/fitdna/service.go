package fitdna

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/westhnu/fitdna/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=fitdna_test

type resultsRepo interface {
	Add(ctx context.Context, result Result) (*Result, error)
	Get(ctx context.Context, id int) (*Result, error)
	LatestForUser(ctx context.Context, userID int) (*Result, error)
	List(ctx context.Context, params ListParams) (_ []Result, total int, err error)
	CohortAxisScores(ctx context.Context, code Code, axis Axis) ([]float64, error)
}

type cohortScoresCache interface {
	Get(ctx context.Context, code Code, axis Axis) ([]float64, bool)
	Set(ctx context.Context, code Code, axis Axis, scores []float64)
	Invalidate(ctx context.Context, code Code)
}

type ListParams struct {
	UserID int
	Type   Code
	Page   int
	Size   int
}

// Service runs the classification pipeline over an injected reference table
// and persists/serves results through the repo. Stateless per call; the
// reference table is loaded once and shared by all requests.
type Service struct {
	tables    tableSource
	repo      resultsRepo
	cohort    cohortScoresCache
	threshold float64
}

type tableSource interface {
	Table() (*Table, error)
}

func NewService(tables tableSource, repo resultsRepo, cohort cohortScoresCache, threshold float64) *Service {
	return &Service{
		tables:    tables,
		repo:      repo,
		cohort:    cohort,
		threshold: threshold,
	}
}

func (s *Service) thresholdFor(override *float64) float64 {
	if override != nil {
		return *override
	}
	return s.threshold
}

// ClassifyMeasurements runs the full pipeline: validation, per-item z-score
// normalization, axis aggregation, type classification. When the request
// carries a user ID the result is persisted and becomes part of that type's
// cohort.
func (s *Service) ClassifyMeasurements(ctx context.Context, req ClassifyRequest) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitdna.classify")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	table, err := s.tables.Table()
	if err != nil {
		return nil, fmt.Errorf("reference table: %w", err)
	}

	scores, err := AggregateAxes(req.Age, req.Gender, req.Measurements, table)
	if err != nil {
		return nil, err
	}

	threshold := s.thresholdFor(req.Threshold)
	result := newResult(req.Age, req.Gender, scores, threshold)
	result.UserID = req.UserID
	result.CreatedAt = time.Now()

	span.SetAttributes(attribute.String("fitdna.code", string(result.Type)))

	if req.UserID != 0 && s.repo != nil {
		added, err := s.repo.Add(ctx, *result)
		if err != nil {
			return nil, fmt.Errorf("persist result: %w", err)
		}
		result = added
		if s.cohort != nil {
			s.cohort.Invalidate(ctx, result.Type)
		}
	}

	return result, nil
}

// ClassifyAxisReadings is the secondary calling convention over pre-averaged
// axis-level readings (see AggregateAxisReadings).
func (s *Service) ClassifyAxisReadings(
	ctx context.Context,
	age int,
	gender Gender,
	readings AxisReadings,
	threshold *float64,
) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitdna.classifyAxisReadings")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if age < minSupportedAge || age > maxSupportedAge {
		return nil, fmt.Errorf("%w: age %d out of supported range [%d, %d]",
			ErrInvalidInput, age, minSupportedAge, maxSupportedAge)
	}
	if !gender.IsValid() {
		return nil, fmt.Errorf("%w: gender must be M or F, got %q", ErrInvalidInput, gender)
	}

	table, err := s.tables.Table()
	if err != nil {
		return nil, fmt.Errorf("reference table: %w", err)
	}

	scores, err := AggregateAxisReadings(age, gender, readings, table)
	if err != nil {
		return nil, err
	}

	result := newResult(age, gender, scores, s.thresholdFor(threshold))
	result.CreatedAt = time.Now()
	return result, nil
}

// ResultAnalysis is the human-facing breakdown of a persisted result.
type ResultAnalysis struct {
	Result          Result           `json:"result"`
	Analysis        Analysis         `json:"analysis"`
	Percentiles     map[Axis]float64 `json:"percentiles,omitempty"`
	Feedback        string           `json:"feedback"`
	CompatibleTypes []Code           `json:"compatibleTypes"`
}

// AnalyzeLatest loads the user's latest persisted result and derives
// strengths/weaknesses, percentile standing within the same-type cohort, and
// the feedback text. Missing cohort data degrades to an analysis without
// percentiles instead of failing.
func (s *Service) AnalyzeLatest(ctx context.Context, userID int) (_ *ResultAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitdna.analyzeLatest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	result, err := s.repo.LatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	analysis := Analyze(result.StrengthZ, result.FlexibilityZ, result.EnduranceZ)

	percentiles := make(map[Axis]float64, 3)
	axisScores := map[Axis]float64{
		AxisStrength:    result.StrengthZ,
		AxisFlexibility: result.FlexibilityZ,
		AxisEndurance:   result.EnduranceZ,
	}
	for axis, z := range axisScores {
		cohort, err := s.cohortScores(ctx, result.Type, axis)
		if err != nil {
			log.Warnf("cohort scores [%s/%s]: %s", result.Type, axis, err)
			continue
		}
		percentile, err := PercentileOfScore(cohort, z)
		if err != nil {
			if !errors.Is(err, ErrNoCohortData) {
				log.Warnf("percentile [%s/%s]: %s", result.Type, axis, err)
			}
			continue
		}
		percentiles[axis] = percentile
	}
	if len(percentiles) == 0 {
		percentiles = nil
	}

	return &ResultAnalysis{
		Result:          *result,
		Analysis:        analysis,
		Percentiles:     percentiles,
		Feedback:        FeedbackText(result.Type, analysis, percentiles),
		CompatibleTypes: CompatibleTypes(result.Type),
	}, nil
}

func (s *Service) cohortScores(ctx context.Context, code Code, axis Axis) ([]float64, error) {
	if s.cohort != nil {
		if scores, ok := s.cohort.Get(ctx, code, axis); ok {
			return scores, nil
		}
	}

	scores, err := s.repo.CohortAxisScores(ctx, code, axis)
	if err != nil {
		return nil, err
	}

	if s.cohort != nil {
		s.cohort.Set(ctx, code, axis, scores)
	}
	return scores, nil
}
