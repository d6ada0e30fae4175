package fitdna

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/westhnu/fitdna/internal/telemetry/tracing"
)

// Repo persists classification results in postgres. The display fields
// (type name, description, levels, 0-10 scores) are derived on read, only
// the computed facts are stored.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, result Result) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitdna.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO fitdna_result
			(user_id, type, strength_z, flexibility_z, endurance_z,
			 threshold, age, gender, measurements_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		result.UserID, result.Type,
		result.StrengthZ, result.FlexibilityZ, result.EnduranceZ,
		result.Threshold, result.Age, result.Gender,
		result.MeasurementsUsed, result.CreatedAt,
	).Scan(&result.ID)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitdna.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, user_id, type, strength_z, flexibility_z, endurance_z,
			   threshold, age, gender, measurements_used, created_at
		FROM fitdna_result
		WHERE id = $1
	`, id))
}

func (r *Repo) LatestForUser(ctx context.Context, userID int) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitdna.latestForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	return r.scanOne(r.db.QueryRow(ctx, `
		SELECT id, user_id, type, strength_z, flexibility_z, endurance_z,
			   threshold, age, gender, measurements_used, created_at
		FROM fitdna_result
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Result, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitdna.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM fitdna_result
		WHERE ($1::int = 0 OR user_id = $1)
		  AND ($2::text = '' OR type = $2)
	`, params.UserID, params.Type).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, type, strength_z, flexibility_z, endurance_z,
			   threshold, age, gender, measurements_used, created_at
		FROM fitdna_result
		WHERE ($1::int = 0 OR user_id = $1)
		  AND ($2::text = '' OR type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`,
		params.UserID, params.Type,
		params.Size, params.Size*(params.Page-1),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := make([]Result, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// CohortAxisScores returns the given axis z-score of every persisted result
// of the given type: the distribution percentile standings are ranked in.
func (r *Repo) CohortAxisScores(ctx context.Context, code Code, axis Axis) (_ []float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitdna.cohortAxisScores")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("fitdna.code", string(code)),
		attribute.String("fitdna.axis", string(axis)),
	)

	var column string
	switch axis {
	case AxisStrength:
		column = "strength_z"
	case AxisFlexibility:
		column = "flexibility_z"
	case AxisEndurance:
		column = "endurance_z"
	default:
		return nil, fmt.Errorf("unknown axis: %q", axis)
	}

	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM fitdna_result WHERE type = $1`, column),
		code,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]float64, 0)
	for rows.Next() {
		var z float64
		if err := rows.Scan(&z); err != nil {
			return nil, err
		}
		scores = append(scores, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scores, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repo) scanOne(row rowScanner) (*Result, error) {
	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

func scanResult(row rowScanner) (*Result, error) {
	var result Result
	if err := row.Scan(
		&result.ID, &result.UserID, &result.Type,
		&result.StrengthZ, &result.FlexibilityZ, &result.EnduranceZ,
		&result.Threshold, &result.Age, &result.Gender,
		&result.MeasurementsUsed, &result.CreatedAt,
	); err != nil {
		return nil, err
	}

	desc := Describe(result.Type)
	result.TypeName = desc.Name
	result.Description = desc.Description
	result.StrengthLevel, result.FlexibilityLevel, result.EnduranceLevel = AxisLevels(
		result.StrengthZ, result.FlexibilityZ, result.EnduranceZ, result.Threshold,
	)
	result.StrengthScore = ScoreOutOf10(result.StrengthZ)
	result.FlexibilityScore = ScoreOutOf10(result.FlexibilityZ)
	result.EnduranceScore = ScoreOutOf10(result.EnduranceZ)

	return &result, nil
}
