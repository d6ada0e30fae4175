package workouts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/westhnu/fitdna/internal/telemetry/tracing"
	"github.com/westhnu/fitdna/pkg"
)

var (
	ErrSessionNotFound     = errors.New("workout session not found")
	ErrMeasurementConflict = errors.New("measurement for that user and time already exists")
)

type SessionParams struct {
	UserID       int
	ExerciseType ExerciseType
	From         *time.Time
	To           *time.Time
	// OnlyCompleted filters out abandoned sessions
	OnlyCompleted bool
}

type SessionListParams struct {
	SessionParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO workout_session
			(user_id, date, exercise_type, exercises, duration, intensity, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		session.UserID, session.Date, session.ExerciseType, session.Exercises,
		session.Duration, session.Intensity, session.Completed, session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session := &Session{}
	err = r.db.QueryRow(ctx, `
		SELECT id, user_id, date, exercise_type, exercises, duration, intensity, completed, created_at
		FROM workout_session
		WHERE id = $1
	`, id).Scan(
		&session.ID, &session.UserID, &session.Date, &session.ExerciseType,
		&session.Exercises, &session.Duration, &session.Intensity,
		&session.Completed, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_session WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) ListSessions(ctx context.Context, params SessionParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, exercise_type, exercises, duration, intensity, completed, created_at
		FROM workout_session
		WHERE ($1::int = 0 OR user_id = $1)
		  AND ($2::text = '' OR exercise_type = $2)
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date < $4)
		  AND ($5::boolean IS FALSE OR completed)
		ORDER BY date
	`,
		params.UserID, params.ExerciseType,
		params.From, params.To, params.OnlyCompleted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *Repo) List(ctx context.Context, params SessionListParams) (_ []Session, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM workout_session
		WHERE ($1::int = 0 OR user_id = $1)
		  AND ($2::text = '' OR exercise_type = $2)
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date < $4)
		  AND ($5::boolean IS FALSE OR completed)
	`,
		params.UserID, params.ExerciseType,
		params.From, params.To, params.OnlyCompleted,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, exercise_type, exercises, duration, intensity, completed, created_at
		FROM workout_session
		WHERE ($1::int = 0 OR user_id = $1)
		  AND ($2::text = '' OR exercise_type = $2)
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date < $4)
		  AND ($5::boolean IS FALSE OR completed)
		ORDER BY date DESC
		LIMIT $6 OFFSET $7
	`,
		params.UserID, params.ExerciseType,
		params.From, params.To, params.OnlyCompleted,
		params.Size, params.Size*(params.Page-1),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func scanSessions(rows pgx.Rows) ([]Session, error) {
	sessions := make([]Session, 0)
	for rows.Next() {
		session := Session{}
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.Date, &session.ExerciseType,
			&session.Exercises, &session.Duration, &session.Intensity,
			&session.Completed, &session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *Repo) AddMeasurement(ctx context.Context, measurement Measurement) (_ *Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addMeasurement")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO fitness_measurement (user_id, measured_at, measurement_values)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		measurement.UserID, measurement.MeasuredAt, measurement.Values,
	).Scan(&measurement.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrMeasurementConflict
		}
		return nil, err
	}

	return &measurement, nil
}

// LatestMeasurements returns up to limit measurements of the user taken
// before the given time, newest first.
func (r *Repo) LatestMeasurements(ctx context.Context, userID int, before time.Time, limit int) (_ []Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.latestMeasurements")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, measured_at, measurement_values
		FROM fitness_measurement
		WHERE user_id = $1 AND measured_at < $2
		ORDER BY measured_at DESC
		LIMIT $3
	`, userID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]Measurement, 0, limit)
	for rows.Next() {
		measurement := Measurement{}
		if err := rows.Scan(
			&measurement.ID, &measurement.UserID,
			&measurement.MeasuredAt, &measurement.Values,
		); err != nil {
			return nil, err
		}
		measurements = append(measurements, measurement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return measurements, nil
}
