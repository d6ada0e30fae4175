package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/westhnu/fitdna/internal/config"
	"github.com/westhnu/fitdna/internal/db"
	"github.com/westhnu/fitdna/internal/fitdna"
	"github.com/westhnu/fitdna/internal/workouts"
)

// Seeds development data: a reference table JSON file and, when -sessions is
// set, a batch of fake workout sessions in the dev database.

var referenceItems = map[string]struct{ mean, std float64 }{
	fitdna.ItemGripRight:        {38.0, 7.5},
	fitdna.ItemGripLeft:         {36.0, 7.2},
	fitdna.ItemSitUp:            {28.0, 8.0},
	fitdna.ItemSitAndReach:      {11.0, 7.8},
	fitdna.ItemStandingLongJump: {195.0, 25.0},
	fitdna.ItemVO2Max:           {42.0, 7.0},
	fitdna.ItemShuttleRun:       {55.0, 18.0},
}

func main() {
	env := flag.String("env", "development", "environment [dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	outPath := flag.String("out", "./reference_tables.json", "output path for the reference table JSON")
	sessions := flag.Int("sessions", 0, "number of fake workout sessions to insert")
	userID := flag.Int("user", 1, "user id to attach fake sessions to")
	sqlitePath := flag.String("sqlite", "", "write sessions to a local sqlite file instead of postgres")
	flag.Parse()

	if err := writeReferenceTable(*outPath); err != nil {
		log.Fatalf("write reference table: %s", err)
	}
	log.Infof("reference table written to %s", *outPath)

	if *sessions <= 0 {
		return
	}

	ctx := context.Background()
	if *sqlitePath != "" {
		if err := seedSessionsSQLite(ctx, *sqlitePath, *userID, *sessions); err != nil {
			log.Fatalf("seed sqlite sessions: %s", err)
		}
		log.Infof("%d fake sessions written to %s for user %d", *sessions, *sqlitePath, *userID)
		return
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	repo := workouts.NewRepo(dbPool)
	if err := seedSessions(ctx, repo, *userID, *sessions); err != nil {
		log.Fatalf("seed sessions: %s", err)
	}
	log.Infof("%d fake sessions inserted for user %d", *sessions, *userID)
}

func writeReferenceTable(path string) error {
	raw := make(map[string]map[string]float64)
	for age := 10; age <= 60; age++ {
		// older cohorts drift down a bit on every item
		ageFactor := 1.0 - float64(age-20)*0.004
		for _, gender := range []fitdna.Gender{fitdna.GenderMale, fitdna.GenderFemale} {
			genderFactor := 1.0
			if gender == fitdna.GenderFemale {
				genderFactor = 0.82
			}
			for item, params := range referenceItems {
				key := fmt.Sprintf("%d_%s_%s", age, gender, item)
				raw[key] = map[string]float64{
					"mean":  params.mean * ageFactor * genderFactor,
					"std":   params.std,
					"count": float64(gofakeit.Number(200, 5000)),
				}
			}
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fakeSessions(userID, count int) []workouts.Session {
	exerciseTypes := []workouts.ExerciseType{
		workouts.ExerciseTypeStrength,
		workouts.ExerciseTypeFlexibility,
		workouts.ExerciseTypeEndurance,
	}
	intensities := []workouts.Intensity{
		workouts.IntensityLow,
		workouts.IntensityMedium,
		workouts.IntensityHigh,
	}

	sessions := make([]workouts.Session, 0, count)
	date := time.Now().AddDate(0, 0, -2*count)
	for i := 0; i < count; i++ {
		sessions = append(sessions, workouts.Session{
			UserID:       userID,
			Date:         date,
			ExerciseType: exerciseTypes[gofakeit.Number(0, len(exerciseTypes)-1)],
			Exercises: []string{
				gofakeit.RandomString([]string{"push-ups", "squats", "plank", "jogging", "stretching", "burpees"}),
				gofakeit.RandomString([]string{"pull-ups", "lunges", "cycling", "yoga", "rowing"}),
			},
			Duration:  gofakeit.Number(20, 90),
			Intensity: intensities[gofakeit.Number(0, len(intensities)-1)],
			Completed: gofakeit.Number(0, 9) > 0,
			CreatedAt: time.Now(),
		})
		date = date.AddDate(0, 0, gofakeit.Number(1, 3))
	}
	return sessions
}

func seedSessions(ctx context.Context, repo *workouts.Repo, userID, count int) error {
	for _, session := range fakeSessions(userID, count) {
		if _, err := repo.Add(ctx, session); err != nil {
			return err
		}
	}
	return nil
}

const sqliteSessionsSchema = `
CREATE TABLE IF NOT EXISTS workout_session (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	date TIMESTAMP NOT NULL,
	exercise_type TEXT NOT NULL,
	exercises TEXT NOT NULL,
	duration INTEGER NOT NULL,
	intensity TEXT NOT NULL,
	completed BOOLEAN NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

func seedSessionsSQLite(ctx context.Context, path string, userID, count int) error {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			log.Errorf("close sqlite db: %s", closeErr)
		}
	}()

	if _, err := sqlDB.ExecContext(ctx, sqliteSessionsSchema); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	for _, session := range fakeSessions(userID, count) {
		_, err := sqlDB.ExecContext(ctx,
			`INSERT INTO workout_session
				(user_id, date, exercise_type, exercises, duration, intensity, completed, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			session.UserID, session.Date, string(session.ExerciseType),
			strings.Join(session.Exercises, ","), session.Duration,
			string(session.Intensity), session.Completed, session.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}

	return nil
}
