package workouts

import (
	"fmt"
	"time"
)

type ExerciseType string

const (
	ExerciseTypeStrength    ExerciseType = "strength"
	ExerciseTypeFlexibility ExerciseType = "flexibility"
	ExerciseTypeEndurance   ExerciseType = "endurance"
)

func (et ExerciseType) IsValid() bool {
	switch et {
	case ExerciseTypeStrength, ExerciseTypeFlexibility, ExerciseTypeEndurance:
		return true
	default:
		return false
	}
}

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

func (i Intensity) IsValid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	default:
		return false
	}
}

// Weight is the intensity contribution used by the consistency scorer.
func (i Intensity) Weight() int {
	switch i {
	case IntensityLow:
		return 1
	case IntensityMedium:
		return 2
	case IntensityHigh:
		return 3
	default:
		return 0
	}
}

// Session is one dated workout. Only completed sessions count towards
// consistency scoring and monthly summaries.
type Session struct {
	ID           int          `json:"id"`
	UserID       int          `json:"userId"`
	Date         time.Time    `json:"date"`
	ExerciseType ExerciseType `json:"exerciseType"`
	Exercises    []string     `json:"exercises,omitempty"`
	Duration     int          `json:"duration"` // minutes
	Intensity    Intensity    `json:"intensity"`
	Completed    bool         `json:"completed"`
	CreatedAt    time.Time    `json:"createdAt,omitempty"`
}

func (s *Session) Validate() error {
	if s.Date.IsZero() {
		return fmt.Errorf("session date empty")
	}
	if !s.ExerciseType.IsValid() {
		return fmt.Errorf("invalid exercise type: %q", s.ExerciseType)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", s.Duration)
	}
	if !s.Intensity.IsValid() {
		return fmt.Errorf("invalid intensity: %q", s.Intensity)
	}
	return nil
}
