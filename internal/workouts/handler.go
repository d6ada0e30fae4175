package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/westhnu/fitdna/internal/telemetry/metrics"
	"github.com/westhnu/fitdna/internal/telemetry/tracing"
	"github.com/westhnu/fitdna/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type sessionsRepo interface {
	Add(ctx context.Context, session Session) (*Session, error)
	Get(ctx context.Context, id int) (*Session, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, params SessionListParams) ([]Session, int, error)
	ListSessions(ctx context.Context, params SessionParams) ([]Session, error)
	AddMeasurement(ctx context.Context, measurement Measurement) (*Measurement, error)
}

type monthlyReporter interface {
	MonthlyReport(ctx context.Context, userID, year int, month time.Month) (*MonthlyReport, error)
}

type Handler struct {
	repo           sessionsRepo
	analyzer       monthlyReporter
	metricsManager *metrics.Manager
}

func NewHandler(repo sessionsRepo, analyzer monthlyReporter, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		analyzer:       analyzer,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("add workout session, unmarshal json params: %s", err)
		http.Error(w, "add workout session failed", http.StatusBadRequest)
		return
	}

	if err := session.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	added, err := handler.repo.Add(ctx, session)
	if err != nil {
		log.Errorf("failed to add workout session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterWorkoutSessions.Inc()
	log.Debugf("new workout session added: %d [user %d]", added.ID, added.UserID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal added workout session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	session, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout session %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal workout session: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout session %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

type listSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "invalid page (must be greater than 0)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (must be greater than 0)", http.StatusBadRequest)
		return
	}

	params := SessionListParams{Page: page, Size: size}
	if userIDParam := r.URL.Query().Get("user_id"); userIDParam != "" {
		userID, err := strconv.Atoi(userIDParam)
		if err != nil {
			http.Error(w, "invalid user_id", http.StatusBadRequest)
			return
		}
		params.UserID = userID
	}
	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		exerciseType := ExerciseType(typeParam)
		if !exerciseType.IsValid() {
			http.Error(w, "invalid exercise type", http.StatusBadRequest)
			return
		}
		params.ExerciseType = exerciseType
	}
	params.OnlyCompleted = r.URL.Query().Get("only_completed") == "true"

	sessions, total, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("failed to list workout sessions: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(listSessionsResponse{
		Sessions: sessions,
		Total:    total,
	})
	if err != nil {
		log.Errorf("failed to marshal workout sessions: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

type consistencyRequest struct {
	// Either an inline session list or a user and month window.
	Sessions []Session `json:"sessions,omitempty"`

	UserID int    `json:"userId,omitempty"`
	From   string `json:"from,omitempty"` // 2006-01-02
	To     string `json:"to,omitempty"`

	TargetWeekly   int            `json:"targetWeekly,omitempty"`
	TargetMonthly  int            `json:"targetMonthly,omitempty"`
	RegularityMode RegularityMode `json:"regularityMode,omitempty"`
}

func (handler *Handler) HandleConsistency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.consistency")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req consistencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("consistency, unmarshal json params: %s", err)
		http.Error(w, "consistency scoring failed", http.StatusBadRequest)
		return
	}

	scorer := NewScorer()
	if req.TargetWeekly > 0 {
		scorer.TargetWeekly = req.TargetWeekly
	}
	if req.TargetMonthly > 0 {
		scorer.TargetMonthly = req.TargetMonthly
	}
	if req.RegularityMode != "" {
		if !req.RegularityMode.IsValid() {
			http.Error(w, "invalid regularity mode", http.StatusBadRequest)
			return
		}
		scorer.RegularityMode = req.RegularityMode
	}

	sessions := req.Sessions
	if sessions == nil {
		if req.UserID == 0 {
			http.Error(w, "either sessions or userId required", http.StatusBadRequest)
			return
		}
		params := SessionParams{UserID: req.UserID, OnlyCompleted: true}
		if req.From != "" {
			from, err := time.Parse(time.DateOnly, req.From)
			if err != nil {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			params.From = &from
		}
		if req.To != "" {
			to, err := time.Parse(time.DateOnly, req.To)
			if err != nil {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			params.To = &to
		}
		var err error
		sessions, err = handler.repo.ListSessions(ctx, params)
		if err != nil {
			log.Errorf("failed to list sessions for consistency: %s", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	result := scorer.Score(sessions)

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal consistency result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

func (handler *Handler) HandleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.monthlyReport")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	report, err := handler.analyzer.MonthlyReport(ctx, userID, year, time.Month(month))
	if err != nil {
		log.Errorf("failed to build monthly report [user %d, %d-%02d]: %s", userID, year, month, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal monthly report: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, http.StatusOK)
}

func (handler *Handler) HandleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addMeasurement")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var measurement Measurement
	if err := json.NewDecoder(r.Body).Decode(&measurement); err != nil {
		log.Tracef("add measurement, unmarshal json params: %s", err)
		http.Error(w, "add measurement failed", http.StatusBadRequest)
		return
	}

	if measurement.UserID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if len(measurement.Values) == 0 {
		http.Error(w, "measurement values empty", http.StatusBadRequest)
		return
	}
	if measurement.MeasuredAt.IsZero() {
		measurement.MeasuredAt = time.Now()
	}

	added, err := handler.repo.AddMeasurement(ctx, measurement)
	if err != nil {
		if errors.Is(err, ErrMeasurementConflict) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		log.Errorf("failed to add measurement: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal added measurement: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}
