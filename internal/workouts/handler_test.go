package workouts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/westhnu/fitdna/internal/telemetry/metrics"
	"github.com/westhnu/fitdna/internal/workouts"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type handlerMocks struct {
	repo     *MocksessionsRepo
	analyzer *MockmonthlyReporter
	metrics  *metrics.Manager
}

func newTestHandler(t *testing.T) (*workouts.Handler, handlerMocks) {
	ctrl := gomock.NewController(t)
	mocks := handlerMocks{
		repo:     NewMocksessionsRepo(ctrl),
		analyzer: NewMockmonthlyReporter(ctrl),
		metrics:  metrics.NewTestManager(),
	}
	return workouts.NewHandler(mocks.repo, mocks.analyzer, mocks.metrics), mocks
}

func validSession() workouts.Session {
	return workouts.Session{
		UserID:       7,
		Date:         time.Date(2025, time.March, 3, 18, 0, 0, 0, time.UTC),
		ExerciseType: workouts.ExerciseTypeStrength,
		Exercises:    []string{"deadlift", "bench press"},
		Duration:     55,
		Intensity:    workouts.IntensityHigh,
		Completed:    true,
	}
}

func TestHandler_HandleAdd(t *testing.T) {
	handler, mocks := newTestHandler(t)

	session := validSession()
	mocks.repo.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s workouts.Session) (*workouts.Session, error) {
			assert.Equal(t, session.UserID, s.UserID)
			assert.False(t, s.CreatedAt.IsZero())
			s.ID = 13
			return &s, nil
		})

	reqBody, err := json.Marshal(session)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/workouts", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleAdd(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var added workouts.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, 13, added.ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(mocks.metrics.CounterWorkoutSessions))
}

func TestHandler_HandleAdd_invalidSession(t *testing.T) {
	handler, _ := newTestHandler(t)

	session := validSession()
	session.Duration = 0
	reqBody, err := json.Marshal(session)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/workouts", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleAdd(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "duration must be positive")
}

func TestHandler_HandleAdd_wrongContentType(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/workouts", bytes.NewReader([]byte("---")))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()

	handler.HandleAdd(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid content type")
}

func TestHandler_HandleGet(t *testing.T) {
	handler, mocks := newTestHandler(t)

	session := validSession()
	session.ID = 42
	mocks.repo.EXPECT().
		Get(gomock.Any(), 42).
		Return(&session, nil)

	req := httptest.NewRequest("GET", "/workouts/session/42", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42"})
	rr := httptest.NewRecorder()

	handler.HandleGet(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got workouts.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 42, got.ID)
	assert.Equal(t, workouts.ExerciseTypeStrength, got.ExerciseType)
}

func TestHandler_HandleGet_notFound(t *testing.T) {
	handler, mocks := newTestHandler(t)

	mocks.repo.EXPECT().
		Get(gomock.Any(), 42).
		Return(nil, workouts.ErrSessionNotFound)

	req := httptest.NewRequest("GET", "/workouts/session/42", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42"})
	rr := httptest.NewRecorder()

	handler.HandleGet(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_HandleDelete(t *testing.T) {
	handler, mocks := newTestHandler(t)

	mocks.repo.EXPECT().
		Delete(gomock.Any(), 42).
		Return(nil)

	req := httptest.NewRequest("DELETE", "/workouts/session/42", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42"})
	rr := httptest.NewRecorder()

	handler.HandleDelete(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "deleted:42", rr.Body.String())
}

func TestHandler_HandleList(t *testing.T) {
	handler, mocks := newTestHandler(t)

	sessions := []workouts.Session{validSession(), validSession()}
	mocks.repo.EXPECT().
		List(gomock.Any(), workouts.SessionListParams{
			SessionParams: workouts.SessionParams{
				UserID:        7,
				ExerciseType:  workouts.ExerciseTypeStrength,
				OnlyCompleted: true,
			},
			Page: 2,
			Size: 10,
		}).
		Return(sessions, 25, nil)

	req := httptest.NewRequest(
		"GET",
		"/workouts/list/page/2/size/10?user_id=7&type=strength&only_completed=true",
		nil,
	)
	req = mux.SetURLVars(req, map[string]string{"page": "2", "size": "10"})
	rr := httptest.NewRecorder()

	handler.HandleList(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Sessions []workouts.Session `json:"sessions"`
		Total    int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Sessions, 2)
	assert.Equal(t, 25, resp.Total)
}

func TestHandler_HandleList_invalidPage(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/workouts/list/page/0/size/10", nil)
	req = mux.SetURLVars(req, map[string]string{"page": "0", "size": "10"})
	rr := httptest.NewRecorder()

	handler.HandleList(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_HandleConsistency_inlineSessions(t *testing.T) {
	handler, _ := newTestHandler(t)

	sessions := make([]workouts.Session, 0, 16)
	day := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 16; i++ {
		session := validSession()
		session.Date = day.AddDate(0, 0, i*2)
		session.Intensity = workouts.IntensityMedium
		sessions = append(sessions, session)
	}

	reqBody, err := json.Marshal(map[string]interface{}{"sessions": sessions})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/workouts/consistency", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleConsistency(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result workouts.ConsistencyResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 40.0, result.Breakdown.AchievementRate)
	assert.Equal(t, 40.0, result.Breakdown.Regularity)
	assert.Equal(t, 93, result.TotalScore)
}

func TestHandler_HandleConsistency_userWindow(t *testing.T) {
	handler, mocks := newTestHandler(t)

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	mocks.repo.EXPECT().
		ListSessions(gomock.Any(), workouts.SessionParams{
			UserID:        7,
			From:          &from,
			To:            &to,
			OnlyCompleted: true,
		}).
		Return([]workouts.Session{}, nil)

	reqBody := []byte(`{"userId": 7, "from": "2025-03-01", "to": "2025-04-01"}`)
	req := httptest.NewRequest("POST", "/workouts/consistency", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleConsistency(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result workouts.ConsistencyResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 0, result.TotalScore)
}

func TestHandler_HandleConsistency_invalidRegularityMode(t *testing.T) {
	handler, _ := newTestHandler(t)

	reqBody := []byte(`{"sessions": [], "regularityMode": "bogus"}`)
	req := httptest.NewRequest("POST", "/workouts/consistency", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleConsistency(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid regularity mode")
}

func TestHandler_HandleConsistency_missingUser(t *testing.T) {
	handler, _ := newTestHandler(t)

	reqBody := []byte(`{"from": "2025-03-01"}`)
	req := httptest.NewRequest("POST", "/workouts/consistency", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleConsistency(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "either sessions or userId required")
}

func TestHandler_HandleMonthlyReport(t *testing.T) {
	handler, mocks := newTestHandler(t)

	mocks.analyzer.EXPECT().
		MonthlyReport(gomock.Any(), 7, 2025, time.March).
		Return(&workouts.MonthlyReport{
			UserID: 7,
			Year:   2025,
			Month:  3,
			Summary: workouts.MonthlySummary{
				TotalSessions: 12,
			},
		}, nil)

	req := httptest.NewRequest("GET", "/reports/monthly/7/2025/3", nil)
	req = mux.SetURLVars(req, map[string]string{"userID": "7", "year": "2025", "month": "3"})
	rr := httptest.NewRecorder()

	handler.HandleMonthlyReport(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var report workouts.MonthlyReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 7, report.UserID)
	assert.Equal(t, 12, report.Summary.TotalSessions)
}

func TestHandler_HandleMonthlyReport_invalidMonth(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, month := range []string{"0", "13", "march"} {
		req := httptest.NewRequest("GET", fmt.Sprintf("/reports/monthly/7/2025/%s", month), nil)
		req = mux.SetURLVars(req, map[string]string{"userID": "7", "year": "2025", "month": month})
		rr := httptest.NewRecorder()

		handler.HandleMonthlyReport(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}

func TestHandler_HandleAddMeasurement(t *testing.T) {
	handler, mocks := newTestHandler(t)

	measurement := workouts.Measurement{
		UserID:     7,
		MeasuredAt: time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC),
		Values:     map[string]float64{"grip_right": 44, "vo2max": 40},
	}
	mocks.repo.EXPECT().
		AddMeasurement(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m workouts.Measurement) (*workouts.Measurement, error) {
			m.ID = 5
			return &m, nil
		})

	reqBody, err := json.Marshal(measurement)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/workouts/measurements", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleAddMeasurement(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var added workouts.Measurement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, 5, added.ID)
}

func TestHandler_HandleAddMeasurement_conflict(t *testing.T) {
	handler, mocks := newTestHandler(t)

	mocks.repo.EXPECT().
		AddMeasurement(gomock.Any(), gomock.Any()).
		Return(nil, workouts.ErrMeasurementConflict)

	reqBody := []byte(`{"userId": 7, "values": {"grip_right": 44}}`)
	req := httptest.NewRequest("POST", "/workouts/measurements", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleAddMeasurement(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandler_HandleAddMeasurement_emptyValues(t *testing.T) {
	handler, _ := newTestHandler(t)

	reqBody := []byte(`{"userId": 7, "values": {}}`)
	req := httptest.NewRequest("POST", "/workouts/measurements", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.HandleAddMeasurement(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "measurement values empty")
}
