package fitdna

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/westhnu/fitdna/internal/telemetry/metrics"
	"github.com/westhnu/fitdna/internal/telemetry/tracing"
	"github.com/westhnu/fitdna/pkg"
)

type Handler struct {
	service        *Service
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// writeClassificationError maps the error taxonomy onto client-facing
// responses: invalid input and missing-axis-data errors carry their message
// through (it names the acceptable items), everything else is a 500.
func writeClassificationError(w http.ResponseWriter, err error) {
	var insufficientErr *InsufficientAxisDataError
	switch {
	case errors.As(err, &insufficientErr):
		http.Error(w, insufficientErr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("classification failed: %s", err)
		http.Error(w, "classification failed", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitdna.classify")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("classify, unmarshal json params: %s", err)
		http.Error(w, "classify failed", http.StatusBadRequest)
		return
	}

	result, err := handler.service.ClassifyMeasurements(ctx, req)
	if err != nil {
		writeClassificationError(w, err)
		return
	}

	handler.metricsManager.CounterClassifications.
		WithLabelValues(string(result.Type)).Inc()

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal classification result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("new classification: %s [age %d, %s]", result.Type, result.Age, result.Gender)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

type classifyAxesRequest struct {
	Age       int          `json:"age"`
	Gender    Gender       `json:"gender"`
	Readings  AxisReadings `json:"readings"`
	Threshold *float64     `json:"threshold,omitempty"`
}

func (handler *Handler) HandleClassifyAxes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitdna.classifyAxes")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req classifyAxesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("classify axes, unmarshal json params: %s", err)
		http.Error(w, "classify failed", http.StatusBadRequest)
		return
	}

	result, err := handler.service.ClassifyAxisReadings(ctx, req.Age, req.Gender, req.Readings, req.Threshold)
	if err != nil {
		writeClassificationError(w, err)
		return
	}

	handler.metricsManager.CounterClassifications.
		WithLabelValues(string(result.Type)).Inc()

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal classification result: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

func (handler *Handler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitdna.types")
	defer span.End()

	descriptions := make([]TypeDescription, 0, 8)
	for _, code := range AllCodes() {
		descriptions = append(descriptions, Describe(code))
	}

	descriptionsJson, err := json.Marshal(descriptions)
	if err != nil {
		log.Errorf("failed to marshal type descriptions: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, descriptionsJson, http.StatusOK)
}

func (handler *Handler) HandleDescribeType(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitdna.describeType")
	defer span.End()

	vars := mux.Vars(r)
	code := vars["code"]
	if code == "" {
		http.Error(w, "error, code empty", http.StatusBadRequest)
		return
	}

	// unknown codes get the sentinel description, never an error
	descriptionJson, err := json.Marshal(Describe(Code(code)))
	if err != nil {
		log.Errorf("failed to marshal type description: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, descriptionJson, http.StatusOK)
}

func (handler *Handler) HandleLatestResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitdna.latestResult")
	defer span.End()

	vars := mux.Vars(r)
	userIDStr := vars["userID"]
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}

	resultAnalysis, err := handler.service.AnalyzeLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrResultNotFound) {
			http.Error(w, "fitdna result not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to analyze latest result for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	analysisJson, err := json.Marshal(resultAnalysis)
	if err != nil {
		log.Errorf("failed to marshal result analysis: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, analysisJson, http.StatusOK)
}

type ListResponse struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

func (handler *Handler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitdna.listResults")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 || size < 1 {
		http.Error(w, "invalid page or size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	params := ListParams{
		Type: Code(r.URL.Query().Get("type")),
		Page: page,
		Size: size,
	}
	if userIDStr := r.URL.Query().Get("user_id"); userIDStr != "" {
		params.UserID, err = strconv.Atoi(userIDStr)
		if err != nil {
			http.Error(w, "failed to parse user_id param", http.StatusBadRequest)
			return
		}
	}

	results, total, err := handler.service.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list fitdna results error: %s", err)
		http.Error(w, "failed to get fitdna results", http.StatusInternalServerError)
		return
	}

	listJson, err := json.Marshal(ListResponse{Results: results, Total: total})
	if err != nil {
		log.Errorf("marshal fitdna results error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listJson, http.StatusOK)
}
