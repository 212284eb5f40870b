package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/neuralpath/backend/internal/apierror"
	"github.com/JonnyWalker81/neuralpath/backend/internal/export"
	"github.com/JonnyWalker81/neuralpath/backend/internal/middleware"
	"github.com/JonnyWalker81/neuralpath/backend/internal/models"
	"github.com/JonnyWalker81/neuralpath/backend/internal/service"
)

const testUser = "user-1"

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
	apierror.UseJSONFieldNames()
}

// ===== Stub services =====

type stubRecordService struct {
	created  bool
	err      error
	lastReq  *models.CreateRecordRequest
	window   service.Window
	recordID string
}

func (s *stubRecordService) CreateRecord(ctx context.Context, userID string, req *models.CreateRecordRequest) (*models.SymptomRecord, bool, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, false, s.err
	}
	return &models.SymptomRecord{ID: "rec-1", UserID: userID, Timestamp: req.Timestamp, Mood: req.Mood}, s.created, nil
}

func (s *stubRecordService) GetRecord(ctx context.Context, userID, recordID string) (*models.SymptomRecord, error) {
	s.recordID = recordID
	if s.err != nil {
		return nil, s.err
	}
	return &models.SymptomRecord{ID: recordID, UserID: userID}, nil
}

func (s *stubRecordService) ListRecords(ctx context.Context, userID string, window service.Window) ([]models.SymptomRecord, error) {
	s.window = window
	return nil, s.err
}

func (s *stubRecordService) UpdateRecord(ctx context.Context, userID, recordID string, req *models.UpdateRecordRequest) (*models.SymptomRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.SymptomRecord{ID: recordID, UserID: userID, Mood: req.Mood.ToPtr()}, nil
}

func (s *stubRecordService) DeleteRecord(ctx context.Context, userID, recordID string) error {
	return s.err
}

type stubAnalysisService struct {
	service.AnalysisService
	names  []string
	window service.Window
	err    error
}

func (s *stubAnalysisService) Medications(ctx context.Context, userID string, names []string, window service.Window) ([]models.MedicationEffectiveness, error) {
	s.names = names
	s.window = window
	results := make([]models.MedicationEffectiveness, 0, len(names))
	for _, n := range names {
		results = append(results, models.MedicationEffectiveness{Name: n})
	}
	return results, s.err
}

func (s *stubAnalysisService) Factors(ctx context.Context, userID string, window service.Window) (*models.ComprehensiveAnalysis, error) {
	s.window = window
	if s.err != nil {
		return nil, s.err
	}
	return &models.ComprehensiveAnalysis{OverallScore: 55, RecordCount: 30}, nil
}

type mockExportService struct {
	mock.Mock
}

func (m *mockExportService) Export(ctx context.Context, userID string, format string, window service.Window, w io.Writer) error {
	args := m.Called(ctx, userID, format, window, w)
	if err := args.Error(0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "moodLevel\n3\n")
	return err
}

// ===== Harness =====

type harness struct {
	router   *gin.Engine
	records  *stubRecordService
	analysis *stubAnalysisService
	export   *mockExportService
}

func newHarness(authenticated bool) *harness {
	h := &harness{
		records:  &stubRecordService{created: true},
		analysis: &stubAnalysisService{},
		export:   &mockExportService{},
	}
	windows := service.WindowPolicy{DefaultDays: 90, MaxDays: 365}

	recordHandler := NewRecordHandler(h.records, windows)
	recordHandler.now = func() time.Time { return testNow }
	analysisHandler := NewAnalysisHandler(h.analysis, windows)
	analysisHandler.now = func() time.Time { return testNow }
	exportHandler := NewExportHandler(h.export, windows)
	exportHandler.now = func() time.Time { return testNow }

	h.router = gin.New()
	api := h.router.Group("/api/v1")
	if authenticated {
		api.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, testUser)
			c.Next()
		})
	}
	RegisterRoutes(api, Handlers{Records: recordHandler, Analysis: analysisHandler, Export: exportHandler})
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) apierror.ProblemDetails {
	t.Helper()
	assert.Equal(t, apierror.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	var p apierror.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

// ===== Records =====

func TestCreateRecord(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		created    bool
		err        error
		wantStatus int
		wantType   string
		wantField  string
	}{
		{
			name:       "new record",
			body:       `{"timestamp":"2024-05-31T21:00:00Z","mood":3}`,
			created:    true,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "retried record",
			body:       `{"id":"0190d1a4-5b6c-7def-8123-456789abcdef","timestamp":"2024-05-31T21:00:00Z"}`,
			created:    false,
			wantStatus: http.StatusOK,
		},
		{
			name:       "mood out of range",
			body:       `{"timestamp":"2024-05-31T21:00:00Z","mood":9}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeValidation,
			wantField:  "mood",
		},
		{
			name:       "missing timestamp",
			body:       `{"mood":3}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeValidation,
			wantField:  "timestamp",
		},
		{
			name:       "malformed json",
			body:       `{"mood":`,
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeBadRequest,
		},
		{
			name:       "non v7 id",
			body:       `{"id":"6ba7b810-9dad-41d1-80b4-00c04fd430c8","timestamp":"2024-05-31T21:00:00Z"}`,
			err:        service.ErrNotUUIDv7,
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeInvalidUUID,
			wantField:  "id",
		},
		{
			name:       "future timestamp",
			body:       `{"timestamp":"2030-01-01T00:00:00Z"}`,
			err:        service.ErrFutureTimestamp,
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeFutureTimestamp,
		},
		{
			name:       "id taken",
			body:       `{"id":"0190d1a4-5b6c-7def-8123-456789abcdef","timestamp":"2024-05-31T21:00:00Z"}`,
			err:        service.ErrRecordConflict,
			wantStatus: http.StatusConflict,
			wantType:   apierror.TypeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			h.records.created = tt.created
			h.records.err = tt.err

			w := h.do(http.MethodPost, "/api/v1/records", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantType == "" {
				var rec models.SymptomRecord
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
				assert.Equal(t, testUser, rec.UserID)
				return
			}

			p := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, p.Type)
			if tt.wantField != "" {
				require.NotEmpty(t, p.Errors)
				assert.Equal(t, tt.wantField, p.Errors[0].Field)
			}
		})
	}
}

func TestRecords_Unauthenticated(t *testing.T) {
	h := newHarness(false)

	w := h.do(http.MethodGet, "/api/v1/records", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierror.TypeUnauthorized, decodeProblem(t, w).Type)
}

func TestListRecords_Window(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantStart  time.Time
		wantEnd    time.Time
		wantType   string
	}{
		{
			name:       "default window",
			wantStatus: http.StatusOK,
			wantStart:  testNow.AddDate(0, 0, -90),
			wantEnd:    testNow,
		},
		{
			name:       "days",
			query:      "?days=7",
			wantStatus: http.StatusOK,
			wantStart:  testNow.AddDate(0, 0, -7),
			wantEnd:    testNow,
		},
		{
			name:       "explicit dates",
			query:      "?start_date=2024-05-01&end_date=2024-05-15T00:00:00Z",
			wantStatus: http.StatusOK,
			wantStart:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:    time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "start after end",
			query:      "?start_date=2024-05-15&end_date=2024-05-01",
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeInvalidDateRange,
		},
		{
			name:       "too many days",
			query:      "?days=400",
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeInvalidDateRange,
		},
		{
			name:       "negative days",
			query:      "?days=-3",
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeValidation,
		},
		{
			name:       "unparseable date",
			query:      "?start_date=yesterday",
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			w := h.do(http.MethodGet, "/api/v1/records"+tt.query, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, decodeProblem(t, w).Type)
				return
			}
			assert.True(t, h.records.window.Start.Equal(tt.wantStart), "start = %v, want %v", h.records.window.Start, tt.wantStart)
			assert.True(t, h.records.window.End.Equal(tt.wantEnd), "end = %v, want %v", h.records.window.End, tt.wantEnd)

			var body struct {
				Records []models.SymptomRecord `json:"records"`
				Count   int                    `json:"count"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotNil(t, body.Records)
			assert.Zero(t, body.Count)
		})
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	h := newHarness(true)
	h.records.err = service.ErrRecordNotFound

	w := h.do(http.MethodGet, "/api/v1/records/abc", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, apierror.TypeNotFound, p.Type)
	assert.Contains(t, p.Detail, "abc")
}

func TestUpdateRecord(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := newHarness(true)
		w := h.do(http.MethodPatch, "/api/v1/records/abc", `{"mood":4}`)
		require.Equal(t, http.StatusOK, w.Code)

		var rec models.SymptomRecord
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
		require.NotNil(t, rec.Mood)
		assert.Equal(t, 4, *rec.Mood)
	})

	t.Run("field error", func(t *testing.T) {
		h := newHarness(true)
		h.records.err = &service.FieldError{Field: "mood", Message: "must be between 1 and 5"}

		w := h.do(http.MethodPatch, "/api/v1/records/abc", `{"mood":7}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		p := decodeProblem(t, w)
		require.Len(t, p.Errors, 1)
		assert.Equal(t, "mood", p.Errors[0].Field)
	})
}

func TestDeleteRecord(t *testing.T) {
	h := newHarness(true)
	w := h.do(http.MethodDelete, "/api/v1/records/abc", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

// ===== Analysis =====

func TestGetMedications_ParsesNames(t *testing.T) {
	h := newHarness(true)

	w := h.do(http.MethodGet, "/api/v1/analysis/medications?names=Sertraline,%20Vitamin%20D,,&days=30", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Sertraline", "Vitamin D"}, h.analysis.names)
	assert.Equal(t, 30, h.analysis.window.Days())

	var results []models.MedicationEffectiveness
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Len(t, results, 2)
}

func TestGetFactors(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := newHarness(true)
		w := h.do(http.MethodGet, "/api/v1/analysis/factors", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 90, h.analysis.window.Days())
	})

	t.Run("insufficient data", func(t *testing.T) {
		h := newHarness(true)
		h.analysis.err = &service.InsufficientDataError{Available: 3, Required: 7}

		w := h.do(http.MethodGet, "/api/v1/analysis/factors", "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		p := decodeProblem(t, w)
		assert.Equal(t, apierror.TypeInsufficientData, p.Type)
		require.NotNil(t, p.RecordsAvailable)
		assert.Equal(t, 3, *p.RecordsAvailable)
		assert.Equal(t, 7, *p.RecordsRequired)
	})
}

// ===== Export =====

func TestExport(t *testing.T) {
	t.Run("defaults to csv", func(t *testing.T) {
		h := newHarness(true)
		h.export.On("Export", mock.Anything, testUser, "csv", mock.AnythingOfType("service.Window"), mock.Anything).Return(nil)

		w := h.do(http.MethodGet, "/api/v1/export", "")
		require.Equal(t, http.StatusOK, w.Code)

		h.export.AssertExpectations(t)
		assert.Equal(t, export.FormatCSV.ContentType(), w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="neuralpath-2024-06-01.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "moodLevel\n3\n", w.Body.String())
	})

	t.Run("xlsx", func(t *testing.T) {
		h := newHarness(true)
		h.export.On("Export", mock.Anything, testUser, "xlsx", mock.Anything, mock.Anything).Return(nil)

		w := h.do(http.MethodGet, "/api/v1/export?format=XLSX&days=30", "")
		require.Equal(t, http.StatusOK, w.Code)

		h.export.AssertExpectations(t)
		window := h.export.Calls[0].Arguments.Get(3).(service.Window)
		assert.Equal(t, 30, window.Days())
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	})

	t.Run("unknown format", func(t *testing.T) {
		h := newHarness(true)

		w := h.do(http.MethodGet, "/api/v1/export?format=pdf", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierror.TypeBadRequest, decodeProblem(t, w).Type)
		h.export.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service failure", func(t *testing.T) {
		h := newHarness(true)
		h.export.On("Export", mock.Anything, testUser, "json", mock.Anything, mock.Anything).Return(io.ErrUnexpectedEOF)

		w := h.do(http.MethodGet, "/api/v1/export?format=json", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}
