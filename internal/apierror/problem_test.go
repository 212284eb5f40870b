package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestProblemDetailsJSON(t *testing.T) {
	retryAfter := 60
	problem := &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "Field validation failed",
		Instance:    "/api/v1/records/0190a6f2-3c1e-7abc-8def-0123456789ab",
		RequestID:   "req-abc123",
		UserMessage: "Please fix the errors",
		RetryAfter:  &retryAfter,
		Errors: []FieldError{
			{Field: "mood_level", Message: "must be at most 5", Code: "max"},
			{Field: "timestamp", Message: "is required", Code: "required"},
		},
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	checks := map[string]interface{}{
		"type":         TypeValidation,
		"title":        TitleValidation,
		"status":       float64(http.StatusBadRequest),
		"detail":       "Field validation failed",
		"request_id":   "req-abc123",
		"user_message": "Please fix the errors",
		"retry_after":  float64(60),
	}
	for key, want := range checks {
		if result[key] != want {
			t.Errorf("%s = %v, want %v", key, result[key], want)
		}
	}

	fieldErrors, ok := result["errors"].([]interface{})
	if !ok || len(fieldErrors) != 2 {
		t.Errorf("Expected 2 errors, got %v", result["errors"])
	}
}

func TestProblemDetailsJSONOmitsEmpty(t *testing.T) {
	problem := &ProblemDetails{
		Type:   TypeInternal,
		Title:  TitleInternal,
		Status: http.StatusInternalServerError,
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	omitted := []string{"detail", "instance", "request_id", "user_message", "retry_after", "action", "errors", "records_available", "records_required"}
	for _, field := range omitted {
		if _, exists := result[field]; exists {
			t.Errorf("Expected field %q to be omitted when empty", field)
		}
	}
	for _, field := range []string{"type", "title", "status"} {
		if _, exists := result[field]; !exists {
			t.Errorf("Expected required field %q to be present", field)
		}
	}
}

func TestWriteProblem(t *testing.T) {
	t.Run("content type", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		WriteProblem(c, NewInternalError("req-123"))

		if got := w.Header().Get("Content-Type"); got != ContentTypeProblemJSON {
			t.Errorf("Content-Type = %q, want %q", got, ContentTypeProblemJSON)
		}
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})

	t.Run("retry after header", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		WriteProblem(c, NewRateLimitError("req-456", 120))

		if got := w.Header().Get("Retry-After"); got != "120" {
			t.Errorf("Retry-After = %q, want %q", got, "120")
		}
	})

	t.Run("no retry after when nil", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		WriteProblem(c, NewNotFoundError("req-789", "record", "abc"))

		if got := w.Header().Get("Retry-After"); got != "" {
			t.Errorf("Retry-After = %q, want empty", got)
		}
	})
}

func TestNewInsufficientDataError(t *testing.T) {
	problem := NewInsufficientDataError("req-1", 3, 7)

	if problem.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want %d", problem.Status, http.StatusUnprocessableEntity)
	}
	if problem.Type != TypeInsufficientData {
		t.Errorf("Type = %q, want %q", problem.Type, TypeInsufficientData)
	}
	if problem.Action != "keep_logging" {
		t.Errorf("Action = %q, want keep_logging", problem.Action)
	}
	if problem.RecordsAvailable == nil || *problem.RecordsAvailable != 3 {
		t.Errorf("RecordsAvailable = %v, want 3", problem.RecordsAvailable)
	}
	if problem.RecordsRequired == nil || *problem.RecordsRequired != 7 {
		t.Errorf("RecordsRequired = %v, want 7", problem.RecordsRequired)
	}
}

func TestNewInvalidDateRangeError(t *testing.T) {
	problem := NewInvalidDateRangeError("req-2", "start_date must be before end_date")

	if problem.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", problem.Status, http.StatusBadRequest)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Code != "invalid_date_range" {
		t.Errorf("Errors = %+v, want one invalid_date_range entry", problem.Errors)
	}
}

func TestNewInternalErrorHidesDetails(t *testing.T) {
	problem := NewInternalError("req-3")

	if problem.Detail != "" {
		t.Errorf("Detail = %q, want empty", problem.Detail)
	}
	if problem.UserMessage == "" {
		t.Error("UserMessage should be set")
	}
}

func TestNewUnauthorizedError(t *testing.T) {
	problem := NewUnauthorizedError("req-4")

	if problem.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", problem.Status, http.StatusUnauthorized)
	}
	if problem.Action != "authenticate" {
		t.Errorf("Action = %q, want authenticate", problem.Action)
	}
}

func TestNewInvalidUUIDError(t *testing.T) {
	problem := NewInvalidUUIDError("req-5", "id", "not-a-uuid")

	if problem.Type != TypeInvalidUUID {
		t.Errorf("Type = %q, want %q", problem.Type, TypeInvalidUUID)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "id" {
		t.Errorf("Errors = %+v, want one entry for id", problem.Errors)
	}
}

func TestProblemDetailsError(t *testing.T) {
	tests := []struct {
		name    string
		problem *ProblemDetails
		want    string
	}{
		{name: "detail wins", problem: &ProblemDetails{Title: "T", Detail: "D"}, want: "D"},
		{name: "title fallback", problem: &ProblemDetails{Title: "T"}, want: "T"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.problem.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("request_id", "ctx-id")
		if got := GetRequestID(c); got != "ctx-id" {
			t.Errorf("GetRequestID() = %q, want ctx-id", got)
		}
	})

	t.Run("from header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("X-Request-ID", "hdr-id")
		if got := GetRequestID(c); got != "hdr-id" {
			t.Errorf("GetRequestID() = %q, want hdr-id", got)
		}
	})
}

type sampleRequest struct {
	MoodLevel int     `json:"mood_level" validate:"min=1,max=5"`
	Note      string  `json:"note" validate:"required"`
	Sleep     float64 `json:"sleep_hours" validate:"gte=0,lte=24"`
	Days      int     `form:"days" validate:"min=1"`
}

func TestFieldErrorsFrom(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(tagName)

	err := v.Struct(sampleRequest{MoodLevel: 9, Sleep: 30})
	fieldErrors, ok := FieldErrorsFrom(err)
	if !ok {
		t.Fatalf("FieldErrorsFrom(%v) ok = false", err)
	}

	got := map[string]FieldError{}
	for _, fe := range fieldErrors {
		got[fe.Field] = fe
	}
	want := map[string]string{
		"mood_level":  "must be at most 5",
		"note":        "is required",
		"sleep_hours": "must be at most 24",
		"days":        "must be at least 1",
	}
	for field, msg := range want {
		if got[field].Message != msg {
			t.Errorf("%s message = %q, want %q", field, got[field].Message, msg)
		}
	}

	if _, ok := FieldErrorsFrom(errors.New("boom")); ok {
		t.Error("FieldErrorsFrom(plain error) ok = true, want false")
	}
}
