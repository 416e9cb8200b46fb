package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
)

func TestRespondMappedErrorWithResult_CarriesPartialResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	partial := gin.H{"failedAtStep": "delete_course_rows", "lessonsRemoved": 0}
	err := fmt.Errorf("delete lessons: %w", apperrors.ErrTransient)
	RespondMappedErrorWithResult(c, "delete_course_failed", err, partial)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body struct {
		Error  APIError       `json:"error"`
		Result map[string]any `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Error.Code != "delete_course_failed" {
		t.Fatalf("code = %q, want delete_course_failed", body.Error.Code)
	}
	if body.Result["failedAtStep"] != "delete_course_rows" {
		t.Fatalf("result = %v, failedAtStep missing from error body", body.Result)
	}
}

func TestRespondMappedError_StatusPerSentinel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrValidation, http.StatusBadRequest},
		{apperrors.ErrConsistency, http.StatusConflict},
		{apperrors.ErrTransient, http.StatusServiceUnavailable},
		{fmt.Errorf("plain failure"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		RespondMappedError(c, "op_failed", tc.err)
		if rec.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
	}
}
