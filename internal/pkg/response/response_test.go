package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

func record(t *testing.T, fn gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", fn)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))
	return rec
}

func TestOKEnvelope(t *testing.T) {
	rec := record(t, func(c *gin.Context) {
		OK(c, gin.H{"name": "edufund"})
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !body.Success {
		t.Error("success should be true")
	}
	if body.Data["name"] != "edufund" {
		t.Errorf("data = %v", body.Data)
	}
}

func TestErrorMapsKind(t *testing.T) {
	rec := record(t, func(c *gin.Context) {
		Error(c, apperr.NotFound("campaign not found"))
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Error != "campaign not found" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	rec := record(t, func(c *gin.Context) {
		InternalError(c, errors.New("dsn=root:hunter2@tcp"))
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); strings.Contains(got, "hunter2") {
		t.Errorf("internal error body leaked details: %s", got)
	}
}

func TestPagedIncludesPagination(t *testing.T) {
	rec := record(t, func(c *gin.Context) {
		Paged(c, []string{"a", "b"}, Pagination{Total: 2, CurrentPage: 1, TotalPage: 1, Size: 12})
	})

	var body struct {
		Pagination *Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Pagination == nil || body.Pagination.Total != 2 {
		t.Errorf("pagination = %+v", body.Pagination)
	}
}
