package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func ctxWithQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/campaigns?"+rawQuery, nil)
	return c
}

func TestFromContextDefaults(t *testing.T) {
	q := FromContext(ctxWithQuery(t, ""))
	if q.Page != DefaultPage {
		t.Errorf("Page = %d, want %d", q.Page, DefaultPage)
	}
	if q.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", q.Limit, DefaultLimit)
	}
}

func TestFromContextParsesValues(t *testing.T) {
	q := FromContext(ctxWithQuery(t, "page=3&limit=25"))
	if q.Page != 3 || q.Limit != 25 {
		t.Errorf("got page=%d limit=%d, want 3/25", q.Page, q.Limit)
	}
}

func TestFromContextClampsLimit(t *testing.T) {
	q := FromContext(ctxWithQuery(t, "limit=5000"))
	if q.Limit != MaxLimit {
		t.Errorf("Limit = %d, want clamped to %d", q.Limit, MaxLimit)
	}
}

func TestFromContextRejectsGarbage(t *testing.T) {
	q := FromContext(ctxWithQuery(t, "page=-2&limit=abc"))
	if q.Page != 1 {
		t.Errorf("negative page should clamp to 1, got %d", q.Page)
	}
	if q.Limit != DefaultLimit {
		t.Errorf("non-numeric limit should fall back to default, got %d", q.Limit)
	}
}
