package donation

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func hasRoute(r *gin.Engine, method, path string) bool {
	for _, ri := range r.Routes() {
		if ri.Method == method && ri.Path == path {
			return true
		}
	}
	return false
}

func TestRegisterRoutesServesBothForms(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil, nil, nil).RegisterRoutes(r.Group("/api"), func(c *gin.Context) {})

	for _, rt := range []struct{ method, path string }{
		{"POST", "/api/donations"},
		{"POST", "/api/campaigns/:id/donations"},
		{"GET", "/api/campaigns/:id/donations"},
		{"GET", "/api/campaigns/:id/donors"},
		{"GET", "/api/campaigns/:id/donor-wall"},
		{"GET", "/api/donations/mine"},
		{"GET", "/api/donations/:id"},
	} {
		if !hasRoute(r, rt.method, rt.path) {
			t.Errorf("missing route %s %s", rt.method, rt.path)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	if n, ok := parsePositiveInt("25"); !ok || n != 25 {
		t.Errorf("parsePositiveInt(25) = %d, %v", n, ok)
	}
	for _, bad := range []string{"", "-1", "abc", "10000"} {
		if _, ok := parsePositiveInt(bad); ok {
			t.Errorf("parsePositiveInt(%q) should fail", bad)
		}
	}
}
