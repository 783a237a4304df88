package export

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
		{"GET", "/api/donations/:id/receipt"},
		{"GET", "/api/admin/export/campaigns"},
		{"GET", "/api/admin/export/donations"},
		{"GET", "/api/admin/export/campaigns/:id/report"},
		{"GET", "/api/export/campaigns-csv"},
		{"GET", "/api/export/donations-csv"},
		{"POST", "/api/export/analytics-pdf"},
		{"GET", "/api/export/receipt/:id"},
	} {
		if !hasRoute(r, rt.method, rt.path) {
			t.Errorf("missing route %s %s", rt.method, rt.path)
		}
	}
}
