package moderation

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

func TestRegisterRoutesServesBothProfileForms(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil, nil, nil, nil, nil).RegisterRoutes(r.Group("/api"), func(c *gin.Context) {})

	for _, rt := range []struct{ method, path string }{
		{"POST", "/api/admin/users/:id/approve-profile"},
		{"POST", "/api/admin/users/:id/reject-profile"},
		{"POST", "/api/admin/profiles/:id/approve"},
		{"POST", "/api/admin/profiles/:id/reject"},
	} {
		if !hasRoute(r, rt.method, rt.path) {
			t.Errorf("missing route %s %s", rt.method, rt.path)
		}
	}
}
