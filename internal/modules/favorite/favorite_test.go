package favorite

import (
	"net/http/httptest"
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
	NewHandler(nil).RegisterRoutes(r.Group("/api"), func(c *gin.Context) {})

	for _, rt := range []struct{ method, path string }{
		{"GET", "/api/favorites"},
		{"POST", "/api/favorites/:campaignId"},
		{"DELETE", "/api/favorites/:campaignId"},
		{"GET", "/api/favorites/:campaignId"},
		{"POST", "/api/campaigns/:id/favorite"},
		{"DELETE", "/api/campaigns/:id/favorite"},
		{"GET", "/api/campaigns/:id/favorite/check"},
	} {
		if !hasRoute(r, rt.method, rt.path) {
			t.Errorf("missing route %s %s", rt.method, rt.path)
		}
	}
}

func TestCampaignParamResolvesEitherName(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "campaignId", Value: "c1"}}
	if got := campaignParam(c); got != "c1" {
		t.Errorf("campaignParam = %q, want c1", got)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "c2"}}
	if got := campaignParam(c); got != "c2" {
		t.Errorf("campaignParam = %q, want c2", got)
	}
}
