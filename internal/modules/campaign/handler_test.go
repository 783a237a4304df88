package campaign

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/money"
	"github.com/gin-gonic/gin"
)

func ctxWithQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/campaigns?"+rawQuery, nil)
	return c
}

func TestParseFilterForcesPublishedForAnonymous(t *testing.T) {
	f := parseFilter(ctxWithQuery(t, "status=pending"), "", false)
	if f.Status != models.CampaignPublished {
		t.Errorf("anonymous status filter = %s, want published", f.Status)
	}
}

func TestParseFilterAllowsCompletedForAnonymous(t *testing.T) {
	f := parseFilter(ctxWithQuery(t, "status=completed"), "", false)
	if f.Status != models.CampaignCompleted {
		t.Errorf("status = %s, want completed", f.Status)
	}
}

func TestParseFilterAdminSeesRequestedStatus(t *testing.T) {
	f := parseFilter(ctxWithQuery(t, "status=pending"), "admin-1", true)
	if f.Status != models.CampaignPending {
		t.Errorf("admin status filter = %s, want pending", f.Status)
	}
}

func TestParseFilterOwnerSeesOwnDrafts(t *testing.T) {
	f := parseFilter(ctxWithQuery(t, "status=draft&userId=user-1"), "user-1", false)
	if f.Status != models.CampaignDraft {
		t.Errorf("owner status filter = %s, want draft", f.Status)
	}
}

func TestParseFilterOtherUsersCampaignsStayPublished(t *testing.T) {
	f := parseFilter(ctxWithQuery(t, "status=rejected&userId=user-2"), "user-1", false)
	if f.Status != models.CampaignPublished {
		t.Errorf("status = %s, want published when browsing another user", f.Status)
	}
}

func TestParseFilterAmounts(t *testing.T) {
	f := parseFilter(ctxWithQuery(t, "minAmount=100&maxAmount=5000"), "", false)
	if f.MinAmount == nil || *f.MinAmount != money.FromMAD(100) {
		t.Errorf("MinAmount = %v", f.MinAmount)
	}
	if f.MaxAmount == nil || *f.MaxAmount != money.FromMAD(5000) {
		t.Errorf("MaxAmount = %v", f.MaxAmount)
	}

	f = parseFilter(ctxWithQuery(t, "minAmount=abc"), "", false)
	if f.MinAmount != nil {
		t.Errorf("non-numeric minAmount should be ignored, got %v", *f.MinAmount)
	}
}

func TestParseFilterFeatured(t *testing.T) {
	f := parseFilter(ctxWithQuery(t, "featured=true"), "", false)
	if f.Featured == nil || !*f.Featured {
		t.Error("featured=true not parsed")
	}
	f = parseFilter(ctxWithQuery(t, ""), "", false)
	if f.Featured != nil {
		t.Error("absent featured param should leave the filter unset")
	}
}

func TestToResponseDaysLeft(t *testing.T) {
	end := time.Now().Add(10*24*time.Hour + time.Hour)
	r := toResponse(&models.CampaignModel{EndDate: &end}, false)
	if r.DaysLeft == nil || *r.DaysLeft != 10 {
		t.Errorf("DaysLeft = %v, want 10", r.DaysLeft)
	}

	past := time.Now().Add(-48 * time.Hour)
	r = toResponse(&models.CampaignModel{EndDate: &past}, false)
	if r.DaysLeft == nil || *r.DaysLeft != 0 {
		t.Errorf("past end date DaysLeft = %v, want 0", r.DaysLeft)
	}

	r = toResponse(&models.CampaignModel{}, false)
	if r.DaysLeft != nil {
		t.Error("campaign without end date should have no DaysLeft")
	}
}

func TestToResponseTagsNeverNil(t *testing.T) {
	r := toResponse(&models.CampaignModel{}, false)
	if r.Tags == nil {
		t.Error("Tags should serialize as [], not null")
	}
}

func TestToResponseProgress(t *testing.T) {
	cm := &models.CampaignModel{
		GoalAmount:    money.FromMAD(1000),
		CurrentAmount: money.FromMAD(250),
	}
	r := toResponse(cm, false)
	if r.Progress != 0.25 {
		t.Errorf("Progress = %v, want 0.25", r.Progress)
	}
}

func TestToResponseRendersDescriptionHTML(t *testing.T) {
	cm := &models.CampaignModel{Description: "**bold** plan"}
	r := toResponse(cm, true)
	if r.DescriptionHTML == "" {
		t.Error("renderHTML=true should populate DescriptionHTML")
	}
	r = toResponse(cm, false)
	if r.DescriptionHTML != "" {
		t.Error("renderHTML=false should leave DescriptionHTML empty")
	}
}
