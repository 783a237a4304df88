package moderation

import (
	"testing"

	"github.com/edufund/core/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.CampaignStatus
		want     bool
	}{
		{models.CampaignPending, models.CampaignPublished, true},
		{models.CampaignPending, models.CampaignRejected, true},
		{models.CampaignPublished, models.CampaignSuspended, true},
		{models.CampaignSuspended, models.CampaignPublished, true},
		{models.CampaignPublished, models.CampaignCompleted, true},
		{models.CampaignRejected, models.CampaignPending, true},

		// no self-transitions
		{models.CampaignPending, models.CampaignPending, false},
		{models.CampaignPublished, models.CampaignPublished, false},

		// completed campaigns only reopen to published
		{models.CampaignCompleted, models.CampaignPublished, true},
		{models.CampaignCompleted, models.CampaignSuspended, false},
		{models.CampaignCompleted, models.CampaignRejected, false},
		{models.CampaignCompleted, models.CampaignPending, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestValidOverrideStatus(t *testing.T) {
	for _, s := range []models.CampaignStatus{
		models.CampaignDraft, models.CampaignPending, models.CampaignPublished,
		models.CampaignRejected, models.CampaignCompleted, models.CampaignSuspended,
	} {
		if !validOverrideStatus(s) {
			t.Errorf("validOverrideStatus(%s) = false, want true", s)
		}
	}
	if validOverrideStatus("archived") {
		t.Error("unknown status should be rejected")
	}
}
