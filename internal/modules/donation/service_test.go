package donation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/edufund/core/internal/models"
	"github.com/edufund/core/internal/pkg/apperr"
	"github.com/edufund/core/internal/pkg/money"
)

func testService() *Service {
	return &Service{minAmount: money.FromMAD(50)}
}

func publishedCampaign() *models.CampaignModel {
	return &models.CampaignModel{
		Status:         models.CampaignPublished,
		AllowAnonymous: true,
		GoalAmount:     money.FromMAD(10000),
	}
}

func TestValidateRecordAcceptsNamedDonation(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     100,
		DonorName:  "Sara",
		DonorEmail: "sara@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRecordBelowMinimum(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     10,
		DonorEmail: "sara@example.com",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("want validation error, got %v", err)
	}
}

func TestValidateRecordExactMinimum(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     50,
		DonorName:  "Sara",
		DonorEmail: "sara@example.com",
	})
	if err != nil {
		t.Errorf("minimum amount should be accepted, got %v", err)
	}
}

func TestValidateRecordUnpublishedCampaign(t *testing.T) {
	cm := publishedCampaign()
	cm.Status = models.CampaignPending
	err := testService().ValidateRecord(cm, &RecordDonationDTO{
		Amount:     100,
		DonorEmail: "sara@example.com",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("want conflict error, got %v", err)
	}
}

func TestValidateRecordAnonymousDisallowed(t *testing.T) {
	cm := publishedCampaign()
	cm.AllowAnonymous = false
	err := testService().ValidateRecord(cm, &RecordDonationDTO{
		Amount:      100,
		IsAnonymous: true,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("want validation error, got %v", err)
	}
}

func TestValidateRecordNamedRequiresEmail(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:    100,
		DonorName: "Sara",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("missing email should fail validation, got %v", err)
	}

	err = testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     100,
		DonorName:  "Sara",
		DonorEmail: "not-an-email",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("bogus email should fail validation, got %v", err)
	}
}

func TestValidateRecordNamedRequiresName(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     100,
		DonorEmail: "sara@example.com",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("named donation without donorName should fail validation, got %v", err)
	}

	err = testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     100,
		DonorName:  "   ",
		DonorEmail: "sara@example.com",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("whitespace donorName should fail validation, got %v", err)
	}
}

func TestValidateRecordAnonymousSkipsEmail(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:      100,
		IsAnonymous: true,
	})
	if err != nil {
		t.Errorf("anonymous donation should not require an email, got %v", err)
	}
}

func TestValidateRecordNegativeTip(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     100,
		TipAmount:  -5,
		DonorEmail: "sara@example.com",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("negative tip should fail validation, got %v", err)
	}
}

func TestValidateRecordLongMessage(t *testing.T) {
	err := testService().ValidateRecord(publishedCampaign(), &RecordDonationDTO{
		Amount:     100,
		DonorName:  "Sara",
		DonorEmail: "sara@example.com",
		Message:    strings.Repeat("x", maxMessageLength+1),
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("oversized message should fail validation, got %v", err)
	}
}

func TestNewReceiptNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^EDF-\d{4}-[0-9a-f]{12}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		num, err := newReceiptNumber()
		if err != nil {
			t.Fatalf("newReceiptNumber: %v", err)
		}
		if !pattern.MatchString(num) {
			t.Fatalf("receipt %q does not match the expected format", num)
		}
		if seen[num] {
			t.Fatalf("duplicate receipt number %q", num)
		}
		seen[num] = true
	}
}

func TestToResponseMasksAnonymous(t *testing.T) {
	d := &models.DonationModel{
		DonorName:     "Sara",
		Message:       "good luck!",
		IsAnonymous:   true,
		ReceiptNumber: "EDF-2026-abcdefabcdef",
	}

	public := toResponse(d, false)
	if public.DonorName != "Anonymous" {
		t.Errorf("public view DonorName = %q, want Anonymous", public.DonorName)
	}
	if public.Message != "" {
		t.Errorf("public view should hide the message, got %q", public.Message)
	}
	if public.ReceiptNumber != "" {
		t.Errorf("public view should hide the receipt number")
	}

	own := toResponse(d, true)
	if own.DonorName != "Sara" {
		t.Errorf("own view DonorName = %q, want Sara", own.DonorName)
	}
	if own.ReceiptNumber == "" {
		t.Errorf("own view should include the receipt number")
	}
}

func TestToResponseDefaultsEmptyName(t *testing.T) {
	r := toResponse(&models.DonationModel{}, false)
	if r.DonorName != "Anonymous" {
		t.Errorf("DonorName = %q, want Anonymous", r.DonorName)
	}
}

func TestToRecentDonorMasksAnonymous(t *testing.T) {
	r := toRecentDonor(&models.DonationModel{
		DonorName:   "Sara",
		Message:     "good luck",
		IsAnonymous: true,
		Amount:      money.FromMAD(100),
	})
	if r.DonorName != "Anonymous" {
		t.Errorf("DonorName = %q, want Anonymous", r.DonorName)
	}
	if r.Message != "" {
		t.Errorf("anonymous message should be blank, got %q", r.Message)
	}
	if r.Amount != money.FromMAD(100) {
		t.Errorf("Amount = %v", r.Amount)
	}
}

func TestToRecentDonorEmptyName(t *testing.T) {
	r := toRecentDonor(&models.DonationModel{Amount: money.FromMAD(50)})
	if r.DonorName != "Anonymous" {
		t.Errorf("empty name should render as Anonymous, got %q", r.DonorName)
	}
}

func TestToCampaignTotalsProgress(t *testing.T) {
	tot := toCampaignTotals(&models.CampaignModel{
		GoalAmount:    money.FromMAD(1000),
		CurrentAmount: money.FromMAD(250),
	})
	if tot.Progress != 0.25 {
		t.Errorf("Progress = %v, want 0.25", tot.Progress)
	}

	tot = toCampaignTotals(&models.CampaignModel{})
	if tot.Progress != 0 {
		t.Errorf("zero goal Progress = %v, want 0", tot.Progress)
	}
}
