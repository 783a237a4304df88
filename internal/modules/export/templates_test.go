package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/edufund/core/internal/modules/admin/stats"
	"github.com/edufund/core/internal/pkg/money"
)

func TestReportTemplateRenders(t *testing.T) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, reportData{
		Analytics: &stats.CampaignAnalytics{
			CampaignID:    "abc",
			Title:         "Tuition for final year",
			Status:        "published",
			GoalAmount:    money.FromMAD(10000),
			CurrentAmount: money.FromMAD(2500),
			Progress:      0.25,
			DonationCount: 12,
			Daily: []stats.DailyPoint{
				{Date: "2026-08-01", Count: 3, Amount: money.FromMAD(300)},
			},
		},
		GeneratedAt: "2026-08-27 12:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Tuition for final year", "10000.00", "25.0%", "2026-08-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestReceiptTemplateRenders(t *testing.T) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, receiptData{
		ReceiptNumber: "EDF-2026-abcdefabcdef",
		DonorName:     "Sara",
		CampaignTitle: "Laptop for CS degree",
		Amount:        "100.00 MAD",
		TipAmount:     "5.00 MAD",
		HasTip:        true,
		PaymentMethod: "card",
		Date:          "August 27, 2026",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"EDF-2026-abcdefabcdef", "Sara", "100.00 MAD", "Platform tip"} {
		if !strings.Contains(out, want) {
			t.Errorf("receipt missing %q", want)
		}
	}
}

func TestReceiptTemplateOmitsTipWhenZero(t *testing.T) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, receiptData{
		ReceiptNumber: "EDF-2026-abcdefabcdef",
		DonorName:     "Sara",
		Amount:        "100.00 MAD",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(buf.String(), "Platform tip") {
		t.Error("tip row should be omitted when there is no tip")
	}
}
