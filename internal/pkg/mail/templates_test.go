package mail

import (
	"strings"
	"testing"
)

func TestReceiptTemplateRenders(t *testing.T) {
	body, err := renderTemplate(receiptTpl, ReceiptData{
		DonorName:     "Sara",
		CampaignTitle: "Tuition for final year",
		CampaignURL:   "https://edufund.ma/campaigns/abc",
		ReceiptNumber: "EDF-2026-abcdefabcdef",
		Amount:        "100.00 MAD",
		TipAmount:     "5.00 MAD",
		Date:          "August 27, 2026",
		PaymentMethod: "card",
		Platform:      platformName,
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	for _, want := range []string{"Sara", "EDF-2026-abcdefabcdef", "100.00 MAD", "Tuition for final year"} {
		if !strings.Contains(body, want) {
			t.Errorf("receipt body missing %q", want)
		}
	}
}

func TestReceiptTemplateEscapesHTML(t *testing.T) {
	body, err := renderTemplate(receiptTpl, ReceiptData{
		DonorName: `<script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("donor name was not HTML-escaped")
	}
}

func TestModerationTemplateRenders(t *testing.T) {
	body, err := renderTemplate(moderationTpl, moderationData{
		Name:        "Yassine",
		Heading:     "Your campaign is live",
		Body:        "Supporters can now find and fund it.",
		Notes:       "Looks great",
		ActionURL:   "https://edufund.ma/campaigns/abc",
		ActionLabel: "View campaign",
		AccentColor: "#2b6cb0",
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	for _, want := range []string{"Yassine", "Your campaign is live", "Looks great", "View campaign"} {
		if !strings.Contains(body, want) {
			t.Errorf("moderation body missing %q", want)
		}
	}
}

func TestNameOr(t *testing.T) {
	if got := nameOr("", "Friend"); got != "Friend" {
		t.Errorf("nameOr empty = %q, want Friend", got)
	}
	if got := nameOr("Sara", "Friend"); got != "Sara" {
		t.Errorf("nameOr = %q, want Sara", got)
	}
}

func TestSenderDisabledByDefault(t *testing.T) {
	s := New(Config{})
	if s.Enabled() {
		t.Error("mail should be disabled when not configured")
	}
	if err := s.Send(Message{To: []string{"x@example.com"}, Subject: "hi", HTML: "<p>hi</p>"}); err != nil {
		t.Errorf("Send on a disabled sender should be a no-op, got %v", err)
	}
}
