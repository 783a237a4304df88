package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const platformName = "EduFund"

const receiptTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border:1px solid rgb(16,185,129);border-radius:.375rem;margin:40px auto;padding:20px;width:550px;background:#fff">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:600;text-align:center;margin:24px 0">Thank you for your donation!</h1>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">Dear {{.DonorName}},</p>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">We received your donation to <strong>{{.CampaignTitle}}</strong>. Here is your receipt:</p>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:13px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">
            Receipt number: <strong>{{.ReceiptNumber}}</strong><br />
            Amount: <strong>{{.Amount}}</strong><br />
            {{if .TipAmount}}Platform tip: {{.TipAmount}}<br />{{end}}
            Date: {{.Date}}<br />
            Payment method: {{.PaymentMethod}}
          </p></td></tr></tbody>
        </table>
        {{if .CampaignURL}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin:32px 0">
          <tbody><tr><td>
            <a href="{{.CampaignURL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;padding:12px 20px;background-color:rgb(16,185,129);border-radius:.25rem;color:#fff;font-size:12px;font-weight:600">View campaign</a>
          </td></tr></tbody>
        </table>
        {{end}}
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">This email was sent automatically, please do not reply.<br />©{{year}} {{.Platform}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const moderationTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#f5f5f5;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border:1px solid {{.AccentColor}};border-radius:.375rem;margin:40px auto;padding:20px;width:550px;background:#fff">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:600;text-align:center;margin:24px 0">{{.Heading}}</h1>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">Dear {{.Name}},</p>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">{{.Body}}</p>
        {{if .Notes}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:13px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">{{.Notes}}</p></td></tr></tbody>
        </table>
        {{end}}
        {{if .ActionURL}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin:32px 0">
          <tbody><tr><td>
            <a href="{{.ActionURL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;padding:12px 20px;background-color:{{.AccentColor}};border-radius:.25rem;color:#fff;font-size:12px;font-weight:600">{{.ActionLabel}}</a>
          </td></tr></tbody>
        </table>
        {{end}}
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">This email was sent automatically, please do not reply.<br />©{{year}} {{.Platform}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// ReceiptData is the data for donation receipt emails.
type ReceiptData struct {
	DonorName     string
	CampaignTitle string
	CampaignURL   string
	ReceiptNumber string
	Amount        string
	TipAmount     string
	Date          string
	PaymentMethod string
	Platform      string
}

type moderationData struct {
	Name        string
	Heading     string
	Body        string
	Notes       string
	ActionURL   string
	ActionLabel string
	AccentColor string
	Platform    string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendDonationReceipt sends the receipt email after a donation is recorded.
func (s *Sender) SendDonationReceipt(to string, data ReceiptData) error {
	if strings.TrimSpace(data.DonorName) == "" {
		data.DonorName = "Donor"
	}
	if strings.TrimSpace(data.Platform) == "" {
		data.Platform = platformName
	}
	html, err := renderTemplate(receiptTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Donation receipt %s", data.Platform, data.ReceiptNumber),
		HTML:    html,
	})
}

// SendCampaignApproved notifies the campaign owner of a successful review.
func (s *Sender) SendCampaignApproved(to, ownerName, campaignTitle, notes, campaignURL string) error {
	html, err := renderTemplate(moderationTpl, moderationData{
		Name:        nameOr(ownerName, "Student"),
		Heading:     "Your campaign is live!",
		Body:        fmt.Sprintf("Good news: your campaign “%s” has been reviewed and published. Supporters can now find it and donate.", campaignTitle),
		Notes:       notes,
		ActionURL:   campaignURL,
		ActionLabel: "View your campaign",
		AccentColor: "rgb(16,185,129)",
		Platform:    platformName,
	})
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Your campaign has been approved", platformName),
		HTML:    html,
	})
}

// SendCampaignRejected notifies the campaign owner of a rejection, including
// the reviewer's reason.
func (s *Sender) SendCampaignRejected(to, ownerName, campaignTitle, reason string) error {
	html, err := renderTemplate(moderationTpl, moderationData{
		Name:        nameOr(ownerName, "Student"),
		Heading:     "Your campaign needs changes",
		Body:        fmt.Sprintf("Your campaign “%s” was reviewed and could not be published in its current form. The reviewer left the following note:", campaignTitle),
		Notes:       reason,
		AccentColor: "rgb(244,63,94)",
		Platform:    platformName,
	})
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Your campaign was not approved", platformName),
		HTML:    html,
	})
}

// SendProfileApproved notifies a student that their profile passed review.
func (s *Sender) SendProfileApproved(to, name string) error {
	html, err := renderTemplate(moderationTpl, moderationData{
		Name:        nameOr(name, "Student"),
		Heading:     "Your profile is verified",
		Body:        "Your student profile has been reviewed and verified. You can now create fundraising campaigns.",
		AccentColor: "rgb(16,185,129)",
		Platform:    platformName,
	})
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Your profile has been verified", platformName),
		HTML:    html,
	})
}

// SendProfileRejected notifies a student that their profile was rejected.
func (s *Sender) SendProfileRejected(to, name, reason string) error {
	html, err := renderTemplate(moderationTpl, moderationData{
		Name:        nameOr(name, "Student"),
		Heading:     "Your profile needs changes",
		Body:        "Your student profile could not be verified. Please update it and resubmit. The reviewer left the following note:",
		Notes:       reason,
		AccentColor: "rgb(244,63,94)",
		Platform:    platformName,
	})
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] Your profile was not verified", platformName),
		HTML:    html,
	})
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
