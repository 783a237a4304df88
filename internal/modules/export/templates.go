package export

import (
	"html/template"

	"github.com/edufund/core/internal/modules/admin/stats"
)

type reportData struct {
	Analytics   *stats.CampaignAnalytics
	GeneratedAt string
}

type receiptData struct {
	ReceiptNumber string
	DonorName     string
	CampaignTitle string
	Amount        string
	TipAmount     string
	HasTip        bool
	PaymentMethod string
	Date          string
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"mulf": func(a, b float64) float64 { return a * b },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Campaign Report — {{.Analytics.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; color: #1a202c; margin: 40px; }
  h1 { font-size: 22px; border-bottom: 2px solid #2b6cb0; padding-bottom: 8px; }
  table { border-collapse: collapse; width: 100%; margin: 16px 0; }
  th, td { border: 1px solid #cbd5e0; padding: 6px 10px; text-align: left; font-size: 13px; }
  th { background: #edf2f7; }
  .meta { color: #718096; font-size: 12px; }
  @media print { body { margin: 12mm; } }
</style>
</head>
<body>
<h1>{{.Analytics.Title}}</h1>
<p class="meta">Status: {{.Analytics.Status}} &middot; Generated {{.GeneratedAt}}</p>

<table>
  <tr><th>Goal</th><td>{{printf "%.2f" .Analytics.GoalAmount.MAD}} MAD</td></tr>
  <tr><th>Raised</th><td>{{printf "%.2f" .Analytics.CurrentAmount.MAD}} MAD</td></tr>
  <tr><th>Progress</th><td>{{printf "%.1f" (mulf .Analytics.Progress 100)}}%</td></tr>
  <tr><th>Donations</th><td>{{.Analytics.DonationCount}}</td></tr>
  <tr><th>Unique donors</th><td>{{.Analytics.UniqueDonors}}</td></tr>
  <tr><th>Anonymous donations</th><td>{{.Analytics.AnonymousCount}}</td></tr>
  <tr><th>Average donation</th><td>{{printf "%.2f" .Analytics.AverageDonation.MAD}} MAD</td></tr>
  <tr><th>Largest donation</th><td>{{printf "%.2f" .Analytics.LargestDonation.MAD}} MAD</td></tr>
  <tr><th>Tips collected</th><td>{{printf "%.2f" .Analytics.TotalTips.MAD}} MAD</td></tr>
  <tr><th>Views</th><td>{{.Analytics.ViewCount}}</td></tr>
  <tr><th>Shares</th><td>{{.Analytics.ShareCount}}</td></tr>
  <tr><th>Updates posted</th><td>{{.Analytics.UpdatesPosted}}</td></tr>
  <tr><th>Comments</th><td>{{.Analytics.CommentCount}}</td></tr>
</table>

<h2 style="font-size:16px">Donations, last 30 days</h2>
<table>
  <tr><th>Date</th><th>Donations</th><th>Amount (MAD)</th></tr>
  {{range .Analytics.Daily}}<tr><td>{{.Date}}</td><td>{{.Count}}</td><td>{{printf "%.2f" .Amount.MAD}}</td></tr>
  {{end}}
</table>
</body>
</html>
`))

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Donation Receipt {{.ReceiptNumber}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; color: #1a202c; max-width: 560px; margin: 40px auto; }
  .card { border: 1px solid #cbd5e0; border-radius: 8px; padding: 32px; }
  h1 { font-size: 18px; color: #2b6cb0; margin-top: 0; }
  dl { display: grid; grid-template-columns: 1fr 2fr; gap: 6px 12px; font-size: 14px; }
  dt { color: #718096; }
  dd { margin: 0; }
  .amount { font-size: 24px; font-weight: 600; margin: 16px 0; }
  .footer { color: #a0aec0; font-size: 11px; margin-top: 24px; }
  @media print { body { margin: 12mm auto; } }
</style>
</head>
<body>
<div class="card">
  <h1>EduFund — Donation Receipt</h1>
  <p class="amount">{{.Amount}}</p>
  <dl>
    <dt>Receipt number</dt><dd>{{.ReceiptNumber}}</dd>
    <dt>Donor</dt><dd>{{.DonorName}}</dd>
    <dt>Campaign</dt><dd>{{.CampaignTitle}}</dd>
    {{if .HasTip}}<dt>Platform tip</dt><dd>{{.TipAmount}}</dd>{{end}}
    <dt>Payment method</dt><dd>{{.PaymentMethod}}</dd>
    <dt>Date</dt><dd>{{.Date}}</dd>
  </dl>
  <p class="footer">Thank you for supporting a student's education. Keep this receipt for your records.</p>
</div>
</body>
</html>
`))
