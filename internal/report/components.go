package report

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/ppiankov/costspectre/internal/analyzer"
	awstype "github.com/ppiankov/costspectre/internal/aws"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s with HTML escaping.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

type findingTable struct {
	category    analyzer.Category
	placeholder string
	headers     []string
	row         func(f awstype.Finding) []string
}

var findingTables = []findingTable{
	{
		category:    analyzer.CategoryUnattachedVolumes,
		placeholder: "No unattached volumes found",
		headers:     []string{"Volume ID", "Name", "Type", "Size", "Created", "Monthly Cost"},
		row: func(f awstype.Finding) []string {
			return []string{f.ResourceID, f.ResourceName, f.VolumeType, fmt.Sprintf("%d GB", f.SizeGiB), f.CreatedOn, formatMoney(f.MonthlyCost)}
		},
	},
	{
		category:    analyzer.CategoryStaleSnapshots,
		placeholder: "No old snapshots found",
		headers:     []string{"Snapshot ID", "Name", "Size", "Age", "Monthly Cost"},
		row: func(f awstype.Finding) []string {
			return []string{f.ResourceID, f.ResourceName, fmt.Sprintf("%d GB", f.SizeGiB), fmt.Sprintf("%d days", f.AgeDays), formatMoney(f.MonthlyCost)}
		},
	},
	{
		category:    analyzer.CategoryIdleInstances,
		placeholder: "No idle instances found",
		headers:     []string{"ID", "Name", "Type", "CPU", "Monthly Cost"},
		row: func(f awstype.Finding) []string {
			return []string{f.ResourceID, f.ResourceName, f.InstanceType, fmt.Sprintf("%.2f%%", f.AvgCPUPercent), formatMoney(f.MonthlyCost)}
		},
	},
	{
		category:    analyzer.CategoryUnusedAddresses,
		placeholder: "No unused Elastic IPs found",
		headers:     []string{"Public IP", "Allocation ID", "Monthly Cost"},
		row: func(f awstype.Finding) []string {
			return []string{f.PublicIP, f.ResourceID, formatMoney(f.MonthlyCost)}
		},
	},
}

func reportPage(r *analyzer.AnalysisResult) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"><title>AWS Cost Analysis Report</title>`)
		h.raw(`<script src="` + chartJSURL + `"></script><style>`)
		h.raw(reportStyle)
		h.raw(`</style></head><body><div class="container">`)
		h.render(ctx, reportHeader(r.Metadata))
		h.raw(`<div class="content">`)
		h.render(ctx, summaryCards(r.Summary, r.Severity))
		h.render(ctx, trendSection(r.CostTrend))
		h.render(ctx, spikesSection(r.CostSpikes))
		h.render(ctx, servicesSection(r.ServiceBreakdown))
		h.render(ctx, section("Forecast for Next 30 Days", forecastBody(r.Forecast30Days)))
		for _, t := range findingTables {
			h.render(ctx, findingsSection(t, r.Findings(t.category)))
		}
		h.raw(`</div>`)
		h.render(ctx, reportFooter(r.Metadata))
		h.raw(`</div>`)
		h.render(ctx, trendChart(r.CostTrend.DailyCosts))
		h.raw(`</body></html>`)
	})
}

func reportHeader(m analyzer.Metadata) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="header"><h1>AWS Cost Analysis Report</h1><p>Region: `)
		h.text(m.Region)
		if m.Profile != "" {
			h.raw(` | Profile: `)
			h.text(m.Profile)
		}
		h.raw(` | Generated: `)
		h.text(m.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
		h.raw(`</p><p>CPU threshold: `)
		h.text(strconv.FormatFloat(m.CPUThreshold, 'f', -1, 64))
		h.raw(`% over `)
		h.text(strconv.Itoa(m.AnalysisDays))
		h.raw(` days | Snapshot age: `)
		h.text(strconv.Itoa(m.SnapshotAgeDays))
		h.raw(` days</p></div>`)
	})
}

func summaryCards(s analyzer.Summary, severity analyzer.Severity) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="summary">`)
		h.render(ctx, card("green", formatMoney(s.MonthlySavings), "Monthly Savings"))
		h.render(ctx, card("green", formatMoney(s.YearlySavings), "Yearly Savings"))
		h.render(ctx, card("red", strconv.Itoa(s.TotalIssues), "Issues Found"))
		h.render(ctx, card("severity-"+string(severity), severityLabel(severity), "Recommendation Severity"))
		h.raw(`</div>`)
	})
}

func card(class, value, label string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="card `)
		h.text(class)
		h.raw(`"><h2>`)
		h.text(value)
		h.raw(`</h2><p>`)
		h.text(label)
		h.raw(`</p></div>`)
	})
}

func section(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="section"><h2>`)
		h.text(title)
		h.raw(`</h2>`)
		h.render(ctx, body)
		h.raw(`</div>`)
	})
}

// dataTable renders rows under headers, or the placeholder when there are no rows.
func dataTable(headers []string, rows [][]string, placeholder string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if len(rows) == 0 {
			h.raw(`<div class="no-issues">`)
			h.text(placeholder)
			h.raw(`</div>`)
			return
		}
		h.raw(`<div class="table-container"><table><tr>`)
		for _, header := range headers {
			h.raw(`<th>`)
			h.text(header)
			h.raw(`</th>`)
		}
		h.raw(`</tr>`)
		for _, row := range rows {
			h.raw(`<tr>`)
			for _, cell := range row {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</table></div>`)
	})
}

func trendSection(trend awstype.CostTrend) templ.Component {
	title := fmt.Sprintf("AWS Cost Trend (Last %d Days)", len(trend.DailyCosts))
	return section(title, component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="table-container"><p>Total spend for the window: <b>`)
		h.text(formatMoney(trend.TotalCost))
		h.raw(`</b></p><canvas id="costTrendChart"></canvas></div>`)
	}))
}

func spikesSection(spikes []analyzer.CostSpike) templ.Component {
	rows := make([][]string, 0, len(spikes))
	for _, s := range spikes {
		rows = append(rows, []string{s.Date, fmt.Sprintf("%.2f%%", s.IncreasePercent), formatMoney(s.Cost), formatMoney(s.PreviousCost)})
	}
	return section("Cost Spikes Detected", dataTable([]string{"Date", "Increase (%)", "Cost", "Previous Day"}, rows, "No cost spikes detected"))
}

func servicesSection(services []awstype.ServiceCost) templ.Component {
	rows := make([][]string, 0, len(services))
	for _, s := range services {
		rows = append(rows, []string{s.Service, formatMoney(s.Cost)})
	}
	return section("Service-wise Cost Breakdown", dataTable([]string{"Service", "Cost"}, rows, "No services detected"))
}

func forecastBody(forecast float64) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="table-container"><p>Estimated Cost: <b>`)
		h.text(formatMoney(forecast))
		h.raw(`</b></p></div>`)
	})
}

func findingsSection(t findingTable, findings []awstype.Finding) templ.Component {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, t.row(f))
	}
	return section(t.category.Label(), dataTable(t.headers, rows, t.placeholder))
}

func reportFooter(m analyzer.Metadata) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="footer">`)
		h.text(fmt.Sprintf("%s %s | run %s", m.Tool, m.Version, m.RunID))
		h.raw(`</div>`)
	})
}

// trendChart emits the Chart.js bootstrap with the trend as JSON literals.
func trendChart(points []awstype.CostTrendPoint) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		labels := make([]string, 0, len(points))
		values := make([]float64, 0, len(points))
		for _, p := range points {
			labels = append(labels, p.Date)
			values = append(values, p.Cost)
		}
		labelsJSON, err := templ.JSONString(labels)
		if err != nil {
			return fmt.Errorf("encode chart labels: %w", err)
		}
		valuesJSON, err := templ.JSONString(values)
		if err != nil {
			return fmt.Errorf("encode chart values: %w", err)
		}

		h := &htmlWriter{w: w}
		h.raw(`<script>new Chart(document.getElementById('costTrendChart'), {type: 'line', data: {labels: `)
		h.raw(labelsJSON)
		h.raw(`, datasets: [{label: 'Daily AWS Cost ($)', data: `)
		h.raw(valuesJSON)
		h.raw(`, borderColor: '#ff9900', backgroundColor: 'rgba(255,153,0,0.2)', tension: 0.4, fill: true}]}, `)
		h.raw(`options: {responsive: true, plugins: {legend: {display: true}}, scales: {y: {beginAtZero: true}}}});</script>`)
		return h.err
	})
}
