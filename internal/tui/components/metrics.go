package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

// Metrics is the headline row of the monitoring tab.
type Metrics struct {
	DBStatus   string
	Total      int
	Suspicious int
}

// RenderMetrics lays the metrics out side by side within width.
func RenderMetrics(metrics Metrics, theme themes.Theme, width int) string {
	cell := max((width-6)/3, 16)

	suspicious := theme.Metric
	if metrics.Suspicious > 0 {
		suspicious = theme.StatusError
	}
	status := theme.StatusSuccess
	if metrics.DBStatus != "Online" {
		status = theme.StatusWarning
	}

	box := theme.BorderedBox.Width(cell)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		box.Render(metric("Total Transactions", theme.Metric.Render(strconv.Itoa(metrics.Total)), theme)),
		box.Render(metric("Suspicious Alerts", suspicious.Render(strconv.Itoa(metrics.Suspicious)), theme)),
		box.Render(metric("DB Status", status.Render(metrics.DBStatus), theme)),
	)
}

func metric(label, value string, theme themes.Theme) string {
	return lipgloss.JoinVertical(lipgloss.Left, theme.MetricLabel.Render(label), value)
}
