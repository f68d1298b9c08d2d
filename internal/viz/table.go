package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// StepHeader is the column header of the step table, aligned with StepRow.
func StepHeader() string {
	return fmt.Sprintf("           %14s %15s %16s %18s %17s ",
		"TEMPERATURE", "TOTAL_ENERGY", "KINETIC_ENERGY", "POTENTIAL_ENERGY", "FORCES_SUM_NORM")
}

func StepRow(s dynamo.Sample) string {
	return fmt.Sprintf("STEP %2d -- %14e %15e %16e %18e %17e ",
		s.Step, s.Temperature, s.TotalEnergy, s.KineticEnergy, s.PotentialEnergy, s.ForceSumNorm)
}

// StepTable renders samples as the header line followed by one row each.
// With styled set, the header and step labels use the current theme.
func StepTable(samples []dynamo.Sample, styled bool) string {
	head := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Secondary)
	label := lipgloss.NewStyle().Foreground(CurrentTheme.Primary)
	bad := lipgloss.NewStyle().Foreground(CurrentTheme.Error)

	var sb strings.Builder
	if styled {
		sb.WriteString(head.Render(StepHeader()))
	} else {
		sb.WriteString(StepHeader())
	}
	sb.WriteString("\n")

	for _, s := range samples {
		row := StepRow(s)
		if styled {
			prefix, rest := splitStepLabel(row)
			if s.IsValid() {
				row = label.Render(prefix) + rest
			} else {
				row = bad.Render(prefix) + rest
			}
		}
		sb.WriteString(row + "\n")
	}
	return sb.String()
}

// splitStepLabel cuts a step row after its "STEP n -- " label. A row
// without the separator is returned whole as the label.
func splitStepLabel(row string) (label, rest string) {
	const sep = " -- "
	i := strings.Index(row, sep)
	if i < 0 {
		return row, ""
	}
	return row[:i+len(sep)], row[i+len(sep):]
}

// RunFooter reports simulated and wall-clock time the way the step table
// is traditionally closed.
func RunFooter(steps int, dt float64, elapsed time.Duration) string {
	return fmt.Sprintf("Simulate: %e seconds\nTake: %f seconds\n", float64(steps)*dt, elapsed.Seconds())
}

// MetricsTable lists run metrics sorted by name.
func MetricsTable(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.6g", metrics[name])) + "\n")
	}
	return sb.String()
}
