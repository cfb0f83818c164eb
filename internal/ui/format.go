package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/weekslot/internal/availability"
	"github.com/javiermolinar/weekslot/internal/placer"
	"github.com/javiermolinar/weekslot/internal/summary"
	"github.com/javiermolinar/weekslot/internal/task"
)

// PrintOpts configures task printing behavior.
type PrintOpts struct {
	Verbose       bool // Show descriptions and full titles
	MaxTitleWidth int  // Maximum title width (0 = auto)
}

// rowOverhead is the width of "  #12345 HH:00-HH:00  [M]  Nh  ".
const rowOverhead = 32

// CalcMaxTitleWidth calculates the maximum title width for a terminal width.
func (o PrintOpts) CalcMaxTitleWidth(width int) int {
	if o.MaxTitleWidth > 0 {
		return o.MaxTitleWidth
	}
	available := width - rowOverhead
	if available < 10 {
		return 10
	}
	return available
}

// formatPriority renders a priority as a colored one-letter tag.
func formatPriority(p task.Priority) string {
	if !p.Valid() {
		return "[?]"
	}
	tag := "[" + string(p)[:1] + "]"
	switch p {
	case task.PriorityHigh:
		return colorHigh.Sprint(tag)
	case task.PriorityMedium:
		return colorMedium.Sprint(tag)
	default:
		return colorLow.Sprint(tag)
	}
}

// formatSpan renders the hours a task covers, e.g. "22:00-02:00".
func formatSpan(hour, duration int) string {
	end := (hour + duration) % task.HoursPerDay
	return fmt.Sprintf("%s-%s", task.FormatHour(hour), task.FormatHour(end))
}

// truncate shortens s to width cells.
func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

// PrintTaskRow prints a single task row with consistent formatting.
func PrintTaskRow(w io.Writer, t *task.Task, opts PrintOpts, maxTitleWidth int) {
	title := t.Title
	if !opts.Verbose {
		title = truncate(title, maxTitleWidth)
	}

	fmt.Fprintf(w, "  %-6s %s  %s  %2dh  %s\n",
		fmt.Sprintf("#%d", t.ID),
		formatSpan(t.Hour, t.Duration),
		formatPriority(t.Priority),
		t.Duration,
		title,
	)
	if opts.Verbose && t.Description != "" {
		fmt.Fprintf(w, "         %s\n", formatMuted(t.Description))
	}
}

// PrintTasks prints tasks grouped by day, in week order.
func PrintTasks(w io.Writer, tasks []*task.Task, opts PrintOpts, maxTitleWidth int) {
	current := task.Day(-1)
	for _, t := range tasks {
		if t.Day != current {
			if current != task.Day(-1) {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "=== %s ===\n", formatHeader(t.Day.String()))
			current = t.Day
		}
		PrintTaskRow(w, t, opts, maxTitleWidth)
	}
}

// PrintPlacement prints the outcome of a placement.
func PrintPlacement(w io.Writer, title string, p placer.Placement) {
	fmt.Fprintf(w, "%s #%d: %s at %s for %dh\n",
		formatOK("Placed task"), p.TaskID, title, p.Slot, p.Duration)

	if p.Split() {
		parts := make([]string, 0, len(p.Parts))
		for _, part := range p.Parts {
			parts = append(parts, fmt.Sprintf("#%d %s (%dh)", part.ID, part.Start(), part.Duration))
		}
		fmt.Fprintf(w, "  %s %s\n", formatMuted("split at midnight:"), strings.Join(parts, ", "))
	}
	if p.Fallback {
		fmt.Fprintf(w, "  %s\n", formatWarn("no free hour in the preferred range, placed outside it"))
	}
}

// Week grid cells.
const (
	busyCell        = "██"
	freeCell        = "··"
	busyCellCompact = "#"
	freeCellCompact = "."
)

var (
	gridBusyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	gridFreeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	gridLabelStyle  = lipgloss.NewStyle().Bold(true).Width(4)
	gridBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)
)

// compactBelow is the terminal width under which the grid uses one cell per hour.
const compactBelow = 4 + task.HoursPerDay*3 + 4

// RenderWeek renders a grid as a bordered 7x24 table for a terminal of the
// given width.
func RenderWeek(g availability.Grid, width int) string {
	compact := width < compactBelow
	busy, free, sep := busyCell, freeCell, " "
	if compact {
		busy, free, sep = busyCellCompact, freeCellCompact, ""
	}

	var b strings.Builder

	b.WriteString(gridLabelStyle.Render(""))
	for h := range task.HoursPerDay {
		label := fmt.Sprintf("%02d", h)
		if compact {
			label = label[1:]
		}
		b.WriteString(label)
		if h < task.HoursPerDay-1 {
			b.WriteString(sep)
		}
	}

	for _, day := range task.Week {
		b.WriteByte('\n')
		b.WriteString(gridLabelStyle.Render(day.Short()))
		for h := range task.HoursPerDay {
			if g.Busy(day, h) {
				b.WriteString(gridBusyStyle.Render(busy))
			} else {
				b.WriteString(gridFreeStyle.Render(free))
			}
			if h < task.HoursPerDay-1 {
				b.WriteString(sep)
			}
		}
	}

	total := task.DaysPerWeek * task.HoursPerDay
	footer := fmt.Sprintf("busy %dh, free %dh", g.BusyHours(), total-g.BusyHours())

	return lipgloss.JoinVertical(lipgloss.Left,
		gridBorderStyle.Render(b.String()),
		" "+formatMuted(footer),
	)
}

// PrintStats prints the week statistics under the grid.
func PrintStats(w io.Writer, s summary.Stats) {
	if s.Tasks == 0 {
		fmt.Fprintln(w, formatMuted("  No tasks this week."))
		return
	}

	fmt.Fprintf(w, "  %d tasks, %dh scheduled", s.Tasks, s.TaskHours)
	if overlap := s.Overlap(); overlap > 0 {
		fmt.Fprintf(w, ", %s", formatWarn(fmt.Sprintf("%dh overlapping", overlap)))
	}
	fmt.Fprintln(w)

	day, hours := s.BusiestDay()
	fmt.Fprintf(w, "  busiest: %s (%dh)\n", day, hours)

	parts := make([]string, 0, 3)
	for _, p := range []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow} {
		if h := s.PerPriority[p]; h > 0 {
			parts = append(parts, fmt.Sprintf("%s %dh", formatPriority(p), h))
		}
	}
	fmt.Fprintf(w, "  by priority: %s\n", strings.Join(parts, "  "))
	fmt.Fprintf(w, "  in preferred hours: %d%%\n", s.PreferredPercent())
}
