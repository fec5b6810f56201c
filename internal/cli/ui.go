package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nugetbackup/pkg/backup"
	"github.com/matzehuels/nugetbackup/pkg/mirror"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleFailure for failure counts.
	StyleFailure = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Summaries
// =============================================================================

// printSummary prints the outcome of a backup run followed by the failed
// items, if any.
func printSummary(r *backup.Report) {
	fmt.Println()
	fmt.Println(renderSummary(r))

	for _, p := range r.Packages {
		if !p.OK {
			printError("%s:%s", p.ID, p.Version)
			printDetail("%s", p.Error)
		}
	}
	if r.Normalize != nil {
		for _, f := range r.Normalize.Failures {
			printWarning("left in place: %s", f.Dir)
			printDetail("%s", f.Error)
		}
	}

	switch {
	case r.Cancelled:
		printWarning("Run cancelled after %d of the selected packages", len(r.Packages))
	case r.ArchiveFailures() == 0 && r.NormalizeFailures() == 0:
		printSuccess("All %d packages backed up to %s", r.Archived(), r.Config.TargetDir)
	}
}

// renderSummary renders the run counts as a table.
func renderSummary(r *backup.Report) string {
	rows := [][]string{
		{"Archive", strconv.Itoa(r.Archived()), strconv.Itoa(r.ArchiveFailures())},
	}
	if r.Normalize != nil {
		rows = append(rows, []string{"Normalize", strconv.Itoa(r.Normalized()), strconv.Itoa(r.NormalizeFailures())})
	}
	return renderCountTable(rows)
}

// printMirrorSummary prints the outcome of a mirror upload.
func printMirrorSummary(dest string, res *mirror.Result) {
	fmt.Println()
	fmt.Println(StyleTitle.Render("Mirror") + " " + StyleDim.Render(dest))
	fmt.Println(renderCountTable([][]string{
		{"Upload", strconv.Itoa(len(res.Uploaded)), strconv.Itoa(len(res.Failures))},
		{"Skipped", strconv.Itoa(len(res.Skipped)), "0"},
	}))
	for _, f := range res.Failures {
		printError("%s", f.Path)
		printDetail("%v", f.Err)
	}
}

// renderCountTable renders rows of (step, succeeded, failed).
func renderCountTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Step", "Succeeded", "Failed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			switch col {
			case 1:
				return styleTableCell.Foreground(colorGreen)
			case 2:
				if row < len(rows) && rows[row][2] != "0" {
					return styleTableCell.Foreground(colorRed)
				}
				return styleTableCell.Foreground(colorDim)
			}
			return styleTableCell
		})
	return strings.TrimRight(t.Render(), "\n")
}
