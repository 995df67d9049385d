package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/planner"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)

	riskColors = map[analysis.RiskLevel]*color.Color{
		analysis.RiskSafe:     successColor,
		analysis.RiskModerate: warningColor,
		analysis.RiskHigh:     errorColor,
	}
)

// PrintSection prints a section header.
func PrintSection(title string) {
	fmt.Println()
	_, _ = headerColor.Printf("▸ %s\n", title)
}

// PrintSuccess prints a success message with a checkmark.
func PrintSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message.
func PrintWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr.
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintRisk prints a risk-colored badge.
func PrintRisk(risk analysis.RiskLevel) {
	clr, ok := riskColors[risk]
	if !ok {
		clr = dimColor
	}
	_, _ = clr.Printf("[%s]", risk)
}

// PrintStage prints one plan stage and its operations.
func PrintStage(stage planner.Stage) {
	parallelNote := ""
	if stage.Parallel {
		parallelNote = " (parallel)"
	}
	_, _ = infoColor.Printf("  %s%s\n", stage.ID, parallelNote)
	for _, entry := range stage.Operations {
		fmt.Printf("    - %s: %s\n", entry.Operation.Kind, entry.Metadata.ID)
	}
}

// PrintDiffSummary prints a git-style change summary line.
func PrintDiffSummary(summary planner.DiffSummary) {
	fmt.Println()
	if summary.Created > 0 {
		_, _ = successColor.Printf("  %d created", summary.Created)
	}
	if summary.Modified > 0 {
		_, _ = warningColor.Printf("  %d modified", summary.Modified)
	}
	if summary.Deleted > 0 {
		_, _ = errorColor.Printf("  %d deleted", summary.Deleted)
	}
	if summary.Created == 0 && summary.Modified == 0 && summary.Deleted == 0 {
		_, _ = dimColor.Print("  no file changes")
	}
	fmt.Println()
}

// PrintFileDiffs prints one line per file diff, with human-readable
// before/after sizes for content that changes.
func PrintFileDiffs(files []planner.FileDiff) {
	for _, f := range files {
		size := ""
		if f.Preview != nil {
			before, after := previewSize(f.Preview.Before), previewSize(f.Preview.After)
			size = fmt.Sprintf(" (%s -> %s)", before, after)
		}
		fmt.Printf("  %-10s %s%s\n", f.Status, f.Path, size)
	}
}

func previewSize(s *string) string {
	if s == nil {
		return "-"
	}
	return humanize.Bytes(uint64(len(*s)))
}
