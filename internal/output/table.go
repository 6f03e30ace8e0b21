package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/finops-audit/internal/models"
)

// ANSI color codes for severity output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
	ansiBlue   = "\033[0;34m"
)

// TableOptions controls which columns RenderTable renders and how severity
// is coloured.
type TableOptions struct {
	// Colored wraps severity labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// IncludeKind adds a KIND column.
	IncludeKind bool
}

// ColorSeverity wraps a severity string with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorSeverity(sev models.Severity, colored bool) string {
	s := string(sev)
	if !colored {
		return s
	}
	switch sev {
	case models.SeverityHigh:
		return ansiRed + s + ansiReset
	case models.SeverityMedium:
		return ansiYellow + s + ansiReset
	case models.SeverityLow:
		return ansiBlue + s + ansiReset
	default:
		return s
	}
}

// ShortenMessage truncates msg to at most max runes, appending "..." when
// truncated. max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

func hasSavings(findings []models.Finding) bool {
	for _, f := range findings {
		if f.PotentialMonthlySavings > 0 {
			return true
		}
	}
	return false
}

// severityCell returns the severity padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are
// plain so subsequent columns stay visually aligned regardless of terminal
// ANSI support.
func severityCell(sev models.Severity, width int, colored bool) string {
	text := string(sev)
	if !colored {
		return fmt.Sprintf("%-*s", width, text)
	}
	var code string
	switch sev {
	case models.SeverityHigh:
		code = ansiRed
	case models.SeverityMedium:
		code = ansiYellow
	case models.SeverityLow:
		code = ansiBlue
	default:
		return fmt.Sprintf("%-*s", width, text)
	}
	spaces := width - len(text)
	if spaces < 0 {
		spaces = 0
	}
	return code + text + ansiReset + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max bytes for ID/label columns.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// RenderTable writes a formatted findings table to w. The separator line
// width is derived from the header row so all rows align correctly.
//
// Column order:
//
//	RESOURCE ID  REGION  SEVERITY  [KIND]  CLASSIFICATION  RECOMMENDATION  [SAVINGS/MO]
func RenderTable(w io.Writer, findings []models.Finding, opts TableOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	showSavings := hasSavings(findings)

	const (
		wResource = 30
		wRegion   = 15
		wSeverity = 10
		wKind     = 12
		wClass    = 26
		wRec      = 55
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wResource, "RESOURCE ID"))
	hb.WriteString(fmt.Sprintf("  %-*s", wRegion, "REGION"))
	hb.WriteString(fmt.Sprintf("  %-*s", wSeverity, "SEVERITY"))
	if opts.IncludeKind {
		hb.WriteString(fmt.Sprintf("  %-*s", wKind, "KIND"))
	}
	hb.WriteString(fmt.Sprintf("  %-*s", wClass, "CLASSIFICATION"))
	hb.WriteString(fmt.Sprintf("  %-*s", wRec, "RECOMMENDATION"))
	if showSavings {
		hb.WriteString("  SAVINGS/MO")
	}
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, f := range findings {
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wResource, truncateField(f.ResourceID, wResource)))
		rb.WriteString(fmt.Sprintf("  %-*s", wRegion, truncateField(f.Region, wRegion)))
		rb.WriteString("  " + severityCell(f.Severity, wSeverity, opts.Colored))
		if opts.IncludeKind {
			rb.WriteString(fmt.Sprintf("  %-*s", wKind, truncateField(string(f.Kind), wKind)))
		}
		rb.WriteString(fmt.Sprintf("  %-*s", wClass, truncateField(string(f.Classification), wClass)))
		rb.WriteString(fmt.Sprintf("  %-*s", wRec, ShortenMessage(f.Recommendation, wRec)))
		if showSavings {
			rb.WriteString(fmt.Sprintf("  $%.2f", f.PotentialMonthlySavings))
		}
		fmt.Fprintln(w, rb.String())
	}
}

// RenderSummary writes the per-kind totals block below the findings table.
func RenderSummary(w io.Writer, summary *models.DashboardAuditSummary) {
	if summary == nil {
		return
	}

	fmt.Fprintln(w, "SUMMARY")
	for _, kind := range models.AllKinds() {
		res, ok := summary.ByKind[kind]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-12s  %4d resources  %4d findings  %3d errors  $%.2f/mo\n",
			string(kind), res.TotalCount, len(res.Findings), len(res.Errors), res.PotentialMonthlySavings)
	}
	fmt.Fprintf(w, "  total potential savings: $%.2f/mo across %d findings\n",
		summary.TotalPotentialMonthlySavings, len(summary.AllFindings))
}
