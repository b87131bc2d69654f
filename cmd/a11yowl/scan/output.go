package scan

import (
	"fmt"
	"io"
	"strings"

	"a11yowl/internal/views"
	"a11yowl/pkg/poller"
)

// stageLine is the progress line printed when a scan enters state.
func stageLine(state poller.State) string {
	if state.Terminal() {
		return ""
	}
	for _, s := range views.StageItems(state) {
		if s.Active {
			return "  > " + s.Label
		}
	}
	return ""
}

func printStatus(w io.Writer, v views.StatusView) {
	switch v.Variant {
	case views.VariantResults:
		printResults(w, v.Results)
	case views.VariantProgress:
		fmt.Fprintf(w, "Scan %s is %s (elapsed %s)\n", v.ScanID, v.State, v.Elapsed)
		for _, s := range v.Stages {
			mark := " "
			switch {
			case s.Done:
				mark = "x"
			case s.Active:
				mark = ">"
			}
			fmt.Fprintf(w, "  [%s] %s\n", mark, s.Label)
		}
	default:
		fmt.Fprintf(w, "Scan %s: %s\n", v.ScanID, v.Message)
	}
}

func printResults(w io.Writer, r views.ResultsView) {
	fmt.Fprintf(w, "\n%d %s found on %s\n\n", r.IssuesFound, r.IssuesLabel, r.URL)

	printGauge(w, r.Compliance)
	if r.IncludeAIO {
		printGauge(w, r.AIO)
	}

	if len(r.Issues) > 0 {
		fmt.Fprintln(w, "\nSample issues:")
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  %d. [%s] %s\n", issue.Number, strings.ToUpper(string(issue.Severity)), issue.Title)
			if issue.Description != "" {
				fmt.Fprintf(w, "     %s\n", issue.Description)
			}
			if issue.WCAG != "" {
				fmt.Fprintf(w, "     WCAG %s\n", issue.WCAG)
			}
			if issue.Selector != "" {
				fmt.Fprintf(w, "     %s\n", issue.Selector)
			}
		}
	}
	if r.HiddenCount > 0 {
		fmt.Fprintf(w, "\n%d more %s found. Use --email to get the full report.\n", r.HiddenCount, r.HiddenLabel)
	}

	if l := r.Lawsuit; l != nil {
		fmt.Fprintf(w, "\nEstimated lawsuit exposure: %s\n", l.TotalText)
		fmt.Fprintf(w, "  Settlement:  %s\n", l.SettlementText)
		fmt.Fprintf(w, "  Legal fees:  %s\n", l.LegalFeesText)
		fmt.Fprintf(w, "  Remediation: %s\n", l.RemediationText)
		fmt.Fprintf(w, "  Based on %d compliance issues (~%d critical, ~%d high)\n",
			l.TotalComplianceIssues, l.EstCritical, l.EstHigh)
	}
}

func printGauge(w io.Writer, g views.Gauge) {
	if !g.Available {
		fmt.Fprintf(w, "%-16s n/a\n", g.Label)
		return
	}
	fmt.Fprintf(w, "%-16s %3d/100  %s\n", g.Label, g.Rounded, g.Verdict.Label)
	if g.Context != "" {
		fmt.Fprintf(w, "%-16s %s\n", "", g.Context)
	}
}
