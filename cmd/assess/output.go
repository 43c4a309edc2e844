package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/flight-risk-service/internal/adapter/chart"
	"github.com/couchcryptid/flight-risk-service/internal/adapter/riskapi"
	"github.com/couchcryptid/flight-risk-service/internal/domain"
)

func writeReport(w io.Writer, format string, report domain.Report) error {
	switch format {
	case "json":
		return encodeJSON(w, report)
	case "text", "":
		return writeReportText(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeReportText(w io.Writer, report domain.Report) error {
	a := report.Assessment
	var b strings.Builder

	fmt.Fprintf(&b, "\nOverall Risk Score: %d\n", a.Score)
	fmt.Fprintf(&b, "Risk Level: %s\n", strings.ToUpper(string(a.Level)))
	b.WriteString("\nFactor-wise Risk Assessment:\n")
	for _, f := range a.Factors() {
		fmt.Fprintf(&b, "\n%s:\n", chart.Capitalize(string(f.Name)))
		fmt.Fprintf(&b, "  Value: %g\n", f.Value)
		fmt.Fprintf(&b, "  Risk: %s\n", chart.Percent(f.Risk))
		fmt.Fprintf(&b, "  Weight: %s\n", chart.Percent(f.Weight))
		fmt.Fprintf(&b, "  Description: %s\n", f.Description)
	}

	if len(report.Rules) > 0 {
		b.WriteString("\nApplied Rules:\n")
		for _, r := range report.Rules {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(string(r.Level)), r.Factor, r.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFactors(w io.Writer, format string, rows []riskapi.FactorInfo) error {
	switch format {
	case "json":
		return encodeJSON(w, map[string]any{"factors": rows})
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FACTOR\tWEIGHT\tLOW\tMEDIUM\tHIGH\tDESCRIPTION")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\t%s\t%s\n",
			r.Name, r.Weight,
			formatTriangle(r.Sets["low"]), formatTriangle(r.Sets["medium"]), formatTriangle(r.Sets["high"]),
			r.Description)
	}
	return tw.Flush()
}

func formatTriangle(t domain.Triangle) string {
	return fmt.Sprintf("(%g, %g, %g)", t.A, t.B, t.C)
}
