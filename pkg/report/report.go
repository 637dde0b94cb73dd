// Package report renders findings, conversion summaries and the comparison
// table for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lumera-labs/tokenomics-tracker/pkg/compare"
	"github.com/lumera-labs/tokenomics-tracker/pkg/types"
)

var printer = message.NewPrinter(language.English)

// Tokens formats a token count with thousands separators.
func Tokens(n int64) string { return printer.Sprintf("%d", n) }

// Findings prints errors and warnings as enumerated lists, each followed by
// its corrective hint.
func Findings(w io.Writer, r types.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "\nValidation failed with %d error(s):\n\n", len(r.Errors))
		list(w, r.Errors)
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "\n%d warning(s):\n\n", len(r.Warnings))
		list(w, r.Warnings)
	}
}

func list(w io.Writer, findings []types.Finding) {
	for i, f := range findings {
		fmt.Fprintf(w, "  %d. %s\n", i+1, f)
		if f.Hint != "" {
			fmt.Fprintf(w, "     -> %s\n", f.Hint)
		}
	}
}

// Schedule prints the summary of a converted schedule document.
func Schedule(w io.Writer, kind types.ScheduleKind, doc *types.ScheduleDocument) {
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  Project: %s\n", doc.Project)
	total := Tokens(kind.TotalTokens(doc))
	if kind == types.Emission {
		fmt.Fprintf(w, "  Total emission: %s tokens\n", total)
	} else {
		fmt.Fprintf(w, "  Total genesis allocation: %s tokens\n", total)
	}
	if n := len(doc.MonthlySchedule); n > 0 {
		last := doc.MonthlySchedule[n-1]
		if kind == types.Emission {
			fmt.Fprintf(w, "  Emission period: %d months\n", last.Month)
			fmt.Fprintf(w, "  Final emission: %s\n", last.Date)
		} else {
			fmt.Fprintf(w, "  Vesting period: %d months\n", last.Month)
			fmt.Fprintf(w, "  Final unlock: %s\n", last.Date)
		}
	}
}

// Matrix prints one table row per project of the comparison matrix.
func Matrix(w io.Writer, m *types.ComparisonMatrix) {
	premine := 0
	for _, p := range m.Projects {
		if p.HasPremine {
			premine++
		}
	}
	fmt.Fprintf(w, "Found %d projects (%d with premines)\n\n", len(m.Projects), premine)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Project", "Type", "Genesis %", "TGE %", "12mo %", "24mo %", "Full Unlock"})
	for _, p := range m.Projects {
		if p.AllocationType == types.AllocationFairLaunch {
			t.AppendRow(table.Row{p.Name, p.AllocationType, "0%", "-", "-", "-", "N/A (mining)"})
			continue
		}
		genesisPct := 0.0
		if p.TotalGenesisAllocationPct != nil {
			genesisPct = *p.TotalGenesisAllocationPct
		}
		full := "?"
		if p.UnlockMetrics != nil && p.UnlockMetrics.FullUnlockMonth != nil {
			full = fmt.Sprintf("%d months", *p.UnlockMetrics.FullUnlockMonth)
		}
		t.AppendRow(table.Row{
			p.Name,
			p.AllocationType,
			pct(genesisPct),
			pct(p.Milestones[compare.ColumnLabel(0)].LiquidPct),
			pct(p.Milestones[compare.ColumnLabel(12)].LiquidPct),
			pct(p.Milestones[compare.ColumnLabel(24)].LiquidPct),
			full,
		})
	}
	t.Render()
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }
