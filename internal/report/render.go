package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/alguard/alguard/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	CacheHits    int
}

var (
	sevBlockerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevMajorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevMinorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	sevInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const noFindings = "No issues found ✅"

// sorted returns findings ordered by file then line; rule order is kept
// within a line.
func sorted(findings []types.Finding) []types.Finding {
	out := append([]types.Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File == out[j].File {
			return out[i].Line < out[j].Line
		}
		return out[i].File < out[j].File
	})
	return out
}

// PrintText writes one line per finding.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	findings = sorted(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, noFindings)
	} else {
		maxRule := 8
		for _, f := range findings {
			if l := len(f.Rule); l > maxRule {
				maxRule = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			sev := fmt.Sprintf("%-7s", f.Severity)
			if !opts.NoColor {
				sev = colorSeverity(f.Severity, sev)
			}
			fmt.Fprintf(w, "%s %-*s %s  %s\n", sev, maxRule, f.Rule, location(f), f.Message)
		}
	}
	printFooter(w, findings, opts)
}

// PrintTable renders findings as a bordered table.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	findings = sorted(findings)
	if len(findings) == 0 {
		fmt.Fprintln(w, noFindings)
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "RULE", "FILE", "LINE", "MESSAGE")
		for _, f := range findings {
			sev := string(f.Severity)
			if !opts.NoColor {
				sev = colorSeverity(f.Severity, sev)
			}
			line := ""
			if f.Line > 0 {
				line = strconv.Itoa(f.Line)
			}
			_ = table.Append([]string{sev, f.Rule, f.File, line, f.Message})
		}
		_ = table.Render()
	}
	printFooter(w, findings, opts)
}

// WriteJSON writes findings as an indented JSON array.
func WriteJSON(w io.Writer, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

func location(f types.Finding) string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	counts := map[types.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (blocker: %d, major: %d, minor: %d, info: %d)\n", len(findings),
		counts[types.SevBlocker], counts[types.SevMajor], counts[types.SevMinor], counts[types.SevInfo])
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
	if opts.CacheHits > 0 {
		fmt.Fprintf(w, "Cache hits: %d\n", opts.CacheHits)
	}
}

func colorSeverity(s types.Severity, text string) string {
	switch s {
	case types.SevBlocker:
		return sevBlockerStyle.Render(text)
	case types.SevMajor:
		return sevMajorStyle.Render(text)
	case types.SevMinor:
		return sevMinorStyle.Render(text)
	default:
		return sevInfoStyle.Render(text)
	}
}
