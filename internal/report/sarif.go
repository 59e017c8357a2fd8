package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/alguard/alguard/internal/rules"
	"github.com/alguard/alguard/internal/types"
)

const informationURI = "https://github.com/alguard/alguard"

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevBlocker, types.SevMajor:
		return "error"
	case types.SevMinor:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0. Every known rule is listed in
// the driver so results can be linked even when a rule produced nothing.
func WriteSARIF(w io.Writer, findings []types.Finding, toolVersion string) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create SARIF report: %w", err)
	}
	run := sarif.NewRunWithInformationURI("alguard", informationURI)
	if toolVersion != "" {
		run.Tool.Driver.Version = &toolVersion
	}
	for _, d := range rules.Descriptors() {
		run.AddRule(d.ID).
			WithDescription(d.Description).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: sevToLevel(d.DefaultSeverity)})
	}
	for _, f := range findings {
		rule := run.AddRule(f.Rule)
		phys := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File))
		if f.Line > 0 {
			phys = phys.WithRegion(sarif.NewRegion().WithStartLine(f.Line))
		}
		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(sevToLevel(f.Severity)).
			WithLocations([]*sarif.Location{sarif.NewLocation().WithPhysicalLocation(phys)})
		run.AddResult(result)
	}
	doc.AddRun(run)
	return doc.PrettyWrite(w)
}
