package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alguard/alguard/internal/types"
)

func allRules() Config {
	return ParseConfig(map[string]any{
		"objectPrefix":   map[string]any{"requiredPrefix": "TES"},
		"documentation":  map[string]any{"requireXmlDoc": true},
		"formatting":     map[string]any{"braceOnNewLine": true},
		"unusedVariable": map[string]any{"enabled": true},
	})
}

func TestEvaluate_CleanFile(t *testing.T) {
	content := `table 50100 "TES Buffer"
{
    /// <summary>
    /// Runs.
    /// </summary>
    trigger OnInsert()
    var
        Ctr: Integer;
    begin
        Ctr := 1;
    end;
}
`
	assert.Empty(t, Evaluate("src/Buffer.Table.al", content, allRules()))
}

func TestEvaluate_NoConfigNoFindings(t *testing.T) {
	content := "table 50100 \"Customer Buffer\"\n{\nprocedure X(){\nvar\n  A: Integer;\nbegin\nend;\n}\n"
	assert.Empty(t, Evaluate("a.al", content, Config{}))
}

func TestObjectPrefix_Scenario(t *testing.T) {
	cfg := ParseConfig(map[string]any{"objectPrefix": map[string]any{"requiredPrefix": "TES"}})
	fs := Evaluate("src/Buffer.Table.al", "table 50100 \"Customer Buffer\"\n{\n}\n", cfg)
	require.Len(t, fs, 1)
	f := fs[0]
	assert.Equal(t, types.SevMajor, f.Severity)
	assert.Equal(t, ObjectPrefix, f.Rule)
	assert.Equal(t, "src/Buffer.Table.al", f.File)
	assert.Contains(t, f.Message, "Customer Buffer")
	assert.Contains(t, f.Message, "TES")
	assert.Equal(t, "Customer Buffer", f.Subject)
	assert.Equal(t, 1, f.Line)

	assert.Empty(t, Evaluate("a.al", "table 50100 \"TES Customer Buffer\"\n{\n}\n", cfg))
}

func TestObjectPrefix_ApplyTo(t *testing.T) {
	cfg := ParseConfig(map[string]any{"objectPrefix": map[string]any{
		"requiredPrefix": "TES",
		"applyTo":        []any{"Page", "codeunit"},
		"severity":       "blocker",
	}})
	assert.Empty(t, Evaluate("a.al", "table 50100 \"Customer Buffer\"\n{\n}\n", cfg))
	fs := Evaluate("a.al", "page 50100 \"Customer Card\"\n{\n}\n", cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevBlocker, fs[0].Severity)
}

func TestObjectPrefix_IgnoresLeadingComment(t *testing.T) {
	cfg := ParseConfig(map[string]any{"objectPrefix": map[string]any{"requiredPrefix": "TES"}})
	content := "// See page 2 of the design notes\ntable 50100 \"TES Customer Buffer\"\n{\n}\n"
	assert.Empty(t, Evaluate("a.al", content, cfg))

	fs := Evaluate("a.al", strings.Replace(content, "TES Customer", "Customer", 1), cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, "Customer Buffer", fs[0].Subject)
	assert.Equal(t, "table", fs[0].Kind)
	assert.Equal(t, 2, fs[0].Line)
}

func TestXMLDoc_BlockAboveOtherKind(t *testing.T) {
	content := `codeunit 50100 "TES Mgt"
{
    /// <summary>
    /// Runs.
    /// </summary>
    trigger OnRun()
    begin
    end;

    procedure Foo()
    begin
    end;
}
`
	cfg := ParseConfig(map[string]any{"documentation": map[string]any{"requireXmlDoc": true}})
	assert.Empty(t, Evaluate("a.al", content, cfg))
}

func TestXMLDoc_PerOccurrence(t *testing.T) {
	content := `codeunit 50100 "TES Mgt"
{
    trigger OnRun()
    begin
    end;

    /// <summary>
    /// Posts.
    /// </summary>
    procedure Post()
    begin
    end;

    local procedure Post()
    begin
    end;
}
`
	cfg := ParseConfig(map[string]any{"documentation": map[string]any{"requireXmlDoc": true}})
	fs := Evaluate("a.al", content, cfg)
	require.Len(t, fs, 2)
	assert.Equal(t, `Trigger "OnRun" is missing XML documentation`, fs[0].Message)
	assert.Equal(t, 3, fs[0].Line)
	assert.Equal(t, `Procedure "Post" is missing XML documentation`, fs[1].Message)
	assert.Equal(t, 14, fs[1].Line)

	documented := strings.Replace(content, "    trigger OnRun()", "    /// <summary>\n    /// Runs.\n    /// </summary>\n    trigger OnRun()", 1)
	fs = Evaluate("a.al", documented, cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, "Post", fs[0].Subject)
}

func TestBraceOnNewLine_OneFindingPerLine(t *testing.T) {
	content := "procedure A() {\n}\nprocedure B()\n{\n}\nprocedure C() {\n}\n"
	cfg := ParseConfig(map[string]any{"formatting": map[string]any{"braceOnNewLine": true, "severity": "info"}})
	fs := Evaluate("a.al", content, cfg)
	require.Len(t, fs, 2)
	assert.Equal(t, 1, fs[0].Line)
	assert.Equal(t, 6, fs[1].Line)
	assert.Equal(t, types.SevInfo, fs[0].Severity)
}

func TestUnusedVariable(t *testing.T) {
	cfg := ParseConfig(map[string]any{"unusedVariable": map[string]any{"enabled": true}})
	content := "var\n  Ctr: Integer;\nbegin\nend;"
	fs := Evaluate("a.al", content, cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevMinor, fs[0].Severity)
	assert.Equal(t, UnusedVariable, fs[0].Rule)
	assert.Equal(t, "Ctr", fs[0].Subject)
	assert.Equal(t, 2, fs[0].Line)

	used := "var\n  Ctr: Integer;\nbegin\n  Ctr := 2;\nend;"
	assert.Empty(t, Evaluate("a.al", used, cfg))

	// A longer identifier sharing the prefix is not a use.
	prefixed := "var\n  Ctr: Integer;\n  CtrTotal: Integer;\nbegin\n  CtrTotal := 2;\nend;"
	fs = Evaluate("a.al", prefixed, cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, "Ctr", fs[0].Subject)

	// Mentions inside comments count as uses.
	commented := "var\n  Ctr: Integer;\nbegin\n  // Ctr is reserved\nend;"
	assert.Empty(t, Evaluate("a.al", commented, cfg))
}

func TestFindingsFollowRuleOrder(t *testing.T) {
	content := "table 50100 \"Customer Buffer\"\n{\n    procedure Calc() {\n    var\n        Ctr: Integer;\n    begin\n    end;\n}\n"
	fs := Evaluate("a.al", content, allRules())
	var got []string
	for _, f := range fs {
		got = append(got, f.Rule)
	}
	assert.Equal(t, []string{ObjectPrefix, XMLDoc, BraceOnNewLine, UnusedVariable}, got)
}

func TestOnlyAndSkip(t *testing.T) {
	content := "table 50100 \"Customer Buffer\"\n{\n    procedure Calc() {\n    }\n}\n"

	cfg := allRules()
	cfg.Only = []string{XMLDoc}
	fs := Evaluate("a.al", content, cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, XMLDoc, fs[0].Rule)

	cfg = allRules()
	cfg.Skip = []string{XMLDoc, ObjectPrefix}
	fs = Evaluate("a.al", content, cfg)
	require.Len(t, fs, 1)
	assert.Equal(t, BraceOnNewLine, fs[0].Rule)

	cfg = allRules()
	cfg.Only = []string{"noSuchRule"}
	assert.Empty(t, Evaluate("a.al", content, cfg))
}

func TestParseConfig_MalformedDisables(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"prefix not a string", map[string]any{"objectPrefix": map[string]any{"requiredPrefix": 12}}},
		{"empty prefix", map[string]any{"objectPrefix": map[string]any{"requiredPrefix": ""}}},
		{"applyTo wrong type", map[string]any{"objectPrefix": map[string]any{"requiredPrefix": "TES", "applyTo": 3}}},
		{"applyTo mixed list", map[string]any{"objectPrefix": map[string]any{"requiredPrefix": "TES", "applyTo": []any{"table", 4}}}},
		{"severity wrong type", map[string]any{"documentation": map[string]any{"requireXmlDoc": true, "severity": 2}}},
		{"flag as string", map[string]any{"documentation": map[string]any{"requireXmlDoc": "yes"}}},
		{"flag false", map[string]any{"formatting": map[string]any{"braceOnNewLine": false}}},
		{"section not a map", map[string]any{"formatting": true}},
		{"unknown key", map[string]any{"naming": map[string]any{"enabled": true}}},
		{"nil map", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Config{}, ParseConfig(tt.raw))
		})
	}
}

func TestParseConfig_UnknownSeverityKeepsDefault(t *testing.T) {
	cfg := ParseConfig(map[string]any{"formatting": map[string]any{"braceOnNewLine": true, "severity": "critical"}})
	require.NotNil(t, cfg.Formatting)
	assert.Equal(t, types.SevMinor, cfg.Formatting.Severity)
}

func TestParseConfig_FromYAML(t *testing.T) {
	src := `
objectPrefix:
  requiredPrefix: TES
  applyTo: [table, page]
  severity: Major
documentation:
  requireXmlDoc: true
formatting:
  braceOnNewLine: true
  severity: info
unusedVariable:
  enabled: true
`
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	cfg := ParseConfig(raw)
	require.NotNil(t, cfg.ObjectPrefix)
	assert.Equal(t, []string{"table", "page"}, cfg.ObjectPrefix.ApplyTo)
	assert.Equal(t, types.SevMajor, cfg.ObjectPrefix.Severity)
	require.NotNil(t, cfg.Documentation)
	assert.Equal(t, types.SevMajor, cfg.Documentation.Severity)
	require.NotNil(t, cfg.Formatting)
	assert.Equal(t, types.SevInfo, cfg.Formatting.Severity)
	assert.NotNil(t, cfg.UnusedVariable)
}

func TestDescriptors(t *testing.T) {
	assert.Equal(t, []string{ObjectPrefix, XMLDoc, BraceOnNewLine, UnusedVariable}, IDs())
	d, ok := Lookup(XMLDoc)
	require.True(t, ok)
	assert.True(t, d.Fixable)
	_, ok = Lookup("nope")
	assert.False(t, ok)
}
