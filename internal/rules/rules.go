package rules

import "github.com/alguard/alguard/internal/types"

// Rule ids, in evaluation order.
const (
	ObjectPrefix   = "objectPrefix"
	XMLDoc         = "xmlDoc"
	BraceOnNewLine = "braceOnNewLine"
	UnusedVariable = "unusedVariable"
)

// Descriptor documents a rule for listings and SARIF rule metadata.
type Descriptor struct {
	ID              string
	DefaultSeverity types.Severity
	ConfigKeys      string
	Description     string
	Fixable         bool
}

var descriptors = []Descriptor{
	{
		ID:              ObjectPrefix,
		DefaultSeverity: types.SevMajor,
		ConfigKeys:      "objectPrefix.requiredPrefix, objectPrefix.applyTo, objectPrefix.severity",
		Description:     "Object names must start with the configured prefix.",
	},
	{
		ID:              XMLDoc,
		DefaultSeverity: types.SevMajor,
		ConfigKeys:      "documentation.requireXmlDoc, documentation.severity",
		Description:     "Triggers and procedures need a /// documentation block.",
		Fixable:         true,
	},
	{
		ID:              BraceOnNewLine,
		DefaultSeverity: types.SevMinor,
		ConfigKeys:      "formatting.braceOnNewLine, formatting.severity",
		Description:     "An opening brace must not follow a closing parenthesis on the same line.",
		Fixable:         true,
	},
	{
		ID:              UnusedVariable,
		DefaultSeverity: types.SevMinor,
		ConfigKeys:      "unusedVariable.enabled",
		Description:     "Variables declared in the var section must be referenced.",
		Fixable:         true,
	},
}

// Descriptors returns every rule in evaluation order.
func Descriptors() []Descriptor {
	return append([]Descriptor(nil), descriptors...)
}

// IDs returns the rule ids in evaluation order.
func IDs() []string {
	ids := make([]string, len(descriptors))
	for i, d := range descriptors {
		ids[i] = d.ID
	}
	return ids
}

// Lookup returns the descriptor for id.
func Lookup(id string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
