// Package rules evaluates the configured review rules against one file.
//
// Rules run in a fixed order (objectPrefix, xmlDoc, braceOnNewLine,
// unusedVariable) and each runs only when its configuration section is
// present and well-formed. Evaluate is a pure function of its inputs.
package rules
