package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a diagnostic.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Location pinpoints a diagnostic within a decompiled function: the
// function it belongs to, the byte offset of the instruction that
// triggered it within the original method body, and an optional
// one-line rendering of that instruction for display (the decompiler
// has no source text to show context lines from, unlike a
// source-language compiler's line/column).
type Location struct {
	Function  string
	Offset    int
	Rendering string
}

// CompilerError represents a structured diagnostic with suggestions and context.
type CompilerError struct {
	Level       ErrorLevel
	Code        string // Error code like E0900
	Message     string // Primary error message
	Location    Location
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Suggestion represents a suggested fix.
type Suggestion struct {
	Message     string
	Replacement string
}

// ErrorReporter formats diagnostics raised while decoding, converting or
// optimizing a single function.
type ErrorReporter struct {
	source string // the ABC file path or identifier being processed
}

// NewErrorReporter creates a reporter for the named input.
func NewErrorReporter(source string) *ErrorReporter {
	return &ErrorReporter{source: source}
}

// FormatError formats a CompilerError with Rust-like styling.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	loc := err.Location
	fnName := loc.Function
	if fnName == "" {
		fnName = "<unknown function>"
	}
	result.WriteString(fmt.Sprintf("  %s %s:%s @ offset %d\n",
		dim("-->"), er.source, fnName, loc.Offset))

	if loc.Rendering != "" {
		result.WriteString(fmt.Sprintf("   %s %s\n", dim("│"), bold(loc.Rendering)))
	}

	for i, s := range err.Suggestions {
		suggestionColor := color.New(color.FgCyan).SprintFunc()
		if i == 0 {
			result.WriteString(fmt.Sprintf("   %s %s: %s\n", suggestionColor("help"), suggestionColor("try"), s.Message))
		} else {
			result.WriteString(fmt.Sprintf("        %s\n", s.Message))
		}
		if s.Replacement != "" {
			result.WriteString(fmt.Sprintf("   %s %s\n", dim("│"), suggestionColor(s.Replacement)))
		}
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("   %s %s %s\n", dim("│"), noteColor("note:"), note))
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("   %s %s %s\n", dim("│"), helpColor("help:"), err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}
