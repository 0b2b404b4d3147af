package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorReporterFormatsTruncatedInstruction(t *testing.T) {
	reporter := NewErrorReporter("app.abc")

	err := TruncatedInstruction("main", 42, 4, 1)
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorTruncatedInstruction+"]")
	assert.Contains(t, formatted, "instruction needs 4 more byte(s)")
	assert.Contains(t, formatted, "app.abc:main @ offset 42")
}

func TestUnknownOpcodeError(t *testing.T) {
	err := UnknownOpcode("main", 10, "ecma", 0xFE)
	assert.Equal(t, ErrorUnknownOpcode, err.Code)
	assert.Contains(t, err.Message, "0xfe")
	assert.Contains(t, err.Message, "ecma")
	assert.Equal(t, "main", err.Location.Function)
	assert.Equal(t, 10, err.Location.Offset)
}

func TestJumpTargetOutOfRangeError(t *testing.T) {
	err := JumpTargetOutOfRange("main", 20, 9999)
	assert.Equal(t, ErrorJumpTargetOutOfRange, err.Code)
	assert.Contains(t, err.Message, "9999")
	assert.Len(t, err.Notes, 1)
}

func TestAmbiguousBranchClassificationIsWarning(t *testing.T) {
	err := AmbiguousBranchClassification("main", 5, "ldobjbyvalue")
	assert.Equal(t, Warning, err.Level)
	assert.Equal(t, ErrorAmbiguousBranchClassification, err.Code)
	assert.True(t, IsWarning(err.Code))
}

func TestPassFailedCarriesCause(t *testing.T) {
	cause := errors.New("divide by zero during constant fold")
	err := PassFailed("main", "constant-folding", "could not evaluate", cause)
	assert.Equal(t, ErrorPassFailed, err.Code)
	assert.Contains(t, err.Message, "constant-folding")
	assert.Len(t, err.Notes, 1)
	assert.Contains(t, err.Notes[0], "divide by zero")
}

func TestDeprecatedOpcodeShimmedIsWarning(t *testing.T) {
	err := DeprecatedOpcodeShimmed("main", 3, "callspread", "__shim_callspread")
	assert.True(t, IsWarning(err.Code))
	assert.Contains(t, err.Message, "__shim_callspread")
}

func TestWarningFormatting(t *testing.T) {
	reporter := NewErrorReporter("app.abc")

	err := VerificationFinding("main", "block \"body\" has no terminator")
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning["+WarningVerification+"]")
	assert.Contains(t, formatted, "no terminator")
}

func TestErrorLevels(t *testing.T) {
	reporter := NewErrorReporter("app.abc")

	errorErr := CompilerError{Level: Error, Message: "test error"}
	warningErr := CompilerError{Level: Warning, Message: "test warning"}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}

func TestSemanticErrorBuilderChaining(t *testing.T) {
	err := NewSemanticError(ErrorInvalidOperand, "register index out of range", Location{Function: "main", Offset: 8}).
		WithSuggestion("check the method's register count").
		WithNote("register indices are assigned at decode time").
		WithHelp("verify the function's declared register count matches the bytecode").
		Build()

	assert.Equal(t, ErrorInvalidOperand, err.Code)
	assert.Len(t, err.Suggestions, 1)
	assert.Len(t, err.Notes, 1)
	assert.NotEmpty(t, err.HelpText)
}

func TestErrorCategoryBanding(t *testing.T) {
	assert.Equal(t, "Decode", GetErrorCategory(ErrorTruncatedInstruction))
	assert.Equal(t, "CFG", GetErrorCategory(ErrorJumpTargetOutOfRange))
	assert.Equal(t, "SSA Construction", GetErrorCategory(ErrorUnsealedBlockRead))
	assert.Equal(t, "Pass Pipeline", GetErrorCategory(ErrorPassFailed))
	assert.Equal(t, "Warning", GetErrorCategory(WarningVerification))
}
