package errors

import (
	"fmt"
)

// SemanticErrorBuilder provides a fluent interface for building diagnostics
// raised while decoding, converting or optimizing a function.
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new error builder.
func NewSemanticError(code, message string, loc Location) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Location: loc,
		},
	}
}

// NewSemanticWarning creates a new warning builder.
func NewSemanticWarning(code, message string, loc Location) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Location: loc,
		},
	}
}

// WithRendering attaches a one-line rendering of the offending instruction.
func (b *SemanticErrorBuilder) WithRendering(rendering string) *SemanticErrorBuilder {
	b.err.Location.Rendering = rendering
	return b
}

// WithSuggestion adds a suggestion to the error.
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion carrying replacement text.
func (b *SemanticErrorBuilder) WithReplacement(message, replacement string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
	})
	return b
}

// WithNote adds a note to the error.
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error.
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic.
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// Decode-stage diagnostics

// TruncatedInstruction reports an instruction stream that ended before
// the opcode's operands could be fully read.
func TruncatedInstruction(fn string, offset int, need, have int) CompilerError {
	return NewSemanticError(ErrorTruncatedInstruction,
		fmt.Sprintf("instruction needs %d more byte(s) but only %d remain", need, have),
		Location{Function: fn, Offset: offset}).
		WithNote("the instruction stream for this function is shorter than its declared code size").
		Build()
}

// UnknownOpcode reports an opcode byte with no catalog entry in its namespace.
func UnknownOpcode(fn string, offset int, namespace string, opByte byte) CompilerError {
	return NewSemanticError(ErrorUnknownOpcode,
		fmt.Sprintf("opcode 0x%02x has no entry in the %s namespace", opByte, namespace),
		Location{Function: fn, Offset: offset}).
		WithHelp("the opcode catalog may be missing an entry added by a newer runtime release").
		Build()
}

// InvalidOperand reports an operand value out of range for its kind.
func InvalidOperand(fn string, offset int, kind string, value int) CompilerError {
	return NewSemanticError(ErrorInvalidOperand,
		fmt.Sprintf("%s operand %d is out of range", kind, value),
		Location{Function: fn, Offset: offset}).
		Build()
}

// CFG-stage diagnostics

// JumpTargetOutOfRange reports a branch offset that resolves outside the
// function's instruction range.
func JumpTargetOutOfRange(fn string, offset int, target int) CompilerError {
	return NewSemanticError(ErrorJumpTargetOutOfRange,
		fmt.Sprintf("branch target offset %d falls outside the function body", target),
		Location{Function: fn, Offset: offset}).
		WithNote("the function's instruction stream may be truncated or the offset miscomputed").
		Build()
}

// AmbiguousBranchClassification reports an opcode whose catalog flags do
// not resolve whether it terminates a basic block.
func AmbiguousBranchClassification(fn string, offset int, mnemonic string) CompilerError {
	return NewSemanticWarning(ErrorAmbiguousBranchClassification,
		fmt.Sprintf("opcode %s is not flagged as a branch, fallthrough or terminator", mnemonic),
		Location{Function: fn, Offset: offset}).
		WithSuggestion("treat the instruction as a plain fallthrough and continue the current block").
		Build()
}

// SSA-stage diagnostics

// UnsealedBlockRead reports a register read resolved against a block that
// had not yet received all its predecessors.
func UnsealedBlockRead(fn string, block string, reg int) CompilerError {
	return NewSemanticError(ErrorUnsealedBlockRead,
		fmt.Sprintf("register v%d read in block %q before it was sealed", reg, block),
		Location{Function: fn}).
		WithNote("an incomplete phi was installed and will be finalized once the block seals").
		Build()
}

// AccumulatorNotLoaded reports an instruction consuming the accumulator
// before any predecessor wrote it.
func AccumulatorNotLoaded(fn string, offset int) CompilerError {
	return NewSemanticError(ErrorAccumulatorNotLoaded,
		"accumulator read before it was ever written in this function",
		Location{Function: fn, Offset: offset}).
		WithHelp("the decoder may have misclassified a prior instruction as not writing the accumulator").
		Build()
}

// Pass-pipeline diagnostics

// PassFailed reports a transform pass that returned Result.Failed().
func PassFailed(fn string, passName string, reason string, cause error) CompilerError {
	b := NewSemanticError(ErrorPassFailed,
		fmt.Sprintf("pass %q failed: %s", passName, reason),
		Location{Function: fn})
	if cause != nil {
		b = b.WithNote(cause.Error())
	}
	return b.Build()
}

// VerificationFinding reports a structural invariant violation found by
// Function.Verify().
func VerificationFinding(fn string, message string) CompilerError {
	return NewSemanticWarning(WarningVerification, message, Location{Function: fn}).Build()
}

// DeprecatedOpcodeShimmed reports an opcode with no direct modern
// equivalent that was lowered to a runtime-call shim instead.
func DeprecatedOpcodeShimmed(fn string, offset int, mnemonic, shimName string) CompilerError {
	return NewSemanticWarning(WarningDeprecatedOpcodeShimmed,
		fmt.Sprintf("opcode %s has no direct IR equivalent, lowered as a call to %q", mnemonic, shimName),
		Location{Function: fn, Offset: offset}).
		Build()
}
