package errors

// Error codes for the ABC decompiler core.
// These codes are used in diagnostics to provide consistent error
// identification across decode, CFG, SSA construction and the pass
// pipeline.
//
// Error code ranges:
// E0900-E0929: Decode errors (malformed/truncated instruction stream)
// E0930-E0949: CFG construction errors
// E0950-E0969: SSA construction errors
// E0970-E0989: Pass pipeline failures
// E0990-E0999: Reserved for tooling errors
// W0900-W0999: Warnings (verification findings, deprecated-opcode shims)

const (
	// E0900: the instruction stream ended mid-instruction
	ErrorTruncatedInstruction = "E0900"

	// E0901: the opcode byte (or prefixed opcode pair) has no catalog entry
	ErrorUnknownOpcode = "E0901"

	// E0902: an operand value is out of range for its kind (bad register
	// index, bad string/method/type/field pool id, bad literal-array id)
	ErrorInvalidOperand = "E0902"

	// E0930: a jump offset resolves outside the function's byte range
	ErrorJumpTargetOutOfRange = "E0930"

	// W0931: a conditional/unconditional branch classification is
	// ambiguous after consulting the catalog flags
	ErrorAmbiguousBranchClassification = "W0931"

	// E0950: a register was read from a block that was never sealed
	ErrorUnsealedBlockRead = "E0950"

	// E0951: the accumulator was read before any instruction wrote it
	ErrorAccumulatorNotLoaded = "E0951"

	// E0970: a transform pass reported Result.Failed()
	ErrorPassFailed = "E0970"

	// W0900: a Function.Verify() structural warning
	WarningVerification = "W0900"

	// W0901: a deprecated opcode was lowered to an ir.OpCallRuntime shim
	// because it has no direct modern equivalent
	WarningDeprecatedOpcodeShimmed = "W0901"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorTruncatedInstruction:
		return "instruction stream ended before the current instruction could be fully decoded"
	case ErrorUnknownOpcode:
		return "opcode byte has no entry in the catalog for its namespace"
	case ErrorInvalidOperand:
		return "operand value is out of range for its kind"
	case ErrorJumpTargetOutOfRange:
		return "branch offset resolves outside the function's instruction range"
	case ErrorAmbiguousBranchClassification:
		return "catalog flags do not resolve whether this opcode is a branch"
	case ErrorUnsealedBlockRead:
		return "register read from a block before all its predecessors were known"
	case ErrorAccumulatorNotLoaded:
		return "instruction consumes the accumulator before any prior instruction wrote it"
	case ErrorPassFailed:
		return "a transform pass could not complete; changes it made before failing are kept"
	case WarningVerification:
		return "a structural invariant does not hold for this function"
	case WarningDeprecatedOpcodeShimmed:
		return "deprecated opcode has no modern equivalent and was shimmed as a runtime call"
	default:
		return "unknown error code"
	}
}

// IsWarning reports whether code represents a warning rather than an error.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code.
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0900" && code < "E0930":
		return "Decode"
	case code >= "E0930" && code < "E0950":
		return "CFG"
	case code >= "E0950" && code < "E0970":
		return "SSA Construction"
	case code >= "E0970" && code < "E0990":
		return "Pass Pipeline"
	case len(code) > 0 && code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
