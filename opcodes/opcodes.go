// Package opcodes defines the VM's instruction set: the opcode enumeration,
// branch address encoding, and the Instruction type the dispatch loop walks.
package opcodes

// Op enumerates every instruction the dispatch loop understands.
type Op byte

const (
	OpNOP Op = iota

	// Literals and references.
	OpPushFloat
	OpPushInteger
	OpPushString
	OpPushVariable

	// Stack shuffling.
	OpPop
	OpSwap

	// Binding.
	OpAssignment

	// String.
	OpConcat

	// Arithmetic (float).
	OpAdd
	OpMinus
	OpMultiply
	OpDivide

	// Arithmetic (integer).
	OpModulus

	// Bitwise (integer).
	OpBitwiseAnd
	OpBitwiseOr

	// Logical (boolean, strict — both sides always evaluated).
	OpLogicalAnd
	OpLogicalOr

	// Relational (float).
	OpLessThan
	OpGreaterThan
	OpGreaterThanOrEqual

	// Equality (float, after coercion).
	OpEquals
	OpNotEquals

	// Equality (string, byte-exact after coercion).
	OpStringEquals
	OpStringNotEqual

	// Unary.
	OpNot
	OpNegate

	// Control flow.
	OpJump
	OpJumpTrue
	OpJumpFalse

	// Function call boundary.
	OpCallFunction

	// Explicit frame return (SPEC_FULL §5 supplement — the source spec has
	// no Return opcode and relies on falling off the end of the sequence;
	// this is an addition, not a replacement of that behavior).
	OpReturn
)

var names = map[Op]string{
	OpNOP:                "NOP",
	OpPushFloat:          "PushFloat",
	OpPushInteger:        "PushInteger",
	OpPushString:         "PushString",
	OpPushVariable:       "PushVariable",
	OpPop:                "Pop",
	OpSwap:               "Swap",
	OpAssignment:         "Assignment",
	OpConcat:             "Concat",
	OpAdd:                "Add",
	OpMinus:              "Minus",
	OpMultiply:           "Multiply",
	OpDivide:             "Divide",
	OpModulus:            "Modulus",
	OpBitwiseAnd:         "BitwiseAnd",
	OpBitwiseOr:          "BitwiseOr",
	OpLogicalAnd:         "LogicalAnd",
	OpLogicalOr:          "LogicalOr",
	OpLessThan:           "LessThan",
	OpGreaterThan:        "GreaterThan",
	OpGreaterThanOrEqual: "GreaterThanOrEqual",
	OpEquals:             "Equals",
	OpNotEquals:          "NotEquals",
	OpStringEquals:       "StringEquals",
	OpStringNotEqual:     "StringNotEqual",
	OpNot:                "Not",
	OpNegate:             "Negate",
	OpJump:               "Jump",
	OpJumpTrue:           "JumpTrue",
	OpJumpFalse:          "JumpFalse",
	OpCallFunction:       "CallFunction",
	OpReturn:             "Return",
}

// String renders a stable textual name for the opcode, used in error
// messages and as the profiler's bucket key.
func (o Op) String() string {
	if n, ok := names[o]; ok {
		return n
	}
	return "Unknown"
}
