package opcodes

import "github.com/tqscript/tqvm/values"

// Instruction is one unit of the instruction sequence the dispatch loop
// walks. Only the fields relevant to Op are populated; the rest are zero
// values. Unlike a register-file VM, literal operands are carried inline on
// the instruction rather than indexing a separate constant pool — the core
// spec has no constant-pool component, so PushFloat/PushInteger/PushString
// simply embed their literal.
type Instruction struct {
	Op Op

	// PushFloat literal carrier. Unused elsewhere.
	Float float32
	// PushInteger literal carrier.
	Int int32
	// PushString literal carrier.
	Str string
	// PushVariable operand.
	Var values.Ref
	// Jump / JumpTrue / JumpFalse target.
	Addr Address
	// CallFunction namespace path, most-specific element last.
	Path []string
}

func NOP() Instruction { return Instruction{Op: OpNOP} }

func PushFloat(v float32) Instruction { return Instruction{Op: OpPushFloat, Float: v} }

func PushInteger(v int32) Instruction { return Instruction{Op: OpPushInteger, Int: v} }

func PushString(v string) Instruction { return Instruction{Op: OpPushString, Str: v} }

func PushVariable(ref values.Ref) Instruction { return Instruction{Op: OpPushVariable, Var: ref} }

func Pop() Instruction  { return Instruction{Op: OpPop} }
func Swap() Instruction { return Instruction{Op: OpSwap} }

func Assignment() Instruction     { return Instruction{Op: OpAssignment} }
func Concat() Instruction         { return Instruction{Op: OpConcat} }
func Add() Instruction            { return Instruction{Op: OpAdd} }
func Minus() Instruction          { return Instruction{Op: OpMinus} }
func Multiply() Instruction       { return Instruction{Op: OpMultiply} }
func Divide() Instruction         { return Instruction{Op: OpDivide} }
func Modulus() Instruction        { return Instruction{Op: OpModulus} }
func BitwiseAnd() Instruction     { return Instruction{Op: OpBitwiseAnd} }
func BitwiseOr() Instruction      { return Instruction{Op: OpBitwiseOr} }
func LogicalAnd() Instruction     { return Instruction{Op: OpLogicalAnd} }
func LogicalOr() Instruction      { return Instruction{Op: OpLogicalOr} }
func LessThan() Instruction       { return Instruction{Op: OpLessThan} }
func GreaterThan() Instruction    { return Instruction{Op: OpGreaterThan} }
func GreaterThanOrEqual() Instruction {
	return Instruction{Op: OpGreaterThanOrEqual}
}
func Equals() Instruction           { return Instruction{Op: OpEquals} }
func NotEquals() Instruction        { return Instruction{Op: OpNotEquals} }
func StringEquals() Instruction     { return Instruction{Op: OpStringEquals} }
func StringNotEqual() Instruction   { return Instruction{Op: OpStringNotEqual} }
func Not() Instruction              { return Instruction{Op: OpNot} }
func Negate() Instruction           { return Instruction{Op: OpNegate} }
func Return() Instruction           { return Instruction{Op: OpReturn} }

func Jump(addr Address) Instruction      { return Instruction{Op: OpJump, Addr: addr} }
func JumpTrue(addr Address) Instruction  { return Instruction{Op: OpJumpTrue, Addr: addr} }
func JumpFalse(addr Address) Instruction { return Instruction{Op: OpJumpFalse, Addr: addr} }

func CallFunction(path ...string) Instruction {
	return Instruction{Op: OpCallFunction, Path: path}
}
