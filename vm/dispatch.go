package vm

import (
	"fmt"

	"github.com/tqscript/tqvm/opcodes"
	"github.com/tqscript/tqvm/registry"
	"github.com/tqscript/tqvm/values"
)

// exec executes a single instruction against frame. result and halt are
// only meaningful when halt is true, signaling that frame has finished
// (an explicit Return) and the dispatch loop should return result to
// frame's caller.
func (v *VM) exec(frame *Frame, inst opcodes.Instruction) (result values.Value, halt bool, err error) {
	checked := !v.uncheckedStack

	switch inst.Op {
	case opcodes.OpNOP:
		// no-op

	case opcodes.OpPushFloat:
		frame.push(values.Float(inst.Float))
	case opcodes.OpPushInteger:
		frame.push(values.Integer(inst.Int))
	case opcodes.OpPushString:
		frame.push(values.String(inst.Str))
	case opcodes.OpPushVariable:
		frame.push(values.Reference(inst.Var))

	case opcodes.OpPop:
		if _, err = frame.pop(checked); err != nil {
			return
		}
	case opcodes.OpSwap:
		err = frame.swap(checked)

	case opcodes.OpAssignment:
		err = v.execAssignment(frame, checked)

	case opcodes.OpConcat:
		err = v.execBinaryString(frame, checked, func(lhs, rhs string) values.Value {
			return values.String(lhs + rhs)
		})

	case opcodes.OpAdd:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Float(lhs + rhs)
		})
	case opcodes.OpMinus:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Float(lhs - rhs)
		})
	case opcodes.OpMultiply:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Float(lhs * rhs)
		})
	case opcodes.OpDivide:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Float(lhs / rhs)
		})

	case opcodes.OpModulus:
		// Deliberately unguarded: a zero divisor panics exactly as Go's own
		// int32 % operator does. This mirrors the original's own integer
		// semantics rather than turning it into a recoverable VM error.
		err = v.execBinaryInteger(frame, checked, func(lhs, rhs int32) values.Value {
			return values.Integer(lhs % rhs)
		})

	case opcodes.OpBitwiseAnd:
		err = v.execBinaryInteger(frame, checked, func(lhs, rhs int32) values.Value {
			return values.Integer(lhs & rhs)
		})
	case opcodes.OpBitwiseOr:
		err = v.execBinaryInteger(frame, checked, func(lhs, rhs int32) values.Value {
			return values.Integer(lhs | rhs)
		})

	case opcodes.OpLogicalAnd:
		err = v.execBinaryBoolean(frame, checked, func(lhs, rhs bool) values.Value {
			return values.Boolean(lhs && rhs)
		})
	case opcodes.OpLogicalOr:
		err = v.execBinaryBoolean(frame, checked, func(lhs, rhs bool) values.Value {
			return values.Boolean(lhs || rhs)
		})

	case opcodes.OpLessThan:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Boolean(lhs < rhs)
		})
	case opcodes.OpGreaterThan:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Boolean(lhs > rhs)
		})
	case opcodes.OpGreaterThanOrEqual:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Boolean(lhs >= rhs)
		})

	case opcodes.OpEquals:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Boolean(lhs == rhs)
		})
	case opcodes.OpNotEquals:
		err = v.execBinaryFloat(frame, checked, func(lhs, rhs float32) values.Value {
			return values.Boolean(lhs != rhs)
		})

	case opcodes.OpStringEquals:
		err = v.execBinaryString(frame, checked, func(lhs, rhs string) values.Value {
			return values.Boolean(lhs == rhs)
		})
	case opcodes.OpStringNotEqual:
		err = v.execBinaryString(frame, checked, func(lhs, rhs string) values.Value {
			return values.Boolean(lhs != rhs)
		})

	case opcodes.OpNot:
		err = v.execUnaryBoolean(frame, checked, func(b bool) values.Value {
			return values.Boolean(!b)
		})
	case opcodes.OpNegate:
		err = v.execNegate(frame, checked)

	case opcodes.OpJump:
		frame.ip = inst.Addr.Resolve(frame.ip)
	case opcodes.OpJumpTrue:
		err = v.execConditionalJump(frame, checked, inst.Addr, true)
	case opcodes.OpJumpFalse:
		err = v.execConditionalJump(frame, checked, inst.Addr, false)

	case opcodes.OpCallFunction:
		err = v.execCallFunction(frame, inst.Path)

	case opcodes.OpReturn:
		result, err = v.execReturn(frame, checked)
		if err == nil {
			halt = true
		}

	default:
		err = fmt.Errorf("%w: op %s", ErrInvalidOperandType, inst.Op)
	}

	return
}

// popBinary pops the top two operand stack slots in the engine's
// LHS-first-pop convention: the value popped first is the left-hand
// operand, the value popped second is the right-hand operand — the
// opposite of the push order a left-to-right compiler would naturally
// emit, and pinned exactly this way by the original implementation's
// Assignment/Concat semantics.
func (v *VM) popBinary(frame *Frame, checked bool) (lhs, rhs values.Value, err error) {
	if lhs, err = frame.pop(checked); err != nil {
		return
	}
	rhs, err = frame.pop(checked)
	return
}

func (v *VM) execBinaryFloat(frame *Frame, checked bool, combine func(lhs, rhs float32) values.Value) error {
	lhs, rhs, err := v.popBinary(frame, checked)
	if err != nil {
		return err
	}
	lhsF, err := v.asFloat(frame, lhs)
	if err != nil {
		return err
	}
	rhsF, err := v.asFloat(frame, rhs)
	if err != nil {
		return err
	}
	frame.push(combine(lhsF, rhsF))
	return nil
}

func (v *VM) execBinaryInteger(frame *Frame, checked bool, combine func(lhs, rhs int32) values.Value) error {
	lhs, rhs, err := v.popBinary(frame, checked)
	if err != nil {
		return err
	}
	lhsI, err := v.asInteger(frame, lhs)
	if err != nil {
		return err
	}
	rhsI, err := v.asInteger(frame, rhs)
	if err != nil {
		return err
	}
	frame.push(combine(lhsI, rhsI))
	return nil
}

func (v *VM) execBinaryBoolean(frame *Frame, checked bool, combine func(lhs, rhs bool) values.Value) error {
	lhs, rhs, err := v.popBinary(frame, checked)
	if err != nil {
		return err
	}
	lhsB, err := v.asBoolean(frame, lhs)
	if err != nil {
		return err
	}
	rhsB, err := v.asBoolean(frame, rhs)
	if err != nil {
		return err
	}
	frame.push(combine(lhsB, rhsB))
	return nil
}

func (v *VM) execBinaryString(frame *Frame, checked bool, combine func(lhs, rhs string) values.Value) error {
	lhs, rhs, err := v.popBinary(frame, checked)
	if err != nil {
		return err
	}
	lhsS, err := v.asString(frame, lhs)
	if err != nil {
		return err
	}
	rhsS, err := v.asString(frame, rhs)
	if err != nil {
		return err
	}
	frame.push(combine(lhsS, rhsS))
	return nil
}

func (v *VM) execUnaryBoolean(frame *Frame, checked bool, combine func(b bool) values.Value) error {
	operand, err := frame.pop(checked)
	if err != nil {
		return err
	}
	b, err := v.asBoolean(frame, operand)
	if err != nil {
		return err
	}
	frame.push(combine(b))
	return nil
}

func (v *VM) execNegate(frame *Frame, checked bool) error {
	operand, err := frame.pop(checked)
	if err != nil {
		return err
	}
	m, err := v.materialize(frame, operand)
	if err != nil {
		return err
	}
	negated, ok := m.Negate()
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidNegate, m.Kind)
	}
	frame.push(negated)
	return nil
}

// execAssignment pops the reference first (LHS), then the value to assign
// (RHS), binds it, and pushes the assigned value back — an assignment is
// itself an expression yielding the value it assigned.
func (v *VM) execAssignment(frame *Frame, checked bool) error {
	lhs, rhs, err := v.popBinary(frame, checked)
	if err != nil {
		return err
	}
	if !lhs.IsReference() {
		return fmt.Errorf("%w: assignment target is %s, not a reference", ErrInvalidOperandType, lhs.Kind)
	}
	resolved, err := v.materialize(frame, rhs)
	if err != nil {
		return err
	}
	if err := v.assign(frame, lhs.Ref(), resolved); err != nil {
		return err
	}
	frame.push(resolved)
	return nil
}

func (v *VM) execConditionalJump(frame *Frame, checked bool, addr opcodes.Address, on bool) error {
	operand, err := frame.pop(checked)
	if err != nil {
		return err
	}
	b, err := v.asBoolean(frame, operand)
	if err != nil {
		return err
	}
	if b == on {
		frame.ip = addr.Resolve(frame.ip)
	}
	return nil
}

// execReturn implements the Return opcode (SPEC_FULL §5 supplement): pop
// zero or one value from frame's own stack, materializing a Reference
// before it escapes the frame that owns the binding it names.
func (v *VM) execReturn(frame *Frame, checked bool) (values.Value, error) {
	if len(frame.stack) == 0 {
		return values.String(""), nil
	}
	top, err := frame.pop(checked)
	if err != nil {
		return values.Value{}, err
	}
	return v.materialize(frame, top)
}

// execCallFunction resolves path and invokes it. A native function is
// handed the caller's own frame to manipulate directly; a virtual function
// runs in a fresh frame and its return value is pushed onto the caller's
// stack. Per spec §4.3 the opcode itself pops and pushes nothing beyond
// that: argument/result passing is entirely what the resolved function does
// with the frame(s) it is given.
func (v *VM) execCallFunction(frame *Frame, path []string) error {
	fn, err := v.lookupFunction(path)
	if err != nil {
		return err
	}
	switch fn.Kind {
	case registry.FunctionNative:
		native, ok := fn.Native.(NativeFunc)
		if !ok {
			return fmt.Errorf("%w: %v has a malformed native binding", ErrFunctionNotFound, path)
		}
		return native(v, frame)
	case registry.FunctionVirtual:
		callee := newFrame(fn.Instructions)
		result, err := v.execFrame(callee)
		if err != nil {
			return err
		}
		frame.push(result)
		return nil
	default:
		return fmt.Errorf("%w: unknown function kind for %v", ErrFunctionNotFound, path)
	}
}
