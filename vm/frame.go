package vm

import (
	"github.com/google/uuid"

	"github.com/tqscript/tqvm/opcodes"
	"github.com/tqscript/tqvm/values"
)

// Frame is one stack frame: an operand stack and a frame-local binding
// table. Locals are owned exclusively by the frame that created them and
// are never shared with any other frame or goroutine, so they need no lock
// in either deployment mode (spec §5/§6) — this is an implementation fact,
// not a configuration choice.
type Frame struct {
	// ID is a per-activation identifier. The profiler keys its per-frame
	// instruction counts by it (see FrameActivations), so a host running
	// several concurrent Interpret calls (shared mode) can match a
	// GetPerformanceReport line back to the activation that produced it.
	ID uuid.UUID

	instructions []opcodes.Instruction
	ip           int

	stack  []values.Value
	locals map[uint64]values.Value
}

// newFrame constructs a fresh frame ready to execute instructions from ip 0
// with an empty operand stack and empty local bindings.
func newFrame(instructions []opcodes.Instruction) *Frame {
	return &Frame{
		ID:           uuid.New(),
		instructions: instructions,
		stack:        make([]values.Value, 0, 8),
		locals:       make(map[uint64]values.Value),
	}
}

func (f *Frame) push(v values.Value) {
	f.stack = append(f.stack, v)
}

// pop removes and returns the top of the operand stack. In checked mode an
// empty stack yields ErrStackUnderflow; in unchecked mode (vm.WithUncheckedStack)
// the caller has asserted the compiled sequence never underflows, and an
// empty stack indexes out of range and panics, exactly as a raw slice access
// would — this engine does not paper over a malformed program once the
// caller opted out of the check.
func (f *Frame) pop(checked bool) (values.Value, error) {
	if len(f.stack) == 0 {
		if checked {
			return values.Value{}, ErrStackUnderflow
		}
		return f.stack[len(f.stack)-1], nil
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, nil
}

// swap exchanges the top two operand stack slots in place (the OpSwap
// stopgap spec §9 notes the source uses in place of a general-purpose Dup).
func (f *Frame) swap(checked bool) error {
	if len(f.stack) < 2 {
		if checked {
			return ErrStackUnderflow
		}
		// Let it panic on the out-of-bounds index below, same convention as pop.
	}
	n := len(f.stack)
	f.stack[n-1], f.stack[n-2] = f.stack[n-2], f.stack[n-1]
	return nil
}

func (f *Frame) getLocal(ident uint64) (values.Value, bool) {
	v, ok := f.locals[ident]
	return v, ok
}

func (f *Frame) setLocal(ident uint64, v values.Value) {
	f.locals[ident] = v
}
