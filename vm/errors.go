package vm

import (
	"errors"
	"fmt"

	"github.com/tqscript/tqvm/opcodes"
)

// Sentinel errors. Kept small and specific, in the teacher's vm/errors.go
// style, so callers can errors.Is against a stable base error regardless of
// the message text wrapped around it.
var (
	ErrStackUnderflow     = errors.New("operand stack underflow")
	ErrInvalidOperandType = errors.New("invalid operand type")
	ErrFunctionNotFound   = errors.New("function not found")
	ErrNamespaceNotFound  = errors.New("namespace not found")
	ErrInvalidNegate      = errors.New("operand does not support negation")
	ErrVariableNotFound   = errors.New("variable not found")
	ErrIdentifierCollision = errors.New("identifier hash collision")
)

// VMError decorates a sentinel error with the opcode and instruction pointer
// active when it was raised, mirroring the teacher's VMError/DecorateError
// pair without carrying a *Frame pointer (this engine's Frame has no
// function-name field to report; the IP and opcode already identify the
// failing instruction within the sequence passed to Interpret).
type VMError struct {
	Err    error
	Opcode opcodes.Op
	IP     int
}

func (e *VMError) Error() string {
	return fmt.Sprintf("vm: %s at ip=%d (%s)", e.Err.Error(), e.IP, e.Opcode)
}

func (e *VMError) Unwrap() error { return e.Err }

func (e *VMError) Is(target error) bool { return errors.Is(e.Err, target) }

func wrapErr(err error, op opcodes.Op, ip int) error {
	if err == nil {
		return nil
	}
	return &VMError{Err: err, Opcode: op, IP: ip}
}
