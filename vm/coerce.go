package vm

import (
	"fmt"

	"github.com/tqscript/tqvm/values"
)

// deref resolves a variable reference against the domain named by ref.Scope
// — the active frame's locals, or the VM's globals. Per spec §4.2 this is
// not an error path: an unbound identifier yields an empty String, unless
// the VM was built WithStrictVariables.
func (v *VM) deref(frame *Frame, ref values.Ref) (values.Value, error) {
	if v.collision != nil {
		if err := v.collision.check(ref.Ident, ref.Name); err != nil {
			return values.Value{}, err
		}
	}

	var (
		val values.Value
		ok  bool
	)
	if ref.Scope == values.ScopeLocal {
		val, ok = frame.getLocal(ref.Ident)
	} else {
		val, ok = v.globals.get(ref.Ident)
	}
	if ok {
		return val, nil
	}
	if v.strictVariables {
		return values.Value{}, fmt.Errorf("%w: %s", ErrVariableNotFound, ref.Name)
	}
	return values.String(""), nil
}

// assign binds val to ref in the domain named by ref.Scope.
func (v *VM) assign(frame *Frame, ref values.Ref, val values.Value) error {
	if v.collision != nil {
		if err := v.collision.check(ref.Ident, ref.Name); err != nil {
			return err
		}
	}
	if ref.Scope == values.ScopeLocal {
		frame.setLocal(ref.Ident, val)
	} else {
		v.globals.set(ref.Ident, val)
	}
	return nil
}

// materialize resolves val to a concrete (non-Reference) value: a Reference
// is dereferenced once, everything else is returned unchanged. Every
// coercion helper below goes through this first, so an operator never has
// to know whether its operand arrived as a literal or as a PushVariable
// reference.
func (v *VM) materialize(frame *Frame, val values.Value) (values.Value, error) {
	if !val.IsReference() {
		return val, nil
	}
	return v.deref(frame, val.Ref())
}

func (v *VM) asFloat(frame *Frame, val values.Value) (float32, error) {
	m, err := v.materialize(frame, val)
	if err != nil {
		return 0, err
	}
	return m.AsFloat(), nil
}

func (v *VM) asInteger(frame *Frame, val values.Value) (int32, error) {
	m, err := v.materialize(frame, val)
	if err != nil {
		return 0, err
	}
	return m.AsInteger(), nil
}

func (v *VM) asBoolean(frame *Frame, val values.Value) (bool, error) {
	m, err := v.materialize(frame, val)
	if err != nil {
		return false, err
	}
	return m.AsBoolean(), nil
}

func (v *VM) asString(frame *Frame, val values.Value) (string, error) {
	m, err := v.materialize(frame, val)
	if err != nil {
		return "", err
	}
	return m.AsString(), nil
}
