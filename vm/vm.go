// Package vm implements the dispatch loop: the VM type, its stack frames,
// the instruction executor, and the host/native function-call boundary.
package vm

import (
	"fmt"
	"sync"

	"github.com/tqscript/tqvm/opcodes"
	"github.com/tqscript/tqvm/registry"
	"github.com/tqscript/tqvm/values"
)

// NativeFunc is a host-provided callable. It receives the VM and the
// caller's current frame — the same frame CallFunction left untouched — and
// is free to pop its own arguments and push its own result against that
// frame's operand stack. A non-nil error aborts the in-flight Interpret
// call, same as a malformed-stack error.
type NativeFunc func(vm *VM, frame *Frame) error

// VM is one instance of the engine: a namespace tree rooted at "", a
// function-lookup cache, VM-global bindings, and an opaque host state a
// native binding can recover with a type assertion.
type VM struct {
	appState any

	root  *registry.Namespace
	cache *registry.FunctionCache
	nsMu  sync.RWMutex // guards root and cache together; only taken when shared

	globals globalStore

	shared          bool
	uncheckedStack  bool
	strictVariables bool

	collision *collisionTable
	prof      *profiler
}

// New constructs a VM. appState is an opaque value a native binding can
// recover later via AppState — the generic-free analogue of the teacher's
// BuiltinCallContext seam, used here to avoid an import cycle between
// package vm and package registry (registry.Function.Native is declared as
// `any` for the same reason).
func New(appState any, opts ...Option) *VM {
	v := &VM{
		appState: appState,
		root:     registry.NewNamespace(""),
		cache:    registry.NewFunctionCache(),
		globals:  newPlainGlobalStore(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AppState returns the opaque host state passed to New.
func (v *VM) AppState() any { return v.appState }

// RegisterNative registers fn at path with the given declared parameter
// names (metadata only — a NativeFunc binds its own arguments).
func (v *VM) RegisterNative(path []string, params []string, fn NativeFunc) error {
	if fn == nil {
		return fmt.Errorf("vm: nil native function")
	}
	f := &registry.Function{
		Kind:       registry.FunctionNative,
		Parameters: params,
		Native:     fn,
	}
	if len(path) > 0 {
		f.Name = path[len(path)-1]
	}
	return v.register(path, f)
}

// RegisterVirtual registers a script-defined function at path: an owned
// instruction sequence plus declared parameter names. Per spec §5, a fresh
// call frame for this function starts with empty locals — binding its
// parameters from wherever the caller stashed arguments is the compiler's
// job, not this engine's.
func (v *VM) RegisterVirtual(path []string, params []string, instructions []opcodes.Instruction) error {
	f := &registry.Function{
		Kind:         registry.FunctionVirtual,
		Parameters:   params,
		Instructions: instructions,
	}
	if len(path) > 0 {
		f.Name = path[len(path)-1]
	}
	return v.register(path, f)
}

func (v *VM) register(path []string, f *registry.Function) error {
	if len(path) == 0 {
		return fmt.Errorf("vm: empty function path")
	}
	if v.shared {
		v.nsMu.Lock()
		defer v.nsMu.Unlock()
	}
	if err := v.root.RegisterFunction(path, f); err != nil {
		return err
	}
	// Any registration can shadow a previously cached resolution along this
	// or any other path, so the whole cache is invalidated rather than just
	// this one entry (registry.FunctionCache.Invalidate's documented policy).
	v.cache.Invalidate()
	return nil
}

// lookupFunction resolves path via the cache, falling back to a namespace
// walk on a miss. In shared mode a cache hit — the steady-state case once a
// program's call sites have been resolved once — only takes the reader
// lock, matching spec §5's "reader lock for reads, writer lock for writes";
// only the cache-populating walk on a miss needs the writer lock.
func (v *VM) lookupFunction(path []string) (*registry.Function, error) {
	if v.shared {
		v.nsMu.RLock()
		fn, ok := v.cache.Get(path)
		v.nsMu.RUnlock()
		if ok {
			return fn, nil
		}
		v.nsMu.Lock()
		defer v.nsMu.Unlock()
		// Another goroutine may have populated the cache while this one
		// waited for the writer lock.
		if fn, ok := v.cache.Get(path); ok {
			return fn, nil
		}
		fn, err := v.root.LookupFunction(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFunctionNotFound, err)
		}
		v.cache.Put(path, fn)
		return fn, nil
	}
	if fn, ok := v.cache.Get(path); ok {
		return fn, nil
	}
	fn, err := v.root.LookupFunction(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFunctionNotFound, err)
	}
	v.cache.Put(path, fn)
	return fn, nil
}

// ChildNames returns the root namespace's direct child names, guarded the
// same way lookupFunction is in shared mode.
func (v *VM) ChildNames() []string {
	if v.shared {
		v.nsMu.RLock()
		defer v.nsMu.RUnlock()
	}
	return v.root.ChildNames()
}

// FunctionNames returns the functions registered directly on the root
// namespace, guarded the same way lookupFunction is in shared mode.
func (v *VM) FunctionNames() []string {
	if v.shared {
		v.nsMu.RLock()
		defer v.nsMu.RUnlock()
	}
	return v.root.FunctionNames()
}

// Namespace exposes the root namespace for read-only introspection. Its own
// methods (ChildNames, FunctionNames, LookupFunction, LookupClass) do no
// locking — in shared mode, prefer the VM-level ChildNames/FunctionNames
// wrappers above, which take the same reader lock lookupFunction does. Use
// the raw Namespace directly only on a VM built without WithShared, or while
// no other goroutine can be concurrently registering against it.
func (v *VM) Namespace() *registry.Namespace {
	return v.root
}

// Interpret runs instructions from a fresh top-level frame to completion.
// A Return or a fall-off-the-end both succeed; Interpret discards the
// resulting value since a top-level script has no caller to receive it.
func (v *VM) Interpret(instructions []opcodes.Instruction) error {
	_, err := v.execFrame(newFrame(instructions))
	return err
}

// execFrame runs one frame's fetch-decode-execute loop to completion,
// returning the value produced either by an explicit Return or by falling
// off the end of the instruction sequence (spec §9's resolved Open
// Question — both paths are equivalent and supported).
func (v *VM) execFrame(frame *Frame) (values.Value, error) {
	for {
		if frame.ip < 0 || frame.ip >= len(frame.instructions) {
			return values.String(""), nil
		}
		inst := frame.instructions[frame.ip]
		ip := frame.ip
		frame.ip++

		if v.prof != nil {
			v.prof.record(frame.ID, inst.Op)
		}

		result, halt, err := v.exec(frame, inst)
		if err != nil {
			return values.Value{}, wrapErr(err, inst.Op, ip)
		}
		if halt {
			return result, nil
		}
	}
}
