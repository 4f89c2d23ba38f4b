package vm

// Option configures a VM at construction time. This is the idiomatic Go
// analogue of the Rust original's `#[cfg(feature = "async")]` conditional
// compilation and of the teacher's own constructor-flag pattern
// (NewVirtualMachineWithProfiling(level)) — every mode is a single
// construction-time choice rather than a compile-time one.
type Option func(*VM)

// WithShared switches the VM into shared deployment mode: globals and the
// namespace tree are guarded by sync.RWMutex so multiple goroutines may call
// Interpret against the same VM concurrently. Frame-local bindings never
// need this regardless of mode, since a Frame is never shared across
// goroutines.
func WithShared() Option {
	return func(v *VM) {
		v.shared = true
		v.globals = newLockedGlobalStore()
	}
}

// WithUncheckedStack disables the operand-stack-underflow check. A caller
// that passes a compiled instruction sequence it trusts never underflows
// can use this to skip the check on the hot path; an actually-malformed
// sequence then panics instead of returning an error, same as any other
// out-of-range Go slice access.
func WithUncheckedStack() Option {
	return func(v *VM) { v.uncheckedStack = true }
}

// WithStrictVariables switches dereferencing an unbound variable from the
// spec's default lenient behavior (yields an empty String) to returning a
// VMError wrapping ErrVariableNotFound.
func WithStrictVariables() Option {
	return func(v *VM) { v.strictVariables = true }
}

// WithCollisionDetection enables a debug assertion that records the first
// canonical (lowercased) name seen for each 64-bit identifier and reports an
// error the first time a second, different name hashes to the same
// identifier. Applies only to variable reads/assignments (coerce.go's
// deref/assign), the only place a Ref's 64-bit ident.Hash is used as a map
// key — namespace/function registration is keyed by plain lowercased
// strings, not by hash, so there is no collision for this check to catch
// there. Off by default since it adds a map lookup to every variable access.
func WithCollisionDetection() Option {
	return func(v *VM) { v.collision = newCollisionTable() }
}

// WithProfiling enables per-opcode execution counters, retrievable via
// GetPerformanceReport. Off by default.
func WithProfiling() Option {
	return func(v *VM) { v.prof = newProfiler() }
}
