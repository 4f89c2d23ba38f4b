package opcodes

// AddressKind discriminates an Absolute branch target from a Relative one.
type AddressKind byte

const (
	AddressAbsolute AddressKind = iota
	AddressRelative
)

// Address is a branch target: either an absolute instruction index or a
// signed offset applied to the post-increment program counter.
type Address struct {
	Kind  AddressKind
	Value int32
}

// Absolute constructs an absolute branch target at instruction index idx.
func Absolute(idx int32) Address { return Address{Kind: AddressAbsolute, Value: idx} }

// Relative constructs a branch target offset from the post-increment
// program counter. Relative(0) is equivalent to a NOP; Relative(-1)
// re-executes the jump itself (a tight loop).
func Relative(offset int32) Address { return Address{Kind: AddressRelative, Value: offset} }

// Resolve computes the instruction index this address targets, given the
// program counter value immediately after the branch instruction's own
// fetch-and-advance step.
func (a Address) Resolve(postIncrementPC int) int {
	if a.Kind == AddressAbsolute {
		return int(a.Value)
	}
	return postIncrementPC + int(a.Value)
}
