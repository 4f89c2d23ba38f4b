// Package registry implements the namespace tree: child namespaces, class
// entries and function tables keyed by lowercased name, plus the
// path-hash-keyed function lookup cache.
package registry

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/tqscript/tqvm/ident"
	"github.com/tqscript/tqvm/opcodes"
)

// FunctionKind discriminates a host-provided native function from a
// script-defined one.
type FunctionKind byte

const (
	FunctionNative FunctionKind = iota
	FunctionVirtual
)

// Function is a namespace-registered callable: either a NativeFunction (a
// host callable plus parameter names) or a VirtualFunction (an owned
// instruction sequence plus parameter names). Functions are looked up and
// shared by pointer, never copied.
//
// Native holds the host callable as an opaque value. It is declared this way
// (rather than a concrete func(*vm.VM, *vm.Frame) error) so this package
// does not import the vm package — vm imports registry to build the
// namespace tree, so the reverse import would cycle. The vm package defines
// the concrete NativeFunc type and type-asserts Native back to it when a
// CallFunction opcode dispatches to a native entry.
type Function struct {
	Name         string
	Kind         FunctionKind
	Parameters   []string
	Instructions []opcodes.Instruction // only set for FunctionVirtual
	Native       any                   // only set for FunctionNative
}

// Class is a named, namespaced record holding a function table. The core
// engine stores classes but never instantiates them (spec Non-goals).
type Class struct {
	Name      string
	Functions map[string]*Function
}

// Namespace is one node of the tree rooted at the VM: child namespaces, a
// class table and a function table, all keyed by lowercased name.
// Namespace itself performs no locking; callers that need concurrent
// access (the VM's shared mode) guard access to the whole tree externally,
// per spec §9's "storage interface" design note.
type Namespace struct {
	name      string
	children  map[string]*Namespace
	classes   map[string]*Class
	functions map[string]*Function
}

// NewNamespace constructs an empty namespace node named name (used only for
// diagnostics; lookups are keyed by path, not by this field).
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name:      name,
		children:  make(map[string]*Namespace),
		classes:   make(map[string]*Class),
		functions: make(map[string]*Function),
	}
}

func key(name string) string { return strings.ToLower(name) }

// child returns the direct child namespace named name, creating it
// (auto-vivification) if it does not already exist.
func (n *Namespace) child(name string) *Namespace {
	k := key(name)
	if existing, ok := n.children[k]; ok {
		return existing
	}
	child := NewNamespace(k)
	n.children[k] = child
	return child
}

// descend walks path (all but the last element, which names the leaf entry
// within the namespace reached), auto-vivifying intermediate namespaces.
func (n *Namespace) descend(path []string) *Namespace {
	cur := n
	for _, seg := range path {
		cur = cur.child(seg)
	}
	return cur
}

// walk is descend's read-only counterpart: it never creates a namespace and
// reports whether the full prefix exists.
func (n *Namespace) walk(path []string) (*Namespace, bool) {
	cur := n
	for _, seg := range path {
		next, ok := cur.children[key(seg)]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// RegisterFunction registers fn at path, auto-vivifying intermediate
// namespaces. The last element of path is the function's name within the
// reached namespace.
func (n *Namespace) RegisterFunction(path []string, fn *Function) error {
	if len(path) == 0 {
		return fmt.Errorf("registry: empty function path")
	}
	ns := n.descend(path[:len(path)-1])
	ns.functions[key(path[len(path)-1])] = fn
	return nil
}

// RegisterClass registers cls at path, auto-vivifying intermediate
// namespaces.
func (n *Namespace) RegisterClass(path []string, cls *Class) error {
	if len(path) == 0 {
		return fmt.Errorf("registry: empty class path")
	}
	ns := n.descend(path[:len(path)-1])
	ns.classes[key(path[len(path)-1])] = cls
	return nil
}

// LookupFunction walks path without creating any namespace. The last
// element is looked up in the reached namespace's function table.
func (n *Namespace) LookupFunction(path []string) (*Function, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("registry: empty function path")
	}
	ns, ok := n.walk(path[:len(path)-1])
	if !ok {
		return nil, fmt.Errorf("registry: no such namespace path %v", path[:len(path)-1])
	}
	fn, ok := ns.functions[key(path[len(path)-1])]
	if !ok {
		return nil, fmt.Errorf("registry: function %q not found", strings.Join(path, "::"))
	}
	return fn, nil
}

// LookupClass walks path the same way LookupFunction does, but against the
// class table.
func (n *Namespace) LookupClass(path []string) (*Class, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("registry: empty class path")
	}
	ns, ok := n.walk(path[:len(path)-1])
	if !ok {
		return nil, fmt.Errorf("registry: no such namespace path %v", path[:len(path)-1])
	}
	cls, ok := ns.classes[key(path[len(path)-1])]
	if !ok {
		return nil, fmt.Errorf("registry: class %q not found", strings.Join(path, "::"))
	}
	return cls, nil
}

// ChildNames returns the lowercased names of n's direct child namespaces,
// for introspection/tooling hosts.
func (n *Namespace) ChildNames() []string {
	return maps.Keys(n.children)
}

// FunctionNames returns the lowercased names of the functions registered
// directly on n (not in any child namespace).
func (n *Namespace) FunctionNames() []string {
	return maps.Keys(n.functions)
}

// FunctionCache maps the hash of a whole lookup path to the function handle
// it last resolved to. It is populated on successful uncached lookup;
// Invalidate must be called on every registration that could shadow a
// prior resolution (the simplest valid policy — used here — clears the
// whole cache).
type FunctionCache struct {
	entries map[uint64]*Function
}

// NewFunctionCache constructs an empty cache.
func NewFunctionCache() *FunctionCache {
	return &FunctionCache{entries: make(map[uint64]*Function)}
}

// Get returns the cached handle for path, if present.
func (c *FunctionCache) Get(path []string) (*Function, bool) {
	fn, ok := c.entries[ident.Path(path)]
	return fn, ok
}

// Put stores fn as the resolution for path.
func (c *FunctionCache) Put(path []string, fn *Function) {
	c.entries[ident.Path(path)] = fn
}

// Invalidate clears every cached resolution. Called whenever a registration
// occurs, since a new binding can shadow any previously cached path.
func (c *FunctionCache) Invalidate() {
	for k := range c.entries {
		delete(c.entries, k)
	}
}
