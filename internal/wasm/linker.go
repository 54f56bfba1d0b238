package wasm

import "github.com/modwasm/modwasm/api"

// Context is the language/embedder context the decoder threads through
// section decoders that need cross-collaborator access: the globals array,
// the linker, and the memory/table runtime objects. It is intentionally
// thin — every method here is a narrow seam the decoder calls through, not
// a place for the decoder to reach into engine internals.
type Context interface {
	Globals() *GlobalsArray
	Linker() Linker
	Memory() Memory
	Table() Table
}

// Linker is the cross-module collaborator the decoder hands unresolved
// work to. Both its entry points are pure bookkeeping calls: they never
// block, and they are the only way the decoder interacts with state
// belonging to another module.
type Linker interface {
	// ImportGlobal declares that the global at index in the importing
	// module is backed by memberName in moduleName. No value flows yet;
	// this call only registers the dependency so that a later resolution
	// pass (entirely owned by the linker, out of scope here) can look it up.
	ImportGlobal(moduleName, memberName string, index uint32, vt api.ValueType, mut api.Mutability)

	// TryInitializeElements defers a table-segment write until the
	// referenced offset global resolves. contents is the function-index
	// vector to write once the global's value is known.
	TryInitializeElements(ctx Context, module *Module, globalIndex uint32, contents []uint32) error
}

// GlobalsArray is the process-wide store of resolved global values, shared
// across every module a single embedder decodes. The decoder writes only
// at addresses SymbolTable.DeclareGlobal returns to it.
type GlobalsArray struct {
	slots []int64
}

// NewGlobalsArray returns an empty store.
func NewGlobalsArray() *GlobalsArray { return &GlobalsArray{} }

// Reserve grows the array by one slot and returns its address.
func (g *GlobalsArray) Reserve() uint32 {
	g.slots = append(g.slots, 0)
	return uint32(len(g.slots) - 1)
}

// LoadAsLong returns the raw 64-bit payload at address.
func (g *GlobalsArray) LoadAsLong(address uint32) int64 { return g.slots[address] }

// StoreLong writes the raw 64-bit payload at address.
func (g *GlobalsArray) StoreLong(address uint32, v int64) { g.slots[address] = v }
