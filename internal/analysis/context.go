package analysis

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
)

// Context is a standalone wasm.Context for decoding a single module with no
// cross-module linking and no attached memory runtime: the globals array is
// private to this one decode, element-segment writes land in a recording
// table, ImportGlobal is a no-op, and TryInitializeElements always fails —
// a module whose element offsets depend on unresolved globals needs a real
// linker, which standalone inspection does not provide.
type Context struct {
	globals *wasm.GlobalsArray
	table   *Table
}

// NewContext returns a fresh single-module analysis context.
func NewContext() *Context {
	return &Context{globals: wasm.NewGlobalsArray(), table: NewTable()}
}

func (c *Context) Globals() *wasm.GlobalsArray { return c.globals }
func (c *Context) Linker() wasm.Linker         { return linkerStub{} }
func (c *Context) Memory() wasm.Memory         { return nil }
func (c *Context) Table() wasm.Table           { return c.table }

// Elements returns the element-segment writes recorded during decode,
// keyed by table index.
func (c *Context) Elements() map[uint32]uint32 { return c.table.elements }

// Table records element-segment writes for inspection instead of backing a
// runnable indirect-call table.
type Table struct {
	elements map[uint32]uint32
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{elements: map[uint32]uint32{}} }

func (t *Table) InitializeElement(index uint32, funcIndex uint32) {
	t.elements[index] = funcIndex
}

type linkerStub struct{}

func (linkerStub) ImportGlobal(moduleName, memberName string, index uint32, vt api.ValueType, mut api.Mutability) {
}

func (linkerStub) TryInitializeElements(ctx wasm.Context, module *wasm.Module, globalIndex uint32, contents []uint32) error {
	return wasm.Linkerf("element segment offset depends on an unresolved global; standalone inspection has no linker to resolve it")
}
