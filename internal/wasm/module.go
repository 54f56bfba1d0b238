// Package wasm holds the symbol table and function-body data model produced
// by decoding a WebAssembly binary module, independent of how that module
// is later executed.
package wasm

import "github.com/modwasm/modwasm/api"

// FunctionType is a function signature: a vector of parameter types and a
// vector of result types. Module version 1 restricts result vectors to at
// most one value.
type FunctionType struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// ResultLen returns 0 or 1, the arity this version of the format allows.
func (t *FunctionType) ResultLen() int { return len(t.Results) }

// GlobalResolution is the lifecycle tag of a declared global.
type GlobalResolution int

const (
	// Declared means the global's initializer was a plain numeric constant
	// (or a global.get of an already-RESOLVED imported global): its value is
	// known immediately.
	Declared GlobalResolution = iota
	// ImportedUnresolved means this slot is an imported global whose own
	// value has not yet been supplied by the linker.
	ImportedUnresolved
	// ImportedResolved means this slot is an imported global whose value has
	// been supplied by the linker.
	ImportedResolved
	// UnresolvedGet means this global's initializer is global.get of an
	// imported global that was not yet RESOLVED at decode time; resolution
	// is deferred to the linker via UnresolvedGlobalBackrefs.
	UnresolvedGet
	// Resolved means this global's value is known and final.
	Resolved
)

func (r GlobalResolution) String() string {
	switch r {
	case Declared:
		return "DECLARED"
	case ImportedUnresolved:
		return "IMPORTED_UNRESOLVED"
	case ImportedResolved:
		return "IMPORTED_RESOLVED"
	case UnresolvedGet:
		return "UNRESOLVED_GET"
	case Resolved:
		return "RESOLVED"
	}
	return "UNKNOWN"
}

// Global is one entry in the globals index space, imported or declared.
type Global struct {
	Type       api.ValueType
	Mutability api.Mutability
	Resolution GlobalResolution
	// Address is the slot this global occupies in the process-wide globals
	// array, assigned by SymbolTable.DeclareGlobal.
	Address uint32
	Module  string // import source, set only when this is an imported global
	Name    string
}

// TableType describes the module's single table, imported or declared.
type TableType struct {
	ElementType api.RefType // always api.FuncRef in this module version
	Min         uint32
	Max         *uint32
	IsImported  bool
}

// MemoryType describes the module's single linear memory, imported or
// declared. Min/Max are counted in WebAssembly pages (api.PageSize bytes).
type MemoryType struct {
	Min        uint32
	Max        *uint32
	IsImported bool
}

// CallTarget is the opaque, lazily-materialized reference to a function's
// execution-time call node. Real call nodes are supplied by whatever
// consumes the decoded module (the execution engine, out of scope here);
// the decoder only ever stores and hands back whatever the engine gave it
// for a given function index.
type CallTarget any

// Function is one entry in the shared function index space. Imported
// functions occupy indices [0, n_imports); declared functions occupy
// [n_imports, n_imports+n_declared) and have a non-nil Code once the code
// section has been decoded.
type Function struct {
	TypeIndex  uint32
	Code       *CodeEntry
	CallTarget CallTarget
	IsImported bool
	Module     string
	Name       string
}

// Export records one named, publicly visible item.
type Export struct {
	Kind  api.ExternType
	Index uint32
}

// SymbolTable is the decoded catalog of a module's declarations. It owns no
// bytes; Bytes on Module is retained separately for resets.
type SymbolTable struct {
	FunctionTypes []FunctionType
	Functions     []Function
	Tables        []TableType
	Memories      []MemoryType
	Globals       []Global
	Exports       map[string]Export

	StartFunctionIndex *uint32

	// UnresolvedGlobalBackrefs maps a global index to the index of the
	// imported global it waits on.
	UnresolvedGlobalBackrefs map[uint32]uint32

	// NumImportedFunctions is the running count bumped by the import
	// section decoder; it marks the boundary between imported and declared
	// function indices.
	NumImportedFunctions uint32
}

// NewSymbolTable returns an empty, ready-to-populate symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Exports:                  map[string]Export{},
		UnresolvedGlobalBackrefs: map[uint32]uint32{},
	}
}

// AllocateFunctionType reserves a new, zero-valued signature and returns its
// index. Callers fill in parameter/result types with the Register* methods
// below, one slot at a time, rather than taking a full signature up front.
func (t *SymbolTable) AllocateFunctionType(paramsLen, resultLen int) uint32 {
	idx := uint32(len(t.FunctionTypes))
	t.FunctionTypes = append(t.FunctionTypes, FunctionType{
		Params:  make([]api.ValueType, paramsLen),
		Results: make([]api.ValueType, resultLen),
	})
	return idx
}

// RegisterFunctionTypeParameterType sets one parameter's type.
func (t *SymbolTable) RegisterFunctionTypeParameterType(typeIndex uint32, paramIndex int, vt api.ValueType) {
	t.FunctionTypes[typeIndex].Params[paramIndex] = vt
}

// RegisterFunctionTypeReturnType sets the (sole, in this version) result type.
func (t *SymbolTable) RegisterFunctionTypeReturnType(typeIndex uint32, resultIndex int, vt api.ValueType) {
	t.FunctionTypes[typeIndex].Results[resultIndex] = vt
}

// ImportFunction appends an imported function record and bumps the imported
// function count.
func (t *SymbolTable) ImportFunction(moduleName, memberName string, typeIndex uint32) uint32 {
	idx := uint32(len(t.Functions))
	t.Functions = append(t.Functions, Function{
		TypeIndex:  typeIndex,
		IsImported: true,
		Module:     moduleName,
		Name:       memberName,
	})
	t.NumImportedFunctions++
	return idx
}

// DeclareFunction appends a declared (non-imported) function record bound
// to typeIndex; its Code is populated later by the code section decoder.
func (t *SymbolTable) DeclareFunction(typeIndex uint32) uint32 {
	idx := uint32(len(t.Functions))
	t.Functions = append(t.Functions, Function{TypeIndex: typeIndex})
	return idx
}

// ImportTable records an imported table. Returns an error if the module
// already has a table (at most one table per module, imported or declared).
func (t *SymbolTable) ImportTable(min uint32, max *uint32) error {
	if len(t.Tables) > 0 {
		return Malformedf("at most one table per module")
	}
	t.Tables = append(t.Tables, TableType{ElementType: api.FuncRef, Min: min, Max: max, IsImported: true})
	return nil
}

// AllocateTable records a declared table, subject to the same cardinality rule.
func (t *SymbolTable) AllocateTable(min uint32, max *uint32) error {
	if len(t.Tables) > 0 {
		return Malformedf("at most one table per module")
	}
	t.Tables = append(t.Tables, TableType{ElementType: api.FuncRef, Min: min, Max: max})
	return nil
}

// ImportMemory records an imported memory, subject to the cardinality rule.
func (t *SymbolTable) ImportMemory(min uint32, max *uint32) error {
	if len(t.Memories) > 0 {
		return Malformedf("at most one memory per module")
	}
	t.Memories = append(t.Memories, MemoryType{Min: min, Max: max, IsImported: true})
	return nil
}

// AllocateMemory records a declared memory, subject to the cardinality rule.
func (t *SymbolTable) AllocateMemory(min uint32, max *uint32) error {
	if len(t.Memories) > 0 {
		return Malformedf("at most one memory per module")
	}
	t.Memories = append(t.Memories, MemoryType{Min: min, Max: max})
	return nil
}

// DeclareGlobal allocates a new slot in ctx's process-wide globals array and
// appends a record to this module's global index space. It returns the
// *module-local* global index (what global.get/global.set immediates
// reference); the process-wide slot address is recorded on the Global
// record itself and is available via GlobalAddress.
func (t *SymbolTable) DeclareGlobal(ctx Context, vt api.ValueType, mut api.Mutability, resolution GlobalResolution) uint32 {
	var addr uint32
	if ctx != nil && ctx.Globals() != nil {
		addr = ctx.Globals().Reserve()
	} else {
		addr = uint32(len(t.Globals))
	}
	index := uint32(len(t.Globals))
	t.Globals = append(t.Globals, Global{Type: vt, Mutability: mut, Resolution: resolution, Address: addr})
	return index
}

// ExportFunction/ExportTable/ExportGlobal register a name in the export
// map. The table checks (a table must exist, index must be 0) are made at
// the decoder call site; these simply record the mapping. There is no
// memory counterpart: memory exports are not recorded.
func (t *SymbolTable) ExportFunction(name string, index uint32) {
	t.Exports[name] = Export{Kind: api.ExternTypeFunc, Index: index}
}

func (t *SymbolTable) ExportTable(name string, index uint32) {
	t.Exports[name] = Export{Kind: api.ExternTypeTable, Index: index}
}

func (t *SymbolTable) ExportGlobal(name string, index uint32) {
	t.Exports[name] = Export{Kind: api.ExternTypeGlobal, Index: index}
}

// SetStartFunction records the module's start function index.
func (t *SymbolTable) SetStartFunction(index uint32) {
	v := index
	t.StartFunctionIndex = &v
}

// InitializeTableWithFunctions writes a contiguous run of function indices
// into the module's (sole) table starting at offset, through ctx's table
// collaborator.
func (t *SymbolTable) InitializeTableWithFunctions(ctx Context, offset uint32, funcIndices []uint32) error {
	if len(t.Tables) == 0 {
		return Malformedf("element segment targets a module with no table")
	}
	if ctx != nil && ctx.Table() != nil {
		tbl := ctx.Table()
		for i, fi := range funcIndices {
			tbl.InitializeElement(offset+uint32(i), fi)
		}
	}
	return nil
}

// Function returns the function record at index.
func (t *SymbolTable) Function(index uint32) *Function { return &t.Functions[index] }

// FunctionTypeArgumentCount returns the number of parameters of a signature.
func (t *SymbolTable) FunctionTypeArgumentCount(typeIndex uint32) int {
	return len(t.FunctionTypes[typeIndex].Params)
}

// FunctionTypeReturnTypeLength returns 0 or 1.
func (t *SymbolTable) FunctionTypeReturnTypeLength(typeIndex uint32) int {
	return len(t.FunctionTypes[typeIndex].Results)
}

// GlobalMutability returns whether the global at index is mutable.
func (t *SymbolTable) GlobalMutability(index uint32) api.Mutability {
	return t.Globals[index].Mutability
}

// GlobalAddress returns the globals-array slot for the global at index.
func (t *SymbolTable) GlobalAddress(index uint32) uint32 { return t.Globals[index].Address }

// GlobalResolution returns the resolution tag of the global at index.
func (t *SymbolTable) GlobalResolution(index uint32) GlobalResolution {
	return t.Globals[index].Resolution
}

// MaxGlobalIndex returns the number of globals declared or imported so far;
// it grows strictly monotonically.
func (t *SymbolTable) MaxGlobalIndex() uint32 { return uint32(len(t.Globals)) }

// TableCount/MemoryCount/Memory/TableExists expose the at-most-one
// cardinality directly.
func (t *SymbolTable) TableCount() int   { return len(t.Tables) }
func (t *SymbolTable) MemoryCount() int  { return len(t.Memories) }
func (t *SymbolTable) TableExists() bool { return len(t.Tables) > 0 }
func (t *SymbolTable) Memory() *MemoryType {
	if len(t.Memories) == 0 {
		return nil
	}
	return &t.Memories[0]
}

// Module is the root decode output: the symbol table plus the original
// byte buffer it was parsed from (retained for ResetGlobalState and
// ResetMemoryState, which re-scan the buffer rather than caching a
// second copy of the section contents).
type Module struct {
	Symbols *SymbolTable
	Bytes   []byte

	// SectionSizes records the declared byte length of each section ID
	// observed during decode, supporting testable property #1 as
	// an inspectable value rather than only an internal assertion.
	SectionSizes map[byte]uint32

	// CustomSections holds raw (name, bytes) pairs for skipped custom
	// sections when decoding was configured to retain them.
	CustomSections []CustomSection
}

// CustomSection is a retained, unparsed custom section.
type CustomSection struct {
	Name  string
	Bytes []byte
}
