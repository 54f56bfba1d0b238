package binary

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/analysis"
	"github.com/modwasm/modwasm/internal/leb128"
	"github.com/modwasm/modwasm/internal/wasm"
)

// lebU/lebI are shorthand for building expected byte streams in tests.
func lebU(v uint32) []byte  { return leb128.EncodeUint32(v) }
func lebI(v int32) []byte   { return leb128.EncodeInt32(v) }
func lebI64(v int64) []byte { return leb128.EncodeInt64(v) }

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// name builds a LEB128-length-prefixed name as used by import/export entries.
func name(s string) []byte {
	return concat(lebU(uint32(len(s))), []byte(s))
}

// newTestDecoder builds a decoder over buf with a fresh symbol table and an
// analysis.Context, ready to invoke one section decoder method directly
// without going through DecodeModule's preamble/section-size bookkeeping.
func newTestDecoder(buf []byte) *decoder {
	symbols := wasm.NewSymbolTable()
	d := &decoder{
		r:       newReader(buf),
		symbols: symbols,
		ctx:     analysis.NewContext(),
		nodes:   analysis.NodeFactory{},
	}
	d.module = &wasm.Module{Symbols: symbols, SectionSizes: map[byte]uint32{}}
	return d
}

// fakeLinker lets tests control global/element resolution behavior that
// analysis.Context's linkerStub always refuses.
type fakeLinker struct {
	importGlobalCalls []string
	initElementsErr   error
	initElementsCalls []uint32
}

func (f *fakeLinker) ImportGlobal(moduleName, memberName string, index uint32, vt api.ValueType, mut api.Mutability) {
	f.importGlobalCalls = append(f.importGlobalCalls, moduleName+"."+memberName)
}

func (f *fakeLinker) TryInitializeElements(ctx wasm.Context, module *wasm.Module, globalIndex uint32, contents []uint32) error {
	f.initElementsCalls = append(f.initElementsCalls, globalIndex)
	return f.initElementsErr
}

// fakeMemory is a minimal wasm.Memory for data-segment decode tests.
type fakeMemory struct {
	bytes []byte
}

func newFakeMemory(size int) *fakeMemory { return &fakeMemory{bytes: make([]byte, size)} }

func (m *fakeMemory) ValidateAddress(base, length uint32) error {
	if int(base)+int(length) > len(m.bytes) {
		return wasm.Malformedf("data segment write out of bounds")
	}
	return nil
}

func (m *fakeMemory) StoreI32_8(address uint32, b byte) { m.bytes[address] = b }
func (m *fakeMemory) Clear() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}

// fakeTable records element-segment writes for assertions.
type fakeTable struct {
	elements map[uint32]uint32
}

func newFakeTable() *fakeTable { return &fakeTable{elements: map[uint32]uint32{}} }

func (t *fakeTable) InitializeElement(index uint32, funcIndex uint32) {
	t.elements[index] = funcIndex
}

// fakeContext has its own fresh globals array and a caller-supplied
// linker/memory/table (each nil until a test sets it).
type fakeContext struct {
	globals *wasm.GlobalsArray
	linker  wasm.Linker
	memory  wasm.Memory
	table   wasm.Table
}

func newFakeContext() *fakeContext { return &fakeContext{globals: wasm.NewGlobalsArray()} }

func (c *fakeContext) Globals() *wasm.GlobalsArray { return c.globals }
func (c *fakeContext) Linker() wasm.Linker         { return c.linker }
func (c *fakeContext) Memory() wasm.Memory         { return c.memory }
func (c *fakeContext) Table() wasm.Table           { return c.table }

// setupFuncTest builds a decoder with one declared function of the given
// signature, ready for decodeFunctionBody to be called directly against a
// hand-built body.
func setupFuncTest(paramTypes, resultTypes []byte) (*decoder, uint32) {
	symbols := wasm.NewSymbolTable()
	typeIdx := symbols.AllocateFunctionType(len(paramTypes), len(resultTypes))
	for i, vt := range paramTypes {
		symbols.RegisterFunctionTypeParameterType(typeIdx, i, vt)
	}
	for i, vt := range resultTypes {
		symbols.RegisterFunctionTypeReturnType(typeIdx, i, vt)
	}
	funcIdx := symbols.DeclareFunction(typeIdx)
	d := &decoder{
		symbols: symbols,
		ctx:     analysis.NewContext(),
		nodes:   analysis.NodeFactory{},
		module:  &wasm.Module{Symbols: symbols},
	}
	return d, funcIdx
}

// declareCallee adds a second declared function (for CALL/CALL_INDIRECT
// tests) with the given signature and returns its function index.
func declareCallee(d *decoder, paramTypes, resultTypes []byte) uint32 {
	typeIdx := d.symbols.AllocateFunctionType(len(paramTypes), len(resultTypes))
	for i, vt := range paramTypes {
		d.symbols.RegisterFunctionTypeParameterType(typeIdx, i, vt)
	}
	for i, vt := range resultTypes {
		d.symbols.RegisterFunctionTypeReturnType(typeIdx, i, vt)
	}
	return d.symbols.DeclareFunction(typeIdx)
}

// runBody wraps body in a zero-length local-declaration vector, decodes it as
// funcIdx's function body, and returns the populated CodeEntry.
func runBody(d *decoder, funcIdx uint32, body []byte) (*wasm.CodeEntry, error) {
	full := concat(lebU(0), body)
	entry := &wasm.CodeEntry{}
	d.symbols.Functions[funcIdx].Code = entry
	ce := codeEntryInput{funcIndex: funcIdx, declaredLen: uint32(len(full)), body: full, entry: entry}
	err := d.decodeFunctionBody(ce)
	return entry, err
}
