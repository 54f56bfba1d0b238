package wasm

// Memory is the narrow runtime-memory seam the data section decoder and
// ResetMemoryState write through. Allocation, growth and bounds-checked
// execution-time access are out of scope; this interface only
// covers what decode-time data initialization needs.
type Memory interface {
	// ValidateAddress raises an error if [base, base+length) would overflow
	// the memory's current size.
	ValidateAddress(base uint32, length uint32) error
	// StoreI32_8 writes a single byte at address.
	StoreI32_8(address uint32, b byte)
	// Clear zeroes every page.
	Clear()
}

// Table is the runtime-table seam element-segment initialization writes
// through, the table counterpart of Memory's decode-time surface. Growth
// and execution-time indirect-call dispatch are out of scope.
type Table interface {
	// InitializeElement writes one function index at index.
	InitializeElement(index uint32, funcIndex uint32)
}
