package wasm

// ExecutionNode is an opaque handle to whatever the execution engine
// builds out of one decoded control-flow node (block/if/loop/function
// body). The decoder never inspects it; it only threads instances an
// injected NodeFactory returned back into parent nodes and into CodeEntry.
// The decoder emits an opaque tree of execution nodes via a constructor
// interface; their internal semantics are the execution engine's concern,
// not the decoder's.
type ExecutionNode any

// CallNode is the opaque handle for one CALL or CALL_INDIRECT site,
// produced the same way as ExecutionNode. CALL sites are collected
// per-block because they may reference a callee that has not been decoded
// yet (forward references within a module) or that lives in a module the
// linker has not yet loaded; NodeFactory implementations are expected to
// defer materializing the real call target until first execution.
type CallNode any

// BranchTable is the side table built for one BR_TABLE instruction:
// DefaultReturnLength applies to the default (Nth+1) target, and each
// Targets entry gives the label depth and the stack depth snapshot at that
// label's scope entry.
type BranchTable struct {
	DefaultReturnLength int
	Targets             []BranchTarget
	Default             BranchTarget
}

// BranchTarget pairs a branch's label depth with the operand-stack depth
// recorded when that label's enclosing block was entered.
type BranchTarget struct {
	LabelIndex uint32
	StackState int
}

// NodeFactory decouples the decoder from the execution engine: the decoder
// calls it once per completed block/if/loop/function body, handing back
// everything needed to build an executable node, and stores whatever comes
// back as an opaque ExecutionNode. Engines supply their own implementation;
// none ships with this package, since building and running nodes is an
// execution engine's job, not the decoder's.
type NodeFactory interface {
	// NewBlockNode builds the node for one structured block (BLOCK, LOOP, the
	// true/false arms of IF, or a function's root body). children are the
	// already-built nodes for any nested blocks encountered in source order;
	// calls are the CALL/CALL_INDIRECT sites encountered directly in this
	// block (not in nested blocks). The four *Len fields are the number of
	// entries appended to the byte/int/long constant pools and to the
	// branch-table list between this scope's entry and its END/ELSE,
	// including entries appended by nested blocks — a per-scope delta, not
	// the pools' cumulative total.
	NewBlockNode(children []ExecutionNode, calls []CallNode, byteConstLen, intConstLen, longConstLen, branchTableLen uint32) ExecutionNode

	// NewCallStub builds a lazily-resolved call node referencing the callee
	// by function index (CALL) within the same module.
	NewCallStub(funcIndex uint32) CallNode

	// NewIndirectCallNode builds a call node for CALL_INDIRECT, which
	// resolves its callee at runtime via the table and an expected type.
	NewIndirectCallNode(typeIndex uint32) CallNode
}

// CodeEntry is the decode-time output for one declared function body.
type CodeEntry struct {
	// LocalTypes is parameter types followed by local-declaration types, one
	// byte per slot.
	LocalTypes []byte

	// Three parallel constant pools, consumed positionally by the execution
	// engine in the same order instructions were decoded. Kept separate as a
	// space optimization: tiny per-opcode byte-length literals
	// in ByteConstants, mid-width stack/arity snapshots in IntConstants,
	// indices and 64-bit literals in LongConstants.
	ByteConstants []byte
	IntConstants  []int32
	LongConstants []int64

	BranchTables []BranchTable

	MaxStackSize int

	// Body is the root execution node, a block node returning the
	// function's result type, as built by the injected NodeFactory.
	Body ExecutionNode

	// Opcodes is a source-order trace of every decoded opcode byte,
	// including block/loop/if/else/end structure bytes, recorded
	// unconditionally during decode. Because it shares the pools' append
	// order, replaying it while walking the pools positionally recovers
	// each instruction's immediates (see Disassemble).
	Opcodes []byte
}
