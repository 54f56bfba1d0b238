// Package analysis provides a NodeFactory for callers that only want to
// decode and inspect a module's structure — no execution engine attached.
package analysis

import "github.com/modwasm/modwasm/internal/wasm"

// blockNode and callNode are the placeholder values NodeFactory returns
// when nothing downstream ever runs them. They carry just enough to let
// inspect/verify/stats report shape without needing a real engine.
type blockNode struct {
	Children       []wasm.ExecutionNode
	Calls          []wasm.CallNode
	ByteConstLen   uint32
	IntConstLen    uint32
	LongConstLen   uint32
	BranchTableLen uint32
}

type callStub struct{ FuncIndex uint32 }
type indirectCall struct{ TypeIndex uint32 }

// NodeFactory builds the placeholder nodes above instead of anything
// executable. It exists for tools (cmd/modwasm) that decode a module purely
// for static inspection.
type NodeFactory struct{}

func (NodeFactory) NewBlockNode(children []wasm.ExecutionNode, calls []wasm.CallNode, byteConstLen, intConstLen, longConstLen, branchTableLen uint32) wasm.ExecutionNode {
	return blockNode{
		Children:       children,
		Calls:          calls,
		ByteConstLen:   byteConstLen,
		IntConstLen:    intConstLen,
		LongConstLen:   longConstLen,
		BranchTableLen: branchTableLen,
	}
}

func (NodeFactory) NewCallStub(funcIndex uint32) wasm.CallNode { return callStub{FuncIndex: funcIndex} }

func (NodeFactory) NewIndirectCallNode(typeIndex uint32) wasm.CallNode {
	return indirectCall{TypeIndex: typeIndex}
}
