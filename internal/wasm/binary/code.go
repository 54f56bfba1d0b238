package binary

import (
	"github.com/modwasm/modwasm/api"
	"github.com/modwasm/modwasm/internal/wasm"
)

// codeEntryInput is what sweep 1 hands to sweep 2: the raw body bytes for
// one declared function, still unparsed, plus the CodeEntry sweep 1
// pre-allocated so CALL opcodes decoded in sweep 2 (possibly referencing a
// function whose own body hasn't been swept yet) already have somewhere to
// point.
type codeEntryInput struct {
	funcIndex   uint32 // absolute index into symbols.Functions
	declaredLen uint32
	body        []byte
	entry       *wasm.CodeEntry
}

// decodeCodeSectionSweep1 allocates one CodeEntry per declared function
// (without yet parsing its contents) and wires it onto the function
// record, so that forward CALL references decoded in sweep 2 resolve to a
// stable object.
func (d *decoder) decodeCodeSectionSweep1() ([]codeEntryInput, error) {
	count, err := d.r.readUnsignedInt32()
	if err != nil {
		return nil, err
	}

	firstDeclared := d.symbols.NumImportedFunctions
	numDeclared := uint32(len(d.symbols.Functions)) - firstDeclared
	if count != numDeclared {
		return nil, wasm.Malformedf("code section declares %d bodies but function section declared %d functions", count, numDeclared)
	}

	entries := make([]codeEntryInput, count)
	for i := uint32(0); i < count; i++ {
		bodySize, err := d.r.readUnsignedInt32()
		if err != nil {
			return nil, err
		}
		body, err := d.r.readBytes(int(bodySize))
		if err != nil {
			return nil, err
		}
		entry := &wasm.CodeEntry{}
		funcIndex := firstDeclared + i
		d.symbols.Functions[funcIndex].Code = entry

		entries[i] = codeEntryInput{funcIndex: funcIndex, declaredLen: bodySize, body: body, entry: entry}
	}
	return entries, nil
}

// decodeCodeSectionSweep2 parses the body of every entry collected by sweep
// 1: local declarations, then the function's block body via the abstract
// stack interpreter.
func (d *decoder) decodeCodeSectionSweep2(entries []codeEntryInput) error {
	for _, ce := range entries {
		if err := d.decodeFunctionBody(ce); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) decodeFunctionBody(ce codeEntryInput) error {
	fn := &d.symbols.Functions[ce.funcIndex]
	sig := d.symbols.FunctionTypes[fn.TypeIndex]

	r := newReader(ce.body)

	groupCount, err := r.readUnsignedInt32()
	if err != nil {
		return err
	}
	localTypes := append([]byte{}, sig.Params...)
	for g := uint32(0); g < groupCount; g++ {
		n, err := r.readUnsignedInt32()
		if err != nil {
			return err
		}
		vt, err := d.readValueTypeFrom(r)
		if err != nil {
			return err
		}
		for k := uint32(0); k < n; k++ {
			localTypes = append(localTypes, vt)
		}
	}
	ce.entry.LocalTypes = localTypes

	funcReturnLen := len(sig.Results)

	fd := &funcDecoder{
		d:             d,
		r:             r,
		entry:         ce.entry,
		localTypes:    localTypes,
		funcReturnLen: funcReturnLen,
	}

	node, term, err := fd.decodeScope(funcReturnLen, funcReturnLen, 0)
	if err != nil {
		return err
	}
	if term != opEnd {
		return wasm.Malformedf("function body %d: expected end, got else outside any if", ce.funcIndex)
	}
	ce.entry.Body = node
	ce.entry.MaxStackSize = fd.maxStackSize

	if !r.isEOF() {
		return wasm.Malformedf("function body %d: declared size %d but consumed %d bytes", ce.funcIndex, ce.declaredLen, r.offset)
	}
	return nil
}

// readValueTypeFrom is readValueType against an arbitrary reader (used for
// the local-declaration vector, which lives inside a function body's own
// sub-reader rather than the module-level one).
func (d *decoder) readValueTypeFrom(r *reader) (byte, error) {
	saved := d.r
	d.r = r
	vt, err := d.readValueType()
	d.r = saved
	return vt, err
}

// funcDecoder is the abstract stack interpreter's working memory for one
// function body.
type funcDecoder struct {
	d             *decoder
	r             *reader
	entry         *wasm.CodeEntry
	localTypes    []byte
	funcReturnLen int

	stackSize    int
	maxStackSize int

	// Indexed by nesting depth, most recent (innermost) last.
	stackStateSnapshots       []int
	continuationReturnLengths []int
}

func (fd *funcDecoder) push(n int) {
	fd.stackSize += n
	if fd.stackSize > fd.maxStackSize {
		fd.maxStackSize = fd.stackSize
	}
}

func (fd *funcDecoder) pop(n int) { fd.stackSize -= n }

func (fd *funcDecoder) emitByte(b byte)  { fd.entry.ByteConstants = append(fd.entry.ByteConstants, b) }
func (fd *funcDecoder) emitInt(v int32)  { fd.entry.IntConstants = append(fd.entry.IntConstants, v) }
func (fd *funcDecoder) emitLong(v int64) { fd.entry.LongConstants = append(fd.entry.LongConstants, v) }

// branchTarget resolves a branch label index to the stack depth and return
// arity recorded when that label's enclosing scope was entered. depth 0 is
// the innermost (most recently entered) scope.
func (fd *funcDecoder) branchTarget(labelIndex uint32) (stackState, returnLength int, err error) {
	n := len(fd.stackStateSnapshots)
	if int(labelIndex) >= n {
		return 0, 0, wasm.Malformedf("branch label index %d exceeds current nesting depth %d", labelIndex, n)
	}
	i := n - 1 - int(labelIndex)
	return fd.stackStateSnapshots[i], fd.continuationReturnLengths[i], nil
}

// decodeScope pushes one nesting level's snapshot stack state and
// continuation return length, decodes its instruction stream, and pops
// both on the way out.
func (fd *funcDecoder) decodeScope(returnLen, continuationLen, stackSnapshot int) (wasm.ExecutionNode, byte, error) {
	fd.stackStateSnapshots = append(fd.stackStateSnapshots, stackSnapshot)
	fd.continuationReturnLengths = append(fd.continuationReturnLengths, continuationLen)

	node, term, err := fd.decodeInstructions()

	fd.stackStateSnapshots = fd.stackStateSnapshots[:len(fd.stackStateSnapshots)-1]
	fd.continuationReturnLengths = fd.continuationReturnLengths[:len(fd.continuationReturnLengths)-1]
	return node, term, err
}

// decodeInstructions is the core per-opcode loop. It
// runs until END or ELSE and returns the block node built from everything
// decoded in this scope (not including nested scopes' own pool contents,
// which are already folded into the running entry pools and only
// contribute their byte/int/long/branch-table counts as this scope's
// delta via NewBlockNode).
func (fd *funcDecoder) decodeInstructions() (wasm.ExecutionNode, byte, error) {
	startByteLen := len(fd.entry.ByteConstants)
	startIntLen := len(fd.entry.IntConstants)
	startLongLen := len(fd.entry.LongConstants)
	startBranchLen := len(fd.entry.BranchTables)

	var children []wasm.ExecutionNode
	var calls []wasm.CallNode

	for {
		op, err := fd.r.read1()
		if err != nil {
			return nil, 0, err
		}
		// Recorded before any immediates are emitted, so the trace and the
		// pools share one append order and can be replayed together.
		fd.entry.Opcodes = append(fd.entry.Opcodes, op)

		switch {
		case op == opEnd || op == opElse:
			byteLen := uint32(len(fd.entry.ByteConstants) - startByteLen)
			intLen := uint32(len(fd.entry.IntConstants) - startIntLen)
			longLen := uint32(len(fd.entry.LongConstants) - startLongLen)
			branchLen := uint32(len(fd.entry.BranchTables) - startBranchLen)
			node := fd.d.nodes.NewBlockNode(children, calls, byteLen, intLen, longLen, branchLen)
			return node, op, nil

		case op == opUnreachable, op == opNop:
			// no stack effect, no immediates

		case op == opBlock, op == opLoop:
			isLoop := op == opLoop
			arity, err := fd.readBlockArity()
			if err != nil {
				return nil, 0, err
			}
			snapshot := fd.stackSize
			continuationLen := arity
			if isLoop {
				continuationLen = 0
			}
			child, term, err := fd.decodeScope(arity, continuationLen, snapshot)
			if err != nil {
				return nil, 0, err
			}
			if term != opEnd {
				return nil, 0, wasm.Malformedf("block/loop body terminated by else outside an if")
			}
			children = append(children, child)
			if isLoop {
				if arity == 1 {
					fd.stackSize = snapshot + 1
				} else {
					fd.stackSize = snapshot
				}
				if fd.stackSize > fd.maxStackSize {
					fd.maxStackSize = fd.stackSize
				}
			}

		case op == opIf:
			arity, err := fd.readBlockArity()
			if err != nil {
				return nil, 0, err
			}
			depthBeforePop := fd.stackSize
			snapshot := depthBeforePop - 1
			fd.pop(1) // condition

			trueChild, term, err := fd.decodeScope(arity, arity, snapshot)
			if err != nil {
				return nil, 0, err
			}

			var falseChild wasm.ExecutionNode
			switch term {
			case opElse:
				if arity == 1 {
					fd.pop(1) // compensate for the true branch's fallthrough value
				}
				falseChild, term, err = fd.decodeScope(arity, arity, snapshot)
				if err != nil {
					return nil, 0, err
				}
				if term != opEnd {
					return nil, 0, wasm.Malformedf("if's else arm terminated by a second else")
				}
			case opEnd:
				if arity != 0 {
					return nil, 0, wasm.Malformedf("if with non-void type has no else")
				}
				falseChild = fd.d.nodes.NewBlockNode(nil, nil, 0, 0, 0, 0)
			}

			children = append(children, trueChild, falseChild)
			if arity == 1 {
				fd.stackSize = depthBeforePop
			} else {
				fd.stackSize = depthBeforePop - 1
			}
			if fd.stackSize > fd.maxStackSize {
				fd.maxStackSize = fd.stackSize
			}

		case op == opBr, op == opBrIf:
			label, n, err := fd.r.readUnsignedInt32Sized()
			if err != nil {
				return nil, 0, err
			}
			if op == opBrIf {
				fd.pop(1)
			}
			stackState, returnLen, err := fd.branchTarget(label)
			if err != nil {
				return nil, 0, err
			}
			fd.emitLong(int64(label))
			fd.emitByte(byte(n))
			fd.emitInt(int32(stackState))
			fd.emitInt(int32(returnLen))

		case op == opBrTable:
			n, err := fd.r.readUnsignedInt32()
			if err != nil {
				return nil, 0, err
			}
			targets := make([]wasm.BranchTarget, n)
			var wantReturnLen int
			for i := uint32(0); i < n; i++ {
				label, err := fd.r.readUnsignedInt32()
				if err != nil {
					return nil, 0, err
				}
				stackState, returnLen, err := fd.branchTarget(label)
				if err != nil {
					return nil, 0, err
				}
				if i == 0 {
					wantReturnLen = returnLen
				} else if returnLen != wantReturnLen {
					return nil, 0, wasm.Malformedf("br_table targets have mismatched return arity")
				}
				targets[i] = wasm.BranchTarget{LabelIndex: label, StackState: stackState}
			}
			defaultLabel, err := fd.r.readUnsignedInt32()
			if err != nil {
				return nil, 0, err
			}
			defStackState, defReturnLen, err := fd.branchTarget(defaultLabel)
			if err != nil {
				return nil, 0, err
			}
			if n > 0 && defReturnLen != wantReturnLen {
				return nil, 0, wasm.Malformedf("br_table default target return arity mismatches other targets")
			}
			fd.pop(1) // selector
			fd.entry.BranchTables = append(fd.entry.BranchTables, wasm.BranchTable{
				DefaultReturnLength: defReturnLen,
				Targets:             targets,
				Default:             wasm.BranchTarget{LabelIndex: defaultLabel, StackState: defStackState},
			})

		case op == opReturn:
			fd.emitLong(int64(len(fd.continuationReturnLengths)))
			fd.emitInt(int32(fd.funcReturnLen))

		case op == opCall:
			idx, n, err := fd.r.readUnsignedInt32Sized()
			if err != nil {
				return nil, 0, err
			}
			callee := fd.d.symbols.Function(idx)
			sig := fd.d.symbols.FunctionTypes[callee.TypeIndex]
			fd.pop(len(sig.Params))
			fd.push(len(sig.Results))
			fd.emitLong(int64(idx))
			fd.emitByte(byte(n))
			calls = append(calls, fd.d.nodes.NewCallStub(idx))

		case op == opCallIndirect:
			typeIdx, n, err := fd.r.readUnsignedInt32Sized()
			if err != nil {
				return nil, 0, err
			}
			reserved, err := fd.r.read1()
			if err != nil {
				return nil, 0, err
			}
			if reserved != 0x00 {
				return nil, 0, wasm.Malformedf("call_indirect reserved byte must be 0x00, got 0x%02x", reserved)
			}
			sig := fd.d.symbols.FunctionTypes[typeIdx]
			fd.pop(len(sig.Params) + 1) // +1 for the table index operand
			fd.push(len(sig.Results))
			fd.emitLong(int64(typeIdx))
			fd.emitByte(byte(n))
			calls = append(calls, fd.d.nodes.NewIndirectCallNode(typeIdx))

		case op == opDrop:
			fd.pop(1)

		case op == opSelect:
			fd.pop(3)
			fd.push(1)

		case op == opLocalGet || op == opLocalSet || op == opLocalTee:
			idx, n, err := fd.r.readUnsignedInt32Sized()
			if err != nil {
				return nil, 0, err
			}
			if int(idx) >= len(fd.localTypes) {
				return nil, 0, wasm.Malformedf("local index %d out of range (%d locals)", idx, len(fd.localTypes))
			}
			switch op {
			case opLocalGet:
				fd.push(1)
			case opLocalSet:
				fd.pop(1)
			}
			fd.emitLong(int64(idx))
			fd.emitByte(byte(n))

		case op == opGlobalGet || op == opGlobalSet:
			idx, n, err := fd.r.readUnsignedInt32Sized()
			if err != nil {
				return nil, 0, err
			}
			if idx >= fd.d.symbols.MaxGlobalIndex() {
				return nil, 0, wasm.Malformedf("global index %d out of range", idx)
			}
			if op == opGlobalGet {
				fd.push(1)
			} else {
				if fd.d.symbols.GlobalMutability(idx) != api.Mutable {
					return nil, 0, wasm.Malformedf("global.set on immutable global %d", idx)
				}
				fd.pop(1)
			}
			fd.emitLong(int64(idx))
			fd.emitByte(byte(n))

		case loadOpcodes[op]:
			if err := fd.readAlignOffset(); err != nil {
				return nil, 0, err
			}
			fd.pop(1)
			fd.push(1)

		case storeOpcodes[op]:
			if err := fd.readAlignOffset(); err != nil {
				return nil, 0, err
			}
			fd.pop(2)

		case op == opMemorySize, op == opMemoryGrow:
			reserved, err := fd.r.read1()
			if err != nil {
				return nil, 0, err
			}
			if reserved != 0x00 {
				return nil, 0, wasm.Malformedf("memory.size/memory.grow reserved byte must be 0x00, got 0x%02x", reserved)
			}
			if op == opMemorySize {
				fd.push(1)
			} else {
				fd.pop(1)
				fd.push(1)
			}

		case op == opI32Const, op == opI64Const:
			var v int64
			var n int
			var err error
			if op == opI32Const {
				var v32 int32
				v32, n, err = fd.r.readSignedInt32()
				v = int64(v32)
			} else {
				v, n, err = fd.r.readSignedInt64()
			}
			if err != nil {
				return nil, 0, err
			}
			fd.emitLong(v)
			fd.emitByte(byte(n))
			fd.push(1)

		case op == opF32Const:
			v, err := fd.r.readFloat32AsInt32()
			if err != nil {
				return nil, 0, err
			}
			fd.emitLong(int64(uint32(v)))
			fd.push(1)

		case op == opF64Const:
			v, err := fd.r.readFloat64AsInt64()
			if err != nil {
				return nil, 0, err
			}
			fd.emitLong(v)
			fd.push(1)

		default:
			if arity, ok := numericArityOf(op); ok {
				fd.pop(arity.pop)
				fd.push(arity.push)
			} else {
				return nil, 0, wasm.Malformedf("unknown opcode 0x%02x", op)
			}
		}
	}
}

// readBlockArity reads a BLOCK/LOOP/IF type immediate and returns its
// arity: 0 for void, 1 for a single value type.
func (fd *funcDecoder) readBlockArity() (int, error) {
	v, _, err := fd.r.readBlockType()
	if err != nil {
		return 0, err
	}
	switch v {
	case -64: // 0x40, void
		return 0, nil
	case -1, -2, -3, -4: // i32, i64, f32, f64
		return 1, nil
	default:
		return 0, wasm.Malformedf("block type %d references a multi-value type index, unsupported", v)
	}
}

// readAlignOffset reads the align and offset immediates shared by every
// load/store opcode. align's byte-length is recorded so the execution
// engine can skip it; its value is discarded.
// offset's value and byte-length are both recorded.
func (fd *funcDecoder) readAlignOffset() error {
	_, alignLen, err := fd.r.readUnsignedInt32Sized()
	if err != nil {
		return err
	}
	fd.emitByte(byte(alignLen))

	offset, offsetLen, err := fd.r.readUnsignedInt32Sized()
	if err != nil {
		return err
	}
	fd.emitLong(int64(offset))
	fd.emitByte(byte(offsetLen))
	return nil
}
