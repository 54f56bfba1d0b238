// Package api includes constants shared between the decoder, the symbol
// table and any embedder that consumes them.
package api

import "fmt"

// ValueType is a single-byte tag for a WebAssembly number type.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#value-types%E2%91%A0
type ValueType = byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

// ValueTypeName returns the name of a value type, or its hex encoding if unknown.
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	}
	return fmt.Sprintf("%#x", t)
}

// BlockType is a ValueType, or BlockTypeVoid meaning the block leaves
// nothing on the operand stack.
type BlockType = byte

// BlockTypeVoid is the block type tag meaning "no result".
const BlockTypeVoid BlockType = 0x40

// ExternType classifies imports and exports.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

// ExternTypeName returns the name used in the text format for the given kind.
func ExternTypeName(t ExternType) string {
	switch t {
	case ExternTypeFunc:
		return "func"
	case ExternTypeTable:
		return "table"
	case ExternTypeMemory:
		return "memory"
	case ExternTypeGlobal:
		return "global"
	}
	return fmt.Sprintf("%#x", t)
}

// RefType is the element type of a table. FuncRef is the only value
// this module version allows.
type RefType = byte

// FuncRef is the sole legal table element type in module version 1.
const FuncRef RefType = 0x70

// Mutability distinguishes constant globals from mutable ones.
type Mutability bool

const (
	Const   Mutability = false
	Mutable Mutability = true
)

// PageSize is the size in bytes of one WebAssembly memory page (64KiB).
const PageSize = 65536
