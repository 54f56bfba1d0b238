// Package binary implements the recursive-descent decoder for the
// WebAssembly binary module format, version 1: the section dispatcher, the
// per-section decoders, and the function-body decoder with its abstract
// stack interpretation.
package binary

import (
	"github.com/modwasm/modwasm/internal/wasm"
)

// Magic and Version are the 8-byte module preamble.
var (
	Magic   = []byte{0x00, 0x61, 0x73, 0x6d}
	Version = []byte{0x01, 0x00, 0x00, 0x00}
)

const magicWord = 0x6d736100 // "\0asm" read little-endian as a uint32
const versionWord = 0x00000001

// Options controls additive decode-time bookkeeping: none of these change
// what a module means, only what the decoder records alongside it.
type Options struct {
	// RetainCustomSections, when true, appends every skipped custom
	// section's (name, bytes) to Module.CustomSections instead of
	// discarding them outright.
	RetainCustomSections bool

	// Observer, if non-nil, is notified of decode lifecycle events for
	// metrics/logging collaborators; see internal/observability.
	Observer Observer
}

// Observer receives decode lifecycle notifications. It is the seam the CLI
// wires Prometheus metrics and logrus logging through; the core decoder
// depends only on this interface, never on a concrete logging or metrics
// library.
type Observer interface {
	SectionDecoded(id SectionID, declaredSize uint32)
	DecodeFailed(err error)
}

type noopObserver struct{}

func (noopObserver) SectionDecoded(SectionID, uint32) {}
func (noopObserver) DecodeFailed(error)               {}

// decoder holds decode-local state threaded through every section and
// function-body decoder: the byte cursor, the symbol table being built, the
// embedder context (globals array + linker + memory), the node factory the
// code section hands control-flow nodes to, and decode options.
type decoder struct {
	r        *reader
	symbols  *wasm.SymbolTable
	ctx      wasm.Context
	nodes    wasm.NodeFactory
	opts     Options
	observer Observer
	module   *wasm.Module
}

// DecodeModule parses buf as a WebAssembly binary module and returns a
// fully populated Module. ctx supplies the process-wide globals array, the
// linker, and the runtime memory object; nodes receives control-flow nodes
// built while decoding function bodies. On failure the returned Module is
// always nil — no partial module is ever handed back.
func DecodeModule(buf []byte, ctx wasm.Context, nodes wasm.NodeFactory, opts Options) (*wasm.Module, error) {
	d := &decoder{
		r:        newReader(buf),
		symbols:  wasm.NewSymbolTable(),
		ctx:      ctx,
		nodes:    nodes,
		opts:     opts,
		observer: opts.Observer,
	}
	if d.observer == nil {
		d.observer = noopObserver{}
	}
	d.module = &wasm.Module{
		Symbols:      d.symbols,
		Bytes:        buf,
		SectionSizes: map[byte]uint32{},
	}

	if err := d.decodePreamble(); err != nil {
		d.observer.DecodeFailed(err)
		return nil, err
	}

	var codeSectionEntries []codeEntryInput
	var sawCode, sawFunction bool

	for !d.r.isEOF() {
		idByte, err := d.r.read1()
		if err != nil {
			d.observer.DecodeFailed(err)
			return nil, err
		}
		size, err := d.r.readUnsignedInt32()
		if err != nil {
			d.observer.DecodeFailed(err)
			return nil, err
		}
		id := SectionID(idByte)
		start := d.r.offset

		switch id {
		case SectionIDCustom:
			if err := d.decodeCustomSection(int(size)); err != nil {
				d.observer.DecodeFailed(err)
				return nil, err
			}
		case SectionIDType:
			err = d.decodeTypeSection()
		case SectionIDImport:
			err = d.decodeImportSection()
		case SectionIDFunction:
			err = d.decodeFunctionSection()
			sawFunction = err == nil
		case SectionIDTable:
			err = d.decodeTableSection()
		case SectionIDMemory:
			err = d.decodeMemorySection()
		case SectionIDGlobal:
			err = d.decodeGlobalSection()
		case SectionIDExport:
			err = d.decodeExportSection()
		case SectionIDStart:
			err = d.decodeStartSection()
		case SectionIDElement:
			err = d.decodeElementSection()
		case SectionIDCode:
			codeSectionEntries, err = d.decodeCodeSectionSweep1()
			sawCode = err == nil
		case SectionIDData:
			err = d.decodeDataSection()
		default:
			err = wasm.Malformedf("invalid section id 0x%02x", idByte)
		}
		if err != nil {
			d.observer.DecodeFailed(err)
			return nil, err
		}

		if id != SectionIDCustom {
			consumed := uint32(d.r.offset - start)
			if consumed != size {
				err := wasm.Malformedf("section %s: declared size %d but consumed %d bytes", id, size, consumed)
				d.observer.DecodeFailed(err)
				return nil, err
			}
			d.module.SectionSizes[byte(id)] = size
			d.observer.SectionDecoded(id, size)
		}
	}

	if sawCode {
		if err := d.decodeCodeSectionSweep2(codeSectionEntries); err != nil {
			d.observer.DecodeFailed(err)
			return nil, err
		}
	} else if sawFunction && len(d.symbols.Functions) > int(d.symbols.NumImportedFunctions) {
		err := wasm.Malformedf("function section declared functions but no code section was present")
		d.observer.DecodeFailed(err)
		return nil, err
	}

	return d.module, nil
}

func (d *decoder) decodePreamble() error {
	magic, err := d.r.read4()
	if err != nil {
		return err
	}
	if magic != magicWord {
		return wasm.Malformedf("invalid magic number")
	}
	version, err := d.r.read4()
	if err != nil {
		return err
	}
	if version != versionWord {
		return wasm.Malformedf("invalid version header: got %d, want 1", version)
	}
	return nil
}

// decodeCustomSection consumes exactly size bytes, optionally recording
// them. Custom sections carry no section-size invariant check at the call
// site in DecodeModule because the name field's own length is included in
// the declared size; the boundary enforced here is the only one that
// matters (exact consumption).
func (d *decoder) decodeCustomSection(size int) error {
	start := d.r.offset
	name, err := d.r.readName()
	if err != nil {
		return err
	}
	consumedByName := d.r.offset - start
	remaining := size - consumedByName
	if remaining < 0 {
		return wasm.Malformedf("custom section %q: name longer than declared section size", name)
	}
	payload, err := d.r.readBytes(remaining)
	if err != nil {
		return err
	}
	if d.opts.RetainCustomSections {
		cp := make([]byte, len(payload))
		copy(cp, payload)
		d.module.CustomSections = append(d.module.CustomSections, wasm.CustomSection{Name: name, Bytes: cp})
	}
	return nil
}
