package binary

import (
	"testing"

	"github.com/modwasm/modwasm/internal/analysis"
	"github.com/modwasm/modwasm/internal/wasm"
	"github.com/stretchr/testify/require"
)

func section(id SectionID, payload []byte) []byte {
	return concat([]byte{byte(id)}, lebU(uint32(len(payload))), payload)
}

func minimalModule(sections ...[]byte) []byte {
	buf := concat(Magic, Version)
	for _, s := range sections {
		buf = concat(buf, s)
	}
	return buf
}

func TestDecodeModule_preambleOnly(t *testing.T) {
	mod, err := DecodeModule(minimalModule(), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.NoError(t, err)
	require.NotNil(t, mod)
	require.Empty(t, mod.SectionSizes)
}

func TestDecodeModule_badMagic(t *testing.T) {
	buf := concat([]byte{0x00, 0x61, 0x73, 0x6e}, Version)
	_, err := DecodeModule(buf, analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.Error(t, err)
	require.IsType(t, &wasm.MalformedError{}, err)
}

func TestDecodeModule_badVersion(t *testing.T) {
	buf := concat(Magic, []byte{0x02, 0x00, 0x00, 0x00})
	_, err := DecodeModule(buf, analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.Error(t, err)
}

func TestDecodeModule_truncated(t *testing.T) {
	_, err := DecodeModule([]byte{0x00, 0x61, 0x73}, analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.Error(t, err)
}

func TestDecodeModule_sectionSizeMismatch(t *testing.T) {
	// declares 5 bytes of payload for an empty type section (actually 1 byte)
	bad := concat([]byte{byte(SectionIDType)}, lebU(5), lebU(0))
	_, err := DecodeModule(minimalModule(bad), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.Error(t, err)
}

func TestDecodeModule_unknownSectionID(t *testing.T) {
	bad := concat([]byte{0x20}, lebU(0))
	_, err := DecodeModule(minimalModule(bad), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.Error(t, err)
}

func TestDecodeModule_functionsDeclaredWithoutCodeSection(t *testing.T) {
	typeSec := section(SectionIDType, concat(lebU(1), []byte{funcTypeTag}, lebU(0), []byte{0x40}))
	funcSec := section(SectionIDFunction, concat(lebU(1), lebU(0)))
	_, err := DecodeModule(minimalModule(typeSec, funcSec), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.Error(t, err)
}

func TestDecodeModule_recordsSectionSizes(t *testing.T) {
	typeSec := section(SectionIDType, concat(lebU(1), []byte{funcTypeTag}, lebU(0), []byte{0x40}))
	mod, err := DecodeModule(minimalModule(typeSec), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.NoError(t, err)
	require.Len(t, mod.Symbols.FunctionTypes, 1)
	require.Contains(t, mod.SectionSizes, byte(SectionIDType))
}

func TestDecodeModule_customSectionDiscardedByDefault(t *testing.T) {
	cs := section(SectionIDCustom, concat(name("producers"), []byte{0x01, 0x02}))
	mod, err := DecodeModule(minimalModule(cs), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.NoError(t, err)
	require.Empty(t, mod.CustomSections)
}

func TestDecodeModule_customSectionRetained(t *testing.T) {
	cs := section(SectionIDCustom, concat(name("producers"), []byte{0x01, 0x02}))
	mod, err := DecodeModule(minimalModule(cs), analysis.NewContext(), analysis.NodeFactory{}, Options{RetainCustomSections: true})
	require.NoError(t, err)
	require.Len(t, mod.CustomSections, 1)
	require.Equal(t, "producers", mod.CustomSections[0].Name)
	require.Equal(t, []byte{0x01, 0x02}, mod.CustomSections[0].Bytes)
}

func TestDecodeModule_observerNotified(t *testing.T) {
	typeSec := section(SectionIDType, concat(lebU(1), []byte{funcTypeTag}, lebU(0), []byte{0x40}))
	obs := &recordingObserver{}
	_, err := DecodeModule(minimalModule(typeSec), analysis.NewContext(), analysis.NodeFactory{}, Options{Observer: obs})
	require.NoError(t, err)
	require.Equal(t, []SectionID{SectionIDType}, obs.decoded)
	require.Nil(t, obs.failure)
}

func TestDecodeModule_observerNotifiedOnFailure(t *testing.T) {
	bad := concat([]byte{0x20}, lebU(0))
	obs := &recordingObserver{}
	_, err := DecodeModule(minimalModule(bad), analysis.NewContext(), analysis.NodeFactory{}, Options{Observer: obs})
	require.Error(t, err)
	require.Equal(t, err, obs.failure)
}

type recordingObserver struct {
	decoded []SectionID
	failure error
}

func (o *recordingObserver) SectionDecoded(id SectionID, declaredSize uint32) {
	o.decoded = append(o.decoded, id)
}
func (o *recordingObserver) DecodeFailed(err error) { o.failure = err }

func TestDecodeModule_functionWithEmptyBody(t *testing.T) {
	typeSec := section(SectionIDType, concat(lebU(1), []byte{funcTypeTag}, lebU(1), []byte{0x7f}, []byte{0x00}))
	funcSec := section(SectionIDFunction, concat(lebU(1), lebU(0)))
	codeSec := section(SectionIDCode, concat(lebU(1), lebU(2), lebU(0), []byte{0x0b}))

	mod, err := DecodeModule(minimalModule(typeSec, funcSec, codeSec), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.NoError(t, err)
	require.Len(t, mod.Symbols.Functions, 1)
	entry := mod.Symbols.Functions[0].Code
	require.NotNil(t, entry)
	require.Equal(t, []byte{0x7f}, entry.LocalTypes)
	require.Equal(t, 0, entry.MaxStackSize)
	require.NotNil(t, entry.Body)
}

func TestDecodeModule_functionReturningConstant(t *testing.T) {
	typeSec := section(SectionIDType, concat(lebU(1), []byte{funcTypeTag}, lebU(0), []byte{0x01, 0x7f}))
	funcSec := section(SectionIDFunction, concat(lebU(1), lebU(0)))
	body := concat(lebU(0), []byte{0x41}, lebI(7), []byte{0x0b})
	codeSec := section(SectionIDCode, concat(lebU(1), lebU(uint32(len(body))), body))

	mod, err := DecodeModule(minimalModule(typeSec, funcSec, codeSec), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.NoError(t, err)
	entry := mod.Symbols.Functions[0].Code
	require.Equal(t, []int64{7}, entry.LongConstants)
	require.Equal(t, []byte{1}, entry.ByteConstants)
	require.Equal(t, 1, entry.MaxStackSize)
	require.Equal(t, "i32.const 7\nend", wasm.Disassemble(entry))
}

func TestDecodeModule_forwardCallReference(t *testing.T) {
	// f0 calls f1, whose body is decoded after f0's: sweep 1 must have
	// already given f1 a stable CodeEntry for the call stub to point at.
	typeSec := section(SectionIDType, concat(lebU(1), []byte{funcTypeTag}, lebU(0), []byte{0x00}))
	funcSec := section(SectionIDFunction, concat(lebU(2), lebU(0), lebU(0)))
	callerBody := concat(lebU(0), []byte{0x10}, lebU(1), []byte{0x0b})
	calleeBody := concat(lebU(0), []byte{0x0b})
	codeSec := section(SectionIDCode, concat(
		lebU(2),
		lebU(uint32(len(callerBody))), callerBody,
		lebU(uint32(len(calleeBody))), calleeBody,
	))

	mod, err := DecodeModule(minimalModule(typeSec, funcSec, codeSec), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.NoError(t, err)
	require.Contains(t, mod.Symbols.Functions[0].Code.Opcodes, opCall)
	require.NotNil(t, mod.Symbols.Functions[1].Code.Body)
}

func TestDecodeModule_codeEntryCountMismatch(t *testing.T) {
	typeSec := section(SectionIDType, concat(lebU(1), []byte{funcTypeTag}, lebU(0), []byte{0x00}))
	funcSec := section(SectionIDFunction, concat(lebU(1), lebU(0)))
	codeSec := section(SectionIDCode, concat(lebU(2), lebU(2), lebU(0), []byte{0x0b}, lebU(2), lebU(0), []byte{0x0b}))

	_, err := DecodeModule(minimalModule(typeSec, funcSec, codeSec), analysis.NewContext(), analysis.NodeFactory{}, Options{})
	require.Error(t, err)
}
