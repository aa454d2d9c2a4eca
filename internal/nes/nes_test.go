package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nescore/internal/frame"
)

func buildTestROM(prgPages, chrPages uint8, prg []byte) []byte {
	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = prgPages
	header[5] = chrPages

	prgData := make([]byte, int(prgPages)*16384)
	copy(prgData, prg)

	data := append(header, prgData...)
	data = append(data, make([]byte, int(chrPages)*8192)...)
	return data
}

func TestLoad_RunsResetVectorProgram(t *testing.T) {
	prg := []byte{0xA9, 0x42, 0xEA} // LDA #$42, NOP at $8000
	romData := buildTestROM(1, 1, prg)
	// reset vector near the end of the PRG bank for a 16KB ROM: $FFFC/$FFFD
	// map to offsets $3FFC/$3FFD of the 16KB image, mirrored at $C000-$FFFF.
	romData[16+16384-4] = 0x00
	romData[16+16384-3] = 0x80

	sys, err := Load(romData)
	require.NoError(t, err)
	sys.Reset()

	require.Equal(t, uint16(0x8000), sys.CPU.PC)

	for i := 0; i < 6; i++ {
		sys.Clock()
	}

	assert.Equal(t, uint8(0x42), sys.CPU.A)
}

func TestRunFrame_ProducesNonPanickingFrame(t *testing.T) {
	prg := []byte{0xEA} // one NOP, then the zero-filled PRG executes as BRK
	romData := buildTestROM(1, 1, prg)
	romData[16+16384-4] = 0x00
	romData[16+16384-3] = 0x80

	sys, err := Load(romData)
	require.NoError(t, err)
	sys.Reset()

	f := frame.New()
	sys.RunFrame(f)

	assert.Len(t, f.Bytes(), frame.Width*frame.Height*3)
}

func TestIllegalOpcode_SurfacesThroughSystem(t *testing.T) {
	prg := []byte{0x02, 0xEA} // unassigned opcode, then NOP
	romData := buildTestROM(1, 1, prg)
	romData[16+16384-4] = 0x00
	romData[16+16384-3] = 0x80

	sys, err := Load(romData)
	require.NoError(t, err)
	sys.Reset()

	for i := 0; i < 4; i++ {
		sys.Clock()
	}

	werr := sys.IllegalOpcodeError()
	require.NotNil(t, werr)
	assert.Equal(t, uint8(0x02), werr.Byte)
}

func TestInvalidRead_SurfacesThroughSystem(t *testing.T) {
	prg := []byte{0xAD, 0x00, 0x20, 0xEA} // LDA $2000 (CTRL, write-only), then NOP
	romData := buildTestROM(1, 1, prg)
	romData[16+16384-4] = 0x00
	romData[16+16384-3] = 0x80

	sys, err := Load(romData)
	require.NoError(t, err)
	sys.Reset()

	for i := 0; i < 6; i++ {
		sys.Clock()
	}

	werr := sys.InvalidReadError()
	require.NotNil(t, werr)
	assert.Equal(t, uint16(0x2000), werr.Addr)
}

func TestWriteToROM_SurfacesRejectedWrite(t *testing.T) {
	prg := []byte{0x8D, 0x00, 0x80, 0xEA} // STA $8000, NOP
	romData := buildTestROM(1, 1, prg)
	romData[16+16384-4] = 0x00
	romData[16+16384-3] = 0x80

	sys, err := Load(romData)
	require.NoError(t, err)
	sys.Reset()

	for i := 0; i < 8; i++ {
		sys.Clock()
	}

	werr := sys.WriteToROMError()
	require.NotNil(t, werr)
	assert.Equal(t, uint16(0x8000), werr.Addr)
}
