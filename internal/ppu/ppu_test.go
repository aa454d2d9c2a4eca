package ppu

import (
	"testing"

	"nescore/internal/cartridge"
	"nescore/internal/frame"
	"nescore/internal/neserr"
)

type stubChr struct {
	data [0x2000]uint8
}

func (c *stubChr) ReadCHR(address uint16) uint8        { return c.data[address] }
func (c *stubChr) WriteCHR(address uint16, value uint8) { c.data[address] = value }

func TestStatusRead_ClearsVBlankAndLatch(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorHorizontal)
	p.status = 0x80
	p.writeLatch = true

	got := p.ReadRegister(0x2002)

	if got&0x80 == 0 {
		t.Error("expected returned status to have VBL bit set before clearing")
	}
	if p.status&0x80 != 0 {
		t.Error("expected VBL flag cleared after reading $2002")
	}
	if p.writeLatch {
		t.Error("expected write latch cleared after reading $2002")
	}
}

func TestAddrWriteThenData_ReadIsBufferedOneBehind(t *testing.T) {
	chr := &stubChr{}
	p := New(chr, cartridge.MirrorHorizontal)
	p.mem.nametables[0] = 0xAB
	p.mem.nametables[1] = 0xCD

	p.WriteRegister(0x2006, 0x20) // high byte of $2000
	p.WriteRegister(0x2006, 0x00) // low byte -> vramAddr = $2000

	first := p.ReadRegister(0x2007)
	second := p.ReadRegister(0x2007)

	if first != 0 {
		t.Errorf("first $2007 read = %#02x, want 0 (buffer starts empty)", first)
	}
	if second != 0xAB {
		t.Errorf("second $2007 read = %#02x, want 0xAB (buffered value from $2000)", second)
	}
}

func TestPaletteRead_NotBuffered(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorHorizontal)
	p.mem.palette[0] = 0x30

	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x00)

	got := p.ReadRegister(0x2007)
	if got != 0x30 {
		t.Errorf("palette read = %#02x, want 0x30 (no buffering delay)", got)
	}
}

func TestAddrIncrement_FollowsCtrlBit2(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorHorizontal)

	p.WriteRegister(0x2000, 0x04) // vertical increment mode
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)
	p.ReadRegister(0x2007)

	if p.vramAddr != 0x2000+32 {
		t.Errorf("vramAddr = %#04x, want %#04x", p.vramAddr, 0x2000+32)
	}
}

func TestScrollWrite_TwoWriteLatch(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorHorizontal)

	p.WriteRegister(0x2005, 0x08) // fine X = 0, coarse X = 1
	if p.fineX != 0 {
		t.Errorf("fineX = %d, want 0", p.fineX)
	}
	if !p.writeLatch {
		t.Error("expected write latch set after first $2005 write")
	}

	p.WriteRegister(0x2005, 0x10)
	if p.writeLatch {
		t.Error("expected write latch cleared after second $2005 write")
	}
}

func TestReadRegister_WriteOnlyPortRaisesInvalidRead(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorHorizontal)

	if err := p.TakeInvalidReadError(); err != nil {
		t.Fatalf("unexpected pending error before reading: %v", err)
	}

	got := p.ReadRegister(0x2000) // CTRL is write-only
	if got != 0 {
		t.Errorf("ReadRegister($2000) = %#02x, want 0", got)
	}

	err := p.TakeInvalidReadError()
	if err == nil {
		t.Fatal("expected an InvalidRead error after reading $2000")
	}
	if err.Kind != neserr.InvalidRead || err.Addr != 0x2000 {
		t.Errorf("got %+v, want Kind=InvalidRead Addr=0x2000", err)
	}

	if again := p.TakeInvalidReadError(); again != nil {
		t.Error("TakeInvalidReadError should clear the error after the first read")
	}
}

func TestOAMDATA_AutoIncrementsAddress(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorHorizontal)
	p.WriteRegister(0x2003, 0x10)
	p.WriteRegister(0x2004, 0x42)

	if p.oamAddr != 0x11 {
		t.Errorf("oamAddr = %#02x, want 0x11", p.oamAddr)
	}
	if p.oam[0x10] != 0x42 {
		t.Errorf("oam[0x10] = %#02x, want 0x42", p.oam[0x10])
	}
}

func TestNametableMirroring_Horizontal(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorHorizontal)

	p.mem.Write(0x2000, 0x01)
	if got := p.mem.Read(0x2400); got != 0x01 {
		t.Errorf("horizontal mirroring: $2400 should mirror $2000, got %#02x", got)
	}
	p.mem.Write(0x2800, 0x02)
	if got := p.mem.Read(0x2C00); got != 0x02 {
		t.Errorf("horizontal mirroring: $2C00 should mirror $2800, got %#02x", got)
	}
}

func TestNametableMirroring_Vertical(t *testing.T) {
	p := New(&stubChr{}, cartridge.MirrorVertical)

	p.mem.Write(0x2000, 0x03)
	if got := p.mem.Read(0x2800); got != 0x03 {
		t.Errorf("vertical mirroring: $2800 should mirror $2000, got %#02x", got)
	}
}

func TestRender_SolidTileProducesPaletteColor(t *testing.T) {
	chr := &stubChr{}
	// Tile 0: every row all-1 in the low bitplane, 0 in high bitplane -> pixel value 1.
	for row := 0; row < 8; row++ {
		chr.data[row] = 0xFF
	}
	p := New(chr, cartridge.MirrorHorizontal)
	p.mem.palette[1] = 0x16 // background palette 0, pixel value 1 -> system color $16

	f := frame.New()
	p.Render(f)

	want := systemPalette[0x16]
	r, g, b := f.Pixel(0, 0)
	if r != want.R || g != want.G || b != want.B {
		t.Errorf("Pixel(0,0) = (%d,%d,%d), want (%d,%d,%d)", r, g, b, want.R, want.G, want.B)
	}
}
