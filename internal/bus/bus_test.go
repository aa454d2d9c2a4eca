package bus

import "testing"

type stubPPU struct {
	reads  map[uint16]uint8
	writes map[uint16]uint8
}

func newStubPPU() *stubPPU {
	return &stubPPU{reads: map[uint16]uint8{}, writes: map[uint16]uint8{}}
}

func (p *stubPPU) ReadRegister(address uint16) uint8  { return p.reads[address] }
func (p *stubPPU) WriteRegister(address uint16, v uint8) { p.writes[address] = v }

type stubInput struct {
	reads  map[uint16]uint8
	writes map[uint16]uint8
}

func newStubInput() *stubInput {
	return &stubInput{reads: map[uint16]uint8{}, writes: map[uint16]uint8{}}
}

func (i *stubInput) Read(address uint16) uint8  { return i.reads[address] }
func (i *stubInput) Write(address uint16, v uint8) { i.writes[address] = v }

type stubCartridge struct {
	prg [0x10000]uint8
}

func (c *stubCartridge) ReadPRG(address uint16) uint8       { return c.prg[address] }
func (c *stubCartridge) WritePRG(address uint16, v uint8)   { c.prg[address] = v }
func (c *stubCartridge) IsROMAddress(address uint16) bool   { return address >= 0x8000 }

func TestRAM_MirroredAcrossFourBanks(t *testing.T) {
	b := New(nil, nil, nil)

	b.Write(0x0000, 0x42)

	for _, mirror := range []uint16{0x0000, 0x0800, 0x1000, 0x1800} {
		if got := b.Read(mirror); got != 0x42 {
			t.Errorf("Read(%#04x) = %#02x, want 0x42", mirror, got)
		}
	}
}

func TestPPURegisters_MirroredEvery8Bytes(t *testing.T) {
	ppu := newStubPPU()
	b := New(ppu, nil, nil)

	b.Write(0x2001, 0x10)
	if ppu.writes[0x2001] != 0x10 {
		t.Fatalf("expected write forwarded to $2001, got %v", ppu.writes)
	}

	b.Write(0x2009, 0x20) // mirrors $2001
	if ppu.writes[0x2001] != 0x20 {
		t.Errorf("expected $2009 to mirror onto $2001, got %#02x", ppu.writes[0x2001])
	}

	ppu.reads[0x2002] = 0x80
	if got := b.Read(0x200A); got != 0x80 { // mirrors $2002
		t.Errorf("Read($200A) = %#02x, want 0x80 (mirrors $2002)", got)
	}
}

func TestController_RoutedAt4016(t *testing.T) {
	input := newStubInput()
	b := New(nil, input, nil)

	b.Write(0x4016, 0x01)
	if input.writes[0x4016] != 0x01 {
		t.Fatalf("expected strobe write forwarded, got %v", input.writes)
	}

	input.reads[0x4016] = 0x01
	if got := b.Read(0x4016); got != 0x01 {
		t.Errorf("Read($4016) = %#02x, want 0x01", got)
	}
}

func TestCartridgeWindow_PRGRAMAndROM(t *testing.T) {
	cart := &stubCartridge{}
	b := New(nil, nil, cart)

	b.Write(0x6123, 0x55)
	if got := b.Read(0x6123); got != 0x55 {
		t.Errorf("Read($6123) = %#02x, want 0x55", got)
	}

	cart.prg[0x8000] = 0xAB
	if got := b.Read(0x8000); got != 0xAB {
		t.Errorf("Read($8000) = %#02x, want 0xAB", got)
	}
}

func TestCartridgeWrite_ROMAddressRecordsWriteToROMError(t *testing.T) {
	cart := &stubCartridge{}
	b := New(nil, nil, cart)

	b.Write(0x8000, 0x99)

	err := b.TakeWriteToROMError()
	if err == nil {
		t.Fatal("expected WriteToROM error after writing to $8000")
	}
	if err.Addr != 0x8000 {
		t.Errorf("error.Addr = %#04x, want 0x8000", err.Addr)
	}

	if again := b.TakeWriteToROMError(); again != nil {
		t.Error("expected TakeWriteToROMError to clear after first read")
	}
}

func TestOAMDMA_InvokesCallbackWithPage(t *testing.T) {
	b := New(nil, nil, nil)
	var gotPage uint8
	called := false
	b.SetDMACallback(func(page uint8) {
		called = true
		gotPage = page
	})

	b.Write(0x4014, 0x02)

	if !called {
		t.Fatal("expected DMA callback to be invoked")
	}
	if gotPage != 0x02 {
		t.Errorf("page = %#02x, want 0x02", gotPage)
	}
}

func TestUnwiredPorts_ReadZeroInsteadOfPanicking(t *testing.T) {
	b := New(nil, nil, nil)

	if got := b.Read(0x2002); got != 0 {
		t.Errorf("Read($2002) with no PPU wired = %#02x, want 0", got)
	}
	if got := b.Read(0x4016); got != 0 {
		t.Errorf("Read($4016) with no input wired = %#02x, want 0", got)
	}
	if got := b.Read(0x8000); got != 0 {
		t.Errorf("Read($8000) with no cartridge wired = %#02x, want 0", got)
	}
}
