// Package nes wires the CPU, PPU, bus, cartridge, and controller into a
// single console and exposes the clock-driven contract a host drives.
package nes

import (
	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/frame"
	"nescore/internal/input"
	"nescore/internal/neserr"
	"nescore/internal/ppu"
)

// System is a complete, loaded console: CPU, PPU, cartridge, and one
// controller, connected through the CPU bus.
type System struct {
	CPU        *cpu.CPU
	PPU        *ppu.PPU
	Bus        *bus.Bus
	Cartridge  *cartridge.Cartridge
	Controller *input.Controller
}

// Load parses romData as an iNES image and returns a System ready to Reset
// and run. The cartridge's mapper and mirroring mode drive both the CPU
// bus's PRG window and the PPU's pattern-table/nametable wiring.
func Load(romData []byte) (*System, error) {
	cart, err := cartridge.Load(romData)
	if err != nil {
		return nil, err
	}

	ppuUnit := ppu.New(cart, cart.Mirroring())
	controller := input.New()
	cpuBus := bus.New(ppuUnit, controller, cart)

	s := &System{
		CPU:        cpu.New(cpuBus),
		PPU:        ppuUnit,
		Bus:        cpuBus,
		Cartridge:  cart,
		Controller: controller,
	}
	s.PPU.SetNMICallback(s.CPU.NMI)
	s.Bus.SetDMACallback(s.beginOAMDMA)
	return s, nil
}

// Reset brings the CPU and PPU to their documented power-up state.
func (s *System) Reset() {
	s.CPU.Reset()
	s.PPU.Reset()
	s.Controller.Reset()
}

// Clock advances the CPU by one cycle, per cpu.CPU.Clock's deferred-cost
// model. Hosts that want to run a full frame call this in a loop and call
// Render once they've clocked enough cycles for one frame (see RunFrame
// for the common case).
func (s *System) Clock() {
	s.CPU.Clock()
}

// cyclesPerFrame approximates the NTSC frame cadence closely enough for a
// non-cycle-exact renderer: the host doesn't need scanline timing, only a
// point at which to call Render and toggle vertical blank.
const cyclesPerFrame = 29780

// RunFrame clocks the CPU for one frame's worth of cycles, then renders
// into f and drives the PPU's vertical-blank interrupt the way hardware
// would at the end of the visible scanlines.
func (s *System) RunFrame(f *frame.Frame) {
	for i := 0; i < cyclesPerFrame; i++ {
		s.Clock()
	}
	s.PPU.Render(f)
	s.PPU.BeginVBlank()
	s.PPU.EndVBlank()
}

// beginOAMDMA runs the bus's OAM DMA: 256 bytes from page*0x100 in CPU
// address space are copied into OAM starting at the PPU's current OAMADDR.
// Real hardware stalls the CPU for 513-514 cycles during this; the core
// does not model that stall, matching its non-goal of cycle-exact timing.
func (s *System) beginOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		value := s.Bus.Read(base + uint16(i))
		s.PPU.WriteOAMByte(uint8(i), value)
	}
}

// WriteToROMError reports the most recent CPU write that was rejected
// because it targeted cartridge PRG-ROM, clearing it on read. Returns nil
// if no such write has happened since the last call.
func (s *System) WriteToROMError() *neserr.Error {
	return s.Bus.TakeWriteToROMError()
}

// IllegalOpcodeError reports the most recent byte the CPU fetched with no
// entry in its decode table, clearing it on read. Returns nil if no such
// fetch has happened since the last call.
func (s *System) IllegalOpcodeError() *neserr.Error {
	return s.CPU.TakeIllegalOpcodeError()
}

// InvalidReadError reports the most recent CPU read from a write-only PPU
// register port, clearing it on read. Returns nil if no such read has
// happened since the last call.
func (s *System) InvalidReadError() *neserr.Error {
	return s.PPU.TakeInvalidReadError()
}
