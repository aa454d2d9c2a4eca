// Package bus decodes the CPU's 16-bit address space, routing reads and
// writes to internal RAM, the PPU register port, the controller port, and
// the cartridge window.
package bus

import "nescore/internal/neserr"

// PPUPort is the register surface the PPU exposes at $2000-$2007.
type PPUPort interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// InputPort is the controller strobe/shift-register surface at $4016.
type InputPort interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Cartridge is the $6000-$FFFF PRG window a loaded ROM exposes.
type Cartridge interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	IsROMAddress(address uint16) bool
}

// Bus is the CPU-side address decoder. It owns the console's 2KB of
// internal work RAM directly and forwards everything else to the
// component registered for that range.
type Bus struct {
	ram       [0x0800]uint8
	ppu       PPUPort
	input     InputPort
	cartridge Cartridge

	// dmaCallback runs when the CPU writes $4014 (OAMDMA). It receives the
	// high byte of the source page; the host is responsible for running
	// the 256-byte copy and accounting for the stall cycles it costs.
	dmaCallback func(page uint8)

	lastWriteToROM *neserr.Error
}

// New creates a Bus. ppu, input, and cartridge may be nil during early
// bring-up; reads from an unwired port return 0 rather than panicking.
func New(ppu PPUPort, input InputPort, cartridge Cartridge) *Bus {
	return &Bus{ppu: ppu, input: input, cartridge: cartridge}
}

// SetDMACallback registers the host's OAM DMA handler, invoked on writes to
// $4014.
func (b *Bus) SetDMACallback(fn func(page uint8)) { b.dmaCallback = fn }

// Read implements cpu.Bus.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address&0x07FF]

	case address < 0x4000:
		if b.ppu == nil {
			return 0
		}
		return b.ppu.ReadRegister(0x2000 + (address & 0x0007))

	case address == 0x4016 || address == 0x4017:
		if b.input == nil {
			return 0
		}
		return b.input.Read(address)

	case address < 0x4020:
		// Remaining APU registers are write-only; reading them is not a
		// bus error on real hardware (it returns open-bus noise), but the
		// core has no APU state to return, so it reports 0.
		return 0

	case address >= 0x6000:
		if b.cartridge == nil {
			return 0
		}
		return b.cartridge.ReadPRG(address)

	default:
		return 0
	}
}

// Write implements cpu.Bus.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address&0x07FF] = value

	case address < 0x4000:
		if b.ppu != nil {
			b.ppu.WriteRegister(0x2000+(address&0x0007), value)
		}

	case address == 0x4014:
		if b.dmaCallback != nil {
			b.dmaCallback(value)
		}

	case address == 0x4016:
		if b.input != nil {
			b.input.Write(address, value)
		}

	case address < 0x4020:
		// APU sound registers: stubbed, writes are accepted and dropped.

	case address >= 0x6000:
		if b.cartridge != nil {
			if b.cartridge.IsROMAddress(address) {
				b.lastWriteToROM = neserr.NewWriteToROM(address)
			}
			b.cartridge.WritePRG(address, value)
		}

	default:
	}
}

// TakeWriteToROMError returns and clears the most recent rejected write to
// cartridge ROM, or nil if none occurred since the last call. The CPU's
// Bus interface has no room for an error return on Write, so hosts that
// want to surface neserr.WriteToROM poll this after driving the CPU.
func (b *Bus) TakeWriteToROMError() *neserr.Error {
	err := b.lastWriteToROM
	b.lastWriteToROM = nil
	return err
}
