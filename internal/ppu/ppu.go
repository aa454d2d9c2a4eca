// Package ppu implements the NES Picture Processing Unit's CPU-visible
// register surface and a single-shot tile compositor, grounded on the
// 2C02's documented behavior but deliberately not cycle- or scanline-exact:
// the host asks for a rendered frame once rendering is due, rather than
// clocking the PPU once per pixel.
package ppu

import (
	"nescore/internal/cartridge"
	"nescore/internal/neserr"
)

// PPU is the picture processing unit register file plus its own 14-bit
// memory space (nametables, palette) and OAM.
type PPU struct {
	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002
	oamAddr uint8 // $2003
	oam    [256]uint8

	vramAddr   uint16 // current VRAM address (v), 14 bits
	tempAddr   uint16 // temporary VRAM address (t), loaded by the second write
	fineX      uint8
	writeLatch bool // toggles between first/second write of $2005/$2006

	readBuffer uint8

	mem *vram

	nmiCallback func()

	lastInvalidRead *neserr.Error
}

// New creates a PPU with its pattern-table window bound to chr and its
// nametable layout bound to mirroring. Both are normally the loaded
// cartridge.
func New(chr Chr, mirroring cartridge.Mirroring) *PPU {
	return &PPU{mem: newVRAM(chr, mirroring)}
}

// SetNMICallback registers the function the PPU invokes when it asserts
// NMI: PPUCTRL's NMI-enable bit is set and vertical blank starts. The host
// wires this to the CPU's SetNMI/NMI entry point.
func (p *PPU) SetNMICallback(fn func()) { p.nmiCallback = fn }

// Reset returns the PPU to its documented power-up register state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.vramAddr, p.tempAddr, p.fineX = 0, 0, 0
	p.writeLatch = false
	p.readBuffer = 0
}

// ReadRegister implements the CPU-facing $2000-$2007 port, already resolved
// to its canonical address by the bus's mirroring.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		status := p.status
		p.status &^= 0x80 // clear VBL flag
		p.writeLatch = false
		return status
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readData()
	default:
		// $2000, $2001, $2003, $2005, $2006 are write-only.
		p.lastInvalidRead = neserr.NewInvalidRead(address)
		return 0
	}
}

// TakeInvalidReadError returns and clears the most recent read from a
// write-only register port, or nil if none occurred since the last call.
// ReadRegister has no error return of its own, so hosts that want to
// surface neserr.InvalidRead poll this after driving the CPU.
func (p *PPU) TakeInvalidReadError() *neserr.Error {
	err := p.lastInvalidRead
	p.lastInvalidRead = nil
	return err
}

// WriteRegister implements the CPU-facing $2000-$2007 port.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x2000:
		p.ctrl = value
		p.tempAddr = (p.tempAddr & 0xF3FF) | (uint16(value&0x03) << 10)
	case 0x2001:
		p.mask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writeScroll(value)
	case 0x2006:
		p.writeAddr(value)
	case 0x2007:
		p.writeData(value)
	}
}

// WriteOAMByte supports OAM DMA: the bus copies 256 bytes from a CPU page
// into OAM starting at the current OAMADDR, wrapping at 256.
func (p *PPU) WriteOAMByte(offset uint8, value uint8) {
	p.oam[p.oamAddr+offset] = value
}

func (p *PPU) writeScroll(value uint8) {
	if !p.writeLatch {
		p.tempAddr = (p.tempAddr & 0xFFE0) | uint16(value>>3)
		p.fineX = value & 0x07
	} else {
		p.tempAddr = (p.tempAddr & 0x8FFF) | (uint16(value&0x07) << 12)
		p.tempAddr = (p.tempAddr & 0xFC1F) | (uint16(value&0xF8) << 2)
	}
	p.writeLatch = !p.writeLatch
}

func (p *PPU) writeAddr(value uint8) {
	if !p.writeLatch {
		p.tempAddr = (p.tempAddr & 0x80FF) | (uint16(value&0x3F) << 8)
	} else {
		p.tempAddr = (p.tempAddr & 0xFF00) | uint16(value)
		p.vramAddr = p.tempAddr
	}
	p.writeLatch = !p.writeLatch
}

func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	var data uint8
	if p.vramAddr >= 0x3F00 {
		// Palette reads aren't buffered; the buffer is instead refreshed
		// from the nametable mirror underneath the palette address.
		data = p.mem.Read(p.vramAddr)
		p.readBuffer = p.mem.Read(p.vramAddr & 0x2FFF)
	} else {
		data = p.readBuffer
		p.readBuffer = p.mem.Read(p.vramAddr)
	}
	p.vramAddr = (p.vramAddr + p.addrIncrement()) & 0x3FFF
	return data
}

func (p *PPU) writeData(value uint8) {
	p.mem.Write(p.vramAddr, value)
	p.vramAddr = (p.vramAddr + p.addrIncrement()) & 0x3FFF
}

// BeginVBlank sets the VBL status flag and fires NMI if PPUCTRL enables it.
// The host calls this once per frame, after Render, to drive the CPU's
// vertical-blank interrupt the way hardware does at the start of scanline
// 241.
func (p *PPU) BeginVBlank() {
	p.status |= 0x80
	if p.ctrl&0x80 != 0 && p.nmiCallback != nil {
		p.nmiCallback()
	}
}

// EndVBlank clears the VBL status flag, as hardware does at the pre-render
// line before the next frame's visible scanlines begin.
func (p *PPU) EndVBlank() {
	p.status &^= 0x80
}
