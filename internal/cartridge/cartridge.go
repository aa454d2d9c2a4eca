// Package cartridge loads iNES ROM images and exposes the PRG/CHR windows
// the CPU and PPU buses read through, behind a pluggable Mapper.
package cartridge

import "nescore/internal/neserr"

const sramSize = 0x2000

// Cartridge is a loaded ROM image: PRG-ROM, CHR-ROM (or CHR-RAM when the
// header reports zero CHR pages), on-board PRG-RAM, and the mapper that
// interprets CPU/PPU addresses against them.
type Cartridge struct {
	prgROM    []byte
	chrROM    []byte
	sram      [sramSize]byte
	hasCHRRAM bool
	mirroring Mirroring
	mapperID  uint8
	mapper    mapper
}

// mapper is the bank-switching contract a cartridge's chip delegates to.
// Only NROM (mapper 0) is implemented; an unrecognized mapper id fails at
// Load time with UnsupportedFormat rather than silently misbehaving.
type mapper interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// Load parses a raw iNES file image into a Cartridge ready for use.
func Load(data []byte) (*Cartridge, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{
		mirroring: h.mirroring,
		mapperID:  h.mapperID,
	}

	prgLen := int(h.prgPages) * prgPageSize
	if h.prgStart+prgLen > len(data) {
		return nil, neserr.NewUnsupportedFormat("PRG-ROM extends past end of file")
	}
	c.prgROM = append([]byte(nil), data[h.prgStart:h.prgStart+prgLen]...)

	if h.chrPages == 0 {
		c.hasCHRRAM = true
		c.chrROM = make([]byte, chrPageSize)
	} else {
		chrLen := int(h.chrPages) * chrPageSize
		if h.chrStart+chrLen > len(data) {
			return nil, neserr.NewUnsupportedFormat("CHR-ROM extends past end of file")
		}
		c.chrROM = append([]byte(nil), data[h.chrStart:h.chrStart+chrLen]...)
	}

	switch h.mapperID {
	case 0:
		c.mapper = newNROM(c)
	default:
		return nil, neserr.NewUnsupportedFormat("unsupported mapper id")
	}

	return c, nil
}

// Mirroring reports the nametable mirroring mode declared by the header.
func (c *Cartridge) Mirroring() Mirroring { return c.mirroring }

// ReadPRG reads a byte from the $6000-$FFFF cartridge window on the CPU bus.
func (c *Cartridge) ReadPRG(address uint16) uint8 { return c.mapper.ReadPRG(address) }

// WritePRG writes a byte into the $6000-$FFFF cartridge window. Writes that
// land on PRG-ROM are silently dropped by the mapper, per NROM hardware
// behavior; callers that need to surface this as an error kind should check
// the address range themselves before calling (the bus package does).
func (c *Cartridge) WritePRG(address uint16, value uint8) { c.mapper.WritePRG(address, value) }

// ReadCHR reads a byte from the $0000-$1FFF pattern-table window on the PPU
// bus.
func (c *Cartridge) ReadCHR(address uint16) uint8 { return c.mapper.ReadCHR(address) }

// WriteCHR writes a byte into the pattern-table window; a no-op unless the
// cartridge reports CHR-RAM.
func (c *Cartridge) WriteCHR(address uint16, value uint8) { c.mapper.WriteCHR(address, value) }

// IsROMAddress reports whether address falls in the PRG-ROM region of the
// cartridge window, used by the bus to decide whether a CPU write should be
// reported as WriteToROM.
func (c *Cartridge) IsROMAddress(address uint16) bool { return address >= 0x8000 }
