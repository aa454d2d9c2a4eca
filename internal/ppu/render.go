package ppu

import "nescore/internal/frame"

const (
	tileSize       = 8
	tilesPerRow    = 32
	tilesPerColumn = 30
	nameTableBase  = 0x2000
	attrTableBase  = 0x23C0
)

// patternTableBase reports which 4KB pattern table ($0000 or $1000) the
// background tiles are fetched from, per PPUCTRL bit 4.
func (p *PPU) patternTableBase() uint16 {
	if p.ctrl&0x10 != 0 {
		return 0x1000
	}
	return 0x0000
}

// Render composites one full frame from the first nametable into f. Unlike
// hardware, which paints one pixel per PPU cycle across 240 scanlines, this
// walks the 30x32 tile grid directly: for each tile it fetches the 16-byte
// pattern (low and high bitplanes), decodes 2-bit pixel values, resolves
// them against the tile's attribute-table palette, and writes 64 pixels to
// f. It does not model sprites, scrolling, or per-scanline timing.
func (p *PPU) Render(f *frame.Frame) {
	base := p.patternTableBase()

	for ty := 0; ty < tilesPerColumn; ty++ {
		for tx := 0; tx < tilesPerRow; tx++ {
			tileIndex := p.mem.Read(nameTableBase + uint16(ty*tilesPerRow+tx))
			paletteIndex := p.backgroundPaletteIndex(tx, ty)
			p.renderTile(f, base, tileIndex, paletteIndex, tx*tileSize, ty*tileSize)
		}
	}
}

// backgroundPaletteIndex resolves the 2-bit palette select for the tile at
// (tx, ty) from its entry in the 64-byte attribute table: each attribute
// byte covers a 4x4 tile block, packed as four 2-bit fields for its 2x2
// quadrants of 2x2 tiles.
func (p *PPU) backgroundPaletteIndex(tx, ty int) uint8 {
	attrX := tx / 4
	attrY := ty / 4
	attrByte := p.mem.Read(attrTableBase + uint16(attrY*8+attrX))

	shift := uint(0)
	if tx%4 >= 2 {
		shift += 2
	}
	if ty%4 >= 2 {
		shift += 4
	}
	return (attrByte >> shift) & 0x03
}

func (p *PPU) renderTile(f *frame.Frame, patternBase uint16, tileIndex, paletteIndex uint8, originX, originY int) {
	addr := patternBase + uint16(tileIndex)*16
	for row := 0; row < tileSize; row++ {
		low := p.mem.Read(addr + uint16(row))
		high := p.mem.Read(addr + uint16(row) + 8)
		for col := 0; col < tileSize; col++ {
			shift := uint(7 - col)
			value := ((high>>shift)&1)<<1 | (low>>shift)&1
			color := p.colorFromPalette(paletteIndex, value)
			f.SetPixel(originX+col, originY+row, color.R, color.G, color.B)
		}
	}
}

// ShowTile renders a single 8x8 pattern-table tile at the frame origin,
// bypassing the nametable and attribute table entirely. It's a debugging
// aid for inspecting CHR data directly rather than a full-frame operation.
func (p *PPU) ShowTile(f *frame.Frame, table int, tileIndex uint8, paletteIndex uint8) {
	base := uint16(0x0000)
	if table != 0 {
		base = 0x1000
	}
	p.renderTile(f, base, tileIndex, paletteIndex, 0, 0)
}
