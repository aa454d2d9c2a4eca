package cpu

// AddressingMode names how an opcode's operand bytes resolve to an
// effective address.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// Instruction is one row of the opcode table: its mnemonic (for tooling,
// not used by dispatch), byte length, base cycle cost, and addressing mode.
type Instruction struct {
	Name   string
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
}

// instructionTable is indexed directly by opcode byte. Every one of the 256
// slots is populated: documented opcodes with their real mnemonics, and the
// stable illegal opcodes with their conventional unofficial names. Bytes
// left over after both of those passes are not valid 6502 opcodes at all;
// they get a one-byte filler entry so the CPU can still advance past them,
// but illegalOpcode marks them so step() raises IllegalOpcode instead of
// silently treating them as a real instruction.
var instructionTable [256]Instruction

// illegalOpcode marks opcode bytes with no real 6502 mnemonic. step() checks
// this before executing and raises neserr.IllegalOpcode for a true hit,
// distinguishing "unassigned byte" from the legitimate unofficial NOPs and
// stable illegal opcodes assigned below, which all clear their own bit.
var illegalOpcode [256]bool

// readPenaltyOpcode marks opcodes that pay one extra cycle when their
// indexed/indirect-indexed addressing crosses a page boundary. Branch
// instructions compute their own page-cross penalty in the branch helpers
// and are not listed here; unconditional-write opcodes pay the page-cross
// cost unconditionally via their table entry's Cycles and are also excluded.
var readPenaltyOpcode [256]bool

func init() {
	t := func(op uint8, name string, bytes, cycles uint8, mode AddressingMode) {
		instructionTable[op] = Instruction{name, bytes, cycles, mode}
		illegalOpcode[op] = false
	}
	for i := range instructionTable {
		instructionTable[i] = Instruction{"???", 1, 2, Implied}
		illegalOpcode[i] = true
	}

	// Load/Store
	t(0xA9, "LDA", 2, 2, Immediate)
	t(0xA5, "LDA", 2, 3, ZeroPage)
	t(0xB5, "LDA", 2, 4, ZeroPageX)
	t(0xAD, "LDA", 3, 4, Absolute)
	t(0xBD, "LDA", 3, 4, AbsoluteX)
	t(0xB9, "LDA", 3, 4, AbsoluteY)
	t(0xA1, "LDA", 2, 6, IndexedIndirect)
	t(0xB1, "LDA", 2, 5, IndirectIndexed)

	t(0xA2, "LDX", 2, 2, Immediate)
	t(0xA6, "LDX", 2, 3, ZeroPage)
	t(0xB6, "LDX", 2, 4, ZeroPageY)
	t(0xAE, "LDX", 3, 4, Absolute)
	t(0xBE, "LDX", 3, 4, AbsoluteY)

	t(0xA0, "LDY", 2, 2, Immediate)
	t(0xA4, "LDY", 2, 3, ZeroPage)
	t(0xB4, "LDY", 2, 4, ZeroPageX)
	t(0xAC, "LDY", 3, 4, Absolute)
	t(0xBC, "LDY", 3, 4, AbsoluteX)

	t(0x85, "STA", 2, 3, ZeroPage)
	t(0x95, "STA", 2, 4, ZeroPageX)
	t(0x8D, "STA", 3, 4, Absolute)
	t(0x9D, "STA", 3, 5, AbsoluteX)
	t(0x99, "STA", 3, 5, AbsoluteY)
	t(0x81, "STA", 2, 6, IndexedIndirect)
	t(0x91, "STA", 2, 6, IndirectIndexed)

	t(0x86, "STX", 2, 3, ZeroPage)
	t(0x96, "STX", 2, 4, ZeroPageY)
	t(0x8E, "STX", 3, 4, Absolute)

	t(0x84, "STY", 2, 3, ZeroPage)
	t(0x94, "STY", 2, 4, ZeroPageX)
	t(0x8C, "STY", 3, 4, Absolute)

	// Arithmetic
	t(0x69, "ADC", 2, 2, Immediate)
	t(0x65, "ADC", 2, 3, ZeroPage)
	t(0x75, "ADC", 2, 4, ZeroPageX)
	t(0x6D, "ADC", 3, 4, Absolute)
	t(0x7D, "ADC", 3, 4, AbsoluteX)
	t(0x79, "ADC", 3, 4, AbsoluteY)
	t(0x61, "ADC", 2, 6, IndexedIndirect)
	t(0x71, "ADC", 2, 5, IndirectIndexed)

	t(0xE9, "SBC", 2, 2, Immediate)
	t(0xEB, "SBC", 2, 2, Immediate) // unofficial duplicate
	t(0xE5, "SBC", 2, 3, ZeroPage)
	t(0xF5, "SBC", 2, 4, ZeroPageX)
	t(0xED, "SBC", 3, 4, Absolute)
	t(0xFD, "SBC", 3, 4, AbsoluteX)
	t(0xF9, "SBC", 3, 4, AbsoluteY)
	t(0xE1, "SBC", 2, 6, IndexedIndirect)
	t(0xF1, "SBC", 2, 5, IndirectIndexed)

	// Logical
	t(0x29, "AND", 2, 2, Immediate)
	t(0x25, "AND", 2, 3, ZeroPage)
	t(0x35, "AND", 2, 4, ZeroPageX)
	t(0x2D, "AND", 3, 4, Absolute)
	t(0x3D, "AND", 3, 4, AbsoluteX)
	t(0x39, "AND", 3, 4, AbsoluteY)
	t(0x21, "AND", 2, 6, IndexedIndirect)
	t(0x31, "AND", 2, 5, IndirectIndexed)

	t(0x09, "ORA", 2, 2, Immediate)
	t(0x05, "ORA", 2, 3, ZeroPage)
	t(0x15, "ORA", 2, 4, ZeroPageX)
	t(0x0D, "ORA", 3, 4, Absolute)
	t(0x1D, "ORA", 3, 4, AbsoluteX)
	t(0x19, "ORA", 3, 4, AbsoluteY)
	t(0x01, "ORA", 2, 6, IndexedIndirect)
	t(0x11, "ORA", 2, 5, IndirectIndexed)

	t(0x49, "EOR", 2, 2, Immediate)
	t(0x45, "EOR", 2, 3, ZeroPage)
	t(0x55, "EOR", 2, 4, ZeroPageX)
	t(0x4D, "EOR", 3, 4, Absolute)
	t(0x5D, "EOR", 3, 4, AbsoluteX)
	t(0x59, "EOR", 3, 4, AbsoluteY)
	t(0x41, "EOR", 2, 6, IndexedIndirect)
	t(0x51, "EOR", 2, 5, IndirectIndexed)

	// Shift/Rotate
	t(0x0A, "ASL", 1, 2, Accumulator)
	t(0x06, "ASL", 2, 5, ZeroPage)
	t(0x16, "ASL", 2, 6, ZeroPageX)
	t(0x0E, "ASL", 3, 6, Absolute)
	t(0x1E, "ASL", 3, 7, AbsoluteX)

	t(0x4A, "LSR", 1, 2, Accumulator)
	t(0x46, "LSR", 2, 5, ZeroPage)
	t(0x56, "LSR", 2, 6, ZeroPageX)
	t(0x4E, "LSR", 3, 6, Absolute)
	t(0x5E, "LSR", 3, 7, AbsoluteX)

	t(0x2A, "ROL", 1, 2, Accumulator)
	t(0x26, "ROL", 2, 5, ZeroPage)
	t(0x36, "ROL", 2, 6, ZeroPageX)
	t(0x2E, "ROL", 3, 6, Absolute)
	t(0x3E, "ROL", 3, 7, AbsoluteX)

	t(0x6A, "ROR", 1, 2, Accumulator)
	t(0x66, "ROR", 2, 5, ZeroPage)
	t(0x76, "ROR", 2, 6, ZeroPageX)
	t(0x6E, "ROR", 3, 6, Absolute)
	t(0x7E, "ROR", 3, 7, AbsoluteX)

	// Compare
	t(0xC9, "CMP", 2, 2, Immediate)
	t(0xC5, "CMP", 2, 3, ZeroPage)
	t(0xD5, "CMP", 2, 4, ZeroPageX)
	t(0xCD, "CMP", 3, 4, Absolute)
	t(0xDD, "CMP", 3, 4, AbsoluteX)
	t(0xD9, "CMP", 3, 4, AbsoluteY)
	t(0xC1, "CMP", 2, 6, IndexedIndirect)
	t(0xD1, "CMP", 2, 5, IndirectIndexed)

	t(0xE0, "CPX", 2, 2, Immediate)
	t(0xE4, "CPX", 2, 3, ZeroPage)
	t(0xEC, "CPX", 3, 4, Absolute)

	t(0xC0, "CPY", 2, 2, Immediate)
	t(0xC4, "CPY", 2, 3, ZeroPage)
	t(0xCC, "CPY", 3, 4, Absolute)

	// Inc/Dec
	t(0xE6, "INC", 2, 5, ZeroPage)
	t(0xF6, "INC", 2, 6, ZeroPageX)
	t(0xEE, "INC", 3, 6, Absolute)
	t(0xFE, "INC", 3, 7, AbsoluteX)

	t(0xC6, "DEC", 2, 5, ZeroPage)
	t(0xD6, "DEC", 2, 6, ZeroPageX)
	t(0xCE, "DEC", 3, 6, Absolute)
	t(0xDE, "DEC", 3, 7, AbsoluteX)

	t(0xE8, "INX", 1, 2, Implied)
	t(0xCA, "DEX", 1, 2, Implied)
	t(0xC8, "INY", 1, 2, Implied)
	t(0x88, "DEY", 1, 2, Implied)

	// Transfer
	t(0xAA, "TAX", 1, 2, Implied)
	t(0x8A, "TXA", 1, 2, Implied)
	t(0xA8, "TAY", 1, 2, Implied)
	t(0x98, "TYA", 1, 2, Implied)
	t(0xBA, "TSX", 1, 2, Implied)
	t(0x9A, "TXS", 1, 2, Implied)

	// Stack
	t(0x48, "PHA", 1, 3, Implied)
	t(0x68, "PLA", 1, 4, Implied)
	t(0x08, "PHP", 1, 3, Implied)
	t(0x28, "PLP", 1, 4, Implied)

	// Flags
	t(0x18, "CLC", 1, 2, Implied)
	t(0x38, "SEC", 1, 2, Implied)
	t(0x58, "CLI", 1, 2, Implied)
	t(0x78, "SEI", 1, 2, Implied)
	t(0xB8, "CLV", 1, 2, Implied)
	t(0xD8, "CLD", 1, 2, Implied)
	t(0xF8, "SED", 1, 2, Implied)

	// Control flow
	t(0x4C, "JMP", 3, 3, Absolute)
	t(0x6C, "JMP", 3, 5, Indirect)
	t(0x20, "JSR", 3, 6, Absolute)
	t(0x60, "RTS", 1, 6, Implied)
	t(0x40, "RTI", 1, 6, Implied)

	// Branches
	t(0x90, "BCC", 2, 2, Relative)
	t(0xB0, "BCS", 2, 2, Relative)
	t(0xD0, "BNE", 2, 2, Relative)
	t(0xF0, "BEQ", 2, 2, Relative)
	t(0x10, "BPL", 2, 2, Relative)
	t(0x30, "BMI", 2, 2, Relative)
	t(0x50, "BVC", 2, 2, Relative)
	t(0x70, "BVS", 2, 2, Relative)

	// Misc
	t(0x24, "BIT", 2, 3, ZeroPage)
	t(0x2C, "BIT", 3, 4, Absolute)
	t(0x00, "BRK", 1, 7, Implied)
	t(0xEA, "NOP", 1, 2, Implied)

	// Unofficial NOPs
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		t(op, "NOP", 1, 2, Implied)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		t(op, "NOP", 2, 2, Immediate)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		t(op, "NOP", 2, 3, ZeroPage)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		t(op, "NOP", 2, 4, ZeroPageX)
	}
	t(0x0C, "NOP", 3, 4, Absolute)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		t(op, "NOP", 3, 4, AbsoluteX)
	}

	// Unofficial opcodes
	t(0xA3, "LAX", 2, 6, IndexedIndirect)
	t(0xA7, "LAX", 2, 3, ZeroPage)
	t(0xAF, "LAX", 3, 4, Absolute)
	t(0xB3, "LAX", 2, 5, IndirectIndexed)
	t(0xB7, "LAX", 2, 4, ZeroPageY)
	t(0xBF, "LAX", 3, 4, AbsoluteY)

	t(0x83, "SAX", 2, 6, IndexedIndirect)
	t(0x87, "SAX", 2, 3, ZeroPage)
	t(0x8F, "SAX", 3, 4, Absolute)
	t(0x97, "SAX", 2, 4, ZeroPageY)

	t(0xC3, "DCP", 2, 8, IndexedIndirect)
	t(0xC7, "DCP", 2, 5, ZeroPage)
	t(0xCF, "DCP", 3, 6, Absolute)
	t(0xD3, "DCP", 2, 8, IndirectIndexed)
	t(0xD7, "DCP", 2, 6, ZeroPageX)
	t(0xDB, "DCP", 3, 7, AbsoluteY)
	t(0xDF, "DCP", 3, 7, AbsoluteX)

	t(0xE3, "ISB", 2, 8, IndexedIndirect)
	t(0xE7, "ISB", 2, 5, ZeroPage)
	t(0xEF, "ISB", 3, 6, Absolute)
	t(0xF3, "ISB", 2, 8, IndirectIndexed)
	t(0xF7, "ISB", 2, 6, ZeroPageX)
	t(0xFB, "ISB", 3, 7, AbsoluteY)
	t(0xFF, "ISB", 3, 7, AbsoluteX)

	t(0x03, "SLO", 2, 8, IndexedIndirect)
	t(0x07, "SLO", 2, 5, ZeroPage)
	t(0x0F, "SLO", 3, 6, Absolute)
	t(0x13, "SLO", 2, 8, IndirectIndexed)
	t(0x17, "SLO", 2, 6, ZeroPageX)
	t(0x1B, "SLO", 3, 7, AbsoluteY)
	t(0x1F, "SLO", 3, 7, AbsoluteX)

	t(0x23, "RLA", 2, 8, IndexedIndirect)
	t(0x27, "RLA", 2, 5, ZeroPage)
	t(0x2F, "RLA", 3, 6, Absolute)
	t(0x33, "RLA", 2, 8, IndirectIndexed)
	t(0x37, "RLA", 2, 6, ZeroPageX)
	t(0x3B, "RLA", 3, 7, AbsoluteY)
	t(0x3F, "RLA", 3, 7, AbsoluteX)

	t(0x43, "SRE", 2, 8, IndexedIndirect)
	t(0x47, "SRE", 2, 5, ZeroPage)
	t(0x4F, "SRE", 3, 6, Absolute)
	t(0x53, "SRE", 2, 8, IndirectIndexed)
	t(0x57, "SRE", 2, 6, ZeroPageX)
	t(0x5B, "SRE", 3, 7, AbsoluteY)
	t(0x5F, "SRE", 3, 7, AbsoluteX)

	t(0x63, "RRA", 2, 8, IndexedIndirect)
	t(0x67, "RRA", 2, 5, ZeroPage)
	t(0x6F, "RRA", 3, 6, Absolute)
	t(0x73, "RRA", 2, 8, IndirectIndexed)
	t(0x77, "RRA", 2, 6, ZeroPageX)
	t(0x7B, "RRA", 3, 7, AbsoluteY)
	t(0x7F, "RRA", 3, 7, AbsoluteX)

	for _, op := range []uint8{
		0xBD, 0xB9, 0xB1, 0xBE, 0xBC, 0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31,
		0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51, 0xDD, 0xD9, 0xD1,
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
		0xBF, 0xB3, 0xB7,
	} {
		readPenaltyOpcode[op] = true
	}
}

// execute runs the semantic action for opcode at address and returns any
// extra cycles beyond the table's base cost (branch-taken penalties;
// everything else returns 0 and lets the page-cross table handle the rest).
func (c *CPU) execute(opcode uint8, address uint16, pageCrossed bool) uint8 {
	switch opcode {
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		return c.lda(address)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		return c.ldx(address)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		return c.ldy(address)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		return c.sta(address)
	case 0x86, 0x96, 0x8E:
		return c.stx(address)
	case 0x84, 0x94, 0x8C:
		return c.sty(address)

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		return c.adc(address)
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		return c.sbc(address)

	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		return c.and(address)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		return c.ora(address)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		return c.eor(address)

	case 0x0A:
		c.C = c.A&0x80 != 0
		c.A <<= 1
		c.setZN(c.A)
		return 0
	case 0x06, 0x16, 0x0E, 0x1E:
		return c.asl(address)
	case 0x4A:
		c.C = c.A&0x01 != 0
		c.A >>= 1
		c.setZN(c.A)
		return 0
	case 0x46, 0x56, 0x4E, 0x5E:
		return c.lsr(address)
	case 0x2A:
		old := c.C
		c.C = c.A&0x80 != 0
		c.A <<= 1
		if old {
			c.A |= 0x01
		}
		c.setZN(c.A)
		return 0
	case 0x26, 0x36, 0x2E, 0x3E:
		return c.rol(address)
	case 0x6A:
		old := c.C
		c.C = c.A&0x01 != 0
		c.A >>= 1
		if old {
			c.A |= 0x80
		}
		c.setZN(c.A)
		return 0
	case 0x66, 0x76, 0x6E, 0x7E:
		return c.ror(address)

	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		return c.cmp(address)
	case 0xE0, 0xE4, 0xEC:
		return c.cpx(address)
	case 0xC0, 0xC4, 0xCC:
		return c.cpy(address)

	case 0xE6, 0xF6, 0xEE, 0xFE:
		return c.inc(address)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		return c.dec(address)
	case 0xE8:
		c.X++
		c.setZN(c.X)
		return 0
	case 0xCA:
		c.X--
		c.setZN(c.X)
		return 0
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
		return 0
	case 0x88:
		c.Y--
		c.setZN(c.Y)
		return 0

	case 0xAA:
		c.X = c.A
		c.setZN(c.X)
		return 0
	case 0x8A:
		c.A = c.X
		c.setZN(c.A)
		return 0
	case 0xA8:
		c.Y = c.A
		c.setZN(c.Y)
		return 0
	case 0x98:
		c.A = c.Y
		c.setZN(c.A)
		return 0
	case 0xBA:
		c.X = c.SP
		c.setZN(c.X)
		return 0
	case 0x9A:
		c.SP = c.X
		return 0

	case 0x48:
		c.push(c.A)
		return 0
	case 0x68:
		c.A = c.pop()
		c.setZN(c.A)
		return 0
	case 0x08:
		c.push(c.statusByte() | bFlagMask)
		return 0
	case 0x28:
		c.setStatusByte(c.pop())
		return 0

	case 0x18:
		c.C = false
		return 0
	case 0x38:
		c.C = true
		return 0
	case 0x58:
		c.I = false
		return 0
	case 0x78:
		c.I = true
		return 0
	case 0xB8:
		c.V = false
		return 0
	case 0xD8:
		c.D = false
		return 0
	case 0xF8:
		c.D = true
		return 0

	case 0x4C, 0x6C:
		c.PC = address
		return 0
	case 0x20:
		c.pushWord(c.PC - 1)
		c.PC = address
		return 0
	case 0x60:
		c.PC = c.popWord() + 1
		return 0
	case 0x40:
		c.setStatusByte(c.pop())
		c.PC = c.popWord()
		return 0

	case 0x90:
		return c.branch(!c.C, address, pageCrossed)
	case 0xB0:
		return c.branch(c.C, address, pageCrossed)
	case 0xD0:
		return c.branch(!c.Z, address, pageCrossed)
	case 0xF0:
		return c.branch(c.Z, address, pageCrossed)
	case 0x10:
		return c.branch(!c.N, address, pageCrossed)
	case 0x30:
		return c.branch(c.N, address, pageCrossed)
	case 0x50:
		return c.branch(!c.V, address, pageCrossed)
	case 0x70:
		return c.branch(c.V, address, pageCrossed)

	case 0x24, 0x2C:
		value := c.bus.Read(address)
		c.N = value&nFlagMask != 0
		c.V = value&vFlagMask != 0
		c.Z = c.A&value == 0
		return 0

	case 0x00:
		c.brk()
		return 0

	case 0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF:
		return c.lax(address)
	case 0x83, 0x87, 0x8F, 0x97:
		return c.sax(address)
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDF, 0xDB:
		return c.dcp(address)
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFF, 0xFB:
		return c.isb(address)
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1F, 0x1B:
		return c.slo(address)
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3F, 0x3B:
		return c.rla(address)
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5F, 0x5B:
		return c.sre(address)
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7F, 0x7B:
		return c.rra(address)

	default:
		return 0
	}
}

func (c *CPU) lda(address uint16) uint8 {
	c.A = c.bus.Read(address)
	c.setZN(c.A)
	return 0
}

func (c *CPU) ldx(address uint16) uint8 {
	c.X = c.bus.Read(address)
	c.setZN(c.X)
	return 0
}

func (c *CPU) ldy(address uint16) uint8 {
	c.Y = c.bus.Read(address)
	c.setZN(c.Y)
	return 0
}

func (c *CPU) sta(address uint16) uint8 {
	c.bus.Write(address, c.A)
	return 0
}

func (c *CPU) stx(address uint16) uint8 {
	c.bus.Write(address, c.X)
	return 0
}

func (c *CPU) sty(address uint16) uint8 {
	c.bus.Write(address, c.Y)
	return 0
}

func (c *CPU) adc(address uint16) uint8 {
	value := c.bus.Read(address)
	var carry uint16
	if c.C {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + carry
	c.V = (c.A^uint8(result))&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = result > 0xFF
	c.A = uint8(result)
	c.setZN(c.A)
	return 0
}

func (c *CPU) sbc(address uint16) uint8 {
	value := c.bus.Read(address) ^ 0xFF
	var carry uint16
	if c.C {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + carry
	c.V = (c.A^uint8(result))&0x80 != 0 && (c.A^value)&0x80 == 0
	c.C = result > 0xFF
	c.A = uint8(result)
	c.setZN(c.A)
	return 0
}

func (c *CPU) and(address uint16) uint8 {
	c.A &= c.bus.Read(address)
	c.setZN(c.A)
	return 0
}

func (c *CPU) ora(address uint16) uint8 {
	c.A |= c.bus.Read(address)
	c.setZN(c.A)
	return 0
}

func (c *CPU) eor(address uint16) uint8 {
	c.A ^= c.bus.Read(address)
	c.setZN(c.A)
	return 0
}

func (c *CPU) asl(address uint16) uint8 {
	value := c.bus.Read(address)
	c.C = value&0x80 != 0
	value <<= 1
	c.bus.Write(address, value)
	c.setZN(value)
	return 0
}

func (c *CPU) lsr(address uint16) uint8 {
	value := c.bus.Read(address)
	c.C = value&0x01 != 0
	value >>= 1
	c.bus.Write(address, value)
	c.setZN(value)
	return 0
}

func (c *CPU) rol(address uint16) uint8 {
	value := c.bus.Read(address)
	old := c.C
	c.C = value&0x80 != 0
	value <<= 1
	if old {
		value |= 0x01
	}
	c.bus.Write(address, value)
	c.setZN(value)
	return 0
}

func (c *CPU) ror(address uint16) uint8 {
	value := c.bus.Read(address)
	old := c.C
	c.C = value&0x01 != 0
	value >>= 1
	if old {
		value |= 0x80
	}
	c.bus.Write(address, value)
	c.setZN(value)
	return 0
}

func (c *CPU) cmp(address uint16) uint8 {
	value := c.bus.Read(address)
	c.C = c.A >= value
	c.setZN(c.A - value)
	return 0
}

func (c *CPU) cpx(address uint16) uint8 {
	value := c.bus.Read(address)
	c.C = c.X >= value
	c.setZN(c.X - value)
	return 0
}

func (c *CPU) cpy(address uint16) uint8 {
	value := c.bus.Read(address)
	c.C = c.Y >= value
	c.setZN(c.Y - value)
	return 0
}

func (c *CPU) inc(address uint16) uint8 {
	value := c.bus.Read(address) + 1
	c.bus.Write(address, value)
	c.setZN(value)
	return 0
}

func (c *CPU) dec(address uint16) uint8 {
	value := c.bus.Read(address) - 1
	c.bus.Write(address, value)
	c.setZN(value)
	return 0
}

func (c *CPU) branch(take bool, address uint16, pageCrossed bool) uint8 {
	if !take {
		return 0
	}
	c.PC = address
	if pageCrossed {
		return 2
	}
	return 1
}

func (c *CPU) brk() {
	c.PC++
	c.pushInterruptFrame(irqVector, true)
}

// --- Stable illegal opcodes ---

func (c *CPU) lax(address uint16) uint8 {
	c.A = c.bus.Read(address)
	c.X = c.A
	c.setZN(c.A)
	return 0
}

func (c *CPU) sax(address uint16) uint8 {
	c.bus.Write(address, c.A&c.X)
	return 0
}

func (c *CPU) dcp(address uint16) uint8 {
	value := c.bus.Read(address) - 1
	c.bus.Write(address, value)
	c.C = c.A >= value
	c.setZN(c.A - value)
	return 0
}

func (c *CPU) isb(address uint16) uint8 {
	value := c.bus.Read(address) + 1
	c.bus.Write(address, value)
	return c.sbc(address)
}

func (c *CPU) slo(address uint16) uint8 {
	value := c.bus.Read(address)
	c.C = value&0x80 != 0
	value <<= 1
	c.bus.Write(address, value)
	c.A |= value
	c.setZN(c.A)
	return 0
}

func (c *CPU) rla(address uint16) uint8 {
	value := c.bus.Read(address)
	old := c.C
	c.C = value&0x80 != 0
	value <<= 1
	if old {
		value |= 0x01
	}
	c.bus.Write(address, value)
	c.A &= value
	c.setZN(c.A)
	return 0
}

func (c *CPU) sre(address uint16) uint8 {
	value := c.bus.Read(address)
	c.C = value&0x01 != 0
	value >>= 1
	c.bus.Write(address, value)
	c.A ^= value
	c.setZN(c.A)
	return 0
}

func (c *CPU) rra(address uint16) uint8 {
	value := c.bus.Read(address)
	old := c.C
	c.C = value&0x01 != 0
	value >>= 1
	if old {
		value |= 0x80
	}
	c.bus.Write(address, value)
	return c.adc(address)
}
