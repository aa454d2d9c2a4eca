// Package cpu implements a MOS 6502 interpreter: registers, addressing
// modes, the full legal and stable-illegal opcode set, and interrupt
// sequencing, driven one clock at a time by a host-owned bus.
package cpu

import "nescore/internal/neserr"

const (
	stackBase = 0x0100

	nFlagMask  uint8 = 0x80
	vFlagMask  uint8 = 0x40
	unusedMask uint8 = 0x20
	bFlagMask  uint8 = 0x10
	dFlagMask  uint8 = 0x08
	iFlagMask  uint8 = 0x04
	zFlagMask  uint8 = 0x02
	cFlagMask  uint8 = 0x01

	pageMask = 0xFF00

	resetVector uint16 = 0xFFFC
	nmiVector   uint16 = 0xFFFA
	irqVector   uint16 = 0xFFFE
)

// Bus is the address-decoded memory the CPU reads instructions and operands
// through. A single shared implementation (the console's bus package) is
// expected to sit behind it.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU is a 6502 core. It does not own a cycle budget itself: the host drives
// execution by calling Clock repeatedly, once per CPU cycle.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	// C, Z, I, D, V, N are the six flags that live in the status register.
	// B is not a register bit at all — per the status-byte invariant, it's
	// synthesized only at push time (set for BRK/PHP, clear for NMI/IRQ)
	// and never stored, so there is no corresponding field here.
	C bool
	Z bool
	I bool
	D bool
	V bool
	N bool

	bus Bus

	// pending is the number of clocks left to "spend" before the next
	// instruction is fetched. Clock() decrements it instead of doing work
	// when it's non-zero, so an instruction's cost is smeared across that
	// many subsequent calls rather than paid all at once.
	pending uint16

	totalCycles uint64

	nmiPending  bool
	nmiPrevious bool
	irqLine     bool

	lastIllegalOpcode *neserr.Error
}

// New creates a CPU wired to the given bus. Call Reset before the first
// Clock to bring it to the documented power-up state.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset drives the 6502's reset sequence: registers to their documented
// power-up values, stack pointer to $FD, and PC loaded from the reset
// vector at $FFFC/$FFFD. It costs 7 cycles of bus activity, matching
// hardware, but Reset itself is synchronous — only steady-state execution
// goes through the deferred Clock model.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD

	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true

	for i := 0; i < 5; i++ {
		c.bus.Read(c.PC)
		c.totalCycles++
	}

	low := uint16(c.bus.Read(resetVector))
	high := uint16(c.bus.Read(resetVector + 1))
	c.PC = (high << 8) | low
	c.totalCycles += 2

	c.pending = 0
}

// SetNMI latches the NMI line. The CPU takes the interrupt on the next
// falling edge (true -> false), matching how the PPU asserts it for one
// cycle at the start of vertical blank.
func (c *CPU) SetNMI(asserted bool) {
	if c.nmiPrevious && !asserted {
		c.nmiPending = true
	}
	c.nmiPrevious = asserted
}

// SetIRQ sets the level of the IRQ line. Unlike NMI it's level-triggered and
// masked by the I flag.
func (c *CPU) SetIRQ(asserted bool) {
	c.irqLine = asserted
}

// Cycles reports the running total of bus cycles the CPU has consumed.
func (c *CPU) Cycles() uint64 { return c.totalCycles }

// TakeIllegalOpcodeError returns and clears the most recently fetched byte
// with no entry in the decode table, or nil if none occurred since the last
// call. Clock has no error return of its own, so hosts that want to
// surface neserr.IllegalOpcode poll this after driving the CPU.
func (c *CPU) TakeIllegalOpcodeError() *neserr.Error {
	err := c.lastIllegalOpcode
	c.lastIllegalOpcode = nil
	return err
}

// Clock advances the CPU by exactly one cycle. If an instruction is still
// "in flight" — its cost was deferred when it was decoded — this call only
// burns down that remaining count. Once it reaches zero, the next call
// fetches, decodes, and fully executes one instruction, then defers all but
// one cycle of its cost to the calls that follow.
func (c *CPU) Clock() {
	c.totalCycles++

	if c.pending > 0 {
		c.pending--
		return
	}

	c.step()
}

func (c *CPU) step() {
	opcode := c.bus.Read(c.PC)
	if illegalOpcode[opcode] {
		c.lastIllegalOpcode = neserr.NewIllegalOpcode(opcode)
	}
	inst := instructionTable[opcode]

	// An illegal opcode still consumes its (single) byte and the table's
	// filler cost below, matching §7's "errors during clock() terminate
	// the instruction": execute's default case applies no semantic effect.
	address, pageCrossed := c.operandAddress(inst.Mode)
	extra := c.execute(opcode, address, pageCrossed)

	if pageCrossed && readPenaltyOpcode[opcode] {
		extra++
	}

	cost := uint16(inst.Cycles) + uint16(extra)
	if cost > 0 {
		c.pending = cost - 1
	}

	c.processPendingInterrupts()
}

func (c *CPU) processPendingInterrupts() {
	if c.nmiPending {
		c.nmiPending = false
		c.enterInterrupt(nmiVector, false)
		return
	}
	if c.irqLine && !c.I {
		c.enterInterrupt(irqVector, false)
	}
}

// NMI forces immediate entry into the non-maskable interrupt handler,
// bypassing the edge-latched SetNMI/Clock path. Hosts that want NMI taken
// precisely between instructions use SetNMI instead; this is for test
// harnesses and hosts that step instructions synchronously.
func (c *CPU) NMI() {
	c.enterInterrupt(nmiVector, false)
}

// IRQ forces immediate entry into the maskable interrupt handler if the I
// flag allows it.
func (c *CPU) IRQ() {
	if !c.I {
		c.enterInterrupt(irqVector, false)
	}
}

// enterInterrupt is called out-of-band, between instructions rather than as
// part of one, so it accounts for its own 7-cycle cost directly instead of
// going through step()'s cost/pending bookkeeping.
func (c *CPU) enterInterrupt(vector uint16, brk bool) {
	c.pushInterruptFrame(vector, brk)
	c.totalCycles += 7
	c.pending = 0
}

// pushInterruptFrame pushes PC and status and loads PC from vector. It does
// not touch cycle accounting: BRK reuses it from inside step(), where the
// opcode table's own 7-cycle entry already covers the cost.
func (c *CPU) pushInterruptFrame(vector uint16, brk bool) {
	c.pushWord(c.PC)
	status := c.statusByte() &^ bFlagMask
	status |= unusedMask
	if brk {
		status |= bFlagMask
	}
	c.push(status)
	c.I = true
	low := uint16(c.bus.Read(vector))
	high := uint16(c.bus.Read(vector + 1))
	c.PC = (high << 8) | low
}

func (c *CPU) push(value uint8) {
	c.bus.Write(stackBase+uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value))
}

func (c *CPU) popWord() uint16 {
	low := uint16(c.pop())
	high := uint16(c.pop())
	return (high << 8) | low
}

func (c *CPU) setZN(value uint8) {
	c.Z = value == 0
	c.N = value&nFlagMask != 0
}

// statusByte packs the flags into the conventional NV-BDIZC order with bit 5
// always set and bit 4 (B) always clear: B is never part of the resting
// register, only synthesized by the individual push sites that need it set
// (BRK, PHP).
func (c *CPU) statusByte() uint8 {
	var s uint8
	if c.N {
		s |= nFlagMask
	}
	if c.V {
		s |= vFlagMask
	}
	s |= unusedMask
	if c.D {
		s |= dFlagMask
	}
	if c.I {
		s |= iFlagMask
	}
	if c.Z {
		s |= zFlagMask
	}
	if c.C {
		s |= cFlagMask
	}
	return s
}

// setStatusByte restores flags from a popped status byte, as PLP and RTI
// both do. It ignores the incoming B bit entirely: B is forced to 0 in the
// register regardless of what was pushed, per the PLP/RTI contract.
func (c *CPU) setStatusByte(status uint8) {
	c.N = status&nFlagMask != 0
	c.V = status&vFlagMask != 0
	c.D = status&dFlagMask != 0
	c.I = status&iFlagMask != 0
	c.Z = status&zFlagMask != 0
	c.C = status&cFlagMask != 0
}

// StatusByte exposes the packed processor status register, e.g. for a
// debugger or disassembler view.
func (c *CPU) StatusByte() uint8 { return c.statusByte() }

// operandAddress resolves the effective address for mode and advances PC
// past the instruction's operand bytes. It reports whether indexing crossed
// a page boundary, which several opcodes turn into an extra cycle.
func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false

	case Immediate:
		addr := c.PC + 1
		c.PC += 2
		return addr, false

	case ZeroPage:
		addr := uint16(c.bus.Read(c.PC + 1))
		c.PC += 2
		return addr, false

	case ZeroPageX:
		base := c.bus.Read(c.PC + 1)
		addr := uint16(base + c.X)
		c.PC += 2
		return addr, false

	case ZeroPageY:
		base := c.bus.Read(c.PC + 1)
		addr := uint16(base + c.Y)
		c.PC += 2
		return addr, false

	case Relative:
		offset := int8(c.bus.Read(c.PC + 1))
		oldPC := c.PC + 2
		newPC := uint16(int32(oldPC) + int32(offset))
		c.PC = oldPC
		return newPC, (oldPC & pageMask) != (newPC & pageMask)

	case Absolute:
		low := uint16(c.bus.Read(c.PC + 1))
		high := uint16(c.bus.Read(c.PC + 2))
		c.PC += 3
		return (high << 8) | low, false

	case AbsoluteX:
		low := uint16(c.bus.Read(c.PC + 1))
		high := uint16(c.bus.Read(c.PC + 2))
		base := (high << 8) | low
		addr := base + uint16(c.X)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case AbsoluteY:
		low := uint16(c.bus.Read(c.PC + 1))
		high := uint16(c.bus.Read(c.PC + 2))
		base := (high << 8) | low
		addr := base + uint16(c.Y)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case Indirect:
		lowPtr := uint16(c.bus.Read(c.PC + 1))
		highPtr := uint16(c.bus.Read(c.PC + 2))
		ptr := (highPtr << 8) | lowPtr
		c.PC += 3

		var addr uint16
		if ptr&0x00FF == 0x00FF {
			// Hardware bug: the high byte wraps to the start of the page
			// instead of crossing into the next one.
			low := uint16(c.bus.Read(ptr))
			high := uint16(c.bus.Read(ptr & pageMask))
			addr = (high << 8) | low
		} else {
			low := uint16(c.bus.Read(ptr))
			high := uint16(c.bus.Read(ptr + 1))
			addr = (high << 8) | low
		}
		return addr, false

	case IndexedIndirect:
		base := c.bus.Read(c.PC + 1)
		ptr := base + c.X
		low := uint16(c.bus.Read(uint16(ptr)))
		high := uint16(c.bus.Read(uint16(ptr + 1)))
		c.PC += 2
		return (high << 8) | low, false

	case IndirectIndexed:
		ptr := uint16(c.bus.Read(c.PC + 1))
		low := uint16(c.bus.Read(ptr))
		high := uint16(c.bus.Read((ptr + 1) & 0x00FF))
		base := (high << 8) | low
		addr := base + uint16(c.Y)
		c.PC += 2
		return addr, (base & pageMask) != (addr & pageMask)

	default:
		return 0, false
	}
}
