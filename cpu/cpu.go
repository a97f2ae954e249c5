// Copyright 2019 The mt6502 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu emulates the MOS 6502 microprocessor at instruction level.
// The CPU executes one instruction per Step call against a pluggable
// Bus and reports the number of machine cycles the instruction consumed.
package cpu

import "fmt"

// Interrupt vectors
const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
	vectorBRK   = 0xfffe
)

// An IllegalInstructionError is returned by Step when the fetched opcode
// is not part of the documented NMOS 6502 instruction set, or when a
// legal opcode decodes to an addressing mode undefined for its group.
// The failure is fatal: the CPU state afterwards is undefined and the
// instance should be discarded.
type IllegalInstructionError struct {
	Opcode byte   // the offending opcode
	Addr   uint16 // address the opcode was fetched from
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction $%02X at $%04X", e.Opcode, e.Addr)
}

// CPU represents a single NMOS 6502 CPU bound to a bus.
type CPU struct {
	Reg    Registers // CPU registers
	Bus    Bus       // assigned bus
	Cycles uint64    // total executed CPU cycles
	LastPC uint16    // address of the most recent instruction fetch

	// Per-step decode state. All three immediates are fetched on every
	// step regardless of the actual operand length, matching the bus
	// traffic of the hardware fetch sequence.
	opcode      byte
	immediate8  byte
	immediate16 uint16
	extraCycles byte // reserved for page-crossing accounting; always 0

	pendingIRQ   bool
	pendingNMI   bool
	pendingReset bool

	debugger *Debugger
}

// New creates an emulated 6502 CPU bound to the specified bus.
func New(bus Bus) *CPU {
	cpu := &CPU{Bus: bus}
	cpu.Reg.Init()
	return cpu
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the program counter updates or a byte is
// stored through the bus.
func (cpu *CPU) AttachDebugger(d *Debugger) {
	cpu.debugger = d
}

// SignalIRQ latches a maskable interrupt request. The request is
// honoured before the next Step fetch unless interrupts are disabled at
// that point, in which case it is discarded.
func (cpu *CPU) SignalIRQ() {
	cpu.pendingIRQ = true
}

// SignalNMI latches a non-maskable interrupt request, honoured before
// the next Step fetch.
func (cpu *CPU) SignalNMI() {
	cpu.pendingNMI = true
}

// SignalReset latches a reset request. Before the next Step fetch the
// program counter is loaded from the reset vector. The stack pointer
// and status register are left untouched.
func (cpu *CPU) SignalReset() {
	cpu.pendingReset = true
}

// Step fetches, decodes and executes one instruction, returning the
// number of machine cycles elapsed. Pending interrupt signals are
// serviced first. An unsupported opcode returns an
// *IllegalInstructionError.
func (cpu *CPU) Step() (uint8, error) {
	if cpu.pendingReset || cpu.pendingNMI || cpu.pendingIRQ {
		cpu.serviceInterrupts()
	}

	cpu.LastPC = cpu.Reg.PC
	cpu.opcode = cpu.Bus.Read(cpu.Reg.PC)
	cpu.immediate8 = cpu.Bus.Read(cpu.Reg.PC + 1)
	cpu.immediate16 = uint16(cpu.Bus.Read(cpu.Reg.PC+2))<<8 | uint16(cpu.immediate8)
	cpu.extraCycles = 0

	inst := &Instructions[cpu.opcode]
	if inst.fn == nil {
		return 0, cpu.illegal()
	}

	// The PC advances past the instruction before the handler runs, so
	// relative branches offset from the following instruction and JSR
	// pushes the return address directly.
	cpu.Reg.PC += uint16(inst.Length)

	if err := inst.fn(cpu); err != nil {
		return 0, err
	}

	cycles := inst.Cycles + cpu.extraCycles
	cpu.Cycles += uint64(cycles)

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return cycles, nil
}

// GetInstruction returns the instruction table entry for the opcode
// stored at address 'addr'.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	return &Instructions[cpu.Bus.Read(addr)]
}

func (cpu *CPU) illegal() error {
	return &IllegalInstructionError{Opcode: cpu.opcode, Addr: cpu.LastPC}
}

// Service latched interrupt signals in priority order: reset, NMI, IRQ.
func (cpu *CPU) serviceInterrupts() {
	if cpu.pendingReset {
		cpu.pendingReset = false
		lo := cpu.Bus.Read(vectorReset)
		hi := cpu.Bus.Read(vectorReset + 1)
		cpu.Reg.PC = uint16(hi)<<8 | uint16(lo)
	}
	if cpu.pendingNMI {
		cpu.pendingNMI = false
		cpu.interrupt(vectorNMI, false)
	}
	if cpu.pendingIRQ {
		cpu.pendingIRQ = false
		if !cpu.Reg.IsSet(FlagI) {
			cpu.interrupt(vectorIRQ, false)
		}
	}
}

// Enter an interrupt handler: save the program counter and status on
// the stack, disable interrupts and jump through the vector at 'addr'.
// The pushed status copy has the break bit set only for software
// interrupts (BRK).
func (cpu *CPU) interrupt(addr uint16, software bool) {
	lo := cpu.Bus.Read(addr)
	hi := cpu.Bus.Read(addr + 1)
	handler := uint16(hi)<<8 | uint16(lo)

	status := cpu.Reg.SR
	if software {
		status |= FlagB
	} else {
		status &^= FlagB
	}

	cpu.push(byte(cpu.Reg.PC >> 8))
	cpu.push(byte(cpu.Reg.PC))
	cpu.push(status)

	cpu.Reg.PC = handler
	cpu.Reg.SR |= FlagI
}

// operandMode decodes the addressing mode from the opcode's bit fields:
// group (bits 0-1), addr (bits 2-4) and oper (bits 5-7).
// See https://llx.com/Neil/a2/opcodes.html for the underlying map.
func (cpu *CPU) operandMode() (Mode, error) {
	group := cpu.opcode & 0x03
	addr := (cpu.opcode >> 2) & 0x07
	oper := (cpu.opcode >> 5) & 0x07

	switch group {
	case 1:
		switch addr {
		case 0:
			return IDX, nil
		case 1:
			return ZPG, nil
		case 2:
			return IMM, nil
		case 3:
			return ABS, nil
		case 4:
			return IDY, nil
		case 5:
			return ZPX, nil
		case 6:
			return ABY, nil
		case 7:
			return ABX, nil
		}

	case 2:
		switch addr {
		case 0:
			return IMM, nil
		case 1:
			return ZPG, nil
		case 2:
			if oper < 4 {
				return ACC, nil
			}
		case 3:
			return ABS, nil
		case 5:
			// STX and LDX index the zero page with Y.
			if oper == 4 || oper == 5 {
				return ZPY, nil
			}
			return ZPX, nil
		case 7:
			// LDX indexes absolute addresses with Y.
			if oper == 5 {
				return ABY, nil
			}
			return ABX, nil
		}

	case 0:
		switch addr {
		case 0:
			return IMM, nil
		case 1:
			return ZPG, nil
		case 3:
			return ABS, nil
		case 5:
			return ZPX, nil
		case 7:
			return ABX, nil
		}
	}

	return 0, cpu.illegal()
}

// Pointer for the (indirect,X) mode. Both pointer bytes are read from
// the zero page, wrapping within it.
func (cpu *CPU) indexedIndirectAddress() uint16 {
	lo := cpu.Bus.Read(offsetZeroPage(cpu.immediate8, cpu.Reg.X))
	hi := cpu.Bus.Read(offsetZeroPage(cpu.immediate8, cpu.Reg.X+1))
	return uint16(hi)<<8 | uint16(lo)
}

// Pointer for the (indirect),Y mode. The pointer bytes are read from
// the zero page (the second wrapping within it) and Y is added to the
// assembled address.
func (cpu *CPU) indirectIndexedAddress() uint16 {
	lo := cpu.Bus.Read(uint16(cpu.immediate8))
	hi := cpu.Bus.Read(offsetZeroPage(cpu.immediate8, 1))
	return (uint16(hi)<<8 | uint16(lo)) + uint16(cpu.Reg.Y)
}

// loadOperand resolves the executing instruction's addressing mode and
// reads its operand value.
func (cpu *CPU) loadOperand() (byte, error) {
	mode, err := cpu.operandMode()
	if err != nil {
		return 0, err
	}

	switch mode {
	case ACC:
		return cpu.Reg.A, nil
	case IMM:
		return cpu.immediate8, nil
	case ZPG:
		return cpu.Bus.Read(uint16(cpu.immediate8)), nil
	case ZPX:
		return cpu.Bus.Read(offsetZeroPage(cpu.immediate8, cpu.Reg.X)), nil
	case ZPY:
		return cpu.Bus.Read(offsetZeroPage(cpu.immediate8, cpu.Reg.Y)), nil
	case ABS:
		return cpu.Bus.Read(cpu.immediate16), nil
	case ABX:
		return cpu.Bus.Read(cpu.immediate16 + uint16(cpu.Reg.X)), nil
	case ABY:
		return cpu.Bus.Read(cpu.immediate16 + uint16(cpu.Reg.Y)), nil
	case IDX:
		return cpu.Bus.Read(cpu.indexedIndirectAddress()), nil
	case IDY:
		return cpu.Bus.Read(cpu.indirectIndexedAddress()), nil
	}
	return 0, cpu.illegal()
}

// storeOperand resolves the executing instruction's addressing mode and
// writes 'v' to it. Modes that cannot store (immediate) fail.
func (cpu *CPU) storeOperand(v byte) error {
	mode, err := cpu.operandMode()
	if err != nil {
		return err
	}

	switch mode {
	case ACC:
		cpu.Reg.A = v
		return nil
	case ZPG:
		cpu.writeByte(uint16(cpu.immediate8), v)
		return nil
	case ZPX:
		cpu.writeByte(offsetZeroPage(cpu.immediate8, cpu.Reg.X), v)
		return nil
	case ZPY:
		cpu.writeByte(offsetZeroPage(cpu.immediate8, cpu.Reg.Y), v)
		return nil
	case ABS:
		cpu.writeByte(cpu.immediate16, v)
		return nil
	case ABX:
		cpu.writeByte(cpu.immediate16+uint16(cpu.Reg.X), v)
		return nil
	case ABY:
		cpu.writeByte(cpu.immediate16+uint16(cpu.Reg.Y), v)
		return nil
	case IDX:
		cpu.writeByte(cpu.indexedIndirectAddress(), v)
		return nil
	case IDY:
		cpu.writeByte(cpu.indirectIndexedAddress(), v)
		return nil
	}
	return cpu.illegal()
}

// Store a byte through the bus, notifying an attached debugger.
func (cpu *CPU) writeByte(addr uint16, v byte) {
	cpu.Bus.Write(addr, v)
	if cpu.debugger != nil {
		cpu.debugger.onDataStore(cpu, addr, v)
	}
}

// Push a value 'v' onto the stack. The stack pointer's high byte stays
// locked to the stack page.
func (cpu *CPU) push(v byte) {
	cpu.writeByte(cpu.Reg.SP, v)
	cpu.Reg.SP = 0x0100 | ((cpu.Reg.SP - 1) & 0x00ff)
}

// Pull a value from the stack and return it.
func (cpu *CPU) pull() byte {
	cpu.Reg.SP = 0x0100 | ((cpu.Reg.SP + 1) & 0x00ff)
	return cpu.Bus.Read(cpu.Reg.SP)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.SetFlag(FlagZ, v == 0)
	cpu.Reg.SetFlag(FlagN, (v&0x80) != 0)
}

// Branch to the relative target if 'taken'. The signed 8-bit operand
// offsets from the already-advanced program counter.
func (cpu *CPU) branchIf(taken bool) error {
	if taken {
		cpu.Reg.PC += uint16(int8(cpu.immediate8))
	}
	return nil
}

// Add with carry
func (cpu *CPU) adc() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}

	acc := uint16(cpu.Reg.A)
	add := uint16(mem)
	sum := acc + add + uint16(cpu.Reg.SR&FlagC)
	res := byte(sum)
	carry := sum >= 0x100
	overflow := (acc^sum)&(add^sum)&0x80 != 0

	if cpu.Reg.IsSet(FlagD) {
		// BCD adjustment. The overflow flag keeps the binary result's
		// value, the documented NMOS quirk.
		var adjustment byte
		if res&0x0f > 0x09 {
			adjustment += 0x06
		}
		if res > 0x99 || carry {
			adjustment += 0x60
			carry = true
		}
		res += adjustment
	}

	cpu.Reg.A = res
	cpu.Reg.SetFlag(FlagC, carry)
	cpu.Reg.SetFlag(FlagV, overflow)
	cpu.updateNZ(res)
	return nil
}

// Subtract with carry. A cleared carry borrows; the carry out is set
// when no borrow was needed. Decimal mode applies no adjustment.
func (cpu *CPU) sbc() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}

	acc := uint16(cpu.Reg.A)
	sub := uint16(mem)
	diff := 0xff + acc - sub + uint16(cpu.Reg.SR&FlagC)
	res := byte(diff)

	cpu.Reg.SetFlag(FlagC, diff >= 0x100)
	cpu.Reg.SetFlag(FlagV, (acc&0x80) != (sub&0x80) && (acc&0x80) != (diff&0x80))
	cpu.Reg.A = res
	cpu.updateNZ(res)
	return nil
}

// Boolean AND
func (cpu *CPU) and() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.A &= mem
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Boolean OR
func (cpu *CPU) ora() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.A |= mem
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Boolean XOR
func (cpu *CPU) eor() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.A ^= mem
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Bit Test. Z reflects acc AND mem; N and V come straight from bits 7
// and 6 of the operand.
func (cpu *CPU) bit() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.SetFlag(FlagZ, (cpu.Reg.A&mem) == 0)
	cpu.Reg.SetFlag(FlagN, (mem&0x80) != 0)
	cpu.Reg.SetFlag(FlagV, (mem&0x40) != 0)
	return nil
}

// Compare register 'reg' to the operand, discarding the difference.
func (cpu *CPU) compare(reg byte) error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.SetFlag(FlagC, reg >= mem)
	cpu.updateNZ(reg - mem)
	return nil
}

// Compare to accumulator
func (cpu *CPU) cmp() error {
	return cpu.compare(cpu.Reg.A)
}

// Compare to X register
func (cpu *CPU) cpx() error {
	return cpu.compare(cpu.Reg.X)
}

// Compare to Y register
func (cpu *CPU) cpy() error {
	return cpu.compare(cpu.Reg.Y)
}

// Increment memory value
func (cpu *CPU) inc() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	mem++
	cpu.updateNZ(mem)
	return cpu.storeOperand(mem)
}

// Decrement memory value
func (cpu *CPU) dec() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	mem--
	cpu.updateNZ(mem)
	return cpu.storeOperand(mem)
}

// Increment X register
func (cpu *CPU) inx() error {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Increment Y register
func (cpu *CPU) iny() error {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Decrement X register
func (cpu *CPU) dex() error {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Decrement Y register
func (cpu *CPU) dey() error {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Arithmetic Shift Left
func (cpu *CPU) asl() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.SetFlag(FlagC, (mem&0x80) != 0)
	mem <<= 1
	cpu.updateNZ(mem)
	return cpu.storeOperand(mem)
}

// Logical Shift Right
func (cpu *CPU) lsr() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.SetFlag(FlagC, (mem&0x01) != 0)
	mem >>= 1
	cpu.updateNZ(mem)
	return cpu.storeOperand(mem)
}

// Rotate Left through carry
func (cpu *CPU) rol() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	carryIn := cpu.Reg.SR & FlagC
	cpu.Reg.SetFlag(FlagC, (mem&0x80) != 0)
	mem = (mem << 1) | carryIn
	cpu.updateNZ(mem)
	return cpu.storeOperand(mem)
}

// Rotate Right through carry
func (cpu *CPU) ror() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	carryIn := (cpu.Reg.SR & FlagC) << 7
	cpu.Reg.SetFlag(FlagC, (mem&0x01) != 0)
	mem = (mem >> 1) | carryIn
	cpu.updateNZ(mem)
	return cpu.storeOperand(mem)
}

// Load Accumulator
func (cpu *CPU) lda() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.A = mem
	cpu.updateNZ(mem)
	return nil
}

// Load the X register
func (cpu *CPU) ldx() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.X = mem
	cpu.updateNZ(mem)
	return nil
}

// Load the Y register
func (cpu *CPU) ldy() error {
	mem, err := cpu.loadOperand()
	if err != nil {
		return err
	}
	cpu.Reg.Y = mem
	cpu.updateNZ(mem)
	return nil
}

// Store Accumulator
func (cpu *CPU) sta() error {
	return cpu.storeOperand(cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx() error {
	return cpu.storeOperand(cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty() error {
	return cpu.storeOperand(cpu.Reg.Y)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax() error {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay() error {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Transfer Stack pointer to X register
func (cpu *CPU) tsx() error {
	cpu.Reg.X = byte(cpu.Reg.SP)
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Transfer X register to Accumulator
func (cpu *CPU) txa() error {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Transfer X register to the Stack pointer. Flags are untouched.
func (cpu *CPU) txs() error {
	cpu.Reg.SP = 0x0100 | uint16(cpu.Reg.X)
	return nil
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya() error {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Push Accumulator
func (cpu *CPU) pha() error {
	cpu.push(cpu.Reg.A)
	return nil
}

// Push Processor status
func (cpu *CPU) php() error {
	cpu.push(cpu.Reg.SR)
	return nil
}

// Pull Accumulator
func (cpu *CPU) pla() error {
	cpu.Reg.A = cpu.pull()
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Pull Processor status. The live break and unused bits are preserved;
// only the remaining bits come from the stack.
func (cpu *CPU) plp() error {
	cpu.Reg.SR = (cpu.pull() & 0xcf) | (cpu.Reg.SR & 0x30)
	return nil
}

// Jump to memory address. The indirect form reproduces the NMOS
// page-wrap: a pointer ending in $FF fetches its high byte from the
// start of the same page.
func (cpu *CPU) jmp() error {
	if Instructions[cpu.opcode].Mode == IND {
		lo := cpu.Bus.Read(cpu.immediate16)
		hiAddr := cpu.immediate16 + 1
		if cpu.immediate16&0x00ff == 0x00ff {
			hiAddr = cpu.immediate16 & 0xff00
		}
		hi := cpu.Bus.Read(hiAddr)
		cpu.Reg.PC = uint16(hi)<<8 | uint16(lo)
		return nil
	}
	cpu.Reg.PC = cpu.immediate16
	return nil
}

// Jump to subroutine. The pushed return address already points past the
// operand bytes, so RTS restores it without adjustment.
func (cpu *CPU) jsr() error {
	cpu.push(byte(cpu.Reg.PC >> 8))
	cpu.push(byte(cpu.Reg.PC))
	cpu.Reg.PC = cpu.immediate16
	return nil
}

// Return from subroutine
func (cpu *CPU) rts() error {
	lo := cpu.pull()
	hi := cpu.pull()
	cpu.Reg.PC = uint16(hi)<<8 | uint16(lo)
	return nil
}

// Break: a software interrupt through the IRQ vector with the break bit
// set in the pushed status copy.
func (cpu *CPU) brk() error {
	cpu.interrupt(vectorBRK, true)
	return nil
}

// Return from interrupt
func (cpu *CPU) rti() error {
	if err := cpu.plp(); err != nil {
		return err
	}
	return cpu.rts()
}

// Branch if Carry Clear
func (cpu *CPU) bcc() error {
	return cpu.branchIf(!cpu.Reg.IsSet(FlagC))
}

// Branch if Carry Set
func (cpu *CPU) bcs() error {
	return cpu.branchIf(cpu.Reg.IsSet(FlagC))
}

// Branch if EQual (to zero)
func (cpu *CPU) beq() error {
	return cpu.branchIf(cpu.Reg.IsSet(FlagZ))
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne() error {
	return cpu.branchIf(!cpu.Reg.IsSet(FlagZ))
}

// Branch if MInus (negative)
func (cpu *CPU) bmi() error {
	return cpu.branchIf(cpu.Reg.IsSet(FlagN))
}

// Branch if PLus (positive)
func (cpu *CPU) bpl() error {
	return cpu.branchIf(!cpu.Reg.IsSet(FlagN))
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc() error {
	return cpu.branchIf(!cpu.Reg.IsSet(FlagV))
}

// Branch if oVerflow Set
func (cpu *CPU) bvs() error {
	return cpu.branchIf(cpu.Reg.IsSet(FlagV))
}

// Clear Carry flag
func (cpu *CPU) clc() error {
	cpu.Reg.SR &^= FlagC
	return nil
}

// Clear Decimal flag
func (cpu *CPU) cld() error {
	cpu.Reg.SR &^= FlagD
	return nil
}

// Clear InterruptDisable flag
func (cpu *CPU) cli() error {
	cpu.Reg.SR &^= FlagI
	return nil
}

// Clear oVerflow flag
func (cpu *CPU) clv() error {
	cpu.Reg.SR &^= FlagV
	return nil
}

// Set Carry flag
func (cpu *CPU) sec() error {
	cpu.Reg.SR |= FlagC
	return nil
}

// Set Decimal flag
func (cpu *CPU) sed() error {
	cpu.Reg.SR |= FlagD
	return nil
}

// Set InterruptDisable flag
func (cpu *CPU) sei() error {
	cpu.Reg.SR |= FlagI
	return nil
}

// No-operation
func (cpu *CPU) nop() error {
	return nil
}
