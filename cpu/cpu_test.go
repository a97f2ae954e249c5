package cpu_test

import (
	"errors"
	"testing"

	"github.com/Miliox/mt6502/cpu"
)

func loadCPU(code ...byte) (*cpu.CPU, *cpu.FlatMemory) {
	mem := cpu.NewFlatMemory()
	mem.WriteBytes(0, code)
	return cpu.New(mem), mem
}

func step(t *testing.T, c *cpu.CPU) uint8 {
	t.Helper()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	return cycles
}

func stepN(t *testing.T, c *cpu.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		step(t, c)
	}
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, got, exp uint8) {
	t.Helper()
	if got != exp {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", exp, got)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	t.Helper()
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp uint16) {
	t.Helper()
	if c.Reg.SP != sp {
		t.Errorf("Stack pointer incorrect. exp: $%04X, got: $%04X", sp, c.Reg.SP)
	}
}

func expectSR(t *testing.T, c *cpu.CPU, sr byte) {
	t.Helper()
	if c.Reg.SR != sr {
		t.Errorf("Status incorrect. exp: $%02X, got: $%02X", sr, c.Reg.SR)
	}
}

func expectFlag(t *testing.T, c *cpu.CPU, mask byte, on bool) {
	t.Helper()
	if c.Reg.IsSet(mask) != on {
		t.Errorf("Flag $%02X incorrect. exp: %v, got: %v", mask, on, c.Reg.IsSet(mask))
	}
}

func expectMem(t *testing.T, m *cpu.FlatMemory, addr uint16, v byte) {
	t.Helper()
	if got := m.Read(addr); got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func TestInitialState(t *testing.T) {
	c, _ := loadCPU()
	expectPC(t, c, 0)
	expectSP(t, c, 0x01ff)
	expectSR(t, c, cpu.FlagU|cpu.FlagB)
	expectACC(t, c, 0)
}

func TestClearCarry(t *testing.T) {
	c, _ := loadCPU(0x18)
	c.Reg.SR |= cpu.FlagC

	cycles := step(t, c)
	expectCycles(t, cycles, 2)
	expectPC(t, c, 1)
	expectSR(t, c, cpu.FlagU|cpu.FlagB)
}

func TestLoadImmediate(t *testing.T) {
	c, _ := loadCPU(0xa9, 0x80)

	cycles := step(t, c)
	expectCycles(t, cycles, 2)
	expectPC(t, c, 2)
	expectACC(t, c, 0x80)
	expectFlag(t, c, cpu.FlagN, true)
	expectFlag(t, c, cpu.FlagZ, false)
}

func TestDecimalAddChain(t *testing.T) {
	c, _ := loadCPU(
		0xf8,       // SED
		0xa9, 0x10, // LDA #$10
		0x69, 0x20, // ADC #$20
		0x69, 0x50, // ADC #$50
		0x69, 0x19, // ADC #$19
		0x69, 0x01, // ADC #$01
		0x69, 0xaa, // ADC #$AA
	)

	stepN(t, c, 3)
	expectACC(t, c, 0x30)
	expectFlag(t, c, cpu.FlagC, false)

	step(t, c)
	expectACC(t, c, 0x80)
	expectFlag(t, c, cpu.FlagN, true)
	expectFlag(t, c, cpu.FlagV, true)

	step(t, c)
	expectACC(t, c, 0x99)
	expectFlag(t, c, cpu.FlagN, true)

	step(t, c)
	expectACC(t, c, 0x00)
	expectFlag(t, c, cpu.FlagZ, true)
	expectFlag(t, c, cpu.FlagC, true)

	step(t, c)
	expectACC(t, c, 0x11)
	expectFlag(t, c, cpu.FlagC, true)
}

func TestStoreIndexedIndirect(t *testing.T) {
	c, m := loadCPU(0x81, 0x80)
	c.Reg.A = 0xbb
	c.Reg.X = 0x20
	m.Write(0x00a0, 0x80)
	m.Write(0x00a1, 0x80)

	cycles := step(t, c)
	expectCycles(t, cycles, 6)
	expectMem(t, m, 0x8080, 0xbb)
}

func TestJsrRtsRoundTrip(t *testing.T) {
	c, m := loadCPU(0x20, 0x40, 0x80)
	m.Write(0x8040, 0x60)

	cycles := step(t, c)
	expectCycles(t, cycles, 6)
	expectPC(t, c, 0x8040)
	expectSP(t, c, 0x01fd)
	expectMem(t, m, 0x01ff, 0x00)
	expectMem(t, m, 0x01fe, 0x03)

	cycles = step(t, c)
	expectCycles(t, cycles, 6)
	expectPC(t, c, 3)
	expectSP(t, c, 0x01ff)
}

func TestBrkRtiRoundTrip(t *testing.T) {
	c, m := loadCPU(0x00)
	m.Write(0xfffe, 0xef)
	m.Write(0xffff, 0xbe)
	m.Write(0xbeef, 0x40)

	cycles := step(t, c)
	expectCycles(t, cycles, 7)
	expectPC(t, c, 0xbeef)
	expectFlag(t, c, cpu.FlagI, true)
	expectSP(t, c, 0x01fc)
	expectMem(t, m, 0x01ff, 0x00)
	expectMem(t, m, 0x01fe, 0x02)
	expectMem(t, m, 0x01fd, cpu.FlagU|cpu.FlagB)

	cycles = step(t, c)
	expectCycles(t, cycles, 6)
	expectPC(t, c, 2)
	expectSR(t, c, cpu.FlagU|cpu.FlagB)
}

func TestPhpPlpRoundTrip(t *testing.T) {
	c, _ := loadCPU(0x08, 0x28)
	c.Reg.SR |= cpu.FlagN | cpu.FlagC

	saved := c.Reg.SR
	step(t, c)
	c.Reg.SR = cpu.FlagU | cpu.FlagB | cpu.FlagZ
	step(t, c)
	expectSR(t, c, saved)
}

func TestZeroPageIndexWrap(t *testing.T) {
	c, m := loadCPU(0xb5, 0xf0)
	c.Reg.X = 0x20
	m.Write(0x0010, 0x42)
	m.Write(0x0110, 0x24)

	step(t, c)
	expectACC(t, c, 0x42)
}

func TestIndexedIndirectPointerWrap(t *testing.T) {
	// The program sits at $0200 so the zero-page pointer bytes do not
	// overwrite it.
	c, m := loadCPU()
	m.WriteBytes(0x0200, []byte{0xa1, 0xfe})
	c.SetPC(0x0200)
	c.Reg.X = 0x01
	m.Write(0x00ff, 0x34)
	m.Write(0x0000, 0x12) // pointer high wraps into the zero page
	m.Write(0x1234, 0x77)

	step(t, c)
	expectACC(t, c, 0x77)
}

func TestIndirectIndexed(t *testing.T) {
	c, m := loadCPU(0xb1, 0x40)
	c.Reg.Y = 0x10
	m.Write(0x0040, 0x00)
	m.Write(0x0041, 0x20)
	m.Write(0x2010, 0x5a)

	cycles := step(t, c)
	expectCycles(t, cycles, 5)
	expectACC(t, c, 0x5a)
}

func TestSubtractWithBorrow(t *testing.T) {
	c, _ := loadCPU(0xa9, 0x10, 0xe9, 0x01)

	stepN(t, c, 2)
	expectACC(t, c, 0x0e) // carry clear borrows one extra
	expectFlag(t, c, cpu.FlagC, true)
}

func TestSubtractSigned(t *testing.T) {
	c, _ := loadCPU(0x38, 0xa9, 0x50, 0xe9, 0xb0)

	stepN(t, c, 3)
	expectACC(t, c, 0xa0)
	expectFlag(t, c, cpu.FlagV, true)
	expectFlag(t, c, cpu.FlagN, true)
	expectFlag(t, c, cpu.FlagC, false)
}

func TestBranchBackward(t *testing.T) {
	c, _ := loadCPU(0, 0, 0, 0xd0, 0xfd)
	c.SetPC(3)

	cycles := step(t, c)
	expectCycles(t, cycles, 2)
	expectPC(t, c, 2)
}

func TestBranchNotTaken(t *testing.T) {
	c, _ := loadCPU(0x90, 0x10) // BCC with carry set
	c.Reg.SR |= cpu.FlagC

	step(t, c)
	expectPC(t, c, 2)
}

func TestCompare(t *testing.T) {
	c, _ := loadCPU(0xa9, 0x40, 0xc9, 0x40, 0xc9, 0x41)

	stepN(t, c, 2)
	expectFlag(t, c, cpu.FlagZ, true)
	expectFlag(t, c, cpu.FlagC, true)

	step(t, c)
	expectFlag(t, c, cpu.FlagZ, false)
	expectFlag(t, c, cpu.FlagC, false)
	expectFlag(t, c, cpu.FlagN, true)
}

func TestBitTest(t *testing.T) {
	c, m := loadCPU(0xa9, 0x01, 0x24, 0x40)
	m.Write(0x0040, 0xc0)

	stepN(t, c, 2)
	expectFlag(t, c, cpu.FlagZ, true) // acc AND mem == 0
	expectFlag(t, c, cpu.FlagN, true) // straight from operand bit 7
	expectFlag(t, c, cpu.FlagV, true) // straight from operand bit 6
}

func TestShiftsAndRotates(t *testing.T) {
	c, _ := loadCPU(
		0xa9, 0x81, // LDA #$81
		0x0a, // ASL A
		0x2a, // ROL A
		0x6a, // ROR A
		0x4a, // LSR A
	)

	stepN(t, c, 2)
	expectACC(t, c, 0x02) // high bit shifted into carry
	expectFlag(t, c, cpu.FlagC, true)

	step(t, c)
	expectACC(t, c, 0x05) // carry rotated into bit 0
	expectFlag(t, c, cpu.FlagC, false)

	step(t, c)
	expectACC(t, c, 0x02)
	expectFlag(t, c, cpu.FlagC, true)

	step(t, c)
	expectACC(t, c, 0x01)
	expectFlag(t, c, cpu.FlagC, false)
	expectFlag(t, c, cpu.FlagN, false) // LSR always clears N
}

func TestReadModifyWrite(t *testing.T) {
	c, m := loadCPU(0xe6, 0x40, 0xc6, 0x41)
	m.Write(0x0040, 0xff)
	m.Write(0x0041, 0x01)

	cycles := step(t, c)
	expectCycles(t, cycles, 5)
	expectMem(t, m, 0x0040, 0x00)
	expectFlag(t, c, cpu.FlagZ, true)

	step(t, c)
	expectMem(t, m, 0x0041, 0x00)
	expectFlag(t, c, cpu.FlagZ, true)
}

func TestTransfers(t *testing.T) {
	c, _ := loadCPU(0xa2, 0x80, 0x9a, 0xba)

	stepN(t, c, 2) // LDX #$80, TXS
	expectSP(t, c, 0x0180)
	expectFlag(t, c, cpu.FlagN, true) // from LDX; TXS must not touch flags

	c.Reg.SR = cpu.FlagU | cpu.FlagB
	step(t, c) // TSX
	if c.Reg.X != 0x80 {
		t.Errorf("X incorrect. exp: $80, got: $%02X", c.Reg.X)
	}
	expectFlag(t, c, cpu.FlagN, true)
}

func TestStackPageWrap(t *testing.T) {
	c, m := loadCPU(0x48, 0x68, 0x68) // PHA, PLA, PLA
	c.Reg.SP = 0x0100
	c.Reg.A = 0x7e

	step(t, c)
	expectMem(t, m, 0x0100, 0x7e)
	expectSP(t, c, 0x01ff)

	step(t, c)
	expectSP(t, c, 0x0100)
	expectACC(t, c, 0x7e)
}

func TestJmpAbsolute(t *testing.T) {
	c, _ := loadCPU(0x4c, 0x00, 0x40)

	cycles := step(t, c)
	expectCycles(t, cycles, 3)
	expectPC(t, c, 0x4000)
}

func TestJmpIndirectPageWrap(t *testing.T) {
	c, m := loadCPU(0x6c, 0xff, 0x02)
	m.Write(0x02ff, 0x34)
	m.Write(0x0200, 0x12) // high byte comes from the page base
	m.Write(0x0300, 0x55)

	cycles := step(t, c)
	expectCycles(t, cycles, 5)
	expectPC(t, c, 0x1234)
}

func TestIllegalInstruction(t *testing.T) {
	c, _ := loadCPU(0x02)

	cycles, err := c.Step()
	if cycles != 0 {
		t.Errorf("Cycles incorrect. exp: 0, got: %d", cycles)
	}
	var illegal *cpu.IllegalInstructionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalInstructionError, got: %v", err)
	}
	if illegal.Opcode != 0x02 {
		t.Errorf("Opcode incorrect. exp: $02, got: $%02X", illegal.Opcode)
	}
	if illegal.Addr != 0 {
		t.Errorf("Addr incorrect. exp: $0000, got: $%04X", illegal.Addr)
	}
}

func TestCycleAccounting(t *testing.T) {
	cases := []struct {
		code   []byte
		cycles uint8
	}{
		{[]byte{0xea}, 2},             // NOP
		{[]byte{0xa5, 0x00}, 3},       // LDA zp
		{[]byte{0xad, 0x00, 0x10}, 4}, // LDA abs
		{[]byte{0x9d, 0x00, 0x10}, 5}, // STA abs,X
		{[]byte{0xfe, 0x00, 0x10}, 7}, // INC abs,X
		{[]byte{0x48}, 3},             // PHA
		{[]byte{0x68}, 4},             // PLA
	}

	for _, tc := range cases {
		c, _ := loadCPU(tc.code...)
		got := step(t, c)
		if got != tc.cycles {
			t.Errorf("opcode $%02X cycles incorrect. exp: %d, got: %d",
				tc.code[0], tc.cycles, got)
		}
		if c.Cycles != uint64(tc.cycles) {
			t.Errorf("opcode $%02X cycle counter incorrect. exp: %d, got: %d",
				tc.code[0], tc.cycles, c.Cycles)
		}
	}
}

func TestIRQ(t *testing.T) {
	c, m := loadCPU(0xea, 0xea)
	m.Write(0xfffe, 0x00)
	m.Write(0xffff, 0x40)
	m.Write(0x4000, 0xea)

	c.SignalIRQ()
	step(t, c)
	expectPC(t, c, 0x4001) // entered the handler, then executed its NOP
	expectFlag(t, c, cpu.FlagI, true)
	expectSP(t, c, 0x01fc)
	expectMem(t, m, 0x01fd, cpu.FlagU) // pushed status has break cleared
}

func TestIRQMasked(t *testing.T) {
	c, _ := loadCPU(0x78, 0xea, 0xea) // SEI, NOP, NOP

	step(t, c)
	c.SignalIRQ()
	step(t, c)
	expectPC(t, c, 2) // request discarded, no vector jump
	step(t, c)
	expectPC(t, c, 3)
	expectSP(t, c, 0x01ff)
}

func TestNMI(t *testing.T) {
	c, m := loadCPU(0xea)
	m.Write(0xfffa, 0x00)
	m.Write(0xfffb, 0x80)
	m.Write(0x8000, 0xea)

	c.Reg.SR |= cpu.FlagI // NMI is unconditional
	c.SignalNMI()
	step(t, c)
	expectPC(t, c, 0x8001)
	expectSP(t, c, 0x01fc)
}

func TestReset(t *testing.T) {
	c, m := loadCPU(0xea)
	m.Write(0xfffc, 0x00)
	m.Write(0xfffd, 0xc0)
	m.Write(0xc000, 0xea)

	c.Reg.SP = 0x01f0
	c.SignalReset()
	step(t, c)
	expectPC(t, c, 0xc001)
	expectSP(t, c, 0x01f0) // reset leaves SP and SR untouched
}

func TestUnusedBitAlwaysSet(t *testing.T) {
	c, _ := loadCPU(0xa9, 0x00, 0x48, 0x28) // LDA #0, PHA, PLP

	stepN(t, c, 3)
	expectFlag(t, c, cpu.FlagU, true) // PLP keeps the live unused bit
}
