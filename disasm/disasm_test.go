package disasm_test

import (
	"testing"

	"github.com/Miliox/mt6502/cpu"
	"github.com/Miliox/mt6502/disasm"
)

func TestDisassemble(t *testing.T) {
	mem := cpu.NewFlatMemory()
	mem.WriteBytes(0x1000, []byte{
		0xa9, 0x5e, // LDA #$5E
		0x8d, 0x00, 0x15, // STA $1500
		0x81, 0x40, // STA ($40,X)
		0xd0, 0xfc, // BNE $1005
		0x0a,       // ASL
		0x6c, 0xfe, 0x02, // JMP ($02FE)
		0x02, // illegal
	})

	cases := []struct {
		addr uint16
		line string
		next uint16
	}{
		{0x1000, "LDA #$5E", 0x1002},
		{0x1002, "STA $1500", 0x1005},
		{0x1005, "STA ($40,X)", 0x1007},
		{0x1007, "BNE $1005", 0x1009},
		{0x1009, "ASL ", 0x100a},
		{0x100a, "JMP ($02FE)", 0x100d},
		{0x100d, "??? $02", 0x100e},
	}

	for _, tc := range cases {
		line, next := disasm.Disassemble(mem, tc.addr)
		if line != tc.line {
			t.Errorf("line at $%04X incorrect. exp: %q, got: %q", tc.addr, tc.line, line)
		}
		if next != tc.next {
			t.Errorf("next at $%04X incorrect. exp: $%04X, got: $%04X", tc.addr, tc.next, next)
		}
	}
}

func TestStatusString(t *testing.T) {
	var r cpu.Registers
	r.Init()
	if got := disasm.GetStatusString(&r); got != "nv-Bdizc" {
		t.Errorf("status string incorrect. exp: %q, got: %q", "nv-Bdizc", got)
	}

	r.SR |= cpu.FlagN | cpu.FlagZ
	if got := disasm.GetStatusString(&r); got != "Nv-BdiZc" {
		t.Errorf("status string incorrect. got: %q", got)
	}
}
