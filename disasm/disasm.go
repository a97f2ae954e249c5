// Copyright 2019 The mt6502 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6502 instruction set disassembler.
package disasm

import (
	"fmt"

	"github.com/Miliox/mt6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"%s",      // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"%s",      // ACC
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice,
// least significant byte last.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code on the bus 'm' at address 'addr'. Return
// a 'line' string representing the disassembled instruction and a
// 'next' address that starts the following line of machine code.
// Illegal opcodes disassemble as "???" and are one byte long.
func Disassemble(m cpu.Bus, addr uint16) (line string, next uint16) {
	opcode := m.Read(addr)
	inst := &cpu.Instructions[opcode]
	if inst.Name == "" {
		return fmt.Sprintf("??? $%02X", opcode), addr + 1
	}

	operand := make([]byte, inst.Length-1)
	for i := range operand {
		operand[i] = m.Read(addr + 1 + uint16(i))
	}

	if inst.Mode == cpu.REL {
		// Convert the relative offset to an absolute address.
		braddr := int(addr) + int(inst.Length) + int(int8(operand[0]))
		operand = []byte{byte(braddr), byte(braddr >> 8)}
	}

	format := "%s " + modeFormat[inst.Mode]
	line = fmt.Sprintf(format, inst.Name, hexString(operand))
	next = addr + uint16(inst.Length)
	return line, next
}

var flagNames = "NV-BDIZC"

// GetRegisterString returns a string describing the contents of the
// register file, with lowercase letters marking cleared status flags.
func GetRegisterString(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%04X PC=%04X %s",
		r.A, r.X, r.Y, r.SP, r.PC, GetStatusString(r))
}

// GetStatusString renders the status register as NV-BDIZC with
// lowercase letters for cleared flags.
func GetStatusString(r *cpu.Registers) string {
	b := []byte(flagNames)
	for i, mask := 0, byte(0x80); i < 8; i, mask = i+1, mask>>1 {
		if (r.SR&mask) == 0 && b[i] != '-' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
