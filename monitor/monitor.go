// Copyright 2019 The mt6502 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor implements an interactive machine monitor around an
// emulated 6502 system with 64K of memory. The monitor can load raw
// binaries, inspect and change registers and memory, disassemble code,
// manage breakpoints, signal interrupts, and run the CPU either at full
// speed or paced to a configured clock rate.
package monitor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/beevik/cmd"
	"github.com/fatih/color"

	"github.com/Miliox/mt6502/clock"
	"github.com/Miliox/mt6502/cpu"
	"github.com/Miliox/mt6502/disasm"
)

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles
	displayAnnotations

	displayAll = displayRegisters | displayCycles | displayAnnotations
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
	stateFault
)

var (
	breakColor = color.New(color.FgRed).SprintfFunc()
	faultColor = color.New(color.FgRed, color.Bold).SprintfFunc()
	noteColor  = color.New(color.FgCyan).SprintfFunc()
)

// A Monitor drives an emulated 6502 system from a stream of commands.
type Monitor struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.FlatMemory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *cmd.Selection
	state       state
	settings    *settings
	annotations map[uint16]string

	nextDisasmAddr  uint16
	nextMemDumpAddr uint16
}

// New creates a monitor around a fresh CPU and a flat 64K memory.
func New() *Monitor {
	m := &Monitor{
		state:       stateProcessingCommands,
		settings:    newSettings(),
		annotations: make(map[uint16]string),
	}

	m.mem = cpu.NewFlatMemory()
	m.cpu = cpu.New(m.mem)

	m.debugger = cpu.NewDebugger(m)
	m.cpu.AttachDebugger(m.debugger)

	return m
}

// CPU exposes the monitored CPU, mainly for tests and embedding hosts.
func (m *Monitor) CPU() *cpu.CPU {
	return m.cpu
}

// RunCommands accepts commands from a reader and writes results to a
// writer. In interactive mode a prompt is displayed while the monitor
// waits for the next command.
func (m *Monitor) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	m.input = bufio.NewScanner(r)
	m.output = bufio.NewWriter(w)
	m.interactive = interactive
	color.NoColor = !interactive

	if interactive {
		m.println()
		m.displayPC()
	}

	for {
		m.prompt()

		line, err := m.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				m.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				m.println("Command is ambiguous.")
				continue
			case err != nil:
				m.printf("ERROR: %v.\n", err)
				continue
			}
		} else if m.lastCmd != nil {
			c = *m.lastCmd
		}

		if c.Command == nil {
			continue
		}
		m.lastCmd = &c

		handler := c.Command.Data.(func(*Monitor, cmd.Selection) error)
		if err := handler(m, c); err != nil {
			break
		}
	}

	m.flush()
}

// Break interrupts a running CPU.
func (m *Monitor) Break() {
	m.println()

	if m.state == stateRunning {
		m.displayPC()
	}
	if m.state == stateProcessingCommands {
		m.prompt()
	}
	m.state = stateProcessingCommands
}

func (m *Monitor) print(args ...any) {
	fmt.Fprint(m.output, args...)
}

func (m *Monitor) printf(format string, args ...any) {
	fmt.Fprintf(m.output, format, args...)
	m.flush()
}

func (m *Monitor) println(args ...any) {
	fmt.Fprintln(m.output, args...)
	m.flush()
}

func (m *Monitor) flush() {
	m.output.Flush()
}

func (m *Monitor) getLine() (string, error) {
	if m.input.Scan() {
		return m.input.Text(), nil
	}
	if m.input.Err() != nil {
		return "", m.input.Err()
	}
	return "", io.EOF
}

func (m *Monitor) prompt() {
	if m.interactive {
		m.printf("* ")
	}
}

func (m *Monitor) displayPC() {
	d, _ := m.disassemble(m.cpu.Reg.PC, displayAll)
	m.println(d)
}

func (m *Monitor) displayHelpText(c *cmd.Command) {
	if c.Usage != "" {
		m.printf("Syntax: %s\n", c.Usage)
	} else {
		m.println("<no help text>")
	}
}

func (m *Monitor) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		m.println("Commands:")
		for _, h := range helpSummary {
			m.printf("    %-15s  %s\n", h.name, h.brief)
		}
		return nil
	}

	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}
	if s.Command.Usage != "" {
		m.printf("Syntax: %s\n\n", s.Command.Usage)
	}
	if s.Command.Description != "" {
		m.printf("%s\n", s.Command.Description)
	}
	return nil
}

func (m *Monitor) cmdAnnotate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	annotation := strings.Join(c.Args[1:], " ")
	if annotation == "" {
		delete(m.annotations, addr)
		m.printf("Annotation removed at $%04X.\n", addr)
	} else {
		m.annotations[addr] = annotation
		m.printf("Annotation added at $%04X.\n", addr)
	}
	return nil
}

func (m *Monitor) cmdBreakpointList(c cmd.Selection) error {
	m.println("Addr  Enabled")
	m.println("----- -------")
	for _, b := range m.debugger.GetBreakpoints() {
		m.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (m *Monitor) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	m.debugger.AddBreakpoint(addr)
	m.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (m *Monitor) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	if m.debugger.GetBreakpoint(addr) == nil {
		m.printf("No breakpoint at $%04X.\n", addr)
		return nil
	}
	m.debugger.RemoveBreakpoint(addr)
	m.printf("Breakpoint removed at $%04X.\n", addr)
	return nil
}

func (m *Monitor) cmdBreakpointEnable(c cmd.Selection) error {
	return m.setBreakpointEnabled(c, true)
}

func (m *Monitor) cmdBreakpointDisable(c cmd.Selection) error {
	return m.setBreakpointEnabled(c, false)
}

func (m *Monitor) setBreakpointEnabled(c cmd.Selection, enable bool) error {
	if len(c.Args) < 1 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	b := m.debugger.GetBreakpoint(addr)
	if b == nil {
		m.printf("No breakpoint at $%04X.\n", addr)
		return nil
	}
	b.Disabled = !enable
	if enable {
		m.printf("Breakpoint enabled at $%04X.\n", addr)
	} else {
		m.printf("Breakpoint disabled at $%04X.\n", addr)
	}
	return nil
}

func (m *Monitor) cmdDataBreakpointList(c cmd.Selection) error {
	m.println("Addr  Enabled Value")
	m.println("----- ------- -----")
	for _, b := range m.debugger.GetDataBreakpoints() {
		if b.Conditional {
			m.printf("$%04X %-7v $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			m.printf("$%04X %-7v any\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (m *Monitor) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := parseByte(c.Args[1])
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		m.debugger.AddConditionalDataBreakpoint(addr, value)
		m.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, value)
	} else {
		m.debugger.AddDataBreakpoint(addr)
		m.printf("Data breakpoint added at $%04X.\n", addr)
	}
	return nil
}

func (m *Monitor) cmdDataBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	if m.debugger.GetDataBreakpoint(addr) == nil {
		m.printf("No data breakpoint at $%04X.\n", addr)
		return nil
	}
	m.debugger.RemoveDataBreakpoint(addr)
	m.printf("Data breakpoint removed at $%04X.\n", addr)
	return nil
}

func (m *Monitor) cmdDataBreakpointEnable(c cmd.Selection) error {
	return m.setDataBreakpointEnabled(c, true)
}

func (m *Monitor) cmdDataBreakpointDisable(c cmd.Selection) error {
	return m.setDataBreakpointEnabled(c, false)
}

func (m *Monitor) setDataBreakpointEnabled(c cmd.Selection, enable bool) error {
	if len(c.Args) < 1 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	b := m.debugger.GetDataBreakpoint(addr)
	if b == nil {
		m.printf("No data breakpoint at $%04X.\n", addr)
		return nil
	}
	b.Disabled = !enable
	if enable {
		m.printf("Data breakpoint enabled at $%04X.\n", addr)
	} else {
		m.printf("Data breakpoint disabled at $%04X.\n", addr)
	}
	return nil
}

func (m *Monitor) cmdDisassemble(c cmd.Selection) error {
	addr := m.nextDisasmAddr
	if len(c.Args) > 0 {
		switch c.Args[0] {
		case "$":
			// continue from the previous disassembly
		case ".":
			addr = m.cpu.Reg.PC
		default:
			a, err := parseAddr(c.Args[0])
			if err != nil {
				m.printf("%v\n", err)
				return nil
			}
			addr = a
		}
	}

	lines := m.settings.DisasmLines
	if len(c.Args) > 1 {
		n, err := parseValue(c.Args[1])
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		lines = int(n)
	}

	for i := 0; i < lines; i++ {
		d, next := m.disassemble(addr, displayAnnotations)
		m.println(d)
		addr = next
	}

	m.nextDisasmAddr = addr
	m.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (m *Monitor) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 2 {
		m.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	addr, err := parseAddr(c.Args[1])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	code, err := os.ReadFile(filename)
	if err != nil {
		m.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	if len(code) > 0x10000-int(addr) {
		m.printf("File '%s' does not fit at $%04X.\n", filepath.Base(filename), addr)
		return nil
	}

	m.mem.WriteBytes(addr, code)
	m.cpu.SetPC(addr)
	m.printf("Loaded '%s' to $%04X..$%04X\n",
		filepath.Base(filename), addr, int(addr)+len(code)-1)
	return nil
}

func (m *Monitor) cmdMemoryDump(c cmd.Selection) error {
	addr := m.nextMemDumpAddr
	if len(c.Args) > 0 {
		switch c.Args[0] {
		case "$":
			// continue from the previous dump
		case ".":
			addr = m.cpu.Reg.PC
		default:
			a, err := parseAddr(c.Args[0])
			if err != nil {
				m.printf("%v\n", err)
				return nil
			}
			addr = a
		}
	}

	bytes := uint16(m.settings.MemDumpBytes)
	if len(c.Args) > 1 {
		n, err := parseValue(c.Args[1])
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		bytes = uint16(n)
	}

	m.dumpMemory(addr, bytes)

	m.nextMemDumpAddr = addr + bytes
	m.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (m *Monitor) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		m.displayHelpText(c.Command)
		return nil
	}

	addr, err := parseAddr(c.Args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	for i, arg := range c.Args[1:] {
		v, err := parseByte(arg)
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		m.mem.Write(addr+uint16(i), v)
	}

	m.printf("Set %d byte(s) at $%04X.\n", len(c.Args)-1, addr)
	return nil
}

func (m *Monitor) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting program")
}

func (m *Monitor) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		d, _ := m.disassemble(m.cpu.Reg.PC, displayAll)
		m.println(d)
		return nil
	}
	if len(c.Args) < 2 {
		m.displayHelpText(c.Command)
		return nil
	}

	key := strings.ToLower(c.Args[0])
	reg := &m.cpu.Reg

	// Flag assignments take booleans.
	var flag byte
	switch key {
	case "n":
		flag = cpu.FlagN
	case "v":
		flag = cpu.FlagV
	case "b":
		flag = cpu.FlagB
	case "d":
		flag = cpu.FlagD
	case "i":
		flag = cpu.FlagI
	case "z":
		flag = cpu.FlagZ
	case "c":
		flag = cpu.FlagC
	}
	if flag != 0 {
		on, err := stringToBool(c.Args[1])
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		reg.SetFlag(flag, on)
		m.printf("Flag %s set to %v.\n", strings.ToUpper(key), on)
		return nil
	}

	v, err := parseValue(c.Args[1])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	switch key {
	case "a":
		reg.A = byte(v)
		m.printf("Register A set to $%02X.\n", reg.A)
	case "x":
		reg.X = byte(v)
		m.printf("Register X set to $%02X.\n", reg.X)
	case "y":
		reg.Y = byte(v)
		m.printf("Register Y set to $%02X.\n", reg.Y)
	case "sp":
		reg.SP = 0x0100 | (uint16(v) & 0x00ff)
		m.printf("Register SP set to $%04X.\n", reg.SP)
	case ".", "pc":
		reg.PC = uint16(v)
		m.printf("Register PC set to $%04X.\n", reg.PC)
	default:
		m.printf("Unknown register '%s'.\n", c.Args[0])
	}
	return nil
}

func (m *Monitor) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := parseAddr(c.Args[0])
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		m.cpu.SetPC(pc)
	}

	pacer := m.newPacer()
	if pacer != nil {
		m.printf("Running from $%04X at %d Hz. Press ctrl-C to break.\n",
			m.cpu.Reg.PC, m.settings.ClockRate)
	} else {
		m.printf("Running from $%04X. Press ctrl-C to break.\n", m.cpu.Reg.PC)
	}

	m.state = stateRunning
	for m.state == stateRunning {
		cycles, ok := m.step()
		if !ok {
			break
		}
		if pacer != nil {
			pacer.Elapse(cycles)
		}
	}
	m.state = stateProcessingCommands

	if pacer != nil && pacer.FrameCount() > 0 {
		m.printf("Paced %d frame(s); busy %v, idle %v.\n",
			pacer.FrameCount(), pacer.BusyPeriod(), pacer.IdlePeriod())
	}

	m.nextDisasmAddr = m.cpu.Reg.PC
	return nil
}

func (m *Monitor) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		m.println("Variables:")
		m.settings.Display(m.output)
		m.flush()

	case 1:
		m.displayHelpText(c.Command)

	default:
		key, value := c.Args[0], strings.Join(c.Args[1:], " ")

		var err error
		switch m.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("unknown variable '%s'", key)
		case reflect.String:
			err = m.settings.Set(key, value)
		case reflect.Bool:
			var on bool
			if on, err = stringToBool(value); err == nil {
				err = m.settings.Set(key, on)
			}
		default:
			var n int64
			if n, err = parseValue(value); err == nil {
				err = m.settings.Set(key, n)
			}
		}
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		m.printf("Variable '%s' set to '%v'.\n", key, value)
	}
	return nil
}

func (m *Monitor) cmdSignalIRQ(c cmd.Selection) error {
	m.cpu.SignalIRQ()
	m.println("IRQ latched.")
	return nil
}

func (m *Monitor) cmdSignalNMI(c cmd.Selection) error {
	m.cpu.SignalNMI()
	m.println("NMI latched.")
	return nil
}

func (m *Monitor) cmdSignalReset(c cmd.Selection) error {
	m.cpu.SignalReset()
	m.println("Reset latched.")
	return nil
}

func (m *Monitor) cmdStepIn(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		if n, err := parseValue(c.Args[0]); err == nil {
			count = int(n)
		}
	}

	m.state = stateRunning
	for i := count - 1; i >= 0 && m.state == stateRunning; i-- {
		if _, ok := m.step(); !ok {
			break
		}
		switch {
		case i == m.settings.StepLines:
			m.println("...")
		case i < m.settings.StepLines:
			m.displayPC()
		}
	}
	m.state = stateProcessingCommands

	m.nextDisasmAddr = m.cpu.Reg.PC
	return nil
}

func (m *Monitor) cmdStepOver(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		if n, err := parseValue(c.Args[0]); err == nil {
			count = int(n)
		}
	}

	m.state = stateRunning
	for i := count - 1; i >= 0 && m.state == stateRunning; i-- {
		if !m.stepOver() {
			break
		}
		switch {
		case i == m.settings.StepLines:
			m.println("...")
		case i < m.settings.StepLines:
			m.displayPC()
		}
	}
	m.state = stateProcessingCommands

	m.nextDisasmAddr = m.cpu.Reg.PC
	return nil
}

// Step the CPU once, reporting an illegal-instruction fault and
// stopping the current run if one occurs.
func (m *Monitor) step() (cycles uint8, ok bool) {
	cycles, err := m.cpu.Step()
	if err != nil {
		m.state = stateFault
		m.println(faultColor("Fault: %v. CPU halted.", err))
		return 0, false
	}
	return cycles, true
}

// Step over the next instruction. JSR runs the whole subroutine using a
// temporary breakpoint on the following instruction.
func (m *Monitor) stepOver() bool {
	inst := m.cpu.GetInstruction(m.cpu.Reg.PC)
	if inst.Name != "JSR" {
		_, ok := m.step()
		return ok
	}

	next := m.cpu.Reg.PC + uint16(inst.Length)
	tmpBreakpointCreated := false
	b := m.debugger.GetBreakpoint(next)
	if b == nil {
		b = m.debugger.AddBreakpoint(next)
		tmpBreakpointCreated = true
	}
	b.StepOver = true

	ok := true
	for m.state == stateRunning {
		if _, ok = m.step(); !ok {
			break
		}
	}
	b.StepOver = false

	// Interrupted by the temporary breakpoint: continue as normal.
	if m.state == stateStepOverBreakpoint {
		m.state = stateRunning
	}

	if tmpBreakpointCreated {
		m.debugger.RemoveBreakpoint(next)
	}
	return ok
}

// Build a pacer for run when a clock rate is configured.
func (m *Monitor) newPacer() *clock.Sync {
	if m.settings.ClockRate <= 0 || m.settings.FrameRate <= 0 {
		return nil
	}

	precision := clock.PrecisionLow
	switch strings.ToLower(m.settings.SyncPrecision) {
	case "medium":
		precision = clock.PrecisionMedium
	case "high":
		precision = clock.PrecisionHigh
	}

	return clock.New(uint64(m.settings.ClockRate), uint64(m.settings.FrameRate), precision)
}

func (m *Monitor) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	var line string
	line, next = disasm.Disassemble(m.mem, addr)

	b := make([]byte, next-addr)
	m.mem.ReadBytes(addr, b)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, codeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.GetRegisterString(&m.cpu.Reg)
	}
	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%-12d", m.cpu.Cycles)
	}
	if (flags & displayAnnotations) != 0 {
		if anno, ok := m.annotations[addr]; ok {
			str += " ; " + noteColor("%s", anno)
		}
	}
	return str, next
}

func (m *Monitor) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))
	for a := uint32(addr0); a <= uint32(addr1); a += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for i, c1, c2 := uint32(0), 6, 32; i < 8; i, c1, c2 = i+1, c1+3, c2+1 {
			if a+i <= uint32(addr1) {
				v := m.mem.Read(uint16(a + i))
				byteToBuf(v, buf[c1:c1+2])
				buf[c2] = toPrintableChar(v)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		m.println(string(buf))
	}
}

// OnBreakpoint halts a running CPU at an execution breakpoint.
func (m *Monitor) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		m.state = stateStepOverBreakpoint
		return
	}
	m.state = stateBreakpoint
	m.println(breakColor("Breakpoint hit at $%04X.", b.Address))
	m.displayPC()
}

// OnDataBreakpoint halts a running CPU after a watched store.
func (m *Monitor) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	m.state = stateBreakpoint
	m.println(breakColor("Data breakpoint hit on address $%04X.", b.Address))

	if c.LastPC != c.Reg.PC {
		d, _ := m.disassemble(c.LastPC, displayAll)
		m.println(d)
	}
	m.displayPC()
}
