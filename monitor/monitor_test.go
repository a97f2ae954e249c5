package monitor_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Miliox/mt6502/monitor"
)

func runScript(t *testing.T, script string) string {
	t.Helper()
	m := monitor.New()
	var out bytes.Buffer
	m.RunCommands(strings.NewReader(script), &out, false)
	return out.String()
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q.\noutput:\n%s", w, out)
		}
	}
}

func TestMemorySetAndStep(t *testing.T) {
	out := runScript(t, `
memory set $0200 $a9 $22 $e8
register pc $0200
step in 2
register
`)
	expectOutput(t, out,
		"Set 3 byte(s) at $0200.",
		"Register PC set to $0200.",
		"A=22",
		"X=01",
	)
}

func TestRegisterFlagSet(t *testing.T) {
	out := runScript(t, `
register c on
register
`)
	expectOutput(t, out, "Flag C set to true.", "C")
	if !strings.Contains(out, "zC") && !strings.Contains(out, "ZC") {
		t.Errorf("carry not shown set in register display:\n%s", out)
	}
}

func TestBreakpointRun(t *testing.T) {
	out := runScript(t, `
memory set $0200 $e8 $4c $00 $02
register pc $0200
breakpoint add $0201
run
`)
	expectOutput(t, out,
		"Breakpoint added at $0201.",
		"Breakpoint hit at $0201.",
	)
}

func TestDataBreakpointRun(t *testing.T) {
	out := runScript(t, `
memory set $0200 $a9 $55 $8d $00 $40 $4c $00 $02
register pc $0200
databreakpoint add $4000 $55
run
`)
	expectOutput(t, out,
		"Conditional data breakpoint added at $4000 for value $55.",
		"Data breakpoint hit on address $4000.",
	)
}

func TestIllegalInstructionFault(t *testing.T) {
	out := runScript(t, `
memory set $0400 $02
register pc $0400
run
`)
	expectOutput(t, out, "Fault: illegal instruction $02 at $0400. CPU halted.")
}

func TestDisassembleAndDump(t *testing.T) {
	out := runScript(t, `
memory set $0200 $a9 $5e $8d $00 $15
annotate $0200 entry point
disassemble $0200 2
memory dump $0200 5
`)
	expectOutput(t, out,
		"LDA #$5E",
		"STA $1500",
		"entry point",
		"0200-",
	)
}

func TestStepOverSubroutine(t *testing.T) {
	out := runScript(t, `
memory set $0200 $20 $00 $03 $e8
memory set $0300 $a9 $7f $60
register pc $0200
step over
register
`)
	expectOutput(t, out, "A=7F", "PC=0203")
}

func TestSignalCommands(t *testing.T) {
	out := runScript(t, `
memory set $fffa $00 $80
memory set $8000 $ea
signal nmi
step in
register
`)
	expectOutput(t, out, "NMI latched.", "PC=8001")
}

func TestSettings(t *testing.T) {
	out := runScript(t, `
set clockrate 5000
set syncprecision high
set
`)
	expectOutput(t, out,
		"Variable 'clockrate' set to '5000'.",
		"Variable 'syncprecision' set to 'high'.",
		"ClockRate",
	)
}

func TestQuit(t *testing.T) {
	out := runScript(t, "quit\nregister\n")
	if strings.Contains(out, "A=") {
		t.Errorf("commands after quit should not run:\n%s", out)
	}
}
