// Copyright 2019 The mt6502 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "mt6502"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Monitor).cmdHelp,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "annotate",
		Brief: "Annotate an address",
		Description: "Provide a code annotation at a memory address." +
			" When disassembling code at this address, the annotation" +
			" will be displayed.",
		Usage: "annotate <address> <string>",
		Data:  (*Monitor).cmdAnnotate,
	})

	// Breakpoint commands
	bp := root.AddSubtree(cmd.TreeDescriptor{Name: "breakpoint", Brief: "Breakpoint commands"})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints.",
		Usage:       "breakpoint list",
		Data:        (*Monitor).cmdBreakpointList,
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		Usage: "breakpoint add <address>",
		Data:  (*Monitor).cmdBreakpointAdd,
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
		Data:        (*Monitor).cmdBreakpointRemove,
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
		Data:        (*Monitor).cmdBreakpointEnable,
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from stopping the CPU when" +
			" running.",
		Usage: "breakpoint disable <address>",
		Data:  (*Monitor).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	db := root.AddSubtree(cmd.TreeDescriptor{Name: "databreakpoint", Brief: "Data breakpoint commands"})
	db.AddCommand(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List data breakpoints",
		Description: "List all current data breakpoints.",
		Usage:       "databreakpoint list",
		Data:        (*Monitor).cmdDataBreakpointList,
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a data breakpoint",
		Description: "Add a new data breakpoint at the specified memory" +
			" address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte value" +
			" may be specified, and the CPU will stop only when this" +
			" value is stored. The data breakpoint starts enabled.",
		Usage: "databreakpoint add <address> [<value>]",
		Data:  (*Monitor).cmdDataBreakpointAdd,
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:  "remove",
		Brief: "Remove a data breakpoint",
		Description: "Remove a previously added data breakpoint at the" +
			" specified memory address.",
		Usage: "databreakpoint remove <address>",
		Data:  (*Monitor).cmdDataBreakpointRemove,
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a data breakpoint",
		Description: "Enable a previously added data breakpoint.",
		Usage:       "databreakpoint enable <address>",
		Data:        (*Monitor).cmdDataBreakpointEnable,
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:        "disable",
		Brief:       "Disable a data breakpoint",
		Description: "Disable a previously added data breakpoint.",
		Usage:       "databreakpoint disable <address>",
		Data:        (*Monitor).cmdDataBreakpointDisable,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instructions to disassemble may be" +
			" specified as an option.",
		Usage: "disassemble <address> [<count>]",
		Data:  (*Monitor).cmdDisassemble,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "load",
		Brief: "Load a binary file",
		Description: "Load the contents of a raw binary file into the" +
			" emulated system's memory at the specified address, and set" +
			" the program counter to that address.",
		Usage: "load <filename> <address>",
		Data:  (*Monitor).cmdLoad,
	})

	// Memory commands
	me := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option.",
		Usage: "memory dump <address> [<bytes>]",
		Data:  (*Monitor).cmdMemoryDump,
	})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the" +
			" specified address. The values to assign should be a series" +
			" of space-separated byte values.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Monitor).cmdMemorySet,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Monitor).cmdQuit,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays" +
			" the current contents of the CPU registers. When used with" +
			" arguments, this command changes the value of a register or" +
			" one of the CPU's status flags. Allowed register names" +
			" include A, X, Y, PC and SP. Allowed status flag names" +
			" include N, V, B, D, I, Z and C.",
		Usage: "register [<name> <value>]",
		Data:  (*Monitor).cmdRegister,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "run",
		Brief: "Run the CPU",
		Description: "Run the CPU until a breakpoint is hit, an illegal" +
			" instruction faults, or the user types Ctrl-C. When a clock" +
			" rate is configured (see the set command), execution is" +
			" paced to the configured rate.",
		Usage: "run [<address>]",
		Data:  (*Monitor).cmdRun,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see" +
			" the current values of all configuration variables, type" +
			" set without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Monitor).cmdSet,
	})

	// Interrupt signal commands
	sg := root.AddSubtree(cmd.TreeDescriptor{Name: "signal", Brief: "Interrupt signal commands"})
	sg.AddCommand(cmd.CommandDescriptor{
		Name:  "irq",
		Brief: "Signal a maskable interrupt",
		Description: "Latch a maskable interrupt request. The request is" +
			" honoured before the next instruction unless interrupts are" +
			" disabled.",
		Usage: "signal irq",
		Data:  (*Monitor).cmdSignalIRQ,
	})
	sg.AddCommand(cmd.CommandDescriptor{
		Name:        "nmi",
		Brief:       "Signal a non-maskable interrupt",
		Description: "Latch a non-maskable interrupt request.",
		Usage:       "signal nmi",
		Data:        (*Monitor).cmdSignalNMI,
	})
	sg.AddCommand(cmd.CommandDescriptor{
		Name:  "reset",
		Brief: "Signal a reset",
		Description: "Latch a reset request. Before the next instruction" +
			" the program counter is loaded from the reset vector.",
		Usage: "signal reset",
		Data:  (*Monitor).cmdSignalReset,
	})

	// Step commands
	st := root.AddSubtree(cmd.TreeDescriptor{Name: "step", Brief: "Step the CPU"})
	st.AddCommand(cmd.CommandDescriptor{
		Name:  "in",
		Brief: "Step into next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the" +
			" subroutine. The number of steps may be specified as an" +
			" option.",
		Usage: "step in [<count>]",
		Data:  (*Monitor).cmdStepIn,
	})
	st.AddCommand(cmd.CommandDescriptor{
		Name:  "over",
		Brief: "Step over next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step over the" +
			" subroutine. The number of steps may be specified as an" +
			" option.",
		Usage: "step over [<count>]",
		Data:  (*Monitor).cmdStepOver,
	})

	// Add command shortcuts.
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("db", "databreakpoint")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbe", "databreakpoint enable")
	root.AddShortcut("dbd", "databreakpoint disable")
	root.AddShortcut("l", "load")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "register")
	root.AddShortcut("s", "step over")
	root.AddShortcut("si", "step in")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "register")

	cmds = root
}

// One line per command for the bare help display.
var helpSummary = []struct{ name, brief string }{
	{"annotate", "Annotate an address"},
	{"breakpoint", "Breakpoint commands"},
	{"databreakpoint", "Data breakpoint commands"},
	{"disassemble", "Disassemble code"},
	{"help", "Display help for a command"},
	{"load", "Load a binary file"},
	{"memory", "Memory commands"},
	{"quit", "Quit the program"},
	{"register", "View or change register values"},
	{"run", "Run the CPU"},
	{"set", "Set a configuration variable"},
	{"signal", "Interrupt signal commands"},
	{"step", "Step the CPU"},
}
