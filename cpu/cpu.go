// Package cpu implements the fetch/decode/execute engine for the 13-opcode
// ISA described by the simulator spec: a 32-bit-word, 16-bit-address RISC
// core with self-modifying LOAD/STORE and no pipelining.
package cpu

import (
	"fmt"

	"github.com/Stasiu51/RISCMachine/mask"
	"github.com/Stasiu51/RISCMachine/mem"
)

// Printer is the PRINT opcode's side channel: (R[arg1], R[arg2], MEM[data]).
// A nil Printer makes PRINT a no-op.
type Printer func(ra, rb, memWord uint32)

// Debugger is an implementation-defined side-channel a host may wire up.
// The core never calls it: opcode 0b111111 always executes as PRINT, so no
// instruction reaches this hook, and the core never interprets which.
type Debugger func(which uint8)

// BadInstructionError is raised when the opcode field of a fetched
// instruction does not name a known opcode. It is fatal: the Cpu halts and
// surfaces the error to the host.
type BadInstructionError struct {
	Word uint32
	PC   uint16
}

func (e *BadInstructionError) Error() string {
	return fmt.Sprintf("bad instruction %#08x at pc %#04x", e.Word, e.PC)
}

// Cpu is the execution engine: a register file over a Memory, with optional
// host-supplied print/debug hooks. It has no cost-accounting of its own —
// that lives entirely in the cost package, observing Mem.Events.
type Cpu struct {
	Mem  *mem.Memory
	Regs *RegisterFile

	Printer  Printer
	Debugger Debugger
}

// New returns a Cpu wired to mem, with a fresh register file in reset state.
// The host is expected to have already installed a program image in mem via
// mem.Memory.LoadImage before calling Run or Step.
func New(m *mem.Memory) *Cpu {
	return &Cpu{
		Mem:  m,
		Regs: NewRegisterFile(),
	}
}

// Reset returns the Cpu to its initial state: all registers and status bits
// zero, PC = 0, running = true, cache invalidated. RAM is untouched.
func (c *Cpu) Reset() {
	c.Regs.Reset()
	c.Mem.ResetCache()
}

// Step fetches, decodes, and executes exactly one instruction, advancing PC.
// It returns a *BadInstructionError if the fetched opcode is unrecognized;
// any other error is not possible by construction.
func (c *Cpu) Step() error {
	pc := c.Regs.PC
	word := c.Mem.Fetch(pc)
	instr := mask.Decode(word)

	next, err := c.execute(instr)
	if err != nil {
		c.Regs.Running = false
		return err
	}
	c.Regs.PC = next
	return nil
}

// Run steps the Cpu until HALT clears Running, a *BadInstructionError is
// raised, or maxInstructions steps have executed (maxInstructions <= 0 means
// unbounded). It returns the number of instructions executed and the
// terminating error, if any; running out of the instruction ceiling is not
// itself an error.
func (c *Cpu) Run(maxInstructions int) (int, error) {
	executed := 0
	for c.Regs.Running {
		if maxInstructions > 0 && executed >= maxInstructions {
			return executed, nil
		}
		if err := c.Step(); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}
