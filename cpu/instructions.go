package cpu

import "github.com/Stasiu51/RISCMachine/mask"

// execute dispatches a decoded instruction and returns the PC to land on
// next. Every opcode except JMP returns pc+1 (wrapping mod 2^16 is free,
// since PC is a uint16); JMP computes its own target.
func (c *Cpu) execute(instr mask.Instruction) (uint16, error) {
	pc := c.Regs.PC

	switch instr.Opcode {
	case mask.OpNOP:
		// no effect

	case mask.OpHALT:
		c.Regs.Running = false

	case mask.OpADD:
		c.Regs.SetR(instr.Data5(), c.Regs.R(instr.Arg1)+c.Regs.R(instr.Arg2))

	case mask.OpSUB:
		c.Regs.SetR(instr.Data5(), c.Regs.R(instr.Arg1)-c.Regs.R(instr.Arg2))

	case mask.OpLSHIFT:
		c.Regs.SetR(instr.Data5(), c.Regs.R(instr.Arg1)<<(c.Regs.R(instr.Arg2)%32))

	case mask.OpRSHIFT:
		c.Regs.SetR(instr.Data5(), c.Regs.R(instr.Arg1)>>(c.Regs.R(instr.Arg2)%32))

	case mask.OpCOMP:
		c.Regs.SetS(instr.Data5(), c.Regs.R(instr.Arg1) == c.Regs.R(instr.Arg2))

	case mask.OpCOMPGRT:
		c.Regs.SetS(instr.Data5(), c.Regs.R(instr.Arg1) > c.Regs.R(instr.Arg2))

	case mask.OpCOMPLST:
		c.Regs.SetS(instr.Data5(), c.Regs.R(instr.Arg1) < c.Regs.R(instr.Arg2))

	case mask.OpLOAD:
		c.execLoad(instr)

	case mask.OpSTORE:
		c.execStore(instr)

	case mask.OpJMP:
		return c.execJump(instr, pc), nil

	case mask.OpPRINT:
		if c.Printer != nil {
			c.Printer(c.Regs.R(instr.Arg1), c.Regs.R(instr.Arg2), c.Mem.Load(instr.Data))
		}

	default:
		return pc, &BadInstructionError{Word: instr.Word, PC: pc}
	}

	return pc + 1, nil
}

// execLoad implements LOAD: source is the instruction word itself (IM=1) or
// MEM[data]; destination is R[arg1].
func (c *Cpu) execLoad(instr mask.Instruction) {
	flags := mask.DecodeLoadStoreFlags(instr.Arg2)

	var source uint32
	if flags.IM {
		source = instr.Word
	} else {
		source = c.Mem.Load(instr.Data)
	}

	dest := c.Regs.R(instr.Arg1)
	c.Regs.SetR(instr.Arg1, spliceTransfer(source, dest, flags))
}

// execStore implements STORE: source is the instruction word itself (IM=1)
// or R[arg1]; destination is MEM[data]. A half-word store with OW=0 must
// first read the destination's current value, to preserve its other half —
// this is the read-modify-write that lets two opposite-half STOREs compose
// into an arbitrary 32-bit value.
func (c *Cpu) execStore(instr mask.Instruction) {
	flags := mask.DecodeLoadStoreFlags(instr.Arg2)

	var source uint32
	if flags.IM {
		source = instr.Word
	} else {
		source = c.Regs.R(instr.Arg1)
	}

	var dest uint32
	if flags.HLF && !flags.OW {
		dest = c.Mem.Load(instr.Data)
	}

	c.Mem.Store(instr.Data, spliceTransfer(source, dest, flags))
}

// spliceTransfer computes the value written to a LOAD/STORE destination,
// given the source word, the destination's prior value (used only to
// preserve the untouched half), and the decoded flag register.
func spliceTransfer(source, dest uint32, flags mask.LoadStoreFlags) uint32 {
	if !flags.HLF {
		return source
	}

	var half uint32
	if flags.FromSig {
		half = (source >> 16) & 0xFFFF
	} else {
		half = source & 0xFFFF
	}

	if flags.OW {
		dest = 0
	}

	if flags.ToSig {
		return (dest &^ uint32(0xFFFF0000)) | (half << 16)
	}
	return (dest &^ uint32(0x0000FFFF)) | half
}

// execJump implements JMP: S[arg1] gated by ON_HIGH/ON_LOW selects whether
// the displacement is applied; INC/DEC selects add vs subtract. An
// unsatisfied condition falls through to pc+1 like every other instruction.
func (c *Cpu) execJump(instr mask.Instruction, pc uint16) uint16 {
	flags := mask.DecodeJumpFlags(instr.Arg2)
	s := c.Regs.S(instr.Arg1)

	taken := (flags.OnHigh && s) || (!flags.OnHigh && !s)
	if !taken {
		return pc + 1
	}
	if flags.Dec {
		return pc - instr.Data
	}
	return pc + instr.Data
}
