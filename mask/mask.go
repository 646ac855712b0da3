// Package mask provides low-level bit-field helpers and the 32-bit
// instruction word codec built on top of them.
//
// Bit numbering throughout is little-endian: bit 0 is the least significant
// bit of the word. Field extraction is 0-indexed from there, unlike a byte
// index into a string.
package mask

// Bit reports whether bit pos (0 = LSB) is set in w.
func Bit(w uint32, pos uint) bool {
	return w&(1<<pos) != 0
}

// Field extracts width bits of w starting at pos (0 = LSB).
func Field(w uint32, pos uint, width uint) uint32 {
	return (w >> pos) & fieldMask(width)
}

// SetField returns w with its width bits at pos replaced by the low width
// bits of value. Bits of value beyond width are discarded.
func SetField(w uint32, pos uint, width uint, value uint32) uint32 {
	m := fieldMask(width) << pos
	return (w &^ m) | ((value << pos) & m)
}

func fieldMask(width uint) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}
	return (uint32(1) << width) - 1
}

// Opcode is the 6-bit operation selector occupying bits 0-5 of an
// instruction word.
type Opcode uint8

const (
	OpNOP     Opcode = 0b000000
	OpHALT    Opcode = 0b000001
	OpADD     Opcode = 0b001001
	OpSUB     Opcode = 0b001010
	OpLSHIFT  Opcode = 0b001011
	OpRSHIFT  Opcode = 0b001100
	OpCOMP    Opcode = 0b010000
	OpCOMPGRT Opcode = 0b010010
	OpCOMPLST Opcode = 0b010011
	OpLOAD    Opcode = 0b011001
	OpSTORE   Opcode = 0b011010
	OpJMP     Opcode = 0b100001
	OpPRINT   Opcode = 0b111111
)

// Field bit positions and widths within the 32-bit instruction word.
const (
	opcodePos, opcodeWidth = 0, 6
	arg1Pos, arg1Width     = 6, 5
	arg2Pos, arg2Width     = 11, 5
	dataPos, dataWidth     = 16, 16
)

// Instruction is the decoded form of a 32-bit instruction word.
type Instruction struct {
	Word   uint32
	Opcode Opcode
	Arg1   uint8
	Arg2   uint8
	Data   uint16
}

// Decode splits a raw instruction word into its four fields.
func Decode(w uint32) Instruction {
	return Instruction{
		Word:   w,
		Opcode: Opcode(Field(w, opcodePos, opcodeWidth)),
		Arg1:   uint8(Field(w, arg1Pos, arg1Width)),
		Arg2:   uint8(Field(w, arg2Pos, arg2Width)),
		Data:   uint16(Field(w, dataPos, dataWidth)),
	}
}

// Encode packs (opcode, arg1, arg2, data) into a single instruction word.
// Fields are truncated to their field width, mirroring Decode's masking.
func Encode(opcode Opcode, arg1, arg2 uint8, data uint16) uint32 {
	var w uint32
	w = SetField(w, opcodePos, opcodeWidth, uint32(opcode))
	w = SetField(w, arg1Pos, arg1Width, uint32(arg1))
	w = SetField(w, arg2Pos, arg2Width, uint32(arg2))
	w = SetField(w, dataPos, dataWidth, uint32(data))
	return w
}

// Data5 returns the low 5 bits of Data: the ALU destination register index.
func (i Instruction) Data5() uint8 {
	return uint8(i.Data & 0x1F)
}

// LoadStoreFlags is the transient flag register F loaded from arg2 on
// LOAD/STORE: {HLF, FROM_SIG, TO_SIG, OW, IM}, bits 11..15 of the
// instruction respectively (i.e. bits 0..4 of arg2).
type LoadStoreFlags struct {
	HLF      bool
	FromSig  bool
	ToSig    bool
	OW       bool
	IM       bool
}

// DecodeLoadStoreFlags interprets a LOAD/STORE instruction's Arg2 as the
// flag register F.
func DecodeLoadStoreFlags(arg2 uint8) LoadStoreFlags {
	return LoadStoreFlags{
		HLF:     arg2&0x01 != 0,
		FromSig: arg2&0x02 != 0,
		ToSig:   arg2&0x04 != 0,
		OW:      arg2&0x08 != 0,
		IM:      arg2&0x10 != 0,
	}
}

// JumpFlags is the transient flag pair decoded from a JMP instruction's
// Arg2: ON_HIGH/ON_LOW (bit 11 of the instruction) and INC/DEC (bit 12).
type JumpFlags struct {
	OnHigh bool // jump when S[arg1] == 1, rather than == 0
	Dec    bool // subtract the displacement, rather than add it
}

// DecodeJumpFlags interprets a JMP instruction's Arg2 as the jump flag pair.
func DecodeJumpFlags(arg2 uint8) JumpFlags {
	return JumpFlags{
		OnHigh: arg2&0x01 != 0,
		Dec:    arg2&0x02 != 0,
	}
}
