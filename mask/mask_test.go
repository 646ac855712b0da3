package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldAndSetField(t *testing.T) {
	var w uint32 = 0
	w = SetField(w, 0, 6, 0b101010)
	w = SetField(w, 6, 5, 0x1F)
	w = SetField(w, 11, 5, 0x03)
	w = SetField(w, 16, 16, 0xBEEF)

	assert.Equal(t, uint32(0b101010), Field(w, 0, 6))
	assert.Equal(t, uint32(0x1F), Field(w, 6, 5))
	assert.Equal(t, uint32(0x03), Field(w, 11, 5))
	assert.Equal(t, uint32(0xBEEF), Field(w, 16, 16))
}

func TestSetFieldTruncatesToWidth(t *testing.T) {
	w := SetField(0, 0, 6, 0xFF) // only the low 6 bits of 0xFF should stick
	assert.Equal(t, uint32(0x3F), w)
}

func TestBit(t *testing.T) {
	w := uint32(0b1000_0001)
	assert.True(t, Bit(w, 0))
	assert.False(t, Bit(w, 1))
	assert.True(t, Bit(w, 7))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		opcode     Opcode
		arg1, arg2 uint8
		data       uint16
	}{
		{OpADD, 2, 3, 4},
		{OpLOAD, 0, 0x1F, 0xABCD},
		{OpJMP, 3, 0b00011, 5},
		{OpPRINT, 31, 31, 0xFFFF},
	} {
		w := Encode(tc.opcode, tc.arg1, tc.arg2, tc.data)
		got := Decode(w)
		assert.Equal(t, tc.opcode, got.Opcode)
		assert.Equal(t, tc.arg1, got.Arg1)
		assert.Equal(t, tc.arg2, got.Arg2)
		assert.Equal(t, tc.data, got.Data)
	}
}

func TestData5UsesLowFiveBits(t *testing.T) {
	i := Decode(Encode(OpADD, 0, 0, 0xFFE0))
	assert.Equal(t, uint8(0), i.Data5())

	i = Decode(Encode(OpADD, 0, 0, 0x0015))
	assert.Equal(t, uint8(0x15), i.Data5())
}

func TestDecodeLoadStoreFlags(t *testing.T) {
	f := DecodeLoadStoreFlags(0b10101)
	assert.True(t, f.HLF)
	assert.False(t, f.FromSig)
	assert.True(t, f.ToSig)
	assert.False(t, f.OW)
	assert.True(t, f.IM)
}

func TestDecodeJumpFlags(t *testing.T) {
	f := DecodeJumpFlags(0b01)
	assert.True(t, f.OnHigh)
	assert.False(t, f.Dec)

	f = DecodeJumpFlags(0b10)
	assert.False(t, f.OnHigh)
	assert.True(t, f.Dec)
}
