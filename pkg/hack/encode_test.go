package hack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeA(t *testing.T) {
	tests := []struct {
		addr int
		want string
	}{
		{0, "0000000000000000"},
		{2, "0000000000000010"},
		{18, "0000000000010010"},
		{16384, "0100000000000000"},
		{32767, "0111111111111111"},
	}
	for _, tc := range tests {
		w, err := EncodeA(tc.addr)
		require.NoError(t, err)
		assert.Equal(t, tc.want, w.String())
	}

	_, err := EncodeA(32768)
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
	_, err = EncodeA(-1)
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
}

func TestDestBits(t *testing.T) {
	tests := []struct {
		dest string
		want uint16
	}{
		{"", 0b000},
		{"M", 0b001},
		{"D", 0b010},
		{"MD", 0b011},
		{"DM", 0b011},
		{"A", 0b100},
		{"AM", 0b101},
		{"AD", 0b110},
		{"AMD", 0b111},
		{"ADM", 0b111},
		{"MDA", 0b111},
	}
	for _, tc := range tests {
		got, err := DestBits(tc.dest)
		require.NoError(t, err, tc.dest)
		assert.Equal(t, tc.want, got, "DestBits(%q)", tc.dest)
	}

	_, err := DestBits("X")
	assert.ErrorIs(t, err, ErrMalformedInstruction)
}

func TestDestBitsAreIndependentFlags(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		dest := ""
		if mask&4 != 0 {
			dest += "A"
		}
		if mask&2 != 0 {
			dest += "D"
		}
		if mask&1 != 0 {
			dest += "M"
		}
		got, err := DestBits(dest)
		require.NoError(t, err)
		assert.Equal(t, uint16(mask), got, "DestBits(%q)", dest)
	}
}

func TestJumpBits(t *testing.T) {
	tests := []struct {
		jump string
		want uint16
	}{
		{"", 0b000},
		{"JGT", 0b001},
		{"JEQ", 0b010},
		{"JGE", 0b011},
		{"JLT", 0b100},
		{"JNE", 0b101},
		{"JLE", 0b110},
		{"JMP", 0b111},
	}
	for _, tc := range tests {
		got, err := JumpBits(tc.jump)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "JumpBits(%q)", tc.jump)
	}

	_, err := JumpBits("JXX")
	assert.ErrorIs(t, err, ErrMalformedInstruction)
	_, err = JumpBits("jmp")
	assert.ErrorIs(t, err, ErrMalformedInstruction)
}

func TestCompBits(t *testing.T) {
	tests := []struct {
		comp string
		want string
	}{
		{"0", "0101010"},
		{"1", "0111111"},
		{"-1", "0111010"},
		{"D", "0001100"},
		{"A", "0110000"},
		{"!D", "0001101"},
		{"!A", "0110001"},
		{"-D", "0001111"},
		{"-A", "0110011"},
		{"D+1", "0011111"},
		{"A+1", "0110111"},
		{"D-1", "0001110"},
		{"A-1", "0110010"},
		{"D+A", "0000010"},
		{"D-A", "0010011"},
		{"A-D", "0000111"},
		{"D&A", "0000000"},
		{"D|A", "0010101"},
		{"M", "1110000"},
		{"!M", "1110001"},
		{"-M", "1110011"},
		{"M+1", "1110111"},
		{"M-1", "1110010"},
		{"D+M", "1000010"},
		{"D-M", "1010011"},
		{"M-D", "1000111"},
		{"D&M", "1000000"},
		{"D|M", "1010101"},
	}
	for _, tc := range tests {
		a, bits, err := CompBits(tc.comp)
		require.NoError(t, err, tc.comp)
		got := Word(a<<6 | bits).String()[WordBits-7:]
		assert.Equal(t, tc.want, got, "CompBits(%q)", tc.comp)
	}

	for _, bad := range []string{"Q", "", "D*A", "A+M", "D+2", "1&D", "M+A"} {
		_, _, err := CompBits(bad)
		assert.ErrorIs(t, err, ErrMalformedInstruction, "CompBits(%q)", bad)
	}
}

func TestCanonicalComp(t *testing.T) {
	tests := map[string]string{
		"0":   "0",
		"!D":  "!D",
		"A-1": "A-1",
		"A-D": "A-D",
		"D-A": "D-A",
		"D+1": "D+1",
		"D+M": "D+M",
		"D&A": "D&A",
		"D|A": "D|A",
		"1+D": "D+1",
		"1+A": "A+1",
		"1+M": "M+1",
		"M+D": "D+M",
		"A+D": "D+A",
		"A&D": "D&A",
		"M&D": "D&M",
		"A|D": "D|A",
		"M|D": "D|M",
		"A+A": "A+A",
		"X+D": "X+D",
	}
	for in, want := range tests {
		assert.Equal(t, want, CanonicalComp(in), "CanonicalComp(%q)", in)
	}
}

func TestCommutativeFormsEncodeIdentically(t *testing.T) {
	pairs := [][2]string{
		{"1+D", "D+1"},
		{"1+A", "A+1"},
		{"1+M", "M+1"},
		{"A+D", "D+A"},
		{"M+D", "D+M"},
		{"A&D", "D&A"},
		{"M&D", "D&M"},
		{"A|D", "D|A"},
		{"M|D", "D|M"},
	}
	for _, p := range pairs {
		a, err := EncodeC("D", p[0], "")
		require.NoError(t, err)
		b, err := EncodeC("D", p[1], "")
		require.NoError(t, err)
		assert.Equal(t, b, a, "%s vs %s", p[0], p[1])
	}
}

func TestEncodeC(t *testing.T) {
	tests := []struct {
		dest, comp, jump string
		want             string
	}{
		{"MD", "A-1", "JGE", "1110110010011011"},
		{"", "A-1", "", "1110110010000000"},
		{"D", "A", "", "1110110000010000"},
		{"D", "D+A", "", "1110000010010000"},
		{"M", "D", "", "1110001100001000"},
		{"", "0", "JMP", "1110101010000111"},
		{"AMD", "D|M", "JNE", "1111010101111101"},
		{"D", "1+D", "", "1110011111010000"},
	}
	for _, tc := range tests {
		w, err := EncodeC(tc.dest, tc.comp, tc.jump)
		require.NoError(t, err)
		assert.Equal(t, tc.want, w.String(), "%s=%s;%s", tc.dest, tc.comp, tc.jump)
	}

	_, err := EncodeC("", "Q", "")
	assert.ErrorIs(t, err, ErrMalformedInstruction)
	_, err = EncodeC("Z", "D", "")
	assert.ErrorIs(t, err, ErrMalformedInstruction)
	_, err = EncodeC("", "D", "JJJ")
	assert.ErrorIs(t, err, ErrMalformedInstruction)
}
