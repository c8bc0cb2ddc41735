// Package hack describes the 16-bit Hack machine: its word format, the
// predefined symbols and the bit tables used to encode compute instructions.
package hack

import (
	"fmt"
	"strconv"
)

const (
	WordBits = 16

	// MaxAddress is the largest value an address instruction can load.
	MaxAddress = 1<<15 - 1

	// VariableBase is the first RAM address handed out to variables.
	VariableBase = 16

	ScreenBase   = 16384
	KeyboardBase = 24576
)

// Word is one machine instruction.
type Word uint16

// String returns the canonical 16-character binary form of w.
func (w Word) String() string {
	return fmt.Sprintf("%016b", uint16(w))
}

// ParseWord parses a 16-character binary string.
func ParseWord(s string) (Word, error) {
	if len(s) != WordBits {
		return 0, fmt.Errorf("machine word %q must be %d binary digits", s, WordBits)
	}
	v, err := strconv.ParseUint(s, 2, WordBits)
	if err != nil {
		return 0, fmt.Errorf("machine word %q is not binary", s)
	}
	return Word(v), nil
}

// PredefinedSymbols returns a fresh copy of the symbols every program starts with.
func PredefinedSymbols() map[string]int {
	syms := map[string]int{
		"SP":     0,
		"LCL":    1,
		"ARG":    2,
		"THIS":   3,
		"THAT":   4,
		"SCREEN": ScreenBase,
		"KBD":    KeyboardBase,
	}
	for i := 0; i < 16; i++ {
		syms["R"+strconv.Itoa(i)] = i
	}
	return syms
}

// RegisterAlias reports whether name is one of R0..R15 written in plain
// decimal, and returns its address.
func RegisterAlias(name string) (int, bool) {
	if len(name) < 2 || len(name) > 3 || name[0] != 'R' {
		return 0, false
	}
	digits := name[1:]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > 15 {
		return 0, false
	}
	return n, true
}

// Computation bits (c1..c6) keyed by canonical form with the A register.
// The a-bit selects M instead of A.
var compTable = map[string]uint16{
	"0":   0b101010,
	"1":   0b111111,
	"-1":  0b111010,
	"D":   0b001100,
	"A":   0b110000,
	"!D":  0b001101,
	"!A":  0b110001,
	"-D":  0b001111,
	"-A":  0b110011,
	"D+1": 0b011111,
	"A+1": 0b110111,
	"D-1": 0b001110,
	"A-1": 0b110010,
	"D+A": 0b000010,
	"D-A": 0b010011,
	"A-D": 0b000111,
	"D&A": 0b000000,
	"D|A": 0b010101,
}

var jumpTable = map[string]uint16{
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

const (
	destA = 0b100
	destD = 0b010
	destM = 0b001
)
