package hack

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedInstruction = errors.New("malformed instruction")
	ErrAddressOutOfRange    = errors.New("address out of range")
)

// EncodeA encodes an address instruction loading addr.
func EncodeA(addr int) (Word, error) {
	if addr < 0 || addr > MaxAddress {
		return 0, fmt.Errorf("%w: %d does not fit in 15 bits", ErrAddressOutOfRange, addr)
	}
	return Word(addr), nil
}

// EncodeC encodes a compute instruction. dest and jump may be empty.
func EncodeC(dest, comp, jump string) (Word, error) {
	a, c, err := CompBits(comp)
	if err != nil {
		return 0, err
	}
	d, err := DestBits(dest)
	if err != nil {
		return 0, err
	}
	j, err := JumpBits(jump)
	if err != nil {
		return 0, err
	}
	return Word(0b111<<13 | a<<12 | c<<6 | d<<3 | j), nil
}

// DestBits returns the A, D, M store flags for dest.
func DestBits(dest string) (uint16, error) {
	var bits uint16
	for _, r := range dest {
		switch r {
		case 'A':
			bits |= destA
		case 'D':
			bits |= destD
		case 'M':
			bits |= destM
		default:
			return 0, fmt.Errorf("%w: invalid destination %q", ErrMalformedInstruction, dest)
		}
	}
	return bits, nil
}

// JumpBits returns the jump condition bits for jump.
func JumpBits(jump string) (uint16, error) {
	if jump == "" {
		return 0, nil
	}
	bits, ok := jumpTable[jump]
	if !ok {
		return 0, fmt.Errorf("%w: unknown jump %q", ErrMalformedInstruction, jump)
	}
	return bits, nil
}

// CompBits returns the a-bit and the six computation bits for comp.
func CompBits(comp string) (a uint16, bits uint16, err error) {
	key := comp
	if strings.ContainsRune(key, 'M') {
		a = 1
		key = strings.ReplaceAll(key, "M", "A")
	}
	key = CanonicalComp(key)
	bits, ok := compTable[key]
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown computation %q", ErrMalformedInstruction, comp)
	}
	return a, bits, nil
}

// CanonicalComp puts the operands of a commutative binary computation into
// table order: D before A/M before the constant 1. Other expressions are
// returned unchanged.
func CanonicalComp(comp string) string {
	if len(comp) != 3 || !strings.ContainsRune("+&|", rune(comp[1])) {
		return comp
	}
	x, y := operandRank(comp[0]), operandRank(comp[2])
	if x < 0 || y < 0 || x <= y {
		return comp
	}
	return string([]byte{comp[2], comp[1], comp[0]})
}

func operandRank(c byte) int {
	switch c {
	case 'D':
		return 0
	case 'A', 'M':
		return 1
	case '1':
		return 2
	}
	return -1
}
