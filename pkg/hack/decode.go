package hack

import (
	"fmt"
	"strings"
)

var (
	compNames = invert(compTable)
	jumpNames = invert(jumpTable)
)

func invert(m map[string]uint16) map[uint16]string {
	out := make(map[uint16]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// Decode turns a machine word back into assembly text. Address
// instructions come back as "@n", compute instructions in dest=comp;jump
// form with canonical operand order.
func Decode(w Word) (string, error) {
	if w>>15 == 0 {
		return fmt.Sprintf("@%d", uint16(w)), nil
	}
	if w>>13 != 0b111 {
		return "", fmt.Errorf("%w: %s has reserved bits clear", ErrMalformedInstruction, w)
	}

	comp, ok := compNames[uint16(w>>6)&0b111111]
	if !ok {
		return "", fmt.Errorf("%w: %s has no computation", ErrMalformedInstruction, w)
	}
	if w>>12&1 == 1 {
		if !strings.ContainsRune(comp, 'A') {
			return "", fmt.Errorf("%w: %s sets the memory bit on a register-free computation", ErrMalformedInstruction, w)
		}
		comp = strings.ReplaceAll(comp, "A", "M")
	}

	var sb strings.Builder
	dest := uint16(w>>3) & 0b111
	if dest != 0 {
		if dest&destA != 0 {
			sb.WriteByte('A')
		}
		if dest&destD != 0 {
			sb.WriteByte('D')
		}
		if dest&destM != 0 {
			sb.WriteByte('M')
		}
		sb.WriteByte('=')
	}
	sb.WriteString(comp)
	if jump := uint16(w) & 0b111; jump != 0 {
		sb.WriteByte(';')
		sb.WriteString(jumpNames[jump])
	}
	return sb.String(), nil
}
