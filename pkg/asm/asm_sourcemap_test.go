package asm

import (
	"testing"
)

func TestAssembleSourceMap(t *testing.T) {
	code := `
// Line 2: Comment
@10             // Line 3: word 0
                // Line 4: Empty
(LABEL)         // Line 5: Label, no word
D=A             // Line 6: word 1
(OTHER)         // Line 7: Label, no word
@LABEL          // Line 8: word 2
0;JMP           // Line 9: word 3
`
	prog, err := AssembleString(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	tests := []struct {
		addr int
		line int
	}{
		{0, 3},
		{1, 6},
		{2, 8},
		{3, 9},
	}

	if len(prog.SourceMap) != len(tests) {
		t.Errorf("len(SourceMap) = %d; want %d", len(prog.SourceMap), len(tests))
	}
	for _, tc := range tests {
		if got := prog.SourceMap[tc.addr]; got != tc.line {
			t.Errorf("SourceMap[%d] = %d; want %d", tc.addr, got, tc.line)
		}
	}
}
