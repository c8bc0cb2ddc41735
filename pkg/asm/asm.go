// Package asm assembles Hack assembly into 16-bit machine words.
//
// Assembly runs in two passes over the same cleaned lines. Pass 1 records the
// address of every (LABEL). Pass 2 resolves symbols, allocating variables on
// first use, and encodes one word per instruction.
package asm

import (
	"bufio"
	"fmt"
	"io"

	"hackasm/pkg/hack"
	"hackasm/pkg/source"

	"github.com/golang/glog"
)

type Phase int

const (
	ResolvingLabels Phase = iota
	EncodingInstructions
	Done
)

func (p Phase) String() string {
	switch p {
	case ResolvingLabels:
		return "resolving labels"
	case EncodingInstructions:
		return "encoding instructions"
	case Done:
		return "done"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Program is the result of a successful assembly run.
type Program struct {
	Words []hack.Word

	// SourceMap maps a word address to the source line it came from.
	SourceMap map[int]int

	Symbols []Symbol
}

// WriteTo writes one 16-character binary word per line.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, word := range p.Words {
		m, err := bw.WriteString(word.String() + "\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Assembler runs a single assembly at a time. Each call to Assemble starts
// from a freshly seeded symbol table.
type Assembler struct {
	phase    Phase
	table    *SymbolTable
	resolver *SymbolResolver
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

func Assemble(lines []source.Line) (*Program, error) {
	return NewAssembler().Assemble(lines)
}

// AssembleString cleans code and assembles it.
func AssembleString(code string) (*Program, error) {
	lines, err := source.ReadString(code)
	if err != nil {
		return nil, err
	}
	return Assemble(lines)
}

// AssembleReader reads, cleans and assembles a source file.
func AssembleReader(r io.Reader) (*Program, error) {
	lines, err := source.Read(r)
	if err != nil {
		return nil, err
	}
	return Assemble(lines)
}

func (a *Assembler) Assemble(lines []source.Line) (*Program, error) {
	a.table = NewSymbolTable()
	a.resolver = nil
	a.phase = ResolvingLabels

	glog.V(1).Infof("pass 1: %d lines", len(lines))
	count, err := a.pass1(lines)
	if err != nil {
		return nil, err
	}

	a.phase = EncodingInstructions
	a.resolver = NewSymbolResolver(a.table, count)
	glog.V(1).Infof("pass 2: %d instructions", count)
	words, sourceMap, err := a.pass2(lines, count)
	if err != nil {
		return nil, err
	}

	a.phase = Done
	glog.V(1).Infof("assembled %d words, %d variables", len(words), a.resolver.Allocated())
	return &Program{
		Words:     words,
		SourceMap: sourceMap,
		Symbols:   a.table.Symbols(),
	}, nil
}

func (a *Assembler) Phase() Phase {
	return a.phase
}

// Table returns the symbol table of the current or most recent run.
func (a *Assembler) Table() *SymbolTable {
	return a.table
}

func (a *Assembler) pass1(lines []source.Line) (int, error) {
	var address int

	for _, line := range lines {
		p, err := parseLine(line.Text, line.Number)
		if err != nil {
			return 0, err
		}

		if p.inst != nil {
			address++
			continue
		}

		if err := a.table.Define(p.label, address, Label); err != nil {
			return 0, &LineError{Line: p.lineNo, Text: p.text, Err: err}
		}
		glog.V(2).Infof("label %q -> %d", p.label, address)
	}

	return address, nil
}

func (a *Assembler) pass2(lines []source.Line, count int) ([]hack.Word, map[int]int, error) {
	words := make([]hack.Word, 0, count)
	sourceMap := make(map[int]int, count)

	for _, line := range lines {
		p, err := parseLine(line.Text, line.Number)
		if err != nil {
			return nil, nil, err
		}
		if p.inst == nil {
			continue
		}

		word, err := a.encode(p.inst)
		if err != nil {
			return nil, nil, &LineError{Line: p.lineNo, Text: p.text, Err: err}
		}
		sourceMap[len(words)] = p.lineNo
		words = append(words, word)
	}

	return words, sourceMap, nil
}

func (a *Assembler) encode(inst Instruction) (hack.Word, error) {
	switch in := inst.(type) {
	case AInstruction:
		addr := in.Value
		if in.Symbol != "" {
			var err error
			addr, err = a.resolver.Resolve(in.Symbol)
			if err != nil {
				return 0, err
			}
		}
		return hack.EncodeA(addr)
	case CInstruction:
		return hack.EncodeC(in.Dest, in.Comp, in.Jump)
	}
	return 0, fmt.Errorf("%w: unsupported instruction %T", ErrMalformedInstruction, inst)
}
