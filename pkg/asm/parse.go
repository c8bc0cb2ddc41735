package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Instruction is either an AInstruction or a CInstruction.
type Instruction interface {
	instruction()
}

// AInstruction loads a constant or the address of a symbol into A.
// Symbol is empty for a literal.
type AInstruction struct {
	Symbol string
	Value  int
}

// CInstruction is dest=comp;jump with dest and jump optional.
type CInstruction struct {
	Dest string
	Comp string
	Jump string
}

func (AInstruction) instruction() {}
func (CInstruction) instruction() {}

type parsedLine struct {
	lineNo int
	text   string
	label  string
	inst   Instruction
}

// Parse classifies one cleaned statement. A label definition yields its
// name and a nil Instruction.
func Parse(text string) (label string, inst Instruction, err error) {
	switch {
	case text == "":
		return "", nil, fmt.Errorf("%w: empty statement", ErrMalformedInstruction)
	case text[0] == '(':
		label, err = parseLabel(text)
		return label, nil, err
	case text[0] == '@':
		inst, err = parseAInstruction(text)
		return "", inst, err
	default:
		inst, err = parseCInstruction(text)
		return "", inst, err
	}
}

func parseLine(text string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo, text: text}
	label, inst, err := Parse(text)
	if err != nil {
		return p, &LineError{Line: lineNo, Text: text, Err: err}
	}
	p.label = label
	p.inst = inst
	return p, nil
}

func parseLabel(text string) (string, error) {
	if len(text) < 3 || text[len(text)-1] != ')' {
		return "", fmt.Errorf("%w: label must be written (NAME)", ErrMalformedInstruction)
	}
	name := text[1 : len(text)-1]
	if !isSymbol(name) {
		return "", fmt.Errorf("%w: invalid label '%s'", ErrMalformedInstruction, name)
	}
	return name, nil
}

func parseAInstruction(text string) (AInstruction, error) {
	target := text[1:]
	if target == "" {
		return AInstruction{}, fmt.Errorf("%w: @ needs a constant or symbol", ErrMalformedInstruction)
	}

	if isDigit(rune(target[0])) {
		if strings.TrimFunc(target, isDigit) != "" {
			return AInstruction{}, fmt.Errorf("%w: invalid constant '%s'", ErrMalformedInstruction, target)
		}
		v, err := strconv.Atoi(target)
		if errors.Is(err, strconv.ErrRange) {
			return AInstruction{}, fmt.Errorf("%w: %s does not fit in 15 bits", ErrAddressOutOfRange, target)
		}
		if err != nil {
			return AInstruction{}, fmt.Errorf("%w: invalid constant '%s'", ErrMalformedInstruction, target)
		}
		return AInstruction{Value: v}, nil
	}

	if !isSymbol(target) {
		return AInstruction{}, fmt.Errorf("%w: invalid symbol '%s'", ErrMalformedInstruction, target)
	}
	return AInstruction{Symbol: target}, nil
}

func parseCInstruction(text string) (CInstruction, error) {
	text = strings.Join(strings.Fields(text), "")

	var c CInstruction
	rest := text
	if dest, after, ok := strings.Cut(text, "="); ok {
		if dest == "" {
			return c, fmt.Errorf("%w: empty destination", ErrMalformedInstruction)
		}
		c.Dest = dest
		rest = after
	}

	comp, jump, hasJump := strings.Cut(rest, ";")
	if comp == "" {
		return c, fmt.Errorf("%w: missing computation", ErrMalformedInstruction)
	}
	if hasJump && jump == "" {
		return c, fmt.Errorf("%w: empty jump", ErrMalformedInstruction)
	}
	c.Comp = comp
	c.Jump = jump
	return c, nil
}

// isSymbol reports whether s is a valid user symbol: ASCII letters, digits,
// '_', '.', '$' and ':', not starting with a digit.
func isSymbol(s string) bool {
	if s == "" || isDigit(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !isLetter(r) && !isDigit(r) && !strings.ContainsRune("_.$:", r) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
