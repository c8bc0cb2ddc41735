// Package cpu executes assembled Hack programs.
package cpu

import (
	"errors"
	"fmt"

	"hackasm/pkg/hack"
)

// RAMSize covers data memory, the screen map and the keyboard register.
const RAMSize = hack.KeyboardBase + 1

var ErrStepLimit = errors.New("step limit reached")

type CPU struct {
	A  uint16
	D  uint16
	PC uint16

	RAM [RAMSize]uint16
	ROM []hack.Word

	Halted bool
	Steps  int
}

func NewCPU(rom []hack.Word) *CPU {
	return &CPU{ROM: rom}
}

func (c *CPU) ReadMem(addr uint16) (uint16, error) {
	if int(addr) >= RAMSize {
		return 0, fmt.Errorf("read from unmapped address %d at PC=%d", addr, c.PC)
	}
	return c.RAM[addr], nil
}

func (c *CPU) WriteMem(addr uint16, val uint16) error {
	if int(addr) >= RAMSize {
		return fmt.Errorf("write to unmapped address %d at PC=%d", addr, c.PC)
	}
	c.RAM[addr] = val
	return nil
}

// Step executes one instruction. Running off the end of ROM, or reaching the
// usual "@HERE 0;JMP" idle loop, halts the CPU.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}
	if int(c.PC) >= len(c.ROM) {
		c.Halted = true
		return nil
	}

	w := uint16(c.ROM[c.PC])
	c.Steps++

	if w>>15 == 0 {
		c.A = w
		c.PC++
		return nil
	}
	if w>>13 != 0b111 {
		return fmt.Errorf("%w: %s at PC=%d", hack.ErrMalformedInstruction, hack.Word(w), c.PC)
	}

	x := c.D
	y := c.A
	if w>>12&1 == 1 {
		m, err := c.ReadMem(c.A)
		if err != nil {
			return err
		}
		y = m
	}
	out := alu(x, y, w>>6&0b111111)

	addrM := c.A
	if w&(1<<3) != 0 {
		if err := c.WriteMem(addrM, out); err != nil {
			return err
		}
	}
	if w&(1<<5) != 0 {
		c.A = out
	}
	if w&(1<<4) != 0 {
		c.D = out
	}

	if jumps(int16(out), w&0b111) {
		target := addrM
		if int(target)+1 == int(c.PC) && w&0b111 == 0b111 && c.ROM[target] == hack.Word(target) {
			c.Halted = true
		}
		c.PC = target
		return nil
	}
	c.PC++
	return nil
}

// Run steps until the CPU halts. maxSteps <= 0 means no limit.
func (c *CPU) Run(maxSteps int) error {
	for !c.Halted {
		if maxSteps > 0 && c.Steps >= maxSteps {
			return fmt.Errorf("%w: %d", ErrStepLimit, maxSteps)
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// alu applies the six control bits zx nx zy ny f no, most significant first.
func alu(x, y, ctl uint16) uint16 {
	if ctl&0b100000 != 0 {
		x = 0
	}
	if ctl&0b010000 != 0 {
		x = ^x
	}
	if ctl&0b001000 != 0 {
		y = 0
	}
	if ctl&0b000100 != 0 {
		y = ^y
	}
	var out uint16
	if ctl&0b000010 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if ctl&0b000001 != 0 {
		out = ^out
	}
	return out
}

func jumps(out int16, cond uint16) bool {
	switch {
	case out < 0:
		return cond&0b100 != 0
	case out == 0:
		return cond&0b010 != 0
	default:
		return cond&0b001 != 0
	}
}
