// Package source turns raw assembly text into the cleaned statement lines the
// assembler works on.
package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Line is one statement with its 1-based position in the original file.
type Line struct {
	Number int
	Text   string
}

// Read returns every non-empty statement in r with comments and surrounding
// whitespace removed.
func Read(r io.Reader) ([]Line, error) {
	var lines []Line
	s := bufio.NewScanner(r)
	lineNo := 0
	for s.Scan() {
		lineNo++
		text := Clean(s.Text())
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: lineNo, Text: text})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading source near line %d: %w", lineNo+1, err)
	}
	return lines, nil
}

// ReadString is Read over an in-memory program.
func ReadString(code string) ([]Line, error) {
	return Read(strings.NewReader(code))
}

// Clean strips a trailing // comment and surrounding whitespace.
func Clean(raw string) string {
	line, _, _ := strings.Cut(raw, "//")
	return strings.TrimSpace(line)
}
