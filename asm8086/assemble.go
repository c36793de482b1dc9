// Package asm8086 drives the Scanner -> Parser -> Encoder pipeline over
// a complete source file. It owns no persistent state between lines;
// each line is scanned, parsed, and encoded independently, and the
// first error on any line aborts the whole assembly.
package asm8086

import (
	"fmt"
	"strings"

	"github.com/nnobol/8086/encoder"
	"github.com/nnobol/8086/parser"
	"github.com/nnobol/8086/scanner"
)

// MaxLineLength is the implementation buffer size named in spec §6:
// 254 printable characters plus the newline.
const MaxLineLength = 254

// maxInstructionBytes bounds a single instruction's encoded length
// (spec §6: "Maximum per-instruction size is 6 bytes").
const maxInstructionBytes = 6

// Error reports the line a failure occurred on alongside the
// underlying stage error, so callers can render "Error on line N: ..."
// without caring which stage produced it.
type Error struct {
	Line    int
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, description(e.Wrapped))
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Description returns the failure's message without the line-number
// prefix Error() adds, for callers composing their own "line N: ..."
// rendering (e.g. "Error on line N: <description>").
func (e *Error) Description() string {
	return description(e.Wrapped)
}

// description unwraps a stage error's own "line N: " prefix so a
// caller rendering "Error on line N: <description>" never doubles it.
func description(err error) string {
	switch e := err.(type) {
	case *parser.Error:
		return e.Message
	case *encoder.EncodingError:
		if e.Wrapped != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
		}
		return e.Message
	default:
		return err.Error()
	}
}

// Assemble runs the full pipeline over source, a complete file
// including its "bits 16" header line, and returns the concatenated
// instruction bytes in source order.
func Assemble(source string) ([]byte, error) {
	lines := strings.Split(source, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "bits 16" {
		return nil, &Error{Line: 1, Wrapped: fmt.Errorf("expected declaration 'bits 16' on line 1")}
	}

	var out []byte
	buf := make([]byte, maxInstructionBytes)

	for i, line := range lines[1:] {
		lineNo := i + 2
		line = strings.TrimRight(line, "\r")

		if len(line) > MaxLineLength {
			return nil, &Error{Line: lineNo, Wrapped: fmt.Errorf("line too long")}
		}

		tokens, err := scanner.ScanLine(line, lineNo)
		if err != nil {
			return nil, &Error{Line: lineNo, Wrapped: err}
		}
		if len(tokens) == 0 {
			// Blank line or comment-only line: nothing to assemble.
			continue
		}

		inst, err := parser.Parse(tokens, lineNo)
		if err != nil {
			return nil, &Error{Line: lineNo, Wrapped: err}
		}

		n, err := encoder.Encode(inst, lineNo, buf)
		if err != nil {
			return nil, &Error{Line: lineNo, Wrapped: err}
		}

		out = append(out, buf[:n]...)
	}

	return out, nil
}
