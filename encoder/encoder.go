// Package encoder turns a parsed Instruction into its exact 8086
// machine-code byte sequence: opcode, ModR/M, displacement, and
// immediate bytes, per the bit-field layouts in the component design.
// The encoder holds no state across instructions.
package encoder

import (
	"github.com/nnobol/8086/parser"
)

// Encode writes the machine code for inst into buf, which must have
// capacity for at least 6 bytes, and returns the number of bytes
// written. It fails if the (mnemonic, operand-shape) combination has
// no encoding rule.
func Encode(inst *parser.Instruction, line int, buf []byte) (int, error) {
	switch inst.Mnemonic {
	case parser.Mov:
		return encodeMov(inst, line, buf)
	case parser.Add, parser.Sub, parser.Cmp:
		return encodeArithmetic(inst, line, buf)
	default:
		return 0, NewEncodingError(line, "encoding of that instruction is not supported for now")
	}
}

func wBit(size parser.Size) uint8 {
	if size == parser.SizeWord {
		return 1
	}
	return 0
}

func modFromDispSize(size parser.Size) uint8 {
	switch size {
	case parser.SizeNone:
		return modNoDisp
	case parser.SizeByte:
		return modByteDisp
	default:
		return modWordDisp
	}
}

func modRM(mod, reg, rm uint8) uint8 {
	return (mod << 6) | ((reg & 0x07) << 3) | (rm & 0x07)
}

// writeDisp appends the little-endian displacement bytes for a memory
// operand, per the MOD selected by its DispSize (none/byte/word), and
// returns the number of bytes written.
func writeDisp(buf []byte, mem parser.MemoryOperand) int {
	switch {
	case mem.IsDirect:
		buf[0] = uint8(mem.Disp)
		buf[1] = uint8(mem.Disp >> 8)
		return 2
	case mem.DispSize == parser.SizeNone:
		return 0
	case mem.DispSize == parser.SizeByte:
		buf[0] = uint8(mem.Disp)
		return 1
	default:
		buf[0] = uint8(mem.Disp)
		buf[1] = uint8(mem.Disp >> 8)
		return 2
	}
}

func writeImm(buf []byte, val uint16, wide bool) int {
	buf[0] = uint8(val)
	if !wide {
		return 1
	}
	buf[1] = uint8(val >> 8)
	return 2
}

// fitsSignedByte reports whether a 16-bit stored immediate, read as a
// two's-complement signed value, fits in a signed 8-bit quantity — the
// condition that permits the sign-extended immediate short form.
func fitsSignedByte(val uint16) bool {
	signed := int16(val)
	return signed >= -128 && signed <= 127
}
