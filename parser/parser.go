// Package parser validates a line's token sequence against the grammar
// of the supported instruction forms and builds a typed Instruction
// ready for the encoder. It performs a single structural validation
// pass followed by per-operand semantic parsing and size reconciliation.
package parser

import (
	"strconv"

	"github.com/nnobol/8086/scanner"
)

// Parse consumes the token sequence scanned from one source line and
// returns the instruction it denotes, or a diagnostic describing why
// the line is not a legal instruction. Tokens are not retained past
// this call; the caller may discard them regardless of outcome.
func Parse(tokens []scanner.Token, line int) (*Instruction, error) {
	commaIdx, err := validateStructure(tokens, line)
	if err != nil {
		return nil, err
	}

	mnemonic := mnemonicByLexeme[tokens[0].Lexeme]

	var span1, span2 []scanner.Token
	if commaIdx == -1 {
		span1 = tokens[1:]
	} else {
		span1 = tokens[1:commaIdx]
		span2 = tokens[commaIdx+1:]
	}

	if len(span2) == 0 {
		return nil, newSemanticError(line, "instruction requires two operands")
	}

	op1, err := parseOperand(span1, line)
	if err != nil {
		return nil, err
	}
	op2, err := parseOperand(span2, line)
	if err != nil {
		return nil, err
	}

	if err := reconcileSizes(&op1, &op2, line); err != nil {
		return nil, err
	}

	return &Instruction{Mnemonic: mnemonic, Op1: op1, Op2: op2}, nil
}

// parseOperand interprets one operand span: an optional leading size
// keyword, followed by a register, an immediate, or a memory operand.
func parseOperand(tokens []scanner.Token, line int) (Operand, error) {
	hasExplicit := false
	explicitSize := SizeNone

	if len(tokens) > 0 && tokens[0].Kind == scanner.TokenSize {
		hasExplicit = true
		explicitSize = sizeFromLexeme(tokens[0].Lexeme)
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return Operand{}, newSyntaxError(line, "expected an operand")
	}

	switch tokens[0].Kind {
	case scanner.TokenOpenBracket:
		return parseMemoryOperand(tokens, hasExplicit, explicitSize, line)
	case scanner.TokenRegister:
		return parseRegisterOperand(tokens, hasExplicit, explicitSize, line)
	case scanner.TokenNumber, scanner.TokenPlus, scanner.TokenMinus:
		return parseImmediateOperand(tokens, hasExplicit, explicitSize, line)
	default:
		return Operand{}, newSyntaxError(line, "unexpected token %q in operand", tokens[0].Lexeme)
	}
}

func parseRegisterOperand(tokens []scanner.Token, hasExplicit bool, explicitSize Size, line int) (Operand, error) {
	reg, ok := lookupRegister(tokens[0].Lexeme)
	if !ok {
		return Operand{}, newSemanticError(line, "unknown register %q", tokens[0].Lexeme)
	}
	if hasExplicit && explicitSize != reg.Size {
		return Operand{}, newSemanticError(line,
			"operand size (%s) does not match specified size (%s)", reg.Size, explicitSize)
	}
	return Operand{Kind: OperandRegister, Size: reg.Size, ExplicitSize: hasExplicit, Reg: reg}, nil
}

func parseImmediateOperand(tokens []scanner.Token, hasExplicit bool, explicitSize Size, line int) (Operand, error) {
	sign := int64(1)
	i := 0
	switch tokens[i].Kind {
	case scanner.TokenMinus:
		sign = -1
		i++
	case scanner.TokenPlus:
		i++
	}
	if i >= len(tokens) || tokens[i].Kind != scanner.TokenNumber {
		return Operand{}, newSyntaxError(line, "expected a number in immediate operand")
	}

	lo, hi := int64(MinImmediate16), int64(MaxImmediate16)
	if hasExplicit && explicitSize == SizeByte {
		lo, hi = int64(MinImmediate8), int64(MaxImmediate8)
	}

	val, convErr := strconv.ParseInt(tokens[i].Lexeme, 10, 64)
	if convErr != nil {
		return Operand{}, newSemanticError(line, "immediate value %q exceeds valid range", tokens[i].Lexeme)
	}
	val *= sign
	if val < lo || val > hi {
		return Operand{}, newSemanticError(line, "immediate value %d exceeds valid range", val)
	}

	size := SizeNone
	if hasExplicit {
		size = explicitSize
	}

	return Operand{Kind: OperandImmediate, Size: size, ExplicitSize: hasExplicit, Imm: uint16(val)}, nil
}

func parseMemoryOperand(tokens []scanner.Token, hasExplicit bool, explicitSize Size, line int) (Operand, error) {
	inner := tokens[1 : len(tokens)-1]

	var base, index Register
	hasBase, hasIndex := false, false
	sign := int64(1)
	var dispVal int64

	// All numbers in the bracket (there may be more than one, e.g.
	// [bx+4+5]) are summed into a single displacement, each one signed
	// by whichever +/- most recently preceded it.
	for _, t := range inner {
		switch t.Kind {
		case scanner.TokenRegister:
			reg, ok := lookupRegister(t.Lexeme)
			if !ok {
				return Operand{}, newSemanticError(line, "unknown register %q", t.Lexeme)
			}
			if !hasBase {
				base = reg
				hasBase = true
			} else {
				index = reg
				hasIndex = true
			}

		case scanner.TokenPlus:
			sign = 1

		case scanner.TokenMinus:
			sign = -1

		case scanner.TokenNumber:
			v, convErr := strconv.ParseInt(t.Lexeme, 10, 64)
			if convErr != nil {
				return Operand{}, newSemanticError(line, "displacement %q exceeds valid range", t.Lexeme)
			}
			lo, hi := int64(MinImmediate16), int64(MaxImmediate16)
			if hasBase {
				lo, hi = int64(MinDisplacement), int64(MaxDisplacement)
			}
			if v < lo || v > hi {
				return Operand{}, newSemanticError(line, "displacement %d exceeds valid range", v)
			}
			dispVal += sign * v
			sign = 1
			if dispVal < lo || dispVal > hi {
				return Operand{}, newSemanticError(line, "displacement %d exceeds valid range", dispVal)
			}
		}
	}

	isDirect := !hasBase

	var rm uint8
	if isDirect {
		rm = 0x06
	} else {
		if !isValidBase(base.Name) {
			return Operand{}, newSemanticError(line, "invalid base register %q", base.Name)
		}
		indexName := ""
		if hasIndex {
			if base.Name != "bx" && base.Name != "bp" {
				return Operand{}, newSemanticError(line,
					"base register %q cannot be combined with an index register", base.Name)
			}
			if !isValidIndex(index.Name) {
				return Operand{}, newSemanticError(line, "invalid index register %q", index.Name)
			}
			indexName = index.Name
		}
		code, ok := lookupRM(base.Name, indexName)
		if !ok {
			return Operand{}, newSemanticError(line, "invalid base register %q", base.Name)
		}
		rm = code
	}

	var dispSize Size
	switch {
	case isDirect:
		dispSize = SizeWord
	case dispVal == 0 && base.Name != "bp":
		dispSize = SizeNone
	case dispVal >= -128 && dispVal <= 127:
		dispSize = SizeByte
	default:
		dispSize = SizeWord
	}

	size := SizeNone
	if hasExplicit {
		size = explicitSize
	}

	mem := MemoryOperand{
		HasBase:  hasBase,
		Base:     base,
		HasIndex: hasIndex,
		Index:    index,
		Disp:     int32(dispVal),
		RM:       rm,
		DispSize: dispSize,
		IsDirect: isDirect,
	}
	return Operand{Kind: OperandMemory, Size: size, ExplicitSize: hasExplicit, Mem: mem}, nil
}

// reconcileSizes applies the size-resolution rules from the component
// design: an unsized immediate adopts its paired register's size, an
// unsized memory operand adopts the other operand's size, and the two
// final sizes must agree.
func reconcileSizes(op1, op2 *Operand, line int) error {
	// Only an immediate or a memory operand can carry SizeNone at this
	// point — a register's size is always its intrinsic size. Whichever
	// one is unresolved adopts the other's size.
	if op1.Size == SizeNone && op2.Size != SizeNone {
		op1.Size = op2.Size
	}
	if op2.Size == SizeNone && op1.Size != SizeNone {
		op2.Size = op1.Size
	}

	if op1.Size == SizeNone || op2.Size == SizeNone {
		return newSemanticError(line, "operation size not specified")
	}
	if op1.Size != op2.Size {
		return newSemanticError(line, "operand sizes do not match")
	}
	return nil
}

func sizeFromLexeme(lexeme string) Size {
	if lexeme == "byte" {
		return SizeByte
	}
	return SizeWord
}
