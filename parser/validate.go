package parser

import "github.com/nnobol/8086/scanner"

// validateStructure performs the single left-to-right structural pass
// described for the parser/validator stage: it rejects a token
// sequence that cannot possibly be a legal instruction before any
// operand is semantically interpreted. On success it returns the index
// of the single comma separating the two operands, or -1 if there is
// no comma (a one-operand line, rejected later by Parse since every
// supported mnemonic takes two operands).
func validateStructure(tokens []scanner.Token, line int) (commaIdx int, err error) {
	commaIdx = -1

	var (
		bracketOpen bool
		openIdx     int
		mnemonics   int
		commas      int
		memOps      int
		immOps      int
		regOps      int
		regsInBrack int
		lastImmIdx  = -1
	)

	for i, tok := range tokens {
		switch tok.Kind {
		case scanner.TokenBad:
			return -1, newSyntaxError(line, "unrecognized token %q", tok.Lexeme)

		case scanner.TokenMnemonic:
			if i != 0 {
				return -1, newSyntaxError(line, "unexpected mnemonic %q", tok.Lexeme)
			}
			mnemonics++

		case scanner.TokenOpenBracket:
			if bracketOpen {
				return -1, newSyntaxError(line, "nested memory operand brackets")
			}
			bracketOpen = true
			openIdx = i
			regsInBrack = 0
			memOps++
			if i+1 < len(tokens) && tokens[i+1].Kind == scanner.TokenCloseBracket {
				return -1, newSyntaxError(line, "empty memory operand")
			}

		case scanner.TokenCloseBracket:
			if !bracketOpen {
				return -1, newSyntaxError(line, "unmatched closing bracket")
			}
			if err := validateMemoryShape(tokens, openIdx, regsInBrack, line); err != nil {
				return -1, err
			}
			bracketOpen = false

		case scanner.TokenComma:
			if bracketOpen {
				return -1, newSyntaxError(line, "comma cannot appear inside brackets")
			}
			commas++
			if commas > 1 {
				return -1, newSyntaxError(line, "only one comma is allowed")
			}
			if i == 0 || !isOperandFinal(tokens[i-1].Kind) {
				return -1, newSyntaxError(line, "comma must appear between two operands")
			}
			if i == len(tokens)-1 {
				return -1, newSyntaxError(line, "comma cannot be the last token")
			}
			commaIdx = i

		case scanner.TokenSize:
			if bracketOpen {
				return -1, newSyntaxError(line, "size keyword cannot appear inside brackets")
			}
			if i == len(tokens)-1 {
				return -1, newSyntaxError(line, "size keyword cannot be the last token")
			}
			switch tokens[i+1].Kind {
			case scanner.TokenNumber, scanner.TokenRegister, scanner.TokenPlus, scanner.TokenMinus, scanner.TokenOpenBracket:
			default:
				return -1, newSyntaxError(line, "size keyword must be followed by an operand")
			}

		case scanner.TokenRegister:
			if bracketOpen {
				regsInBrack++
				if regsInBrack > 2 {
					return -1, newSyntaxError(line, "too many registers in memory operand")
				}
			} else {
				regOps++
			}

		case scanner.TokenNumber:
			if bracketOpen {
				if i == len(tokens)-1 || tokens[i+1].Kind == scanner.TokenBad {
					return -1, newSyntaxError(line, "malformed memory operand")
				}
				switch tokens[i+1].Kind {
				case scanner.TokenPlus, scanner.TokenMinus, scanner.TokenCloseBracket:
				default:
					return -1, newSyntaxError(line, "number inside brackets must be followed by +, -, or ]")
				}
			} else {
				immOps++
				lastImmIdx = i
			}

		case scanner.TokenPlus:
			if bracketOpen {
				if i == len(tokens)-1 {
					return -1, newSyntaxError(line, "'+' inside brackets must be followed by a number or register")
				}
				switch tokens[i+1].Kind {
				case scanner.TokenNumber, scanner.TokenRegister:
				default:
					return -1, newSyntaxError(line, "'+' inside brackets must be followed by a number or register")
				}
			} else {
				if i == len(tokens)-1 || tokens[i+1].Kind != scanner.TokenNumber {
					return -1, newSyntaxError(line, "'+' must be followed by a number")
				}
			}

		case scanner.TokenMinus:
			if bracketOpen {
				if i == len(tokens)-1 || tokens[i+1].Kind != scanner.TokenNumber {
					return -1, newSyntaxError(line, "'-' inside brackets must be followed by a number")
				}
			} else {
				if i == len(tokens)-1 || tokens[i+1].Kind != scanner.TokenNumber {
					return -1, newSyntaxError(line, "'-' must be followed by a number")
				}
			}
		}
	}

	if bracketOpen {
		return -1, newSyntaxError(line, "unmatched opening bracket")
	}
	if mnemonics == 0 {
		return -1, newSyntaxError(line, "expected a mnemonic")
	}
	if mnemonics > 1 {
		return -1, newSyntaxError(line, "more than one mnemonic")
	}

	operandCount := memOps + immOps + regOps
	if operandCount > 2 {
		return -1, newSyntaxError(line, "too many operands")
	}
	if operandCount == 2 && commas != 1 {
		return -1, newSyntaxError(line, "expected exactly one comma between operands")
	}
	if memOps > 1 {
		return -1, newSyntaxError(line, "more than one memory operand")
	}
	if immOps > 1 {
		return -1, newSyntaxError(line, "more than one immediate operand")
	}
	if immOps == 1 && lastImmIdx != len(tokens)-1 {
		return -1, newSyntaxError(line, "immediate operand must be the last token")
	}

	return commaIdx, nil
}

// validateMemoryShape enforces the fixed '[reg+reg...]' / '[reg...]'
// shape of a memory operand's register prefix: a lone base register
// must sit immediately after '[', and a base+index pair must appear as
// exactly "reg+reg" immediately after '[', with nothing else taking
// those positions. Bracket contents with no registers (a pure
// displacement or direct address) have no shape to enforce here.
func validateMemoryShape(tokens []scanner.Token, openIdx, regsInBrack, line int) error {
	switch regsInBrack {
	case 0:
		return nil
	case 1:
		if kindAt(tokens, openIdx+1) != scanner.TokenRegister {
			return newSyntaxError(line, "expected register immediately after '[' in memory operand")
		}
		switch kindAt(tokens, openIdx+2) {
		case scanner.TokenPlus, scanner.TokenMinus, scanner.TokenCloseBracket:
		default:
			return newSyntaxError(line, "invalid token after '[reg' in memory operand")
		}
	case 2:
		if kindAt(tokens, openIdx+1) != scanner.TokenRegister ||
			kindAt(tokens, openIdx+2) != scanner.TokenPlus ||
			kindAt(tokens, openIdx+3) != scanner.TokenRegister {
			return newSyntaxError(line, "expected '[reg+reg...]' pattern in memory operand")
		}
		switch kindAt(tokens, openIdx+4) {
		case scanner.TokenPlus, scanner.TokenMinus, scanner.TokenCloseBracket:
		default:
			return newSyntaxError(line, "invalid token after '[reg+reg' in memory operand")
		}
	}
	return nil
}

// kindAt reports tokens[idx].Kind, or TokenBad if idx falls outside
// tokens — used so a shape check can never index out of range.
func kindAt(tokens []scanner.Token, idx int) scanner.TokenKind {
	if idx < 0 || idx >= len(tokens) {
		return scanner.TokenBad
	}
	return tokens[idx].Kind
}

// isOperandFinal reports whether a token kind can legally end an
// operand span — the set a comma is required to follow.
func isOperandFinal(k scanner.TokenKind) bool {
	switch k {
	case scanner.TokenRegister, scanner.TokenCloseBracket, scanner.TokenNumber:
		return true
	default:
		return false
	}
}
