package encoder

import "github.com/nnobol/8086/parser"

// encodeArithmetic implements the shared add/sub/cmp family: one
// 6-bit base opcode for register<->r/m forms, a separate base for the
// immediate-to-accumulator short form, and a shared 0x80-family
// opcode-extension encoding for immediate-to-r/m forms.
func encodeArithmetic(inst *parser.Instruction, line int, buf []byte) (int, error) {
	op1, op2 := inst.Op1, inst.Op2
	opc := arithmeticTable[inst.Mnemonic]

	switch {
	case op1.Kind == parser.OperandRegister && op2.Kind == parser.OperandRegister:
		w := wBit(op1.Size)
		buf[0] = opc.RegToRM | w
		buf[1] = modRM(modRegisterDirect, op2.Reg.Code, op1.Reg.Code)
		return 2, nil

	case op1.Kind == parser.OperandRegister && op2.Kind == parser.OperandImmediate:
		w := wBit(op1.Size)
		if op1.Reg.IsAccumulator() {
			buf[0] = opc.ImmToAcc | w
			n := writeImm(buf[1:], op2.Imm, w == 1)
			return 1 + n, nil
		}
		sBit, wide := immFormFor(w, op2.Imm)
		buf[0] = arithImmToRMOpcode | (sBit << 1) | w
		buf[1] = modRM(modRegisterDirect, opc.OpcodeExt, op1.Reg.Code)
		n := writeImm(buf[2:], op2.Imm, wide)
		return 2 + n, nil

	case op1.Kind == parser.OperandRegister && op2.Kind == parser.OperandMemory:
		w := wBit(op1.Size)
		buf[0] = opc.RegToRM | (1 << 1) | w // D=1: register is destination
		buf[1] = modRM(modForMem(op2.Mem), op1.Reg.Code, op2.Mem.RM)
		n := writeDisp(buf[2:], op2.Mem)
		return 2 + n, nil

	case op1.Kind == parser.OperandMemory && op2.Kind == parser.OperandRegister:
		w := wBit(op2.Size)
		buf[0] = opc.RegToRM | w // D=0: memory is destination
		buf[1] = modRM(modForMem(op1.Mem), op2.Reg.Code, op1.Mem.RM)
		n := writeDisp(buf[2:], op1.Mem)
		return 2 + n, nil

	case op1.Kind == parser.OperandMemory && op2.Kind == parser.OperandImmediate:
		w := wBit(op1.Size)
		sBit, wide := immFormFor(w, op2.Imm)
		buf[0] = arithImmToRMOpcode | (sBit << 1) | w
		buf[1] = modRM(modForMem(op1.Mem), opc.OpcodeExt, op1.Mem.RM)
		n := writeDisp(buf[2:], op1.Mem)
		m := writeImm(buf[2+n:], op2.Imm, wide)
		return 2 + n + m, nil

	default:
		return 0, NewEncodingError(line, "encoding of that instruction is not supported for now")
	}
}

// immFormFor decides the S bit and whether the 0x80-family immediate
// is emitted as one sign-extended byte or two bytes: S=1 is only set
// for a word-sized destination whose immediate already fits a signed
// byte, in which case a single byte is emitted.
func immFormFor(w uint8, imm uint16) (sBit uint8, wide bool) {
	if w == 1 && fitsSignedByte(imm) {
		return 1, false
	}
	return 0, w == 1
}
