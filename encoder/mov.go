package encoder

import "github.com/nnobol/8086/parser"

// encodeMov implements the mov bit-field layouts from the component
// design: register<->register, register<-immediate, the accumulator
// short forms against a direct address, the general register<->memory
// form, and memory<-immediate.
func encodeMov(inst *parser.Instruction, line int, buf []byte) (int, error) {
	op1, op2 := inst.Op1, inst.Op2

	switch {
	case op1.Kind == parser.OperandRegister && op2.Kind == parser.OperandRegister:
		w := wBit(op1.Size)
		buf[0] = movRegToRegOpcode | w
		buf[1] = modRM(modRegisterDirect, op2.Reg.Code, op1.Reg.Code)
		return 2, nil

	case op1.Kind == parser.OperandRegister && op2.Kind == parser.OperandImmediate:
		w := wBit(op1.Size)
		buf[0] = movRegImmOpcode | (w << 3) | op1.Reg.Code
		n := writeImm(buf[1:], op2.Imm, w == 1)
		return 1 + n, nil

	case op1.Kind == parser.OperandRegister && op2.Kind == parser.OperandMemory:
		w := wBit(op1.Size)
		if op1.Reg.IsAccumulator() && op2.Mem.IsDirect {
			buf[0] = movMemToAccOpcode | w
			n := writeDisp(buf[1:], op2.Mem)
			return 1 + n, nil
		}
		buf[0] = movRegMemGeneralOpcode | (1 << 1) | w // D=1: register is destination
		buf[1] = modRM(modForMem(op2.Mem), op1.Reg.Code, op2.Mem.RM)
		n := writeDisp(buf[2:], op2.Mem)
		return 2 + n, nil

	case op1.Kind == parser.OperandMemory && op2.Kind == parser.OperandRegister:
		w := wBit(op2.Size)
		if op2.Reg.IsAccumulator() && op1.Mem.IsDirect {
			buf[0] = movAccToMemOpcode | w
			n := writeDisp(buf[1:], op1.Mem)
			return 1 + n, nil
		}
		buf[0] = movRegMemGeneralOpcode | w // D=0: memory is destination
		buf[1] = modRM(modForMem(op1.Mem), op2.Reg.Code, op1.Mem.RM)
		n := writeDisp(buf[2:], op1.Mem)
		return 2 + n, nil

	case op1.Kind == parser.OperandMemory && op2.Kind == parser.OperandImmediate:
		w := wBit(op1.Size)
		buf[0] = movMemImmOpcode | w
		buf[1] = modRM(modForMem(op1.Mem), 0x00, op1.Mem.RM)
		n := writeDisp(buf[2:], op1.Mem)
		m := writeImm(buf[2+n:], op2.Imm, w == 1)
		return 2 + n + m, nil

	default:
		return 0, NewEncodingError(line, "encoding of that instruction is not supported for now")
	}
}

// modForMem is the ModR/M MOD field for a memory operand: direct
// addresses always use MOD=00 despite carrying a 16-bit displacement,
// the (R/M=110) slot being the 8086's reserved direct-address marker.
func modForMem(mem parser.MemoryOperand) uint8 {
	if mem.IsDirect {
		return modNoDisp
	}
	return modFromDispSize(mem.DispSize)
}
