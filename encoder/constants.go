package encoder

import "github.com/nnobol/8086/parser"

// Per-mnemonic opcode family for add/sub/cmp. Each mnemonic in this
// family shares one ModR/M layout across reg<->reg, reg<->mem, and
// immediate forms, distinguished by these three values, grounded on
// the original project's get_reg_to_reg_opcode/get_imm_to_acc_opcode/
// get_opext tables.
type arithmeticOpcodes struct {
	RegToRM   uint8 // 6-bit base opcode, shifted left 2, OR'd with D<<1|W
	ImmToAcc  uint8 // 7-bit base opcode, OR'd with W
	OpcodeExt uint8 // REG-field opcode extension for the 0x80 immediate family
}

var arithmeticTable = map[parser.Mnemonic]arithmeticOpcodes{
	parser.Add: {RegToRM: 0x00, ImmToAcc: 0x04, OpcodeExt: 0x00},
	parser.Sub: {RegToRM: 0x28, ImmToAcc: 0x2C, OpcodeExt: 0x05},
	parser.Cmp: {RegToRM: 0x38, ImmToAcc: 0x3C, OpcodeExt: 0x07},
}

// mov-specific fixed opcodes, grounded on encoder.c's mov handling.
const (
	movRegToRegOpcode      = 0x88
	movRegImmOpcode        = 0xB0
	movMemToAccOpcode      = 0xA0
	movAccToMemOpcode      = 0xA2
	movRegMemGeneralOpcode = 0x88
	movMemImmOpcode        = 0xC6
)

// arithImmToRMOpcode is the shared 0x80-family opcode base used for
// reg<-imm (non-accumulator) and mem<-imm forms across add/sub/cmp.
const arithImmToRMOpcode = 0x80

// modRegisterDirect/modNoDisp/modByteDisp/modWordDisp are the four
// MOD field values (bits 7-6 of ModR/M).
const (
	modNoDisp         = 0x00
	modByteDisp       = 0x01
	modWordDisp       = 0x02
	modRegisterDirect = 0x03
)
