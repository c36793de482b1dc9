package parser_test

import (
	"strings"
	"testing"

	"github.com/nnobol/8086/parser"
	"github.com/nnobol/8086/scanner"
)

func parseLine(t *testing.T, line string) (*parser.Instruction, error) {
	t.Helper()
	tokens, err := scanner.ScanLine(line, 1)
	if err != nil {
		t.Fatalf("scan %q: unexpected error: %v", line, err)
	}
	return parser.Parse(tokens, 1)
}

func expectParseError(t *testing.T, line, want string) {
	t.Helper()
	_, err := parseLine(t, line)
	if err == nil {
		t.Fatalf("%q: expected error containing %q, got none", line, want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("%q: expected error containing %q, got %q", line, want, err.Error())
	}
}

func TestParse_RegisterToRegister(t *testing.T) {
	inst, err := parseLine(t, "mov ax, bx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Mnemonic != parser.Mov {
		t.Errorf("expected mov, got %v", inst.Mnemonic)
	}
	if inst.Op1.Kind != parser.OperandRegister || inst.Op1.Reg.Name != "ax" {
		t.Errorf("expected op1 = register ax, got %+v", inst.Op1)
	}
	if inst.Op2.Kind != parser.OperandRegister || inst.Op2.Reg.Name != "bx" {
		t.Errorf("expected op2 = register bx, got %+v", inst.Op2)
	}
	if inst.Op1.Size != parser.SizeWord || inst.Op2.Size != parser.SizeWord {
		t.Errorf("expected both operands word-sized, got %v/%v", inst.Op1.Size, inst.Op2.Size)
	}
}

func TestParse_ImmediateAdoptsRegisterSize(t *testing.T) {
	inst, err := parseLine(t, "mov al, 12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Op2.Kind != parser.OperandImmediate {
		t.Fatalf("expected op2 = immediate, got %+v", inst.Op2)
	}
	if inst.Op2.Size != parser.SizeByte {
		t.Errorf("expected immediate to adopt byte size, got %v", inst.Op2.Size)
	}
	if inst.Op2.Imm != 12 {
		t.Errorf("expected immediate value 12, got %d", inst.Op2.Imm)
	}
}

func TestParse_NegativeImmediateTwosComplement(t *testing.T) {
	inst, err := parseLine(t, "mov ax, -1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Op2.Imm != 0xFFFF {
		t.Errorf("expected -1 to be stored as 0xFFFF, got %#x", inst.Op2.Imm)
	}
}

func TestParse_DirectAddress(t *testing.T) {
	inst, err := parseLine(t, "mov ax, [2000]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mem := inst.Op2.Mem
	if !mem.IsDirect {
		t.Fatalf("expected direct address, got %+v", mem)
	}
	if mem.RM != 0x06 {
		t.Errorf("expected R/M 0x06 for direct address, got %#x", mem.RM)
	}
	if mem.DispSize != parser.SizeWord {
		t.Errorf("expected word-sized displacement for direct address, got %v", mem.DispSize)
	}
	if mem.Disp != 2000 {
		t.Errorf("expected displacement 2000, got %d", mem.Disp)
	}
}

func TestParse_BasePlusIndex(t *testing.T) {
	inst, err := parseLine(t, "cmp word [bx+si+4], 999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mem := inst.Op1.Mem
	if mem.RM != 0x00 {
		t.Errorf("expected R/M 0x00 for [bx+si], got %#x", mem.RM)
	}
	if mem.DispSize != parser.SizeByte {
		t.Errorf("expected byte-sized displacement for +4, got %v", mem.DispSize)
	}
}

func TestParse_BPZeroDisplacementForcesByteDisp(t *testing.T) {
	inst, err := parseLine(t, "mov [bp], ax")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mem := inst.Op1.Mem
	if mem.RM != 0x06 {
		t.Errorf("expected R/M 0x06 for [bp], got %#x", mem.RM)
	}
	if mem.DispSize != parser.SizeByte {
		t.Errorf("expected [bp] to force a byte displacement (MOD=01), got %v", mem.DispSize)
	}
	if mem.Disp != 0 {
		t.Errorf("expected displacement 0, got %d", mem.Disp)
	}
}

func TestParse_Determinism(t *testing.T) {
	tokens, err := scanner.ScanLine("add bx, 100", 1)
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	first, err := parser.Parse(tokens, 1)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	second, err := parser.Parse(tokens, 1)
	if err != nil {
		t.Fatalf("unexpected parse error on second pass: %v", err)
	}
	if *first != *second {
		t.Errorf("expected identical instructions, got %+v vs %+v", first, second)
	}
}

func TestParse_NegativeCases(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"mov ax, [ax]", "invalid base register"},
		{"mov [100], 5", "operation size not specified"},
		{"mov byte ax, 5", "does not match specified size"},
		{"mov ax, 65536", "exceeds valid range"},
		{"mov ax, bx cx", "too many operands"},
		{"mov ax, [bp+32768]", "exceeds valid range"},
	}
	for _, c := range cases {
		expectParseError(t, c.line, c.want)
	}
}

func TestParse_InvalidIndexRegister(t *testing.T) {
	expectParseError(t, "mov ax, [bx+cx]", "invalid index register")
}

func TestParse_IndexRequiresBxOrBp(t *testing.T) {
	expectParseError(t, "mov ax, [si+di]", "cannot be combined with an index register")
}

func TestParse_SizeMismatchBetweenOperands(t *testing.T) {
	expectParseError(t, "mov al, bx", "operand sizes do not match")
}

func TestParse_DisplacementSumsMultipleNumbers(t *testing.T) {
	inst, err := parseLine(t, "mov ax, [bx+4+5]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mem := inst.Op2.Mem
	if mem.Disp != 9 {
		t.Errorf("expected displacement 4+5=9, got %d", mem.Disp)
	}
}

func TestParse_DisplacementSumsWithMixedSigns(t *testing.T) {
	inst, err := parseLine(t, "mov ax, [bx+10-3]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Op2.Mem.Disp != 7 {
		t.Errorf("expected displacement 10-3=7, got %d", inst.Op2.Mem.Disp)
	}
}

func TestParse_MemoryOperandShapeRejected(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"mov ax, [bx bp]", "reg+reg"},
		{"mov ax, [bx 4]", "invalid token after '[reg'"},
		{"mov ax, [4+bx]", "expected register immediately after '['"},
	}
	for _, c := range cases {
		expectParseError(t, c.line, c.want)
	}
}
