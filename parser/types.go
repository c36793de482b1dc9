package parser

import "fmt"

// Mnemonic is the closed set of supported instruction names.
type Mnemonic int

const (
	Mov Mnemonic = iota
	Add
	Sub
	Cmp
)

var mnemonicNames = map[Mnemonic]string{
	Mov: "mov",
	Add: "add",
	Sub: "sub",
	Cmp: "cmp",
}

func (m Mnemonic) String() string {
	if name, ok := mnemonicNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mnemonic(%d)", int(m))
}

var mnemonicByLexeme = map[string]Mnemonic{
	"mov": Mov,
	"add": Add,
	"sub": Sub,
	"cmp": Cmp,
}

// Size is the operand-width classification. SizeNone is only ever
// valid as a transient state during parsing; an instruction handed to
// the encoder never carries it.
type Size int

const (
	SizeNone Size = iota
	SizeByte
	SizeWord
)

func (s Size) String() string {
	switch s {
	case SizeByte:
		return "byte"
	case SizeWord:
		return "word"
	default:
		return "unspecified"
	}
}

// Register is one row of the fixed register table: a name, its 3-bit
// 8086 register code, and its intrinsic size.
type Register struct {
	Name string
	Code uint8
	Size Size
}

// registers is the fixed register table, grounded on the original
// project's registers[] array: byte halves map al/cl/dl/bl to 0-3 and
// ah/ch/dh/bh to 4-7, independent of their parent word register's code.
var registers = []Register{
	{"al", 0x00, SizeByte}, {"ah", 0x04, SizeByte}, {"ax", 0x00, SizeWord},
	{"cl", 0x01, SizeByte}, {"ch", 0x05, SizeByte}, {"cx", 0x01, SizeWord},
	{"dl", 0x02, SizeByte}, {"dh", 0x06, SizeByte}, {"dx", 0x02, SizeWord},
	{"bl", 0x03, SizeByte}, {"bh", 0x07, SizeByte}, {"bx", 0x03, SizeWord},
	{"sp", 0x04, SizeWord}, {"bp", 0x05, SizeWord}, {"si", 0x06, SizeWord}, {"di", 0x07, SizeWord},
}

func lookupRegister(name string) (Register, bool) {
	for _, r := range registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// IsAccumulator reports whether r is al or ax, the only registers that
// take the short accumulator encodings.
func (r Register) IsAccumulator() bool { return r.Code == 0x00 }

// addressEntry is one row of the fixed effective-address table.
type addressEntry struct {
	Base  string
	Index string // "" when the row has no index register
	RM    uint8
}

// addressTable is the fixed (base, index) -> R/M map, grounded on the
// original project's address_table[] array.
var addressTable = []addressEntry{
	{"bx", "si", 0x00},
	{"bx", "di", 0x01},
	{"bp", "si", 0x02},
	{"bp", "di", 0x03},
	{"si", "", 0x04},
	{"di", "", 0x05},
	{"bp", "", 0x06},
	{"bx", "", 0x07},
}

func lookupRM(base, index string) (uint8, bool) {
	for _, e := range addressTable {
		if e.Base == base && e.Index == index {
			return e.RM, true
		}
	}
	return 0, false
}

func isValidBase(name string) bool {
	return name == "bx" || name == "bp" || name == "si" || name == "di"
}

func isValidIndex(name string) bool {
	return name == "si" || name == "di"
}

// OperandKind discriminates the tagged Operand union.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandMemory
)

func (k OperandKind) String() string {
	switch k {
	case OperandRegister:
		return "register"
	case OperandImmediate:
		return "immediate"
	case OperandMemory:
		return "memory"
	default:
		return fmt.Sprintf("OperandKind(%d)", int(k))
	}
}

// MemoryOperand describes an effective address: up to one base
// register, an optional index register, a signed displacement, and
// the precomputed encoding details the encoder needs directly.
type MemoryOperand struct {
	HasBase  bool
	Base     Register
	HasIndex bool
	Index    Register
	Disp     int32
	RM       uint8
	DispSize Size // none (MOD=00), byte (MOD=01), or word (MOD=10)
	IsDirect bool
}

// Operand is a tagged value with exactly one active shape, selected by
// Kind. ExplicitSize records whether the source wrote a size keyword
// for this operand, independent of the resolved Size.
type Operand struct {
	Kind         OperandKind
	Size         Size
	ExplicitSize bool

	Reg Register      // valid when Kind == OperandRegister
	Imm uint16         // valid when Kind == OperandImmediate
	Mem MemoryOperand // valid when Kind == OperandMemory
}

// Instruction is a mnemonic plus its two resolved operands. It is
// immutable once constructed and is handed to the encoder as-is.
type Instruction struct {
	Mnemonic Mnemonic
	Op1      Operand
	Op2      Operand
}
