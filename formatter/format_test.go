package formatter

import (
	"strings"
	"testing"
)

func TestFormat_BasicInstruction(t *testing.T) {
	source := "bits 16\nmov    ax,   bx\n"

	f := NewFormatter(DefaultFormatOptions())
	result, err := f.Format(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "mov") {
		t.Error("expected mov instruction in output")
	}
	if !strings.Contains(result, "ax, bx") {
		t.Errorf("expected normalized operand spacing, got: %q", result)
	}
}

func TestFormat_PreservesHeader(t *testing.T) {
	source := "BITS 16\nmov ax, bx\n"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(result, "\n")
	if lines[0] != "bits 16" {
		t.Errorf("expected header line lowercased to bits 16, got %q", lines[0])
	}
}

func TestFormat_WithComment(t *testing.T) {
	source := "bits 16\nmov ax, bx ; load bx into ax\n"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "load bx into ax") {
		t.Error("expected comment text preserved in output")
	}
	if !strings.Contains(result, ";") {
		t.Error("expected semicolon for comment")
	}
}

func TestFormat_CommentOnlyLine(t *testing.T) {
	source := "bits 16\n; a standalone remark\nmov ax, bx\n"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(result, "\n")
	if lines[1] != "; a standalone remark" {
		t.Errorf("expected preserved comment-only line, got %q", lines[1])
	}
}

func TestFormat_BlankLine(t *testing.T) {
	source := "bits 16\n\nmov ax, bx\n"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(result, "\n")
	if lines[1] != "" {
		t.Errorf("expected blank line preserved, got %q", lines[1])
	}
}

func TestFormat_CompactStyle(t *testing.T) {
	source := "bits 16\nmov     ax  ,   bx\n"

	result, err := FormatStringWithStyle(source, FormatCompact)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(result), "\n")
	for _, line := range lines {
		if strings.Contains(line, "  ") {
			t.Errorf("compact style should collapse whitespace: %q", line)
		}
	}
}

func TestFormat_ExpandedStyle(t *testing.T) {
	source := "bits 16\nmov ax, bx\n"

	result, err := FormatStringWithStyle(source, FormatExpanded)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(result, "\n")
	idx := strings.Index(lines[1], "ax")
	if idx != ExpandedFormatOptions().OperandColumn {
		t.Errorf("expected operand column at %d, got %d in %q", ExpandedFormatOptions().OperandColumn, idx, lines[1])
	}
}

func TestFormat_MemoryOperand(t *testing.T) {
	source := "bits 16\ncmp word [ bx + si + 4 ], 999\n"

	result, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if !strings.Contains(result, "[bx+si+4]") {
		t.Errorf("expected tightly packed memory operand, got: %q", result)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	source := "bits 16\nmov ax, bx\nadd cx, 10 ; step\n"

	once, err := FormatString(source)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}
	twice, err := FormatString(once)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if once != twice {
		t.Errorf("expected formatting to be idempotent:\nfirst:  %q\nsecond: %q", once, twice)
	}
}

func TestFormat_PreservesSemantics(t *testing.T) {
	source := "bits 16\nmov    ax,bx\n"

	result, err := FormatStringWithStyle(source, FormatCompact)
	if err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(result, "\n")
	if strings.TrimSpace(lines[1]) != "mov ax, bx" {
		t.Errorf("expected semantically unchanged instruction, got %q", lines[1])
	}
}
