// Package formatter canonicalizes whitespace and column alignment of
// 8086 assembly source without changing what it assembles to. It is
// built directly on the scanner's token stream, so it can never
// reinterpret a line's meaning — only its layout. The one exception is
// the header: any letter case of "bits 16" is written as lowercase
// "bits 16", which the assembler's case-sensitive header check accepts.
package formatter

import (
	"strings"

	"github.com/nnobol/8086/scanner"
)

// FormatStyle selects a column-alignment preset.
type FormatStyle int

const (
	FormatDefault FormatStyle = iota
	FormatCompact
	FormatExpanded
)

// FormatOptions controls formatter layout.
type FormatOptions struct {
	Style         FormatStyle
	OperandColumn int  // column where the operand list starts
	CommentColumn int  // column where an inline comment starts
	AlignOperands bool // pad to OperandColumn instead of a single space
	AlignComments bool // pad to CommentColumn instead of a single space
}

// DefaultFormatOptions returns the standard layout.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:         FormatDefault,
		OperandColumn: 8,
		CommentColumn: 32,
		AlignOperands: true,
		AlignComments: true,
	}
}

// CompactFormatOptions returns single-space layout with no column
// alignment.
func CompactFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:         FormatCompact,
		AlignOperands: false,
		AlignComments: false,
	}
}

// ExpandedFormatOptions returns wider columns for readability.
func ExpandedFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:         FormatExpanded,
		OperandColumn: 12,
		CommentColumn: 40,
		AlignOperands: true,
		AlignComments: true,
	}
}

// Formatter formats 8086 assembly source line by line.
type Formatter struct {
	options *FormatOptions
}

// NewFormatter creates a formatter with the given options, or
// DefaultFormatOptions if options is nil.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format reformats source, a complete file including its "bits 16"
// header line, returning the canonicalized text.
func (f *Formatter) Format(source string) (string, error) {
	lines := strings.Split(source, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var out strings.Builder
	for _, line := range lines {
		out.WriteString(f.formatLine(line))
		out.WriteString("\n")
	}
	return out.String(), nil
}

func (f *Formatter) formatLine(raw string) string {
	code, comment := splitComment(raw)
	trimmed := strings.TrimSpace(code)

	if trimmed == "" {
		if comment == "" {
			return ""
		}
		return "; " + strings.TrimSpace(comment)
	}

	var body string
	if strings.EqualFold(trimmed, "bits 16") {
		body = "bits 16"
	} else {
		tokens, _ := scanner.ScanLine(code, 0)
		body = f.rebuildTokens(tokens)
	}

	if comment == "" {
		return body
	}

	var b strings.Builder
	b.WriteString(body)
	if f.options.AlignComments {
		padToColumn(&b, f.options.CommentColumn)
	} else {
		b.WriteString(" ")
	}
	b.WriteString("; ")
	b.WriteString(strings.TrimSpace(comment))
	return b.String()
}

func (f *Formatter) rebuildTokens(tokens []scanner.Token) string {
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(tokens[0].Lexeme)

	if len(tokens) > 1 {
		if f.options.AlignOperands {
			padToColumn(&b, f.options.OperandColumn)
		} else {
			b.WriteString(" ")
		}
		b.WriteString(joinOperandTokens(tokens[1:]))
	}

	return b.String()
}

func joinOperandTokens(tokens []scanner.Token) string {
	// Two adjacent word-like tokens keep a space between them, so they
	// are not glued into one lexeme ("byte al" must not become "byteal").
	wordLike := func(k scanner.TokenKind) bool {
		switch k {
		case scanner.TokenMnemonic, scanner.TokenSize, scanner.TokenRegister, scanner.TokenNumber, scanner.TokenBad:
			return true
		}
		return false
	}

	var b strings.Builder
	for i, t := range tokens {
		if i > 0 && wordLike(tokens[i-1].Kind) &&
			(wordLike(t.Kind) || t.Kind == scanner.TokenOpenBracket && tokens[i-1].Kind == scanner.TokenSize) {
			b.WriteString(" ")
		}
		switch t.Kind {
		case scanner.TokenComma:
			b.WriteString(", ")
		case scanner.TokenOpenBracket:
			b.WriteString("[")
		case scanner.TokenCloseBracket:
			b.WriteString("]")
		case scanner.TokenPlus:
			b.WriteString("+")
		case scanner.TokenMinus:
			b.WriteString("-")
		default:
			b.WriteString(t.Lexeme)
		}
	}
	return b.String()
}

func padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	switch {
	case current < column:
		sb.WriteString(strings.Repeat(" ", column-current))
	case current == column:
	default:
		sb.WriteString(" ")
	}
}

func splitComment(raw string) (code, comment string) {
	idx := strings.IndexByte(raw, ';')
	if idx == -1 {
		return raw, ""
	}
	return raw[:idx], raw[idx+1:]
}

// FormatString formats source with the default layout.
func FormatString(source string) (string, error) {
	return NewFormatter(DefaultFormatOptions()).Format(source)
}

// FormatStringWithStyle formats source with the given style preset.
func FormatStringWithStyle(source string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(source)
}
