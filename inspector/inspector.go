// Package inspector provides an optional interactive TUI for stepping
// through a source file's lines and watching them move through the
// scanner, parser, and encoder. It never assembles a file to disk —
// it is a read-only diagnostic view built on the same pipeline the
// CLI driver uses.
package inspector

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nnobol/8086/config"
	"github.com/nnobol/8086/encoder"
	"github.com/nnobol/8086/parser"
	"github.com/nnobol/8086/scanner"
)

// lineResult holds everything the inspector can show about one line.
type lineResult struct {
	lineNo int
	raw    string

	tokens []scanner.Token
	inst   *parser.Instruction
	bytes  []byte

	scanErr   error
	parseErr  error
	encodeErr error
}

// Inspector is the interactive, read-only assembly explorer.
type Inspector struct {
	App   *tview.Application
	Pages *tview.Pages

	Layout       *tview.Flex
	SourceView   *tview.List
	TokensView   *tview.TextView
	EncodingView *tview.TextView
	ErrorsView   *tview.TextView

	lines    []lineResult
	selected int

	cfg *config.Config
}

// NewInspector builds an Inspector over source, a complete file
// including its "bits 16" header line. cfg governs starting color
// usage and which panel holds focus on launch.
func NewInspector(source string, cfg *config.Config) *Inspector {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	insp := &Inspector{
		App: tview.NewApplication(),
		cfg: cfg,
	}
	insp.lines = analyzeLines(source)
	insp.initializeViews()
	insp.buildLayout()
	insp.setupKeyBindings()
	return insp
}

// analyzeLines runs the scanner/parser/encoder over every non-header
// line independently, recording whatever result or error each stage
// produced. Unlike Assemble, one line's error never stops another
// line's analysis — the inspector's whole point is to show every
// line's state at once.
func analyzeLines(source string) []lineResult {
	rawLines := strings.Split(source, "\n")
	if len(rawLines) > 0 && rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	}

	var results []lineResult
	buf := make([]byte, 6)

	for i, raw := range rawLines {
		lineNo := i + 1
		res := lineResult{lineNo: lineNo, raw: raw}

		if lineNo == 1 {
			results = append(results, res)
			continue
		}

		tokens, err := scanner.ScanLine(raw, lineNo)
		if err != nil {
			res.scanErr = err
			results = append(results, res)
			continue
		}
		res.tokens = tokens
		if len(tokens) == 0 {
			results = append(results, res)
			continue
		}

		inst, err := parser.Parse(tokens, lineNo)
		if err != nil {
			res.parseErr = err
			results = append(results, res)
			continue
		}
		res.inst = inst

		n, err := encoder.Encode(inst, lineNo, buf)
		if err != nil {
			res.encodeErr = err
			results = append(results, res)
			continue
		}
		res.bytes = append([]byte(nil), buf[:n]...)

		results = append(results, res)
	}

	return results
}

func (insp *Inspector) initializeViews() {
	insp.SourceView = tview.NewList().ShowSecondaryText(false)
	insp.SourceView.SetBorder(true).SetTitle(" Source ")

	for _, res := range insp.lines {
		text := fmt.Sprintf("%4d  %s", res.lineNo, res.raw)
		insp.SourceView.AddItem(text, "", 0, nil)
	}
	insp.SourceView.SetChangedFunc(func(index int, _, _ string, _ rune) {
		insp.selected = index
		insp.refreshPanels()
	})

	insp.TokensView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	insp.TokensView.SetBorder(true).SetTitle(" Tokens ")

	insp.EncodingView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	insp.EncodingView.SetBorder(true).SetTitle(" Encoding ")

	insp.ErrorsView = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	insp.ErrorsView.SetBorder(true).SetTitle(" Errors ")
}

func (insp *Inspector) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(insp.TokensView, 0, 1, false).
		AddItem(insp.EncodingView, 0, 1, false).
		AddItem(insp.ErrorsView, 0, 1, false)

	insp.Layout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(insp.SourceView, 0, 1, true).
		AddItem(right, 0, 2, false)

	insp.Pages = tview.NewPages().AddPage("main", insp.Layout, true, true)
}

func (insp *Inspector) setupKeyBindings() {
	insp.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Rune() == 'q':
			insp.App.Stop()
			return nil
		case event.Key() == tcell.KeyCtrlC:
			insp.App.Stop()
			return nil
		}
		return event
	})
}

func (insp *Inspector) refreshPanels() {
	if insp.selected < 0 || insp.selected >= len(insp.lines) {
		return
	}
	res := insp.lines[insp.selected]

	insp.TokensView.SetText(insp.formatTokens(res))
	insp.EncodingView.SetText(insp.formatEncoding(res))
	insp.ErrorsView.SetText(insp.formatErrors(res))
}

// colorize wraps text in a tview color tag unless the loaded config
// turned color output off, in which case the tags would just show up
// as literal text with SetDynamicColors left on.
func (insp *Inspector) colorize(color, text string) string {
	if !insp.cfg.Inspector.ColorOutput {
		return text
	}
	return fmt.Sprintf("[%s]%s[white]", color, text)
}

func (insp *Inspector) formatTokens(res lineResult) string {
	if res.lineNo == 1 {
		return insp.colorize("yellow", "header line")
	}
	if len(res.tokens) == 0 {
		return insp.colorize("gray", "no tokens (blank or comment-only)")
	}

	var b strings.Builder
	for _, t := range res.tokens {
		fmt.Fprintf(&b, "%-12s %q\n", t.Kind, t.Lexeme)
	}
	return b.String()
}

func (insp *Inspector) formatEncoding(res lineResult) string {
	if res.inst == nil {
		return insp.colorize("gray", "-")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "mnemonic: %s\n", res.inst.Mnemonic)
	fmt.Fprintf(&b, "op1: %s (size=%s)\n", res.inst.Op1.Kind, res.inst.Op1.Size)
	fmt.Fprintf(&b, "op2: %s (size=%s)\n", res.inst.Op2.Kind, res.inst.Op2.Size)

	if len(res.bytes) > 0 {
		fmt.Fprintf(&b, "\nbytes: % X\n", res.bytes)
		fmt.Fprintf(&b, "modrm: %s\n", describeModRM(res.bytes))
	}
	return b.String()
}

// describeModRM reports the MOD/REG/R-M field breakdown of the
// second emitted byte, when the instruction carries a ModR/M byte
// (every encoding here except the mov-immediate-to-register short
// form and the accumulator short forms, which have none).
func describeModRM(data []byte) string {
	if len(data) < 2 {
		return "none (short form)"
	}
	switch op := data[0]; {
	case op >= 0xB0 && op <= 0xBF, // mov reg, imm
		op >= 0xA0 && op <= 0xA3,                          // mov acc <-> [direct]
		op&0xFE == 0x04, op&0xFE == 0x2C, op&0xFE == 0x3C: // add/sub/cmp acc, imm
		return "none (short form)"
	}
	modrm := data[1]
	mod := modrm >> 6
	reg := (modrm >> 3) & 0x07
	rm := modrm & 0x07
	return fmt.Sprintf("MOD=%02b REG=%03b R/M=%03b", mod, reg, rm)
}

func (insp *Inspector) formatErrors(res lineResult) string {
	switch {
	case res.scanErr != nil:
		return insp.colorize("red", "scan error: ") + res.scanErr.Error()
	case res.parseErr != nil:
		return insp.colorize("red", "parse error: ") + res.parseErr.Error()
	case res.encodeErr != nil:
		return insp.colorize("red", "encode error: ") + res.encodeErr.Error()
	default:
		return insp.colorize("green", "no errors")
	}
}

// focusForPanel returns the view the configured startup panel name
// refers to, defaulting to the source list for an unrecognized name.
func (insp *Inspector) focusForPanel() tview.Primitive {
	switch insp.cfg.Inspector.StartupPanel {
	case "tokens":
		return insp.TokensView
	case "encoding":
		return insp.EncodingView
	case "errors":
		return insp.ErrorsView
	default:
		return insp.SourceView
	}
}

// Run loads the ambient config and drives an Inspector over source
// until the user quits it.
func Run(source string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	insp := NewInspector(source, cfg)
	insp.refreshPanels()
	return insp.App.SetRoot(insp.Pages, true).SetFocus(insp.focusForPanel()).Run()
}
