package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Detail is one key-value line of a header or result box. Details keep the
// order they are given in.
type Detail struct {
	Key   string
	Value string
}

// Printer provides methods for printing UI components to a writer.
// This is the primary way one-shot commands should output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = max(width, MinTerminalWidth)
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params []Detail) {
	p.Print(RenderHeader(title, command, params, p.width))
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Detail) {
	p.Print(RenderSuccessBox(title, details, p.width))
	p.Newline()
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Print(RenderErrorBox(title, err, troubleshooting, p.width))
	p.Newline()
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, params []Detail, width int) string {
	titleLine := HeaderTitleStyle.Render(strings.ToUpper(title))
	commandLine := HeaderCommandStyle.Render(command)
	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(params) == 0 {
		return HeaderBorderStyle(width).Render(topSection)
	}

	var paramLines []string
	for _, d := range params {
		keyStyled := HeaderParamKeyStyle.Render(d.Key + ":")
		valueStyled := HeaderParamValueStyle.Render(d.Value)
		paramLines = append(paramLines, keyStyled+" "+valueStyled)
	}

	dividerWidth := max(width-6, 10) // Account for border and padding
	divider := RenderHorizontalDivider(dividerWidth, "─")

	content := lipgloss.JoinVertical(lipgloss.Left, topSection, divider, strings.Join(paramLines, "\n"))
	return HeaderBorderStyle(width).Render(content)
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Detail, width int) string {
	lines := []string{
		"",
		SuccessTitleStyle.Render("   " + SuccessMarker + "  SUCCESS  ─  " + title),
		"",
	}

	for _, d := range details {
		keyStyled := ResultKeyStyle.Render("   " + d.Key + ":")
		valueStyled := ResultValueStyle.Render(d.Value)
		lines = append(lines, keyStyled+" "+valueStyled)
	}

	lines = append(lines, "")
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, width int) string {
	lines := []string{
		"",
		ErrorTitleStyle.Render("   " + FailureMarker + "  FAILED  ─  " + title),
		"",
	}

	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+err.Error()), "")
	}

	if len(troubleshooting) > 0 {
		troubleLines := []string{
			TroubleshootingTitleStyle.Render("Troubleshooting:"),
			"",
		}
		for _, tip := range troubleshooting {
			troubleLines = append(troubleLines, TroubleshootingItemStyle.Render("  • "+tip))
		}

		troubleBox := TroubleshootingBoxStyle(width).Render(strings.Join(troubleLines, "\n"))
		lines = append(lines, troubleBox, "")
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}
