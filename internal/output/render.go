package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
)

var (
	progressPrefix = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	successPrefix  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warningPrefix  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	errorPrefix    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render writes all blocks to w in order.
func Render(w io.Writer, blocks []Block) {
	for _, b := range blocks {
		RenderBlock(w, b)
	}
}

// RenderBlock writes a single block to w.
func RenderBlock(w io.Writer, b Block) {
	switch v := b.(type) {
	case TextBlock:
		fmt.Fprintln(w, v.Text)
	case ProgressBlock:
		fmt.Fprintln(w, progressPrefix.Render("›")+" "+v.Message)
	case SuccessBlock:
		fmt.Fprintln(w, successPrefix.Render("✓")+" "+v.Message)
	case WarningBlock:
		fmt.Fprintln(w, warningPrefix.Render("!")+" "+v.Message)
	case ErrorBlock:
		fmt.Fprintln(w, errorPrefix.Render("✗")+" "+v.Message)
	}
}

// Progress writes a styled progress message to stdout.
func Progress(format string, args ...any) {
	RenderBlock(os.Stdout, ProgressBlock{Message: fmt.Sprintf(format, args...)})
}

// Success writes a styled success message to stdout.
func Success(format string, args ...any) {
	RenderBlock(os.Stdout, SuccessBlock{Message: fmt.Sprintf(format, args...)})
}

// Warning writes a styled warning message to stdout.
func Warning(format string, args ...any) {
	RenderBlock(os.Stdout, WarningBlock{Message: fmt.Sprintf(format, args...)})
}

// Error writes a styled error message to stdout.
func Error(format string, args ...any) {
	RenderBlock(os.Stdout, ErrorBlock{Message: fmt.Sprintf(format, args...)})
}

// Text writes plain text to stdout.
func Text(format string, args ...any) {
	RenderBlock(os.Stdout, TextBlock{Text: fmt.Sprintf(format, args...)})
}

// Path styles a file path for inline use in messages.
func Path(p string) string {
	return pathStyle.Render(p)
}

// Dim styles secondary text, like descriptions in listings.
func Dim(s string) string {
	return dimStyle.Render(s)
}
