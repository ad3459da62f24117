// Package output renders styled status messages and spinners for the CLI.
package output

// Block is a unit of structured output that can be rendered to the terminal.
type Block interface {
	BlockType() string
}

// TextBlock is plain text, printed without decoration.
type TextBlock struct {
	Text string
}

func (b TextBlock) BlockType() string { return "text" }

// ProgressBlock is an in-flight operational message.
type ProgressBlock struct {
	Message string
}

func (b ProgressBlock) BlockType() string { return "progress" }

// SuccessBlock reports a completed step.
type SuccessBlock struct {
	Message string
}

func (b SuccessBlock) BlockType() string { return "success" }

// WarningBlock reports a non-fatal problem, like a skipped variant.
type WarningBlock struct {
	Message string
}

func (b WarningBlock) BlockType() string { return "warning" }

// ErrorBlock reports a failure.
type ErrorBlock struct {
	Message string
}

func (b ErrorBlock) BlockType() string { return "error" }
