// Package ui formats the REPL output: colored status messages, the prompt and
// text views of the document.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type UI struct {
	writer   io.Writer
	useColor bool
}

func NewUI(w io.Writer, useColor bool) *UI {
	return &UI{writer: w, useColor: useColor}
}

// IsTerminal reports whether f is attached to a terminal. Color output is
// only enabled for terminals.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Writer returns the output the UI prints to.
func (u *UI) Writer() io.Writer {
	return u.writer
}

func (u *UI) UseColor() bool {
	return u.useColor
}

func (u *UI) colorize(message string, color Color) string {
	if !u.useColor || color == ColorDefault {
		return message
	}
	return fmt.Sprintf("%s%s%s", color, message, ColorDefault)
}

func (u *UI) Print(message string) {
	fmt.Fprint(u.writer, message)
}

func (u *UI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(u.writer, format, args...)
}

func (u *UI) Println(message string) {
	fmt.Fprintln(u.writer, message)
}

func (u *UI) PrintColored(message string, color Color) {
	fmt.Fprint(u.writer, u.colorize(message, color))
}

func (u *UI) PrintlnColored(message string, color Color) {
	fmt.Fprintln(u.writer, u.colorize(message, color))
}

func (u *UI) Error(message string) {
	u.Println(u.colorize("!", ColorRed) + " " + u.colorize(message, ColorLightOrange))
}

func (u *UI) Success(message string) {
	u.PrintlnColored(message, ColorLightGreen)
}

func (u *UI) Warning(message string) {
	u.Println(u.colorize("?", ColorLightRed) + " " + u.colorize(message, ColorLightYellow))
}

func (u *UI) Info(message string) {
	u.PrintlnColored(message, ColorGray)
}

// GetPromptString builds the REPL prompt from the open document name and
// the text of the selected node. A trailing asterisk marks unsaved changes.
func (u *UI) GetPromptString(document, selected string, modified bool) string {
	var promptBuilder strings.Builder
	if document == "" {
		document = "untitled"
	}
	promptBuilder.WriteString(u.colorize(document, ColorLightBlue))
	if modified {
		promptBuilder.WriteString(u.colorize("*", ColorYellow))
	}
	if selected != "" {
		promptBuilder.WriteString(u.colorize(" @ ", ColorWhite))
		promptBuilder.WriteString(u.colorize(selected, ColorLightPurple))
	}
	promptBuilder.WriteString(" ")
	promptBuilder.WriteString(u.colorize("> ", ColorGreen))
	return promptBuilder.String()
}

func (u *UI) PrintCommand(command string) {
	u.PrintlnColored(command, ColorWhite)
}
