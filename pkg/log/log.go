// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	changeIndent = 4  // spaces to indent change entries
	idWidth      = 12 // Base width for change id
	opWidth      = 15 // Width for operation name
	detailWidth  = 20 // Width for detail text
)

// 🎯 ChangeOperation represents one applied instruction for logging
type ChangeOperation struct {
	ChangeID  string // Instruction id
	Operation string // REPLACE / INSERT_BEFORE / INSERT_AFTER / DELETE
	Detail    string // Short outcome detail
	Succeeded bool   // Whether the instruction succeeded
	Multiple  bool   // Whether multiple matches were flagged
	InTable   bool   // Whether the edit landed in a table
}

// 📦 DocumentOperation represents one document pass for logging
type DocumentOperation struct {
	Path         string // Document path
	Instructions int    // Number of instructions in the pass
	DryRun       bool   // Whether changes are written back
}

// 🎯 Logger handles structured logging with console output. Safe for
// concurrent use: each document pass is rendered as one atomic block, so
// parallel documents never interleave their change lines.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 📝 formatChangeOperation formats a change operation for display
func (l *Logger) formatChangeOperation(op ChangeOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case !op.Succeeded:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.Multiple:
		symbol = '⚠'
		symbolColor = color.FgYellow
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	// Format operation with color
	var opColor color.Attribute
	switch op.Operation {
	case "REPLACE":
		opColor = color.FgCyan
	case "DELETE":
		opColor = color.FgRed
	default:
		opColor = color.FgBlue
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", changeIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", idWidth, op.ChangeID),
		color.New(opColor).Sprint(fmt.Sprintf("%-*s", opWidth, op.Operation)),
		fmt.Sprintf("%-*s", detailWidth, op.Detail))
}

// 📝 formatDocumentHeader formats the header lines of a document pass
func (l *Logger) formatDocumentHeader(op DocumentOperation) string {
	mode := "apply"
	if op.DryRun {
		mode = "check"
	}
	return fmt.Sprintf("[editing %s]\n%s %s %s %s",
		color.New(color.FgCyan).Sprint(op.Path),
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d instructions", op.Instructions),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))
}

// 📝 LogDocumentPass renders one document pass: the header and every
// change line, written to the console as one block under the lock
func (l *Logger) LogDocumentPass(ctx context.Context, op DocumentOperation, changes []ChangeOperation) {
	var b strings.Builder
	b.WriteString(l.formatDocumentHeader(op))
	b.WriteByte('\n')
	for _, ch := range changes {
		b.WriteString(l.formatChangeOperation(ch))
		b.WriteByte('\n')
	}

	l.mu.Lock()
	fmt.Fprint(l.console, b.String())
	l.mu.Unlock()

	// Log to zerolog
	l.zlog.Info().
		Str("document", op.Path).
		Int("instructions", op.Instructions).
		Bool("dry_run", op.DryRun).
		Msg("starting document pass")
	for _, ch := range changes {
		l.zlog.Info().
			Str("change_id", ch.ChangeID).
			Str("operation", ch.Operation).
			Str("detail", ch.Detail).
			Bool("succeeded", ch.Succeeded).
			Bool("multiple_matches", ch.Multiple).
			Bool("in_table", ch.InTable).
			Msg("change operation")
	}
	l.zlog.Info().
		Str("document", op.Path).
		Int("changes", len(changes)).
		Msg("document pass complete")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	redlineText := color.New(color.Bold, color.FgCyan).Sprint("redline")
	fmt.Fprintf(l.console, "\n%s %s\n\n", redlineText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
