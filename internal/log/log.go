// Package log provides functionality for logging commands, errors and
// diagnostic messages to JSON log files.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"mindnoscape/canvas-app/internal/config"
)

// Fields carries structured attributes of a log message.
type Fields map[string]interface{}

// LogMessage is one queued entry. Commands go to the command log; other
// messages are routed by level, warnings and errors to the error log.
type LogMessage struct {
	Command bool
	Level   slog.Level
	Content string
	Fields  Fields
	Context context.Context
}

// Logger writes commands, errors and info messages to separate files.
// Messages are handed to a background goroutine so logging never blocks the
// interactive loop on disk I/O.
type Logger struct {
	commandLogger *slog.Logger
	errorLogger   *slog.Logger
	infoLogger    *slog.Logger
	files         []*os.File
	logChan       chan LogMessage
	done          chan struct{}
	closeOnce     sync.Once
	wg            sync.WaitGroup
	infoEnabled   bool
}

// NewLogger opens the log files named in cfg.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var files []*os.File
	open := func(name string) (*os.File, error) {
		f, err := os.OpenFile(filepath.Join(cfg.LogFolder, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		files = append(files, f)
		return f, nil
	}

	commandFile, err := open(cfg.CommandLog)
	if err != nil {
		return nil, err
	}
	errorFile, err := open(cfg.ErrorLog)
	if err != nil {
		return nil, err
	}
	infoFile, err := open(cfg.InfoLog)
	if err != nil {
		return nil, err
	}

	l := newLogger(commandFile, errorFile, infoFile, cfg.InfoEnabled)
	l.files = files
	return l, nil
}

// NewDiscard returns a logger that drops everything, for tests and tools.
func NewDiscard() *Logger {
	return newLogger(io.Discard, io.Discard, io.Discard, false)
}

func newLogger(command, errs, info io.Writer, infoEnabled bool) *Logger {
	l := &Logger{
		commandLogger: slog.New(slog.NewJSONHandler(command, &slog.HandlerOptions{Level: slog.LevelInfo})),
		errorLogger:   slog.New(slog.NewJSONHandler(errs, &slog.HandlerOptions{Level: slog.LevelWarn})),
		infoLogger:    slog.New(slog.NewJSONHandler(info, &slog.HandlerOptions{Level: slog.LevelDebug})),
		logChan:       make(chan LogMessage, 100),
		done:          make(chan struct{}),
		infoEnabled:   infoEnabled,
	}

	l.wg.Add(1)
	go l.processLogs()

	return l
}

// processLogs writes queued messages until Close is called, then drains
// whatever is still buffered.
func (l *Logger) processLogs() {
	defer l.wg.Done()
	for {
		select {
		case msg := <-l.logChan:
			l.write(msg)
		case <-l.done:
			for {
				select {
				case msg := <-l.logChan:
					l.write(msg)
				default:
					return
				}
			}
		}
	}
}

func (l *Logger) write(msg LogMessage) {
	attrs := msg.Fields.attrs()
	switch {
	case msg.Command:
		l.commandLogger.LogAttrs(msg.Context, slog.LevelInfo, msg.Content, attrs...)
	case msg.Level >= slog.LevelWarn:
		l.errorLogger.LogAttrs(msg.Context, msg.Level, msg.Content, attrs...)
	default:
		l.infoLogger.LogAttrs(msg.Context, msg.Level, msg.Content, attrs...)
	}
}

func (f Fields) attrs() []slog.Attr {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		v := f[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *Logger) send(msg LogMessage) {
	if msg.Context == nil {
		msg.Context = context.Background()
	}
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.logChan <- msg:
	case <-l.done:
	}
}

// LogCommand records a command entered by the user.
func (l *Logger) LogCommand(ctx context.Context, command string) {
	l.send(LogMessage{Command: true, Content: command, Context: ctx})
}

func (l *Logger) Error(ctx context.Context, message string, fields Fields) {
	l.send(LogMessage{Level: slog.LevelError, Content: message, Fields: fields, Context: ctx})
}

func (l *Logger) Warn(ctx context.Context, message string, fields Fields) {
	l.send(LogMessage{Level: slog.LevelWarn, Content: message, Fields: fields, Context: ctx})
}

func (l *Logger) Info(ctx context.Context, message string, fields Fields) {
	if l.infoEnabled {
		l.send(LogMessage{Level: slog.LevelInfo, Content: message, Fields: fields, Context: ctx})
	}
}

func (l *Logger) Debug(ctx context.Context, message string, fields Fields) {
	if l.infoEnabled {
		l.send(LogMessage{Level: slog.LevelDebug, Content: message, Fields: fields, Context: ctx})
	}
}

// LogError records err on the error log.
func (l *Logger) LogError(ctx context.Context, err error) {
	l.Error(ctx, err.Error(), nil)
}

// SetInfoEnabled enables or disables info and debug logging
func (l *Logger) SetInfoEnabled(enabled bool) {
	l.infoEnabled = enabled
}

// Close flushes pending messages and closes all log files.
func (l *Logger) Close() error {
	var firstErr error
	l.closeOnce.Do(func() {
		close(l.done)
		l.wg.Wait()
		for _, f := range l.files {
			if err := f.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to close log file: %w", err)
			}
		}
	})
	return firstErr
}
