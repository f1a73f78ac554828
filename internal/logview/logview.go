// Package logview follows the JSON log files of a log folder and prints
// their entries in a compact, optionally colored form.
package logview

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"

	"mindnoscape/canvas-app/internal/ui"
)

// TimeFormat is how entry timestamps are printed.
const TimeFormat = "06-01-02 15:04:05.000"

// Entry is one decoded log line.
type Entry map[string]interface{}

func levelColor(level string) ui.Color {
	switch level {
	case "DEBUG":
		return ui.ColorLightBlue
	case "INFO":
		return ui.ColorGreen
	case "WARN":
		return ui.ColorYellow
	case "ERROR":
		return ui.ColorRed
	default:
		return ui.ColorWhite
	}
}

// Format renders e as a header line followed by one indented line per extra
// attribute, in key order.
func Format(e Entry, useColor bool) string {
	paint := func(s string, c ui.Color) string {
		if !useColor {
			return s
		}
		return string(c) + s + string(ui.ColorDefault)
	}

	ts, _ := e["time"].(string)
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		ts = t.Format(TimeFormat)
	}
	level, _ := e["level"].(string)
	level = strings.ToUpper(level)
	msg, _ := e["msg"].(string)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", paint(ts, ui.ColorLightPurple), paint(fmt.Sprintf("%-5s", level), levelColor(level)), msg)

	keys := make([]string, 0, len(e))
	for k := range e {
		if k != "time" && k != "level" && k != "msg" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n    %s %v", paint(k+":", ui.ColorLightBlue), e[k])
	}
	return b.String()
}

// Tailer prints what was appended to the *.log files of a folder since the
// previous Scan.
type Tailer struct {
	Dir      string
	Filter   string
	UseColor bool

	offsets map[string]int64
	out     io.Writer
}

// NewTailer creates a tailer writing to out. The first Scan prints the
// existing content of every file.
func NewTailer(dir string, out io.Writer) *Tailer {
	return &Tailer{Dir: dir, offsets: make(map[string]int64), out: out}
}

// Scan prints new entries that match the filter and returns how many were
// printed. Lines that are not JSON are reported inline and skipped.
func (t *Tailer) Scan() (int, error) {
	files, err := filepath.Glob(filepath.Join(t.Dir, "*.log"))
	if err != nil {
		return 0, fmt.Errorf("failed to list log files: %w", err)
	}
	sort.Strings(files)

	printed := 0
	for _, path := range files {
		n, err := t.scanFile(path)
		printed += n
		if err != nil {
			return printed, err
		}
	}
	return printed, nil
}

func (t *Tailer) scanFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", filepath.Base(path), err)
	}
	offset, known := t.offsets[path]
	if !known {
		msg := "New log file: " + filepath.Base(path)
		if t.UseColor {
			msg = string(ui.ColorGreen) + msg + string(ui.ColorDefault)
		}
		fmt.Fprintln(t.out, msg)
	}
	if st.Size() < offset {
		fmt.Fprintf(t.out, "%s was truncated, reading from the start\n", filepath.Base(path))
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to seek in %s: %w", filepath.Base(path), err)
	}

	printed := 0
	filter := strings.ToLower(t.Filter)
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			// A partial line is read again once it is complete.
			break
		}
		if err != nil {
			return printed, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}
		offset += int64(len(line))

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			fmt.Fprintf(t.out, "%s: skipped a line that is not JSON\n", filepath.Base(path))
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(Format(e, false)), filter) {
			continue
		}
		fmt.Fprintln(t.out, Format(e, t.UseColor))
		printed++
	}
	t.offsets[path] = offset
	return printed, nil
}

// EditFilter applies one key press to the live filter. Printable keys are
// appended, Backspace removes the last character. It reports whether the key
// asks to quit.
func (t *Tailer) EditFilter(ch rune, key keyboard.Key) (quit bool) {
	switch key {
	case keyboard.KeyCtrlC, keyboard.KeyEsc:
		return true
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		if r := []rune(t.Filter); len(r) > 0 {
			t.Filter = string(r[:len(r)-1])
		}
	case keyboard.KeySpace:
		t.Filter += " "
	default:
		if ch != 0 {
			t.Filter += string(ch)
		}
	}
	return false
}

// Follow scans once and then again whenever a file in the folder is written,
// until ctx is done. Key presses from keys edit the filter, which applies to
// entries printed afterwards; keys may be nil.
func (t *Tailer) Follow(ctx context.Context, keys <-chan keyboard.KeyEvent) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(t.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", t.Dir, err)
	}

	if _, err := t.Scan(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if ev.Err != nil {
				return fmt.Errorf("failed to read key: %w", ev.Err)
			}
			if t.EditFilter(ev.Rune, ev.Key) {
				fmt.Fprintln(t.out)
				return nil
			}
			fmt.Fprintf(t.out, "\rCurrent filter: %s\n", t.Filter)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if _, err := t.Scan(); err != nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(t.out, "watch error: %v\n", err)
		}
	}
}
