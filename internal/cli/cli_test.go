package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mindnoscape/canvas-app/internal/session"
	"mindnoscape/canvas-app/internal/storage"
	"mindnoscape/canvas-app/internal/tree"
)

type nopClipboard struct{ text string }

func (c *nopClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	s, err := session.New(session.Options{Clipboard: &nopClipboard{}})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return NewCLI(s, nil, &out, false, nil), &out
}

func run(t *testing.T, c *CLI, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if err := c.ExecuteCommand(c.ParseArgs(line)); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		c.UpdatePrompt()
	}
}

func TestParseArgs(t *testing.T) {
	c := &CLI{}
	tests := []struct {
		input string
		want  []string
	}{
		{"node add A", []string{"node", "add", "A"}},
		{`node add "Sub Topic"`, []string{"node", "add", "Sub Topic"}},
		{"  map   view\t--id ", []string{"map", "view", "--id"}},
		{`node edit ""`, []string{"node", "edit", ""}},
		{`node find "a  b"c`, []string{"node", "find", "a  bc"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := c.ParseArgs(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("ParseArgs(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNodeCommands(t *testing.T) {
	c, out := newTestCLI(t)
	run(t, c, "pointer click 400 300", "pointer release", "node add A", `node add "Sub Topic"`)

	if !strings.Contains(out.String(), "Node [2] added at (550, 300).") {
		t.Fatalf("output:\n%s", out.String())
	}
	if got := c.Session.Tree().Len(); got != 3 {
		t.Fatalf("tree has %d nodes", got)
	}

	out.Reset()
	run(t, c, "node find idea --id")
	if want := "Found 1 matches:\n(400, 300) Central Idea [1]\n"; out.String() != want {
		t.Fatalf("find output %q, want %q", out.String(), want)
	}

	out.Reset()
	run(t, c, "map view --id")
	want := "● Central Idea [1] <\n├── ● A [2]\n└── ● Sub Topic [3]\n"
	if out.String() != want {
		t.Fatalf("view output %q, want %q", out.String(), want)
	}

	run(t, c, "node select 2", "node delete")
	if c.Session.Tree().Node(2) != nil {
		t.Fatal("node 2 not deleted")
	}
	run(t, c, "undo")
	if c.Session.Tree().Len() != 3 {
		t.Fatal("undo did not restore the node")
	}
	run(t, c, "node redo")
	if c.Session.Tree().Len() != 2 {
		t.Fatal("redo did not delete the node")
	}

	run(t, c, "node select 1", "node color orange", `node edit "Main Goal"`)
	root := c.Session.Tree().Root()
	if root.Text != "Main Goal" || root.Color != "orange" {
		t.Fatalf("root = %q %q", root.Text, root.Color)
	}
	if !strings.Contains(c.Prompt, "Main Goal") || !strings.Contains(c.Prompt, "*") {
		t.Errorf("prompt = %q", c.Prompt)
	}
}

func TestCommandErrors(t *testing.T) {
	c, _ := newTestCLI(t)
	tests := []struct {
		line    string
		invalid bool
	}{
		{"node add A", true},
		{"node select 99", true},
		{"node select x", true},
		{"node delete", true},
		{"bogus", false},
		{"node bogus", false},
		{"pointer click 1", false},
		{"pointer click a b", false},
		{"map export out.txt", true},
		{"map recent 3", true},
		{"library list", false},
		{"help nothing", false},
	}
	for _, tt := range tests {
		err := c.ExecuteCommand(c.ParseArgs(tt.line))
		if err == nil {
			t.Errorf("%s: expected an error", tt.line)
			continue
		}
		if got := errors.Is(err, tree.ErrInvalidOperation); got != tt.invalid {
			t.Errorf("%s: invalid operation = %v (%v)", tt.line, got, err)
		}
	}

	c.Session.Select(1)
	if err := c.ExecuteCommand(c.ParseArgs("node add")); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("node add without text = %v", err)
	}
}

func TestReport(t *testing.T) {
	c, out := newTestCLI(t)
	c.Report(session.ErrNoSelection)
	c.Report(errors.New("disk on fire"))
	c.Report(nil)
	want := "? invalid operation: no node selected\n! disk on fire\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestPointerCommands(t *testing.T) {
	c, out := newTestCLI(t)
	run(t, c, "pointer click 400 300", "pointer drag 420 310", "pointer drag 430 330", "pointer release")
	root := c.Session.Tree().Root()
	if root.X != 430 || root.Y != 330 {
		t.Fatalf("root at (%g, %g)", root.X, root.Y)
	}
	if !strings.Contains(out.String(), "Moved [1] to (430, 330).") {
		t.Fatalf("output:\n%s", out.String())
	}

	run(t, c, "pointer dclick 100 100 Child")
	if got := c.Session.Tree().Len(); got != 2 {
		t.Fatalf("double click on canvas: %d nodes", got)
	}
	run(t, c, `pointer dclick 430 330 "New Title"`)
	if root.Text != "New Title" {
		t.Fatalf("double click on node: root = %q", root.Text)
	}
}

func TestMapCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ideas.json")
	c, out := newTestCLI(t)
	run(t, c, "node select 1", "node add A", "map save "+path)
	if c.Session.CurrentFile() != path || c.Session.Modified() {
		t.Fatalf("after save: %q %v", c.Session.CurrentFile(), c.Session.Modified())
	}
	if !strings.HasPrefix(c.Prompt, "ideas.json ") {
		t.Errorf("prompt = %q", c.Prompt)
	}

	run(t, c, "map new")
	if c.Session.Tree().Len() != 1 {
		t.Fatal("map new kept nodes")
	}
	out.Reset()
	run(t, c, "map recent")
	if want := "Recent files:\n1 " + path + "\n"; out.String() != want {
		t.Fatalf("recent output %q, want %q", out.String(), want)
	}
	run(t, c, "map recent 1")
	if c.Session.Tree().Len() != 2 {
		t.Fatal("recent entry not loaded")
	}

	run(t, c, "map export "+filepath.Join(dir, "ideas.svg"))
	if _, err := os.Stat(filepath.Join(dir, "ideas.svg")); err != nil {
		t.Fatal(err)
	}
	run(t, c, "map reload", "map info")
}

func TestExecuteScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "build.txt")
	content := "# build a small map\n\nnode select 1\nnode add A\nnode add B\n\nnode select 2\nnode add A1\n"
	if err := os.WriteFile(script, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, _ := newTestCLI(t)
	if err := c.ExecuteScript(script); err != nil {
		t.Fatal(err)
	}
	if got := c.Session.Tree().Outline(nil); got != "Central Idea\n  A\n    A1\n  B\n" {
		t.Fatalf("outline %q", got)
	}

	bad := filepath.Join(dir, "bad.txt")
	os.WriteFile(bad, []byte("node select 1\nnode select 42\n"), 0644)
	err := c.ExecuteScript(bad)
	if err == nil || !strings.Contains(err.Error(), "bad.txt:2:") || !errors.Is(err, tree.ErrInvalidOperation) {
		t.Fatalf("error = %v", err)
	}

	if err := c.ExecuteScript(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("missing script did not fail")
	}
}

func TestExit(t *testing.T) {
	c, out := newTestCLI(t)
	if err := c.ExecuteCommand([]string{"exit"}); !errors.Is(err, io.EOF) {
		t.Fatalf("exit of a clean document = %v", err)
	}

	run(t, c, "node select 1", "node add A")
	out.Reset()
	if err := c.ExecuteCommand([]string{"quit"}); err != nil {
		t.Fatalf("exit with changes = %v", err)
	}
	if !strings.Contains(out.String(), "unsaved changes") {
		t.Fatalf("output %q", out.String())
	}
	if err := c.ExecuteCommand([]string{"system", "exit", "--force"}); !errors.Is(err, io.EOF) {
		t.Fatalf("forced exit = %v", err)
	}
}

func TestHelp(t *testing.T) {
	c, out := newTestCLI(t)
	run(t, c, "help node add")
	if !strings.Contains(out.String(), "Syntax: node add [text]") {
		t.Fatalf("help output:\n%s", out.String())
	}
	out.Reset()
	run(t, c, "help")
	for _, scope := range []string{"node:", "pointer:", "map:", "library:", "system:"} {
		if !strings.Contains(out.String(), "\n"+scope+"\n") {
			t.Errorf("general help lacks %s", scope)
		}
	}
	if err := c.ExecuteCommand([]string{"help", "node", "fly"}); err == nil {
		t.Error("help for an unknown operation did not fail")
	}
}

func TestCompleter(t *testing.T) {
	c, _ := newTestCLI(t)
	var names []string
	for _, child := range c.Completer().GetChildren() {
		names = append(names, strings.TrimSpace(string(child.GetName())))
	}
	want := "node|pointer|map|library|system|help|undo|redo|exit"
	if got := strings.Join(names, "|"); got != want {
		t.Fatalf("completer scopes %s, want %s", got, want)
	}
}

func TestLibraryStoreReportsReplace(t *testing.T) {
	st, err := storage.NewSQLiteStore(t.TempDir(), "test.db")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	s, err := session.New(session.Options{Store: st, Clipboard: &nopClipboard{}})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	c := NewCLI(s, nil, &out, false, nil)

	run(t, c, "library store plan")
	if !strings.Contains(out.String(), "Stored 'plan' (1 nodes).") {
		t.Fatalf("output = %q", out.String())
	}
	out.Reset()
	run(t, c, "library store plan")
	if !strings.Contains(out.String(), "Replaced 'plan' (1 nodes).") {
		t.Fatalf("output = %q", out.String())
	}
}
