package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	calls []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) New(ctx context.Context) error       { return s.record("new") }
func (s *stubExec) Say(ctx context.Context) error       { return s.record("say") }
func (s *stubExec) List(ctx context.Context) error      { return s.record("list") }
func (s *stubExec) Show(ctx context.Context) error      { return s.record("show") }
func (s *stubExec) Delete(ctx context.Context) error    { return s.record("delete") }
func (s *stubExec) Attach(ctx context.Context) error    { return s.record("attach") }
func (s *stubExec) Detach(ctx context.Context) error    { return s.record("detach") }
func (s *stubExec) Rename(ctx context.Context) error    { return s.record("rename") }
func (s *stubExec) Retention(ctx context.Context) error { return s.record("retention") }
func (s *stubExec) Memory(ctx context.Context) error    { return s.record("memory") }
func (s *stubExec) Task(ctx context.Context) error      { return s.record("task") }
func (s *stubExec) Settings(ctx context.Context) error  { return s.record("settings") }
func (s *stubExec) Export(ctx context.Context) error    { return s.record("export") }
func (s *stubExec) Import(ctx context.Context) error    { return s.record("import") }
func (s *stubExec) Stats(ctx context.Context) error     { return s.record("stats") }
func (s *stubExec) WipeStore(ctx context.Context) error { return s.record("wipe") }

func runWithInput(t *testing.T, input string) (*stubExec, []string) {
	t.Helper()

	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		for _, x := range a {
			if s, ok := x.(string); ok {
				printed = append(printed, s)
			}
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	stub := &stubExec{}
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), stub, func() string { return "(test)" }, scanner)
	return stub, printed
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	stub, _ := runWithInput(t, "new\nsay\nl\nlist\nstats\nexit\n")
	assert.Equal(t, []string{"new", "say", "list", "list", "stats"}, stub.calls)
}

func TestRunREPL_UnknownCommand(t *testing.T) {
	stub, printed := runWithInput(t, "frobnicate\nquit\n")
	assert.Empty(t, stub.calls)
	assert.Contains(t, printed, "Unknown command:")
}

func TestRunREPL_BlankLinesIgnored(t *testing.T) {
	stub, _ := runWithInput(t, "\n   \nlist\nexit\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	stub, _ := runWithInput(t, "list\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestRunREPL_ExitsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubExec{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return 0, nil }
	defer func() { printlnFn = orig }()

	scanner := bufio.NewScanner(strings.NewReader("list\nlist\n"))
	runREPL(ctx, stub, func() string { return "" }, scanner)
	assert.Empty(t, stub.calls)
}
