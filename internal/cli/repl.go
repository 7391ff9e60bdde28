package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	New(ctx context.Context) error
	Say(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Delete(ctx context.Context) error
	Attach(ctx context.Context) error
	Detach(ctx context.Context) error
	Rename(ctx context.Context) error
	Retention(ctx context.Context) error
	Memory(ctx context.Context) error
	Task(ctx context.Context) error
	Settings(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	Stats(ctx context.Context) error
	WipeStore(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the GhostVault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, context cancellation
// checked between commands, or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ghost %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: new, say, (l)ist, show, delete, attach, detach,")
			printlnFn("  rename, retention, memory, task, settings, export, import, stats, wipe, exit")

		case "new":
			_ = a.New(ctx)

		case "say":
			_ = a.Say(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "attach":
			_ = a.Attach(ctx)

		case "detach":
			_ = a.Detach(ctx)

		case "rename":
			_ = a.Rename(ctx)

		case "retention":
			_ = a.Retention(ctx)

		case "memory":
			_ = a.Memory(ctx)

		case "task":
			_ = a.Task(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "wipe":
			_ = a.WipeStore(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
