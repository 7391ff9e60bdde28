package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := a.userID
	if n := a.vault.CorruptedCount(); n > 0 {
		s = fmt.Sprintf("%s, %d corrupted", s, n)
	}
	return fmt.Sprintf("(%s)", s)
}

// Root prints the banner and runs the REPL until exit or EOF.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to GhostVault CLI (type 'help' for commands)")
	if n := a.vault.CorruptedCount(); n > 0 {
		fmt.Printf("Note: %d record(s) could not be decrypted and were quarantined.\n", n)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
