package cli

import (
	"context"
	"fmt"
	"os"
)

// Stats prints store totals including the quarantine count.
func (a *App) Stats(ctx context.Context) error {
	s, err := a.vault.Stats()
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Printf("Conversations: %d\nMessages: %d\nDocuments: %d\nCorrupted: %d\n",
		s.Conversations, s.Messages, s.Documents, s.Corrupted)
	return nil
}

// WipeStore irreversibly destroys all records of the current user after an
// explicit confirmation. The vault returns to uninitialized; subsequent
// commands fail until the program is restarted.
func (a *App) WipeStore(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "This destroys ALL local data for this user. Type 'wipe' to confirm:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if answer != "wipe" {
		fmt.Println("Aborted")
		return nil
	}

	if err := a.vault.Wipe(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("All local data destroyed")
	return nil
}
