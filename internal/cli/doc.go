// Package cli implements the interactive GhostVault command-line client:
// a small REPL over the local encrypted store with commands for creating
// conversations, appending messages, attaching documents, and moving
// conversations in and out of password-protected export files.
package cli
