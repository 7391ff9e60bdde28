package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// Attach reads a local file and stores it encrypted under a conversation.
// Text extraction is a collaborator concern; the CLI stores raw bytes only.
func (a *App) Attach(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	path, err := GetSimpleText(a.reader, "File path:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc, err := a.vault.AttachDocument(ctx, id, filepath.Base(path), mimeType, content, int64(len(content)), "")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("Attached document", doc.Id)
	return nil
}

// Detach removes a single document. Removing an already removed document is
// reported, not an error.
func (a *App) Detach(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	docID, err := GetSimpleText(a.reader, "Document id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	removed, err := a.vault.RemoveDocument(ctx, id, docID)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if !removed {
		fmt.Println("Nothing to remove")
		return nil
	}
	fmt.Println("Removed document", docID)
	return nil
}
