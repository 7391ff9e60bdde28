package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ghostvault/internal/models"
	"github.com/dmitrijs2005/ghostvault/internal/services"
)

// New creates a conversation. Retention and the other knobs come from the
// settings record unless the user overrides retention here.
func (a *App) New(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	mode, err := GetSimpleText(a.reader, "Retention (persistent/zero-trace, empty for default):", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	params := services.CreateConversationParams{Title: title}
	if mode != "" {
		retention := models.RetentionMode(mode)
		params.Retention = &retention
	}

	id, err := a.vault.CreateConversation(ctx, params)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("Created conversation", id)
	return nil
}

// Say appends a user message to a conversation.
func (a *App) Say(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	content, err := GetMultiline(a.reader, "Enter message:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	msg, err := a.vault.SaveMessage(ctx, id, models.RoleUser, content, nil, nil)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Printf("Saved message #%d\n", msg.Seq)
	return nil
}

// List prints conversation summaries, newest first.
func (a *App) List(ctx context.Context) error {
	for _, s := range a.vault.ListConversations() {
		fmt.Printf("%s  %-30s  %-10s  msgs:%d docs:%d  %s\n",
			s.Id, s.Title, s.Retention, s.MessageCount, s.DocumentCount,
			s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Show prints a conversation's full message log and attached documents.
func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	msgs, err := a.vault.GetMessages(ctx, id)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	for _, m := range msgs {
		fmt.Printf("[%d] %s: %s\n", m.Seq, m.Role, m.Content)
	}

	docs, err := a.vault.GetDocuments(ctx, id)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	for _, d := range docs {
		fmt.Printf("  doc %s  %s (%s, %d bytes)\n", d.Id, d.Filename, d.MimeType, d.Size)
	}
	return nil
}

// Delete removes a conversation with all its messages and documents.
func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	deleted, err := a.vault.DeleteConversation(ctx, id)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if !deleted {
		fmt.Println("Nothing to delete")
		return nil
	}
	fmt.Println("Deleted", id)
	return nil
}
