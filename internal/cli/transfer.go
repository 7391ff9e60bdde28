package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/ghostvault/internal/common"
	"github.com/dmitrijs2005/ghostvault/internal/services"
)

// Export writes selected conversations (or all of them) into a single
// password-protected file. The password is independent of the storage key, so
// the file opens on any device that knows it.
func (a *App) Export(ctx context.Context) error {
	ids, err := GetSimpleText(a.reader, "Conversation ids, space-separated (empty for all):", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	selected := map[string]bool{}
	for _, id := range strings.Fields(ids) {
		selected[id] = true
	}

	var convs []services.ConversationExport
	for _, s := range a.vault.ListConversations() {
		if len(selected) > 0 && !selected[s.Id] {
			continue
		}
		msgs, err := a.vault.GetMessages(ctx, s.Id)
		if err != nil {
			fmt.Println(err.Error())
			return err
		}
		conv := services.ConversationExport{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
		for _, m := range msgs {
			conv.Messages = append(conv.Messages, services.ExportMessage{
				Role:      m.Role,
				Content:   m.Content,
				Timestamp: m.CreatedAt,
			})
		}
		convs = append(convs, conv)
	}

	password, err := GetPassword(os.Stdout, "Export password: ")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	data, err := a.exporter.Export(ctx, convs, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	path, err := GetSimpleText(a.reader, "Output file:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Printf("Exported %d conversation(s) to %s\n", len(convs), path)
	return nil
}

// Import reads an export file and recreates its conversations in the local
// store. The import is all-or-nothing: a single undecryptable conversation
// aborts it, and the message deliberately does not guess whether the password
// was wrong or the file damaged.
func (a *App) Import(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Export file path:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword(os.Stdout, "Import password: ")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	result, err := a.exporter.Import(ctx, data, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	for _, conv := range result.Conversations {
		id, err := a.vault.CreateConversation(ctx, services.CreateConversationParams{Title: conv.Title})
		if err != nil {
			fmt.Println(err.Error())
			return err
		}
		for _, m := range conv.Messages {
			if _, err := a.vault.SaveMessage(ctx, id, m.Role, m.Content, nil, nil); err != nil {
				fmt.Println(err.Error())
				return err
			}
		}
	}

	fmt.Printf("Imported %d conversation(s), %d message(s)\n",
		result.Stats.TotalConversations, result.Stats.TotalMessages)
	return nil
}
