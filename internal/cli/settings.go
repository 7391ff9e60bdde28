package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ghostvault/internal/models"
)

// Rename updates a conversation title.
func (a *App) Rename(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	title, err := GetSimpleText(a.reader, "New title:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	ok, err := a.vault.UpdateTitle(ctx, id, title)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if !ok {
		fmt.Println("No such conversation")
	}
	return nil
}

// Retention changes a conversation's retention mode.
func (a *App) Retention(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	mode, err := GetSimpleText(a.reader, "Retention (persistent/zero-trace):", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	ok, err := a.vault.SetRetentionMode(ctx, id, models.RetentionMode(mode))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if !ok {
		fmt.Println("No such conversation")
	}
	return nil
}

// Memory toggles a conversation's memory flag.
func (a *App) Memory(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	answer, err := GetSimpleText(a.reader, "Enable memory (y/n):", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	ok, err := a.vault.SetMemoryEnabled(ctx, id, answer == "y" || answer == "yes")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if !ok {
		fmt.Println("No such conversation")
	}
	return nil
}

// Task updates a conversation's task-type tag.
func (a *App) Task(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Conversation id:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	taskType, err := GetSimpleText(a.reader, "Task type:", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	ok, err := a.vault.UpdateTaskType(ctx, id, taskType)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if !ok {
		fmt.Println("No such conversation")
	}
	return nil
}

// Settings shows the current defaults and optionally updates the default
// retention mode.
func (a *App) Settings(ctx context.Context) error {
	settings, err := a.vault.GetSettings()
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Printf("Default retention: %s\nMemory enabled: %v\nTask type: %s\n",
		settings.DefaultRetention, settings.MemoryEnabled, settings.TaskType)

	mode, err := GetSimpleText(a.reader, "New default retention (empty to keep):", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if mode == "" {
		return nil
	}

	retention := models.RetentionMode(mode)
	if _, err := a.vault.SaveSettings(ctx, models.SettingsPatch{DefaultRetention: &retention}); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("Settings updated")
	return nil
}
