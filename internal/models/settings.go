package models

// Settings is the single per-user settings record, persisted encrypted
// alongside conversations.
type Settings struct {
	DefaultRetention RetentionMode `json:"defaultRetention"`
	MemoryEnabled    bool          `json:"memoryEnabled"`
	TaskType         string        `json:"taskType"`
}

// DefaultSettings returns the record created on first store initialization.
func DefaultSettings() Settings {
	return Settings{
		DefaultRetention: RetentionPersistent,
		MemoryEnabled:    true,
		TaskType:         "chat",
	}
}

// SettingsPatch is a merge-write update: nil fields leave the current value
// unchanged.
type SettingsPatch struct {
	DefaultRetention *RetentionMode `json:"defaultRetention,omitempty"`
	MemoryEnabled    *bool          `json:"memoryEnabled,omitempty"`
	TaskType         *string        `json:"taskType,omitempty"`
}

// Apply merges p into s and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DefaultRetention != nil {
		s.DefaultRetention = *p.DefaultRetention
	}
	if p.MemoryEnabled != nil {
		s.MemoryEnabled = *p.MemoryEnabled
	}
	if p.TaskType != nil {
		s.TaskType = *p.TaskType
	}
	return s
}
