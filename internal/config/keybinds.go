package config

// Keybinds holds all keybinding configuration. Values are plain strings
// matching the tcell.EventKey.Name() format (e.g. "Rune[j]", "Ctrl+W", "Enter").
type Keybinds struct {
	Quit           string `toml:"quit"`
	FocusMessages  string `toml:"focus_messages"`
	FocusInput     string `toml:"focus_input"`
	ClearScope     string `toml:"clear_scope"`
	OpenRecipients string `toml:"open_recipients"`

	MessageInput    MessageInputKeybinds    `toml:"message_input"`
	MessagesList    MessagesListKeybinds    `toml:"messages_list"`
	RecipientPicker RecipientPickerKeybinds `toml:"recipient_picker"`
}

// MessageInputKeybinds holds keybindings for the message input area.
// Up, Down, TabComplete and Cancel only apply while a suggestion list is open.
type MessageInputKeybinds struct {
	Send        string `toml:"send"`
	Newline     string `toml:"newline"`
	TabComplete string `toml:"tab_complete"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Cancel      string `toml:"cancel"`
}

// MessagesListKeybinds holds keybindings for the messages list panel.
type MessagesListKeybinds struct {
	Up   string `toml:"up"`
	Down string `toml:"down"`
	Edit string `toml:"edit"`
}

// RecipientPickerKeybinds holds keybindings for the new draft picker.
type RecipientPickerKeybinds struct {
	Close   string `toml:"close"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Add     string `toml:"add"`
	Remove  string `toml:"remove"`
	Confirm string `toml:"confirm"`
}
