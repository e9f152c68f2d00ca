package chat

import "strings"

// SlashCommand defines a slash command with its metadata.
type SlashCommand struct {
	Name        string // e.g. "help"
	Description string // e.g. "Show available commands"
	Usage       string // e.g. "/help"
}

// builtinCommands is the list of supported slash commands.
var builtinCommands = []SlashCommand{
	{Name: "help", Description: "Show available commands", Usage: "/help"},
	{Name: "dm", Description: "Draft privately to a person", Usage: "/dm [name]"},
	{Name: "group", Description: "Write inside a group", Usage: "/group <name>"},
	{Name: "scope", Description: "Clear the draft scope", Usage: "/scope"},
	{Name: "edit", Description: "Edit your last message", Usage: "/edit <text>"},
	{Name: "who", Description: "Search people", Usage: "/who [query]"},
	{Name: "groups", Description: "Search groups", Usage: "/groups [query]"},
	{Name: "set", Description: "Change a display option", Usage: "/set [option] [on|off]"},
	{Name: "logout", Description: "Forget stored Slack tokens", Usage: "/logout"},
}

// BuiltinCommands returns the list of builtin slash commands.
func BuiltinCommands() []SlashCommand {
	return builtinCommands
}

// BuiltinCommandEntries returns command entries for the autocomplete system.
func BuiltinCommandEntries() []commandEntry {
	entries := make([]commandEntry, len(builtinCommands))
	for i, cmd := range builtinCommands {
		entries[i] = commandEntry{
			name:        "/" + cmd.Name,
			description: cmd.Description,
			searchText:  strings.ToLower(cmd.Name),
			insertText:  "/" + cmd.Name + " ",
		}
	}
	return entries
}

// HelpText lists the builtin commands, one usage per line.
func HelpText() string {
	var b strings.Builder
	for i, cmd := range builtinCommands {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(cmd.Usage)
		b.WriteString("  ")
		b.WriteString(cmd.Description)
	}
	return b.String()
}

// ParseSlashCommand parses a slash command string into command name and args.
// Returns ("", "") if the text is not a slash command.
func ParseSlashCommand(text string) (command, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	text = text[1:] // strip leading /
	parts := strings.SplitN(text, " ", 2)
	command = strings.ToLower(parts[0])
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return command, args
}

// commandPrefix reports whether text is a slash command still being named,
// returning the partial name after the slash.
func commandPrefix(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	prefix := text[1:]
	if strings.ContainsAny(prefix, " \t\n") {
		return "", false
	}
	return prefix, true
}
