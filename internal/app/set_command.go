package app

import (
	"fmt"
	"strings"

	"github.com/m96-chan/mentio/internal/config"
)

// RuntimeOption is a boolean setting that /set can change while running.
type RuntimeOption struct {
	Name string
	Get  func(*config.Config) bool
	Set  func(*config.Config, bool)
}

// runtimeOptions is the registry of all runtime-settable options.
var runtimeOptions = []RuntimeOption{
	{
		Name: "mouse",
		Get:  func(c *config.Config) bool { return c.Mouse },
		Set:  func(c *config.Config, v bool) { c.Mouse = v },
	},
	{
		Name: "timestamps",
		Get:  func(c *config.Config) bool { return c.Timestamps.Enabled },
		Set:  func(c *config.Config, v bool) { c.Timestamps.Enabled = v },
	},
	{
		Name: "markdown",
		Get:  func(c *config.Config) bool { return c.Markdown.Enabled },
		Set:  func(c *config.Config, v bool) { c.Markdown.Enabled = v },
	},
}

func findOption(name string) (*RuntimeOption, bool) {
	for i := range runtimeOptions {
		if runtimeOptions[i].Name == name {
			return &runtimeOptions[i], true
		}
	}
	return nil, false
}

func boolString(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// ParseBoolValue parses on/off, true/false or yes/no, case-insensitively.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q: use on/off, true/false, or yes/no", s)
	}
}

// RunSetCommand executes the arguments of /set against cfg and returns the
// feedback line. Forms:
//
//	/set                 list every option
//	/set name            toggle
//	/set name?           show the value
//	/set name value      assign (also name=value)
func RunSetCommand(cfg *config.Config, args string) (string, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return ListRuntimeOptions(cfg), nil
	}

	if name, ok := strings.CutSuffix(args, "?"); ok {
		opt, err := lookupOption(strings.TrimSpace(name))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", opt.Name, boolString(opt.Get(cfg))), nil
	}

	var name, value string
	if before, after, ok := strings.Cut(args, "="); ok {
		name, value = strings.TrimSpace(before), strings.TrimSpace(after)
	} else {
		switch parts := strings.Fields(args); len(parts) {
		case 1:
			name = parts[0]
		case 2:
			name, value = parts[0], parts[1]
		default:
			return "", fmt.Errorf("invalid syntax: %q", args)
		}
	}

	opt, err := lookupOption(name)
	if err != nil {
		return "", err
	}

	newVal := !opt.Get(cfg)
	if value != "" {
		if newVal, err = ParseBoolValue(value); err != nil {
			return "", err
		}
	}

	opt.Set(cfg, newVal)
	return fmt.Sprintf("%s = %s", opt.Name, boolString(newVal)), nil
}

func lookupOption(name string) (*RuntimeOption, error) {
	opt, ok := findOption(name)
	if !ok {
		return nil, fmt.Errorf("unknown option %q (available: %s)", name, strings.Join(RuntimeOptionNames(), ", "))
	}
	return opt, nil
}

// ListRuntimeOptions returns every option and its value, one per line.
func ListRuntimeOptions(cfg *config.Config) string {
	lines := make([]string, len(runtimeOptions))
	for i, opt := range runtimeOptions {
		lines[i] = fmt.Sprintf("%s = %s", opt.Name, boolString(opt.Get(cfg)))
	}
	return strings.Join(lines, "\n")
}

// RuntimeOptionNames returns the names of all runtime-settable options.
func RuntimeOptionNames() []string {
	names := make([]string, len(runtimeOptions))
	for i, opt := range runtimeOptions {
		names[i] = opt.Name
	}
	return names
}
