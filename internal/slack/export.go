package slack

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/slack-go/slack"

	"github.com/m96-chan/mentio/internal/directory"
)

// Files of a Slack workspace export. Only users.json is required; groups.json
// (private channels) and mpims.json (group DMs) are present in exports made
// by workspace owners.
const (
	usersFile    = "users.json"
	channelsFile = "channels.json"
	groupsFile   = "groups.json"
	mpimsFile    = "mpims.json"
)

// LoadExport reads the users and conversations of an unpacked Slack
// workspace export.
func LoadExport(dir string) (users, groups []directory.Entity, err error) {
	var su []slack.User
	if err := readJSON(filepath.Join(dir, usersFile), &su); err != nil {
		return nil, nil, err
	}

	var channels []slack.Channel
	for _, name := range []string{channelsFile, groupsFile, mpimsFile} {
		var page []slack.Channel
		err := readJSON(filepath.Join(dir, name), &page)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("export file missing, skipping", "file", name)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		channels = append(channels, page...)
	}

	users, groups = Convert(su, channels)
	slog.Info("loaded slack export", "dir", dir, "users", len(users), "groups", len(groups))
	return users, groups, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
