// Package slack turns Slack workspaces and workspace exports into mention
// directory entities.
package slack

import (
	"strings"

	"github.com/slack-go/slack"

	"github.com/m96-chan/mentio/internal/directory"
)

// slackbotID is the built-in bot user present in every workspace.
const slackbotID = "USLACKBOT"

// DisplayName returns the name a user is mentioned by: the profile display
// name, then the real name, then the handle, then the ID.
func DisplayName(u slack.User) string {
	for _, name := range []string{u.Profile.DisplayName, u.RealName, u.Profile.RealName, u.Name} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return u.ID
}

// Convert maps Slack users and conversations to directory entities.
// Deleted users, bots and archived or direct-message conversations are
// skipped.
func Convert(users []slack.User, channels []slack.Channel) (us, gs []directory.Entity) {
	us = make([]directory.Entity, 0, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot || u.ID == slackbotID {
			continue
		}
		us = append(us, directory.Entity{
			ID:          u.ID,
			DisplayName: DisplayName(u),
			Kind:        directory.KindUser,
		})
	}

	gs = make([]directory.Entity, 0, len(channels))
	for _, ch := range channels {
		if ch.IsArchived || ch.IsIM || ch.Name == "" {
			continue
		}
		gs = append(gs, directory.Entity{
			ID:           ch.ID,
			DisplayName:  ch.Name,
			Kind:         directory.KindGroup,
			Participants: append([]string(nil), ch.Members...),
		})
	}

	return us, gs
}
