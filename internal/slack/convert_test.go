package slack

import (
	"testing"

	"github.com/slack-go/slack"

	"github.com/m96-chan/mentio/internal/directory"
)

func channel(id, name string, members ...string) slack.Channel {
	var ch slack.Channel
	ch.ID = id
	ch.Name = name
	ch.Members = members
	return ch
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user slack.User
		want string
	}{
		{"display name", slack.User{ID: "U1", Name: "anna", RealName: "Anna Muster", Profile: slack.UserProfile{DisplayName: "Anna"}}, "Anna"},
		{"real name", slack.User{ID: "U1", Name: "anna", RealName: "Anna Muster"}, "Anna Muster"},
		{"profile real name", slack.User{ID: "U1", Name: "anna", Profile: slack.UserProfile{RealName: "Anna P"}}, "Anna P"},
		{"handle", slack.User{ID: "U1", Name: "anna"}, "anna"},
		{"blank display name", slack.User{ID: "U1", Name: "anna", Profile: slack.UserProfile{DisplayName: "  "}}, "anna"},
		{"id", slack.User{ID: "U1"}, "U1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.user); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	users := []slack.User{
		{ID: "U1", Name: "anna", RealName: "Anna Muster"},
		{ID: "U2", Name: "gone", Deleted: true},
		{ID: "U3", Name: "deploybot", IsBot: true},
		{ID: slackbotID, Name: "slackbot"},
		{ID: "U4", Name: "max"},
	}

	archived := channel("C3", "old", "U1")
	archived.IsArchived = true
	im := channel("D1", "", "U1", "U4")
	im.IsIM = true

	channels := []slack.Channel{
		channel("C1", "dev-team", "U1", "U4"),
		archived,
		im,
		channel("G1", "secret"),
	}

	us, gs := Convert(users, channels)

	wantUsers := []directory.Entity{
		{ID: "U1", DisplayName: "Anna Muster", Kind: directory.KindUser},
		{ID: "U4", DisplayName: "max", Kind: directory.KindUser},
	}
	if len(us) != len(wantUsers) {
		t.Fatalf("users: got %d, want %d: %+v", len(us), len(wantUsers), us)
	}
	for i, want := range wantUsers {
		if us[i].ID != want.ID || us[i].DisplayName != want.DisplayName || us[i].Kind != want.Kind {
			t.Errorf("user %d: got %+v, want %+v", i, us[i], want)
		}
	}

	if len(gs) != 2 {
		t.Fatalf("groups: got %d, want 2: %+v", len(gs), gs)
	}
	if gs[0].ID != "C1" || gs[0].DisplayName != "dev-team" || gs[0].Kind != directory.KindGroup {
		t.Errorf("group 0: got %+v", gs[0])
	}
	if !gs[0].HasParticipant("U4") || gs[0].HasParticipant("U2") {
		t.Errorf("group 0 participants: got %v", gs[0].Participants)
	}
	if gs[1].ID != "G1" || len(gs[1].Participants) != 0 {
		t.Errorf("group 1: got %+v", gs[1])
	}

	channels[0].Members[0] = "changed"
	if gs[0].Participants[0] != "U1" {
		t.Error("Convert must copy member lists")
	}
}
