// Package directory holds the snapshot of users and groups that mentions can
// refer to. A Directory is immutable once built; live updates replace the
// whole snapshot.
package directory

import "slices"

// Kind distinguishes users from groups.
type Kind int

const (
	KindUser Kind = iota
	KindGroup
)

// String returns the name used in rendered markup attributes.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Trigger returns the character that starts a mention of this kind.
func (k Kind) Trigger() byte {
	if k == KindGroup {
		return '#'
	}
	return '@'
}

// Entity is a user or group that can be mentioned.
type Entity struct {
	ID          string
	DisplayName string
	Kind        Kind
	// Participants lists member user IDs. Only set for groups.
	Participants []string
}

// Token returns the literal mention text, e.g. "@Anna Muster" or "#Dev Team".
func (e Entity) Token() string {
	return string(e.Kind.Trigger()) + e.DisplayName
}

// HasParticipant reports whether userID is a member of the group.
func (e Entity) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}
