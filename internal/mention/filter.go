package mention

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/m96-chan/mentio/internal/directory"
)

// PageSize is the maximum number of suggestions returned by Filter.
const PageSize = 5

// MatchMode selects how a query is compared against display names.
type MatchMode int

const (
	// MatchPrefix matches names starting with the query. Used by the
	// in-input autocomplete.
	MatchPrefix MatchMode = iota
	// MatchSubstring matches names containing the query anywhere. Used by
	// recipient pickers and search.
	MatchSubstring
	// MatchFuzzy ranks names by fuzzy match quality.
	MatchFuzzy
)

func (m MatchMode) String() string {
	switch m {
	case MatchPrefix:
		return "prefix"
	case MatchSubstring:
		return "substring"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode parses the config spelling of a match mode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prefix":
		return MatchPrefix, nil
	case "substring":
		return MatchSubstring, nil
	case "fuzzy":
		return MatchFuzzy, nil
	}
	return MatchPrefix, fmt.Errorf("unknown match mode %q", s)
}

// ScopeMode identifies the conversation the user is composing in.
type ScopeMode int

const (
	ScopeNone ScopeMode = iota
	ScopePrivateDraft
	ScopeGroup
)

// Scope narrows the entities eligible for suggestions.
type Scope struct {
	Mode      ScopeMode
	PartnerID string // set for ScopePrivateDraft
	GroupID   string // set for ScopeGroup
}

// PrivateDraft scopes suggestions to a new private message with partnerID.
func PrivateDraft(partnerID string) Scope {
	return Scope{Mode: ScopePrivateDraft, PartnerID: partnerID}
}

// InGroup scopes suggestions to an existing group conversation.
func InGroup(groupID string) Scope {
	return Scope{Mode: ScopeGroup, GroupID: groupID}
}

// Options controls candidate selection.
type Options struct {
	Mode  MatchMode
	Scope Scope
	// Self is the local user. Never suggested as a user, and required to be a
	// member of suggested groups in a private draft.
	Self string
	// Exclude lists IDs already picked, e.g. in a multi-recipient picker.
	Exclude []string
	// Limit caps the result. Zero or anything above PageSize means PageSize
	// for Filter; for Search zero means unlimited.
	Limit int
}

// Filter returns up to PageSize entities of the given kind whose display
// name matches query. Prefix and substring results keep directory order;
// fuzzy results are ordered by match quality. A blank query matches nothing.
//
// Scope rules: inside a group only that group's participants are suggested
// as users; in a private draft only groups containing both Self and the
// partner are suggested.
func Filter(kind directory.Kind, query string, dir *directory.Directory, opts Options) []directory.Entity {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	limit := opts.Limit
	if limit <= 0 || limit > PageSize {
		limit = PageSize
	}

	pool := eligible(kind, dir, opts)
	q := strings.ToLower(query)

	if opts.Mode == MatchFuzzy {
		return fuzzyMatch(q, pool, limit)
	}

	match := strings.HasPrefix
	if opts.Mode == MatchSubstring {
		match = strings.Contains
	}

	out := make([]directory.Entity, 0, limit)
	for _, e := range pool {
		if !match(strings.ToLower(e.DisplayName), q) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Search is the standalone user/group listing: substring match, sorted
// alphabetically by display name. A blank query lists every eligible entity.
// Scope and exclusions apply as in Filter; opts.Mode is ignored.
func Search(kind directory.Kind, query string, dir *directory.Directory, opts Options) []directory.Entity {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []directory.Entity
	for _, e := range eligible(kind, dir, opts) {
		if q == "" || strings.Contains(strings.ToLower(e.DisplayName), q) {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, func(a, b directory.Entity) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)),
			cmp.Compare(a.ID, b.ID),
		)
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func fuzzyMatch(q string, pool []directory.Entity, limit int) []directory.Entity {
	targets := make([]string, len(pool))
	for i, e := range pool {
		targets[i] = strings.ToLower(e.DisplayName)
	}

	matches := fuzzy.Find(q, targets)

	count := min(len(matches), limit)
	out := make([]directory.Entity, count)
	for i := 0; i < count; i++ {
		out[i] = pool[matches[i].Index]
	}
	return out
}

// eligible returns the entities of kind that survive scope and exclusions,
// in directory order.
func eligible(kind directory.Kind, dir *directory.Directory, opts Options) []directory.Entity {
	excluded := make(map[string]bool, len(opts.Exclude)+1)
	for _, id := range opts.Exclude {
		excluded[id] = true
	}
	if kind == directory.KindUser && opts.Self != "" {
		excluded[opts.Self] = true
	}

	var allowed func(directory.Entity) bool
	switch {
	case opts.Scope.Mode == ScopeGroup && kind == directory.KindUser:
		g, ok := dir.Group(opts.Scope.GroupID)
		if !ok {
			return nil
		}
		members := make(map[string]bool, len(g.Participants))
		for _, id := range g.Participants {
			members[id] = true
		}
		allowed = func(e directory.Entity) bool { return members[e.ID] }

	case opts.Scope.Mode == ScopePrivateDraft && kind == directory.KindGroup:
		partner := opts.Scope.PartnerID
		allowed = func(e directory.Entity) bool {
			if !e.HasParticipant(partner) {
				return false
			}
			return opts.Self == "" || e.HasParticipant(opts.Self)
		}
	}

	all := dir.Entities(kind)
	out := make([]directory.Entity, 0, len(all))
	for _, e := range all {
		if excluded[e.ID] {
			continue
		}
		if allowed != nil && !allowed(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}
