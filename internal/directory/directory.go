package directory

import "strings"

// Directory is an immutable snapshot of mentionable entities. The zero value
// and nil are both valid empty directories.
type Directory struct {
	users  []Entity
	groups []Entity

	userByID  map[string]int
	groupByID map[string]int

	userByName  map[string]int // lowercased display name → first index
	groupByName map[string]int
}

// New builds a snapshot from the given users and groups. Kinds are forced to
// match the slice they came from, entities without an ID are dropped, and
// later duplicates of an ID are ignored. Input order is preserved.
func New(users, groups []Entity) *Directory {
	d := &Directory{
		userByID:    make(map[string]int, len(users)),
		groupByID:   make(map[string]int, len(groups)),
		userByName:  make(map[string]int, len(users)),
		groupByName: make(map[string]int, len(groups)),
	}
	d.users = index(users, KindUser, d.userByID, d.userByName)
	d.groups = index(groups, KindGroup, d.groupByID, d.groupByName)
	return d
}

func index(in []Entity, kind Kind, byID, byName map[string]int) []Entity {
	out := make([]Entity, 0, len(in))
	for _, e := range in {
		if e.ID == "" {
			continue
		}
		if _, dup := byID[e.ID]; dup {
			continue
		}
		e.Kind = kind
		if kind == KindUser {
			e.Participants = nil
		} else {
			e.Participants = append([]string(nil), e.Participants...)
		}
		byID[e.ID] = len(out)
		name := strings.ToLower(e.DisplayName)
		if _, ok := byName[name]; !ok && name != "" {
			byName[name] = len(out)
		}
		out = append(out, e)
	}
	return out
}

// Users returns all users in snapshot order. The slice must not be modified.
func (d *Directory) Users() []Entity {
	if d == nil {
		return nil
	}
	return d.users
}

// Groups returns all groups in snapshot order. The slice must not be modified.
func (d *Directory) Groups() []Entity {
	if d == nil {
		return nil
	}
	return d.groups
}

// Entities returns the entities of the given kind.
func (d *Directory) Entities(kind Kind) []Entity {
	if kind == KindGroup {
		return d.Groups()
	}
	return d.Users()
}

// User looks up a user by ID.
func (d *Directory) User(id string) (Entity, bool) {
	if d == nil {
		return Entity{}, false
	}
	i, ok := d.userByID[id]
	if !ok {
		return Entity{}, false
	}
	return d.users[i], true
}

// Group looks up a group by ID.
func (d *Directory) Group(id string) (Entity, bool) {
	if d == nil {
		return Entity{}, false
	}
	i, ok := d.groupByID[id]
	if !ok {
		return Entity{}, false
	}
	return d.groups[i], true
}

// Lookup resolves an ID against users first, then groups.
func (d *Directory) Lookup(id string) (Entity, bool) {
	if e, ok := d.User(id); ok {
		return e, true
	}
	return d.Group(id)
}

// FindByName resolves a display name case-insensitively. When several
// entities share a name the first in snapshot order wins.
func (d *Directory) FindByName(kind Kind, name string) (Entity, bool) {
	if d == nil {
		return Entity{}, false
	}
	byName, list := d.userByName, d.users
	if kind == KindGroup {
		byName, list = d.groupByName, d.groups
	}
	i, ok := byName[strings.ToLower(name)]
	if !ok {
		return Entity{}, false
	}
	return list[i], true
}

// Len returns the total number of users and groups.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.users) + len(d.groups)
}
