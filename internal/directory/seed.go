package directory

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Seed is the on-disk TOML form of a directory:
//
//	self = "u1"
//
//	[[users]]
//	id = "u1"
//	name = "Anna Muster"
//
//	[[groups]]
//	id = "g1"
//	name = "Dev Team"
//	members = ["u1", "u2"]
type Seed struct {
	Self   string      `toml:"self"`
	Users  []seedEntry `toml:"users"`
	Groups []seedEntry `toml:"groups"`
}

type seedEntry struct {
	ID      string   `toml:"id"`
	Name    string   `toml:"name"`
	Members []string `toml:"members"`
}

// LoadFile reads a TOML seed file.
func LoadFile(path string) (*Seed, error) {
	var s Seed
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("parsing directory seed %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("directory seed %s: unknown key %q", path, undecoded[0].String())
	}
	for i, u := range s.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("directory seed %s: users[%d] has no id", path, i)
		}
	}
	for i, g := range s.Groups {
		if g.ID == "" {
			return nil, fmt.Errorf("directory seed %s: groups[%d] has no id", path, i)
		}
	}
	return &s, nil
}

// Entities converts the seed into user and group entities.
func (s *Seed) Entities() (users, groups []Entity) {
	users = make([]Entity, len(s.Users))
	for i, u := range s.Users {
		users[i] = Entity{ID: u.ID, DisplayName: u.Name, Kind: KindUser}
	}
	groups = make([]Entity, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = Entity{ID: g.ID, DisplayName: g.Name, Kind: KindGroup, Participants: g.Members}
	}
	return users, groups
}
