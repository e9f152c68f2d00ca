package mention

import "github.com/m96-chan/mentio/internal/directory"

// Buffer is the text of an input widget and its cursor byte offset.
type Buffer struct {
	Text   string
	Cursor int
}

// Result reports what HandleKey did.
type Result struct {
	// Handled is false when the key belongs to the host (e.g. Enter sends
	// the message because no list is open).
	Handled bool
	// Inserted is set when a suggestion was committed; Insertion holds the
	// new buffer and Entity the chosen entity.
	Inserted  bool
	Insertion Insertion
	Entity    directory.Entity
}

// Composer drives mention autocompletion for one input. It keeps a user
// list and a group list, at most one of which is open. The host calls
// Update after every text or cursor change and HandleKey for navigation
// keys.
type Composer struct {
	opts    Options
	users   Navigator
	groups  Navigator
	trigger Trigger
	active  bool
}

// NewComposer creates a composer using mode for matching, at most limit
// suggestions, and self as the local user.
func NewComposer(mode MatchMode, limit int, self string) *Composer {
	return &Composer{
		opts: Options{Mode: mode, Limit: limit, Self: self},
	}
}

// SetSelf changes the local user.
func (c *Composer) SetSelf(id string) { c.opts.Self = id }

// Update re-detects the trigger in buf and refreshes the matching list.
// It returns the number of suggestions now shown.
func (c *Composer) Update(dir *directory.Directory, buf Buffer, scope Scope) int {
	trig, ok := DetectTrigger(buf.Text, buf.Cursor)
	if !ok {
		c.Close()
		return 0
	}

	opts := c.opts
	opts.Scope = scope
	candidates := Filter(trig.Kind, trig.Query, dir, opts)

	nav, other := c.navigators(trig.Kind)
	other.Close()
	nav.Update(candidates)

	c.trigger = trig
	c.active = nav.IsOpen()
	return len(nav.Candidates())
}

// HandleKey applies a navigation key to the open list. On commit the
// mention is inserted into buf, which must be the buffer last passed to
// Update.
func (c *Composer) HandleKey(k Key, buf Buffer) (Result, error) {
	nav := c.openNavigator()
	if nav == nil {
		return Result{}, nil
	}

	out := nav.Handle(k)
	if !nav.IsOpen() {
		c.active = false
	}
	if !out.Committed {
		return Result{Handled: out.Handled}, nil
	}

	ins, err := Insert(buf.Text, c.trigger.Start, buf.Cursor, out.Entity)
	if err != nil {
		return Result{Handled: true}, err
	}
	return Result{Handled: true, Inserted: true, Insertion: ins, Entity: out.Entity}, nil
}

// Close hides any open list.
func (c *Composer) Close() {
	c.users.Close()
	c.groups.Close()
	c.active = false
}

// IsOpen reports whether a suggestion list is shown.
func (c *Composer) IsOpen() bool { return c.openNavigator() != nil }

// Trigger returns the mention being completed while a list is open.
func (c *Composer) Trigger() (Trigger, bool) {
	if !c.IsOpen() {
		return Trigger{}, false
	}
	return c.trigger, true
}

// Candidates returns the suggestions of the open list.
func (c *Composer) Candidates() []directory.Entity {
	if nav := c.openNavigator(); nav != nil {
		return nav.Candidates()
	}
	return nil
}

// ActiveIndex returns the highlighted row of the open list.
func (c *Composer) ActiveIndex() int {
	if nav := c.openNavigator(); nav != nil {
		return nav.ActiveIndex()
	}
	return 0
}

func (c *Composer) navigators(kind directory.Kind) (nav, other *Navigator) {
	if kind == directory.KindGroup {
		return &c.groups, &c.users
	}
	return &c.users, &c.groups
}

func (c *Composer) openNavigator() *Navigator {
	if !c.active {
		return nil
	}
	switch {
	case c.users.IsOpen():
		return &c.users
	case c.groups.IsOpen():
		return &c.groups
	}
	return nil
}
