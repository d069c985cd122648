// Package patch parses V4A-format patches and resolves them against file
// contents into a ready-to-apply set of per-file changes.
package patch

// ActionType identifies the kind of file operation a patch section requests.
type ActionType string

const (
	ActionAdd    ActionType = "Add"
	ActionDelete ActionType = "Delete"
	ActionUpdate ActionType = "Update"
)

// Patch grammar markers.
const (
	BeginMarker  = "*** Begin Patch"
	EndMarker    = "*** End Patch"
	AddMarker    = "*** Add File: "
	DeleteMarker = "*** Delete File: "
	UpdateMarker = "*** Update File: "
	MoveMarker   = "*** Move to: "
	EOFMarker    = "*** End of File"
)

// Chunk is one contiguous insert/delete run anchored at a line index in the
// original file. Indexes produced by the parser are relative to the hunk's
// context block; the matcher remaps them to absolute file offsets.
type Chunk struct {
	OrigIndex   int
	DeleteLines []string
	InsertLines []string
}

// PatchAction is the parsed, not-yet-applied section for a single file.
type PatchAction struct {
	Type           ActionType
	NewFileContent string  // Add only
	Chunks         []Chunk // Update only
	MovePath       string  // Update only, optional
}

// FileChange is the fully resolved before/after state for one path.
type FileChange struct {
	Type       ActionType
	OldContent string
	NewContent string
	MovePath   string
}

// Patch maps file paths to actions, preserving the order sections appear in
// the patch text. Key presence is tracked explicitly so that an empty action
// is distinguishable from an absent one.
type Patch struct {
	order   []string
	actions map[string]PatchAction
}

// NewPatch returns an empty Patch.
func NewPatch() *Patch {
	return &Patch{actions: make(map[string]PatchAction)}
}

// Contains reports whether a section for path has been registered.
func (p *Patch) Contains(path string) bool {
	_, ok := p.actions[path]
	return ok
}

// Get returns the action for path.
func (p *Patch) Get(path string) (PatchAction, bool) {
	a, ok := p.actions[path]
	return a, ok
}

// Set registers an action for path. First insertion fixes its position.
func (p *Patch) Set(path string, action PatchAction) {
	if _, ok := p.actions[path]; !ok {
		p.order = append(p.order, path)
	}
	p.actions[path] = action
}

// Paths returns the registered paths in insertion order.
func (p *Patch) Paths() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of registered actions.
func (p *Patch) Len() int { return len(p.order) }

// Commit maps file paths to resolved changes, preserving insertion order.
type Commit struct {
	order   []string
	changes map[string]FileChange
}

// NewCommit returns an empty Commit.
func NewCommit() *Commit {
	return &Commit{changes: make(map[string]FileChange)}
}

// Contains reports whether a change for path is present.
func (c *Commit) Contains(path string) bool {
	_, ok := c.changes[path]
	return ok
}

// Get returns the change for path.
func (c *Commit) Get(path string) (FileChange, bool) {
	ch, ok := c.changes[path]
	return ch, ok
}

// Set registers a change for path. First insertion fixes its position.
func (c *Commit) Set(path string, change FileChange) {
	if _, ok := c.changes[path]; !ok {
		c.order = append(c.order, path)
	}
	c.changes[path] = change
}

// Paths returns the changed paths in insertion order.
func (c *Commit) Paths() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of changes.
func (c *Commit) Len() int { return len(c.order) }
