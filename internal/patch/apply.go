package patch

import (
	"sort"
	"strings"
)

// SuccessMessage is the literal token the driver yields on a clean apply.
const SuccessMessage = "Done!"

// OpenFn loads a file's content; it must fail for a missing path.
type OpenFn func(path string) (string, error)

// WriteFn persists content at path, creating parent directories as needed.
type WriteFn func(path, content string) error

// RemoveFn deletes the file at path; it must fail for a missing path.
type RemoveFn func(path string) error

// applyChunks rebuilds a file from its original lines and the resolved,
// ascending chunk sequence. Offset violations are reported as context errors
// naming the path; the rebuilt length is an engine invariant.
func applyChunks(text string, chunks []Chunk, path string) (string, error) {
	origLines := strings.Split(text, "\n")
	destLines := make([]string, 0, len(origLines))
	origIndex := 0
	inserted, deleted := 0, 0

	for _, chunk := range chunks {
		if chunk.OrigIndex > len(origLines) {
			return "", contextErrorf("%s: chunk.orig_index %d > len(lines) %d", path, chunk.OrigIndex, len(origLines))
		}
		if origIndex > chunk.OrigIndex {
			return "", contextErrorf("%s: orig_index %d > chunk.orig_index %d", path, origIndex, chunk.OrigIndex)
		}
		destLines = append(destLines, origLines[origIndex:chunk.OrigIndex]...)
		destLines = append(destLines, chunk.InsertLines...)
		origIndex = chunk.OrigIndex + len(chunk.DeleteLines)
		inserted += len(chunk.InsertLines)
		deleted += len(chunk.DeleteLines)
	}
	if origIndex > len(origLines) {
		return "", contextErrorf("%s: chunk deletions run past end of file (%d > %d)", path, origIndex, len(origLines))
	}
	destLines = append(destLines, origLines[origIndex:]...)

	assert(len(destLines) == len(origLines)-deleted+inserted,
		"%s: rebuilt %d lines, want %d", path, len(destLines), len(origLines)-deleted+inserted)
	return strings.Join(destLines, "\n"), nil
}

// PatchToCommit converts a parsed patch plus the loaded originals into a
// flat table of per-path changes, in section order.
func PatchToCommit(p *Patch, orig map[string]string) (*Commit, error) {
	commit := NewCommit()
	for _, path := range p.Paths() {
		action, _ := p.Get(path)
		switch action.Type {
		case ActionDelete:
			commit.Set(path, FileChange{Type: ActionDelete, OldContent: orig[path]})
		case ActionAdd:
			commit.Set(path, FileChange{Type: ActionAdd, NewContent: action.NewFileContent})
		case ActionUpdate:
			newContent, err := applyChunks(orig[path], action.Chunks, path)
			if err != nil {
				return nil, err
			}
			commit.Set(path, FileChange{
				Type:       ActionUpdate,
				OldContent: orig[path],
				NewContent: newContent,
				MovePath:   action.MovePath,
			})
		default:
			assert(false, "unknown action type %q for %s", action.Type, path)
		}
	}
	return commit, nil
}

// AssembleChanges diffs two whole-file content mappings into a commit,
// bypassing hunk parsing. Paths are visited in sorted union order; a key's
// absence is distinct from it mapping to the empty string.
func AssembleChanges(before, after map[string]string) *Commit {
	paths := make([]string, 0, len(before)+len(after))
	seen := make(map[string]bool, len(before)+len(after))
	for p := range before {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for p := range after {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	commit := NewCommit()
	for _, path := range paths {
		oldContent, hadOld := before[path]
		newContent, hasNew := after[path]
		if hadOld == hasNew && oldContent == newContent {
			continue
		}
		switch {
		case hadOld && hasNew:
			commit.Set(path, FileChange{Type: ActionUpdate, OldContent: oldContent, NewContent: newContent})
		case hasNew:
			if newContent != "" {
				commit.Set(path, FileChange{Type: ActionAdd, NewContent: newContent})
			}
		case hadOld:
			if oldContent != "" {
				commit.Set(path, FileChange{Type: ActionDelete, OldContent: oldContent})
			}
		default:
			// The union of both key sets cannot yield a path absent from both.
			assert(false, "unreachable change state for %s", path)
		}
	}
	return commit
}

// ApplyCommit replays a resolved commit through the injected primitives, one
// path at a time in insertion order. A move writes the new path before
// removing the old one so a failed removal cannot lose content. There is no
// cross-file rollback: earlier effects stand if a later one fails.
func ApplyCommit(commit *Commit, write WriteFn, remove RemoveFn) error {
	for _, path := range commit.Paths() {
		change, _ := commit.Get(path)
		switch change.Type {
		case ActionDelete:
			if err := remove(path); err != nil {
				return err
			}
		case ActionAdd:
			if err := write(path, change.NewContent); err != nil {
				return err
			}
		case ActionUpdate:
			if change.MovePath != "" {
				if err := write(change.MovePath, change.NewContent); err != nil {
					return err
				}
				if err := remove(path); err != nil {
					return err
				}
			} else {
				if err := write(path, change.NewContent); err != nil {
					return err
				}
			}
		default:
			assert(false, "unknown change type %q for %s", change.Type, path)
		}
	}
	return nil
}

// LoadFiles reads every path through the injected opener. A failed read
// surfaces as a grammar-tier error naming the path.
func LoadFiles(paths []string, open OpenFn) (map[string]string, error) {
	orig := make(map[string]string, len(paths))
	for _, p := range paths {
		content, err := open(p)
		if err != nil {
			return nil, fileError("Open", "File not found", p)
		}
		orig[p] = content
	}
	return orig, nil
}

// Process runs the whole pipeline: scan referenced paths, load originals,
// parse and resolve the patch, assemble the commit, and replay it. On
// success it returns SuccessMessage and the cumulative fuzz. The text must
// begin with the patch marker; violating that is a precondition the caller
// owns, not a parse error.
func Process(text string, open OpenFn, write WriteFn, remove RemoveFn) (string, int, error) {
	assert(strings.HasPrefix(text, BeginMarker), "patch text must start with %q", BeginMarker)

	orig, err := LoadFiles(IdentifyFilesNeeded(text), open)
	if err != nil {
		return "", 0, err
	}
	p, fuzz, err := TextToPatch(text, orig)
	if err != nil {
		return "", fuzz, err
	}
	commit, err := PatchToCommit(p, orig)
	if err != nil {
		return "", fuzz, err
	}
	if err := ApplyCommit(commit, write, remove); err != nil {
		return "", fuzz, err
	}
	return SuccessMessage, fuzz, nil
}
