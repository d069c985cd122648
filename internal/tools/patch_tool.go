package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/kvit-s/vpatch/internal/config"
	"github.com/kvit-s/vpatch/internal/fsio"
	"github.com/kvit-s/vpatch/internal/logging"
	"github.com/kvit-s/vpatch/internal/patch"
	"github.com/kvit-s/vpatch/internal/ui"
)

// ApplyPatchTool exposes the patch engine as an agent tool.
type ApplyPatchTool struct {
	fs  *fsio.FS
	log *logging.Logger
}

var _ Tool = (*ApplyPatchTool)(nil)

// NewApplyPatchTool creates an ApplyPatchTool rooted at the configured
// workspace.
func NewApplyPatchTool(cfg *config.Config, log *logging.Logger) *ApplyPatchTool {
	return &ApplyPatchTool{
		fs:  fsio.New(cfg.Workspace.Root, log.Zap()),
		log: log,
	}
}

func (t *ApplyPatchTool) Name() string {
	return "apply_patch"
}

func (t *ApplyPatchTool) Description() string {
	return "Apply a V4A-format patch to create, modify, delete or move files. Supports multiple file changes in a single patch."
}

func (t *ApplyPatchTool) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"patch": map[string]any{
				"type":        "string",
				"description": "Complete patch in V4A format. See prompt for format details.",
			},
		},
		"required": []string{"patch"},
	}
}

func (t *ApplyPatchTool) Check(ctx context.Context, args json.RawMessage) error {
	// The patch carries its own context lines; no read-before-edit check.
	return nil
}

func (t *ApplyPatchTool) PromptCategory() string { return "filesystem" }
func (t *ApplyPatchTool) PromptOrder() int       { return 20 }
func (t *ApplyPatchTool) PromptSection() string {
	return `### apply_patch - Apply Patches (V4A Format)

**Usage:** ` + "`" + `apply_patch {"patch": "<V4A patch>"}` + "`" + `

**Format:**
` + "```" + `
*** Begin Patch
*** Update File: src/main.py
@@ def calculate():
     x = 1
-    return x + 1
+    return x + 2
     # done
*** End Patch
` + "```" + `

**Markers:**
- ` + "`*** Begin Patch`" + ` and ` + "`*** End Patch`" + ` - wrap the entire patch
- ` + "`*** Update File: path`" + ` - modify existing file
- ` + "`*** Move to: newpath`" + ` - optional, directly after Update File: rename the file
- ` + "`*** Add File: path`" + ` - create new file (every body line starts with +)
- ` + "`*** Delete File: path`" + ` - delete file
- ` + "`*** End of File`" + ` - optional, anchors the preceding hunk at the end of the file
- ` + "`@@ scope`" + ` - optional: function/class line to help locate changes

**Line Prefixes:**
- ` + "` ` (space)" + ` - context line (must match file)
- ` + "`-`" + ` - line to delete
- ` + "`+`" + ` - line to add

**Rules:**
1. Include 2-3 lines of context before and after changes
2. Each file appears only once in a patch
3. The @@ anchor may be omitted only for the first hunk of an update`
}

// Call parses and applies the patch against the workspace. Malformed
// patches and unmatched context come back as semantic errors with the
// engine's message; I/O failures are runtime errors.
func (t *ApplyPatchTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Patch string `json:"patch"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, SemanticErrorf("invalid arguments: %v", err)
	}
	if strings.TrimSpace(params.Patch) == "" {
		return nil, SemanticError("patch cannot be empty")
	}
	if !strings.HasPrefix(params.Patch, patch.BeginMarker) {
		return nil, SemanticErrorf("patch must start with %q", patch.BeginMarker)
	}

	start := time.Now()
	commit, fuzz, err := t.resolve(params.Patch)
	if err != nil {
		var diffErr *patch.DiffError
		if errors.As(err, &diffErr) {
			t.log.PatchFailed(diffErr.Message, time.Since(start))
			return nil, SemanticErrorWithDetails(diffErr.Message, map[string]any{
				"kind": diffErr.Kind.String(),
			})
		}
		return nil, RuntimeError(err.Error())
	}

	diff, err := ui.RenderCommit(commit)
	if err != nil {
		return nil, RuntimeErrorf("render diff: %v", err)
	}

	if err := patch.ApplyCommit(commit, t.write, t.remove); err != nil {
		t.log.Error("apply commit", err)
		return nil, RuntimeErrorf("apply commit: %v", err)
	}
	t.log.PatchApplied(commit.Len(), fuzz, time.Since(start))

	return map[string]any{
		"success": true,
		"message": patch.SuccessMessage,
		"files":   commit.Len(),
		"fuzz":    fuzz,
		"diff":    diff,
	}, nil
}

// resolve runs the read-parse-assemble half of the pipeline without
// touching the filesystem beyond reads.
func (t *ApplyPatchTool) resolve(text string) (*patch.Commit, int, error) {
	orig, err := patch.LoadFiles(patch.IdentifyFilesNeeded(text), t.fs.Read)
	if err != nil {
		return nil, 0, err
	}
	p, fuzz, err := patch.TextToPatch(text, orig)
	if err != nil {
		return nil, fuzz, err
	}
	commit, err := patch.PatchToCommit(p, orig)
	if err != nil {
		return nil, fuzz, err
	}
	return commit, fuzz, nil
}

func (t *ApplyPatchTool) write(path, content string) error {
	t.log.FileChanged("write", path)
	return t.fs.Write(path, content)
}

func (t *ApplyPatchTool) remove(path string) error {
	t.log.FileChanged("remove", path)
	return t.fs.Remove(path)
}
