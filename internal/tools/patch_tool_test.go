package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kvit-s/vpatch/internal/config"
	"github.com/kvit-s/vpatch/internal/logging"
)

func newTestTool(t *testing.T) (*ApplyPatchTool, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Workspace.Root = root
	log, err := logging.New("", false)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewApplyPatchTool(cfg, log), root
}

func callTool(t *testing.T, tool *ApplyPatchTool, patchText string) (map[string]any, error) {
	t.Helper()
	args, err := json.Marshal(map[string]string{"patch": patchText})
	if err != nil {
		t.Fatal(err)
	}
	result, err := tool.Call(context.Background(), args)
	if err != nil {
		return nil, err
	}
	m, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("result has type %T, want map", result)
	}
	return m, nil
}

func TestApplyPatchTool_Metadata(t *testing.T) {
	tool, _ := newTestTool(t)

	if tool.Name() != "apply_patch" {
		t.Errorf("Name() = %q, want apply_patch", tool.Name())
	}
	if tool.Description() == "" {
		t.Error("Description() should not be empty")
	}
	if tool.PromptCategory() != "filesystem" {
		t.Errorf("PromptCategory() = %q, want filesystem", tool.PromptCategory())
	}
	schema := tool.JSONSchema()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("schema should have properties")
	}
	if _, exists := props["patch"]; !exists {
		t.Error("schema missing 'patch' property")
	}
}

func TestApplyPatchTool_AddAndUpdate(t *testing.T) {
	tool, root := newTestTool(t)
	if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte("one\ntwo"), 0644); err != nil {
		t.Fatal(err)
	}

	patchText := strings.Join([]string{
		"*** Begin Patch",
		"*** Update File: f.txt",
		"@@",
		" one",
		"-two",
		"+three",
		"*** Add File: new.txt",
		"+fresh",
		"*** End Patch",
	}, "\n")

	result, err := callTool(t, tool, patchText)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if result["success"] != true {
		t.Errorf("success = %v, want true", result["success"])
	}
	if result["files"] != 2 {
		t.Errorf("files = %v, want 2", result["files"])
	}
	if diff, _ := result["diff"].(string); !strings.Contains(diff, "+three") {
		t.Errorf("diff missing change: %q", diff)
	}

	data, err := os.ReadFile(filepath.Join(root, "f.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\nthree" {
		t.Errorf("f.txt = %q, want %q", data, "one\nthree")
	}
	data, err = os.ReadFile(filepath.Join(root, "new.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh" {
		t.Errorf("new.txt = %q, want %q", data, "fresh")
	}
}

func TestApplyPatchTool_SemanticErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		want  string
	}{
		{
			name:  "empty patch",
			patch: "   ",
			want:  "patch cannot be empty",
		},
		{
			name:  "missing begin marker",
			patch: "*** Update File: f.txt",
			want:  "must start with",
		},
		{
			name: "missing file",
			patch: strings.Join([]string{
				"*** Begin Patch",
				"*** Delete File: ghost.txt",
				"*** End Patch",
			}, "\n"),
			want: "File not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, _ := newTestTool(t)
			_, err := callTool(t, tool, tt.patch)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsSemantic(err) {
				t.Errorf("error should be semantic, got %#v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.want)
			}
		})
	}
}

func TestApplyPatchTool_EngineErrorCarriesKind(t *testing.T) {
	tool, root := newTestTool(t)
	if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte("actual\ncontent"), 0644); err != nil {
		t.Fatal(err)
	}

	patchText := strings.Join([]string{
		"*** Begin Patch",
		"*** Update File: f.txt",
		"@@",
		" no",
		"-such",
		"+lines",
		"*** End Patch",
	}, "\n")

	_, err := callTool(t, tool, patchText)
	if err == nil {
		t.Fatal("expected unmatched context error")
	}
	te, ok := err.(*ToolError)
	if !ok {
		t.Fatalf("error has type %T, want *ToolError", err)
	}
	if te.Type != ToolErrorSemantic {
		t.Errorf("error type = %v, want semantic", te.Type)
	}
	if te.Details["kind"] != "context" {
		t.Errorf("details = %v, want kind context", te.Details)
	}
	out := te.ToJSON()
	if out["success"] != false || out["kind"] != "context" {
		t.Errorf("ToJSON() = %v, want success false with kind merged", out)
	}
}

func TestApplyPatchTool_InvalidArguments(t *testing.T) {
	tool, _ := newTestTool(t)
	_, err := tool.Call(context.Background(), json.RawMessage(`{bad json`))
	if err == nil {
		t.Fatal("expected error for malformed arguments")
	}
	if !IsSemantic(err) {
		t.Errorf("error should be semantic, got %#v", err)
	}
}
