package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kvit-s/vpatch/internal/config"
	"github.com/kvit-s/vpatch/internal/fsio"
	"github.com/kvit-s/vpatch/internal/logging"
	"github.com/kvit-s/vpatch/internal/patch"
	"github.com/kvit-s/vpatch/internal/tui"
	"github.com/kvit-s/vpatch/internal/ui"
)

// Version info set by ldflags at build time
var (
	version    = "dev"
	commitHash = "dev"
	commitDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	patchFile := flag.String("f", "", "read patch from file instead of stdin")
	workspaceRoot := flag.String("C", "", "override workspace root")
	logFile := flag.String("log", "", "log file path (empty to disable)")
	preview := flag.Bool("preview", false, "show the resolved diff and confirm before writing")
	dryRun := flag.Bool("dry-run", false, "resolve and print the diff without writing anything")
	noColor := flag.Bool("no-color", false, "disable colored diff output")
	showVersion := flag.Bool("version", false, "show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s-%s-%s\n", version, commitDate, commitHash)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *workspaceRoot != "" {
		absRoot, err := filepath.Abs(*workspaceRoot)
		if err != nil {
			log.Fatalf("Invalid workspace root: %v", err)
		}
		cfg.Workspace.Root = absRoot
	}
	if *logFile != "" {
		cfg.Log.Path = *logFile
	}
	if *noColor {
		cfg.Apply.Color = false
	}
	if *preview {
		cfg.Apply.PreviewMode = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	text, err := readPatchText(*patchFile)
	if err != nil {
		log.Fatalf("Failed to read patch: %v", err)
	}

	fs := fsio.New(cfg.Workspace.Root, logger.Zap())

	if *dryRun || cfg.Apply.PreviewMode {
		runWithPreview(text, fs, logger, cfg, *dryRun)
		return
	}

	start := time.Now()
	result, fuzz, err := patch.Process(text, fs.Read, fs.Write, fs.Remove)
	if err != nil {
		var diffErr *patch.DiffError
		if errors.As(err, &diffErr) {
			logger.PatchFailed(diffErr.Message, time.Since(start))
			fmt.Println(diffErr.Message)
			os.Exit(1)
		}
		log.Fatalf("%v", err)
	}
	logger.PatchApplied(len(patch.IdentifyFilesNeeded(text))+len(patch.IdentifyFilesAdded(text)), fuzz, time.Since(start))
	fmt.Println(result)
}

// runWithPreview resolves the commit first, shows its diff, and only then
// replays it. Dry runs stop after printing the diff.
func runWithPreview(text string, fs *fsio.FS, logger *logging.Logger, cfg *config.Config, dryRun bool) {
	start := time.Now()
	commit, fuzz, err := resolveCommit(text, fs)
	if err != nil {
		var diffErr *patch.DiffError
		if errors.As(err, &diffErr) {
			logger.PatchFailed(diffErr.Message, time.Since(start))
			fmt.Println(diffErr.Message)
			os.Exit(1)
		}
		log.Fatalf("%v", err)
	}

	diff, err := ui.RenderCommit(commit)
	if err != nil {
		log.Fatalf("Failed to render diff: %v", err)
	}

	if dryRun {
		if cfg.Apply.Color {
			diff = ui.Colorize(diff)
		}
		fmt.Print(diff)
		return
	}

	title := fmt.Sprintf("vpatch: %d file(s), fuzz %d", commit.Len(), fuzz)
	ok, err := tui.Confirm(title, diff)
	if err != nil {
		log.Fatalf("Preview failed: %v", err)
	}
	if !ok {
		fmt.Println("Cancelled.")
		return
	}

	if err := patch.ApplyCommit(commit, fs.Write, fs.Remove); err != nil {
		log.Fatalf("%v", err)
	}
	logger.PatchApplied(commit.Len(), fuzz, time.Since(start))
	fmt.Println(patch.SuccessMessage)
}

// resolveCommit runs the pipeline up to (but not including) the writes.
func resolveCommit(text string, fs *fsio.FS) (*patch.Commit, int, error) {
	orig, err := patch.LoadFiles(patch.IdentifyFilesNeeded(text), fs.Read)
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

func readPatchText(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
