package patch

import "strings"

// parser drives a single forward pass over the patch lines. The index is
// the only cursor; it never moves backwards. Local searching inside a file
// happens on the target file's lines, not on the patch text.
type parser struct {
	currentFiles map[string]string
	lines        []string
	index        int
	patch        *Patch
	fuzz         int
}

func newParser(currentFiles map[string]string, lines []string) *parser {
	return &parser{
		currentFiles: currentFiles,
		lines:        lines,
		patch:        NewPatch(),
	}
}

// isDone reports whether the cursor ran off the input or sits on one of the
// given boundary prefixes.
func (p *parser) isDone(prefixes ...string) bool {
	if p.index >= len(p.lines) {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(p.lines[p.index], prefix) {
			return true
		}
	}
	return false
}

func (p *parser) startsWith(prefix string) bool {
	return p.index < len(p.lines) && strings.HasPrefix(p.lines[p.index], prefix)
}

// readString consumes the current line if it starts with prefix and returns
// the remainder; otherwise it leaves the cursor alone and returns "".
func (p *parser) readString(prefix string) string {
	if !p.startsWith(prefix) {
		return ""
	}
	text := p.lines[p.index][len(prefix):]
	p.index++
	return text
}

func (p *parser) parse() error {
	for !p.isDone(EndMarker) {
		// Blank separators between sections carry no meaning.
		if strings.TrimSpace(p.lines[p.index]) == "" {
			p.index++
			continue
		}

		if path := p.readString(UpdateMarker); path != "" {
			if p.patch.Contains(path) {
				return fileError(ActionUpdate, "Duplicate Path", path)
			}
			movePath := p.readString(MoveMarker)
			text, ok := p.currentFiles[path]
			if !ok {
				return fileError(ActionUpdate, "Missing File", path)
			}
			action, err := p.parseUpdateFile(text)
			if err != nil {
				return err
			}
			action.MovePath = movePath
			p.patch.Set(path, action)
			continue
		}

		if path := p.readString(DeleteMarker); path != "" {
			if p.patch.Contains(path) {
				return fileError(ActionDelete, "Duplicate Path", path)
			}
			if _, ok := p.currentFiles[path]; !ok {
				return fileError(ActionDelete, "Missing File", path)
			}
			p.patch.Set(path, PatchAction{Type: ActionDelete})
			continue
		}

		if path := p.readString(AddMarker); path != "" {
			if p.patch.Contains(path) {
				return fileError(ActionAdd, "Duplicate Path", path)
			}
			action, err := p.parseAddFile()
			if err != nil {
				return err
			}
			p.patch.Set(path, action)
			continue
		}

		return grammarErrorf("Unknown Line: %s", p.lines[p.index])
	}

	if !p.startsWith(EndMarker) {
		return grammarErrorf("Missing End Patch")
	}
	p.index++
	return nil
}

// parseUpdateFile consumes one or more hunks for a single file and resolves
// each hunk's context against the file's current lines. fileIndex tracks the
// position in the target file past which the next hunk must match.
func (p *parser) parseUpdateFile(text string) (PatchAction, error) {
	action := PatchAction{Type: ActionUpdate}
	fileLines := strings.Split(text, "\n")
	fileIndex := 0
	first := true

	for !p.isDone(EndMarker, UpdateMarker, DeleteMarker, AddMarker, EOFMarker) {
		anchor := p.readString("@@ ")
		hadAnchorLine := anchor != ""
		if !hadAnchorLine && p.index < len(p.lines) && p.lines[p.index] == "@@" {
			hadAnchorLine = true
			p.index++
		}
		if !hadAnchorLine && !first {
			return action, grammarErrorf("Invalid Line:\n%s", p.lines[p.index])
		}
		first = false

		if strings.TrimSpace(anchor) != "" {
			fileIndex = p.seekAnchor(fileLines, anchor, fileIndex)
		}

		old, chunks, consumed, nextIndex, eof := scanSection(p.lines, p.index)
		if consumed == 0 && !eof {
			return action, grammarErrorf("Nothing in this section")
		}
		if err := validateSection(p.lines, p.index, nextIndex); err != nil {
			return action, err
		}

		newIndex, fuzz := findContext(fileLines, old, fileIndex, eof)
		if newIndex == -1 {
			return action, unmatchedContextError(fileIndex, old, eof)
		}
		p.fuzz += fuzz

		// Remap to absolute offsets on fresh copies; the scanner's chunks
		// stay untouched.
		for _, ch := range chunks {
			action.Chunks = append(action.Chunks, Chunk{
				OrigIndex:   ch.OrigIndex + newIndex,
				DeleteLines: ch.DeleteLines,
				InsertLines: ch.InsertLines,
			})
		}
		fileIndex = newIndex + len(old)
		p.index = nextIndex
	}
	return action, nil
}

// seekAnchor moves the file cursor past an @@ anchor line. An anchor already
// seen before the cursor is accepted without advancing; otherwise the first
// occurrence at or after the cursor wins. Exact equality is preferred over
// whitespace-trimmed equality, and only the trimmed forward match costs fuzz.
func (p *parser) seekAnchor(fileLines []string, anchor string, fileIndex int) int {
	for i := 0; i < fileIndex && i < len(fileLines); i++ {
		if fileLines[i] == anchor {
			return fileIndex
		}
	}
	for i := fileIndex; i < len(fileLines); i++ {
		if fileLines[i] == anchor {
			return i + 1
		}
	}
	trimmed := strings.TrimSpace(anchor)
	for i := 0; i < fileIndex && i < len(fileLines); i++ {
		if strings.TrimSpace(fileLines[i]) == trimmed {
			return fileIndex
		}
	}
	for i := fileIndex; i < len(fileLines); i++ {
		if strings.TrimSpace(fileLines[i]) == trimmed {
			p.fuzz++
			return i + 1
		}
	}
	return fileIndex
}

// parseAddFile consumes the body of an Add section. Every line must carry a
// leading '+', which is stripped.
func (p *parser) parseAddFile() (PatchAction, error) {
	var lines []string
	for !p.isDone(EndMarker, UpdateMarker, DeleteMarker, AddMarker) {
		s := p.lines[p.index]
		p.index++
		if !strings.HasPrefix(s, "+") {
			return PatchAction{}, grammarErrorf("Invalid Add File Line: %s", s)
		}
		lines = append(lines, s[1:])
	}
	return PatchAction{Type: ActionAdd, NewFileContent: strings.Join(lines, "\n")}, nil
}

// isSectionBoundary reports whether s terminates a hunk body: a new anchor,
// any file header, the patch terminator, the end-of-file marker, or a lone
// "***" section break.
func isSectionBoundary(s string) bool {
	return strings.HasPrefix(s, "@@") ||
		strings.HasPrefix(s, EndMarker) ||
		strings.HasPrefix(s, UpdateMarker) ||
		strings.HasPrefix(s, DeleteMarker) ||
		strings.HasPrefix(s, AddMarker) ||
		strings.HasPrefix(s, EOFMarker) ||
		s == "***"
}

// scanSection walks one hunk body starting at index. It returns the "old"
// text (kept + deleted lines, in original order) that the matcher must
// locate, the chunks with context-relative offsets, the number of body lines
// consumed, the index of the next unconsumed line, and whether the hunk was
// terminated by an explicit end-of-file marker.
func scanSection(lines []string, index int) (old []string, chunks []Chunk, consumed, nextIndex int, eof bool) {
	var deleteLines, insertLines []string
	mode := "keep"

	flush := func() {
		if len(deleteLines) == 0 && len(insertLines) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			OrigIndex:   len(old) - len(deleteLines),
			DeleteLines: deleteLines,
			InsertLines: insertLines,
		})
		deleteLines = nil
		insertLines = nil
	}

	for index < len(lines) {
		s := lines[index]
		if isSectionBoundary(s) {
			break
		}
		index++
		consumed++
		lastMode := mode

		line := s
		if line == "" {
			// A blank line inside a hunk stands for an empty context line.
			line = " "
		}
		switch line[0] {
		case '+':
			mode = "add"
		case '-':
			mode = "delete"
		case ' ':
			mode = "keep"
		default:
			// The first character is the mode selector; anything else means
			// the hunk body is malformed. Reported by validateSection.
			return old, chunks, consumed, index, false
		}
		line = line[1:]

		if mode == "keep" && lastMode != mode {
			flush()
		}
		switch mode {
		case "delete":
			deleteLines = append(deleteLines, line)
			old = append(old, line)
		case "add":
			insertLines = append(insertLines, line)
		default:
			old = append(old, line)
		}
	}
	flush()

	if index < len(lines) && lines[index] == EOFMarker {
		index++
		eof = true
	}
	return old, chunks, consumed, index, eof
}

// validateSection re-checks the scanned range for a body line whose leading
// character is not one of ' ', '+', '-'. scanSection stops early on such a
// line; here it becomes a hard parse error.
func validateSection(lines []string, start, end int) error {
	if end > len(lines) {
		end = len(lines)
	}
	for i := start; i < end; i++ {
		s := lines[i]
		if s == EOFMarker {
			continue
		}
		if s == "" || s[0] == ' ' || s[0] == '+' || s[0] == '-' {
			continue
		}
		return grammarErrorf("Invalid Line: %s", s)
	}
	return nil
}

// IdentifyFilesNeeded lists the paths the patch text updates or deletes, in
// first-appearance order. These must be loaded before parsing.
func IdentifyFilesNeeded(text string) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		var path string
		switch {
		case strings.HasPrefix(line, UpdateMarker):
			path = line[len(UpdateMarker):]
		case strings.HasPrefix(line, DeleteMarker):
			path = line[len(DeleteMarker):]
		default:
			continue
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}

// IdentifyFilesAdded lists the paths the patch text creates, in
// first-appearance order.
func IdentifyFilesAdded(text string) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if !strings.HasPrefix(line, AddMarker) {
			continue
		}
		path := line[len(AddMarker):]
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}

// TextToPatch parses patch text against the pre-loaded originals. The
// returned fuzz is the cumulative context-match penalty across the whole
// patch; it is a quality signal only and never invalidates the result.
func TextToPatch(text string, orig map[string]string) (*Patch, int, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], BeginMarker) || lines[len(lines)-1] != EndMarker {
		return nil, 0, grammarErrorf("Invalid patch text")
	}
	p := newParser(orig, lines)
	p.index = 1
	if err := p.parse(); err != nil {
		return nil, 0, err
	}
	return p.patch, p.fuzz, nil
}
