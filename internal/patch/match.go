package patch

import "strings"

// Context-match penalties. The values are ranking weights carried over for
// output compatibility; only their relative order matters.
const (
	fuzzRstrip      = 1
	fuzzStrip       = 100
	fuzzEOFFallback = 10000
)

// matchAt reports whether context matches lines at offset i under the given
// per-line normalization.
func matchAt(lines, context []string, i int, canon func(string) string) bool {
	if i < 0 || i+len(context) > len(lines) {
		return false
	}
	for j, ctx := range context {
		if canon(lines[i+j]) != canon(ctx) {
			return false
		}
	}
	return true
}

func scanFrom(lines, context []string, start int, canon func(string) string) int {
	if start < 0 {
		start = 0
	}
	for i := start; i+len(context) <= len(lines); i++ {
		if matchAt(lines, context, i, canon) {
			return i
		}
	}
	return -1
}

// findContextCore locates context in lines at or after start. Three passes,
// first match wins: exact (fuzz 0), trailing-whitespace-insensitive (fuzz 1),
// fully-trimmed (fuzz 100). Empty context matches at the cursor for free.
func findContextCore(lines, context []string, start int) (int, int) {
	if len(context) == 0 {
		return start, 0
	}
	if i := scanFrom(lines, context, start, func(s string) string { return s }); i >= 0 {
		return i, 0
	}
	if i := scanFrom(lines, context, start, func(s string) string {
		return strings.TrimRight(s, " \t")
	}); i >= 0 {
		return i, fuzzRstrip
	}
	if i := scanFrom(lines, context, start, strings.TrimSpace); i >= 0 {
		return i, fuzzStrip
	}
	return -1, 0
}

// findContext resolves a hunk's context block to an absolute offset. An
// EOF-anchored hunk is first tried against the very end of the file; if that
// fails, the normal forward search runs with a steep extra penalty.
func findContext(lines, context []string, start int, eof bool) (int, int) {
	if eof {
		if i, fuzz := findContextCore(lines, context, len(lines)-len(context)); i != -1 {
			return i, fuzz
		}
		i, fuzz := findContextCore(lines, context, start)
		return i, fuzz + fuzzEOFFallback
	}
	return findContextCore(lines, context, start)
}
