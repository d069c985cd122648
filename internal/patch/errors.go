package patch

import (
	"fmt"
	"strings"
)

// ErrorKind separates the two recoverable failure classes: malformed patch
// text (grammar) and context that cannot be located in the target file.
type ErrorKind int

const (
	KindGrammar ErrorKind = iota
	KindContext
)

func (k ErrorKind) String() string {
	switch k {
	case KindGrammar:
		return "grammar"
	case KindContext:
		return "context"
	default:
		return "unknown"
	}
}

// DiffError reports malformed input. It is the only error type the engine
// returns for user-correctable problems; callers render its message as-is.
// Engine bugs and violated preconditions panic instead of producing one.
type DiffError struct {
	Kind    ErrorKind
	Message string
}

func (e *DiffError) Error() string {
	return e.Message
}

func grammarErrorf(format string, args ...any) *DiffError {
	return &DiffError{Kind: KindGrammar, Message: fmt.Sprintf(format, args...)}
}

func contextErrorf(format string, args ...any) *DiffError {
	return &DiffError{Kind: KindContext, Message: fmt.Sprintf(format, args...)}
}

// fileError formats the per-action path errors (duplicate path, missing
// file) with the action name as prefix.
func fileError(action ActionType, reason, path string) *DiffError {
	return grammarErrorf("%s File Error: %s: %s", action, reason, path)
}

// unmatchedContextError names the search cursor and the context text that
// could not be located. EOF-anchored hunks get their own prefix.
func unmatchedContextError(index int, context []string, isEOF bool) *DiffError {
	prefix := "Invalid Context"
	if isEOF {
		prefix = "Invalid EOF Context"
	}
	return contextErrorf("%s %d:\n%s", prefix, index, strings.Join(context, "\n"))
}

// assert panics on violated engine invariants. These are bugs, not input
// problems, and must not be downgraded to a DiffError.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("patch: "+format, args...))
	}
}
