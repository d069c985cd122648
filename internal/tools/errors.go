package tools

import "fmt"

// ToolErrorType classifies tool errors for the caller's retry decisions
type ToolErrorType int

const (
	// ToolErrorRuntime - Tool executed but failed (file system error, etc.)
	// The error goes back to the caller, who should see and handle it
	ToolErrorRuntime ToolErrorType = iota

	// ToolErrorSemantic - The caller misused the tool (malformed patch,
	// unmatched context). The input should be corrected and resubmitted
	ToolErrorSemantic
)

// ToolError is an error type that classifies errors as runtime or semantic
type ToolError struct {
	Type    ToolErrorType
	Message string
	Details map[string]any // Optional structured data for the caller
}

// Error implements the error interface
func (e *ToolError) Error() string {
	return e.Message
}

// ToJSON returns the structured form of the error
func (e *ToolError) ToJSON() map[string]any {
	result := map[string]any{
		"success": false,
		"error":   e.Message,
	}
	for k, v := range e.Details {
		result[k] = v
	}
	return result
}

// RuntimeError creates a runtime error
func RuntimeError(msg string) *ToolError {
	return &ToolError{Type: ToolErrorRuntime, Message: msg}
}

// RuntimeErrorf creates a formatted runtime error
func RuntimeErrorf(format string, args ...any) *ToolError {
	return &ToolError{Type: ToolErrorRuntime, Message: fmt.Sprintf(format, args...)}
}

// SemanticError creates a semantic error
func SemanticError(msg string) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: msg}
}

// SemanticErrorWithDetails creates a semantic error carrying structured data
// for the caller
func SemanticErrorWithDetails(msg string, details map[string]any) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: msg, Details: details}
}

// SemanticErrorf creates a formatted semantic error
func SemanticErrorf(format string, args ...any) *ToolError {
	return &ToolError{Type: ToolErrorSemantic, Message: fmt.Sprintf(format, args...)}
}

// IsSemantic reports whether err is a semantic ToolError
func IsSemantic(err error) bool {
	if te, ok := err.(*ToolError); ok {
		return te.Type == ToolErrorSemantic
	}
	return false
}
