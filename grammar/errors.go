package grammar

import (
	"github.com/ava12/langload"
)

// Error codes used by grammar:
const (
	// KindConflictError indicates an attempt to specialize a context that already has another kind.
	KindConflictError = langload.ContextErrors + iota
	// IncludeError indicates an attempt to include a context into a context that cannot hold includes.
	IncludeError
)

func kindConflictError(has, want Kind) *langload.Error {
	return langload.FormatError(KindConflictError, "cannot make %s context a %s one", has, want)
}

func includeError(kind Kind) *langload.Error {
	return langload.FormatError(IncludeError, "%s context cannot include other contexts", kind)
}
