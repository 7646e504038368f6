package include

import (
	"fmt"
	"strings"
)

// Error is the interface implemented by all errors in this package.
// The Decorate method allows to add and retrieve info from the error, without
// changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string
	FileName() string
	Critical() bool
}

// ierror carries the file (or reference) with problems and a "decoration" slice,
// where each calling function can add its name and any relevant information
// as the error goes up the stack.
type ierror struct {
	message  string
	filename string //the file or include reference that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err *ierror) Error() string {
	return fmt.Sprintf("include %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error, and returns the
// decoration slice. An empty string only returns the current value.
func (err *ierror) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file or reference associated to the error.
func (err *ierror) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err *ierror) Critical() bool { return err.critical }

// NotFoundError is returned when an include reference matches no file
// in any of the searched roots.
type NotFoundError struct {
	ierror
	Reference string
	Roots     []string
}

func newNotFoundError(reference string, roots []string, caller string) *NotFoundError {
	return &NotFoundError{
		ierror: ierror{
			message:  fmt.Sprintf("include topology file not found (searched: %s)", strings.Join(roots, ", ")),
			filename: reference,
			deco:     []string{caller},
			critical: true,
		},
		Reference: reference,
		Roots:     append([]string(nil), roots...),
	}
}

// SelectionError is returned when a reference matches several files
// and the selection given by the Chooser is not one of them.
type SelectionError struct {
	ierror
	Reference  string
	Candidates []string
	Choice     int
	cause      error
}

// Unwrap returns the error reported by the Chooser, if any.
func (err *SelectionError) Unwrap() error { return err.cause }

func newSelectionError(reference string, candidates []string, choice int, cause error, caller string) *SelectionError {
	msg := fmt.Sprintf("undefined selection %d", choice)
	if cause != nil {
		msg = fmt.Sprintf("no valid selection: %s", cause.Error())
	}
	lines := make([]string, 0, len(candidates)+1)
	lines = append(lines, fmt.Sprintf("%s. %s is found in:", msg, reference))
	for i, v := range candidates {
		lines = append(lines, fmt.Sprintf("%3d %s", i, v))
	}
	return &SelectionError{
		ierror: ierror{
			message:  strings.Join(lines, "\n"),
			filename: reference,
			deco:     []string{caller},
			critical: true,
		},
		Reference:  reference,
		Candidates: append([]string(nil), candidates...),
		Choice:     choice,
		cause:      cause,
	}
}
