package top

import "fmt"

// Error is the interface implemented by the errors in this package
// (it's the same one as in the include package).
type Error interface {
	Error() string
	Decorate(string) []string
	FileName() string
	Critical() bool
}

type terror struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err *terror) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("topology error: %s", err.message)
	}
	return fmt.Sprintf("topology %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (err *terror) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err *terror) FileName() string { return err.filename }

func (err *terror) Critical() bool { return err.critical }

// MalformedIndexError is returned when a line of the [ molecules ] section
// doesn't carry an integer molecule count as its second field.
type MalformedIndexError struct {
	terror
	Line       string
	LineNumber int //1-based, in the flattened topology
}

func newMalformedIndexError(line string, number int, caller string) *MalformedIndexError {
	return &MalformedIndexError{
		terror: terror{
			message:  fmt.Sprintf("line %d of [ molecules ] has no integer molecule count: %q", number, line),
			deco:     []string{caller},
			critical: true,
		},
		Line:       line,
		LineNumber: number,
	}
}
