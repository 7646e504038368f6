package top

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var fi func(string) []string = strings.Fields
var sf func(string, ...any) string = fmt.Sprintf

// Recognizes the lines of a Gromacs topology that matter
// to the parser. It has no state, so the same one can be shared.
type topHeader struct {
	wany    *regexp.Regexp
	comment *regexp.Regexp
	posres  *regexp.Regexp
}

func newTopHeader() *topHeader {
	T := new(topHeader)
	T.wany = regexp.MustCompile(`\[ (.+) \]`)
	T.comment = regexp.MustCompile(`^[\s]*;`)
	//two integers and three integer-or-decimal numbers.
	T.posres = regexp.MustCompile(`^\s*\d+\s+\d+(\s+\d+(\.\d+)?){3}`)
	return T
}

var header = newTopHeader()

// removes the comment part of a line.
func (T *topHeader) delcomments(line string) string {
	return strings.Split(line, ";")[0]
}

// Returns true if the line is a Gromacs directive. It discards comments,
// so a directive that has been commented out is not.
func (T *topHeader) Is(line string) bool {
	return T.wany.MatchString(T.delcomments(line))
}

// Returns the name of the directive in the line, or an empty
// string if the line is not a directive.
func (T *topHeader) Which(line string) string {
	m := T.wany.FindStringSubmatch(T.delcomments(line))
	if m == nil {
		return ""
	}
	return m[1]
}

// Returns true if the line is a comment.
func (T *topHeader) IsComment(line string) bool {
	return T.comment.MatchString(line)
}

// Returns true if the line contains only white spaces.
func (T *topHeader) IsBlank(line string) bool {
	return len(strings.TrimSpace(line)) == 0
}

// Returns true if the line looks like a position restraint term.
func (T *topHeader) IsPosRes(line string) bool {
	return T.posres.MatchString(line)
}

// formats a number for a topology field, without unneeded decimals.
func fieldFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
