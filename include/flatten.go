/*
 * flatten.go, part of topmerge
 *
 * Copyright 2025 Raul Mera A. (rmeraaatacademicosdotutadotcl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package include

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// Marker is the token that identifies an include line.
const Marker = "#include"

var (
	reQuote   = regexp.MustCompile(`['"]`)
	reComment = regexp.MustCompile(`^[\s]*;`)
)

// IsInclude returns true if line is an include statement. Commented-out
// includes are not.
func IsInclude(line string) bool {
	return strings.Contains(line, Marker) && !reComment.MatchString(line)
}

// Reference returns the file reference in the include line, without
// the marker, quotes, trailing comments or surrounding spaces.
func Reference(line string) string {
	l := strings.Split(line, ";")[0]
	l = strings.Replace(l, Marker, "", -1)
	return strings.TrimSpace(reQuote.ReplaceAllString(l, ""))
}

// Banner returns the comment line that marks the expansion of reference
// when the Flattener's Banner field is set. The Flattener puts an empty
// line before it.
func Banner(reference string) string {
	return fmt.Sprintf("; <--------------- extend %s --------------->\n", reference)
}

// Flattener expands, recursively, the include statements of a topology.
type Flattener struct {
	Resolver *Resolver
	//Open is used to read every file. If nil, OpenFile is used.
	Open func(string) (io.ReadCloser, error)
	//If true, each expansion is preceded by a comment naming the reference.
	Banner bool
}

// NewFlattener returns a Flattener that resolves includes with r
// and reads files with OpenFile.
func NewFlattener(r *Resolver) *Flattener {
	return &Flattener{Resolver: r, Open: OpenFile}
}

// Flatten returns the lines of the file path with every include line replaced
// by the (flattened) contents of the referenced file, followed by one empty line,
// so the last line of the fragment never merges with the next line of the includer.
// All other lines are returned verbatim. Includes inside a fragment are resolved
// searching the fragment's directory first. Include cycles are not detected,
// see Graph for that.
func (F *Flattener) Flatten(path string) ([]string, error) {
	out := make([]string, 0, 500)
	return F.flatten(path, out)
}

// Each call is a frame (path, origin directory); only the output is shared.
func (F *Flattener) flatten(path string, out []string) ([]string, error) {
	open := F.Open
	if open == nil {
		open = OpenFile
	}
	lines, err := readFile(path, open)
	if err != nil {
		return out, fmt.Errorf("include/Flattener.Flatten: %w", err)
	}
	origin := filepath.Dir(path)
	for i, v := range lines {
		if !IsInclude(v) {
			out = append(out, v)
			continue
		}
		ref := Reference(v)
		target, err := F.Resolver.Resolve(ref, origin)
		if err != nil {
			if e, ok := err.(Error); ok {
				e.Decorate(fmt.Sprintf("Flatten: %s line %d", path, i+1))
			}
			return out, fmt.Errorf("include/Flattener.Flatten: %s line %d: %w", path, i+1, err)
		}
		if F.Banner {
			out = append(out, "\n", Banner(ref))
		}
		out, err = F.flatten(target, out)
		if err != nil {
			return out, err
		}
		out = append(out, "\n")
	}
	return out, nil
}
