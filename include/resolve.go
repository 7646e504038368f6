/*
 * resolve.go, part of topmerge
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
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Chooser picks one of several files matching an include reference. It
// must return an index in [0, len(candidates)).
type Chooser func(reference string, candidates []string) (int, error)

// First is a Chooser that always takes the first candidate.
func First(string, []string) (int, error) { return 0, nil }

// Resolver finds the files referenced by include statements in a set of
// search roots (library directories).
type Resolver struct {
	Roots  []string
	Choose Chooser
}

// NewResolver returns a resolver searching roots, in order, and
// using choose to disambiguate multiple matches.
func NewResolver(roots []string, choose Chooser) *Resolver {
	return &Resolver{Roots: append([]string(nil), roots...), Choose: choose}
}

// Resolve returns the path to the file referenced by reference. If originDir is
// not empty, it is searched before the roots. A root is searched recursively, and
// a file matches if reference is a substring of its path (root included), so partial
// references are fine. The search stops at the first root with at least one match.
// If there are several matches in that root, the Chooser decides.
func (R *Resolver) Resolve(reference, originDir string) (string, error) {
	roots := make([]string, 0, len(R.Roots)+1) //we don't touch R.Roots
	if originDir != "" {
		roots = append(roots, originDir)
	}
	roots = append(roots, R.Roots...)
	var matched []string
	for _, root := range roots {
		matched = search(root, reference)
		if len(matched) != 0 {
			break
		}
	}
	switch len(matched) {
	case 0:
		return "", newNotFoundError(reference, roots, "Resolve")
	case 1:
		return matched[0], nil
	}
	if R.Choose == nil {
		return "", newSelectionError(reference, matched, -1, nil, "Resolve")
	}
	i, err := R.Choose(reference, matched)
	if err != nil || i < 0 || i >= len(matched) {
		return "", newSelectionError(reference, matched, i, err, "Resolve")
	}
	return matched[i], nil
}

// returns all the files under root whose path contains reference. The paths
// are root joined to the walked names without cleaning, so a "./" root stays in
// them. The files in a directory come before those in its subdirectories.
// Symlinked directories are followed, but each real directory is visited only once.
func search(root, reference string) []string {
	matched := make([]string, 0, 2)
	seen := make(map[string]bool)
	var walk func(dir string)
	walk = func(dir string) {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil || seen[real] {
			return
		}
		seen[real] = true
		entries, err := os.ReadDir(dir)
		if err != nil {
			return //unreadable directories are just skipped
		}
		subdirs := make([]string, 0, len(entries))
		for _, e := range entries {
			path := join(dir, e.Name())
			isdir := e.IsDir()
			if e.Type()&fs.ModeSymlink != 0 {
				info, err := os.Stat(path)
				if err != nil {
					continue
				}
				isdir = info.IsDir()
			}
			if isdir {
				subdirs = append(subdirs, path)
				continue
			}
			if strings.Contains(path, reference) {
				matched = append(matched, path)
			}
		}
		for _, d := range subdirs {
			walk(d)
		}
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return matched
	}
	walk(root)
	return matched
}

// joins dir and name with a separator, unlike filepath.Join it doesn't clean the result.
func join(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
