/*
 * merge.go, part of topmerge
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

package top

import (
	"slices"
	"strings"
)

// ParameterGroup is a directive line and the lines that follow it, up to the next
// directive. The lines before the first directive form a group with an empty Directive.
type ParameterGroup struct {
	Directive string
	Lines     []string
}

// GroupParameters splits the lines in groups, one per directive.
func GroupParameters(lines []string) []ParameterGroup {
	groups := make([]ParameterGroup, 0, 10)
	for _, l := range lines {
		if header.Is(l) {
			groups = append(groups, ParameterGroup{Directive: l, Lines: make([]string, 0, 20)})
			continue
		}
		if len(groups) == 0 {
			groups = append(groups, ParameterGroup{Lines: make([]string, 0, 5)})
		}
		groups[len(groups)-1].Lines = append(groups[len(groups)-1].Lines, l)
	}
	return groups
}

// joins the groups back in one slice of lines.
func ungroup(groups []ParameterGroup) []string {
	ret := make([]string, 0, 10*len(groups))
	for _, g := range groups {
		if g.Directive != "" {
			ret = append(ret, g.Directive)
		}
		ret = append(ret, g.Lines...)
	}
	return ret
}

// finds the group with the given directive, returns -1 if there isn't one.
func findGroup(groups []ParameterGroup, directive string) int {
	return slices.IndexFunc(groups, func(g ParameterGroup) bool { return g.Directive == directive })
}

// MergeParameters returns the lines in a with those of b that were not there
// already added. The lines of b go under the same directive they had in b. A directive
// not present in a is inserted right after the group the previous directive of b
// went to (after the first group of a, for the first directive of b). Neither a nor b are modified.
func MergeParameters(a, b []string) []string {
	groups := GroupParameters(a)
	for i, g := range groups {
		groups[i].Lines = slices.Clone(g.Lines)
	}
	active := 0
	for _, g := range GroupParameters(b) {
		if i := findGroup(groups, g.Directive); i >= 0 {
			active = i
		} else {
			active = min(active+1, len(groups))
			groups = slices.Insert(groups, active, ParameterGroup{Directive: g.Directive, Lines: make([]string, 0, len(g.Lines))})
		}
		for _, l := range g.Lines {
			if !slices.Contains(groups[active].Lines, l) {
				groups[active].Lines = append(groups[active].Lines, l)
			}
		}
	}
	return ungroup(groups)
}

// Redefinition is a parameter line in a topology that has the same
// key as one in another topology, under the same directive, but is not
// identical to it. The key is the atom types (or atom type, or names) the
// parameter applies to, see keyFields.
type Redefinition struct {
	Directive string
	Old       string
	New       string
}

// the number of leading fields that identify a parameter, per directive.
// Directives not listed use 2.
var keyFields = map[string]int{
	"atomtypes":       1,
	"bondtypes":       2,
	"pairtypes":       2,
	"constrainttypes": 2,
	"nonbond_params":  2,
	"angletypes":      3,
	"dihedraltypes":   4,
	"cmaptypes":       5,
}

// returns the key of the line under the given directive line, or nil if the
// line is not a parameter.
func paramKey(directive, line string) []string {
	if header.IsComment(line) || header.IsBlank(line) {
		return nil
	}
	n, ok := keyFields[header.Which(directive)]
	if !ok {
		n = 2
	}
	f := fi(header.delcomments(line))
	if len(f) < n {
		return nil
	}
	return f[:n]
}

// Redefinitions returns the lines of b which would redefine, rather than add
// to, a parameter in a, if the two were merged. MergeParameters would keep both.
func Redefinitions(a, b []string) []Redefinition {
	ret := make([]Redefinition, 0)
	ga := GroupParameters(a)
	for _, g := range GroupParameters(b) {
		i := findGroup(ga, g.Directive)
		if i < 0 {
			continue
		}
		for _, l := range g.Lines {
			k := paramKey(g.Directive, l)
			if k == nil || slices.Contains(ga[i].Lines, l) {
				continue
			}
			for _, old := range ga[i].Lines {
				if slices.Equal(k, paramKey(g.Directive, old)) {
					ret = append(ret, Redefinition{Directive: strings.TrimSpace(g.Directive), Old: old, New: l})
					break
				}
			}
		}
	}
	return ret
}

// the data fields of the lines, ignoring comments, blank lines and directives.
func dataFields(lines []string) [][]string {
	ret := make([][]string, 0, len(lines))
	for _, l := range lines {
		if header.IsComment(l) || header.IsBlank(l) || header.Is(l) {
			continue
		}
		ret = append(ret, fi(header.delcomments(l)))
	}
	return ret
}

// DefaultsConflict returns true if the [ defaults ] sections of T and o
// don't have the same data. Formatting and comments don't count. When the two topologies
// are merged, the defaults of T are kept.
func (T *Topology) DefaultsConflict(o *Topology) bool {
	a := dataFields(T.Defaults)
	b := dataFields(o.Defaults)
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return !slices.EqualFunc(a, b, func(x, y []string) bool { return slices.Equal(x, y) })
}

// Merge adds the molecules, parameters and molecule counts of o to T, and
// returns T. o is not modified. The defaults and system name of T are kept.
func (T *Topology) Merge(o *Topology) *Topology {
	T.MoleculeNames = append(T.MoleculeNames, o.MoleculeNames...)
	for _, v := range o.MoleculesInfo {
		T.MoleculesInfo = append(T.MoleculesInfo, slices.Clone(v))
	}
	for _, v := range o.SystemMol {
		if header.IsComment(v) {
			continue
		}
		T.SystemMol = append(T.SystemMol, v)
	}
	T.Parameters = MergeParameters(T.Parameters, o.Parameters)
	return T
}
