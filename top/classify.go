/*
 * classify.go, part of topmerge
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
	"strconv"
)

// The section of the topology a line belongs to.
type section int

const (
	none section = iota
	defaults
	parameters
	molecule
	systemName
	systemMol
)

var sectionNames = map[section]string{
	none:       "none",
	defaults:   "defaults",
	parameters: "parameters",
	molecule:   "moleculetype",
	systemName: "system",
	systemMol:  "molecules",
}

func (s section) String() string { return sectionNames[s] }

const moleculeTypeLine = "[ moleculetype ]\n"

// classifier keeps the state of a single pass over the lines of a topology.
type classifier struct {
	T       *Topology
	state   section
	posres  bool
	pending []string //the current molecule, before its name line has been read.
}

// classify puts each line in lines into the section of T it belongs to.
func (T *Topology) classify(lines []string) error {
	c := &classifier{T: T, state: none}
	for i, line := range lines {
		if header.Is(line) {
			c.directive(line)
			continue
		}
		if err := c.data(line, i+1); err != nil {
			return err
		}
	}
	//A moleculetype directive with no name line never becomes a molecule.
	return nil
}

func (c *classifier) directive(line string) {
	T := c.T
	switch name := header.Which(line); name {
	case "molecules":
		c.state = systemMol
	case "system":
		c.state = systemName
	case "moleculetype":
		c.state = molecule
		c.posres = false
		c.pending = []string{moleculeTypeLine}
	case "defaults":
		c.state = defaults
		T.Defaults = append(T.Defaults, line)
	default:
		switch c.state {
		case defaults, parameters:
			c.state = parameters
			T.Parameters = append(T.Parameters, line)
		case molecule:
			c.posres = name == "position_restraints"
			c.append(line)
		}
		//other directives outside of these sections are dropped.
	}
}

// appends the line to the pending molecule, if there is one, or to the last one.
func (c *classifier) append(line string) {
	if c.pending != nil {
		c.pending = append(c.pending, line)
		return
	}
	last := len(c.T.MoleculesInfo) - 1
	c.T.MoleculesInfo[last] = append(c.T.MoleculesInfo[last], line)
}

func (c *classifier) data(line string, number int) error {
	T := c.T
	switch c.state {
	case none, defaults:
		T.Defaults = append(T.Defaults, line)
	case parameters:
		T.Parameters = append(T.Parameters, line)
	case molecule:
		c.moleculeLine(line)
	case systemName:
		T.SystemName = append(T.SystemName, line)
	case systemMol:
		if header.IsBlank(line) {
			return nil
		}
		if header.IsComment(line) {
			T.SystemMol = append(T.SystemMol, line)
			return nil
		}
		f := fi(header.delcomments(line))
		if len(f) < 2 {
			return newMalformedIndexError(line, number, "classify")
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return newMalformedIndexError(line, number, "classify")
		}
		T.SystemMol = append(T.SystemMol, sf("%-15s %7d\n", f[0], n*T.p.NMol))
	}
	return nil
}

func (c *classifier) moleculeLine(line string) {
	T := c.T
	if c.pending != nil {
		if header.IsComment(line) || header.IsBlank(line) {
			c.pending = append(c.pending, line)
			return
		}
		T.MoleculeNames = append(T.MoleculeNames, fi(line)[0])
		T.MoleculesInfo = append(T.MoleculesInfo, append(c.pending, line))
		c.pending = nil
		return
	}
	if c.posres && header.IsPosRes(line) {
		f := fi(line)
		p := T.p.PosRes
		line = sf("%6s %5s %7s %7s %7s\n", f[0], f[1], fieldFloat(p[0]), fieldFloat(p[1]), fieldFloat(p[2]))
	}
	c.append(line)
}
