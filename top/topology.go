/*
 * topology.go, part of topmerge
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
	"errors"
	"fmt"
	"io"

	"github.com/rmera/topmerge/include"
)

// Params are the construction parameters of a Topology. They
// can't be changed once the Topology is built.
type Params struct {
	Library []string   //Directories where included files are searched for.
	NMol    int        //The molecule counts in [ molecules ] are multiplied by this.
	PosRes  [3]float64 //Force constants that replace those in [ position_restraints ].
	Prefix  string     //Prefix for the names of the output files.
}

// DefaultParams returns the parameters that leave the topology unchanged, except
// for the position restraints, which are set to 1000 in all directions.
func DefaultParams() Params {
	return Params{
		Library: []string{"."},
		NMol:    1,
		PosRes:  [3]float64{1000, 1000, 1000},
	}
}

// Topology is a Gromacs topology split in its sections. It is not to be
// confused with the chemical topology of a molecule: it's just lines of text,
// classified (see New) by the section they belong to.
type Topology struct {
	p Params

	Defaults      []string   //[ defaults ], and anything before it.
	Parameters    []string   //force field parameters ([ atomtypes ], [ bondtypes ], ...)
	MoleculeNames []string   //one per moleculetype
	MoleculesInfo [][]string //The lines of each [ moleculetype ] block, from its directive on.
	SystemName    []string   //the contents of [ system ]
	SystemMol     []string   //the contents of [ molecules ]
}

// New classifies the lines of a flat topology (i.e. without includes, see
// include.Flattener) in sections, and cleans each section's empty lines.
func New(lines []string, p Params) (*Topology, error) {
	T := &Topology{p: p}
	T.p.Library = append([]string(nil), p.Library...)
	if err := T.classify(lines); err != nil {
		return nil, err
	}
	T.clean()
	return T, nil
}

// NewFromReader is like New, but it reads the lines from r first.
func NewFromReader(r StringReader, p Params) (*Topology, error) {
	lines := make([]string, 0, 500)
	var l string
	var err error
	for l, err = r.ReadString('\n'); err == nil; l, err = r.ReadString('\n') {
		lines = append(lines, l)
	}
	if l != "" {
		lines = append(lines, l)
	}
	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("top/NewFromReader: %w", err)
	}
	return New(lines, p)
}

// FromFile reads the topology in the file path, following its includes, which are searched
// for in the directory of the including file and in p.Library. choose is called when an
// include matches several files.
func FromFile(path string, p Params, choose include.Chooser) (*Topology, error) {
	F := include.NewFlattener(include.NewResolver(p.Library, choose))
	lines, err := F.Flatten(path)
	if err != nil {
		return nil, err
	}
	T, err := New(lines, p)
	if err != nil {
		var me *MalformedIndexError
		if errors.As(err, &me) {
			me.filename = path
			me.Decorate("FromFile")
		}
		return nil, err
	}
	return T, nil
}

// Library returns the directories used to search for included files.
func (T *Topology) Library() []string { return append([]string(nil), T.p.Library...) }

// NMol returns the factor applied to the molecule counts.
func (T *Topology) NMol() int { return T.p.NMol }

// PosRes returns the position restraint force constants.
func (T *Topology) PosRes() [3]float64 { return T.p.PosRes }

// Prefix returns the prefix for output files.
func (T *Topology) Prefix() string { return T.p.Prefix }

// Params returns a copy of the construction parameters.
func (T *Topology) Params() Params {
	p := T.p
	p.Library = T.Library()
	return p
}

// MoleculeInfo returns the lines of the ith molecule
// or panics if i is out of range.
func (T *Topology) MoleculeInfo(i int) []string {
	return T.MoleculesInfo[i]
}

// Len returns the number of molecule types in the topology.
func (T *Topology) Len() int { return len(T.MoleculeNames) }
