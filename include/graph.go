/*
 * graph.go, part of topmerge
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
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// IncludeGraph is the directed graph of include statements of a topology.
// There is an edge from each file to every file it includes.
type IncludeGraph struct {
	g     *simple.DirectedGraph
	paths []string //indexed by node ID
	ids   map[string]int64
	self  []string //files including themselves. simple graphs don't allow self-edges.
}

// Graph builds the include graph starting from the file path. Unlike Flatten, each
// file is read only once, so it also works (and is useful) for cyclic includes.
func Graph(path string, r *Resolver, open ...func(string) (io.ReadCloser, error)) (*IncludeGraph, error) {
	o := OpenFile
	if len(open) > 0 && open[0] != nil {
		o = open[0]
	}
	G := &IncludeGraph{g: simple.NewDirectedGraph(), ids: make(map[string]int64)}
	err := G.walk(filepath.Clean(path), r, o)
	return G, err
}

func (G *IncludeGraph) node(path string) (graph.Node, bool) {
	if id, ok := G.ids[path]; ok {
		return G.g.Node(id), false
	}
	n := simple.Node(len(G.paths))
	G.ids[path] = n.ID()
	G.paths = append(G.paths, path)
	G.g.AddNode(n)
	return n, true
}

func (G *IncludeGraph) walk(path string, r *Resolver, open func(string) (io.ReadCloser, error)) error {
	from, _ := G.node(path)
	lines, err := readFile(path, open)
	if err != nil {
		return fmt.Errorf("include/Graph: %w", err)
	}
	for i, v := range lines {
		if !IsInclude(v) {
			continue
		}
		target, err := r.Resolve(Reference(v), filepath.Dir(path))
		if err != nil {
			return fmt.Errorf("include/Graph: %s line %d: %w", path, i+1, err)
		}
		target = filepath.Clean(target)
		to, isnew := G.node(target)
		if to.ID() == from.ID() {
			G.self = append(G.self, path)
			continue
		}
		G.g.SetEdge(G.g.NewEdge(from, to))
		if isnew {
			if err := G.walk(target, r, open); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len returns the number of files in the graph.
func (G *IncludeGraph) Len() int { return len(G.paths) }

// Files returns the files in the graph, in the order they were found.
func (G *IncludeGraph) Files() []string { return append([]string(nil), G.paths...) }

// Edges returns every (includer, included) pair.
func (G *IncludeGraph) Edges() [][2]string {
	ret := make([][2]string, 0, len(G.paths))
	for id, p := range G.paths {
		to := graph.NodesOf(G.g.From(int64(id)))
		sortByID(to)
		for _, n := range to {
			ret = append(ret, [2]string{p, G.paths[n.ID()]})
		}
	}
	for _, v := range G.self {
		ret = append(ret, [2]string{v, v})
	}
	return ret
}

// Cycles returns the include cycles in the graph. Each cycle starts and
// ends with the same file.
func (G *IncludeGraph) Cycles() [][]string {
	ret := make([][]string, 0)
	for _, v := range G.self {
		ret = append(ret, []string{v, v})
	}
	for _, c := range topo.DirectedCyclesIn(G.g) {
		s := make([]string, 0, len(c))
		for _, n := range c {
			s = append(s, G.paths[n.ID()])
		}
		ret = append(ret, s)
	}
	return ret
}

// Order returns the files in dependency order: every file comes after all
// the files it includes, so the top file is last. It returns an error if the
// includes are cyclic.
func (G *IncludeGraph) Order() ([]string, error) {
	if len(G.self) > 0 {
		return nil, fmt.Errorf("include/IncludeGraph.Order: file(s) including themselves: %s", strings.Join(G.self, ", "))
	}
	sorted, err := topo.SortStabilized(G.g, sortByID)
	if err != nil {
		cycles := make([]string, 0)
		for _, c := range G.Cycles() {
			cycles = append(cycles, strings.Join(c, " -> "))
		}
		return nil, fmt.Errorf("include/IncludeGraph.Order: cyclic includes: %s", strings.Join(cycles, "; "))
	}
	ret := make([]string, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		ret = append(ret, G.paths[sorted[i].ID()])
	}
	return ret, nil
}

func sortByID(n []graph.Node) {
	sort.Slice(n, func(i, j int) bool { return n[i].ID() < n[j].ID() })
}
