package top

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MoleculeEntry is a molecule type in a Manifest.
type MoleculeEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// MoleculeCount is a line of the [ molecules ] section.
type MoleculeCount struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Manifest describes the files Write produces for a topology,
// and what is in them.
type Manifest struct {
	Output     string          `yaml:"output"`
	Sources    []string        `yaml:"sources,omitempty"`
	Parameters string          `yaml:"parameters"`
	Molecules  []MoleculeEntry `yaml:"molecules"`
	System     []MoleculeCount `yaml:"system"`
	NMol       int             `yaml:"nmol"`
	PosRes     [3]float64      `yaml:"posres,flow"`
}

// Manifest returns the description of what Write(sink, output, ...) would write.
func (T *Topology) Manifest(output string) Manifest {
	dir := filepath.Dir(output)
	M := Manifest{
		Output:     output,
		Parameters: filepath.Join(dir, T.parametersFile(output)),
		Molecules:  make([]MoleculeEntry, 0, len(T.MoleculeNames)),
		System:     make([]MoleculeCount, 0, len(T.SystemMol)),
		NMol:       T.p.NMol,
		PosRes:     T.p.PosRes,
	}
	for i, v := range T.MoleculeNames {
		M.Molecules = append(M.Molecules, MoleculeEntry{Name: v, File: filepath.Join(dir, T.moleculeFile(output, i))})
	}
	for _, v := range T.SystemMol {
		if header.IsComment(v) {
			continue
		}
		f := fi(v)
		if len(f) < 2 {
			continue
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			continue
		}
		M.System = append(M.System, MoleculeCount{Name: f[0], Count: n})
	}
	return M
}

// WriteTo writes the manifest in YAML format to w.
func (M Manifest) WriteTo(w io.Writer) (int64, error) {
	b, err := yaml.Marshal(M)
	if err != nil {
		return 0, fmt.Errorf("top/Manifest.WriteTo: %w", err)
	}
	n, err := w.Write(b)
	return int64(n), err
}

// ReadManifest reads a manifest, in YAML, from r.
func ReadManifest(r io.Reader) (Manifest, error) {
	var M Manifest
	if err := yaml.NewDecoder(r).Decode(&M); err != nil {
		return M, fmt.Errorf("top/ReadManifest: %w", err)
	}
	return M, nil
}
