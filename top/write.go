package top

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Returns the name of the parameters file for the given output.
func (T *Topology) parametersFile(output string) string {
	return sf("%s_parameters.itp", T.prefix(output))
}

// Returns the name of the file for the ith molecule.
func (T *Topology) moleculeFile(output string, i int) string {
	return sf("%s_%02d_%s.itp", T.prefix(output), i, T.MoleculeNames[i])
}

// if no prefix was given, the name of the output file, without extension, is used.
func (T *Topology) prefix(output string) string {
	if T.p.Prefix != "" {
		return T.p.Prefix
	}
	base := filepath.Base(output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeLines(sink Sink, name string, lines ...[]string) error {
	f, err := sink.Create(name)
	if err != nil {
		return fmt.Errorf("top/writeLines: %w", err)
	}
	for _, l := range lines {
		for _, v := range l {
			if _, err = io.WriteString(f, v); err != nil {
				f.Close()
				return fmt.Errorf("top/writeLines: Couldn't write to %s: %w", name, err)
			}
		}
	}
	return f.Close()
}

// Write writes the topology to the file output, created through sink. The parameters
// and each molecule type go to their own files, in the same directory as output, which
// are included from it. created, if not nil, is called with the name of each file,
// after it is written, the main file last.
func (T *Topology) Write(sink Sink, output string, created func(name string)) error {
	if created == nil {
		created = func(string) {}
	}
	dir := filepath.Dir(output)
	par := T.parametersFile(output)
	if err := writeLines(sink, filepath.Join(dir, par), T.Parameters); err != nil {
		return err
	}
	created(filepath.Join(dir, par))
	body := make([]string, 0, len(T.Defaults)+len(T.MoleculeNames)+len(T.SystemName)+len(T.SystemMol)+12)
	body = append(body, T.Defaults...)
	body = append(body, "; include parameter file\n", sf("#include \"%s\"\n", par), "\n")
	body = append(body, "; include molecules information\n")
	for i, v := range T.MoleculesInfo {
		name := T.moleculeFile(output, i)
		if err := writeLines(sink, filepath.Join(dir, name), v); err != nil {
			return err
		}
		created(filepath.Join(dir, name))
		body = append(body, sf("#include \"%s\"\n", name))
	}
	body = append(body, "\n", "[ system ]\n")
	body = append(body, T.SystemName...)
	body = append(body, "\n", "[ molecules ]\n")
	body = append(body, T.SystemMol...)
	body = append(body, "\n")
	if err := writeLines(sink, output, body); err != nil {
		return err
	}
	created(output)
	return nil
}
