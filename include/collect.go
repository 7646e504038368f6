package include

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Collector copies a topology and every fragment it (recursively) includes next
// to a new output file, so the result doesn't depend on the library paths anymore.
// Each fragment is copied as <Prefix>_<basename>, and include lines are rewritten
// to point to the copies. An empty Prefix means the name of the output file,
// without its extension.
type Collector struct {
	Resolver *Resolver
	Open     func(string) (io.ReadCloser, error)
	//Create is used to write every output file. If nil, os.Create is used.
	Create func(string) (io.WriteCloser, error)
	Prefix string
}

// Collect writes output, a copy of path with all its includes collected. It
// returns the created files, output last. Output names of fragments are relative
// to the directory of output.
func (C *Collector) Collect(path, output string) ([]string, error) {
	created := make([]string, 0, 5)
	c := *C
	if c.Prefix == "" {
		base := filepath.Base(output)
		c.Prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return c.collect(path, output, filepath.Dir(output), created)
}

func (C *Collector) collect(path, output, dir string, created []string) ([]string, error) {
	open := C.Open
	if open == nil {
		open = OpenFile
	}
	lines, err := readFile(path, open)
	if err != nil {
		return created, fmt.Errorf("include/Collector.Collect: %w", err)
	}
	out := make([]string, 0, len(lines))
	for i, v := range lines {
		if !IsInclude(v) {
			out = append(out, v)
			continue
		}
		target, err := C.Resolver.Resolve(Reference(v), filepath.Dir(path))
		if err != nil {
			return created, fmt.Errorf("include/Collector.Collect: %s line %d: %w", path, i+1, err)
		}
		name := C.fragmentName(target)
		out = append(out, fmt.Sprintf("#include \"%s\"\n", name))
		created, err = C.collect(target, filepath.Join(dir, name), dir, created)
		if err != nil {
			return created, err
		}
	}
	if err := C.write(output, out); err != nil {
		return created, err
	}
	return append(created, output), nil
}

// compressed fragments are written decompressed, GROMACS can't read them otherwise.
func (C *Collector) fragmentName(target string) string {
	base := filepath.Base(target)
	for _, ext := range []string{".gz", ".zst"} {
		base = strings.TrimSuffix(base, ext)
	}
	if C.Prefix == "" {
		return base
	}
	return C.Prefix + "_" + base
}

func (C *Collector) write(name string, lines []string) error {
	create := C.Create
	if create == nil {
		create = func(s string) (io.WriteCloser, error) { return os.Create(s) }
	}
	f, err := create(name)
	if err != nil {
		return fmt.Errorf("include/Collector.Collect: %w", err)
	}
	for i, v := range lines {
		if _, err = io.WriteString(f, v); err != nil {
			f.Close()
			return fmt.Errorf("include/Collector.Collect: Couldn't write %d-th line to %s: %w", i+1, name, err)
		}
	}
	return f.Close()
}
