package top

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rmera/topmerge/include"
)

// StringReader reads a topology one line at a time.
type StringReader interface {
	ReadString(byte) (string, error)
}

// Lines represents a topology (or any text file) stored in memory, as opposed
// to in a file. Each element is a line, including its '\n'. It can be read
// and written line by line.
type Lines struct {
	t []string
	i int
}

// Returns a new Lines, with the topology
// represented by the given slice of strings (each
// string must correspond to one line of the file, including
// the respective '\n').
func NewLines(t []string) *Lines {
	return &Lines{t: t, i: 0}
}

// LinesFromFile reads the file fname (which can be gzip or zstd
// compressed) into a Lines object.
func LinesFromFile(fname string) (*Lines, error) {
	f, err := include.OpenFile(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := include.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("top/LinesFromFile: %w", err)
	}
	return NewLines(t), nil
}

// Returns a deep copy of the lines
func (t *Lines) Copy() *Lines {
	s := make([]string, len(t.t))
	copy(s, t.t)
	return NewLines(s)
}

// Resets the reader to start from the first line
func (t *Lines) Reset() {
	t.i = 0
}

func (t *Lines) Len() int {
	return len(t.t)
}

// Slice returns the lines. The slice is not a copy.
func (t *Lines) Slice() []string {
	return t.t
}

// String returns all the lines joined.
func (t *Lines) String() string {
	return strings.Join(t.t, "")
}

// Adds a string to the topology. The string is split in lines, so
// several lines can be written at once, and a line can be written in
// several calls.
func (t *Lines) WriteString(s string) (int, error) {
	n := len(s)
	if len(t.t) > 0 && !strings.HasSuffix(t.t[len(t.t)-1], "\n") {
		//the previous line was not finished.
		first, rest, found := strings.Cut(s, "\n")
		if !found {
			t.t[len(t.t)-1] += first
			return n, nil
		}
		t.t[len(t.t)-1] += first + "\n"
		s = rest
	}
	for s != "" {
		line, rest, found := strings.Cut(s, "\n")
		if found {
			line += "\n"
		}
		t.t = append(t.t, line)
		s = rest
	}
	return n, nil
}

// Write implements io.Writer.
func (t *Lines) Write(p []byte) (int, error) {
	return t.WriteString(string(p))
}

// Close does nothing, it is there so Lines is an io.WriteCloser.
func (t *Lines) Close() error { return nil }

// Returns the next line in the topology. Note that the byte argument is
// not used, you can't choose how much you want to read, it's always the
// full next line (unlike in the bufio.Reader ReadString method).
func (t *Lines) ReadString(byte) (string, error) {
	if t.i >= len(t.t) {
		t.i = 0 //you can re-start reading it.
		return "", io.EOF
	}
	t.i++
	return t.t[t.i-1], nil
}

func (t *Lines) WriteToFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("top/Lines.WriteToFile: %w", err)
	}
	for i, v := range t.t {
		_, err = f.WriteString(v)
		if err != nil {
			f.Close()
			return fmt.Errorf("top/Lines.WriteToFile: Couldn't write %d-th line to file: %w", i+1, err)
		}
	}
	return f.Close()
}

// Sink creates the files a topology is written to.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// DirSink creates files on disk. Names are used as given.
type DirSink struct{}

func (DirSink) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// MemSink keeps the "files" as Lines in memory, with the
// file name as key
type MemSink map[string]*Lines

func (M MemSink) Create(name string) (io.WriteCloser, error) {
	l := NewLines(make([]string, 0, 50))
	M[filepath.Clean(name)] = l
	return l, nil
}

// Names returns the file names in the sink, sorted.
func (M MemSink) Names() []string {
	ret := make([]string, 0, len(M))
	for k := range M {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
