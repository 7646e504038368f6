/*
 * open.go, part of topmerge
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// zstd.Decoder's Close doesn't return an error, so it can't be
// an io.ReadCloser by itself.
type zstdql struct {
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.Decoder.Close()
	return nil
}

// closes both the decompressor and the underlying file.
type chainCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *chainCloser) Close() error {
	var err error
	for _, v := range c.closers {
		if e := v.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// OpenFile opens the file name for reading. Files ending in .gz are read through
// a gzip decompressor and files ending in .zst through a zstd one; anything
// else is read as plain text.
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("include/OpenFile: %w", err)
	}
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".gz"):
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case strings.HasSuffix(strings.ToLower(name), ".zst"):
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) {
			r, err := zstd.NewReader(a)
			if err != nil {
				return nil, err
			}
			return zstdql{r}, nil
		}
	default:
		return f, nil
	}
	r, err := AnyNewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("include/OpenFile: can't decompress %s: %w", name, err)
	}
	return &chainCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// ReadLines reads r to the end and returns its lines. Each line keeps its
// trailing newline, the last one may lack it.
func ReadLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0, 100)
	re := bufio.NewReader(r)
	var l string
	var err error
	for l, err = re.ReadString('\n'); err == nil; l, err = re.ReadString('\n') {
		lines = append(lines, l)
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}
	if l != "" {
		lines = append(lines, l)
	}
	return lines, nil
}

// reads the whole file name with open.
func readFile(name string, open func(string) (io.ReadCloser, error)) ([]string, error) {
	f, err := open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("couldn't read %s: %w", name, err)
	}
	return lines, nil
}
