// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"golang.org/x/exp/mmap"

	"github.com/devblok/korufx/utility/kar"
)

func writeTestArchive(c *qt.C) string {
	raw := buildArchive(c, map[string]string{
		"test/test1.txt": "this is a test",
		"test/test2.txt": "this is another test",
	}, "test/test1.txt", "test/test2.txt")
	path := filepath.Join(c.TempDir(), "opentest.kar")
	c.Assert(os.WriteFile(path, raw, 0644), qt.IsNil)
	return path
}

func readFileAndCompare(c *qt.C, f *kar.Reader, expected string) {
	result := make([]byte, len(expected))
	n, err := io.ReadFull(f, result)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, len(expected))
	c.Assert(string(result), qt.Equals, expected)
}

func TestOpen(t *testing.T) {
	c := qt.New(t)
	r, err := os.Open(writeTestArchive(c))
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)
	c.Assert(ar.Names(), qt.HasLen, 2)
}

func TestOpenmmap(t *testing.T) {
	c := qt.New(t)
	r, err := mmap.Open(writeTestArchive(c))
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)

	f, err := ar.Open("test/test2.txt")
	c.Assert(err, qt.IsNil)
	readFileAndCompare(c, f, "this is another test")
}

func TestOpenAndRead(t *testing.T) {
	c := qt.New(t)
	r, err := os.Open(writeTestArchive(c))
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)

	f, err := ar.Open("test/test1.txt")
	c.Assert(err, qt.IsNil)
	readFileAndCompare(c, f, "this is a test")

	f, err = ar.Open("test/test2.txt")
	c.Assert(err, qt.IsNil)
	readFileAndCompare(c, f, "this is another test")
}

func TestOpenAndReadAll(t *testing.T) {
	c := qt.New(t)
	r, err := mmap.Open(writeTestArchive(c))
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)

	f, err := ar.ReadAll("test/test1.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(f), qt.Equals, "this is a test")

	f, err = ar.ReadAll("test/test2.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(f), qt.Equals, "this is another test")
}
