// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseFlags(t *testing.T) {
	c := qt.New(t)

	o, err := parseFlags(flag.NewFlagSet("kar", flag.ContinueOnError), []string{"-c", "assets", "-f", "a.kar", "-version", "3"})
	c.Assert(err, qt.IsNil)
	c.Assert(o.compress, qt.Equals, "assets")
	c.Assert(o.dstFile, qt.Equals, "a.kar")
	c.Assert(o.version, qt.Equals, int64(3))

	_, err = parseFlags(flag.NewFlagSet("kar", flag.ContinueOnError), []string{"-c", "assets", "-l", "a.kar"})
	c.Assert(err, qt.ErrorMatches, "only one operation at a time")
}

func TestCompressListExtract(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()

	src := filepath.Join(dir, "assets")
	c.Assert(os.MkdirAll(filepath.Join(src, "shaders"), 0755), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(src, "pipeline.yaml"), []byte("stages: []\n"), 0644), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(src, "shaders", "quad.vert"), []byte("#version 460 core\n"), 0644), qt.IsNil)

	archive := filepath.Join(dir, "assets.kar")
	o := options{author: "devblok", version: 2, compress: src}
	c.Assert(compressFiles(o, archive), qt.IsNil)
	c.Assert(compressFiles(o, archive), qt.ErrorMatches, "destination file exists, will not overwrite")

	var listing bytes.Buffer
	c.Assert(listFiles(&listing, archive), qt.IsNil)
	lines := strings.Split(strings.TrimSpace(listing.String()), "\n")
	c.Assert(lines, qt.HasLen, 3)
	c.Assert(lines[0], qt.Matches, "author: devblok, version: 2, created: .*")
	c.Assert(lines[1], qt.Matches, `\s+11\s+\d+ pipeline.yaml`)
	c.Assert(lines[2], qt.Matches, `\s+18\s+\d+ shaders/quad.vert`)

	out := filepath.Join(dir, "out")
	c.Assert(extractFiles(archive, out), qt.IsNil)
	contents, err := os.ReadFile(filepath.Join(out, "shaders", "quad.vert"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(contents), qt.Equals, "#version 460 core\n")
	c.Assert(extractFiles(archive, out), qt.ErrorMatches, ".* exists, will not overwrite")
}

func TestArchiveName(t *testing.T) {
	c := qt.New(t)

	name, err := archiveName("assets", filepath.Join("assets", "shaders", "a.frag"))
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "shaders/a.frag")

	name, err = archiveName("cube.dae", "cube.dae")
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "cube.dae")
}
