// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/packr"

	"github.com/devblok/korufx/asset"
	"github.com/devblok/korufx/utility/kar"
)

var testShaders = []string{
	"shaders/README",
	"shaders/broken.frag",
	"shaders/invert.comp.glsl",
	"shaders/invert.frag",
	"shaders/quad.vert",
}

func writeArchive(c *qt.C, files map[string]string) string {
	builder, err := kar.NewBuilder(kar.Header{Author: "asset test"})
	c.Assert(err, qt.IsNil)
	defer builder.Close()
	for name, contents := range files {
		c.Assert(builder.Add(name, strings.NewReader(contents)), qt.IsNil)
	}
	path := filepath.Join(c.TempDir(), "assets.kar")
	f, err := os.Create(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	_, err = builder.WriteTo(f)
	c.Assert(err, qt.IsNil)
	return path
}

func TestSources(t *testing.T) {
	c := qt.New(t)

	archive, err := asset.OpenArchive(writeArchive(c, map[string]string{
		"shaders/quad.vert": "#version 460 core\n",
		"scene.dae":         "<COLLADA/>",
	}))
	c.Assert(err, qt.IsNil)
	defer archive.Close()

	tests := []struct {
		about    string
		src      asset.Source
		existing string
		names    []string
	}{{
		about:    "directory",
		src:      asset.DirSource("testdata"),
		existing: "shaders/quad.vert",
		names:    testShaders,
	}, {
		about:    "packr box",
		src:      asset.BoxSource{Box: packr.NewBox("./testdata")},
		existing: "shaders/quad.vert",
		names:    testShaders,
	}, {
		about:    "kar archive",
		src:      archive,
		existing: "shaders/quad.vert",
	}, {
		about:    "memory",
		src:      asset.MapSource{"scene.dae": []byte("<COLLADA/>"), "a/b.frag": nil},
		existing: "scene.dae",
		names:    []string{"a/b.frag", "scene.dae"},
	}}
	for _, test := range tests {
		c.Run(test.about, func(c *qt.C) {
			contents, err := test.src.ReadFile(test.existing)
			c.Assert(err, qt.IsNil)
			c.Assert(len(contents) > 0, qt.IsTrue)

			_, err = test.src.ReadFile("missing/file")
			c.Assert(err, qt.ErrorIs, asset.ErrNotFound)

			names, err := test.src.List()
			c.Assert(err, qt.IsNil)
			if test.names != nil {
				c.Assert(names, qt.DeepEquals, test.names)
			} else {
				c.Assert(names, qt.HasLen, 2)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	c := qt.New(t)
	fallback := asset.MapSource{}

	src, err := asset.Open("", fallback)
	c.Assert(err, qt.IsNil)
	c.Assert(src, qt.DeepEquals, asset.Source(fallback))

	src, err = asset.Open("testdata", fallback)
	c.Assert(err, qt.IsNil)
	c.Assert(src, qt.Equals, asset.Source(asset.DirSource("testdata")))
	c.Assert(asset.Close(src), qt.IsNil)

	src, err = asset.Open(writeArchive(c, map[string]string{"a": "b"}), fallback)
	c.Assert(err, qt.IsNil)
	contents, err := src.ReadFile("a")
	c.Assert(err, qt.IsNil)
	c.Assert(string(contents), qt.Equals, "b")
	c.Assert(asset.Close(src), qt.IsNil)

	_, err = asset.Open("testdata/shaders/quad.vert", fallback)
	c.Assert(err, qt.ErrorMatches, `asset: .* is neither a directory nor a kar archive`)

	_, err = asset.Open(filepath.Join(c.TempDir(), "missing"), fallback)
	c.Assert(err, qt.ErrorIs, os.ErrNotExist)

	bad := filepath.Join(c.TempDir(), "bad.kar")
	c.Assert(os.WriteFile(bad, []byte("not an archive at all"), 0644), qt.IsNil)
	_, err = asset.Open(bad, fallback)
	c.Assert(err, qt.ErrorIs, kar.ErrFileFormat)
}
