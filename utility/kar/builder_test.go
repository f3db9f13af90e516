// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func newTestBuilder(c *qt.C) *Builder {
	builder, err := NewBuilder(Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { builder.Close() })
	return builder
}

func TestAddAndWrite(t *testing.T) {
	c := qt.New(t)
	builder := newTestBuilder(c)

	c.Assert(builder.Add("test", strings.NewReader("idunvovkjnreovmegihjbrqlkmfrjnb")), qt.IsNil)
	c.Assert(builder.Add("test2", strings.NewReader("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb")), qt.IsNil)
	c.Assert(builder.files, qt.HasLen, 2)

	var buf bytes.Buffer
	num, err := builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(num, qt.Equals, int64(buf.Len()))

	raw := buf.Bytes()
	c.Assert(string(raw[:MagicLength]), qt.Equals, "KAR\x00")
	size, err := binaryToint64(raw[MagicLength:dataStart])
	c.Assert(err, qt.IsNil)
	c.Assert(raw[MagicLength+8:dataStart], qt.DeepEquals, make([]byte, 8))

	var header Header
	c.Assert(gobDecode(&header, raw[dataStart:dataStart+size]), qt.IsNil)
	c.Assert(header.Author, qt.Equals, "devblok")
	c.Assert(header.Index, qt.HasLen, 2)
	c.Assert(header.Index[0].Offset, qt.Equals, int64(0))
	c.Assert(header.Index[1].Offset, qt.Equals, header.Index[0].CompressedSize)
	c.Assert(header.Index[1].Size, qt.Equals, int64(44))

	end := dataStart + size + header.Index[1].Offset + header.Index[1].CompressedSize
	c.Assert(end, qt.Equals, int64(len(raw)))
}

func TestAddDuplicate(t *testing.T) {
	c := qt.New(t)
	builder := newTestBuilder(c)

	c.Assert(builder.Add("test", strings.NewReader("a")), qt.IsNil)
	c.Assert(builder.Add("test", strings.NewReader("b")), qt.ErrorMatches, `kar: duplicate file "test"`)
	c.Assert(builder.Len(), qt.Equals, 1)
}

func TestAddConcurrent(t *testing.T) {
	c := qt.New(t)
	builder := newTestBuilder(c)

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			c.Check(builder.Add(name, strings.NewReader(strings.Repeat(name, 1024))), qt.IsNil)
		}(name)
	}
	wg.Wait()
	c.Assert(builder.Len(), qt.Equals, 4)
}

func TestClose(t *testing.T) {
	c := qt.New(t)
	builder := newTestBuilder(c)
	c.Assert(builder.Add("test", strings.NewReader("a")), qt.IsNil)

	c.Assert(builder.Close(), qt.IsNil)
	_, err := os.Stat(builder.tempDir)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}
