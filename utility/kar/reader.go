// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/pierrec/lz4"
)

const (
	// maxHeaderSize bounds the allocation made for a corrupted header size.
	maxHeaderSize = 1 << 30

	// maxPreallocSize bounds the buffer ReadAll allocates up front.
	maxPreallocSize = 64 << 20
)

// Open opens the kar archived from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	prefix := make([]byte, dataStart)
	if num, err := r.ReadAt(prefix, 0); num < dataStart {
		if err != nil && err != io.EOF {
			return nil, err
		}
		return nil, ErrFileFormat
	}
	if !bytes.Equal(prefix[:MagicLength], magic[:]) {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToint64(prefix[MagicLength:])
	if err != nil || headerSize <= 0 || headerSize > maxHeaderSize {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, dataStart); int64(num) < headerSize {
		if err != nil && err != io.EOF {
			return nil, err
		}
		return nil, ErrFileFormat
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	}

	ar := &Archive{
		reader: r,
		header: header,
		data:   dataStart + headerSize,
		index:  make(map[string]int, len(header.Index)),
	}
	for i, e := range header.Index {
		if err := ar.checkEntry(e); err != nil {
			return nil, err
		}
		ar.index[e.Name] = i
	}
	return ar, nil
}

// checkEntry makes sure the compressed bytes of e lie inside the archive.
func (a *Archive) checkEntry(e IndexEntry) error {
	if e.Offset < 0 || e.CompressedSize < 0 || e.Size < 0 ||
		e.Offset > math.MaxInt64-a.data-e.CompressedSize {
		return fmt.Errorf("%w: bad index entry %q", ErrFileFormat, e.Name)
	}
	if e.CompressedSize == 0 {
		return nil
	}
	last := make([]byte, 1)
	if num, err := a.reader.ReadAt(last, a.data+e.Offset+e.CompressedSize-1); num < 1 {
		if err != nil && err != io.EOF {
			return err
		}
		return fmt.Errorf("%w: %q runs past the end of the archive", ErrFileFormat, e.Name)
	}
	return nil
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader io.ReaderAt
	header Header
	data   int64
	index  map[string]int
}

// Header returns the archive header, index included.
func (a *Archive) Header() Header {
	return a.header
}

// Names returns the names of the archived files in the order they were added.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.header.Index))
	for _, e := range a.header.Index {
		names = append(names, e.Name)
	}
	return names
}

// Entry returns the index entry of a file.
func (a *Archive) Entry(name string) (IndexEntry, error) {
	i, ok := a.index[name]
	if !ok {
		return IndexEntry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return a.header.Index[i], nil
}

// ReadAll returns the entire contents of a file with a given name
func (a *Archive) ReadAll(name string) ([]byte, error) {
	f, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	var contents bytes.Buffer
	if size := f.Size(); size <= maxPreallocSize {
		contents.Grow(int(size))
	}
	limit := f.Size()
	if limit < math.MaxInt64 {
		// one byte over the size to notice contents longer than the index says
		limit++
	}
	num, err := contents.ReadFrom(io.LimitReader(f, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrFileFormat, name, err)
	}
	if num != f.Size() {
		return nil, fmt.Errorf("%w: %s does not hold the %d bytes of its index entry", ErrFileFormat, name, f.Size())
	}
	return contents.Bytes(), nil
}

// Open returns a Reader for a file in the Archive
func (a *Archive) Open(name string) (*Reader, error) {
	e, err := a.Entry(name)
	if err != nil {
		return nil, err
	}
	section := io.NewSectionReader(a.reader, a.data+e.Offset, e.CompressedSize)
	return &Reader{
		entry:  e,
		reader: lz4.NewReader(section),
	}, nil
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	entry  IndexEntry
	reader io.Reader
}

// Name of the file being read
func (r *Reader) Name() string {
	return r.entry.Name
}

// Size is the decompressed size of the file
func (r *Reader) Size() int64 {
	return r.entry.Size
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.reader.Read(p)
}
