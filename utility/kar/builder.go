// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pierrec/lz4"
)

// NewBuilder creates a new Builder. Do not fill the Index in
// the header, it will be overwritten anyway.
func NewBuilder(header Header) (*Builder, error) {
	temp, err := os.MkdirTemp("", "karBuilder")
	if err != nil {
		return nil, err
	}
	return &Builder{
		tempDir: temp,
		header:  header,
		names:   make(map[string]bool),
	}, nil
}

type tempFile struct {

	// Name is the actual name of the file
	Name string

	// TempName is the path of the compressed copy
	TempName string

	// Size in uncompressed state
	Size int64

	Compressed int64
}

// Builder is the high level builder for the archive format.
// Arhives are versioned and cannot be appended to, This Builder
// is the way to create an archive. Whenever Add is called, Builder
// stores the compressed file in a temporary dir, then finally
// bundles them togeter and writes them out with WriteTo.
// Close removes the temporary dir.
type Builder struct {
	tempDir string
	header  Header

	mutex sync.Mutex
	files []tempFile
	names map[string]bool
}

// Add compresses everything read from r into the builder under a given
// name. Will block until lz4 finishes compression. Is safe to use
// concurrently in different goroutines.
func (b *Builder) Add(name string, r io.Reader) error {
	b.mutex.Lock()
	if b.names[name] {
		b.mutex.Unlock()
		return fmt.Errorf("kar: duplicate file %q", name)
	}
	b.names[name] = true
	b.mutex.Unlock()

	f, err := os.CreateTemp(b.tempDir, "blob")
	if err != nil {
		return err
	}
	defer f.Close()

	writer := lz4.NewWriter(f)
	written, err := io.Copy(writer, r)
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = append(b.files, tempFile{
		Name:       name,
		TempName:   f.Name(),
		Size:       written,
		Compressed: info.Size(),
	})
	return nil
}

// Len returns the number of files added so far.
func (b *Builder) Len() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.files)
}

// WriteTo bundles and writes all of the files added to the Builder
// into a kar archive that is ready to use.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	header.Index = make([]IndexEntry, 0, len(b.files))
	var offset int64
	for _, v := range b.files {
		header.Index = append(header.Index, IndexEntry{
			Name:           v.Name,
			Offset:         offset,
			Size:           v.Size,
			CompressedSize: v.Compressed,
		})
		offset += v.Compressed
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, chunk := range [][]byte{magic[:], int64ToBinary(int64(len(rawHeader))), rawHeader} {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	for _, v := range b.files {
		n, err := copyFile(w, v.TempName)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func copyFile(w io.Writer, name string) (int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}

// Close removes the compressed copies. The Builder can not be used after.
func (b *Builder) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = nil
	return os.RemoveAll(b.tempDir)
}
