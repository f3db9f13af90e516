// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command kar packs, extracts and lists kar archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"

	"github.com/devblok/korufx/utility/kar"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Username
	}
}

var currentUserName string

type options struct {
	author   string
	version  int64
	extract  string
	compress string
	list     string
	dstFile  string
	silent   bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.author, "author", currentUserName, "Set the author of the package when compressing")
	fs.Int64Var(&o.version, "version", 1, "Archive version number to create it with")
	fs.StringVar(&o.extract, "e", "", "Extract the archive given")
	fs.StringVar(&o.compress, "c", "", "Compress the given file/folder")
	fs.StringVar(&o.list, "l", "", "List the files of the archive given")
	fs.StringVar(&o.dstFile, "f", "", "Destination file when compressing (out.kar), directory when extracting (.)")
	fs.BoolVar(&o.silent, "s", false, "Silent")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	var ops int
	for _, op := range []string{o.extract, o.compress, o.list} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		return o, errors.New("only one operation at a time")
	}
	return o, nil
}

func main() {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if o.silent {
		log.SetLevel(log.WarnLevel)
	}

	switch {
	case o.compress != "":
		dst := o.dstFile
		if dst == "" {
			dst = "out.kar"
		}
		err = compressFiles(o, dst)
	case o.extract != "":
		dst := o.dstFile
		if dst == "" {
			dst = "."
		}
		err = extractFiles(o.extract, dst)
	case o.list != "":
		err = listFiles(os.Stdout, o.list)
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func compressFiles(o options, dstFile string) error {
	if _, err := os.Stat(dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	if err := filepath.Walk(o.compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return err
	}

	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      o.author,
		DateCreated: time.Now().Unix(),
		Version:     o.version,
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	for _, ftc := range filesToCompress {
		name, err := archiveName(o.compress, ftc)
		if err != nil {
			return err
		}
		if err := addFile(karBuilder, name, ftc); err != nil {
			return err
		}
		log.WithField("file", name).Info("added")
	}

	dst, err := os.Create(dstFile)
	if err != nil {
		return err
	}
	written, err := karBuilder.WriteTo(dst)
	if err != nil {
		dst.Close()
		return err
	}
	log.WithFields(log.Fields{"archive": dstFile, "bytes": written}).Info("archive written")
	return dst.Close()
}

// archiveName is the slash separated path of file under root. A single
// file keeps its base name.
func archiveName(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	if rel == "." {
		rel = filepath.Base(file)
	}
	return filepath.ToSlash(rel), nil
}

func addFile(b *kar.Builder, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Add(name, f)
}

func openArchive(path string) (*kar.Archive, io.Closer, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	ar, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return ar, r, nil
}

func extractFiles(archive, dstDir string) error {
	ar, closer, err := openArchive(archive)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, name := range ar.Names() {
		dst := filepath.Join(dstDir, filepath.FromSlash(name))
		if !strings.HasPrefix(dst, filepath.Clean(dstDir)+string(filepath.Separator)) {
			return fmt.Errorf("%s: file %q escapes the destination", archive, name)
		}
		if err := extractFile(ar, name, dst); err != nil {
			return err
		}
		log.WithField("file", dst).Info("extracted")
	}
	return nil
}

func extractFile(ar *kar.Archive, name, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%s exists, will not overwrite", dst)
	}
	r, err := ar.Open(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listFiles(w io.Writer, archive string) error {
	ar, closer, err := openArchive(archive)
	if err != nil {
		return err
	}
	defer closer.Close()

	header := ar.Header()
	fmt.Fprintf(w, "author: %s, version: %d, created: %s\n",
		header.Author, header.Version, time.Unix(header.DateCreated, 0).UTC().Format(time.RFC3339))
	for _, e := range header.Index {
		fmt.Fprintf(w, "%10d %10d %s\n", e.Size, e.CompressedSize, e.Name)
	}
	return nil
}
