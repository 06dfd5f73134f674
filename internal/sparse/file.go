// Package sparse locates the data extents and holes of sparse files.
package sparse

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Holey reports the data/hole structure of a sparse byte store.
// NextData and NextHole return the first offset at or after |off|
// which contains data, or lies in a hole. NextData returns io.EOF
// when no data exists at or after |off|.
type Holey interface {
	NextData(off int64) (int64, error)
	NextHole(off int64) (int64, error)
}

var _ = (Holey)((*File)(nil))

// File exposes the extent structure of an *os.File using
// SEEK_DATA/SEEK_HOLE. On filesystems without extent support the whole
// file appears as one data extent.
type File struct {
	f *os.File
}

func NewFile(f *os.File) *File {
	return &File{f: f}
}

func (s *File) NextData(off int64) (int64, error) {
	if off < 0 {
		panic("off < 0")
	}

	next, err := unix.Seek(int(s.f.Fd()), off, unix.SEEK_DATA)
	if errors.Is(err, unix.ENXIO) {
		// No data between |off| and the end of the file.
		return 0, io.EOF
	} else if err != nil {
		return 0, &os.PathError{Op: "seek", Path: s.f.Name(), Err: err}
	}
	return next, nil
}

func (s *File) NextHole(off int64) (int64, error) {
	if off < 0 {
		panic("off < 0")
	}

	next, err := unix.Seek(int(s.f.Fd()), off, unix.SEEK_HOLE)
	if errors.Is(err, unix.ENXIO) {
		return 0, io.EOF
	} else if err != nil {
		return 0, &os.PathError{Op: "seek", Path: s.f.Name(), Err: err}
	}
	return next, nil
}
