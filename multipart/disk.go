package multipart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/formdata/http/form"
)

// Destination chooses where a file is going to be stored. The name must not be derived
// from File.OriginalName as is, because it's controlled by the client.
type Destination func(file *form.File) (dir, name string, err error)

// DirDestination places files into the directory under random names.
func DirDestination(dir string) Destination {
	return func(*form.File) (string, string, error) {
		return dir, "formdata-" + uniuri.NewLen(24), nil
	}
}

// TempDestination places files into the system temporary directory under random names.
func TempDestination(file *form.File) (dir, name string, err error) {
	return DirDestination(os.TempDir())(file)
}

// DiskStorage streams files to disk. A file is created only as the first byte arrives,
// or at the end of the part if a filename was declared, so the empty placeholder parts
// browsers send for unfilled file inputs never reach the disk.
//
// A single DiskStorage may serve any number of forms concurrently.
type DiskStorage struct {
	destination Destination
	mu          sync.Mutex
	pending     map[*form.File]*diskFile
}

type diskFile struct {
	path string
	fd   *os.File
}

// NewDiskStorage returns a disk storage. Nil destination defaults to TempDestination.
func NewDiskStorage(destination Destination) *DiskStorage {
	if destination == nil {
		destination = TempDestination
	}

	return &DiskStorage{
		destination: destination,
		pending:     make(map[*form.File]*diskFile),
	}
}

func (d *DiskStorage) StartFile(_ context.Context, file *form.File) error {
	dir, name, err := d.destination(file)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.pending[file] = &diskFile{path: filepath.Join(dir, name)}
	d.mu.Unlock()

	return nil
}

func (d *DiskStorage) Write(ctx context.Context, file *form.File, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := d.open(file)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	return err
}

func (d *DiskStorage) EndFile(_ context.Context, file *form.File) error {
	df := d.take(file)
	if df == nil {
		return nil
	}

	if df.fd == nil {
		if len(file.OriginalName) == 0 {
			return nil
		}

		if err := d.create(file, df); err != nil {
			return err
		}
	}

	return df.fd.Close()
}

// Discard removes the file, closing it first if it's still being written.
func (d *DiskStorage) Discard(_ context.Context, file *form.File) error {
	if df := d.take(file); df != nil && df.fd != nil {
		_ = df.fd.Close()
	}

	if len(file.Path) == 0 {
		return nil
	}

	if err := os.Remove(file.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	file.Path = ""
	return nil
}

func (d *DiskStorage) open(file *form.File) (*os.File, error) {
	d.mu.Lock()
	df, found := d.pending[file]
	d.mu.Unlock()

	if !found {
		return nil, fmt.Errorf("multipart: file %q was not started", file.FieldName)
	}

	if df.fd == nil {
		if err := d.create(file, df); err != nil {
			return nil, err
		}
	}

	return df.fd, nil
}

func (d *DiskStorage) create(file *form.File, df *diskFile) (err error) {
	df.fd, err = os.OpenFile(df.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	file.Path = df.path
	return nil
}

func (d *DiskStorage) take(file *form.File) *diskFile {
	d.mu.Lock()
	defer d.mu.Unlock()

	df := d.pending[file]
	delete(d.pending, file)
	return df
}
