package multipart

import (
	"context"

	"github.com/indigo-web/formdata/http/form"
)

// Storage receives file contents as they arrive. For every file, StartFile is called once,
// followed by any number of Write calls and a single EndFile. Data passed to Write is only
// valid during the call. Storages mustn't touch File.Size, it's maintained by the caller.
type Storage interface {
	StartFile(ctx context.Context, file *form.File) error
	Write(ctx context.Context, file *form.File, data []byte) error
	EndFile(ctx context.Context, file *form.File) error
}

// Discarder is implemented by storages which must clean up files of a rejected form.
// Discard may be called on a file before its EndFile.
type Discarder interface {
	Discard(ctx context.Context, file *form.File) error
}

// MemoryStorage keeps files in File.Buffer.
type MemoryStorage struct{}

func NewMemoryStorage() MemoryStorage {
	return MemoryStorage{}
}

func (MemoryStorage) StartFile(context.Context, *form.File) error {
	return nil
}

func (MemoryStorage) Write(_ context.Context, file *form.File, data []byte) error {
	file.Buffer = append(file.Buffer, data...)
	return nil
}

func (MemoryStorage) EndFile(context.Context, *form.File) error {
	return nil
}
