package form

import (
	"github.com/gabriel-vasile/mimetype"
	"github.com/indigo-web/formdata/http/mime"
	"github.com/indigo-web/formdata/internal/strutil"
)

// File describes an uploaded file. Depending on the storage the file was handled by, either
// Path or Buffer is populated.
type File struct {
	// FieldName is the name of the form field the file was submitted under.
	FieldName string
	// OriginalName is the filename as declared by the client. It is never used to build paths.
	OriginalName string
	// MIMEType is the declared Content-Type of the part.
	MIMEType mime.MIME
	// Path is where the file was stored on disk.
	Path string
	// Buffer holds the file content when it was kept in memory.
	Buffer []byte
	// Size is the number of bytes received.
	Size int
}

// IsEmpty tells whether the file is a placeholder sent by a browser for an <input type=file>
// left empty: no filename and no content stored anywhere.
func (f *File) IsEmpty() bool {
	return len(f.OriginalName) == 0 && len(f.Path) == 0 && f.Buffer == nil
}

// DetectType sniffs the actual file type by its content, as the declared MIMEType is up to
// the client. When the content tells nothing, the original filename extension is consulted.
func (f *File) DetectType() (mime.MIME, error) {
	var detected *mimetype.MIME

	switch {
	case f.Buffer != nil:
		detected = mimetype.Detect(f.Buffer)
	case len(f.Path) > 0:
		var err error
		if detected, err = mimetype.DetectFile(f.Path); err != nil {
			return "", err
		}
	default:
		return mime.ByFilename(f.OriginalName), nil
	}

	value, _ := strutil.CutHeader(detected.String())
	if value == mime.OctetStream {
		return mime.ByFilename(f.OriginalName), nil
	}

	return value, nil
}

// Files maps field names to the files submitted under them.
type Files map[string][]*File

// First returns the first file submitted under the name.
func (f Files) First(name string) (*File, bool) {
	if files := f[name]; len(files) > 0 {
		return files[0], true
	}

	return nil, false
}

// Count returns the total number of files.
func (f Files) Count() (n int) {
	for _, files := range f {
		n += len(files)
	}

	return n
}
