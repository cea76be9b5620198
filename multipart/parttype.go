package multipart

import (
	"strings"

	"github.com/indigo-web/formdata/http/form"
	"github.com/indigo-web/formdata/http/mime"
	"github.com/indigo-web/formdata/internal/strutil"
	"github.com/indigo-web/formdata/internal/urlencoded"
	"github.com/indigo-web/formdata/kv"
)

// PartType is the result of Classify: either InvalidPart, FieldPart or FilePart.
type PartType interface {
	partType()
}

type (
	// InvalidPart has no name to be stored under.
	InvalidPart struct{}
	// FieldPart is a textual field.
	FieldPart struct {
		Name string
		// Charset is the charset parameter of the part's Content-Type, if any.
		Charset mime.Charset
	}
	// FilePart is an uploaded file. The File carries everything known from the header.
	FilePart struct {
		File form.File
	}
)

func (InvalidPart) partType() {}
func (FieldPart) partType()   {}
func (FilePart) partType()    {}

// Classify tells what the part is by its header. A part is a file if it declares a
// filename or a content type other than text/plain; defaultType applies when the
// Content-Type is absent. Classify depends on nothing but its arguments.
func Classify(header *kv.Storage, defaultType mime.MIME) PartType {
	_, params, found := header.Params("Content-Disposition")
	if !found {
		return InvalidPart{}
	}

	var (
		name, filename   string
		hasName, hasFile bool
		extendedFilename bool
	)

	for key, value := range params {
		switch {
		case len(key) == 0:
			return InvalidPart{}
		case strutil.CmpFold(key, "name"):
			name, hasName = value, true
		case strutil.CmpFold(key, "filename*"):
			if decoded, ok := decodeExtValue(value); ok {
				filename, hasFile, extendedFilename = decoded, true, true
			}
		case strutil.CmpFold(key, "filename"):
			// filename* takes precedence no matter the order
			if !extendedFilename {
				filename, hasFile = value, true
			}
		}
	}

	if !hasName || len(name) == 0 {
		return InvalidPart{}
	}

	contentType, params, _ := header.Params("Content-Type")
	if len(contentType) == 0 {
		contentType = defaultType
	}

	if !hasFile && mime.Complies(mime.Plain, contentType) {
		var charset mime.Charset
		for key, value := range params {
			if strutil.CmpFold(key, "charset") {
				charset = value
				break
			}
		}

		return FieldPart{Name: name, Charset: charset}
	}

	return FilePart{File: form.File{
		FieldName:    name,
		OriginalName: filename,
		MIMEType:     contentType,
	}}
}

// decodeExtValue decodes an RFC 5987 extended parameter value: charset'language'value,
// where the value is percent-encoded.
func decodeExtValue(value string) (string, bool) {
	charset, rest, found := strings.Cut(value, "'")
	if !found {
		return "", false
	}

	_, encoded, found := strings.Cut(rest, "'")
	if !found {
		return "", false
	}

	raw, err := urlencoded.DecodeString(encoded)
	if err != nil {
		return "", false
	}

	enc, err := mime.Lookup(charset)
	if err != nil {
		return "", false
	}

	decoded, err := mime.Decode([]byte(raw), enc)
	if err != nil {
		return "", false
	}

	return decoded, true
}
