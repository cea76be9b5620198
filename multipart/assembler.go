package multipart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/indigo-web/formdata/config"
	"github.com/indigo-web/formdata/http/form"
	"github.com/indigo-web/formdata/http/mime"
	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/utils/uf"
	"golang.org/x/text/encoding"
)

// charsetField is the special field browsers use to tell the charset of the form.
const charsetField = "_charset_"

// Result is a successfully assembled form.
type Result struct {
	Fields *form.Fields
	Files  form.Files
}

type partKind uint8

const (
	partNone partKind = iota
	partField
	partFile
)

type rawEntry struct {
	data    []byte
	charset mime.Charset
}

// Assembler builds a form out of the parser events. Fields are buffered in memory, files
// are handed over to the Storage. Any limit violation fails the whole form: nothing
// assembled so far is returned and files already stored are discarded, if the storage
// supports it.
type Assembler struct {
	cfg          *config.Config
	parser       *Parser
	storage      Storage
	ctx          context.Context
	log          *slog.Logger
	restrictions map[string]int

	kind    partKind
	field   string
	entry   rawEntry
	file    *form.File
	names   []string
	entries map[string][]rawEntry
	charset encoding.Encoding

	files     form.Files
	fileCount int
	perField  map[string]int

	read     int
	err      error
	aborted  bool
	finished bool
}

// NewAssembler returns an assembler for a body delimited by the boundary. An empty
// boundary fails the form right away, with ErrNoBoundary returned by the first Write or Finish.
func NewAssembler(cfg *config.Config, boundary string, storage Storage) *Assembler {
	a := &Assembler{
		cfg:      cfg,
		parser:   NewParser(boundary, cfg.Multipart),
		storage:  storage,
		ctx:      context.Background(),
		log:      slog.Default(),
		entries:  make(map[string][]rawEntry),
		files:    make(form.Files),
		perField: make(map[string]int),
	}

	if len(boundary) == 0 {
		a.err = ErrNoBoundary
	}

	return a
}

// Restrict permits files only under the explicitly restricted fields, maxCount files at most
// per field. Without restrictions, files are accepted under any name.
func (a *Assembler) Restrict(field string, maxCount int) *Assembler {
	if a.restrictions == nil {
		a.restrictions = make(map[string]int)
	}

	a.restrictions[field] = maxCount
	return a
}

// WithContext sets the context passed to the storage.
func (a *Assembler) WithContext(ctx context.Context) *Assembler {
	a.ctx = ctx
	return a
}

func (a *Assembler) WithLogger(log *slog.Logger) *Assembler {
	a.log = log
	return a
}

// Write feeds the next chunk of the body. Once the form fails, the error is latched and
// returned on every following call.
func (a *Assembler) Write(chunk []byte) error {
	if a.finished {
		return ErrFinished
	}

	if a.err == nil {
		a.parser.Write(chunk, a.handle)
	}

	if a.err != nil {
		a.abort()
	}

	return a.err
}

// Finish completes the form. It returns either the result or the error the form failed
// with, only once: any later call results in ErrFinished.
func (a *Assembler) Finish() (*Result, error) {
	if a.finished {
		return nil, ErrFinished
	}

	a.finished = true
	if a.err == nil {
		a.parser.End(a.handle)
	}

	if a.err != nil {
		a.abort()
		return nil, a.err
	}

	return a.result(), nil
}

// Abort fails the form with the error, e.g. when the transport breaks. The form is
// cleaned up just as if it violated a limit. Aborting a finished form does nothing.
func (a *Assembler) Abort(err error) {
	if a.finished {
		return
	}

	if a.err == nil {
		a.err = err
	}

	a.abort()
}

// Consume reads the whole body out of the retriever and finishes the form.
func (a *Assembler) Consume(r Retriever) (*Result, error) {
	for {
		data, err := r.Retrieve()
		if len(data) > 0 {
			a.read += len(data)
			if a.read > a.cfg.Body.MaxSize {
				a.Abort(status.ErrBodyTooLarge)
				return a.Finish()
			}

			if werr := a.Write(data); werr != nil {
				return a.Finish()
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return a.Finish()
		default:
			a.Abort(fmt.Errorf("multipart: reading body: %w", err))
			return a.Finish()
		}
	}
}

func (a *Assembler) handle(event Event) {
	if a.err != nil {
		return
	}

	switch e := event.(type) {
	case PreambleData, PostambleData:
	case StartPart:
		a.err = a.startPart(e)
	case BodyData:
		a.err = a.bodyData(e)
	case EndPart:
		a.err = a.endPart()
	case ParseError:
		a.err = e.Err
	}
}

func (a *Assembler) startPart(part StartPart) error {
	limits := a.cfg.Multipart.Limits

	switch p := Classify(part.Header, a.cfg.Form.DefaultContentType).(type) {
	case FieldPart:
		if len(p.Name) > limits.FieldNameSize {
			return ErrFieldNameTooLong
		}

		if _, seen := a.entries[p.Name]; !seen && p.Name != charsetField {
			if len(a.names) >= limits.Fields {
				return ErrTooManyFields
			}

			a.names = append(a.names, p.Name)
			a.entries[p.Name] = nil
		}

		a.kind, a.field = partField, p.Name
		a.entry = rawEntry{charset: p.Charset}
	case FilePart:
		name := p.File.FieldName
		if len(name) > limits.FieldNameSize {
			return ErrFieldNameTooLong
		}

		if a.restrictions != nil {
			maxCount, allowed := a.restrictions[name]
			if !allowed {
				return ErrUnexpectedFile
			}

			if a.perField[name] >= maxCount {
				return ErrTooManyFiles
			}
		}

		if a.fileCount >= limits.Files {
			return ErrTooManyFiles
		}

		a.fileCount++
		a.perField[name]++

		file := p.File
		a.kind, a.file = partFile, &file
		a.files[name] = append(a.files[name], a.file)

		if err := a.storage.StartFile(a.ctx, a.file); err != nil {
			return fmt.Errorf("multipart: storing file of %q: %w", name, err)
		}
	default:
		return ErrInvalidPartHeader
	}

	return nil
}

func (a *Assembler) bodyData(data BodyData) error {
	limits := a.cfg.Multipart.Limits

	switch a.kind {
	case partField:
		if len(data) > limits.FieldSize-len(a.entry.data) {
			return ErrFieldValueTooLong
		}

		a.entry.data = append(a.entry.data, data...)
	case partFile:
		if len(data) > limits.FileSize-a.file.Size {
			return ErrFileTooLarge
		}

		if err := a.storage.Write(a.ctx, a.file, data); err != nil {
			return fmt.Errorf("multipart: storing file of %q: %w", a.file.FieldName, err)
		}

		a.file.Size += len(data)
	}

	return nil
}

func (a *Assembler) endPart() error {
	kind := a.kind
	a.kind = partNone

	switch kind {
	case partField:
		if a.field == charsetField {
			a.setCharset(a.entry.data)
			break
		}

		a.entries[a.field] = append(a.entries[a.field], a.entry)
	case partFile:
		if err := a.storage.EndFile(a.ctx, a.file); err != nil {
			return fmt.Errorf("multipart: storing file of %q: %w", a.file.FieldName, err)
		}
	}

	return nil
}

// setCharset overrides the form charset. Unknown charsets are ignored.
func (a *Assembler) setCharset(label []byte) {
	enc, err := mime.Lookup(uf.B2S(label))
	if err != nil {
		a.log.Debug("multipart: ignoring unknown form charset", "charset", string(label))
		return
	}

	a.charset = enc
}

func (a *Assembler) result() *Result {
	fields := form.NewFields()
	for _, name := range a.names {
		if value := a.decode(a.entries[name]); value != nil {
			fields.Set(name, value)
		}
	}

	for name, files := range a.files {
		if len(files) == 1 && files[0].IsEmpty() {
			a.files[name] = []*form.File{}
		}
	}

	return &Result{Fields: fields, Files: a.files}
}

// decode converts raw entries of a field into text. If any of them doesn't decode, the
// field is delivered as Binary.
func (a *Assembler) decode(entries []rawEntry) (value form.Value) {
	for _, entry := range entries {
		text, err := mime.Decode(entry.data, a.encoding(entry.charset))
		if err != nil {
			binary := make(form.Binary, len(entries))
			for i, e := range entries {
				binary[i] = e.data
			}

			return binary
		}

		value = form.Append(value, text)
	}

	return value
}

// encoding picks the charset of a field: its own Content-Type charset goes first, then the
// one set by the _charset_ field, then the default one.
func (a *Assembler) encoding(charset mime.Charset) encoding.Encoding {
	if len(charset) > 0 {
		if enc, err := mime.Lookup(charset); err == nil {
			return enc
		}
	}

	if a.charset != nil {
		return a.charset
	}

	enc, err := mime.Lookup(a.cfg.Form.DefaultCharset)
	if err != nil {
		return nil
	}

	return enc
}

func (a *Assembler) abort() {
	if a.aborted {
		return
	}

	a.aborted = true
	a.log.Debug("multipart: form rejected", "error", a.err, "status", status.CodeOf(a.err))

	if discarder, ok := a.storage.(Discarder); ok {
		for _, files := range a.files {
			for _, file := range files {
				if err := discarder.Discard(a.ctx, file); err != nil {
					a.log.Warn("multipart: failed to discard file", "field", file.FieldName, "path", file.Path, "error", err)
				}
			}
		}
	}

	a.names, a.entries, a.files, a.file = nil, nil, nil, nil
}
