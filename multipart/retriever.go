package multipart

import (
	"errors"
	"io"

	"github.com/indigo-web/chunkedbody"
)

// Retriever supplies the request body piece by piece. The returned data is valid until the
// next call. io.EOF marks the end of the body, data returned alongside it is still valid.
type Retriever interface {
	Retrieve() ([]byte, error)
}

// ReaderRetriever retrieves the body from an io.Reader.
type ReaderRetriever struct {
	reader io.Reader
	buff   []byte
}

func NewReaderRetriever(reader io.Reader, bufferSize int) *ReaderRetriever {
	return &ReaderRetriever{
		reader: reader,
		buff:   make([]byte, bufferSize),
	}
}

func (r *ReaderRetriever) Retrieve() ([]byte, error) {
	n, err := r.reader.Read(r.buff)
	return r.buff[:n], err
}

// ChunkedRetriever decodes a body sent with Transfer-Encoding: chunked. Trailer fields
// aren't expected.
type ChunkedRetriever struct {
	source  Retriever
	parser  *chunkedbody.Parser
	pending []byte
	eof     bool
}

func NewChunkedRetriever(source Retriever) *ChunkedRetriever {
	return &ChunkedRetriever{
		source: source,
		parser: chunkedbody.NewParser(chunkedbody.DefaultSettings()),
	}
}

func (c *ChunkedRetriever) Retrieve() ([]byte, error) {
	for {
		if len(c.pending) == 0 {
			if c.eof {
				return nil, io.ErrUnexpectedEOF
			}

			data, err := c.source.Retrieve()
			switch {
			case err == nil:
			case errors.Is(err, io.EOF):
				c.eof = true
			default:
				return nil, err
			}

			c.pending = data
			continue
		}

		chunk, extra, err := c.parser.Parse(c.pending, false)
		c.pending = extra

		switch {
		case err == nil:
			if len(chunk) > 0 {
				return chunk, nil
			}
		case errors.Is(err, io.EOF):
			return chunk, io.EOF
		default:
			return nil, err
		}
	}
}
