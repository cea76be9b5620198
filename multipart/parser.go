// Package multipart implements a streaming multipart/form-data parser and an assembler,
// turning the parser events into form fields and files.
package multipart

import (
	"bytes"
	"strings"

	"github.com/indigo-web/formdata/config"
	"github.com/indigo-web/formdata/http/mime"
	"github.com/indigo-web/formdata/internal/strutil"
	"github.com/indigo-web/formdata/kv"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

type parserState uint8

const (
	ePreamble parserState = iota
	eHeader
	eBody
	ePostamble
	eFailed
	eDone
)

var (
	crlf     = []byte("\r\n")
	crlfcrlf = []byte("\r\n\r\n")
)

// Parser is a push-style multipart parser. It consumes the body in chunks of any size and
// emits events synchronously, so the memory it occupies is bounded by the header length
// limit regardless of the body size.
type Parser struct {
	state           parserState
	delimiter       delimiter
	staged          []byte
	err             error
	charset         encoding.Encoding
	maxHeaderLength int
	maxHeaderPairs  int
}

// NewParser returns a parser for a body delimited by the boundary, as it's declared in the
// Content-Type. An unknown header charset is treated as UTF-8.
func NewParser(boundary string, cfg config.Multipart) *Parser {
	// nil stands for UTF-8
	charset, _ := mime.Lookup(cfg.HeaderCharset)

	return &Parser{
		delimiter:       newDelimiter(boundary),
		charset:         charset,
		maxHeaderLength: cfg.MaxHeaderLength,
		maxHeaderPairs:  cfg.Limits.HeaderPairs,
		staged:          make([]byte, 0, 128),
	}
}

// Write feeds the next chunk of the body. The chunk may be split at any point, including
// inside a delimiter or a header block: the event sequence stays the same, except for the
// way data events are split.
func (p *Parser) Write(chunk []byte, emit func(Event)) {
	switch p.state {
	case eFailed:
		emit(ParseError{Err: p.err})
		return
	case eDone:
		return
	}

	data := chunk
	if len(p.staged) > 0 {
		p.staged = append(p.staged, chunk...)
		data = p.staged
	}

	p.stage(p.run(data, emit, false))
}

// End marks the end of the body. Whatever is staged is flushed, and a part left open is
// closed. A body which ends inside a header block is reported as ErrFailedToParseHeader.
func (p *Parser) End(emit func(Event)) {
	switch p.state {
	case eFailed:
		emit(ParseError{Err: p.err})
		return
	case eDone:
		return
	}

	p.run(p.staged, emit, true)
	p.staged = p.staged[:0]

	switch p.state {
	case eFailed:
		return
	case eHeader:
		p.fail(ErrFailedToParseHeader, emit)
		return
	case eBody:
		emit(EndPart{})
	}

	p.state = eDone
}

func (p *Parser) stage(rest []byte) {
	// rest may point into the staging buffer itself, which is fine for copy
	p.staged = append(p.staged[:0], rest...)
}

// run processes as much data as possible and returns the tail which must be staged
// until more data arrives. In the final mode the tail is returned only when the input
// ends in the middle of a header block.
func (p *Parser) run(data []byte, emit func(Event), final bool) (rest []byte) {
	for len(data) > 0 {
		switch p.state {
		case ePreamble, eBody:
			var more bool
			if data, more = p.scan(data, emit, final); !more {
				return data
			}
		case eHeader:
			var more bool
			if data, more = p.header(data, emit); !more {
				return data
			}
		case ePostamble:
			emit(PostambleData(data))
			return nil
		default:
			return nil
		}
	}

	return nil
}

// scan emits the content preceding the next delimiter and consumes the delimiter itself.
// When the delimiter isn't there or can't be told apart yet, more is false and rest is
// what must be staged.
func (p *Parser) scan(data []byte, emit func(Event), final bool) (rest []byte, more bool) {
	length := len(p.delimiter.Bytes())

	for from := 0; ; {
		pos, m := p.delimiter.Search(data, from)
		switch m {
		case matchNone:
			p.content(data, emit)
			return nil, false
		case matchPartial:
			if final {
				p.content(data, emit)
				return nil, false
			}

			p.content(data[:pos], emit)
			return data[pos:], false
		}

		n, t := parseTrailer(data[pos+length:], final)
		if t == trailerUseless {
			// not a delimiter, but might be the beginning of the real one
			from = pos + 1
			continue
		}

		if n > p.maxHeaderLength {
			p.fail(ErrMaxHeaderLength, emit)
			return nil, false
		}

		if t == trailerIncomplete {
			p.content(data[:pos], emit)
			return data[pos:], false
		}

		p.content(data[:pos], emit)
		if p.state == eBody {
			emit(EndPart{})
		}

		p.delimiter.Seen()
		if t == trailerClose {
			p.state = ePostamble
		} else {
			p.state = eHeader
		}

		return data[pos+length+n:], true
	}
}

func (p *Parser) content(data []byte, emit func(Event)) {
	if len(data) == 0 {
		return
	}

	if p.state == ePreamble {
		emit(PreambleData(data))
	} else {
		emit(BodyData(data))
	}
}

// header consumes a complete header block and emits StartPart. The block, including the
// terminating empty line, must fit into the max header length no matter how it is split
// into chunks.
func (p *Parser) header(data []byte, emit func(Event)) (rest []byte, more bool) {
	if bytes.HasPrefix(data, crlf) {
		emit(StartPart{Header: kv.New()})
		p.state = eBody
		return data[len(crlf):], true
	}

	end := bytes.Index(data, crlfcrlf)
	if end == -1 {
		if len(data) >= p.maxHeaderLength {
			p.fail(ErrMaxHeaderLength, emit)
			return nil, false
		}

		return data, false
	}

	if end+len(crlfcrlf) > p.maxHeaderLength {
		p.fail(ErrMaxHeaderLength, emit)
		return nil, false
	}

	header, err := p.parseHeader(data[:end])
	if err != nil {
		p.fail(err, emit)
		return nil, false
	}

	emit(StartPart{Header: header})
	p.state = eBody

	return data[end+len(crlfcrlf):], true
}

func (p *Parser) parseHeader(block []byte) (*kv.Storage, error) {
	text, err := mime.Decode(block, p.charset)
	if err != nil {
		if text, err = mime.Decode(block, charmap.ISO8859_1); err != nil {
			return nil, ErrCharset
		}
	}

	header := kv.NewPrealloc(min(strings.Count(text, "\r\n")+1, p.maxHeaderPairs))
	for line := range strings.SplitSeq(text, "\r\n") {
		name, value, found := strings.Cut(line, ":")
		name = strutil.StripWS(name)
		if !found || len(name) == 0 {
			return nil, ErrInvalidHeaderLine
		}

		if header.Len() < p.maxHeaderPairs {
			header.Add(name, strutil.StripWS(value))
		}
	}

	return header, nil
}

func (p *Parser) fail(err error, emit func(Event)) {
	p.state, p.err = eFailed, err
	p.staged = p.staged[:0]
	emit(ParseError{Err: err})
}

// Failed reports the error the parser failed with, if any.
func (p *Parser) Failed() error {
	return p.err
}
