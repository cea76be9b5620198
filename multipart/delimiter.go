package multipart

import "bytes"

type match uint8

const (
	matchNone match = iota
	matchPartial
	matchFound
)

type trailer uint8

const (
	trailerIncomplete trailer = iota
	trailerUseless
	trailerDelimiter
	trailerClose
)

// delimiter matches the boundary. Before the first one is met, it's matched as is; since
// then it must be preceded by CRLF, as the CRLF belongs to the delimiter rather than to
// the previous part.
type delimiter struct {
	pattern []byte
	offset  int
}

func newDelimiter(boundary string) delimiter {
	return delimiter{
		pattern: []byte("\r\n--" + boundary),
		offset:  len("\r\n"),
	}
}

func (d *delimiter) Bytes() []byte {
	return d.pattern[d.offset:]
}

// Seen switches the delimiter into requiring the leading CRLF. There's no way back.
func (d *delimiter) Seen() {
	d.offset = 0
}

// Search looks for the delimiter in data, starting at the offset. When there's none, the
// position of the longest data suffix which may turn out to be the delimiter beginning
// is returned alongside with matchPartial, or len(data) with matchNone otherwise.
func (d *delimiter) Search(data []byte, from int) (pos int, m match) {
	pattern := d.Bytes()
	if i := bytes.Index(data[from:], pattern); i != -1 {
		return from + i, matchFound
	}

	for i := max(from, len(data)-len(pattern)+1); i < len(data); i++ {
		if data[i] == pattern[0] && bytes.HasPrefix(pattern, data[i:]) {
			return i, matchPartial
		}
	}

	return len(data), matchNone
}

// parseTrailer inspects the bytes right after the delimiter: an optional "--" marking the
// close delimiter, transport padding, an optional CR and the mandatory LF. The returned n
// is the trailer length; for an incomplete trailer it's the number of bytes seen so far.
// When the input is final, an incomplete trailer is accepted as the close delimiter.
func parseTrailer(data []byte, final bool) (n int, t trailer) {
	closing := false

	if len(data) > 0 && data[0] == '-' {
		switch {
		case len(data) == 1 && !final:
			return 1, trailerIncomplete
		case len(data) == 1 || data[1] != '-':
			return 0, trailerUseless
		}

		closing, n = true, 2
	}

	for n < len(data) && (data[n] == ' ' || data[n] == '\t') {
		n++
	}

	if n < len(data) && data[n] == '\r' {
		n++
	}

	switch {
	case n == len(data):
		if !final {
			return n, trailerIncomplete
		}

		// nothing can follow the delimiter anymore
		closing = true
	case data[n] != '\n':
		return 0, trailerUseless
	default:
		n++
	}

	if closing {
		return n, trailerClose
	}

	return n, trailerDelimiter
}
