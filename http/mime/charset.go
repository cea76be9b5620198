package mime

import (
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/formdata/internal/strutil"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

type Charset = string

const (
	UTF8   Charset = "utf8"
	UTF16  Charset = "utf16"
	ASCII  Charset = "ascii"
	Latin1 Charset = "latin1"
	CP1251 Charset = "cp1251"
	CP1252 Charset = "cp1252"
	// feel free to add more widespread charsets!
)

// Lookup resolves a charset label into an encoding. Labels are matched as the WHATWG
// encoding standard does, with the exception of latin1: browsers treat it as windows-1252,
// here it is the genuine ISO-8859-1.
func Lookup(label Charset) (encoding.Encoding, error) {
	switch strings.ToLower(strutil.StripWS(label)) {
	case "utf8", "utf-8":
		return unicode.UTF8, nil
	case "latin1", "iso-8859-1", "iso8859-1", "l1":
		return charmap.ISO8859_1, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, status.ErrUnsupportedEncoding
	}

	return enc, nil
}

// Decode converts the text into UTF-8. UTF-8 input is validated rather than converted,
// so malformed sequences are reported instead of being replaced. The returned string never
// shares memory with the data.
func Decode(data []byte, enc encoding.Encoding) (string, error) {
	if enc == nil || enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return "", status.ErrBadEncoding
		}

		return string(data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", status.ErrBadEncoding
	}

	return string(decoded), nil
}
