package strutil

import (
	"iter"
	"strings"
)

// WalkKV iterates over semicolon-separated parameters as found in Content-Type and
// Content-Disposition headers. Values may be quoted strings: whitespaces and semicolons
// inside them are preserved and backslash-escapes resolved. A parameter without the
// equality sign is yielded with an empty value. Malformed input yields a single ("", "")
// pair, after which the iteration stops.
func WalkKV(data string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for {
			data = LStripWS(data)
			if len(data) == 0 {
				return
			}

			if data[0] == ';' {
				data = data[1:]
				continue
			}

			sep := strings.IndexAny(data, "=;")
			if sep == -1 || data[sep] == ';' {
				if sep == -1 {
					sep = len(data)
				}

				if !yield(RStripWS(data[:sep]), "") {
					return
				}

				data = data[sep:]
				continue
			}

			key := RStripWS(data[:sep])
			if len(key) == 0 {
				yield("", "")
				return
			}

			data = LStripWS(data[sep+1:])

			var value string
			if len(data) > 0 && data[0] == '"' {
				var ok bool
				value, data, ok = cutQuoted(data)
				if !ok {
					yield("", "")
					return
				}

				data = LStripWS(data)
				if len(data) > 0 && data[0] != ';' {
					yield("", "")
					return
				}
			} else {
				end := strings.IndexByte(data, ';')
				if end == -1 {
					end = len(data)
				}

				value, data = RStripWS(data[:end]), data[end:]
			}

			if !yield(key, value) {
				return
			}
		}
	}
}

// cutQuoted consumes a quoted-string from the beginning of the data, returning its
// unescaped content and the rest.
func cutQuoted(data string) (value, rest string, ok bool) {
	escaped := false

	for i := 1; i < len(data); i++ {
		switch data[i] {
		case '\\':
			escaped = true
			i++
		case '"':
			if !escaped {
				return data[1:i], data[i+1:], true
			}

			return unescape(data[1:i]), data[i+1:], true
		}
	}

	return "", "", false
}

func unescape(str string) string {
	var b strings.Builder
	b.Grow(len(str))

	for i := 0; i < len(str); i++ {
		if str[i] == '\\' && i+1 < len(str) {
			i++
		}

		b.WriteByte(str[i])
	}

	return b.String()
}
