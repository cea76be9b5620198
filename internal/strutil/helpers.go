package strutil

import "strings"

func LStripWS(str string) string {
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

func StripWS(str string) string {
	return RStripWS(LStripWS(str))
}

// CutHeader splits the header value from its parameters. The value is stripped of
// surrounding whitespaces.
func CutHeader(header string) (value, params string) {
	sep := strings.IndexByte(header, ';')
	if sep == -1 {
		return StripWS(header), ""
	}

	return StripWS(header[:sep]), LStripWS(header[sep+1:])
}

// CmpFold compares two ASCII strings case-insensitively.
func CmpFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}

	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c | 0x20
	}

	return c
}
