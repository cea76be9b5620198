package urlencoded

import (
	"bytes"

	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/formdata/internal/hexconv"
	"github.com/indigo-web/utils/uf"
)

// Decode decodes percent-encoded data into the given buffer, but omits it if there's nothing
// to be decoded. `dst` can be src[:0] as well in order to decode "into itself".
func Decode(src, dst []byte) (decoded, buffer []byte, err error) {
	if bytes.IndexByte(src, '%') == -1 {
		return src, dst, nil
	}

	return decode(src, dst, false)
}

// ExtendedDecode is the same as Decode, but on top also decodes + as spaces, as the
// application/x-www-form-urlencoded serializer produces them.
func ExtendedDecode(src, dst []byte) (decoded, buffer []byte, err error) {
	if bytes.IndexByte(src, '%') == -1 && bytes.IndexByte(src, '+') == -1 {
		return src, dst, nil
	}

	return decode(src, dst, true)
}

func DecodeString(src string) (string, error) {
	decoded, _, err := Decode(uf.S2B(src), nil)
	return uf.B2S(decoded), err
}

func decode(src, dst []byte, plus bool) (decoded, buffer []byte, err error) {
	head := len(dst)

	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case c == '%':
			if i+2 >= len(src) {
				return nil, dst, status.ErrURLDecoding
			}

			a, b := hexconv.Halfbyte[src[i+1]], hexconv.Halfbyte[src[i+2]]
			if a|b > 0x0f {
				return nil, dst, status.ErrURLDecoding
			}

			dst = append(dst, (a<<4)|b)
			i += 2
		case c == '+' && plus:
			dst = append(dst, ' ')
		default:
			dst = append(dst, c)
		}
	}

	return dst[head:], dst, nil
}
