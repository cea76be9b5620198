package mime

import (
	"testing"

	"github.com/indigo-web/formdata/http/status"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestComplies(t *testing.T) {
	for _, tc := range []string{"", JSON, JSON + ";", JSON + ";param", "Application/JSON"} {
		require.True(t, Complies(JSON, tc), tc)
	}

	require.False(t, Complies(JSON, Plain))
}

func TestBoundary(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		boundary, err := Boundary("multipart/form-data; boundary=----WebKitFormBoundary7MA4YWxkTrZu0gW")
		require.NoError(t, err)
		require.Equal(t, "----WebKitFormBoundary7MA4YWxkTrZu0gW", boundary)
	})

	t.Run("quoted", func(t *testing.T) {
		boundary, err := Boundary(`Multipart/Form-Data; charset=utf8; boundary="simple boundary"`)
		require.NoError(t, err)
		require.Equal(t, "simple boundary", boundary)
	})

	t.Run("not multipart", func(t *testing.T) {
		_, err := Boundary("application/json; boundary=abc")
		require.ErrorIs(t, err, status.ErrUnsupportedMediaType)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, tc := range []string{
			"multipart/form-data",
			"multipart/form-data; boundary=",
			"multipart/form-data; boundary=a; boundary=b",
			"multipart/form-data; boundary=" + string(make([]byte, 71)),
		} {
			_, err := Boundary(tc)
			require.ErrorIs(t, err, status.ErrBadRequest, tc)
		}
	})
}

func TestCharset(t *testing.T) {
	t.Run("utf8 is validated", func(t *testing.T) {
		enc, err := Lookup(UTF8)
		require.NoError(t, err)

		text, err := Decode([]byte("привіт"), enc)
		require.NoError(t, err)
		require.Equal(t, "привіт", text)

		_, err = Decode([]byte{0xff, 0xfe}, enc)
		require.ErrorIs(t, err, status.ErrBadEncoding)
	})

	t.Run("latin1 is genuine iso-8859-1", func(t *testing.T) {
		enc, err := Lookup("ISO-8859-1")
		require.NoError(t, err)
		require.Equal(t, charmap.ISO8859_1, enc)

		text, err := Decode([]byte{'c', 'a', 'f', 0xe9}, enc)
		require.NoError(t, err)
		require.Equal(t, "café", text)
	})

	t.Run("whatwg labels", func(t *testing.T) {
		enc, err := Lookup(CP1251)
		require.NoError(t, err)

		text, err := Decode([]byte{0xcf, 0xf0, 0xe8, 0xe2, 0xe5, 0xf2}, enc)
		require.NoError(t, err)
		require.Equal(t, "Привет", text)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Lookup("klingon")
		require.ErrorIs(t, err, status.ErrUnsupportedEncoding)
	})
}

func TestByFilename(t *testing.T) {
	require.Equal(t, CSV, ByFilename("report.CSV"))
	require.Equal(t, OctetStream, ByFilename("blob"))
}
