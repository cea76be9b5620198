package mime

import (
	"github.com/indigo-web/formdata/http/status"
	"github.com/indigo-web/formdata/internal/strutil"
)

type MIME = string

const (
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	CSV            MIME = "text/csv"
	XML            MIME = "text/xml"
	JSON           MIME = "application/json"
	YAML           MIME = "application/yaml"
	PDF            MIME = "application/pdf"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	Multipart      MIME = "multipart/form-data"
	ZIP            MIME = "application/zip"
	GZIP           MIME = "application/gzip"
	GIF            MIME = "image/gif"
	JPEG           MIME = "image/jpeg"
	PNG            MIME = "image/png"
	SVG            MIME = "image/svg+xml"
	WEBP           MIME = "image/webp"
)

// maxBoundaryLength is imposed by RFC 2046, 5.1.1.
const maxBoundaryLength = 70

// Complies returns whether two MIMEs are compatible. Empty MIME is
// considered compatible with any other MIME
func Complies(mime MIME, with string) bool {
	// get rid of parameters if any
	with, _ = strutil.CutHeader(with)
	return len(with) == 0 || strutil.CmpFold(with, mime)
}

// Boundary extracts the boundary token out of a multipart/form-data Content-Type value.
func Boundary(contentType string) (string, error) {
	value, params := strutil.CutHeader(contentType)
	if !strutil.CmpFold(value, Multipart) {
		return "", status.ErrUnsupportedMediaType
	}

	var boundary string

	for key, value := range strutil.WalkKV(params) {
		switch {
		case len(key) == 0:
			return "", status.ErrBadRequest
		case strutil.CmpFold(key, "boundary"):
			if len(boundary) != 0 {
				return "", status.ErrBadRequest
			}

			boundary = value
		}
	}

	if len(boundary) == 0 || len(boundary) > maxBoundaryLength {
		return "", status.ErrBadRequest
	}

	return boundary, nil
}
